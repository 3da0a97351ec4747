package services

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/tenderintel/backend/internal/domain/entities"
)

// promptContext is the immutable snapshot shared by every generation
// task of one request. Tasks only read it, so the fan-out needs no
// locking.
type promptContext struct {
	tender    *entities.Tender
	matches   []entities.CapabilityMatch
	companies []*entities.Company
	products  []*entities.Product
}

const analysisSystemPreamble = `You are a procurement bid analyst. You evaluate how well a supplier's declared companies and products fit a public tender. Base every statement strictly on the supplied tender and capability data. Return ONLY valid JSON matching the requested schema, with no markdown fences and no commentary.`

const overviewSystemPrompt = analysisSystemPreamble + `
Schema:
{
  "content": string (2-4 sentence executive summary),
  "match_percentage": integer 0-100 (overall fit),
  "rating": string (one of: "excellent", "good", "moderate", "weak"),
  "recommendation": string (one sentence: bid / bid with caveats / do not bid, with reason)
}`

const strengthsGapsSystemPrompt = analysisSystemPreamble + `
Schema:
{
  "content": string (1-2 sentence overview),
  "strengths": string[] (2-6 concrete strengths versus the tender requirements),
  "gaps": string[] (2-6 concrete capability gaps or missing evidence)
}`

const risksActionsSystemPrompt = analysisSystemPreamble + `
Schema:
{
  "content": string (1-2 sentence overview),
  "risks": string[] (2-5 bid risks),
  "opportunities": string[] (1-4 opportunities to stand out),
  "action_items": string[] (2-6 concrete preparation actions)
}`

const budgetTimelineSystemPrompt = analysisSystemPreamble + `
Schema:
{
  "content": string (1-2 sentence overview),
  "budget_assessment": string (how the tender budget relates to the supplier's offering),
  "timeline_assessment": string (feasibility of the deadlines)
}`

const matchingProductsSystemPrompt = analysisSystemPreamble + `
Schema:
{
  "content": string (1-2 sentence overview),
  "matching_products": [
    {"name": string (product or company name from the capability data),
     "score": integer 0-100 (fit for this tender),
     "note": string (one sentence on why)}
  ]
}
Only list items that appear in the supplied capability data. Return an empty array when nothing fits.`

const questionsSystemPrompt = `You are a procurement bid analyst preparing clarification questions for a tender. Identify ambiguities, risky requirements and missing information a bidder must resolve. Return ONLY valid JSON, no markdown fences, matching:
{
  "questions": [
    {"category": string (e.g. "eligibility", "technical", "commercial", "legal", "timeline"),
     "question": string (the issue phrased as a question to the buyer),
     "knock_out_risk": integer 0-3,
     "scoring_impact": integer 0-3,
     "financial_impact": integer 0-3,
     "schedule_impact": integer 0-3,
     "evidence_burden": integer 0-3,
     "suggestion": string (one sentence on how to handle it)}
  ]
}
Factors: 0 = none, 1 = low, 2 = medium, 3 = severe.`

// renderTender flattens the tender into prompt text. Open key-value
// trees are passed through as compact JSON rather than re-interpreted.
func renderTender(t *entities.Tender) string {
	var b strings.Builder
	fmt.Fprintf(&b, "TENDER\nTitle: %s\n", t.Title)
	if t.Description != "" {
		fmt.Fprintf(&b, "Description: %s\n", t.Description)
	}
	if len(t.Categories) > 0 {
		fmt.Fprintf(&b, "Categories: %s\n", strings.Join(t.Categories, ", "))
	}
	if len(t.Jurisdictions) > 0 {
		fmt.Fprintf(&b, "Jurisdictions: %s\n", strings.Join(t.Jurisdictions, ", "))
	}
	writeTree(&b, "Requirements", t.Requirements)
	writeTree(&b, "Specifications", t.Specifications)
	writeTree(&b, "Evaluation criteria", t.EvaluationCriteria)
	writeTree(&b, "Deadlines", t.Deadlines)
	writeTree(&b, "Budget", t.Budget)
	return b.String()
}

func writeTree(b *strings.Builder, label string, tree entities.JSONMap) {
	if len(tree) == 0 {
		return
	}
	data, err := json.Marshal(tree)
	if err != nil {
		return
	}
	fmt.Fprintf(b, "%s: %s\n", label, data)
}

// renderCapabilities flattens the resolved capability profiles and
// their similarity scores into prompt text.
func renderCapabilities(pc *promptContext) string {
	var b strings.Builder

	if len(pc.matches) == 0 {
		b.WriteString("CAPABILITY MATCHES\nNone found. The supplier has no indexed capability records matching this tender.\n")
		return b.String()
	}

	b.WriteString("CAPABILITY MATCHES (by similarity)\n")
	for _, m := range pc.matches {
		fmt.Fprintf(&b, "- %s %q (similarity %.2f)\n", m.Kind, m.Name, m.Score)
	}

	for _, c := range pc.companies {
		fmt.Fprintf(&b, "\nCOMPANY %q\n", c.Name)
		if c.Description != "" {
			fmt.Fprintf(&b, "Description: %s\n", c.Description)
		}
		if len(c.Capabilities) > 0 {
			fmt.Fprintf(&b, "Capabilities: %s\n", strings.Join(c.Capabilities, ", "))
		}
		writeTree(&b, "Specifications", c.Specifications)
	}

	for _, p := range pc.products {
		fmt.Fprintf(&b, "\nPRODUCT %q\n", p.Name)
		if p.Description != "" {
			fmt.Fprintf(&b, "Description: %s\n", p.Description)
		}
		if len(p.Features) > 0 {
			fmt.Fprintf(&b, "Features: %s\n", strings.Join(p.Features, ", "))
		}
		writeTree(&b, "Specifications", p.Specifications)
	}

	return b.String()
}

func buildUserPrompt(pc *promptContext) string {
	return renderTender(pc.tender) + "\n" + renderCapabilities(pc)
}
