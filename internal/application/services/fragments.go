package services

import (
	"github.com/tenderintel/backend/internal/application/decode"
	"github.com/tenderintel/backend/internal/domain/entities"
)

// fallbackContent marks a fragment whose raw output defeated every
// decoder tier. The composite result still carries the slot, clearly
// labeled, instead of failing the request.
const fallbackContent = "<extraction failed>"

// Decoded fragment shapes, one per generation task. Content is the
// guaranteed field: even the deepest fallback populates it.

type overviewFragment struct {
	Content         string `json:"content"`
	MatchPercentage int    `json:"match_percentage"`
	Rating          string `json:"rating"`
	Recommendation  string `json:"recommendation"`
}

type strengthsGapsFragment struct {
	Content   string   `json:"content"`
	Strengths []string `json:"strengths"`
	Gaps      []string `json:"gaps"`
}

type risksActionsFragment struct {
	Content       string   `json:"content"`
	Risks         []string `json:"risks"`
	Opportunities []string `json:"opportunities"`
	ActionItems   []string `json:"action_items"`
}

type budgetTimelineFragment struct {
	Content            string `json:"content"`
	BudgetAssessment   string `json:"budget_assessment"`
	TimelineAssessment string `json:"timeline_assessment"`
}

type matchingProductsFragment struct {
	Content          string                  `json:"content"`
	MatchingProducts []entities.ProductMatch `json:"matching_products"`
}

// analysisTask couples one prompt template to the decode-and-merge step
// for its slot. merge runs on the fan-in side, in fixed slot order.
type analysisTask struct {
	name   string
	system string
	merge  func(raw string, failed bool, out *entities.TenderAnalysis)
}

// analysisTasks is the fixed task table. Slot order here is the merge
// order, independent of completion order. A task that failed or whose
// output defeated every decoder tier contributes its minimal fallback
// fragment; sibling slots are untouched.
var analysisTasks = []analysisTask{
	{
		name:   "overview",
		system: overviewSystemPrompt,
		merge: func(raw string, failed bool, out *entities.TenderAnalysis) {
			frag := overviewFragment{}
			if failed || !decode.Into(raw, []string{"content", "match_percentage", "rating", "recommendation"}, &frag) {
				frag = overviewFragment{Content: fallbackContent}
			}
			if frag.Content == "" {
				frag.Content = fallbackContent
			}
			out.Summary = frag.Content
			out.MatchPercentage = clampPercent(frag.MatchPercentage)
			out.Rating = frag.Rating
			out.Recommendation = frag.Recommendation
		},
	},
	{
		name:   "strengths_gaps",
		system: strengthsGapsSystemPrompt,
		merge: func(raw string, failed bool, out *entities.TenderAnalysis) {
			frag := strengthsGapsFragment{}
			if failed || !decode.Into(raw, []string{"content", "strengths", "gaps"}, &frag) {
				frag = strengthsGapsFragment{Content: fallbackContent}
			}
			out.Strengths = emptyIfNil(frag.Strengths)
			out.Gaps = emptyIfNil(frag.Gaps)
		},
	},
	{
		name:   "risks_actions",
		system: risksActionsSystemPrompt,
		merge: func(raw string, failed bool, out *entities.TenderAnalysis) {
			frag := risksActionsFragment{}
			if failed || !decode.Into(raw, []string{"content", "risks", "opportunities", "action_items"}, &frag) {
				frag = risksActionsFragment{Content: fallbackContent}
			}
			out.Risks = emptyIfNil(frag.Risks)
			out.Opportunities = emptyIfNil(frag.Opportunities)
			out.ActionItems = emptyIfNil(frag.ActionItems)
		},
	},
	{
		name:   "budget_timeline",
		system: budgetTimelineSystemPrompt,
		merge: func(raw string, failed bool, out *entities.TenderAnalysis) {
			frag := budgetTimelineFragment{}
			if failed || !decode.Into(raw, []string{"content", "budget_assessment", "timeline_assessment"}, &frag) {
				frag = budgetTimelineFragment{Content: fallbackContent}
			}
			out.BudgetAssessment = frag.BudgetAssessment
			out.TimelineAssessment = frag.TimelineAssessment
		},
	},
	{
		name:   "matching_products",
		system: matchingProductsSystemPrompt,
		merge: func(raw string, failed bool, out *entities.TenderAnalysis) {
			frag := matchingProductsFragment{}
			if failed || !decode.Into(raw, []string{"content", "matching_products"}, &frag) {
				frag = matchingProductsFragment{Content: fallbackContent}
			}
			if frag.MatchingProducts == nil {
				frag.MatchingProducts = []entities.ProductMatch{}
			}
			for i := range frag.MatchingProducts {
				frag.MatchingProducts[i].Score = clampPercent(frag.MatchingProducts[i].Score)
			}
			out.MatchingProducts = frag.MatchingProducts
		},
	},
}

func clampPercent(v int) int {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}

func emptyIfNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
