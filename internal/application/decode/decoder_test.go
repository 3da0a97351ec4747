package decode

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type summaryDoc struct {
	Content         string   `json:"content"`
	MatchPercentage float64  `json:"match_percentage"`
	Strengths       []string `json:"strengths"`
}

var summaryFields = []string{"content", "match_percentage", "strengths"}

func TestInto_StrictJSON(t *testing.T) {
	raw := `{"content": "Strong fit for the tender.", "match_percentage": 72.5, "strengths": ["ISO certification"]}`

	doc := summaryDoc{}
	require.True(t, Into(raw, summaryFields, &doc))
	assert.Equal(t, "Strong fit for the tender.", doc.Content)
	assert.Equal(t, 72.5, doc.MatchPercentage)
	assert.Equal(t, []string{"ISO certification"}, doc.Strengths)
}

func TestInto_FencedJSON(t *testing.T) {
	raw := "```json\n{\"content\": \"fenced\", \"match_percentage\": 50}\n```"

	doc := summaryDoc{}
	require.True(t, Into(raw, summaryFields, &doc))
	assert.Equal(t, "fenced", doc.Content)
	assert.Equal(t, 50.0, doc.MatchPercentage)
}

func TestInto_FenceWithoutLanguageTag(t *testing.T) {
	raw := "```\n{\"content\": \"plain fence\"}\n```"

	doc := summaryDoc{}
	require.True(t, Into(raw, summaryFields, &doc))
	assert.Equal(t, "plain fence", doc.Content)
}

func TestInto_TrailingCommentary(t *testing.T) {
	raw := `{"content": "the object"} Let me know if you need anything else!`

	doc := summaryDoc{}
	require.True(t, Into(raw, summaryFields, &doc))
	assert.Equal(t, "the object", doc.Content)
}

func TestInto_LeadingProse(t *testing.T) {
	raw := `Here is the requested assessment:
{"content": "after prose", "match_percentage": 12}`

	doc := summaryDoc{}
	require.True(t, Into(raw, summaryFields, &doc))
	assert.Equal(t, "after prose", doc.Content)
	assert.Equal(t, 12.0, doc.MatchPercentage)
}

func TestInto_NestedObjectSpan(t *testing.T) {
	// Balanced-span extraction must not stop at the inner close brace.
	raw := `noise {"content": "outer", "meta": {"inner": true}} noise`

	doc := map[string]interface{}{}
	require.True(t, Into(raw, nil, &doc))
	assert.Equal(t, "outer", doc["content"])
}

func TestInto_BracesInsideStrings(t *testing.T) {
	raw := `{"content": "uses { and } literally"} trailing`

	doc := summaryDoc{}
	require.True(t, Into(raw, summaryFields, &doc))
	assert.Equal(t, "uses { and } literally", doc.Content)
}

func TestInto_RawNewlinesInString(t *testing.T) {
	raw := "{\"content\": \"line one\nline two\"}"

	doc := summaryDoc{}
	require.True(t, Into(raw, summaryFields, &doc))
	assert.Equal(t, "line one\nline two", doc.Content)
}

func TestInto_SmartQuotesAndTrailingComma(t *testing.T) {
	raw := "{“content”: “fancy”, \"strengths\": [\"a\", \"b\",],}"

	doc := summaryDoc{}
	require.True(t, Into(raw, summaryFields, &doc))
	assert.Equal(t, "fancy", doc.Content)
	assert.Equal(t, []string{"a", "b"}, doc.Strengths)
}

func TestInto_ControlCharacters(t *testing.T) {
	raw := "{\"content\": \"has\ta tab and\rreturn\"}"

	doc := summaryDoc{}
	require.True(t, Into(raw, summaryFields, &doc))
	assert.Equal(t, "has\ta tab andreturn", doc.Content)
}

func TestInto_FieldExtraction(t *testing.T) {
	// Structurally broken beyond repair, but individual fields are
	// still recognizable.
	raw := `The summary: "content": "salvaged text", oh and "match_percentage": 33 {{{`

	doc := summaryDoc{}
	require.True(t, Into(raw, summaryFields, &doc))
	assert.Equal(t, "salvaged text", doc.Content)
	assert.Equal(t, 33.0, doc.MatchPercentage)
}

func TestInto_FieldExtractionArray(t *testing.T) {
	raw := `broken { "strengths": ["local presence", "price"], and then it cuts of`

	doc := summaryDoc{}
	require.True(t, Into(raw, summaryFields, &doc))
	assert.Equal(t, []string{"local presence", "price"}, doc.Strengths)
}

func TestInto_EscapedQuotesInExtractedString(t *testing.T) {
	raw := `garbage "content": "said \"hello\" politely", garbage`

	doc := summaryDoc{}
	require.True(t, Into(raw, summaryFields, &doc))
	assert.Equal(t, `said "hello" politely`, doc.Content)
}

func TestInto_UnsalvageableInputReportsFalse(t *testing.T) {
	doc := summaryDoc{Content: "previous"}
	assert.False(t, Into("complete nonsense with no fields at all", summaryFields, &doc))
	assert.Equal(t, "previous", doc.Content)
}

func TestInto_FailedDecodeMayPartiallyPopulateTarget(t *testing.T) {
	// Valid JSON with a type mismatch: encoding/json fills the fields it
	// can before reporting the error, so on a false return the target's
	// fields are unspecified and callers must discard it.
	raw := `{"match_percentage": 60, "content": ["not", "a", "string"]}`

	doc := summaryDoc{Content: "previous"}
	require.False(t, Into(raw, summaryFields, &doc))
	assert.Equal(t, 60.0, doc.MatchPercentage)
	assert.Equal(t, "previous", doc.Content)
}

func TestInto_EmptyInput(t *testing.T) {
	doc := summaryDoc{}
	assert.False(t, Into("", summaryFields, &doc))
	assert.False(t, Into("   \n\t  ", summaryFields, &doc))
}

func TestInto_ArbitraryBytesNeverPanic(t *testing.T) {
	inputs := []string{
		"\x00\x01\x02",
		"{{{{{{{",
		"}}}}}",
		`{"unterminated": "`,
		"```",
		"``````",
		"\xff\xfe invalid utf8 {\"content\": 1}",
		`[1,2,3]`,
		`"just a string"`,
	}
	for _, raw := range inputs {
		doc := summaryDoc{}
		assert.NotPanics(t, func() { Into(raw, summaryFields, &doc) })
	}
}

func TestInto_Deterministic(t *testing.T) {
	raw := "```json\n{“content”: “same”, \"match_percentage\": 88,}\n``` extra"

	first := summaryDoc{}
	require.True(t, Into(raw, summaryFields, &first))
	for i := 0; i < 5; i++ {
		repeat := summaryDoc{}
		require.True(t, Into(raw, summaryFields, &repeat))
		assert.Equal(t, first, repeat)
	}
}

func TestBalancedObject(t *testing.T) {
	span, ok := balancedObject(`pre {"a": {"b": 1}} post`)
	require.True(t, ok)
	assert.Equal(t, `{"a": {"b": 1}}`, span)

	_, ok = balancedObject("no object here")
	assert.False(t, ok)

	_, ok = balancedObject(`{"never": "closed"`)
	assert.False(t, ok)
}

func TestStripFences_KeepsInlineBraceLine(t *testing.T) {
	// An opening fence directly followed by the object must not lose
	// the first line.
	raw := "```{\"content\": \"inline\"}```"
	assert.Equal(t, `{"content": "inline"}`, stripFences(raw))
}
