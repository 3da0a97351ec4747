package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tenderintel/backend/internal/domain/entities"
	apperrors "github.com/tenderintel/backend/pkg/errors"
)

func newQuestionServiceForTest(gen *fakeGenerator, questionRepo *fakeQuestionRepo) *TenderQuestionService {
	return NewTenderQuestionService(
		newFakeTenderRepo(testTender()),
		newFakeCapabilityRepo(),
		questionRepo,
		NewCapabilityRetrievalService(newFakeSearchRepo()),
		gen,
		10,
		time.Second,
	)
}

const questionSetResponse = `{
	"content": "three issues found",
	"questions": [
		{"category": "qualification", "question": "Is ISO 14001 a hard requirement?", "knock_out_risk": 3, "scoring_impact": 2, "financial_impact": 1, "schedule_impact": 0, "evidence_burden": 2, "suggestion": "Ask in the Q&A round."},
		{"category": "scope", "question": "Does winter maintenance include sidewalks?", "knock_out_risk": 0, "scoring_impact": 1, "financial_impact": 2, "schedule_impact": 0, "evidence_burden": 0, "suggestion": "Clarify scope."},
		{"category": "timeline", "question": "Can mobilization start before contract award?", "knock_out_risk": 0, "scoring_impact": 0, "financial_impact": 0, "schedule_impact": 1, "evidence_burden": 0, "suggestion": ""}
	]
}`

func TestGenerateQuestions_ScoresSortsAndPersists(t *testing.T) {
	gen := newFakeGenerator()
	gen.responses[questionsSystemPrompt] = questionSetResponse
	questionRepo := newFakeQuestionRepo()
	svc := newQuestionServiceForTest(gen, questionRepo)

	questions, err := svc.GenerateQuestions(context.Background(), testUserID, testTenderID)

	require.NoError(t, err)
	require.Len(t, questions, 3)

	// Totals 8, 3, 1 in descending order.
	assert.Equal(t, "Is ISO 14001 a hard requirement?", questions[0].Question)
	assert.Equal(t, 8, questions[0].Total)
	assert.Equal(t, entities.PriorityHigh, questions[0].Priority)
	assert.Equal(t, 3, questions[1].Total)
	assert.Equal(t, entities.PriorityLow, questions[1].Priority)
	assert.Equal(t, 1, questions[2].Total)

	for i, q := range questions {
		assert.Equal(t, i, q.Position)
		assert.Equal(t, testUserID, q.UserID)
		assert.Equal(t, testTenderID, q.TenderID)
		assert.NotEmpty(t, q.ID)
	}

	// The stored set is the returned set.
	assert.Equal(t, 1, questionRepo.replaces)
	stored, _ := questionRepo.ListByUserAndTender(context.Background(), testUserID, testTenderID)
	assert.Equal(t, questions, stored)
}

func TestGenerateQuestions_ReplacesPreviousSet(t *testing.T) {
	gen := newFakeGenerator()
	gen.responses[questionsSystemPrompt] = questionSetResponse
	questionRepo := newFakeQuestionRepo()
	questionRepo.sets[analysisKey(testUserID, testTenderID)] = []*entities.TenderQuestion{
		{ID: "old-1", Question: "stale question"},
	}
	svc := newQuestionServiceForTest(gen, questionRepo)

	questions, err := svc.GenerateQuestions(context.Background(), testUserID, testTenderID)

	require.NoError(t, err)
	stored, _ := questionRepo.ListByUserAndTender(context.Background(), testUserID, testTenderID)
	require.Len(t, stored, 3)
	for _, q := range stored {
		assert.NotEqual(t, "old-1", q.ID)
	}
	assert.Equal(t, questions, stored)
}

func TestGenerateQuestions_ClampsFactors(t *testing.T) {
	gen := newFakeGenerator()
	gen.responses[questionsSystemPrompt] = `{"questions": [{"question": "overshoot", "knock_out_risk": 9, "scoring_impact": -2}]}`
	svc := newQuestionServiceForTest(gen, newFakeQuestionRepo())

	questions, err := svc.GenerateQuestions(context.Background(), testUserID, testTenderID)

	require.NoError(t, err)
	require.Len(t, questions, 1)
	assert.Equal(t, 3, questions[0].KnockOutRisk)
	assert.Equal(t, 0, questions[0].ScoringImpact)
	assert.Equal(t, 3, questions[0].Total)
}

func TestGenerateQuestions_SkipsEntriesWithoutQuestionText(t *testing.T) {
	gen := newFakeGenerator()
	gen.responses[questionsSystemPrompt] = `{"questions": [{"question": "", "knock_out_risk": 3}, {"question": "kept"}]}`
	svc := newQuestionServiceForTest(gen, newFakeQuestionRepo())

	questions, err := svc.GenerateQuestions(context.Background(), testUserID, testTenderID)

	require.NoError(t, err)
	require.Len(t, questions, 1)
	assert.Equal(t, "kept", questions[0].Question)
}

func TestGenerateQuestions_GenerationFailureKeepsStoredSet(t *testing.T) {
	gen := newFakeGenerator()
	gen.errs[questionsSystemPrompt] = errors.New("timeout")
	questionRepo := newFakeQuestionRepo()
	prior := []*entities.TenderQuestion{
		{ID: "q-prior", UserID: testUserID, TenderID: testTenderID, Question: "Is ISO 9001 required?", Total: 5},
	}
	questionRepo.sets[analysisKey(testUserID, testTenderID)] = prior
	svc := newQuestionServiceForTest(gen, questionRepo)

	questions, err := svc.GenerateQuestions(context.Background(), testUserID, testTenderID)

	require.NoError(t, err)
	require.Len(t, questions, 1)
	assert.Equal(t, "q-prior", questions[0].ID)
	assert.Equal(t, 0, questionRepo.replaces, "a failed generation must not replace the stored set")
}

func TestGenerateQuestions_UndecodableOutputStoresEmptySet(t *testing.T) {
	gen := newFakeGenerator()
	gen.responses[questionsSystemPrompt] = "no structured data whatsoever"
	questionRepo := newFakeQuestionRepo()
	svc := newQuestionServiceForTest(gen, questionRepo)

	questions, err := svc.GenerateQuestions(context.Background(), testUserID, testTenderID)

	require.NoError(t, err)
	assert.Empty(t, questions)
	assert.Equal(t, 1, questionRepo.replaces)
}

func TestGenerateQuestions_PersistFailureStillReturnsSet(t *testing.T) {
	gen := newFakeGenerator()
	gen.responses[questionsSystemPrompt] = questionSetResponse
	questionRepo := newFakeQuestionRepo()
	questionRepo.replaceErr = errors.New("deadlock detected")
	svc := newQuestionServiceForTest(gen, questionRepo)

	questions, err := svc.GenerateQuestions(context.Background(), testUserID, testTenderID)

	require.NoError(t, err)
	assert.Len(t, questions, 3)
}

func TestGenerateQuestions_TenderOwnedByOtherUser(t *testing.T) {
	svc := newQuestionServiceForTest(newFakeGenerator(), newFakeQuestionRepo())

	_, err := svc.GenerateQuestions(context.Background(), "someone-else", testTenderID)

	require.Error(t, err)
	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeNotFound))
}

func TestGenerateQuestions_Validation(t *testing.T) {
	svc := newQuestionServiceForTest(newFakeGenerator(), newFakeQuestionRepo())

	_, err := svc.GenerateQuestions(context.Background(), "", testTenderID)
	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeValidation))

	_, err = svc.GenerateQuestions(context.Background(), testUserID, "")
	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeValidation))
}

func TestListQuestions_ReturnsStoredSet(t *testing.T) {
	questionRepo := newFakeQuestionRepo()
	stored := []*entities.TenderQuestion{{ID: "q1", Question: "stored"}}
	questionRepo.sets[analysisKey(testUserID, testTenderID)] = stored
	svc := newQuestionServiceForTest(newFakeGenerator(), questionRepo)

	questions, err := svc.ListQuestions(context.Background(), testUserID, testTenderID)

	require.NoError(t, err)
	assert.Equal(t, stored, questions)
}
