package handlers_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/tenderintel/backend/internal/api/handlers"
	"github.com/tenderintel/backend/internal/domain/entities"
)

type MockQuestionService struct {
	mock.Mock
}

func (m *MockQuestionService) GenerateQuestions(ctx context.Context, userID, tenderID string) ([]*entities.TenderQuestion, error) {
	args := m.Called(ctx, userID, tenderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.TenderQuestion), args.Error(1)
}

func (m *MockQuestionService) ListQuestions(ctx context.Context, userID, tenderID string) ([]*entities.TenderQuestion, error) {
	args := m.Called(ctx, userID, tenderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.TenderQuestion), args.Error(1)
}

type questionsResponse struct {
	Questions []*entities.TenderQuestion `json:"questions"`
	Count     int                        `json:"count"`
}

func TestQuestionHandler_GenerateQuestions(t *testing.T) {
	mockService := new(MockQuestionService)
	handler := handlers.NewQuestionHandler(mockService)

	expected := []*entities.TenderQuestion{
		{ID: "q1", Question: "Is ISO 14001 mandatory?", Total: 8, Priority: entities.PriorityHigh, Position: 0},
		{ID: "q2", Question: "Scope of sidewalks?", Total: 3, Priority: entities.PriorityLow, Position: 1},
	}
	mockService.On("GenerateQuestions", mock.Anything, "user-1", "tender-1").Return(expected, nil)

	req := httptest.NewRequest("POST", "/api/tenders/tender-1/questions", nil)
	req.SetPathValue("id", "tender-1")
	req.Header.Set("X-User-ID", "user-1")
	w := httptest.NewRecorder()

	handler.GenerateQuestions(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp questionsResponse
	assert.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	assert.Equal(t, 2, resp.Count)
	assert.Equal(t, "q1", resp.Questions[0].ID)
	assert.Equal(t, entities.PriorityHigh, resp.Questions[0].Priority)
}

func TestQuestionHandler_ListQuestions(t *testing.T) {
	mockService := new(MockQuestionService)
	handler := handlers.NewQuestionHandler(mockService)

	mockService.On("ListQuestions", mock.Anything, "user-1", "tender-1").
		Return([]*entities.TenderQuestion{}, nil)

	req := httptest.NewRequest("GET", "/api/tenders/tender-1/questions", nil)
	req.SetPathValue("id", "tender-1")
	req.Header.Set("X-User-ID", "user-1")
	w := httptest.NewRecorder()

	handler.ListQuestions(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp questionsResponse
	assert.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	assert.Equal(t, 0, resp.Count)
	assert.NotNil(t, resp.Questions)
}

func TestQuestionHandler_MissingUserHeader(t *testing.T) {
	mockService := new(MockQuestionService)
	handler := handlers.NewQuestionHandler(mockService)

	req := httptest.NewRequest("POST", "/api/tenders/tender-1/questions", nil)
	req.SetPathValue("id", "tender-1")
	w := httptest.NewRecorder()

	handler.GenerateQuestions(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	mockService.AssertNotCalled(t, "GenerateQuestions")
}
