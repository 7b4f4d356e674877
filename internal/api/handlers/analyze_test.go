package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/sgd-labs/docintel/internal/domain"
	"github.com/sgd-labs/docintel/internal/soft"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockTextAnalyzer struct {
	mock.Mock
}

func (m *MockTextAnalyzer) Analyze(ctx context.Context, text string) (*domain.NLPAnalysis, error) {
	args := m.Called(ctx, text)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.NLPAnalysis), args.Error(1)
}

type MockTextSummarizer struct {
	mock.Mock
}

func (m *MockTextSummarizer) Summarize(ctx context.Context, text string, maxTokens int) soft.Result[string] {
	args := m.Called(ctx, text, maxTokens)
	return args.Get(0).(soft.Result[string])
}

type MockTextClassifier struct {
	mock.Mock
}

func (m *MockTextClassifier) Classify(text, title string) soft.Result[domain.ClassificationResult] {
	args := m.Called(text, title)
	return args.Get(0).(soft.Result[domain.ClassificationResult])
}

func TestAnalyzeHandler_Analyze_Success(t *testing.T) {
	mockAnalyzer := new(MockTextAnalyzer)
	mockSummarizer := new(MockTextSummarizer)
	mockClassifier := new(MockTextClassifier)
	handler := NewAnalyzeHandler(mockAnalyzer, mockSummarizer, mockClassifier)

	text := "Invoice for services rendered to Acme Corp."
	mockAnalyzer.On("Analyze", mock.Anything, text).Return(&domain.NLPAnalysis{
		Language:  domain.LanguageEnglish,
		Entities:  map[string][]string{"ORG": {"Acme Corp"}},
		Sentiment: map[string]float64{"positive": 0.5, "negative": 0.3, "neutral": 0.2},
		Keywords:  []string{"invoice", "services"},
	}, nil)
	mockSummarizer.On("Summarize", mock.Anything, text, 0).Return(soft.Ok("An invoice for Acme Corp."))
	mockClassifier.On("Classify", text, "").Return(soft.Ok(domain.ClassificationResult{
		Category:   "invoice",
		Confidence: 0.8,
		Tags:       []string{"finance"},
	}))

	body, _ := json.Marshal(AnalyzeRequest{Text: text})
	req := httptest.NewRequest(http.MethodPost, "/analyze", strings.NewReader(string(body)))
	w := httptest.NewRecorder()

	handler.Analyze(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	data := resp["data"].(map[string]interface{})
	assert.Equal(t, "en", data["language"])
	assert.Equal(t, "invoice", data["category"])
	assert.Equal(t, "An invoice for Acme Corp.", data["summary"])
	mockAnalyzer.AssertExpectations(t)
}

func TestAnalyzeHandler_Analyze_EmptyText(t *testing.T) {
	handler := NewAnalyzeHandler(new(MockTextAnalyzer), new(MockTextSummarizer), new(MockTextClassifier))

	req := httptest.NewRequest(http.MethodPost, "/analyze", strings.NewReader(`{"text":"  "}`))
	w := httptest.NewRecorder()

	handler.Analyze(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAnalyzeHandler_Analyze_AnalysisFailure(t *testing.T) {
	mockAnalyzer := new(MockTextAnalyzer)
	handler := NewAnalyzeHandler(mockAnalyzer, new(MockTextSummarizer), new(MockTextClassifier))

	mockAnalyzer.On("Analyze", mock.Anything, mock.Anything).
		Return(nil, domain.NewAnalysisError(assert.AnError))

	req := httptest.NewRequest(http.MethodPost, "/analyze", strings.NewReader(`{"text":"hello"}`))
	w := httptest.NewRecorder()

	handler.Analyze(w, req)

	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
}

func TestAnalyzeHandler_Analyze_DegradedSummaryStillSucceeds(t *testing.T) {
	mockAnalyzer := new(MockTextAnalyzer)
	mockSummarizer := new(MockTextSummarizer)
	mockClassifier := new(MockTextClassifier)
	handler := NewAnalyzeHandler(mockAnalyzer, mockSummarizer, mockClassifier)

	mockAnalyzer.On("Analyze", mock.Anything, mock.Anything).Return(&domain.NLPAnalysis{
		Language:  domain.LanguageEnglish,
		Entities:  map[string][]string{},
		Sentiment: map[string]float64{},
	}, nil)
	mockSummarizer.On("Summarize", mock.Anything, mock.Anything, 0).
		Return(soft.Degraded("Summary generation failed", assert.AnError))
	mockClassifier.On("Classify", mock.Anything, "").
		Return(soft.Ok(domain.ClassificationResult{Category: "general", Confidence: 0.1}))

	req := httptest.NewRequest(http.MethodPost, "/analyze", strings.NewReader(`{"text":"hello"}`))
	w := httptest.NewRecorder()

	handler.Analyze(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	data := resp["data"].(map[string]interface{})
	assert.Equal(t, "Summary generation failed", data["summary"])
}
