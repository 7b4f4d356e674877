package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/sgd-labs/docintel/internal/api"
	"github.com/sgd-labs/docintel/internal/domain"
	"github.com/sgd-labs/docintel/internal/soft"
)

// TextAnalyzer runs the NLP analysis over raw text.
type TextAnalyzer interface {
	Analyze(ctx context.Context, text string) (*domain.NLPAnalysis, error)
}

// TextSummarizer produces a best-effort summary of raw text.
type TextSummarizer interface {
	Summarize(ctx context.Context, text string, maxTokens int) soft.Result[string]
}

// TextClassifier produces a best-effort category and tag assignment.
type TextClassifier interface {
	Classify(text, title string) soft.Result[domain.ClassificationResult]
}

// AnalyzeHandler serves ad-hoc text analysis without a stored document.
type AnalyzeHandler struct {
	analyzer   TextAnalyzer
	summarizer TextSummarizer
	classifier TextClassifier
}

func NewAnalyzeHandler(analyzer TextAnalyzer, summarizer TextSummarizer, classifier TextClassifier) *AnalyzeHandler {
	return &AnalyzeHandler{analyzer: analyzer, summarizer: summarizer, classifier: classifier}
}

type AnalyzeRequest struct {
	Text string `json:"text"`
}

type AnalyzeResponse struct {
	Language   string              `json:"language"`
	Entities   map[string][]string `json:"entities"`
	Sentiment  map[string]float64  `json:"sentiment"`
	Keywords   []string            `json:"keywords"`
	Category   string              `json:"category"`
	Confidence float64             `json:"confidence"`
	Tags       []string            `json:"tags"`
	Summary    string              `json:"summary"`
}

func (h *AnalyzeHandler) Analyze(w http.ResponseWriter, r *http.Request) {
	var req AnalyzeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		api.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if strings.TrimSpace(req.Text) == "" {
		api.Error(w, http.StatusBadRequest, "text is required")
		return
	}

	analysis, err := h.analyzer.Analyze(r.Context(), req.Text)
	if err != nil {
		api.HandleError(w, err)
		return
	}

	summary := h.summarizer.Summarize(r.Context(), req.Text, 0)
	classification := h.classifier.Classify(req.Text, "").Value()

	api.Success(w, http.StatusOK, AnalyzeResponse{
		Language:   string(analysis.Language),
		Entities:   analysis.Entities,
		Sentiment:  analysis.Sentiment,
		Keywords:   analysis.Keywords,
		Category:   classification.Category,
		Confidence: classification.Confidence,
		Tags:       classification.Tags,
		Summary:    summary.Value(),
	})
}
