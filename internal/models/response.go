package models

import (
	"github.com/costwatch/costwatch/internal/analysis"
	"github.com/costwatch/costwatch/internal/analytics/recommend"
)

// HealthResponse represents health check response
type HealthResponse struct {
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
	Version   string `json:"version"`
}

// RecommendationsResponse is the body of GET /v1/trends/recommendations
type RecommendationsResponse struct {
	RunID           string          `json:"run_id"`
	AnalysisPeriod  analysis.Period `json:"analysis_period"`
	Recommendations recommend.Set   `json:"recommendations"`
}

// ErrorResponse represents error response
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

// ErrorDetail represents error details
type ErrorDetail struct {
	Code    string                 `json:"code"`
	Message string                 `json:"message"`
	Path    string                 `json:"path,omitempty"`
	Details map[string]interface{} `json:"details,omitempty"`
}
