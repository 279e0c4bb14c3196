package model

import "encoding/json"

const (
	RoleSystem = "system"
	RoleUser   = "user"
)

// AnalysisRequest is the body of the process-file function.
type AnalysisRequest struct {
	FileContent string `json:"fileContent"`
	FileName    string `json:"fileName"`
	Query       string `json:"query"`
}

type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// AnalysisResponse is returned verbatim to the caller. ChartData holds the
// chart object exactly as found in the completion; nil encodes as null.
type AnalysisResponse struct {
	Response  string          `json:"response"`
	ChartData json.RawMessage `json:"chartData"`
}

// ChartSpec is the chart shape the system prompt asks the model for.
type ChartSpec struct {
	Type     string         `json:"type"`
	Labels   []string       `json:"labels"`
	Datasets []ChartDataset `json:"datasets"`
}

type ChartDataset struct {
	Label string    `json:"label"`
	Data  []float64 `json:"data"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}

type SignupRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type LoginResponse struct {
	Token string `json:"token"`
	User  User   `json:"user"`
}

type AskRequest struct {
	FileID *int64 `json:"fileId,omitempty"`
	Query  string `json:"query"`
}

// ChartSummary is a dashboard row: a stored query that carried chart data.
type ChartSummary struct {
	QueryID   int64      `json:"queryId"`
	QueryText string     `json:"queryText"`
	Chart     *ChartSpec `json:"chart"`
}
