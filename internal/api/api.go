// Package api holds the JSON types exchanged between the assistant backend
// and its clients.
package api

const (
	ActionNext  = "next"
	DefaultLang = "en"
)

type ChatRequest struct {
	Message   string  `json:"message"`
	Lang      string  `json:"lang"`
	SessionID *string `json:"session_id,omitempty"`
	Action    *string `json:"action,omitempty"`
}

// Normalize fills the defaults an omitted field would have.
func (r *ChatRequest) Normalize() {
	if r.Lang == "" {
		r.Lang = DefaultLang
	}
}

func (r ChatRequest) IsNext() bool {
	return r.Action != nil && *r.Action == ActionNext
}

func (r ChatRequest) Session() string {
	if r.SessionID == nil {
		return ""
	}
	return *r.SessionID
}

type ChatResponse struct {
	SessionID        string `json:"session_id"`
	Text             string `json:"text"`
	FollowupQuestion string `json:"followup_question,omitempty"`
	Awaiting         bool   `json:"awaiting"`
	HasNext          bool   `json:"has_next"`
	Done             bool   `json:"done"`
}

type HealthResponse struct {
	Status string `json:"status"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}
