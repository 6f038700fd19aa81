package models

// Suggestion is a backend-computed recommendation, displayed read-only.
type Suggestion struct {
	Symbol        string    `json:"symbol"`
	Action        string    `json:"action"`
	CurrentPrice  NullFloat `json:"current_price"`
	ChangePercent NullFloat `json:"change_percent"`
	Reason        string    `json:"reason"`
	Confidence    NullFloat `json:"confidence"`
	LastUpdated   string    `json:"last_updated"`
	Error         string    `json:"error,omitempty"`
}

type NewsArticle struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Image       string `json:"image"`
	URL         string `json:"url"`
	Source      string `json:"source"`
	PublishedAt string `json:"publishedAt,omitempty"`
}

// Response is the envelope of every JSON reply.
type Response struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Error   any    `json:"error"`
	Data    any    `json:"data"`
}
