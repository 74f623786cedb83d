package models

// ConversationMessage is one turn of a conversation, supplied by the caller
// when it wants the pipeline to be history-aware.
type ConversationMessage struct {
	Type      string `json:"type"` // "user" or "bot"
	Content   string `json:"content"`
	Timestamp string `json:"timestamp,omitempty"`
}

// ChatRequest is the body of a chat request.
type ChatRequest struct {
	Message             string                `json:"message"`
	Language            string                `json:"language,omitempty"` // "fr", "ar" or "" for auto
	ConversationID      string                `json:"conversation_id,omitempty"`
	ConversationHistory []ConversationMessage `json:"conversation_history,omitempty"`
}

// FollowUpQuestion asks the user for a missing detail before answering.
type FollowUpQuestion struct {
	Question string   `json:"question"`
	Options  []string `json:"options"`
}

// FormData describes an official RNE form suggested to the user.
type FormData struct {
	Code     string `json:"code"`
	Title    string `json:"title"`
	Subtitle string `json:"subtitle"`
	URL      string `json:"url"`
}

// ChatResponse is the pipeline's answer to a chat request.
type ChatResponse struct {
	Answer         string            `json:"answer"`
	FollowUp       *FollowUpQuestion `json:"follow_up,omitempty"`
	Suggestions    []string          `json:"suggestions"`
	Forms          []FormData        `json:"forms"`
	ConversationID string            `json:"conversation_id,omitempty"`
	Status         string            `json:"status"`
}

// ErrorResponse is returned when the pipeline fails entirely.
type ErrorResponse struct {
	Error  string `json:"error"`
	Status string `json:"status"`
}

// RAGResult is the outcome of answering one segmented question.
type RAGResult struct {
	Question   string  `json:"question"`
	Answer     string  `json:"answer"`
	Confidence float64 `json:"confidence"`
	Source     string  `json:"source"` // "index", "llm" or "fallback"
}
