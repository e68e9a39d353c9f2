package domain

import "time"

// Message roles
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
	RoleSystem    = "system"
)

// Session represents a chat session
type Session struct {
	ID           string    `json:"id"`
	MessageCount int       `json:"message_count,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Message represents a chat message. Citations holds the source URLs returned
// by the answer API; CitationContents is keyed by the 1-based marker number
// used in Content (e.g. "[1]").
type Message struct {
	ID               string                     `json:"id"`
	SessionID        string                     `json:"session_id"`
	Role             string                     `json:"role"` // user, assistant, system
	Content          string                     `json:"content"`
	Citations        []string                   `json:"citations,omitempty"`
	CitationContents map[int]*ExtractedCitation `json:"citation_contents,omitempty"`
	CreatedAt        time.Time                  `json:"created_at"`
}

// ExtractedCitation is a cited page together with its screenshot and the
// regions of it that back the answer.
type ExtractedCitation struct {
	URL             string      `json:"url"`
	RelevantContent string      `json:"relevant_content"`
	Explanation     string      `json:"explanation"`
	ScreenshotURL   string      `json:"screenshot_url"`
	Highlights      []Highlight `json:"highlights"`
}

// ChatRequest is the request to send a chat message
type ChatRequest struct {
	SessionID string `json:"session_id,omitempty"`
	Message   string `json:"message" binding:"required"`
}

// ChatResponse is the response from a chat message
type ChatResponse struct {
	SessionID string   `json:"session_id"`
	Message   *Message `json:"message"`
	// Error carries the upstream failure text when the answer call failed.
	Error string `json:"error,omitempty"`
}

// Loading statuses reported while a chat turn is processed
const (
	StatusIdle                = "idle"
	StatusThinking            = "thinking"
	StatusTakingScreenshot    = "taking-screenshot"
	StatusProcessingCitations = "processing-citations"
)

// LoadingState describes the step a chat turn is currently in
type LoadingState struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

// StreamChunk represents a chunk in SSE stream
type StreamChunk struct {
	Type    string        `json:"type"` // status, message, done, error
	Status  *LoadingState `json:"status,omitempty"`
	Message *Message      `json:"message,omitempty"`
	Content string        `json:"content,omitempty"`
}

// Stats represents system statistics
type Stats struct {
	TotalSessions    int `json:"total_sessions"`
	TotalChats       int `json:"total_chats"`
	AnnotatedAnswers int `json:"annotated_answers"`
}
