package model

// Conversation stores one chat thread with the assistant. Messages is a JSON
// array of {role, content} objects kept verbatim from the API layer.
type Conversation struct {
	ID        int    `gorm:"primaryKey" json:"id"`
	Title     string `gorm:"default:Untitled" json:"title"`
	Messages  string `json:"-"`
	CreatedAt string `json:"created_at"`
	UpdatedAt string `json:"updated_at"`
}

// Message is a single chat turn.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}
