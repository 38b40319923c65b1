package entity

// Item is one inventory item. FoundAt is stamped at parse time by the
// orchestrator's clock, not by the model; the value is immutable afterwards.
type Item struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	FoundAt     string `json:"foundAt"`
}

// Image is one generated illustration.
type Image struct {
	MimeType string `json:"mimeType"`
	Base64   string `json:"base64"`
	Prompt   string `json:"prompt,omitempty"`
}

// AssistantTurn is the structured result of one narrative turn. It is the
// only artifact handed to the HTTP layer and is immutable once assembled.
type AssistantTurn struct {
	StoryText        string    `json:"storyText"`
	SuggestedActions []string  `json:"suggestedActions"`
	NewItems         []Item    `json:"newItems"`
	Adventure        Adventure `json:"adventure"`
	Image            *Image    `json:"image,omitempty"`
}
