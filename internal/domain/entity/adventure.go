package entity

// Adventure is the state of the enclosing story arc after one turn.
// Completed flips false to true exactly once, on the turn whose raw
// completion contains the end marker; it is never reset.
type Adventure struct {
	Title       string `json:"title,omitempty"`
	Completed   bool   `json:"completed"`
	Summary     string `json:"summary,omitempty"`
	CompletedAt string `json:"completedAt,omitempty"`
}

// CurrentAdventure is the caller-supplied hint about the running arc.
type CurrentAdventure struct {
	Title     string `json:"title,omitempty"`
	StartedAt string `json:"startedAt,omitempty"`
}
