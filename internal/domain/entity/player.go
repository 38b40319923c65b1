// Package entity defines the domain model.
package entity

// Player is the caller-supplied player profile. It is never persisted; the
// client carries the full profile on every turn.
type Player struct {
	Name                string               `json:"name"`
	HouseName           string               `json:"houseName"`
	Inventory           []Item               `json:"inventory,omitempty"`
	CompletedAdventures []CompletedAdventure `json:"completedAdventures,omitempty"`
	Stats               *Stats               `json:"stats,omitempty"`
}

// CompletedAdventure is one finished story arc the player remembers.
type CompletedAdventure struct {
	Title       string `json:"title"`
	Summary     string `json:"summary"`
	CompletedAt string `json:"completedAt"`
}

// Stats are aggregate player counters maintained by the client.
type Stats struct {
	AdventuresCompleted int `json:"adventuresCompleted"`
	TotalTurns          int `json:"totalTurns"`
}
