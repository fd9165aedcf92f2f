package models

import "context"

// RosterPlayer is the engine's read-only view of an externally managed player.
type RosterPlayer struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Position string `json:"position,omitempty"`
}

// RosterTeam is the engine's read-only view of an externally managed team.
type RosterTeam struct {
	ID         string   `json:"id"`
	Name       string   `json:"name"`
	PlayerIDs  []string `json:"player_ids"`
	MaxPlayers int      `json:"max_players"`
}

// RosterAccessor is the boundary to the external roster collaborator. The
// engine only ever reads through it.
type RosterAccessor interface {
	GetTeamByID(ctx context.Context, id string) (*RosterTeam, error)
	GetPlayerByID(ctx context.Context, id string) (*RosterPlayer, error)
}
