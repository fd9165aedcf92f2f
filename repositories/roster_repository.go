package repositories

import (
	"context"
	"errors"
	"sync"

	"github.com/Dosada05/matchday-engine/models"
)

var (
	ErrRosterTeamNotFound   = errors.New("roster team not found")
	ErrRosterPlayerNotFound = errors.New("roster player not found")
)

// RosterSnapshot is the serializable dump of the whole roster directory,
// used by the snapshot store.
type RosterSnapshot struct {
	Teams   []*models.RosterTeam   `json:"teams"`
	Players []*models.RosterPlayer `json:"players"`
}

// RosterRepository backs the Roster Accessor boundary. The engine itself only
// reads through models.RosterAccessor; the write side exists so the roster
// collaborator (or seed data) can be loaded.
type RosterRepository interface {
	models.RosterAccessor

	SaveTeam(ctx context.Context, team *models.RosterTeam) error
	SavePlayer(ctx context.Context, player *models.RosterPlayer) error
	ListTeams(ctx context.Context) ([]*models.RosterTeam, error)

	Snapshot(ctx context.Context) (*RosterSnapshot, error)
	Restore(ctx context.Context, snapshot *RosterSnapshot) error
}

type inMemoryRosterRepository struct {
	mu      sync.RWMutex
	teams   map[string]*models.RosterTeam
	players map[string]*models.RosterPlayer
}

func NewInMemoryRosterRepository() RosterRepository {
	return &inMemoryRosterRepository{
		teams:   make(map[string]*models.RosterTeam),
		players: make(map[string]*models.RosterPlayer),
	}
}

func (r *inMemoryRosterRepository) GetTeamByID(ctx context.Context, id string) (*models.RosterTeam, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	team, ok := r.teams[id]
	if !ok {
		return nil, ErrRosterTeamNotFound
	}
	cp := *team
	cp.PlayerIDs = append([]string(nil), team.PlayerIDs...)
	return &cp, nil
}

func (r *inMemoryRosterRepository) GetPlayerByID(ctx context.Context, id string) (*models.RosterPlayer, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	player, ok := r.players[id]
	if !ok {
		return nil, ErrRosterPlayerNotFound
	}
	cp := *player
	return &cp, nil
}

func (r *inMemoryRosterRepository) SaveTeam(ctx context.Context, team *models.RosterTeam) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *team
	cp.PlayerIDs = append([]string(nil), team.PlayerIDs...)
	r.teams[team.ID] = &cp
	return nil
}

func (r *inMemoryRosterRepository) SavePlayer(ctx context.Context, player *models.RosterPlayer) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *player
	r.players[player.ID] = &cp
	return nil
}

func (r *inMemoryRosterRepository) ListTeams(ctx context.Context) ([]*models.RosterTeam, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*models.RosterTeam, 0, len(r.teams))
	for _, team := range r.teams {
		cp := *team
		cp.PlayerIDs = append([]string(nil), team.PlayerIDs...)
		out = append(out, &cp)
	}
	return out, nil
}

func (r *inMemoryRosterRepository) Snapshot(ctx context.Context) (*RosterSnapshot, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	snap := &RosterSnapshot{
		Teams:   make([]*models.RosterTeam, 0, len(r.teams)),
		Players: make([]*models.RosterPlayer, 0, len(r.players)),
	}
	for _, team := range r.teams {
		cp := *team
		cp.PlayerIDs = append([]string(nil), team.PlayerIDs...)
		snap.Teams = append(snap.Teams, &cp)
	}
	for _, player := range r.players {
		cp := *player
		snap.Players = append(snap.Players, &cp)
	}
	return snap, nil
}

// Restore replaces the whole directory, used when loading a snapshot at boot.
func (r *inMemoryRosterRepository) Restore(ctx context.Context, snapshot *RosterSnapshot) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.teams = make(map[string]*models.RosterTeam, len(snapshot.Teams))
	r.players = make(map[string]*models.RosterPlayer, len(snapshot.Players))
	for _, team := range snapshot.Teams {
		if team == nil {
			continue
		}
		cp := *team
		cp.PlayerIDs = append([]string(nil), team.PlayerIDs...)
		r.teams[team.ID] = &cp
	}
	for _, player := range snapshot.Players {
		if player == nil {
			continue
		}
		cp := *player
		r.players[player.ID] = &cp
	}
	return nil
}
