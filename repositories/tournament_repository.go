package repositories

import (
	"context"
	"errors"
	"sort"
	"sync"

	"github.com/Dosada05/matchday-engine/models"
)

var (
	ErrTournamentNotFound = errors.New("tournament not found")
	ErrTournamentExists   = errors.New("tournament already exists")
)

// TournamentRepository holds the engine's tournament state. All reads return
// deep copies; all writes go through UpdateFunc so mutation stays
// single-writer and readers never see a half-updated tournament.
type TournamentRepository interface {
	Create(ctx context.Context, tournament *models.Tournament) error
	GetByID(ctx context.Context, id string) (*models.Tournament, error)
	List(ctx context.Context) ([]*models.Tournament, error)
	UpdateFunc(ctx context.Context, id string, fn func(*models.Tournament) error) (*models.Tournament, error)
	Delete(ctx context.Context, id string) error
	Restore(ctx context.Context, tournaments []*models.Tournament) error
}

type inMemoryTournamentRepository struct {
	mu          sync.RWMutex
	tournaments map[string]*models.Tournament
}

func NewInMemoryTournamentRepository() TournamentRepository {
	return &inMemoryTournamentRepository{
		tournaments: make(map[string]*models.Tournament),
	}
}

func (r *inMemoryTournamentRepository) Create(ctx context.Context, tournament *models.Tournament) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.tournaments[tournament.ID]; ok {
		return ErrTournamentExists
	}
	r.tournaments[tournament.ID] = tournament.Clone()
	return nil
}

func (r *inMemoryTournamentRepository) GetByID(ctx context.Context, id string) (*models.Tournament, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	t, ok := r.tournaments[id]
	if !ok {
		return nil, ErrTournamentNotFound
	}
	return t.Clone(), nil
}

func (r *inMemoryTournamentRepository) List(ctx context.Context) ([]*models.Tournament, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*models.Tournament, 0, len(r.tournaments))
	for _, t := range r.tournaments {
		out = append(out, t.Clone())
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out, nil
}

// UpdateFunc applies fn to a clone of the stored tournament and swaps the
// clone in only if fn succeeds. A failed update leaves prior state untouched.
func (r *inMemoryTournamentRepository) UpdateFunc(ctx context.Context, id string, fn func(*models.Tournament) error) (*models.Tournament, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	current, ok := r.tournaments[id]
	if !ok {
		return nil, ErrTournamentNotFound
	}
	next := current.Clone()
	if err := fn(next); err != nil {
		return nil, err
	}
	r.tournaments[id] = next
	return next.Clone(), nil
}

func (r *inMemoryTournamentRepository) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.tournaments[id]; !ok {
		return ErrTournamentNotFound
	}
	delete(r.tournaments, id)
	return nil
}

// Restore replaces the whole store, used when loading a snapshot at boot.
func (r *inMemoryTournamentRepository) Restore(ctx context.Context, tournaments []*models.Tournament) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.tournaments = make(map[string]*models.Tournament, len(tournaments))
	for _, t := range tournaments {
		if t == nil {
			continue
		}
		r.tournaments[t.ID] = t.Clone()
	}
	return nil
}
