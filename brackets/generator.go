package brackets

import (
	"context"

	"github.com/Dosada05/matchday-engine/models"
)

type GenerateParams struct {
	Tournament *models.Tournament
	Teams      []models.TournamentTeam
}

// FixtureGenerator produces the full fixture list for one tournament format.
type FixtureGenerator interface {
	GenerateFixtures(ctx context.Context, params GenerateParams) ([]models.Fixture, error)

	GetName() string
}
