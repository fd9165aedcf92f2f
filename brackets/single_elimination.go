package brackets

import (
	"context"
	"errors"
	"fmt"
	"math/bits"

	"github.com/Dosada05/matchday-engine/models"
	"github.com/rs/xid"
)

var ErrTeamCountNotPowerOfTwo = errors.New("single elimination requires a power-of-two team count")

type SingleEliminationGenerator struct{}

func NewSingleEliminationGenerator() FixtureGenerator {
	return &SingleEliminationGenerator{}
}

func (g *SingleEliminationGenerator) GetName() string {
	return "SingleElimination"
}

// StageForRound derives the stage label from a round's distance to the final.
func StageForRound(round, totalRounds int) models.Stage {
	switch totalRounds - round {
	case 0:
		return models.StageFinal
	case 1:
		return models.StageSemiFinal
	case 2:
		return models.StageQuarterFinal
	default:
		return models.StageRoundOf16
	}
}

// GenerateFixtures builds the complete single-elimination tree. Round 1 pairs
// teams in input order; every later round is pre-created with TBD slots and
// linked from its two feeder fixtures, down to the single final.
func (g *SingleEliminationGenerator) GenerateFixtures(ctx context.Context, params GenerateParams) ([]models.Fixture, error) {
	teams := params.Teams
	n := len(teams)

	if n < 2 {
		return nil, errors.New("not enough teams to generate a single elimination bracket (minimum 2)")
	}
	if n&(n-1) != 0 {
		return nil, fmt.Errorf("%w: got %d", ErrTeamCountNotPowerOfTwo, n)
	}

	totalRounds := bits.Len(uint(n)) - 1

	rounds := make([][]models.Fixture, totalRounds+1)
	matchNumber := 0

	for r := 1; r <= totalRounds; r++ {
		count := n >> uint(r)
		rounds[r] = make([]models.Fixture, count)
		for i := 0; i < count; i++ {
			matchNumber++
			f := models.Fixture{
				ID:           xid.New().String(),
				Round:        r,
				Stage:        StageForRound(r, totalRounds),
				MatchNumber:  matchNumber,
				HomeTeamName: models.TBDName,
				AwayTeamName: models.TBDName,
				Status:       models.FixtureUpcoming,
			}
			if r == 1 {
				home := teams[2*i]
				away := teams[2*i+1]
				homeID := home.ID
				awayID := away.ID
				f.HomeTeamID = &homeID
				f.AwayTeamID = &awayID
				f.HomeTeamName = home.TeamName
				f.AwayTeamName = away.TeamName
			}
			rounds[r][i] = f
		}
	}

	// Link every fixture to the next-round slot its winner promotes into.
	for r := 1; r < totalRounds; r++ {
		for i := range rounds[r] {
			nextID := rounds[r+1][i/2].ID
			rounds[r][i].NextFixtureID = &nextID
		}
	}

	fixtures := make([]models.Fixture, 0, n-1)
	for r := 1; r <= totalRounds; r++ {
		fixtures = append(fixtures, rounds[r]...)
	}

	return fixtures, nil
}

// PromotionSlot maps a fixture's index within its round to the slot its
// winner occupies in the next round: feeder i fills fixture i/2, home side
// for even i, away side for odd i.
func PromotionSlot(indexInRound int) (nextIndex int, homeSlot bool) {
	return indexInRound / 2, indexInRound%2 == 0
}
