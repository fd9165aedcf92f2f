package brackets

import (
	"context"
	"fmt"

	"github.com/Dosada05/matchday-engine/models"
	"github.com/rs/xid"
)

type RoundRobinGenerator struct{}

func NewRoundRobinGenerator() FixtureGenerator {
	return &RoundRobinGenerator{}
}

func (g *RoundRobinGenerator) GetName() string {
	return "RoundRobin"
}

// GenerateFixtures creates the league fixture list. Every table produces one
// fixture per unordered team pair; with MatchesPerPair == 2 a second leg is
// added with home and away reversed. First legs carry round 1, reversed legs
// round 2. Tables with fewer than 2 teams produce no fixtures.
func (g *RoundRobinGenerator) GenerateFixtures(ctx context.Context, params GenerateParams) ([]models.Fixture, error) {
	tournament := params.Tournament

	legs := tournament.Settings.MatchesPerPair
	if legs == 0 {
		legs = 1
	}
	if legs != 1 && legs != 2 {
		return nil, fmt.Errorf("RoundRobinGenerator: matches per pair must be 1 or 2, got %d", legs)
	}

	teamsByTable := make(map[string][]*models.TournamentTeam)
	for i := range params.Teams {
		team := &params.Teams[i]
		if team.TableID == nil {
			continue
		}
		teamsByTable[*team.TableID] = append(teamsByTable[*team.TableID], team)
	}

	fixtures := make([]models.Fixture, 0)
	matchNumber := 0

	appendFixture := func(home, away *models.TournamentTeam, round int, tableID string) {
		matchNumber++
		tid := tableID
		homeID := home.ID
		awayID := away.ID
		fixtures = append(fixtures, models.Fixture{
			ID:           xid.New().String(),
			Round:        round,
			Stage:        models.StageGroup,
			MatchNumber:  matchNumber,
			HomeTeamID:   &homeID,
			AwayTeamID:   &awayID,
			HomeTeamName: home.TeamName,
			AwayTeamName: away.TeamName,
			TableID:      &tid,
			Status:       models.FixtureUpcoming,
		})
	}

	for leg := 1; leg <= legs; leg++ {
		for _, table := range tournament.Tables {
			teams := teamsByTable[table.ID]
			if len(teams) < 2 {
				continue
			}
			for i := 0; i < len(teams); i++ {
				for j := i + 1; j < len(teams); j++ {
					if leg == 1 {
						appendFixture(teams[i], teams[j], 1, table.ID)
					} else {
						appendFixture(teams[j], teams[i], 2, table.ID)
					}
				}
			}
		}
	}

	return fixtures, nil
}
