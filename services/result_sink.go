package services

import (
	"context"

	"github.com/Dosada05/matchday-engine/models"
)

// ResultSink receives finalized matches from the live session. Each
// tournament format registers its own sink; dispatch happens before the
// session is marked finished so a failed hand-off leaves the session intact.
type ResultSink interface {
	SubmitCompletedMatch(ctx context.Context, completed *models.CompletedMatch) error
}

func (s *leagueService) SubmitCompletedMatch(ctx context.Context, completed *models.CompletedMatch) error {
	_, err := s.SubmitMatchResult(ctx, completed.TournamentID, completed.FixtureID,
		completed.HomeScore, completed.AwayScore, completed.Events)
	return err
}

func (s *knockoutService) SubmitCompletedMatch(ctx context.Context, completed *models.CompletedMatch) error {
	_, err := s.SubmitMatchResult(ctx, completed.TournamentID, completed.FixtureID,
		completed.HomeScore, completed.AwayScore, completed.Events)
	return err
}
