package services

import (
	"fmt"

	"github.com/Dosada05/matchday-engine/models"
)

// DeriveScore folds the ledger into both sides' goal counts. A regular goal
// credits the scoring team; an own goal credits the opposing team. The
// function is pure so the score can be recomputed from scratch after any
// ledger edit, and an incremental update must always agree with it.
func DeriveScore(events []models.MatchEvent, homeTeamID string) (home, away int) {
	for _, e := range events {
		if e.Type != models.EventGoal || e.Goal == nil {
			continue
		}
		creditsHome := e.TeamID == homeTeamID
		if e.Goal.OwnGoal {
			creditsHome = !creditsHome
		}
		if creditsHome {
			home++
		} else {
			away++
		}
	}
	return home, away
}

// ShootoutScore tallies penalty shootout events. taken reports whether any
// shootout kick was recorded at all.
func ShootoutScore(events []models.MatchEvent, homeTeamID string) (home, away int, taken bool) {
	for _, e := range events {
		if e.Type != models.EventPenaltyShootout || e.Shootout == nil {
			continue
		}
		taken = true
		if !e.Shootout.Scored {
			continue
		}
		if e.TeamID == homeTeamID {
			home++
		} else {
			away++
		}
	}
	return home, away, taken
}

// DeriveActiveRoster replays the substitution events of one side against its
// starting lineup and bench. A substitution whose outgoing player is not on
// the pitch, or whose incoming player is not on the bench, indicates an
// inconsistent ledger: it is skipped and reported as a warning rather than
// failing the replay.
func DeriveActiveRoster(events []models.MatchEvent, initialStarters, initialBench []string, teamID string) (active, bench []string, warnings []string) {
	active = append([]string(nil), initialStarters...)
	bench = append([]string(nil), initialBench...)

	for _, e := range events {
		if e.Type != models.EventSubstitution || e.Substitution == nil || e.TeamID != teamID {
			continue
		}
		out := e.Substitution.OutPlayerID
		in := e.Substitution.InPlayerID

		outIdx := indexOf(active, out)
		inIdx := indexOf(bench, in)
		if outIdx < 0 {
			warnings = append(warnings, fmt.Sprintf("substitution %s: outgoing player %s is not on the pitch", e.ID, out))
			continue
		}
		if inIdx < 0 {
			warnings = append(warnings, fmt.Sprintf("substitution %s: incoming player %s is not on the bench", e.ID, in))
			continue
		}

		active = append(active[:outIdx], active[outIdx+1:]...)
		bench = append(bench[:inIdx], bench[inIdx+1:]...)
		active = append(active, in)
		bench = append(bench, out)
	}
	return active, bench, warnings
}

func indexOf(list []string, id string) int {
	for i, v := range list {
		if v == id {
			return i
		}
	}
	return -1
}

// SubstitutionsUsed counts the substitution events recorded for one side.
func SubstitutionsUsed(events []models.MatchEvent, teamID string) int {
	n := 0
	for _, e := range events {
		if e.Type == models.EventSubstitution && e.TeamID == teamID {
			n++
		}
	}
	return n
}

// BuildTeamStats aggregates the ledger into per-team totals for the
// completion summary. Goals follow the own-goal attribution rule.
func BuildTeamStats(events []models.MatchEvent, homeTeamID, awayTeamID string) []models.TeamMatchStats {
	home := models.TeamMatchStats{TeamID: homeTeamID}
	away := models.TeamMatchStats{TeamID: awayTeamID}

	forTeam := func(teamID string) *models.TeamMatchStats {
		if teamID == homeTeamID {
			return &home
		}
		return &away
	}
	opponent := func(teamID string) *models.TeamMatchStats {
		if teamID == homeTeamID {
			return &away
		}
		return &home
	}

	for _, e := range events {
		switch e.Type {
		case models.EventGoal:
			if e.Goal != nil && e.Goal.OwnGoal {
				opponent(e.TeamID).Goals++
			} else {
				forTeam(e.TeamID).Goals++
			}
		case models.EventCard:
			forTeam(e.TeamID).Cards++
		case models.EventFoul:
			forTeam(e.TeamID).Fouls++
		case models.EventCorner:
			forTeam(e.TeamID).Corners++
		case models.EventOffside:
			forTeam(e.TeamID).Offsides++
		case models.EventSubstitution:
			forTeam(e.TeamID).Substitutions++
		}
	}
	return []models.TeamMatchStats{home, away}
}

// BuildPlayerStats aggregates the ledger into per-player totals. Own goals do
// not count toward the scorer's tally.
func BuildPlayerStats(events []models.MatchEvent) []models.PlayerMatchStats {
	byPlayer := make(map[string]*models.PlayerMatchStats)
	var order []string

	statsFor := func(playerID, playerName string) *models.PlayerMatchStats {
		if s, ok := byPlayer[playerID]; ok {
			return s
		}
		s := &models.PlayerMatchStats{PlayerID: playerID, PlayerName: playerName}
		byPlayer[playerID] = s
		order = append(order, playerID)
		return s
	}

	for _, e := range events {
		switch e.Type {
		case models.EventGoal:
			if e.Goal == nil {
				continue
			}
			if !e.Goal.OwnGoal {
				statsFor(e.PlayerID, e.PlayerName).Goals++
			}
			if e.Goal.AssistPlayerID != nil {
				statsFor(*e.Goal.AssistPlayerID, e.Goal.AssistPlayerName).Assists++
			}
		case models.EventCard:
			statsFor(e.PlayerID, e.PlayerName).Cards++
		case models.EventFoul:
			statsFor(e.PlayerID, e.PlayerName).Fouls++
		}
	}

	out := make([]models.PlayerMatchStats, 0, len(order))
	for _, id := range order {
		out = append(out, *byPlayer[id])
	}
	return out
}
