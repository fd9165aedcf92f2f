package models

import (
	"sort"
	"time"
)

type EventType string

const (
	EventGoal            EventType = "goal"
	EventCard            EventType = "card"
	EventSubstitution    EventType = "substitution"
	EventFoul            EventType = "foul"
	EventCorner          EventType = "corner"
	EventOffside         EventType = "offside"
	EventPenaltyShootout EventType = "penalty_shootout"
)

type CardSeverity string

const (
	CardYellow       CardSeverity = "yellow"
	CardSecondYellow CardSeverity = "second_yellow"
	CardRed          CardSeverity = "red"
)

// GoalDetail is the payload of a goal event. An own goal is credited to the
// opposing side when the score is derived.
type GoalDetail struct {
	OwnGoal          bool    `json:"own_goal"`
	AssistPlayerID   *string `json:"assist_player_id,omitempty"`
	AssistPlayerName string  `json:"assist_player_name,omitempty"`
}

type CardDetail struct {
	Severity CardSeverity `json:"severity"`
}

// SubstitutionDetail records the outgoing and incoming player of one swap.
type SubstitutionDetail struct {
	OutPlayerID   string `json:"out_player_id"`
	OutPlayerName string `json:"out_player_name"`
	InPlayerID    string `json:"in_player_id"`
	InPlayerName  string `json:"in_player_name"`
}

type PenaltyShootoutDetail struct {
	Scored bool `json:"scored"`
}

// MatchEvent is one immutable entry of the match ledger. Exactly one of the
// per-kind payloads matching Type is set.
type MatchEvent struct {
	ID       string    `json:"id"`
	TeamID   string    `json:"team_id"`
	Type     EventType `json:"type"`
	PlayerID string    `json:"player_id"`
	// PlayerName is denormalized so the ledger stays readable after the
	// roster changes.
	PlayerName string `json:"player_name"`

	Minute    int  `json:"minute"`
	Seconds   int  `json:"seconds"`
	ExtraTime bool `json:"extra_time"`

	Goal         *GoalDetail            `json:"goal,omitempty"`
	Card         *CardDetail            `json:"card,omitempty"`
	Substitution *SubstitutionDetail    `json:"substitution,omitempty"`
	Shootout     *PenaltyShootoutDetail `json:"shootout,omitempty"`

	Timestamp time.Time `json:"timestamp"`
}

// SortEvents orders a ledger by clock position. The sort is stable so events
// at the same minute and second keep insertion order.
func SortEvents(events []MatchEvent) {
	sort.SliceStable(events, func(i, j int) bool {
		if events[i].Minute != events[j].Minute {
			return events[i].Minute < events[j].Minute
		}
		return events[i].Seconds < events[j].Seconds
	})
}

func CloneEvents(events []MatchEvent) []MatchEvent {
	if events == nil {
		return nil
	}
	out := make([]MatchEvent, len(events))
	copy(out, events)
	return out
}
