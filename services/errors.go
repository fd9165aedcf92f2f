package services

import "errors"

// Errors shared across services and the HTTP mapping. Engine operations are
// total: failures come back as one of these, never as a panic, and a failed
// operation leaves prior state untouched.
var (
	// Not found
	ErrNotFound           = errors.New("requested resource not found")
	ErrTournamentNotFound = errors.New("tournament not found")
	ErrFixtureNotFound    = errors.New("fixture not found")
	ErrTableNotFound      = errors.New("table not found")
	ErrTeamNotFound       = errors.New("team not found")
	ErrPlayerNotFound     = errors.New("player not found")
	ErrEventNotFound      = errors.New("match event not found")

	// Validation, rejected at creation time before any state is built
	ErrValidationFailed       = errors.New("validation failed")
	ErrTournamentNameRequired = errors.New("tournament name is required")
	ErrNotEnoughTeams         = errors.New("table needs at least 2 teams")
	ErrInvalidTeamCount       = errors.New("knockout team count must be a power of two between 2 and 32")
	ErrInvalidMatchesPerPair  = errors.New("matches per pair must be 1 or 2")
	ErrInvalidPointScheme     = errors.New("point scheme must award a win at least as many points as a draw")
	ErrDuplicateTeam          = errors.New("team selected more than once")

	// Invalid state, operation is a no-op
	ErrTournamentNotDraft       = errors.New("tournament is not in draft status")
	ErrTournamentNotActive      = errors.New("tournament is not active")
	ErrBracketAlreadyGenerated  = errors.New("bracket has already been generated")
	ErrFixtureAlreadyCompleted  = errors.New("fixture is already completed")
	ErrFixtureNotReady          = errors.New("fixture team slots are not populated yet")
	ErrMatchAlreadyActive       = errors.New("another match is already active")
	ErrNoActiveMatch            = errors.New("no match is currently active")
	ErrMatchNotInSetup          = errors.New("match is not in setup")
	ErrMatchNotPlaying          = errors.New("match is not in play")
	ErrLineupIncomplete         = errors.New("both sides need a starting lineup before kickoff")
	ErrAdvancementNotConfigured = errors.New("tournament has no advancing teams configured")

	// Capacity, rejected before mutation
	ErrRosterOverCapacity       = errors.New("lineup exceeds the team's player capacity")
	ErrSubstitutionLimitReached = errors.New("substitution limit reached")
	ErrInvalidSubstitution      = errors.New("substitution players are not in the expected lineup")

	ErrTeamNotInMatch = errors.New("team is not part of the active match")
)
