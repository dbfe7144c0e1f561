package services

import "errors"

// Shared business-rule errors, mapped to HTTP statuses at the handler layer.
var (
	ErrNotFound = errors.New("requested resource not found")

	// Validation
	ErrValidationFailed                  = errors.New("validation failed")
	ErrPasswordTooShort                  = errors.New("password is too short")
	ErrTournamentNameRequired            = errors.New("tournament name is required")
	ErrTournamentGameRequired            = errors.New("tournament game is required")
	ErrTournamentInvalidCapacity         = errors.New("tournament max participants must be at least 2")
	ErrTournamentInvalidFee              = errors.New("tournament entry fee cannot be negative")
	ErrTournamentInvalidPool             = errors.New("tournament prize pool cannot be negative")
	ErrTournamentInvalidStatusTransition = errors.New("invalid tournament status transition")

	// Join protocol
	ErrAlreadyJoined       = errors.New("user is already registered for this tournament")
	ErrTournamentFull      = errors.New("tournament is full")
	ErrInsufficientBalance = errors.New("wallet balance is below the entry fee")
	ErrRegistrationClosed  = errors.New("tournament registration is closed")

	// Bracket / matches
	ErrInsufficientParticipants = errors.New("at least 2 participants are required to generate a bracket")
	ErrBracketAlreadyGenerated  = errors.New("bracket has already been generated for this tournament")
	ErrMatchNotPending          = errors.New("match is not pending")
	ErrMatchNotLive             = errors.New("match is not live")
	ErrMatchMissingPlayers      = errors.New("match does not have both players assigned")
	ErrTiedScoreNotAllowed      = errors.New("tied scores are not allowed")

	// Prizes
	ErrNoPlacementsSet      = errors.New("no participants have a placement set")
	ErrPrizesAlreadyAwarded = errors.New("prizes have already been distributed for this tournament")
	ErrTournamentNotLive    = errors.New("tournament is not live")

	// Mutation guards
	ErrTournamentNotUpcoming = errors.New("tournament has already started")
	ErrTournamentNotEmpty    = errors.New("tournament already has participants")

	// Auth / authz
	ErrAuthInvalidCredentials = errors.New("invalid email or password")
	ErrForbiddenOperation     = errors.New("operation not allowed for the current user")

	// Entity-specific not-found, carrying more context than ErrNotFound.
	ErrUserNotFound        = errors.New("user not found")
	ErrTournamentNotFound  = errors.New("tournament not found")
	ErrParticipantNotFound = errors.New("participant registration not found")
	ErrMatchNotFound       = errors.New("match not found")

	// Conflicts
	ErrUserEmailConflict      = errors.New("email address is already in use")
	ErrUserNicknameConflict   = errors.New("nickname is already in use")
	ErrTournamentNameConflict = errors.New("tournament name already exists")
	ErrRoleAlreadyGranted     = errors.New("role is already granted to this user")
	ErrRoleNotGranted         = errors.New("role is not granted to this user")
)
