package domain

import "errors"

// Error taxonomy surfaced to callers. Handlers map these to HTTP statuses;
// the messages themselves are the protocol-level error strings.
var (
	ErrInvalidCredentials   = errors.New("invalid credentials")
	ErrGameNotFound         = errors.New("game not found")
	ErrGameNotInProgress    = errors.New("game not in progress")
	ErrNotYourTurn          = errors.New("not your turn")
	ErrInvalidSize          = errors.New("size must be odd and at least 3")
	ErrInvalidCell          = errors.New("invalid cell")
	ErrMustRollFirst        = errors.New("must roll the sticks first")
	ErrRepeatRollPending    = errors.New("repeat roll pending, move before rolling again")
	ErrNoPieceAtPosition    = errors.New("no piece at position")
	ErrIllegalMove          = errors.New("illegal move")
	ErrInvalidCaptureChoice = errors.New("invalid capture choice")
	ErrCannotPass           = errors.New("cannot pass, legal moves exist")
)
