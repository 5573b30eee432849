package game

import (
	"errors"
	"fmt"
)

// RejectKind classifies why an action was refused.
type RejectKind int

const (
	// RejectValidation covers unknown ids, locked upgrades, max level and
	// actions that make no sense in the pet's current state.
	RejectValidation RejectKind = iota + 1
	// RejectInsufficient means the pet lacks money or energy.
	RejectInsufficient
)

func (k RejectKind) String() string {
	switch k {
	case RejectValidation:
		return "validation"
	case RejectInsufficient:
		return "insufficient"
	default:
		return "unknown"
	}
}

var (
	ErrDead           = errors.New("pet is dead")
	ErrNotDead        = errors.New("pet is alive")
	ErrAsleep         = errors.New("pet is asleep")
	ErrNotAsleep      = errors.New("pet is awake")
	ErrDizzy          = errors.New("pet is dizzy")
	ErrFull           = errors.New("pet is not hungry")
	ErrNoEnergy       = errors.New("not enough energy")
	ErrNoMoney        = errors.New("not enough money")
	ErrBadAmount      = errors.New("invalid amount")
	ErrUnknownGame    = errors.New("unknown mini-game")
	ErrUnknownItem    = errors.New("unknown item")
	ErrNoItem         = errors.New("item not in inventory")
	ErrNoEvent        = errors.New("no such event")
	ErrEventExpired   = errors.New("event expired")
	ErrBadChoice      = errors.New("no such choice")
	ErrAlreadyClaimed = errors.New("daily bonus already claimed")
)

// Rejection is returned by actions whose preconditions fail. Nothing the
// action itself did is kept; only time that passed before it is settled.
// Message is meant for the player.
type Rejection struct {
	Kind    RejectKind
	Message string
	Err     error
}

func (r *Rejection) Error() string {
	return r.Message
}

func (r *Rejection) Unwrap() error {
	return r.Err
}

func reject(kind RejectKind, err error, format string, args ...any) *Rejection {
	return &Rejection{Kind: kind, Message: fmt.Sprintf(format, args...), Err: err}
}

// AsRejection unwraps err into a Rejection if it is one.
func AsRejection(err error) (*Rejection, bool) {
	var r *Rejection
	if errors.As(err, &r) {
		return r, true
	}
	return nil, false
}
