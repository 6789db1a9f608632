package service

import (
	"errors"
	"fmt"
)

// Common service errors.
var (
	// ErrForbidden is returned when an authenticated user attempts an
	// operation they are not entitled to. Entity-specific variants below
	// wrap it so callers can match the whole family with errors.Is.
	ErrForbidden = errors.New("operation not permitted")

	// ErrNotDealRecipient is returned when a user other than the deal's
	// recipient attempts to accept it.
	ErrNotDealRecipient = fmt.Errorf("%w: only the deal recipient may accept", ErrForbidden)

	// ErrNotDealParticipant is returned when a user who is neither sender
	// nor recipient attempts to complete or cancel a deal.
	ErrNotDealParticipant = fmt.Errorf("%w: only a deal participant may perform this operation", ErrForbidden)

	// ErrNotSelf is returned when a user requests another user's deal list.
	ErrNotSelf = fmt.Errorf("%w: users may only list their own deals", ErrForbidden)

	// ErrNotAdmin is returned when a non-admin attempts an admin operation.
	ErrNotAdmin = fmt.Errorf("%w: admin privileges required", ErrForbidden)

	// ErrDealNotCancellable is returned when cancelling a deal that has
	// already been agreed or completed.
	ErrDealNotCancellable = errors.New("only deals in Created status can be cancelled")
)
