package domain

import (
	"errors"
	"time"
)

// DealStatus represents the lifecycle state of a deal.
type DealStatus string

// Possible deal status values. Status only moves forward:
// Created -> Agreed -> Completed. A deal in Created may instead be
// cancelled, which removes it entirely.
const (
	DealStatusCreated   DealStatus = "Created"
	DealStatusAgreed    DealStatus = "Agreed"
	DealStatusCompleted DealStatus = "Completed"
)

// Common validation errors for Deal.
var (
	ErrEmptyDealSender        = errors.New("deal sender cannot be empty")
	ErrEmptyDealRecipient     = errors.New("deal recipient cannot be empty")
	ErrEmptyDealRecipientBook = errors.New("deal recipient book cannot be empty")
	ErrDealSelfExchange       = errors.New("deal sender and recipient must be distinct users")
	ErrInvalidDealStatus      = errors.New("invalid deal status")
)

// Deal is a proposed exchange or gift of books between two users.
// The sender proposes the deal and names a book owned by the recipient;
// the recipient accepts by offering a book back (or none, for a gift).
// SenderBookID stays nil while the deal is in Created.
type Deal struct {
	ID              int64      `json:"deal_id"`
	SenderID        int64      `json:"sender_id"`
	RecipientID     int64      `json:"recipient_id"`
	SenderBookID    *int64     `json:"sender_book_id"`
	RecipientBookID int64      `json:"recipient_book_id"`
	GiftFlag        bool       `json:"gift_flag"`
	Status          DealStatus `json:"status"`
	ScheduledAt     time.Time  `json:"time"`
	Place           string     `json:"place,omitempty"`
}

// NewDeal creates a new Deal proposed by sender for one of recipient's books.
// The deal starts in Created with no sender book and the proposal timestamp
// set to the current time.
func NewDeal(senderID, recipientID, recipientBookID int64, place string) (*Deal, error) {
	deal := &Deal{
		SenderID:        senderID,
		RecipientID:     recipientID,
		RecipientBookID: recipientBookID,
		Status:          DealStatusCreated,
		ScheduledAt:     time.Now().UTC(),
		Place:           place,
	}

	if err := deal.Validate(); err != nil {
		return nil, err
	}

	return deal, nil
}

// Validate checks if the Deal has valid data.
func (d *Deal) Validate() error {
	if d.SenderID == 0 {
		return ErrEmptyDealSender
	}

	if d.RecipientID == 0 {
		return ErrEmptyDealRecipient
	}

	if d.SenderID == d.RecipientID {
		return ErrDealSelfExchange
	}

	if d.RecipientBookID == 0 {
		return ErrEmptyDealRecipientBook
	}

	if !isValidDealStatus(d.Status) {
		return ErrInvalidDealStatus
	}

	return nil
}

// Accept records the recipient's side of the deal and moves it to Agreed.
// senderBookID may be nil for a gift. A repeated accept overwrites the
// previously recorded book and gift flag.
func (d *Deal) Accept(senderBookID *int64, giftFlag bool) {
	d.SenderBookID = senderBookID
	d.GiftFlag = giftFlag
	d.Status = DealStatusAgreed
}

// Complete marks the exchange as carried out. There is no transition out
// of Completed.
func (d *Deal) Complete() {
	d.Status = DealStatusCompleted
}

// CanCancel reports whether the deal may still be cancelled.
// Only deals that have not been agreed yet can be cancelled.
func (d *Deal) CanCancel() bool {
	return d.Status == DealStatusCreated
}

// IsParticipant reports whether the given user is the deal's sender or
// recipient.
func (d *Deal) IsParticipant(userID int64) bool {
	return d.SenderID == userID || d.RecipientID == userID
}

// IsRecipient reports whether the given user is the deal's recipient.
func (d *Deal) IsRecipient(userID int64) bool {
	return d.RecipientID == userID
}

// OtherParty returns the user on the opposite side of the deal from userID.
// Returns 0 if userID is not a participant.
func (d *Deal) OtherParty(userID int64) int64 {
	switch userID {
	case d.SenderID:
		return d.RecipientID
	case d.RecipientID:
		return d.SenderID
	default:
		return 0
	}
}

// isValidDealStatus checks if the given status is a valid DealStatus.
func isValidDealStatus(status DealStatus) bool {
	switch status {
	case DealStatusCreated, DealStatusAgreed, DealStatusCompleted:
		return true
	default:
		return false
	}
}
