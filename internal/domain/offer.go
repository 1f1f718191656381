package domain

import (
	"time"

	"github.com/m04kA/SMC-WaitlistService/pkg/types"
)

// OfferTrigger причина выдачи оффера
type OfferTrigger string

const (
	TriggerCancellation OfferTrigger = "cancellation"
	TriggerManualNotify OfferTrigger = "manual_notify"
)

// Offer represents a time-boxed, single-use proposal binding one
// waitlist entry to one specific freed slot. The token is the only
// credential needed to resolve the offer.
type Offer struct {
	Token string

	SlotDate   time.Time
	SlotStart  types.TimeString
	SlotEnd    types.TimeString
	EmployeeID *int64

	NotifiedAt time.Time
	ExpiresAt  time.Time
	Trigger    OfferTrigger

	// FromStatus - статус, в который запись откатывается при истечении
	// оффера (на сегодня всегда waiting, но колонка хранится явно)
	FromStatus EntryStatus
}

// IsExpired returns true if the offer deadline has passed
func (o *Offer) IsExpired(now time.Time) bool {
	return !now.Before(o.ExpiresAt)
}

// Slot represents a concrete booking opportunity returned by the
// calendar service for a given date.
type Slot struct {
	Date       time.Time
	StartTime  types.TimeString
	EndTime    types.TimeString
	EmployeeID *int64
}
