package domain

import (
	"time"

	"github.com/m04kA/SMC-WaitlistService/pkg/types"
)

// EntryStatus represents the lifecycle status of a waitlist entry
type EntryStatus string

const (
	StatusWaiting   EntryStatus = "waiting"
	StatusNotified  EntryStatus = "notified"
	StatusBooked    EntryStatus = "booked"
	StatusCancelled EntryStatus = "cancelled"
	StatusExpired   EntryStatus = "expired"
)

// WaitlistEntry represents a customer's standing request for a slot
// that could not be booked immediately.
type WaitlistEntry struct {
	ID      int64
	SalonID int64 // Тенант: все операции строго в рамках одного салона

	// Идентификация клиента: либо ссылка на карточку клиента,
	// либо свободные контактные данные. Минимум один канал связи обязателен.
	CustomerID    *int64
	CustomerName  string
	CustomerEmail *string
	CustomerPhone *string

	ServiceID  int64
	EmployeeID *int64 // nil = любой подходящий мастер

	// Окно, в которое клиент готов прийти
	PreferredDate      time.Time
	PreferredTimeStart *types.TimeString
	PreferredTimeEnd   *types.TimeString

	Status EntryStatus

	// Offer присутствует тогда и только тогда, когда Status = notified
	Offer *Offer

	// CooldownUntil - окно подавления после отказа: до этого момента
	// запись не участвует в подборе кандидатов
	CooldownUntil *time.Time

	// BookingID заполняется при переходе в booked
	BookingID *int64

	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsTerminal returns true if the entry can no longer change state
func (e *WaitlistEntry) IsTerminal() bool {
	return e.Status == StatusBooked || e.Status == StatusCancelled
}

// CanBeNotified returns true if an offer may be issued for the entry
func (e *WaitlistEntry) CanBeNotified() bool {
	return e.Status == StatusWaiting && e.Offer == nil
}

// CanBeWithdrawn returns true if the customer may still withdraw the entry
func (e *WaitlistEntry) CanBeWithdrawn() bool {
	return e.Status == StatusWaiting || e.Status == StatusNotified
}

// HasActiveOffer returns true if the entry carries an unexpired offer
func (e *WaitlistEntry) HasActiveOffer(now time.Time) bool {
	return e.Status == StatusNotified && e.Offer != nil && !e.Offer.IsExpired(now)
}

// InCooldown returns true if the entry is inside its suppression window
func (e *WaitlistEntry) InCooldown(now time.Time) bool {
	return e.CooldownUntil != nil && now.Before(*e.CooldownUntil)
}

// HasContactChannel returns true if at least one notification channel is set
func (e *WaitlistEntry) HasContactChannel() bool {
	return (e.CustomerEmail != nil && *e.CustomerEmail != "") ||
		(e.CustomerPhone != nil && *e.CustomerPhone != "")
}

// AcceptsSlot проверяет, попадает ли слот в окно предпочтений клиента.
// Не заданное окно означает "любое время в выбранную дату".
func (e *WaitlistEntry) AcceptsSlot(slotStart, slotEnd types.TimeString) bool {
	if e.PreferredTimeStart != nil && slotStart.IsBefore(*e.PreferredTimeStart) {
		return false
	}
	if e.PreferredTimeEnd != nil && slotEnd.IsAfter(*e.PreferredTimeEnd) {
		return false
	}
	return true
}

// MatchesEmployee проверяет совместимость записи с мастером слота.
// Запись без предпочтения мастера совместима с любым слотом.
func (e *WaitlistEntry) MatchesEmployee(employeeID *int64) bool {
	if e.EmployeeID == nil {
		return true
	}
	if employeeID == nil {
		return false
	}
	return *e.EmployeeID == *employeeID
}

// CandidateFilter фильтр подбора кандидатов на освободившийся слот
type CandidateFilter struct {
	SalonID    int64     // Обязательный параметр
	ServiceID  int64     // Обязательный параметр
	Date       time.Time // Дата освободившегося слота
	EmployeeID *int64    // Мастер слота (nil - слот без привязки к мастеру)
	Limit      int       // Максимум кандидатов (0 - без ограничения)
}

// EntriesFilter фильтр для выборки записей салона
type EntriesFilter struct {
	SalonID int64        // Обязательный параметр
	Status  *EntryStatus // Фильтр по статусу (опционально)
	Date    *time.Time   // Фильтр по предпочитаемой дате (опционально)
}
