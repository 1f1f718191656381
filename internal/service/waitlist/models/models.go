package models

import (
	"errors"
	"time"

	"github.com/m04kA/SMC-WaitlistService/internal/domain"
	auditRepo "github.com/m04kA/SMC-WaitlistService/internal/infra/storage/audit"
	"github.com/m04kA/SMC-WaitlistService/pkg/types"
)

var (
	// ErrInvalidStatus возвращается при некорректном статусе
	ErrInvalidStatus = errors.New("invalid entry status")
)

// Request модели

// CreateEntryRequest запрос на постановку в лист ожидания
type CreateEntryRequest struct {
	SalonID            int64             `json:"salonId"`
	CustomerID         *int64            `json:"customerId,omitempty"`
	CustomerName       string            `json:"customerName"`
	CustomerEmail      *string           `json:"customerEmail,omitempty"`
	CustomerPhone      *string           `json:"customerPhone,omitempty"`
	ServiceID          int64             `json:"serviceId"`
	EmployeeID         *int64            `json:"employeeId,omitempty"`
	PreferredDate      time.Time         `json:"preferredDate"`
	PreferredTimeStart *types.TimeString `json:"preferredTimeStart,omitempty"`
	PreferredTimeEnd   *types.TimeString `json:"preferredTimeEnd,omitempty"`
}

// ToDomainEntry конвертирует request в доменную модель
func (r *CreateEntryRequest) ToDomainEntry() *domain.WaitlistEntry {
	return &domain.WaitlistEntry{
		SalonID:            r.SalonID,
		CustomerID:         r.CustomerID,
		CustomerName:       r.CustomerName,
		CustomerEmail:      r.CustomerEmail,
		CustomerPhone:      r.CustomerPhone,
		ServiceID:          r.ServiceID,
		EmployeeID:         r.EmployeeID,
		PreferredDate:      r.PreferredDate,
		PreferredTimeStart: r.PreferredTimeStart,
		PreferredTimeEnd:   r.PreferredTimeEnd,
		Status:             domain.StatusWaiting,
	}
}

// ListEntriesRequest запрос на получение записей салона
type ListEntriesRequest struct {
	SalonID int64      `json:"salonId"`
	Status  *string    `json:"status,omitempty"`
	Date    *time.Time `json:"date,omitempty"`
}

// ToDomainFilter конвертирует request в domain фильтр
func (r *ListEntriesRequest) ToDomainFilter() (domain.EntriesFilter, error) {
	filter := domain.EntriesFilter{
		SalonID: r.SalonID,
		Date:    r.Date,
	}

	if r.Status != nil {
		status, err := ToDomainEntryStatus(*r.Status)
		if err != nil {
			return filter, err
		}
		filter.Status = &status
	}

	return filter, nil
}

// Response модели

// OfferResponse данные активного оффера записи
type OfferResponse struct {
	SlotDate   string  `json:"slotDate"`  // "2025-10-15"
	SlotStart  string  `json:"slotStart"` // "10:00"
	SlotEnd    string  `json:"slotEnd"`   // "10:30"
	EmployeeID *int64  `json:"employeeId,omitempty"`
	NotifiedAt string  `json:"notifiedAt"` // ISO 8601
	ExpiresAt  string  `json:"expiresAt"`  // ISO 8601
	Trigger    string  `json:"trigger"`
}

// EntryResponse ответ с данными записи листа ожидания.
// Токен оффера наружу не отдается: он доставляется только клиенту
// через уведомление.
type EntryResponse struct {
	ID                 int64   `json:"id"`
	SalonID            int64   `json:"salonId"`
	CustomerID         *int64  `json:"customerId,omitempty"`
	CustomerName       string  `json:"customerName"`
	CustomerEmail      *string `json:"customerEmail,omitempty"`
	CustomerPhone      *string `json:"customerPhone,omitempty"`
	ServiceID          int64   `json:"serviceId"`
	EmployeeID         *int64  `json:"employeeId,omitempty"`
	PreferredDate      string  `json:"preferredDate"` // "2025-10-15"
	PreferredTimeStart *string `json:"preferredTimeStart,omitempty"`
	PreferredTimeEnd   *string `json:"preferredTimeEnd,omitempty"`
	Status             string  `json:"status"`

	Offer         *OfferResponse `json:"offer,omitempty"`
	CooldownUntil *string        `json:"cooldownUntil,omitempty"` // ISO 8601
	BookingID     *int64         `json:"bookingId,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// AuditRecordResponse запись журнала действий
type AuditRecordResponse struct {
	Action    string  `json:"action"`
	Channel   string  `json:"channel"`
	Outcome   string  `json:"outcome"`
	Details   *string `json:"details,omitempty"`
	CreatedAt string  `json:"createdAt"` // ISO 8601
}

// EntryDetailResponse запись вместе с журналом действий
type EntryDetailResponse struct {
	Entry EntryResponse         `json:"entry"`
	Audit []AuditRecordResponse `json:"audit"`
}

// EntryListResponse ответ со списком записей
type EntryListResponse struct {
	Entries []EntryResponse `json:"entries"`
}

// Методы конвертации

// FromDomainEntry конвертирует доменную модель в DTO
func FromDomainEntry(e *domain.WaitlistEntry) *EntryResponse {
	if e == nil {
		return nil
	}

	resp := &EntryResponse{
		ID:            e.ID,
		SalonID:       e.SalonID,
		CustomerID:    e.CustomerID,
		CustomerName:  e.CustomerName,
		CustomerEmail: e.CustomerEmail,
		CustomerPhone: e.CustomerPhone,
		ServiceID:     e.ServiceID,
		EmployeeID:    e.EmployeeID,
		PreferredDate: e.PreferredDate.Format(domain.DateFormat),
		Status:        string(e.Status),
		BookingID:     e.BookingID,
		CreatedAt:     e.CreatedAt,
		UpdatedAt:     e.UpdatedAt,
	}

	if e.PreferredTimeStart != nil {
		s := e.PreferredTimeStart.String()
		resp.PreferredTimeStart = &s
	}
	if e.PreferredTimeEnd != nil {
		s := e.PreferredTimeEnd.String()
		resp.PreferredTimeEnd = &s
	}
	if e.CooldownUntil != nil {
		s := e.CooldownUntil.Format(time.RFC3339)
		resp.CooldownUntil = &s
	}

	if e.Offer != nil {
		resp.Offer = &OfferResponse{
			SlotDate:   e.Offer.SlotDate.Format(domain.DateFormat),
			SlotStart:  e.Offer.SlotStart.String(),
			SlotEnd:    e.Offer.SlotEnd.String(),
			EmployeeID: e.Offer.EmployeeID,
			NotifiedAt: e.Offer.NotifiedAt.Format(time.RFC3339),
			ExpiresAt:  e.Offer.ExpiresAt.Format(time.RFC3339),
			Trigger:    string(e.Offer.Trigger),
		}
	}

	return resp
}

// FromDomainEntryList конвертирует список доменных моделей в DTO
func FromDomainEntryList(entries []*domain.WaitlistEntry) *EntryListResponse {
	if entries == nil {
		return &EntryListResponse{Entries: []EntryResponse{}}
	}

	resp := &EntryListResponse{
		Entries: make([]EntryResponse, len(entries)),
	}

	for i, entry := range entries {
		if entryResp := FromDomainEntry(entry); entryResp != nil {
			resp.Entries[i] = *entryResp
		}
	}

	return resp
}

// FromAuditRecords конвертирует записи журнала в DTO
func FromAuditRecords(records []*auditRepo.Record) []AuditRecordResponse {
	result := make([]AuditRecordResponse, len(records))
	for i, record := range records {
		result[i] = AuditRecordResponse{
			Action:    record.Action,
			Channel:   record.Channel,
			Outcome:   record.Outcome,
			Details:   record.Details,
			CreatedAt: record.CreatedAt.Format(time.RFC3339),
		}
	}
	return result
}

// ToDomainEntryStatus конвертирует строку в domain.EntryStatus с валидацией
func ToDomainEntryStatus(status string) (domain.EntryStatus, error) {
	s := domain.EntryStatus(status)

	for _, valid := range domain.ValidStatuses {
		if s == valid {
			return s, nil
		}
	}

	return "", ErrInvalidStatus
}
