package resolve_claim

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-WaitlistService/internal/domain"
	auditRepo "github.com/m04kA/SMC-WaitlistService/internal/infra/storage/audit"
	waitlistRepo "github.com/m04kA/SMC-WaitlistService/internal/infra/storage/waitlist"
	"github.com/m04kA/SMC-WaitlistService/internal/integrations/calendar"
	"github.com/m04kA/SMC-WaitlistService/pkg/ptr"
)

// Фейки зависимостей

type releaseCall struct {
	newStatus     domain.EntryStatus
	cooldownUntil *time.Time
}

type fakeRepo struct {
	byToken    map[string]*domain.WaitlistEntry
	releaseErr error
	bookedErr  error

	released *releaseCall
	bookedID *int64
}

func (f *fakeRepo) GetByToken(_ context.Context, token string) (*domain.WaitlistEntry, error) {
	entry, ok := f.byToken[token]
	if !ok {
		return nil, waitlistRepo.ErrTokenNotFound
	}
	copied := *entry
	return &copied, nil
}

func (f *fakeRepo) ReleaseOffer(_ context.Context, _ int64, _ string, newStatus domain.EntryStatus, cooldownUntil *time.Time) error {
	if f.releaseErr != nil {
		return f.releaseErr
	}
	f.released = &releaseCall{newStatus: newStatus, cooldownUntil: cooldownUntil}
	return nil
}

func (f *fakeRepo) MarkBooked(_ context.Context, _ int64, _ string, bookingID int64) error {
	if f.bookedErr != nil {
		return f.bookedErr
	}
	f.bookedID = &bookingID
	return nil
}

type fakeCalendar struct {
	bookingID  int64
	convertErr error

	convertKeys  []string
	slotReleased bool
}

func (f *fakeCalendar) ConvertOfferToBooking(_ context.Context, _, _ int64, _ *domain.Slot, _ calendar.BookingCustomer, idempotencyKey string) (int64, error) {
	f.convertKeys = append(f.convertKeys, idempotencyKey)
	if f.convertErr != nil {
		return 0, f.convertErr
	}
	return f.bookingID, nil
}

func (f *fakeCalendar) ReleaseSlot(_ context.Context, _, _ int64, _ *domain.Slot) error {
	f.slotReleased = true
	return nil
}

type fakeAudit struct {
	records []*auditRepo.Record
}

func (f *fakeAudit) Append(_ context.Context, record *auditRepo.Record) error {
	f.records = append(f.records, record)
	return nil
}

type stubTime struct{ now time.Time }

func (s *stubTime) Now() time.Time { return s.now }

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

// Вспомогательные конструкторы

const testToken = "a1b2c3d4e5f60718293a4b5c6d7e8f90"

func notifiedEntry(now time.Time) *domain.WaitlistEntry {
	return &domain.WaitlistEntry{
		ID:            100,
		SalonID:       1,
		CustomerName:  "Анна",
		CustomerEmail: ptr.Ptr("anna@example.com"),
		ServiceID:     10,
		PreferredDate: now.AddDate(0, 0, 1),
		Status:        domain.StatusNotified,
		Offer: &domain.Offer{
			Token:      testToken,
			SlotDate:   now.AddDate(0, 0, 1),
			SlotStart:  "10:00",
			SlotEnd:    "10:30",
			NotifiedAt: now.Add(-time.Hour),
			ExpiresAt:  now.Add(time.Hour),
			Trigger:    domain.TriggerCancellation,
			FromStatus: domain.StatusWaiting,
		},
	}
}

func newUseCase(repo *fakeRepo, cal *fakeCalendar, aud *fakeAudit, now time.Time) *UseCase {
	uc := NewUseCase(repo, cal, aud, Config{Cooldown: time.Hour}, nopLogger{})
	uc.timeProvider = &stubTime{now: now}
	return uc
}

// Тесты

func TestExecute_AcceptCreatesBooking(t *testing.T) {
	now := time.Date(2025, 10, 14, 12, 0, 0, 0, time.UTC)
	repo := &fakeRepo{byToken: map[string]*domain.WaitlistEntry{testToken: notifiedEntry(now)}}
	cal := &fakeCalendar{bookingID: 555}
	aud := &fakeAudit{}

	uc := newUseCase(repo, cal, aud, now)

	resp, err := uc.Execute(context.Background(), &Request{Token: testToken, Action: ActionAccept, Channel: "link"})
	require.NoError(t, err)

	assert.Equal(t, StatusAccepted, resp.Status)
	require.NotNil(t, resp.BookingID)
	assert.Equal(t, int64(555), *resp.BookingID)

	require.NotNil(t, repo.bookedID)
	assert.Equal(t, int64(555), *repo.bookedID)

	// Токен оффера служит ключом идемпотентности конвертации
	require.Len(t, cal.convertKeys, 1)
	assert.Equal(t, testToken, cal.convertKeys[0])

	require.Len(t, aud.records, 1)
	assert.Equal(t, auditRepo.ActionClaimResolved, aud.records[0].Action)
	assert.Equal(t, "accepted", aud.records[0].Outcome)
	assert.Equal(t, "link", aud.records[0].Channel)
}

func TestExecute_UnknownTokenIsInvalid(t *testing.T) {
	now := time.Date(2025, 10, 14, 12, 0, 0, 0, time.UTC)
	repo := &fakeRepo{byToken: map[string]*domain.WaitlistEntry{}}

	uc := newUseCase(repo, &fakeCalendar{}, &fakeAudit{}, now)

	resp, err := uc.Execute(context.Background(), &Request{Token: "nonexistent", Action: ActionAccept, Channel: "link"})
	require.NoError(t, err)
	assert.Equal(t, StatusInvalid, resp.Status)
	assert.Nil(t, resp.BookingID)
}

func TestExecute_ExpiredOfferReleasesToOrigin(t *testing.T) {
	now := time.Date(2025, 10, 14, 12, 0, 0, 0, time.UTC)
	entry := notifiedEntry(now)
	entry.Offer.ExpiresAt = now.Add(-time.Minute)
	repo := &fakeRepo{byToken: map[string]*domain.WaitlistEntry{testToken: entry}}
	aud := &fakeAudit{}

	uc := newUseCase(repo, &fakeCalendar{}, aud, now)

	resp, err := uc.Execute(context.Background(), &Request{Token: testToken, Action: ActionAccept, Channel: "link"})
	require.NoError(t, err)

	assert.Equal(t, StatusExpired, resp.Status)
	require.NotNil(t, repo.released)
	assert.Equal(t, domain.StatusWaiting, repo.released.newStatus)
	assert.Nil(t, repo.released.cooldownUntil, "expiry does not start a cooldown")

	require.Len(t, aud.records, 1)
	assert.Equal(t, "expired", aud.records[0].Outcome)
}

func TestExecute_AcceptSlotTakenBecomesExpired(t *testing.T) {
	now := time.Date(2025, 10, 14, 12, 0, 0, 0, time.UTC)
	repo := &fakeRepo{byToken: map[string]*domain.WaitlistEntry{testToken: notifiedEntry(now)}}
	cal := &fakeCalendar{convertErr: calendar.ErrSlotUnavailable}

	uc := newUseCase(repo, cal, &fakeAudit{}, now)

	resp, err := uc.Execute(context.Background(), &Request{Token: testToken, Action: ActionAccept, Channel: "link"})
	require.NoError(t, err)

	assert.Equal(t, StatusExpired, resp.Status)
	require.NotNil(t, repo.released)
	assert.Equal(t, domain.StatusWaiting, repo.released.newStatus)
	assert.Nil(t, repo.bookedID)
}

func TestExecute_AcceptCalendarDownFailsClosed(t *testing.T) {
	now := time.Date(2025, 10, 14, 12, 0, 0, 0, time.UTC)
	repo := &fakeRepo{byToken: map[string]*domain.WaitlistEntry{testToken: notifiedEntry(now)}}
	cal := &fakeCalendar{convertErr: errors.New("timeout")}

	uc := newUseCase(repo, cal, &fakeAudit{}, now)

	_, err := uc.Execute(context.Background(), &Request{Token: testToken, Action: ActionAccept, Channel: "link"})
	assert.ErrorIs(t, err, ErrCalendarUnavailable)
	// Оффер не погашен - клиент может повторить попытку
	assert.Nil(t, repo.released)
	assert.Nil(t, repo.bookedID)
}

func TestExecute_AcceptLosesRaceAfterConversion(t *testing.T) {
	now := time.Date(2025, 10, 14, 12, 0, 0, 0, time.UTC)
	repo := &fakeRepo{
		byToken:   map[string]*domain.WaitlistEntry{testToken: notifiedEntry(now)},
		bookedErr: waitlistRepo.ErrStaleEntry,
	}

	uc := newUseCase(repo, &fakeCalendar{bookingID: 555}, &fakeAudit{}, now)

	resp, err := uc.Execute(context.Background(), &Request{Token: testToken, Action: ActionAccept, Channel: "link"})
	require.NoError(t, err)
	assert.Equal(t, StatusInvalid, resp.Status)
}

func TestExecute_DeclineStartsCooldown(t *testing.T) {
	now := time.Date(2025, 10, 14, 12, 0, 0, 0, time.UTC)
	repo := &fakeRepo{byToken: map[string]*domain.WaitlistEntry{testToken: notifiedEntry(now)}}
	cal := &fakeCalendar{}
	aud := &fakeAudit{}

	uc := newUseCase(repo, cal, aud, now)

	resp, err := uc.Execute(context.Background(), &Request{Token: testToken, Action: ActionDecline, Channel: "link"})
	require.NoError(t, err)

	assert.Equal(t, StatusDeclined, resp.Status)
	require.NotNil(t, repo.released)
	assert.Equal(t, domain.StatusWaiting, repo.released.newStatus)
	require.NotNil(t, repo.released.cooldownUntil)
	assert.Equal(t, now.Add(time.Hour), *repo.released.cooldownUntil)

	assert.True(t, cal.slotReleased, "slot goes back to the calendar for the next candidate")

	require.Len(t, aud.records, 1)
	assert.Equal(t, "declined", aud.records[0].Outcome)
}

func TestExecute_DeclineLosesRace(t *testing.T) {
	now := time.Date(2025, 10, 14, 12, 0, 0, 0, time.UTC)
	repo := &fakeRepo{
		byToken:    map[string]*domain.WaitlistEntry{testToken: notifiedEntry(now)},
		releaseErr: waitlistRepo.ErrStaleEntry,
	}
	cal := &fakeCalendar{}

	uc := newUseCase(repo, cal, &fakeAudit{}, now)

	resp, err := uc.Execute(context.Background(), &Request{Token: testToken, Action: ActionDecline, Channel: "link"})
	require.NoError(t, err)
	assert.Equal(t, StatusInvalid, resp.Status)
	assert.False(t, cal.slotReleased)
}

func TestExecute_TokenOnNonNotifiedEntryIsInvalid(t *testing.T) {
	now := time.Date(2025, 10, 14, 12, 0, 0, 0, time.UTC)
	entry := notifiedEntry(now)
	entry.Status = domain.StatusBooked
	repo := &fakeRepo{byToken: map[string]*domain.WaitlistEntry{testToken: entry}}

	uc := newUseCase(repo, &fakeCalendar{}, &fakeAudit{}, now)

	resp, err := uc.Execute(context.Background(), &Request{Token: testToken, Action: ActionAccept, Channel: "link"})
	require.NoError(t, err)
	assert.Equal(t, StatusInvalid, resp.Status)
}

func TestValidateRequest(t *testing.T) {
	assert.ErrorIs(t, validateRequest(&Request{Action: ActionAccept, Channel: "link"}), ErrInvalidInput)
	assert.ErrorIs(t, validateRequest(&Request{Token: "t", Action: "maybe", Channel: "link"}), ErrInvalidInput)
	assert.ErrorIs(t, validateRequest(&Request{Token: "t", Action: ActionDecline}), ErrInvalidInput)
	assert.NoError(t, validateRequest(&Request{Token: "t", Action: ActionDecline, Channel: "operator"}))
}
