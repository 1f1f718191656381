package issue_offer

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
	"github.com/m04kA/SMC-WaitlistService/internal/integrations/notifier"
	"github.com/m04kA/SMC-WaitlistService/pkg/ptr"
	"github.com/m04kA/SMC-WaitlistService/pkg/types"
)

// Фейки зависимостей

type fakeRepo struct {
	entries        map[int64]*domain.WaitlistEntry
	transitionErr  error
	lastOffer      *domain.Offer
	transitionHits int
}

func (f *fakeRepo) GetByID(_ context.Context, salonID, id int64) (*domain.WaitlistEntry, error) {
	entry, ok := f.entries[id]
	if !ok || entry.SalonID != salonID {
		return nil, waitlistRepo.ErrEntryNotFound
	}
	copied := *entry
	return &copied, nil
}

func (f *fakeRepo) TransitionToNotified(_ context.Context, salonID, id int64, offer *domain.Offer) error {
	f.transitionHits++
	if f.transitionErr != nil {
		return f.transitionErr
	}
	entry := f.entries[id]
	entry.Status = domain.StatusNotified
	entry.Offer = offer
	f.lastOffer = offer
	return nil
}

type fakeCalendar struct {
	available bool
	err       error
}

func (f *fakeCalendar) CheckSlotAvailable(_ context.Context, _, _ int64, _ *domain.Slot) (bool, error) {
	return f.available, f.err
}

type fakeNotifier struct {
	delivered bool
	err       error
	sent      []notifier.OfferPayload
}

func (f *fakeNotifier) SendOffer(_ context.Context, _ notifier.Contact, payload notifier.OfferPayload) (bool, error) {
	f.sent = append(f.sent, payload)
	return f.delivered, f.err
}

type fakeAudit struct {
	records []*auditRepo.Record
}

func (f *fakeAudit) Append(_ context.Context, record *auditRepo.Record) error {
	f.records = append(f.records, record)
	return nil
}

type fakeTxManager struct{}

func (f *fakeTxManager) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type stubTime struct{ now time.Time }

func (s *stubTime) Now() time.Time { return s.now }

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

// Вспомогательные конструкторы

func waitingEntry(id int64) *domain.WaitlistEntry {
	return &domain.WaitlistEntry{
		ID:            id,
		SalonID:       1,
		CustomerName:  "Анна",
		CustomerEmail: ptr.Ptr("anna@example.com"),
		ServiceID:     10,
		PreferredDate: time.Date(2025, 10, 15, 0, 0, 0, 0, time.UTC),
		Status:        domain.StatusWaiting,
	}
}

func newUseCase(repo *fakeRepo, cal *fakeCalendar, ntf *fakeNotifier, aud *fakeAudit, now time.Time) *UseCase {
	uc := NewUseCase(repo, cal, ntf, aud, &fakeTxManager{},
		Config{OfferTTL: 2 * time.Hour, ClaimBaseURL: "https://booking.example.com/claims"},
		nopLogger{})
	uc.timeProvider = &stubTime{now: now}
	return uc
}

func validRequest() *Request {
	return &Request{
		SalonID:   1,
		EntryID:   100,
		SlotDate:  time.Date(2025, 10, 15, 0, 0, 0, 0, time.UTC),
		SlotStart: "10:00",
		SlotEnd:   "10:30",
		Trigger:   domain.TriggerCancellation,
	}
}

// Тесты

func TestExecute_Success(t *testing.T) {
	now := time.Date(2025, 10, 14, 12, 0, 0, 0, time.UTC)
	repo := &fakeRepo{entries: map[int64]*domain.WaitlistEntry{100: waitingEntry(100)}}
	cal := &fakeCalendar{available: true}
	ntf := &fakeNotifier{delivered: true}
	aud := &fakeAudit{}

	uc := newUseCase(repo, cal, ntf, aud, now)

	resp, err := uc.Execute(context.Background(), validRequest())
	require.NoError(t, err)

	assert.Len(t, resp.OfferToken, domain.OfferTokenBytes*2) // hex
	assert.True(t, resp.Notified)
	assert.Equal(t, now.Add(2*time.Hour), resp.ExpiresAt)

	require.NotNil(t, repo.lastOffer)
	assert.Equal(t, resp.OfferToken, repo.lastOffer.Token)
	assert.Equal(t, domain.StatusWaiting, repo.lastOffer.FromStatus)
	assert.Equal(t, domain.TriggerCancellation, repo.lastOffer.Trigger)

	require.Len(t, ntf.sent, 1)
	assert.Contains(t, ntf.sent[0].ClaimLink, resp.OfferToken)

	require.Len(t, aud.records, 1)
	assert.Equal(t, auditRepo.ActionOfferIssued, aud.records[0].Action)
	assert.Equal(t, "system", aud.records[0].Channel)
}

func TestExecute_TokensAreUnique(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		token, err := newOfferToken()
		require.NoError(t, err)
		require.False(t, seen[token], "duplicate token generated")
		seen[token] = true
	}
}

func TestExecute_EntryNotFound(t *testing.T) {
	now := time.Date(2025, 10, 14, 12, 0, 0, 0, time.UTC)
	repo := &fakeRepo{entries: map[int64]*domain.WaitlistEntry{}}

	uc := newUseCase(repo, &fakeCalendar{available: true}, &fakeNotifier{}, &fakeAudit{}, now)

	_, err := uc.Execute(context.Background(), validRequest())
	assert.ErrorIs(t, err, ErrEntryNotFound)
}

func TestExecute_CrossTenantIsNotFound(t *testing.T) {
	now := time.Date(2025, 10, 14, 12, 0, 0, 0, time.UTC)
	entry := waitingEntry(100)
	entry.SalonID = 2 // другой салон
	repo := &fakeRepo{entries: map[int64]*domain.WaitlistEntry{100: entry}}

	uc := newUseCase(repo, &fakeCalendar{available: true}, &fakeNotifier{}, &fakeAudit{}, now)

	_, err := uc.Execute(context.Background(), validRequest())
	assert.ErrorIs(t, err, ErrEntryNotFound)
}

func TestExecute_PendingOfferConflict(t *testing.T) {
	now := time.Date(2025, 10, 14, 12, 0, 0, 0, time.UTC)
	entry := waitingEntry(100)
	entry.Status = domain.StatusNotified
	entry.Offer = &domain.Offer{Token: "existing", ExpiresAt: now.Add(time.Hour)}
	repo := &fakeRepo{entries: map[int64]*domain.WaitlistEntry{100: entry}}

	uc := newUseCase(repo, &fakeCalendar{available: true}, &fakeNotifier{}, &fakeAudit{}, now)

	_, err := uc.Execute(context.Background(), validRequest())
	assert.ErrorIs(t, err, ErrOfferPending)
	assert.True(t, IsConflict(err))
}

func TestExecute_TerminalEntryConflict(t *testing.T) {
	now := time.Date(2025, 10, 14, 12, 0, 0, 0, time.UTC)
	entry := waitingEntry(100)
	entry.Status = domain.StatusCancelled
	repo := &fakeRepo{entries: map[int64]*domain.WaitlistEntry{100: entry}}

	uc := newUseCase(repo, &fakeCalendar{available: true}, &fakeNotifier{}, &fakeAudit{}, now)

	_, err := uc.Execute(context.Background(), validRequest())
	assert.ErrorIs(t, err, ErrEntryNotWaiting)
}

func TestExecute_CooldownConflict(t *testing.T) {
	now := time.Date(2025, 10, 14, 12, 0, 0, 0, time.UTC)
	entry := waitingEntry(100)
	entry.CooldownUntil = ptr.Ptr(now.Add(30 * time.Minute))
	repo := &fakeRepo{entries: map[int64]*domain.WaitlistEntry{100: entry}}

	uc := newUseCase(repo, &fakeCalendar{available: true}, &fakeNotifier{}, &fakeAudit{}, now)

	_, err := uc.Execute(context.Background(), validRequest())
	assert.ErrorIs(t, err, ErrEntryInCooldown)
}

func TestExecute_SlotOutsidePreferredWindow(t *testing.T) {
	now := time.Date(2025, 10, 14, 12, 0, 0, 0, time.UTC)
	entry := waitingEntry(100)
	entry.PreferredTimeStart = ptr.Ptr(types.TimeString("12:00"))
	repo := &fakeRepo{entries: map[int64]*domain.WaitlistEntry{100: entry}}

	uc := newUseCase(repo, &fakeCalendar{available: true}, &fakeNotifier{}, &fakeAudit{}, now)

	_, err := uc.Execute(context.Background(), validRequest())
	assert.ErrorIs(t, err, ErrIncompatibleSlot)
}

func TestExecute_SlotUnavailable(t *testing.T) {
	now := time.Date(2025, 10, 14, 12, 0, 0, 0, time.UTC)
	repo := &fakeRepo{entries: map[int64]*domain.WaitlistEntry{100: waitingEntry(100)}}

	uc := newUseCase(repo, &fakeCalendar{available: false}, &fakeNotifier{}, &fakeAudit{}, now)

	_, err := uc.Execute(context.Background(), validRequest())
	assert.ErrorIs(t, err, ErrSlotUnavailable)
	assert.Zero(t, repo.transitionHits, "no state change on unavailable slot")
}

func TestExecute_CalendarDownFailsClosed(t *testing.T) {
	now := time.Date(2025, 10, 14, 12, 0, 0, 0, time.UTC)
	repo := &fakeRepo{entries: map[int64]*domain.WaitlistEntry{100: waitingEntry(100)}}

	uc := newUseCase(repo, &fakeCalendar{err: errors.New("timeout")}, &fakeNotifier{}, &fakeAudit{}, now)

	_, err := uc.Execute(context.Background(), validRequest())
	assert.ErrorIs(t, err, ErrCalendarUnavailable)
	assert.Zero(t, repo.transitionHits)
}

func TestExecute_ConcurrentTransitionLosesRace(t *testing.T) {
	now := time.Date(2025, 10, 14, 12, 0, 0, 0, time.UTC)
	repo := &fakeRepo{
		entries:       map[int64]*domain.WaitlistEntry{100: waitingEntry(100)},
		transitionErr: waitlistRepo.ErrStaleEntry,
	}

	uc := newUseCase(repo, &fakeCalendar{available: true}, &fakeNotifier{}, &fakeAudit{}, now)

	_, err := uc.Execute(context.Background(), validRequest())
	assert.ErrorIs(t, err, ErrOfferPending)
}

func TestExecute_DeliveryFailureKeepsOffer(t *testing.T) {
	now := time.Date(2025, 10, 14, 12, 0, 0, 0, time.UTC)
	repo := &fakeRepo{entries: map[int64]*domain.WaitlistEntry{100: waitingEntry(100)}}
	ntf := &fakeNotifier{err: notifier.ErrDeliveryFailed}

	uc := newUseCase(repo, &fakeCalendar{available: true}, ntf, &fakeAudit{}, now)

	resp, err := uc.Execute(context.Background(), validRequest())
	require.NoError(t, err)

	assert.False(t, resp.Notified)
	assert.NotEmpty(t, resp.OfferToken)
	// Запись осталась notified - токен по-прежнему можно погасить
	assert.Equal(t, domain.StatusNotified, repo.entries[100].Status)
}

func TestExecute_ManualNotifyAuditChannel(t *testing.T) {
	now := time.Date(2025, 10, 14, 12, 0, 0, 0, time.UTC)
	repo := &fakeRepo{entries: map[int64]*domain.WaitlistEntry{100: waitingEntry(100)}}
	aud := &fakeAudit{}

	uc := newUseCase(repo, &fakeCalendar{available: true}, &fakeNotifier{delivered: true}, aud, now)

	req := validRequest()
	req.Trigger = domain.TriggerManualNotify

	_, err := uc.Execute(context.Background(), req)
	require.NoError(t, err)

	require.Len(t, aud.records, 1)
	assert.Equal(t, "operator", aud.records[0].Channel)
}

func TestValidateRequest(t *testing.T) {
	base := validRequest()

	badSlot := *base
	badSlot.SlotEnd = "09:00"
	assert.ErrorIs(t, validateRequest(&badSlot), ErrInvalidInput)

	badTrigger := *base
	badTrigger.Trigger = "unknown"
	assert.ErrorIs(t, validateRequest(&badTrigger), ErrInvalidInput)

	badEntry := *base
	badEntry.EntryID = 0
	assert.ErrorIs(t, validateRequest(&badEntry), ErrInvalidInput)

	assert.NoError(t, validateRequest(base))
}
