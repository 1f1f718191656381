package handle_cancellation

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-WaitlistService/internal/domain"
	"github.com/m04kA/SMC-WaitlistService/internal/integrations/calendar"
	"github.com/m04kA/SMC-WaitlistService/internal/usecase/issue_offer"
	"github.com/m04kA/SMC-WaitlistService/pkg/ptr"
	"github.com/m04kA/SMC-WaitlistService/pkg/types"
)

// Фейки зависимостей

type fakeRepo struct {
	candidates []*domain.WaitlistEntry
	err        error
	lastFilter domain.CandidateFilter
}

func (f *fakeRepo) FindCandidates(_ context.Context, filter domain.CandidateFilter, _ time.Time) ([]*domain.WaitlistEntry, error) {
	f.lastFilter = filter
	return f.candidates, f.err
}

type fakeCalendar struct {
	slot *domain.Slot
	err  error
}

func (f *fakeCalendar) FindMatchingFreeSlot(_ context.Context, _, _ int64, _ time.Time, _ *int64) (*domain.Slot, error) {
	return f.slot, f.err
}

type fakeIssuer struct {
	errByEntry map[int64]error
	issued     []int64
}

func (f *fakeIssuer) Execute(_ context.Context, req *issue_offer.Request) (*issue_offer.Response, error) {
	if err, ok := f.errByEntry[req.EntryID]; ok {
		return nil, err
	}
	f.issued = append(f.issued, req.EntryID)
	return &issue_offer.Response{OfferToken: "token", Notified: true}, nil
}

type stubTime struct{ now time.Time }

func (s *stubTime) Now() time.Time { return s.now }

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

// Вспомогательные конструкторы

func freedSlot() *domain.Slot {
	return &domain.Slot{
		Date:      time.Date(2025, 10, 15, 0, 0, 0, 0, time.UTC),
		StartTime: "10:00",
		EndTime:   "10:30",
	}
}

func waitingCandidate(id int64) *domain.WaitlistEntry {
	return &domain.WaitlistEntry{
		ID:            id,
		SalonID:       1,
		ServiceID:     10,
		PreferredDate: time.Date(2025, 10, 15, 0, 0, 0, 0, time.UTC),
		Status:        domain.StatusWaiting,
	}
}

func validRequest() *Request {
	return &Request{
		SalonID:   1,
		ServiceID: 10,
		Date:      time.Date(2025, 10, 15, 0, 0, 0, 0, time.UTC),
	}
}

func newUseCase(repo *fakeRepo, cal *fakeCalendar, issuer *fakeIssuer, now time.Time) *UseCase {
	uc := NewUseCase(repo, cal, issuer, Config{CandidateLimit: 50}, nopLogger{})
	uc.timeProvider = &stubTime{now: now}
	return uc
}

// Тесты

func TestExecute_IssuesToFirstCandidate(t *testing.T) {
	now := time.Date(2025, 10, 14, 12, 0, 0, 0, time.UTC)
	repo := &fakeRepo{candidates: []*domain.WaitlistEntry{
		waitingCandidate(1),
		waitingCandidate(2),
		waitingCandidate(3),
	}}
	issuer := &fakeIssuer{}

	uc := newUseCase(repo, &fakeCalendar{slot: freedSlot()}, issuer, now)

	resp, err := uc.Execute(context.Background(), validRequest())
	require.NoError(t, err)

	// Один слот - один оффер: после первой выдачи перебор останавливается
	assert.Equal(t, 1, resp.OffersIssued)
	assert.Equal(t, 1, resp.CandidatesConsidered)
	assert.Equal(t, []int64{1}, issuer.issued)
}

func TestExecute_TriesNextOnConflict(t *testing.T) {
	now := time.Date(2025, 10, 14, 12, 0, 0, 0, time.UTC)
	repo := &fakeRepo{candidates: []*domain.WaitlistEntry{
		waitingCandidate(1),
		waitingCandidate(2),
		waitingCandidate(3),
	}}
	issuer := &fakeIssuer{errByEntry: map[int64]error{
		1: issue_offer.ErrOfferPending,
		2: issue_offer.ErrSlotUnavailable,
	}}

	uc := newUseCase(repo, &fakeCalendar{slot: freedSlot()}, issuer, now)

	resp, err := uc.Execute(context.Background(), validRequest())
	require.NoError(t, err)

	assert.Equal(t, 1, resp.OffersIssued)
	assert.Equal(t, 3, resp.CandidatesConsidered)
	assert.Equal(t, []int64{3}, issuer.issued)
}

func TestExecute_NoFreeSlotLeft(t *testing.T) {
	now := time.Date(2025, 10, 14, 12, 0, 0, 0, time.UTC)
	repo := &fakeRepo{}

	uc := newUseCase(repo, &fakeCalendar{err: calendar.ErrNoMatchingSlot}, &fakeIssuer{}, now)

	resp, err := uc.Execute(context.Background(), validRequest())
	require.NoError(t, err)
	assert.Zero(t, resp.OffersIssued)
	assert.Zero(t, resp.CandidatesConsidered)
}

func TestExecute_CalendarDownFailsClosed(t *testing.T) {
	now := time.Date(2025, 10, 14, 12, 0, 0, 0, time.UTC)

	uc := newUseCase(&fakeRepo{}, &fakeCalendar{err: errors.New("timeout")}, &fakeIssuer{}, now)

	_, err := uc.Execute(context.Background(), validRequest())
	assert.ErrorIs(t, err, ErrCalendarUnavailable)
}

func TestExecute_IncompatibleWindowExcluded(t *testing.T) {
	now := time.Date(2025, 10, 14, 12, 0, 0, 0, time.UTC)
	early := waitingCandidate(1)
	early.PreferredTimeEnd = ptr.Ptr(types.TimeString("09:00")) // слот 10:00 не попадает в окно
	repo := &fakeRepo{candidates: []*domain.WaitlistEntry{early, waitingCandidate(2)}}
	issuer := &fakeIssuer{}

	uc := newUseCase(repo, &fakeCalendar{slot: freedSlot()}, issuer, now)

	resp, err := uc.Execute(context.Background(), validRequest())
	require.NoError(t, err)

	// Несовместимое окно исключается из рассмотрения, а не пропускается с ретраем
	assert.Equal(t, 1, resp.CandidatesConsidered)
	assert.Equal(t, []int64{2}, issuer.issued)
}

func TestExecute_AllCandidatesFail(t *testing.T) {
	now := time.Date(2025, 10, 14, 12, 0, 0, 0, time.UTC)
	repo := &fakeRepo{candidates: []*domain.WaitlistEntry{
		waitingCandidate(1),
		waitingCandidate(2),
	}}
	issuer := &fakeIssuer{errByEntry: map[int64]error{
		1: issue_offer.ErrEntryInCooldown,
		2: issue_offer.ErrSlotUnavailable,
	}}

	uc := newUseCase(repo, &fakeCalendar{slot: freedSlot()}, issuer, now)

	resp, err := uc.Execute(context.Background(), validRequest())
	require.NoError(t, err)
	assert.Zero(t, resp.OffersIssued)
	assert.Equal(t, 2, resp.CandidatesConsidered)
	assert.Empty(t, issuer.issued)
}

func TestExecute_SlotEmployeePropagatedToFilter(t *testing.T) {
	now := time.Date(2025, 10, 14, 12, 0, 0, 0, time.UTC)
	slot := freedSlot()
	slot.EmployeeID = ptr.Ptr(int64(7))
	repo := &fakeRepo{}

	uc := newUseCase(repo, &fakeCalendar{slot: slot}, &fakeIssuer{}, now)

	_, err := uc.Execute(context.Background(), validRequest())
	require.NoError(t, err)
	require.NotNil(t, repo.lastFilter.EmployeeID)
	assert.Equal(t, int64(7), *repo.lastFilter.EmployeeID)
}

func TestValidateRequest(t *testing.T) {
	assert.ErrorIs(t, validateRequest(&Request{ServiceID: 1, Date: time.Now()}), ErrInvalidInput)
	assert.ErrorIs(t, validateRequest(&Request{SalonID: 1, Date: time.Now()}), ErrInvalidInput)
	assert.ErrorIs(t, validateRequest(&Request{SalonID: 1, ServiceID: 1}), ErrInvalidInput)
	assert.NoError(t, validateRequest(validRequest()))
}
