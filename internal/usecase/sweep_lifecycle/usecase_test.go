package sweep_lifecycle

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
)

// Фейки зависимостей

type releaseCall struct {
	id        int64
	newStatus domain.EntryStatus
}

type fakeRepo struct {
	expired   []*domain.WaitlistEntry
	cooldowns []*domain.WaitlistEntry

	listExpiredErr   error
	releaseErrByID   map[int64]error
	clearErrByID     map[int64]error
	releases         []releaseCall
	clearedCooldowns []int64
}

func (f *fakeRepo) ListExpiredOffers(_ context.Context, _ time.Time, _ int) ([]*domain.WaitlistEntry, error) {
	return f.expired, f.listExpiredErr
}

func (f *fakeRepo) ReleaseOffer(_ context.Context, id int64, _ string, newStatus domain.EntryStatus, _ *time.Time) error {
	if err, ok := f.releaseErrByID[id]; ok {
		return err
	}
	f.releases = append(f.releases, releaseCall{id: id, newStatus: newStatus})
	return nil
}

func (f *fakeRepo) ListElapsedCooldowns(_ context.Context, _ time.Time, _ int) ([]*domain.WaitlistEntry, error) {
	return f.cooldowns, nil
}

func (f *fakeRepo) ClearCooldown(_ context.Context, id int64, _ time.Time) error {
	if err, ok := f.clearErrByID[id]; ok {
		return err
	}
	f.clearedCooldowns = append(f.clearedCooldowns, id)
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

func expiredEntry(id int64, now time.Time) *domain.WaitlistEntry {
	return &domain.WaitlistEntry{
		ID:      id,
		SalonID: 1,
		Status:  domain.StatusNotified,
		Offer: &domain.Offer{
			Token:      "token-expired",
			ExpiresAt:  now.Add(-time.Minute),
			FromStatus: domain.StatusWaiting,
		},
	}
}

func newUseCase(repo *fakeRepo, aud *fakeAudit, now time.Time) *UseCase {
	uc := NewUseCase(repo, aud, Config{BatchSize: 100}, nopLogger{})
	uc.timeProvider = &stubTime{now: now}
	return uc
}

// Тесты

func TestExecute_ExpiresOffersAndClearsCooldowns(t *testing.T) {
	now := time.Date(2025, 10, 14, 12, 0, 0, 0, time.UTC)
	repo := &fakeRepo{
		expired: []*domain.WaitlistEntry{
			expiredEntry(1, now),
			expiredEntry(2, now),
		},
		cooldowns: []*domain.WaitlistEntry{
			{ID: 3, SalonID: 1, Status: domain.StatusWaiting},
		},
	}
	aud := &fakeAudit{}

	uc := newUseCase(repo, aud, now)

	resp, err := uc.Execute(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 2, resp.OffersExpired)
	assert.Equal(t, 1, resp.CooldownsCleared)

	require.Len(t, repo.releases, 2)
	assert.Equal(t, domain.StatusWaiting, repo.releases[0].newStatus)
	assert.Equal(t, []int64{3}, repo.clearedCooldowns)

	require.Len(t, aud.records, 2)
	assert.Equal(t, "expired", aud.records[0].Outcome)
	assert.Equal(t, "system", aud.records[0].Channel)
}

func TestExecute_EmptyPassReturnsZeroCounts(t *testing.T) {
	now := time.Date(2025, 10, 14, 12, 0, 0, 0, time.UTC)
	repo := &fakeRepo{}

	uc := newUseCase(repo, &fakeAudit{}, now)

	resp, err := uc.Execute(context.Background())
	require.NoError(t, err)
	assert.Zero(t, resp.OffersExpired)
	assert.Zero(t, resp.CooldownsCleared)
}

func TestExecute_ConcurrentResolutionSkipped(t *testing.T) {
	now := time.Date(2025, 10, 14, 12, 0, 0, 0, time.UTC)
	repo := &fakeRepo{
		expired: []*domain.WaitlistEntry{
			expiredEntry(1, now),
			expiredEntry(2, now),
		},
		// Клиент успел погасить оффер записи 1 между выборкой и возвратом
		releaseErrByID: map[int64]error{1: waitlistRepo.ErrStaleEntry},
	}

	uc := newUseCase(repo, &fakeAudit{}, now)

	resp, err := uc.Execute(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, resp.OffersExpired)
	require.Len(t, repo.releases, 1)
	assert.Equal(t, int64(2), repo.releases[0].id)
}

func TestExecute_PerEntryFailureDoesNotAbortPass(t *testing.T) {
	now := time.Date(2025, 10, 14, 12, 0, 0, 0, time.UTC)
	repo := &fakeRepo{
		expired: []*domain.WaitlistEntry{
			expiredEntry(1, now),
			expiredEntry(2, now),
			expiredEntry(3, now),
		},
		releaseErrByID: map[int64]error{2: errors.New("connection reset")},
		cooldowns: []*domain.WaitlistEntry{
			{ID: 10, Status: domain.StatusWaiting},
			{ID: 11, Status: domain.StatusWaiting},
		},
		clearErrByID: map[int64]error{10: errors.New("connection reset")},
	}

	uc := newUseCase(repo, &fakeAudit{}, now)

	resp, err := uc.Execute(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 2, resp.OffersExpired)
	assert.Equal(t, 1, resp.CooldownsCleared)
}

func TestExecute_ListFailureAbortsPass(t *testing.T) {
	now := time.Date(2025, 10, 14, 12, 0, 0, 0, time.UTC)
	repo := &fakeRepo{listExpiredErr: errors.New("connection refused")}

	uc := newUseCase(repo, &fakeAudit{}, now)

	_, err := uc.Execute(context.Background())
	assert.ErrorIs(t, err, ErrInternal)
}
