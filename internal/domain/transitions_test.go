package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/m04kA/SMC-WaitlistService/pkg/ptr"
	"github.com/m04kA/SMC-WaitlistService/pkg/types"
)

func TestValidTransition(t *testing.T) {
	cases := []struct {
		from  EntryStatus
		to    EntryStatus
		valid bool
	}{
		{StatusWaiting, StatusNotified, true},
		{StatusWaiting, StatusCancelled, true},
		{StatusWaiting, StatusBooked, false},
		{StatusNotified, StatusBooked, true},
		{StatusNotified, StatusWaiting, true},
		{StatusNotified, StatusCancelled, true},
		{StatusNotified, StatusExpired, true},
		{StatusExpired, StatusWaiting, true},
		{StatusExpired, StatusBooked, false},
		{StatusBooked, StatusWaiting, false},
		{StatusBooked, StatusCancelled, false},
		{StatusCancelled, StatusWaiting, false},
		{EntryStatus("unknown"), StatusWaiting, false},
	}

	for _, tt := range cases {
		if got := ValidTransition(tt.from, tt.to); got != tt.valid {
			t.Fatalf("ValidTransition(%q, %q)=%v, want %v", tt.from, tt.to, got, tt.valid)
		}
	}
}

func TestWaitlistEntry_Predicates(t *testing.T) {
	now := time.Date(2025, 10, 15, 12, 0, 0, 0, time.UTC)

	entry := &WaitlistEntry{Status: StatusWaiting}
	assert.True(t, entry.CanBeNotified())
	assert.True(t, entry.CanBeWithdrawn())
	assert.False(t, entry.IsTerminal())

	entry.Status = StatusNotified
	entry.Offer = &Offer{ExpiresAt: now.Add(time.Hour)}
	assert.False(t, entry.CanBeNotified())
	assert.True(t, entry.CanBeWithdrawn())
	assert.True(t, entry.HasActiveOffer(now))
	assert.False(t, entry.HasActiveOffer(now.Add(2*time.Hour)))

	entry.Status = StatusBooked
	assert.True(t, entry.IsTerminal())
	assert.False(t, entry.CanBeWithdrawn())
}

func TestWaitlistEntry_InCooldown(t *testing.T) {
	now := time.Date(2025, 10, 15, 12, 0, 0, 0, time.UTC)

	entry := &WaitlistEntry{Status: StatusWaiting}
	assert.False(t, entry.InCooldown(now))

	until := now.Add(30 * time.Minute)
	entry.CooldownUntil = &until
	assert.True(t, entry.InCooldown(now))
	assert.False(t, entry.InCooldown(now.Add(time.Hour)))
}

func TestWaitlistEntry_HasContactChannel(t *testing.T) {
	entry := &WaitlistEntry{CustomerName: "Анна"}
	assert.False(t, entry.HasContactChannel())

	entry.CustomerEmail = ptr.Ptr("")
	assert.False(t, entry.HasContactChannel())

	entry.CustomerEmail = ptr.Ptr("anna@example.com")
	assert.True(t, entry.HasContactChannel())

	entry.CustomerEmail = nil
	entry.CustomerPhone = ptr.Ptr("+79990001122")
	assert.True(t, entry.HasContactChannel())
}

func TestWaitlistEntry_AcceptsSlot(t *testing.T) {
	entry := &WaitlistEntry{}

	// Без окна предпочтений любой слот подходит
	assert.True(t, entry.AcceptsSlot("10:00", "10:30"))

	entry.PreferredTimeStart = ptr.Ptr(types.TimeString("09:00"))
	entry.PreferredTimeEnd = ptr.Ptr(types.TimeString("12:00"))
	assert.True(t, entry.AcceptsSlot("10:00", "10:30"))
	assert.True(t, entry.AcceptsSlot("09:00", "12:00"))
	assert.False(t, entry.AcceptsSlot("08:30", "09:00"))
	assert.False(t, entry.AcceptsSlot("11:45", "12:15"))
}

func TestWaitlistEntry_MatchesEmployee(t *testing.T) {
	entry := &WaitlistEntry{}
	assert.True(t, entry.MatchesEmployee(nil))
	assert.True(t, entry.MatchesEmployee(ptr.Ptr(int64(7))))

	entry.EmployeeID = ptr.Ptr(int64(7))
	assert.True(t, entry.MatchesEmployee(ptr.Ptr(int64(7))))
	assert.False(t, entry.MatchesEmployee(ptr.Ptr(int64(8))))
	assert.False(t, entry.MatchesEmployee(nil))
}

func TestOffer_IsExpired(t *testing.T) {
	now := time.Date(2025, 10, 15, 12, 0, 0, 0, time.UTC)
	offer := &Offer{ExpiresAt: now}

	assert.True(t, offer.IsExpired(now))
	assert.True(t, offer.IsExpired(now.Add(time.Minute)))
	assert.False(t, offer.IsExpired(now.Add(-time.Minute)))
}
