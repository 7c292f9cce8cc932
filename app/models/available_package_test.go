package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestAvailablePackageExpiry(t *testing.T) {
	now := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)

	live := &AvailablePackage{ExpiresAt: now.Add(time.Second)}
	assert.False(t, live.IsExpired(now))

	// The boundary counts as expired.
	boundary := &AvailablePackage{ExpiresAt: now}
	assert.True(t, boundary.IsExpired(now))

	past := &AvailablePackage{ExpiresAt: now.Add(-time.Hour)}
	assert.True(t, past.IsExpired(now))
}

func TestRecycleWindowIsThirtyDays(t *testing.T) {
	assert.Equal(t, 30*24*time.Hour, RecycleWindow)
}
