package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"storereport/internal/shared/testutil"
	"storereport/pkg/contracts"
)

func TestHealthService_Check(t *testing.T) {
	logger, logs := testutil.NewTestLogger(t)
	hs := NewHealthService("2.0.0-test", logger)

	fixed := hs.startTime.Add(90 * time.Second)
	hs.now = func() time.Time { return fixed }

	status := hs.Check(context.Background())

	assert.Equal(t, "ok", status.Status)
	assert.Equal(t, "2.0.0-test", status.Version)
	assert.Equal(t, contracts.LayoutVersion, status.Layout)
	assert.Equal(t, fixed, status.Timestamp)
	assert.InDelta(t, 90.0, status.UptimeSeconds, 0.001)
	assert.NotEmpty(t, status.Runtime.GoVersion)
	assert.Positive(t, status.Runtime.Goroutines)
	assert.True(t, logs.ContainsMessage("HealthService initialized"))
}

func TestHealthService_Version(t *testing.T) {
	hs := NewHealthService("2.0.0-test", nil)

	info := hs.Version()
	assert.Equal(t, "2.0.0-test", info.Version)
	assert.Equal(t, contracts.LayoutVersion, info.Layout)
	assert.NotEmpty(t, info.GoVersion)
}
