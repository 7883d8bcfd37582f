package services

import (
	"testing"
	"time"

	"operation-hours/internal/state"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestStateCheckService_RunOnce tests the detect-once behavior of the
// fingerprint cycle
func TestStateCheckService_RunOnce(t *testing.T) {
	svc, st := setupScheduleService(t)

	require.NoError(t, svc.UpdateSchedule(&ScheduleInput{
		Seasons: []SeasonInput{allWeekInput("all-year", "01/01", "00:01", "23:59")},
	}))
	require.Eventually(t, func() bool {
		return len(svc.Get().Seasons) == 1
	}, 2*time.Second, 10*time.Millisecond)

	checker := NewStateCheckService(svc, state.NewFingerprinter(st, "test-salt"), newTestConfigManager(t))

	// First run observes a state with no stored hash.
	changed, err := checker.RunOnce()
	require.NoError(t, err)
	assert.True(t, changed)

	// Subsequent runs with an unchanged schedule are quiet.
	changed, err = checker.RunOnce()
	require.NoError(t, err)
	assert.False(t, changed)
}

// TestStateCheckService_ScheduleUpdateFiresCheck tests that a schedule update
// fires the fingerprint check through the cache reload, without waiting for
// the next tick
func TestStateCheckService_ScheduleUpdateFiresCheck(t *testing.T) {
	svc, st := setupScheduleService(t)

	require.NoError(t, svc.UpdateSchedule(&ScheduleInput{
		Seasons: []SeasonInput{allWeekInput("all-year", "01/01", "09:00", "18:00")},
	}))
	require.Eventually(t, func() bool {
		return len(svc.Get().Seasons) == 1
	}, 2*time.Second, 10*time.Millisecond)

	checker := NewStateCheckService(svc, state.NewFingerprinter(st, "test-salt"), newTestConfigManager(t))

	// Seed the stored fingerprint so only the update below can move it.
	_, err := checker.RunOnce()
	require.NoError(t, err)

	sub, err := st.Subscribe(state.InvalidationChannel)
	require.NoError(t, err)
	defer sub.Close()

	require.NoError(t, svc.UpdateSchedule(&ScheduleInput{
		Seasons: []SeasonInput{allWeekInput("all-year", "01/01", "06:00", "12:00")},
	}))

	select {
	case msg := <-sub.Channel():
		assert.NotEmpty(t, msg.Payload)
	case <-time.After(2 * time.Second):
		t.Fatal("schedule update did not fire a state invalidation")
	}

	// The reload hook stores the new fingerprint; manual runs settle quiet.
	require.Eventually(t, func() bool {
		changed, err := checker.RunOnce()
		return err == nil && !changed
	}, 2*time.Second, 10*time.Millisecond)
}

// TestStateCheckService_FreshInstallSkips tests that a missing schedule is
// not treated as an error
func TestStateCheckService_FreshInstallSkips(t *testing.T) {
	svc, st := setupScheduleService(t)

	checker := NewStateCheckService(svc, state.NewFingerprinter(st, "test-salt"), newTestConfigManager(t))

	changed, err := checker.RunOnce()
	require.NoError(t, err)
	assert.False(t, changed)
}

// TestStateCheckService_StartStop tests the background loop lifecycle
func TestStateCheckService_StartStop(t *testing.T) {
	svc, st := setupScheduleService(t)

	cm := newTestConfigManager(t)
	cm.interval = 10 * time.Millisecond

	checker := NewStateCheckService(svc, state.NewFingerprinter(st, "test-salt"), cm)
	checker.Start()

	// Let at least one tick pass, then stop within the context deadline.
	time.Sleep(30 * time.Millisecond)
	checker.Stop(testContext(t))
}
