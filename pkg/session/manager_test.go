package session_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/aretw0/algotrace/pkg/algorithms"
	"github.com/aretw0/algotrace/pkg/domain"
	"github.com/aretw0/algotrace/pkg/observability"
	"github.com/aretw0/algotrace/pkg/playback"
	"github.com/aretw0/algotrace/pkg/session"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func stackRun() *domain.Run {
	return algorithms.Stack(domain.Input{Stack: []int{1, 2}})
}

func receive(t *testing.T, ch <-chan session.Event) session.Event {
	t.Helper()
	select {
	case ev, ok := <-ch:
		require.True(t, ok, "channel closed")
		return ev
	case <-time.After(time.Second):
		t.Fatal("no event within a second")
		return session.Event{}
	}
}

func TestManager_OpenGetClose(t *testing.T) {
	m := session.NewManager()
	s := m.Open(stackRun(), domain.Input{Stack: []int{1, 2}})

	_, err := uuid.Parse(s.ID)
	require.NoError(t, err)
	assert.Equal(t, algorithms.IDStack, s.Algorithm)

	got, err := m.Get(s.ID)
	require.NoError(t, err)
	assert.Same(t, s, got)

	index, total := got.Player.Position()
	assert.Equal(t, -1, index)
	assert.Equal(t, 3, total)
	assert.Equal(t, []string{s.ID}, m.List())

	require.NoError(t, m.Close(s.ID))
	_, err = m.Get(s.ID)
	assert.ErrorIs(t, err, domain.ErrSessionNotFound)
	assert.ErrorIs(t, m.Close(s.ID), domain.ErrSessionNotFound)
	assert.Empty(t, m.List())
}

func TestManager_SessionsAreIndependent(t *testing.T) {
	m := session.NewManager()
	a := m.Open(stackRun(), domain.Input{})
	b := m.Open(stackRun(), domain.Input{})
	require.NotEqual(t, a.ID, b.ID)

	a.Player.StepForward()
	ia, _ := a.Player.Position()
	ib, _ := b.Player.Position()
	assert.Equal(t, 0, ia)
	assert.Equal(t, -1, ib)
}

func TestManager_SubscribeReceivesPlayerEvents(t *testing.T) {
	m := session.NewManager()
	s := m.Open(stackRun(), domain.Input{})

	ch, cancel, err := m.Subscribe(s.ID)
	require.NoError(t, err)
	defer cancel()
	assert.Equal(t, 1, m.Subscribers(s.ID))

	s.Player.StepForward()
	ev := receive(t, ch)
	assert.Equal(t, session.EventStep, ev.Type)
	require.NotNil(t, ev.Emission)
	assert.Equal(t, 0, ev.Emission.Index)
	assert.Equal(t, []int{1}, ev.Emission.State.Stack)

	s.Player.Reset()
	assert.Equal(t, session.EventStep, receive(t, ch).Type)
	assert.Equal(t, session.EventReset, receive(t, ch).Type)

	_, _, err = m.Subscribe("missing")
	assert.ErrorIs(t, err, domain.ErrSessionNotFound)
}

func TestManager_CloseEndsSubscriptions(t *testing.T) {
	m := session.NewManager()
	s := m.Open(stackRun(), domain.Input{})
	ch, cancel, err := m.Subscribe(s.ID)
	require.NoError(t, err)

	require.NoError(t, m.Close(s.ID))
	for range ch {
	}
	assert.NotPanics(t, cancel, "cancel after close is a no-op")
}

func TestManager_CancelUnsubscribes(t *testing.T) {
	m := session.NewManager()
	s := m.Open(stackRun(), domain.Input{})
	ch, cancel, err := m.Subscribe(s.ID)
	require.NoError(t, err)

	cancel()
	cancel()
	_, open := <-ch
	assert.False(t, open)
	assert.Equal(t, 0, m.Subscribers(s.ID))

	assert.True(t, s.Player.StepForward(), "broadcast without subscribers is fine")
}

func TestManager_SlowSubscriberDropsEvents(t *testing.T) {
	m := session.NewManager()
	run := algorithms.BubbleSort(domain.Input{})
	s := m.Open(run, domain.Input{})
	ch, cancel, err := m.Subscribe(s.ID)
	require.NoError(t, err)
	defer cancel()

	for s.Player.StepForward() {
	}
	assert.Less(t, len(ch), run.Len())
	assert.Equal(t, cap(ch), len(ch))
}

func TestManager_Sweep(t *testing.T) {
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	var mu sync.Mutex
	clock := func() time.Time {
		mu.Lock()
		defer mu.Unlock()
		return now
	}
	advance := func(d time.Duration) {
		mu.Lock()
		defer mu.Unlock()
		now = now.Add(d)
	}

	m := session.NewManager(session.WithTTL(time.Minute), session.WithNow(clock))
	idle := m.Open(stackRun(), domain.Input{})
	busy := m.Open(stackRun(), domain.Input{})
	watched := m.Open(stackRun(), domain.Input{})
	_, cancel, err := m.Subscribe(watched.ID)
	require.NoError(t, err)
	defer cancel()

	advance(45 * time.Second)
	_, err = m.Get(busy.ID)
	require.NoError(t, err)
	advance(30 * time.Second)

	assert.Equal(t, 1, m.Sweep())
	_, err = m.Get(idle.ID)
	assert.ErrorIs(t, err, domain.ErrSessionNotFound)
	assert.ElementsMatch(t, []string{busy.ID, watched.ID}, m.List())
}

func TestManager_RunClosesSessionsOnShutdown(t *testing.T) {
	m := session.NewManager(session.WithTTL(0))
	m.Open(stackRun(), domain.Input{})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- m.Run(ctx) }()
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("Run did not return")
	}
	assert.Empty(t, m.List())
	assert.Equal(t, 0, m.Sweep(), "ttl 0 disables expiry")
}

func TestManager_PlayerOptionsAndMetrics(t *testing.T) {
	collector := observability.NewCollector()
	clock := playback.NewManualClock()
	m := session.NewManager(
		session.WithMetrics(collector),
		session.WithPlayerOptions(playback.WithClock(clock), playback.WithSpeed(2)),
	)
	s := m.Open(stackRun(), domain.Input{})
	assert.Equal(t, 2.0, s.Player.Speed())

	s.Player.Play()
	clock.Advance(playback.DefaultBaseDelay / 2)
	index, _ := s.Player.Position()
	assert.Equal(t, 0, index)

	_, _, emissions, sessions := collector.Instruments()
	assert.Equal(t, 1.0, testutil.ToFloat64(sessions))
	assert.Equal(t, 2.0, testutil.ToFloat64(emissions.WithLabelValues(session.EventStep)))
	assert.Equal(t, 1.0, testutil.ToFloat64(emissions.WithLabelValues(session.EventPlay)))

	require.NoError(t, m.Close(s.ID))
	assert.Equal(t, 0.0, testutil.ToFloat64(sessions))
	assert.Equal(t, 1.0, testutil.ToFloat64(emissions.WithLabelValues(session.EventPause)))
	assert.Equal(t, 0, clock.Active())
}

func TestManager_PlayAfterCloseIsIgnored(t *testing.T) {
	clock := playback.NewManualClock()
	m := session.NewManager(session.WithPlayerOptions(playback.WithClock(clock)))
	s := m.Open(stackRun(), domain.Input{})

	held, err := m.Get(s.ID)
	require.NoError(t, err)
	require.NoError(t, m.Close(s.ID))

	held.Player.Play()
	assert.False(t, held.Player.IsPlaying())
	assert.Equal(t, 0, clock.Active(), "no ticker outlives the session")
}
