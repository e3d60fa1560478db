package server

import (
	"sync"
	"testing"
	"time"

	"github.com/alkime/promo/internal/lead"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSessionStorePrunesIdleSessions(t *testing.T) {
	now := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	st := NewSessionStore(time.Hour)
	st.now = func() time.Time { return now }

	idle := st.Create()
	active := st.Create()

	now = now.Add(45 * time.Minute)
	_, ok := st.Do(active, nil)
	require.True(t, ok)

	now = now.Add(30 * time.Minute)
	assert.False(t, st.Exists(idle))
	assert.True(t, st.Exists(active))
	assert.Equal(t, 1, st.Len())
}

func TestSessionStoreWithoutTTLKeepsSessions(t *testing.T) {
	now := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	st := NewSessionStore(0)
	st.now = func() time.Time { return now }

	id := st.Create()
	now = now.Add(24 * 365 * time.Hour)

	assert.True(t, st.Exists(id))
}

func TestSessionStoreUnknownID(t *testing.T) {
	st := NewSessionStore(time.Hour)

	called := false
	_, ok := st.Do(uuid.New(), func(*lead.State) { called = true })

	assert.False(t, ok)
	assert.False(t, called)
}

func TestSessionStoreSerializesUpdates(t *testing.T) {
	st := NewSessionStore(time.Hour)
	id := st.Create()

	var wg sync.WaitGroup
	for range 50 {
		wg.Go(func() {
			st.Do(id, func(s *lead.State) { s.Advance() })
		})
	}
	wg.Wait()

	snap, ok := st.Do(id, nil)
	require.True(t, ok)
	assert.Equal(t, lead.LastStep, snap.Step)
}

func TestSessionStoreReturnsSnapshots(t *testing.T) {
	st := NewSessionStore(time.Hour)
	id := st.Create()

	snap, _ := st.Do(id, func(s *lead.State) {
		s.BeginRecording(time.Now())
		s.FinishRecording(time.Now())
	})
	require.NotNil(t, snap.RecordedVideo)
	snap.RecordedVideo.ID = uuid.Nil

	again, _ := st.Do(id, nil)
	assert.NotEqual(t, uuid.Nil, again.RecordedVideo.ID)
}
