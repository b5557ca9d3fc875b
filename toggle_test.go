package main

import (
	"fmt"
	"net/http"
	"sync"
	"testing"
	"time"

	"vidtube/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createToggleUser(t *testing.T, app *App) *models.User {
	t.Helper()
	hash, err := hashPassword("pass123")
	require.NoError(t, err)
	name := fmt.Sprintf("toggler%d", time.Now().UnixNano())
	user := &models.User{
		Username:     name,
		Email:        name + "@example.com",
		FullName:     "Toggle Tester",
		Avatar:       "http://fake-store/avatar.png",
		PasswordHash: hash,
	}
	require.NoError(t, app.db.Create(user).Error)
	return user
}

func edgeCount(t *testing.T, app *App, actorID, targetID uint, kind models.EdgeKind) int64 {
	t.Helper()
	var n int64
	require.NoError(t, app.db.Model(&models.Edge{}).
		Where("actor_id = ? AND target_id = ? AND kind = ?", actorID, targetID, kind).
		Count(&n).Error)
	return n
}

func TestToggleCycles(t *testing.T) {
	app := newTestApp(t)
	actor := createToggleUser(t, app)
	targetID := uint(time.Now().UnixNano() % 1_000_000_000)

	// created -> removed -> created; state cycles, edges never accumulate
	res, err := app.toggleEdge(actor.ID, targetID, models.EdgeLikeVideo)
	require.NoError(t, err)
	assert.Equal(t, toggleCreated, res.State)
	assert.EqualValues(t, 1, edgeCount(t, app, actor.ID, targetID, models.EdgeLikeVideo))

	res, err = app.toggleEdge(actor.ID, targetID, models.EdgeLikeVideo)
	require.NoError(t, err)
	assert.Equal(t, toggleRemoved, res.State)
	assert.EqualValues(t, 0, edgeCount(t, app, actor.ID, targetID, models.EdgeLikeVideo))

	res, err = app.toggleEdge(actor.ID, targetID, models.EdgeLikeVideo)
	require.NoError(t, err)
	assert.Equal(t, toggleCreated, res.State)
	assert.EqualValues(t, 1, edgeCount(t, app, actor.ID, targetID, models.EdgeLikeVideo))
}

func TestToggleKindsAreIndependent(t *testing.T) {
	app := newTestApp(t)
	actor := createToggleUser(t, app)
	targetID := uint(time.Now().UnixNano() % 1_000_000_000)

	_, err := app.toggleEdge(actor.ID, targetID, models.EdgeLikeVideo)
	require.NoError(t, err)
	_, err = app.toggleEdge(actor.ID, targetID, models.EdgeLikeComment)
	require.NoError(t, err)

	// toggling one kind off leaves the other untouched
	res, err := app.toggleEdge(actor.ID, targetID, models.EdgeLikeVideo)
	require.NoError(t, err)
	assert.Equal(t, toggleRemoved, res.State)
	assert.EqualValues(t, 1, edgeCount(t, app, actor.ID, targetID, models.EdgeLikeComment))
}

func TestSelfSubscriptionRejected(t *testing.T) {
	app := newTestApp(t)
	actor := createToggleUser(t, app)

	_, err := app.toggleEdge(actor.ID, actor.ID, models.EdgeSubscription)
	require.Error(t, err)
	ae, ok := err.(*apiError)
	require.True(t, ok)
	assert.Equal(t, http.StatusBadRequest, ae.status)
	assert.EqualValues(t, 0, edgeCount(t, app, actor.ID, actor.ID, models.EdgeSubscription))
}

func TestToggleInvalidTarget(t *testing.T) {
	app := newTestApp(t)
	actor := createToggleUser(t, app)

	_, err := app.toggleEdge(actor.ID, 0, models.EdgeLikeVideo)
	require.Error(t, err)
	ae, ok := err.(*apiError)
	require.True(t, ok)
	assert.Equal(t, http.StatusBadRequest, ae.status)
}

func TestConcurrentTogglesKeepInvariant(t *testing.T) {
	app := newTestApp(t)
	actor := createToggleUser(t, app)
	targetID := uint(time.Now().UnixNano() % 1_000_000_000)

	const n = 8
	var wg sync.WaitGroup
	var mu sync.Mutex
	inserted, reportedCreated, removed := 0, 0, 0

	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			res, err := app.toggleEdge(actor.ID, targetID, models.EdgeLikeTweet)
			if err != nil {
				t.Errorf("toggle error: %v", err)
				return
			}
			mu.Lock()
			if res.State == toggleCreated {
				reportedCreated++
				// a lost insert race reports created with a nil edge; only
				// calls carrying the edge actually inserted a row
				if res.Edge != nil {
					inserted++
				}
			} else {
				removed++
			}
			mu.Unlock()
		}()
	}
	wg.Wait()

	// however the calls interleave, the edge count must equal actual inserts
	// minus deletes and can never exceed one
	final := edgeCount(t, app, actor.ID, targetID, models.EdgeLikeTweet)
	assert.EqualValues(t, inserted-removed, final)
	assert.LessOrEqual(t, final, int64(1))
	assert.GreaterOrEqual(t, final, int64(0))
	assert.Equal(t, n, reportedCreated+removed)
}
