package league

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDirectoryCachesTeamList(t *testing.T) {
	var fetches atomic.Int32
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fetches.Add(1)
		json.NewEncoder(w).Encode([]Team{{ID: 1, Name: "State"}})
	}))

	dir := NewDirectory(client)
	ctx := context.Background()

	first, err := dir.Teams(ctx)
	require.NoError(t, err)
	second, err := dir.Teams(ctx)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, int32(1), fetches.Load())
}

func TestDirectoryServesStaleOnRefreshFailure(t *testing.T) {
	var fail atomic.Bool
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if fail.Load() {
			http.Error(w, "down", http.StatusInternalServerError)
			return
		}
		json.NewEncoder(w).Encode([]Team{{ID: 1, Name: "State"}})
	}))

	dir := NewDirectory(client)
	ctx := context.Background()

	_, err := dir.Teams(ctx)
	require.NoError(t, err)

	fail.Store(true)
	require.NoError(t, dir.Refresh(ctx))

	teams, err := dir.Teams(ctx)
	require.NoError(t, err)
	require.Len(t, teams, 1)
	assert.Equal(t, "State", teams[0].Name)
}

func TestDirectoryErrorsWithoutAnyFetch(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "down", http.StatusInternalServerError)
	}))

	dir := NewDirectory(client)
	_, err := dir.Teams(context.Background())
	assert.Error(t, err)
}

func TestTeamByID(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode([]Team{{ID: 1, Name: "State"}, {ID: 2, Name: "Tech"}})
	}))

	dir := NewDirectory(client)
	ctx := context.Background()

	team, ok := dir.TeamByID(ctx, 2)
	require.True(t, ok)
	assert.Equal(t, "Tech", team.Name)

	_, ok = dir.TeamByID(ctx, 99)
	assert.False(t, ok)
}

func TestRosterPoolMergesAndDedupes(t *testing.T) {
	rosters := map[string][]Player{
		"1": {{ID: 11, Name: "alpha", TeamID: 1}, {ID: 33, Name: "shared", TeamID: 1}},
		"2": {{ID: 22, Name: "bravo", TeamID: 2}, {ID: 33, Name: "shared", TeamID: 2}},
	}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/players", r.URL.Path)
		json.NewEncoder(w).Encode(rosters[r.URL.Query().Get("team_id")])
	}))
	t.Cleanup(srv.Close)

	client, err := NewClient(ClientConfig{BaseURL: srv.URL})
	require.NoError(t, err)
	dir := NewDirectory(client)

	pool, err := dir.RosterPool(context.Background(), 1, 2)
	require.NoError(t, err)
	require.Len(t, pool, 3)

	ids := make(map[int64]int)
	for _, p := range pool {
		ids[p.ID]++
	}
	for id, count := range ids {
		assert.Equal(t, 1, count, "player %d appears %d times", id, count)
	}
}

func TestRosterPoolSkipsZeroTeam(t *testing.T) {
	var paths atomic.Int32
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		paths.Add(1)
		assert.Equal(t, "5", r.URL.Query().Get("team_id"))
		json.NewEncoder(w).Encode([]Player{{ID: 1, TeamID: 5}})
	}))

	dir := NewDirectory(client)
	pool, err := dir.RosterPool(context.Background(), 5, 0)
	require.NoError(t, err)
	assert.Len(t, pool, 1)
	assert.Equal(t, int32(1), paths.Load())
}

func TestRosterPoolPropagatesErrors(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("team_id") == "2" {
			http.Error(w, "down", http.StatusBadGateway)
			return
		}
		json.NewEncoder(w).Encode([]Player{{ID: 1, TeamID: 1}})
	}))

	dir := NewDirectory(client)
	_, err := dir.RosterPool(context.Background(), 1, 2)
	assert.Error(t, err)
}

func TestRosterPoolEmptySelection(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("no upstream call expected, got " + r.URL.Path)
	}))

	dir := NewDirectory(client)
	pool, err := dir.RosterPool(context.Background(), 0, 0)
	require.NoError(t, err)
	assert.Empty(t, pool)
}
