package league

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.Handler) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	client, err := NewClient(ClientConfig{
		BaseURL:       srv.URL,
		AdminPassword: "hunter2",
	})
	require.NoError(t, err)
	return client
}

func TestNewClientRequiresBaseURL(t *testing.T) {
	_, err := NewClient(ClientConfig{})
	assert.Error(t, err)

	client, err := NewClient(ClientConfig{BaseURL: "https://api.example.gg/"})
	require.NoError(t, err)
	assert.Equal(t, "https://api.example.gg", client.baseURL)
}

func TestTeamsDecodesAndFilters(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/teams", r.URL.Path)
		assert.Equal(t, "D1", r.URL.Query().Get("div"))
		assert.Empty(t, r.URL.Query().Get("password"))
		json.NewEncoder(w).Encode([]Team{{ID: 1, Name: "State", Division: "D1"}})
	}))

	teams, err := client.Teams(context.Background(), "D1", false)
	require.NoError(t, err)
	require.Len(t, teams, 1)
	assert.Equal(t, "State", teams[0].Name)
}

func TestCreateMatchSendsPasswordAndBody(t *testing.T) {
	var got MatchPayload
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/addmatch", r.URL.Path)
		assert.Equal(t, "hunter2", r.URL.Query().Get("password"))
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusOK)
	}))

	payload := MatchPayload{Team1ID: 1, Team2ID: 2, Datetime: "2026-02-14T19:00"}
	require.NoError(t, client.CreateMatch(context.Background(), payload))
	assert.Equal(t, int64(1), got.Team1ID)
	assert.Equal(t, "2026-02-14T19:00", got.Datetime)
}

func TestUpdateMatchTargetsMatchPath(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/editmatch/42", r.URL.Path)
		assert.Equal(t, "hunter2", r.URL.Query().Get("password"))
		w.WriteHeader(http.StatusOK)
	}))

	require.NoError(t, client.UpdateMatch(context.Background(), 42, MatchPayload{}))
}

func TestUnauthorizedWrapsSentinel(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "wrong password", http.StatusUnauthorized)
	}))

	err := client.CreateMatch(context.Background(), MatchPayload{})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnauthorized)
}

func TestStatusErrorCarriesBody(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "team not found", http.StatusNotFound)
	}))

	err := client.DeleteTeam(context.Background(), 9)
	require.Error(t, err)
	var statusErr *StatusError
	require.ErrorAs(t, err, &statusErr)
	assert.Equal(t, http.StatusNotFound, statusErr.Code)
	assert.Contains(t, statusErr.Body, "team not found")
}

func TestFinalizeUpcomingCallsCreateThenDelete(t *testing.T) {
	var calls []string
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls = append(calls, r.Method+" "+r.URL.Path)
		assert.Equal(t, "hunter2", r.URL.Query().Get("password"))
		if r.URL.Path == "/deleteupcoming" {
			assert.Equal(t, "7", r.URL.Query().Get("upcoming_id"))
		}
		w.WriteHeader(http.StatusOK)
	}))

	require.NoError(t, client.FinalizeUpcoming(context.Background(), MatchPayload{}, 7))
	assert.Equal(t, []string{"POST /addmatch", "DELETE /deleteupcoming"}, calls)
}

func TestFinalizeUpcomingStopsWhenCreateFails(t *testing.T) {
	var calls []string
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls = append(calls, r.URL.Path)
		http.Error(w, "boom", http.StatusInternalServerError)
	}))

	err := client.FinalizeUpcoming(context.Background(), MatchPayload{}, 7)
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrUpcomingCleanup)
	assert.Equal(t, []string{"/addmatch"}, calls)
}

func TestFinalizeUpcomingReportsCleanupFailure(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/addmatch" {
			w.WriteHeader(http.StatusOK)
			return
		}
		http.Error(w, "not found", http.StatusNotFound)
	}))

	err := client.FinalizeUpcoming(context.Background(), MatchPayload{}, 7)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUpcomingCleanup)
}

func TestPayloadWinnerSerializesNull(t *testing.T) {
	data, err := json.Marshal(MatchPayload{Maps: []MapPayload{{MapNum: 1}}})
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(data, &decoded))
	winner, present := decoded["winner_id"]
	assert.True(t, present)
	assert.Nil(t, winner)

	maps := decoded["maps"].([]any)
	mapWinner, present := maps[0].(map[string]any)["winner_id"]
	assert.True(t, present)
	assert.Nil(t, mapWinner)
}

func TestPlayerStatPayloadFieldNames(t *testing.T) {
	data, err := json.Marshal(PlayerStatPayload{Kills: 20, ADR: 80.5, HSPercent: 50, KPR: 0.9, PlayerID: 3})
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(data, &decoded))
	for _, key := range []string{"K", "A", "D", "ADR", "hs_percent", "KPR", "player_id"} {
		assert.Contains(t, decoded, key)
	}
}

func TestCurrentlyCastedFiltersByDivision(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/getcurrentlycasted", r.URL.Path)
		assert.Equal(t, "Elites", r.URL.Query().Get("div"))
		json.NewEncoder(w).Encode([]Upcoming{{ID: 9, Casted: true}})
	}))

	casted, err := client.CurrentlyCasted(context.Background(), "Elites")
	require.NoError(t, err)
	require.Len(t, casted, 1)
	assert.True(t, casted[0].Casted)
}

func TestIsLivePassesChannel(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/islive", r.URL.Path)
		assert.Equal(t, "collegecounter", r.URL.Query().Get("username"))
		json.NewEncoder(w).Encode(true)
	}))

	live, err := client.IsLive(context.Background(), "collegecounter")
	require.NoError(t, err)
	assert.True(t, live)
}

func TestPlacementsDecodes(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/placements", r.URL.Path)
		json.NewEncoder(w).Encode([]Placement{
			{Placement: 1, Semester: "Fall", Year: 2025, Team: Team{ID: 1, Name: "State"}},
		})
	}))

	placements, err := client.Placements(context.Background(), "")
	require.NoError(t, err)
	require.Len(t, placements, 1)
	assert.Equal(t, "State", placements[0].Team.Name)
}

func TestSetDivisionsAndGroupsSendsWholeSet(t *testing.T) {
	var got struct {
		Divs   []DivisionPayload `json:"divs"`
		Groups []GroupPayload    `json:"groups"`
	}
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/setdivsandgroups", r.URL.Path)
		assert.Equal(t, "hunter2", r.URL.Query().Get("password"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusOK)
	}))

	divs := []DivisionPayload{{Name: "Elites"}}
	groups := []GroupPayload{{Division: "Elites", Name: "Group A"}}
	require.NoError(t, client.SetDivisionsAndGroups(context.Background(), divs, groups))
	assert.Equal(t, divs, got.Divs)
	assert.Equal(t, groups, got.Groups)
}
