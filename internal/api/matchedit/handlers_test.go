package matchedit

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/collegecounter/ccweb/internal/league"
)

// stubUpstream fakes the league REST API for handler tests and records
// mutating calls for order assertions.
type stubUpstream struct {
	mu        sync.Mutex
	calls     []string
	matchBody league.MatchPayload
	statusFor map[string]int
	lastPass  string
}

func (s *stubUpstream) record(r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls = append(s.calls, r.Method+" "+r.URL.Path)
	if pass := r.URL.Query().Get("password"); pass != "" {
		s.lastPass = pass
	}
}

func (s *stubUpstream) recorded() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.calls...)
}

func (s *stubUpstream) handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/teams", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode([]league.Team{
			{ID: 1, Name: "State", Division: "D1"},
			{ID: 2, Name: "Tech", Division: "D1"},
		})
	})
	mux.HandleFunc("/players", func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Query().Get("team_id") {
		case "1":
			json.NewEncoder(w).Encode([]league.Player{{ID: 11, Name: "alpha", TeamID: 1}})
		case "2":
			json.NewEncoder(w).Encode([]league.Player{{ID: 22, Name: "bravo", TeamID: 2}})
		default:
			json.NewEncoder(w).Encode([]league.Player{})
		}
	})
	mux.HandleFunc("/getupcoming", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode([]league.Upcoming{
			{ID: 7, Datetime: "2026-03-01T20:00:00", Team1: league.Team{ID: 1}, Team2: league.Team{ID: 2}},
		})
	})
	mux.HandleFunc("/match/42", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(league.Match{
			ID:       42,
			Datetime: "2026-02-14T19:00:00",
			Team1:    league.Team{ID: 1, Name: "State"},
			Team2:    league.Team{ID: 2, Name: "Tech"},
		})
	})
	mutating := func(path string) {
		mux.HandleFunc(path, func(w http.ResponseWriter, r *http.Request) {
			s.record(r)
			if code, ok := s.statusFor[r.URL.Path]; ok {
				http.Error(w, "refused", code)
				return
			}
			if r.Method == http.MethodPost && strings.Contains(r.URL.Path, "match") {
				json.NewDecoder(r.Body).Decode(&s.matchBody)
			}
			w.WriteHeader(http.StatusOK)
		})
	}
	mutating("/addmatch")
	mutating("/editmatch/42")
	mutating("/deleteupcoming")
	return mux
}

func setupHandlers(t *testing.T) *stubUpstream {
	t.Helper()
	stub := &stubUpstream{statusFor: map[string]int{}}
	srv := httptest.NewServer(stub.handler())
	t.Cleanup(srv.Close)

	c, err := league.NewClient(league.ClientConfig{
		BaseURL:       srv.URL,
		AdminPassword: "hunter2",
	})
	require.NoError(t, err)

	prevClient, prevDirectory := client, directory
	InitHandlers(c, league.NewDirectory(c))
	t.Cleanup(func() {
		client, directory = prevClient, prevDirectory
	})
	return stub
}

func validFormValues() url.Values {
	return url.Values{
		"team1_id":                 {"1"},
		"team2_id":                 {"2"},
		"score1":                   {"2"},
		"score2":                   {"1"},
		"datetime":                 {"2026-02-14T19:00"},
		"maps.0.map_name":          {"Inferno"},
		"maps.0.team1_score":       {"13"},
		"maps.0.team2_score":       {"7"},
		"maps.0.stats.0.player_id": {"11"},
		"maps.0.stats.0.kills":     {"20"},
	}
}

func postForm(handler http.HandlerFunc, path string, values url.Values) *httptest.ResponseRecorder {
	r := httptest.NewRequest(http.MethodPost, path, strings.NewReader(values.Encode()))
	r.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	r.Header.Set("HX-Request", "true")
	w := httptest.NewRecorder()
	handler(w, r)
	return w
}

func TestSubmitCreateSendsPayloadUpstream(t *testing.T) {
	stub := setupHandlers(t)

	w := postForm(HandleSubmit, "/admin/matches/editor/submit", validFormValues())

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, []string{"POST /addmatch"}, stub.recorded())
	assert.Equal(t, "hunter2", stub.lastPass)
	assert.Equal(t, int64(1), stub.matchBody.Team1ID)
	require.Len(t, stub.matchBody.Maps, 1)
	assert.Equal(t, 1, stub.matchBody.Maps[0].MapNum)
	assert.Nil(t, stub.matchBody.WinnerID)
}

func TestSubmitEditRedirectsToManage(t *testing.T) {
	stub := setupHandlers(t)

	values := validFormValues()
	values.Set("match_id", "42")
	w := postForm(HandleSubmit, "/admin/matches/editor/submit", values)

	assert.Equal(t, []string{"POST /editmatch/42"}, stub.recorded())
	assert.Equal(t, "/admin/matches", w.Header().Get("HX-Redirect"))
}

func TestSubmitFinalizeCreatesThenDeletes(t *testing.T) {
	stub := setupHandlers(t)

	values := validFormValues()
	values.Set("upcoming_id", "7")
	w := postForm(HandleSubmit, "/admin/matches/editor/submit", values)

	assert.Equal(t, []string{"POST /addmatch", "DELETE /deleteupcoming"}, stub.recorded())
	assert.Equal(t, "/admin/upcoming", w.Header().Get("HX-Redirect"))
}

func TestSubmitFinalizeCleanupFailureRedirectsWithNotice(t *testing.T) {
	stub := setupHandlers(t)
	stub.statusFor["/deleteupcoming"] = http.StatusInternalServerError

	values := validFormValues()
	values.Set("upcoming_id", "7")
	w := postForm(HandleSubmit, "/admin/matches/editor/submit", values)

	assert.Equal(t, "/admin/matches?notice=cleanup_failed", w.Header().Get("HX-Redirect"))
}

func TestSubmitUnauthorizedShowsWrongPassword(t *testing.T) {
	stub := setupHandlers(t)
	stub.statusFor["/addmatch"] = http.StatusUnauthorized

	w := postForm(HandleSubmit, "/admin/matches/editor/submit", validFormValues())

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Wrong password")
	assert.Empty(t, w.Header().Get("HX-Redirect"))
}

func TestSubmitValidationFailureReRendersForm(t *testing.T) {
	stub := setupHandlers(t)

	values := validFormValues()
	values.Set("team2_id", "1") // same team twice
	w := postForm(HandleSubmit, "/admin/matches/editor/submit", values)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, stub.recorded(), "invalid form must not reach upstream")
	assert.Contains(t, w.Body.String(), "cannot play itself")
}

func TestAddMapGrowsCollection(t *testing.T) {
	setupHandlers(t)

	w := postForm(HandleAddMap, "/admin/matches/editor/add-map", validFormValues())

	require.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.Contains(t, body, "maps.0.map_name")
	assert.Contains(t, body, "maps.1.map_name")
}

func TestRemoveMapRenumbersFields(t *testing.T) {
	setupHandlers(t)

	values := validFormValues()
	values.Set("maps.1.map_name", "Nuke")
	w := postForm(HandleRemoveMap, "/admin/matches/editor/remove-map?index=0", values)

	require.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.Contains(t, body, "maps.0.map_name")
	assert.Contains(t, body, `value="Nuke"`)
	assert.NotContains(t, body, "maps.1.map_name")
	// The map-pool datalist always lists Inferno; only the input value
	// shows which maps are actually on the form.
	assert.NotContains(t, body, `value="Inferno"`)
}

func TestAddPlayerStatRequiresValidMap(t *testing.T) {
	setupHandlers(t)

	w := postForm(HandleAddPlayerStat, "/admin/matches/editor/add-stat?map=9", validFormValues())
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = postForm(HandleAddPlayerStat, "/admin/matches/editor/add-stat?map=0", validFormValues())
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "maps.0.stats.1.player_id")
}

func TestTeamChangeClearsInvalidWinner(t *testing.T) {
	setupHandlers(t)

	values := validFormValues()
	values.Set("winner_id", "2")
	values.Set("team2_id", "") // winner no longer selectable
	w := postForm(HandleTeamChange, "/admin/matches/editor/teams", values)

	require.Equal(t, http.StatusOK, w.Code)
	assert.NotContains(t, w.Body.String(), `value="2" selected`)
}

func TestEditPageLoadsMatch(t *testing.T) {
	setupHandlers(t)

	r := httptest.NewRequest(http.MethodGet, "/admin/matches/42/edit", nil)
	r.SetPathValue("id", "42")
	w := httptest.NewRecorder()
	HandleEditMatchPage(w, r)

	require.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.Contains(t, body, "2026-02-14T19:00")
	assert.Contains(t, body, "State")
}

func TestNewPageWithUpcomingPrefills(t *testing.T) {
	setupHandlers(t)

	r := httptest.NewRequest(http.MethodGet, "/admin/matches/new?upcoming_id=7", nil)
	w := httptest.NewRecorder()
	HandleNewMatchPage(w, r)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "2026-03-01T20:00")
}
