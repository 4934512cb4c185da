package upcoming

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/collegecounter/ccweb/internal/league"
)

type stubUpstream struct {
	castedStatus int
	liveStatus   int
	live         bool
}

func (s *stubUpstream) handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/getupcoming", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode([]league.Upcoming{
			{
				ID:       3,
				Week:     4,
				Datetime: "2026-03-07T19:00:00",
				Team1:    league.Team{ID: 1, Name: "State"},
				Team2:    league.Team{ID: 2, Name: "Tech"},
			},
		})
	})
	mux.HandleFunc("/getcurrentlycasted", func(w http.ResponseWriter, r *http.Request) {
		if s.castedStatus != 0 {
			http.Error(w, "broken", s.castedStatus)
			return
		}
		json.NewEncoder(w).Encode([]league.Upcoming{
			{
				ID:             9,
				Casted:         true,
				Team1:          league.Team{ID: 5, Name: "Coast"},
				Team2:          league.Team{ID: 6, Name: "Valley"},
				MainStreamName: "league_main",
				MainStreamURL:  "https://twitch.tv/league_main",
			},
		})
	})
	mux.HandleFunc("/islive", func(w http.ResponseWriter, r *http.Request) {
		if s.liveStatus != 0 {
			http.Error(w, "broken", s.liveStatus)
			return
		}
		json.NewEncoder(w).Encode(s.live)
	})
	return mux
}

func setupHandlers(t *testing.T, stub *stubUpstream) {
	t.Helper()
	srv := httptest.NewServer(stub.handler())
	t.Cleanup(srv.Close)

	c, err := league.NewClient(league.ClientConfig{
		BaseURL:       srv.URL,
		AdminPassword: "hunter2",
	})
	require.NoError(t, err)

	prevClient, prevDirectory := client, directory
	prevChannel, prevURL := twitchChannel, twitchURL
	InitHandlers(c, league.NewDirectory(c), "collegecounter", "https://twitch.tv/collegecounter")
	t.Cleanup(func() {
		client, directory = prevClient, prevDirectory
		twitchChannel, twitchURL = prevChannel, prevURL
	})
}

func getUpcomingPage(t *testing.T) *httptest.ResponseRecorder {
	t.Helper()
	r := httptest.NewRequest(http.MethodGet, "/upcoming", nil)
	w := httptest.NewRecorder()
	HandleUpcomingPage(w, r)
	return w
}

func TestUpcomingPageShowsCastedMatches(t *testing.T) {
	setupHandlers(t, &stubUpstream{live: true})

	w := getUpcomingPage(t)

	require.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.Contains(t, body, "On Air")
	assert.Contains(t, body, "Coast")
	assert.Contains(t, body, "Watch on league_main")
	assert.Contains(t, body, "Live on Twitch")
	assert.Contains(t, body, "State")
}

func TestUpcomingPageDegradesWhenCastedFetchFails(t *testing.T) {
	setupHandlers(t, &stubUpstream{castedStatus: http.StatusInternalServerError, liveStatus: http.StatusInternalServerError})

	w := getUpcomingPage(t)

	require.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.NotContains(t, body, "On Air")
	assert.NotContains(t, body, "Live on Twitch")
	assert.Contains(t, body, "State", "the schedule still renders")
}

func TestUpcomingPageHidesLiveBadgeWhenOffline(t *testing.T) {
	setupHandlers(t, &stubUpstream{live: false})

	w := getUpcomingPage(t)

	require.Equal(t, http.StatusOK, w.Code)
	assert.NotContains(t, w.Body.String(), "Live on Twitch")
}
