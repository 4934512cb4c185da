package placements

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/collegecounter/ccweb/internal/league"
)

func setupHandlers(t *testing.T) {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/divisions", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode([]league.Division{{ID: 1, Name: "Elites"}, {ID: 2, Name: "Challengers"}})
	})
	mux.HandleFunc("/placements", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("div") != "Elites" {
			json.NewEncoder(w).Encode([]league.Placement{})
			return
		}
		json.NewEncoder(w).Encode([]league.Placement{
			{Placement: 1, Division: "Elites", Semester: "Fall", Year: 2025, Team: league.Team{ID: 1, Name: "State"}},
			{Placement: 2, Division: "Elites", Semester: "Fall", Year: 2025, Split: true, Team: league.Team{ID: 2, Name: "Tech"}},
			{Placement: 1, Division: "Elites", Semester: "Spring", Year: 2025, Team: league.Team{ID: 3, Name: "Coast"}},
		})
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	c, err := league.NewClient(league.ClientConfig{BaseURL: srv.URL})
	require.NoError(t, err)

	prev := client
	InitHandlers(c)
	t.Cleanup(func() { client = prev })
}

func TestPlacementsPageDefaultsToFirstDivision(t *testing.T) {
	setupHandlers(t)

	r := httptest.NewRequest(http.MethodGet, "/placements", nil)
	w := httptest.NewRecorder()
	HandlePlacementsPage(w, r)

	require.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.Contains(t, body, "Fall 2025")
	assert.Contains(t, body, "Spring 2025")
	assert.Contains(t, body, "Champions")
	assert.Contains(t, body, "State")
	assert.Contains(t, body, "shared", "split placements are marked")
}

func TestPlacementsPageFiltersByDivision(t *testing.T) {
	setupHandlers(t)

	r := httptest.NewRequest(http.MethodGet, "/placements?div=Challengers", nil)
	r.Header.Set("HX-Request", "true")
	w := httptest.NewRecorder()
	HandlePlacementsPage(w, r)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "No placements recorded")
}
