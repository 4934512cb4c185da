package divisions

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

type stubUpstream struct {
	mu       sync.Mutex
	calls    []string
	saved    savedSet
	status   int
	lastPass string
}

type savedSet struct {
	Divs   []league.DivisionPayload `json:"divs"`
	Groups []league.GroupPayload    `json:"groups"`
}

func (s *stubUpstream) recorded() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.calls...)
}

func (s *stubUpstream) handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/divisions", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode([]league.Division{{ID: 1, Name: "Elites"}, {ID: 2, Name: "Challengers"}})
	})
	mux.HandleFunc("/groups", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode([]league.Group{{ID: 1, Division: "Elites", Name: "Group A"}})
	})
	mux.HandleFunc("/setdivsandgroups", func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		s.calls = append(s.calls, r.Method+" "+r.URL.Path)
		s.lastPass = r.URL.Query().Get("password")
		s.mu.Unlock()
		if s.status != 0 {
			http.Error(w, "refused", s.status)
			return
		}
		json.NewDecoder(r.Body).Decode(&s.saved)
		w.WriteHeader(http.StatusOK)
	})
	return mux
}

func setupHandlers(t *testing.T) *stubUpstream {
	t.Helper()
	stub := &stubUpstream{}
	srv := httptest.NewServer(stub.handler())
	t.Cleanup(srv.Close)

	c, err := league.NewClient(league.ClientConfig{
		BaseURL:       srv.URL,
		AdminPassword: "hunter2",
	})
	require.NoError(t, err)

	prev := client
	InitHandlers(c)
	t.Cleanup(func() { client = prev })
	return stub
}

func postForm(values url.Values) *httptest.ResponseRecorder {
	r := httptest.NewRequest(http.MethodPost, "/admin/divisions/submit", strings.NewReader(values.Encode()))
	r.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	w := httptest.NewRecorder()
	HandleSubmit(w, r)
	return w
}

func TestManagePageRendersExistingRows(t *testing.T) {
	setupHandlers(t)

	r := httptest.NewRequest(http.MethodGet, "/admin/divisions", nil)
	w := httptest.NewRecorder()
	HandleManagePage(w, r)

	require.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.Contains(t, body, `value="Elites"`)
	assert.Contains(t, body, `value="Challengers"`)
	assert.Contains(t, body, `value="Group A"`)
	// one blank slot per collection for additions
	assert.Contains(t, body, "divs.2.name")
	assert.Contains(t, body, "groups.1.name")
}

func TestSubmitReplacesWholeSet(t *testing.T) {
	stub := setupHandlers(t)

	values := url.Values{}
	values.Set("divs.0.name", "Elites")
	values.Set("divs.1.name", "Challengers")
	values.Set("groups.0.division", "Elites")
	values.Set("groups.0.name", "Group A")
	values.Set("groups.1.division", "Elites")
	values.Set("groups.1.name", "Group B")
	w := postForm(values)

	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, []string{"POST /setdivsandgroups"}, stub.recorded())
	assert.Equal(t, "hunter2", stub.lastPass)
	assert.Equal(t, []league.DivisionPayload{{Name: "Elites"}, {Name: "Challengers"}}, stub.saved.Divs)
	assert.Equal(t, []league.GroupPayload{
		{Division: "Elites", Name: "Group A"},
		{Division: "Elites", Name: "Group B"},
	}, stub.saved.Groups)
	assert.Contains(t, w.Body.String(), "Saved")
}

func TestSubmitDropsBlankAndOrphanRows(t *testing.T) {
	stub := setupHandlers(t)

	values := url.Values{}
	values.Set("divs.0.name", "Elites")
	values.Set("divs.1.name", "") // cleared: division removed
	values.Set("groups.0.division", "Elites")
	values.Set("groups.0.name", "Group A")
	values.Set("groups.1.division", "Challengers") // division gone, group goes too
	values.Set("groups.1.name", "Group X")
	w := postForm(values)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, []league.DivisionPayload{{Name: "Elites"}}, stub.saved.Divs)
	assert.Equal(t, []league.GroupPayload{{Division: "Elites", Name: "Group A"}}, stub.saved.Groups)
}

func TestSubmitRequiresOneDivision(t *testing.T) {
	stub := setupHandlers(t)

	values := url.Values{}
	values.Set("divs.0.name", "")
	w := postForm(values)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, stub.recorded(), "invalid form must not reach upstream")
	assert.Contains(t, w.Body.String(), "at least one division is required")
}

func TestSubmitSurfacesWrongPassword(t *testing.T) {
	stub := setupHandlers(t)
	stub.status = http.StatusUnauthorized

	values := url.Values{}
	values.Set("divs.0.name", "Elites")
	w := postForm(values)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Wrong password")
}
