// internal/api/matchedit/handlers.go

// Package matchedit serves the match result editor: the nested
// match -> maps -> player stat rows form used to record played matches and
// finalize scheduled ones. Every collection operation round-trips the whole
// form state through an HTMX fragment, so the server is the single owner of
// the editing state between keystrokes.
package matchedit

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/collegecounter/ccweb/internal/api/apiutil"
	"github.com/collegecounter/ccweb/internal/api/htmx"
	"github.com/collegecounter/ccweb/internal/editor"
	"github.com/collegecounter/ccweb/internal/league"
	matchedittempl "github.com/collegecounter/ccweb/internal/templates/components/matchedit"
	"github.com/collegecounter/ccweb/internal/templates/layouts"
)

const upstreamTimeout = 15 * time.Second

var (
	client    *league.Client
	directory *league.Directory
)

// InitHandlers must be called during server startup before handling requests.
func InitHandlers(c *league.Client, d *league.Directory) {
	client = c
	directory = d
}

// GET /admin/matches/new
// Optional upcoming_id query switches to the finalize flow, prefilled from
// the scheduled match.
func HandleNewMatchPage(w http.ResponseWriter, r *http.Request) {
	logger := log.Ctx(r.Context())

	ctx, cancel := context.WithTimeout(r.Context(), upstreamTimeout)
	defer cancel()

	form := editor.NewMatchForm()

	upcomingID, err := apiutil.OptionalIDFromQuery(r, "upcoming_id")
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if upcomingID != 0 {
		upcoming, err := findUpcoming(ctx, upcomingID)
		if err != nil {
			logger.Error().Err(err).Int64("upcoming_id", upcomingID).Msg("Failed to load upcoming match")
			http.Error(w, "Failed to load scheduled match", http.StatusBadGateway)
			return
		}
		form = editor.FromUpcoming(upcoming)
	}

	renderEditorPage(w, r, form, "", "")
}

// GET /admin/matches/{id}/edit
func HandleEditMatchPage(w http.ResponseWriter, r *http.Request) {
	logger := log.Ctx(r.Context())

	matchID, err := apiutil.IDFromPath(r, "id")
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), upstreamTimeout)
	defer cancel()

	match, err := client.Match(ctx, matchID)
	if err != nil {
		logger.Error().Err(err).Int64("match_id", matchID).Msg("Failed to load match")
		http.Error(w, "Failed to load match", http.StatusBadGateway)
		return
	}

	renderEditorPage(w, r, editor.FromMatch(match), "", "")
}

// POST /admin/matches/editor/add-map
func HandleAddMap(w http.ResponseWriter, r *http.Request) {
	form, ok := parsePostedForm(w, r)
	if !ok {
		return
	}
	form.AppendMap()
	renderEditorFragment(w, r, form, "", "")
}

// POST /admin/matches/editor/remove-map?index=<i>
func HandleRemoveMap(w http.ResponseWriter, r *http.Request) {
	form, ok := parsePostedForm(w, r)
	if !ok {
		return
	}
	index := int(parseIndex(r, "index"))
	if err := form.RemoveMap(index); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	renderEditorFragment(w, r, form, "", "")
}

// POST /admin/matches/editor/add-stat?map=<i>
func HandleAddPlayerStat(w http.ResponseWriter, r *http.Request) {
	form, ok := parsePostedForm(w, r)
	if !ok {
		return
	}
	mapIdx := int(parseIndex(r, "map"))
	if err := form.AppendPlayerStat(mapIdx); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	renderEditorFragment(w, r, form, "", "")
}

// POST /admin/matches/editor/remove-stat?map=<i>&index=<j>
func HandleRemovePlayerStat(w http.ResponseWriter, r *http.Request) {
	form, ok := parsePostedForm(w, r)
	if !ok {
		return
	}
	mapIdx := int(parseIndex(r, "map"))
	index := int(parseIndex(r, "index"))
	if err := form.RemovePlayerStat(mapIdx, index); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	renderEditorFragment(w, r, form, "", "")
}

// POST /admin/matches/editor/teams
// Fired when either team select changes; re-renders the form so the player
// pool and winner options follow the new selection.
func HandleTeamChange(w http.ResponseWriter, r *http.Request) {
	form, ok := parsePostedForm(w, r)
	if !ok {
		return
	}
	// A winner from a previous selection may no longer be valid.
	if form.WinnerID != 0 {
		valid := false
		for _, id := range form.WinnerOptions() {
			if id == form.WinnerID {
				valid = true
			}
		}
		if !valid {
			form.WinnerID = 0
		}
	}
	renderEditorFragment(w, r, form, "", "")
}

// POST /admin/matches/editor/submit
func HandleSubmit(w http.ResponseWriter, r *http.Request) {
	logger := log.Ctx(r.Context())

	form, ok := parsePostedForm(w, r)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), upstreamTimeout)
	defer cancel()

	pool, err := directory.RosterPool(ctx, form.Team1ID, form.Team2ID)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to load rosters for validation")
		renderEditorFragment(w, r, form, "Could not load team rosters, try again", "")
		return
	}

	if err := form.Validate(pool); err != nil {
		renderEditorFragment(w, r, form, err.Error(), "")
		return
	}

	payload := form.Payload()
	switch {
	case form.EditMode():
		err = client.UpdateMatch(ctx, form.MatchID, payload)
	case form.Finalizing():
		err = client.FinalizeUpcoming(ctx, payload, form.UpcomingID)
	default:
		err = client.CreateMatch(ctx, payload)
	}

	switch {
	case err == nil:
	case errors.Is(err, league.ErrUpcomingCleanup):
		// The match exists; only the schedule cleanup failed. Surface it
		// instead of pretending the finalize fully succeeded.
		logger.Warn().Err(err).Int64("upcoming_id", form.UpcomingID).Msg("Upcoming cleanup failed after match create")
		htmx.Redirect(w, r, "/admin/matches?notice=cleanup_failed")
		return
	case errors.Is(err, league.ErrUnauthorized):
		logger.Error().Err(err).Msg("Upstream rejected admin password")
		renderEditorFragment(w, r, form, "Wrong password: upstream rejected the configured admin credentials", "")
		return
	default:
		logger.Error().Err(err).Bool("edit", form.EditMode()).Msg("Failed to save match")
		renderEditorFragment(w, r, form, "Failed to save match", "")
		return
	}

	if form.EditMode() {
		logger.Info().Int64("match_id", form.MatchID).Msg("Match updated")
		htmx.Redirect(w, r, "/admin/matches")
		return
	}

	logger.Info().Int64("team1_id", form.Team1ID).Int64("team2_id", form.Team2ID).Msg("Match added")
	if form.Finalizing() {
		htmx.Redirect(w, r, "/admin/upcoming")
		return
	}

	// Create mode resets to a blank form for the next entry.
	renderEditorFragment(w, r, editor.NewMatchForm(), "", "Match added")
}

// GET /admin/matches/editor/map-names?q=<partial>
// Datalist options for the map-name input, fuzzy-matched against the pool.
func HandleMapNameSearch(w http.ResponseWriter, r *http.Request) {
	names := editor.SuggestMapNames(r.URL.Query().Get("q"))
	component := matchedittempl.MapNameOptions(names)
	apiutil.RenderHTMLComponent(r.Context(), w, component, "Failed to render map suggestions", "Failed to render suggestions")
}

func parsePostedForm(w http.ResponseWriter, r *http.Request) (editor.MatchForm, bool) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form", http.StatusBadRequest)
		return editor.MatchForm{}, false
	}
	return editor.ParseForm(r.PostForm), true
}

func parseIndex(r *http.Request, key string) int64 {
	id, err := apiutil.ParseNonNegativeInt64Field(r.URL.Query().Get(key), key)
	if err != nil {
		return -1
	}
	return id
}

func buildView(ctx context.Context, form editor.MatchForm, errMsg, notice string) (matchedittempl.EditorView, error) {
	teams, err := directory.Teams(ctx)
	if err != nil {
		return matchedittempl.EditorView{}, err
	}

	var pool []league.Player
	if form.Team1ID != 0 || form.Team2ID != 0 {
		pool, err = directory.RosterPool(ctx, form.Team1ID, form.Team2ID)
		if err != nil {
			// Degrade to empty selects rather than failing the render; the
			// submit path re-fetches and validates for real.
			log.Ctx(ctx).Warn().Err(err).Msg("Failed to load roster pool for editor render")
			pool = nil
		}
	}

	return matchedittempl.EditorView{
		Form:    form,
		Teams:   teams,
		Roster:  pool,
		MapPool: editor.MapPool,
		Error:   errMsg,
		Notice:  notice,
	}, nil
}

func renderEditorPage(w http.ResponseWriter, r *http.Request, form editor.MatchForm, errMsg, notice string) {
	ctx, cancel := context.WithTimeout(r.Context(), upstreamTimeout)
	defer cancel()

	view, err := buildView(ctx, form, errMsg, notice)
	if err != nil {
		log.Ctx(r.Context()).Error().Err(err).Msg("Failed to load teams for editor")
		http.Error(w, "Failed to load teams", http.StatusBadGateway)
		return
	}

	page := layouts.Base(matchedittempl.EditorPage(view), true)
	apiutil.RenderHTMLComponent(r.Context(), w, page, "Failed to render match editor page", "Failed to render page")
}

func renderEditorFragment(w http.ResponseWriter, r *http.Request, form editor.MatchForm, errMsg, notice string) {
	ctx, cancel := context.WithTimeout(r.Context(), upstreamTimeout)
	defer cancel()

	view, err := buildView(ctx, form, errMsg, notice)
	if err != nil {
		log.Ctx(r.Context()).Error().Err(err).Msg("Failed to load teams for editor")
		http.Error(w, "Failed to load teams", http.StatusBadGateway)
		return
	}

	component := matchedittempl.EditorForm(view)
	apiutil.RenderHTMLComponent(r.Context(), w, component, "Failed to render match editor form", "Failed to render form")
}

func findUpcoming(ctx context.Context, id int64) (*league.Upcoming, error) {
	// The upstream API has no single-upcoming endpoint; filter the list.
	upcoming, err := client.Upcoming(ctx, "")
	if err != nil {
		return nil, err
	}
	for i := range upcoming {
		if upcoming[i].ID == id {
			return &upcoming[i], nil
		}
	}
	return nil, errors.New("upcoming match not found")
}
