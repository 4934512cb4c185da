// internal/api/matches/handlers.go
package matches

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/collegecounter/ccweb/internal/api/apiutil"
	"github.com/collegecounter/ccweb/internal/api/htmx"
	"github.com/collegecounter/ccweb/internal/league"
	matchestempl "github.com/collegecounter/ccweb/internal/templates/components/matches"
	"github.com/collegecounter/ccweb/internal/templates/layouts"
)

const upstreamTimeout = 15 * time.Second

var client *league.Client

// InitHandlers must be called during server startup before handling requests.
func InitHandlers(c *league.Client) {
	client = c
}

// GET /matches
// Public match results, optionally filtered by division and group.
func HandleResultsPage(w http.ResponseWriter, r *http.Request) {
	logger := log.Ctx(r.Context())

	div := r.URL.Query().Get("div")
	group := r.URL.Query().Get("group")

	ctx, cancel := context.WithTimeout(r.Context(), upstreamTimeout)
	defer cancel()

	matches, err := client.Matches(ctx, div, group)
	if err != nil {
		logger.Error().Err(err).Str("div", div).Str("group", group).Msg("Failed to list matches")
		http.Error(w, "Failed to load results", http.StatusBadGateway)
		return
	}

	view := matchestempl.ResultsView{Matches: matches, Division: div, Group: group}
	if htmx.IsRequest(r) {
		apiutil.RenderHTMLComponent(r.Context(), w, matchestempl.ResultsList(view), "Failed to render results list", "Failed to render list")
		return
	}
	page := layouts.Base(matchestempl.ResultsPage(view), false)
	apiutil.RenderHTMLComponent(r.Context(), w, page, "Failed to render results page", "Failed to render page")
}

// GET /admin/matches
func HandleManagePage(w http.ResponseWriter, r *http.Request) {
	logger := log.Ctx(r.Context())

	ctx, cancel := context.WithTimeout(r.Context(), upstreamTimeout)
	defer cancel()

	matches, err := client.Matches(ctx, r.URL.Query().Get("div"), r.URL.Query().Get("group"))
	if err != nil {
		logger.Error().Err(err).Msg("Failed to list matches for manage view")
		http.Error(w, "Failed to load matches", http.StatusBadGateway)
		return
	}

	notice := ""
	if r.URL.Query().Get("notice") == "cleanup_failed" {
		notice = "Match saved, but the scheduled match could not be removed. Delete it from Manage Upcoming."
	}

	view := matchestempl.ManageView{Matches: matches, Notice: notice}
	if htmx.IsRequest(r) {
		apiutil.RenderHTMLComponent(r.Context(), w, matchestempl.ManageList(view), "Failed to render manage list", "Failed to render list")
		return
	}
	page := layouts.Base(matchestempl.ManagePage(view), true)
	apiutil.RenderHTMLComponent(r.Context(), w, page, "Failed to render manage page", "Failed to render page")
}

// DELETE /admin/matches/{id}
func HandleDelete(w http.ResponseWriter, r *http.Request) {
	logger := log.Ctx(r.Context())

	matchID, err := apiutil.IDFromPath(r, "id")
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), upstreamTimeout)
	defer cancel()

	if err := client.DeleteMatch(ctx, matchID); err != nil {
		if errors.Is(err, league.ErrUnauthorized) {
			logger.Error().Err(err).Int64("match_id", matchID).Msg("Upstream rejected admin password on delete")
			http.Error(w, "Wrong password: upstream rejected the configured admin credentials", http.StatusBadGateway)
			return
		}
		logger.Error().Err(err).Int64("match_id", matchID).Msg("Failed to delete match")
		http.Error(w, "Failed to delete match", http.StatusBadGateway)
		return
	}

	logger.Info().Int64("match_id", matchID).Msg("Match deleted")
	htmx.Redirect(w, r, "/admin/matches")
}
