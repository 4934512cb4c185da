// internal/api/standings/handlers.go
package standings

import (
	"context"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/collegecounter/ccweb/internal/api/apiutil"
	"github.com/collegecounter/ccweb/internal/api/htmx"
	"github.com/collegecounter/ccweb/internal/league"
	standingstempl "github.com/collegecounter/ccweb/internal/templates/components/standings"
	"github.com/collegecounter/ccweb/internal/templates/layouts"
)

const upstreamTimeout = 15 * time.Second

var client *league.Client

// InitHandlers must be called during server startup before handling requests.
func InitHandlers(c *league.Client) {
	client = c
}

// GET /standings
// Renders the standings table for one division/group. The table itself is
// computed upstream; this page only selects and displays it.
func HandleStandingsPage(w http.ResponseWriter, r *http.Request) {
	logger := log.Ctx(r.Context())

	ctx, cancel := context.WithTimeout(r.Context(), upstreamTimeout)
	defer cancel()

	divisions, err := client.Divisions(ctx)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to load divisions")
		http.Error(w, "Failed to load divisions", http.StatusBadGateway)
		return
	}

	div := r.URL.Query().Get("div")
	if div == "" && len(divisions) > 0 {
		div = divisions[0].Name
	}

	groups, err := client.Groups(ctx, div)
	if err != nil {
		logger.Error().Err(err).Str("div", div).Msg("Failed to load groups")
		http.Error(w, "Failed to load groups", http.StatusBadGateway)
		return
	}

	group := r.URL.Query().Get("group")
	if group == "" && len(groups) > 0 {
		group = groups[0].Name
	}

	view := standingstempl.StandingsView{
		Divisions: divisions,
		Groups:    groups,
		Division:  div,
		Group:     group,
	}

	if div != "" && group != "" {
		rows, err := client.Standings(ctx, div, group)
		if err != nil {
			logger.Error().Err(err).Str("div", div).Str("group", group).Msg("Failed to load standings")
			http.Error(w, "Failed to load standings", http.StatusBadGateway)
			return
		}
		view.Rows = rows
	}

	if htmx.IsRequest(r) {
		apiutil.RenderHTMLComponent(r.Context(), w, standingstempl.Table(view), "Failed to render standings table", "Failed to render table")
		return
	}
	page := layouts.Base(standingstempl.Page(view), false)
	apiutil.RenderHTMLComponent(r.Context(), w, page, "Failed to render standings page", "Failed to render page")
}
