// internal/api/playerstats/handlers.go
package playerstats

import (
	"context"
	"net/http"
	"sort"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/collegecounter/ccweb/internal/api/apiutil"
	"github.com/collegecounter/ccweb/internal/api/htmx"
	"github.com/collegecounter/ccweb/internal/league"
	statstempl "github.com/collegecounter/ccweb/internal/templates/components/playerstats"
	"github.com/collegecounter/ccweb/internal/templates/layouts"
)

const upstreamTimeout = 15 * time.Second

var client *league.Client

// InitHandlers must be called during server startup before handling requests.
func InitHandlers(c *league.Client) {
	client = c
}

// GET /stats
func HandleStatsPage(w http.ResponseWriter, r *http.Request) {
	logger := log.Ctx(r.Context())

	div := r.URL.Query().Get("div")
	group := r.URL.Query().Get("group")
	teamID, err := apiutil.OptionalIDFromQuery(r, "team_id")
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), upstreamTimeout)
	defer cancel()

	stats, err := client.PlayerStats(ctx, div, group, teamID)
	if err != nil {
		logger.Error().Err(err).Str("div", div).Msg("Failed to load player stats")
		http.Error(w, "Failed to load player stats", http.StatusBadGateway)
		return
	}

	// Upstream order is unspecified; present best ADR first.
	sort.Slice(stats, func(i, j int) bool {
		return stats[i].ADR > stats[j].ADR
	})

	view := statstempl.StatsView{Stats: stats, Division: div, Group: group}
	if htmx.IsRequest(r) {
		apiutil.RenderHTMLComponent(r.Context(), w, statstempl.Table(view), "Failed to render stats table", "Failed to render table")
		return
	}
	page := layouts.Base(statstempl.Page(view), false)
	apiutil.RenderHTMLComponent(r.Context(), w, page, "Failed to render stats page", "Failed to render page")
}
