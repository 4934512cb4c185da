// internal/api/placements/handlers.go

// Package placements serves the public hall-of-champions page: past season
// podiums per division.
package placements

import (
	"context"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/collegecounter/ccweb/internal/api/apiutil"
	"github.com/collegecounter/ccweb/internal/api/htmx"
	"github.com/collegecounter/ccweb/internal/league"
	placementstempl "github.com/collegecounter/ccweb/internal/templates/components/placements"
	"github.com/collegecounter/ccweb/internal/templates/layouts"
)

const upstreamTimeout = 15 * time.Second

var client *league.Client

// InitHandlers must be called during server startup before handling requests.
func InitHandlers(c *league.Client) {
	client = c
}

// GET /placements
func HandlePlacementsPage(w http.ResponseWriter, r *http.Request) {
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

	placements, err := client.Placements(ctx, div)
	if err != nil {
		logger.Error().Err(err).Str("div", div).Msg("Failed to load placements")
		http.Error(w, "Failed to load placements", http.StatusBadGateway)
		return
	}

	view := placementstempl.View{
		Placements: placements,
		Divisions:  divisions,
		Division:   div,
	}
	if htmx.IsRequest(r) {
		apiutil.RenderHTMLComponent(r.Context(), w, placementstempl.List(view), "Failed to render placements list", "Failed to render list")
		return
	}
	page := layouts.Base(placementstempl.Page(view), false)
	apiutil.RenderHTMLComponent(r.Context(), w, page, "Failed to render placements page", "Failed to render page")
}
