// internal/api/players/handlers.go
package players

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/collegecounter/ccweb/internal/api/apiutil"
	"github.com/collegecounter/ccweb/internal/api/htmx"
	"github.com/collegecounter/ccweb/internal/league"
	playerstempl "github.com/collegecounter/ccweb/internal/templates/components/players"
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

// GET /player/{id}
func HandlePlayerPage(w http.ResponseWriter, r *http.Request) {
	logger := log.Ctx(r.Context())

	playerID, err := apiutil.IDFromPath(r, "id")
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), upstreamTimeout)
	defer cancel()

	player, err := client.Player(ctx, playerID)
	if err != nil {
		logger.Error().Err(err).Int64("player_id", playerID).Msg("Failed to load player")
		http.Error(w, "Failed to load player", http.StatusBadGateway)
		return
	}

	page := layouts.Base(playerstempl.PlayerPage(playerstempl.PlayerView{Player: *player}), false)
	apiutil.RenderHTMLComponent(r.Context(), w, page, "Failed to render player page", "Failed to render page")
}

// GET /admin/players
// Roster editor for one team, selected by team_id query.
func HandleManagePage(w http.ResponseWriter, r *http.Request) {
	logger := log.Ctx(r.Context())

	ctx, cancel := context.WithTimeout(r.Context(), upstreamTimeout)
	defer cancel()

	teams, err := directory.Teams(ctx)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to list teams")
		http.Error(w, "Failed to load teams", http.StatusBadGateway)
		return
	}

	view := playerstempl.ManageView{Teams: teams}

	teamID, err := apiutil.OptionalIDFromQuery(r, "team_id")
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if teamID != 0 {
		roster, err := client.Players(ctx, teamID, false)
		if err != nil {
			logger.Error().Err(err).Int64("team_id", teamID).Msg("Failed to load roster")
			http.Error(w, "Failed to load roster", http.StatusBadGateway)
			return
		}
		view.TeamID = teamID
		view.Roster = roster
	}

	if htmx.IsRequest(r) {
		apiutil.RenderHTMLComponent(r.Context(), w, playerstempl.RosterEditor(view), "Failed to render roster editor", "Failed to render roster")
		return
	}
	page := layouts.Base(playerstempl.ManagePage(view), true)
	apiutil.RenderHTMLComponent(r.Context(), w, page, "Failed to render player manage page", "Failed to render page")
}

// POST /admin/players/submit
// Batch-adds new players to a team (players.<i>.* rows).
func HandleAddPlayers(w http.ResponseWriter, r *http.Request) {
	logger := log.Ctx(r.Context())

	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form", http.StatusBadRequest)
		return
	}

	teamID, err := apiutil.ParsePositiveInt64Field(r.PostFormValue("team_id"), "team_id")
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	players := parsePlayerRows(r.PostForm, teamID)
	if len(players) == 0 {
		http.Error(w, "at least one player row is required", http.StatusBadRequest)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), upstreamTimeout)
	defer cancel()

	if err := client.AddPlayers(ctx, players); err != nil {
		if errors.Is(err, league.ErrUnauthorized) {
			logger.Error().Err(err).Msg("Upstream rejected admin password")
			http.Error(w, "Wrong password: upstream rejected the configured admin credentials", http.StatusBadGateway)
			return
		}
		logger.Error().Err(err).Int64("team_id", teamID).Msg("Failed to add players")
		http.Error(w, "Failed to add players", http.StatusBadGateway)
		return
	}

	logger.Info().Int64("team_id", teamID).Int("count", len(players)).Msg("Players added")
	htmx.Redirect(w, r, fmt.Sprintf("/admin/players?team_id=%d", teamID))
}

// POST /admin/players/{id}/edit
func HandleEditPlayer(w http.ResponseWriter, r *http.Request) {
	logger := log.Ctx(r.Context())

	playerID, err := apiutil.IDFromPath(r, "id")
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form", http.StatusBadRequest)
		return
	}

	teamID, err := apiutil.ParsePositiveInt64Field(r.PostFormValue("team_id"), "team_id")
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	payload := playerFromForm(r.PostForm, 0, teamID)
	payload.Name = strings.TrimSpace(r.PostFormValue("name"))
	if payload.Name == "" {
		http.Error(w, "name is required", http.StatusBadRequest)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), upstreamTimeout)
	defer cancel()

	if err := client.EditPlayer(ctx, playerID, payload); err != nil {
		if errors.Is(err, league.ErrUnauthorized) {
			logger.Error().Err(err).Int64("player_id", playerID).Msg("Upstream rejected admin password")
			http.Error(w, "Wrong password: upstream rejected the configured admin credentials", http.StatusBadGateway)
			return
		}
		logger.Error().Err(err).Int64("player_id", playerID).Msg("Failed to edit player")
		http.Error(w, "Failed to edit player", http.StatusBadGateway)
		return
	}

	logger.Info().Int64("player_id", playerID).Msg("Player updated")
	htmx.Redirect(w, r, fmt.Sprintf("/admin/players?team_id=%d", teamID))
}

// DELETE /admin/players/{id}
func HandleDeletePlayer(w http.ResponseWriter, r *http.Request) {
	logger := log.Ctx(r.Context())

	playerID, err := apiutil.IDFromPath(r, "id")
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), upstreamTimeout)
	defer cancel()

	if err := client.DeletePlayer(ctx, playerID); err != nil {
		if errors.Is(err, league.ErrUnauthorized) {
			logger.Error().Err(err).Int64("player_id", playerID).Msg("Upstream rejected admin password on delete")
			http.Error(w, "Wrong password: upstream rejected the configured admin credentials", http.StatusBadGateway)
			return
		}
		logger.Error().Err(err).Int64("player_id", playerID).Msg("Failed to delete player")
		http.Error(w, "Failed to delete player", http.StatusBadGateway)
		return
	}

	logger.Info().Int64("player_id", playerID).Msg("Player deleted")
	htmx.Redirect(w, r, "/admin/players")
}

func parsePlayerRows(values url.Values, teamID int64) []league.PlayerPayload {
	var players []league.PlayerPayload
	for i := 0; ; i++ {
		if !values.Has(fmt.Sprintf("players.%d.name", i)) {
			break
		}
		p := playerFromForm(values, i, teamID)
		if p.Name == "" {
			continue
		}
		players = append(players, p)
	}
	return players
}

func playerFromForm(values url.Values, row int, teamID int64) league.PlayerPayload {
	get := func(field string) string {
		return strings.TrimSpace(values.Get(fmt.Sprintf("players.%d.%s", row, field)))
	}
	// Single-player edit forms post unprefixed fields.
	if !values.Has(fmt.Sprintf("players.%d.name", row)) {
		get = func(field string) string {
			return strings.TrimSpace(values.Get(field))
		}
	}

	payload := league.PlayerPayload{
		Name:      get("name"),
		RealName:  get("real_name"),
		Year:      get("year"),
		Major:     get("major"),
		Hometown:  get("hometown"),
		FaceitURL: get("faceit_url"),
		SteamID:   get("steam_id"),
		Main:      get("main") == "on" || get("main") == "true",
		Former:    get("former") == "on" || get("former") == "true",
		TeamID:    teamID,
	}
	if sub, err := apiutil.ParsePositiveInt64Field(get("team_sub_id"), "team_sub_id"); err == nil {
		payload.TeamSubID = &sub
	}
	return payload
}
