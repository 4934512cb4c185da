// internal/api/teams/handlers.go
package teams

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/collegecounter/ccweb/internal/api/apiutil"
	"github.com/collegecounter/ccweb/internal/api/htmx"
	"github.com/collegecounter/ccweb/internal/league"
	teamstempl "github.com/collegecounter/ccweb/internal/templates/components/teams"
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

// GET /teams
func HandleTeamsPage(w http.ResponseWriter, r *http.Request) {
	logger := log.Ctx(r.Context())

	ctx, cancel := context.WithTimeout(r.Context(), upstreamTimeout)
	defer cancel()

	teams, err := directory.Teams(ctx)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to list teams")
		http.Error(w, "Failed to load teams", http.StatusBadGateway)
		return
	}

	div := r.URL.Query().Get("div")
	if div != "" {
		filtered := teams[:0:0]
		for _, t := range teams {
			if t.Division == div {
				filtered = append(filtered, t)
			}
		}
		teams = filtered
	}

	page := layouts.Base(teamstempl.DirectoryPage(teamstempl.DirectoryView{Teams: teams, Division: div}), false)
	apiutil.RenderHTMLComponent(r.Context(), w, page, "Failed to render teams page", "Failed to render page")
}

// GET /team/{id}
func HandleTeamPage(w http.ResponseWriter, r *http.Request) {
	logger := log.Ctx(r.Context())

	teamID, err := apiutil.IDFromPath(r, "id")
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), upstreamTimeout)
	defer cancel()

	team, err := client.Team(ctx, teamID)
	if err != nil {
		logger.Error().Err(err).Int64("team_id", teamID).Msg("Failed to load team")
		http.Error(w, "Failed to load team", http.StatusBadGateway)
		return
	}

	roster, err := client.Players(ctx, teamID, false)
	if err != nil {
		logger.Warn().Err(err).Int64("team_id", teamID).Msg("Failed to load roster")
		roster = nil
	}

	page := layouts.Base(teamstempl.TeamPage(teamstempl.TeamView{Team: *team, Roster: roster}), false)
	apiutil.RenderHTMLComponent(r.Context(), w, page, "Failed to render team page", "Failed to render page")
}

// GET /admin/teams
func HandleManagePage(w http.ResponseWriter, r *http.Request) {
	logger := log.Ctx(r.Context())

	ctx, cancel := context.WithTimeout(r.Context(), upstreamTimeout)
	defer cancel()

	teams, err := directory.Teams(ctx)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to list teams for manage view")
		http.Error(w, "Failed to load teams", http.StatusBadGateway)
		return
	}
	divisions, err := client.Divisions(ctx)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to load divisions")
		http.Error(w, "Failed to load divisions", http.StatusBadGateway)
		return
	}
	groups, err := client.Groups(ctx, "")
	if err != nil {
		logger.Error().Err(err).Msg("Failed to load groups")
		http.Error(w, "Failed to load groups", http.StatusBadGateway)
		return
	}

	view := teamstempl.ManageView{Teams: teams, Divisions: divisions, Groups: groups}
	page := layouts.Base(teamstempl.ManagePage(view), true)
	apiutil.RenderHTMLComponent(r.Context(), w, page, "Failed to render team manage page", "Failed to render page")
}

// POST /admin/teams/submit
// Creates when team_id is absent, updates otherwise.
func HandleSubmit(w http.ResponseWriter, r *http.Request) {
	logger := log.Ctx(r.Context())

	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form", http.StatusBadRequest)
		return
	}

	payload := league.TeamPayload{
		Name:        strings.TrimSpace(r.PostFormValue("name")),
		Division:    strings.TrimSpace(r.PostFormValue("div")),
		Group:       strings.TrimSpace(r.PostFormValue("group")),
		Logo:        strings.TrimSpace(r.PostFormValue("logo")),
		Address:     strings.TrimSpace(r.PostFormValue("address")),
		School:      strings.TrimSpace(r.PostFormValue("school")),
		MainColor:   strings.TrimSpace(r.PostFormValue("main_color")),
		SecondColor: strings.TrimSpace(r.PostFormValue("second_color")),
	}
	if payload.Name == "" {
		http.Error(w, "name is required", http.StatusBadRequest)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), upstreamTimeout)
	defer cancel()

	var err error
	teamID, _ := apiutil.OptionalIDFromQuery(r, "team_id")
	if teamID != 0 {
		err = client.UpdateTeam(ctx, teamID, payload)
	} else {
		err = client.CreateTeam(ctx, payload)
	}
	if err != nil {
		if errors.Is(err, league.ErrUnauthorized) {
			logger.Error().Err(err).Msg("Upstream rejected admin password")
			http.Error(w, "Wrong password: upstream rejected the configured admin credentials", http.StatusBadGateway)
			return
		}
		logger.Error().Err(err).Msg("Failed to save team")
		http.Error(w, "Failed to save team", http.StatusBadGateway)
		return
	}

	// The directory is now stale; refresh so the new team is selectable.
	if err := directory.Refresh(ctx); err != nil {
		logger.Warn().Err(err).Msg("Directory refresh after team save failed")
	}

	logger.Info().Int64("team_id", teamID).Str("name", payload.Name).Msg("Team saved")
	htmx.Redirect(w, r, "/admin/teams")
}

// DELETE /admin/teams/{id}
func HandleDelete(w http.ResponseWriter, r *http.Request) {
	logger := log.Ctx(r.Context())

	teamID, err := apiutil.IDFromPath(r, "id")
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), upstreamTimeout)
	defer cancel()

	if err := client.DeleteTeam(ctx, teamID); err != nil {
		if errors.Is(err, league.ErrUnauthorized) {
			logger.Error().Err(err).Int64("team_id", teamID).Msg("Upstream rejected admin password on delete")
			http.Error(w, "Wrong password: upstream rejected the configured admin credentials", http.StatusBadGateway)
			return
		}
		logger.Error().Err(err).Int64("team_id", teamID).Msg("Failed to delete team")
		http.Error(w, "Failed to delete team", http.StatusBadGateway)
		return
	}

	if err := directory.Refresh(ctx); err != nil {
		logger.Warn().Err(err).Msg("Directory refresh after team delete failed")
	}

	logger.Info().Int64("team_id", teamID).Msg("Team deleted")
	htmx.Redirect(w, r, "/admin/teams")
}
