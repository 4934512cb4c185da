// internal/api/upcoming/handlers.go

// Package upcoming serves the scheduled-match surfaces: the public upcoming
// list and the admin manage/edit forms. Finalizing a scheduled match hands
// off to the match editor with the upcoming id attached.
package upcoming

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
	"github.com/collegecounter/ccweb/internal/editor"
	"github.com/collegecounter/ccweb/internal/league"
	upcomingtempl "github.com/collegecounter/ccweb/internal/templates/components/upcoming"
	"github.com/collegecounter/ccweb/internal/templates/layouts"
)

const upstreamTimeout = 15 * time.Second

var (
	client        *league.Client
	directory     *league.Directory
	twitchChannel string
	twitchURL     string
)

// InitHandlers must be called during server startup before handling requests.
// The Twitch channel and URL may be empty, which disables the live banner.
func InitHandlers(c *league.Client, d *league.Directory, channel, channelURL string) {
	client = c
	directory = d
	twitchChannel = channel
	twitchURL = channelURL
}

// GET /upcoming
func HandleUpcomingPage(w http.ResponseWriter, r *http.Request) {
	logger := log.Ctx(r.Context())

	div := r.URL.Query().Get("div")

	ctx, cancel := context.WithTimeout(r.Context(), upstreamTimeout)
	defer cancel()

	matches, err := client.Upcoming(ctx, div)
	if err != nil {
		logger.Error().Err(err).Str("div", div).Msg("Failed to list upcoming matches")
		http.Error(w, "Failed to load upcoming matches", http.StatusBadGateway)
		return
	}

	// The casted list and the live check decorate the page; a failure
	// downgrades to the plain schedule rather than erroring the page.
	casted, err := client.CurrentlyCasted(ctx, div)
	if err != nil {
		logger.Warn().Err(err).Str("div", div).Msg("Failed to list casted matches")
		casted = nil
	}
	channelLive := false
	if twitchChannel != "" {
		channelLive, err = client.IsLive(ctx, twitchChannel)
		if err != nil {
			logger.Warn().Err(err).Str("channel", twitchChannel).Msg("Failed to check stream status")
			channelLive = false
		}
	}

	view := upcomingtempl.ListView{
		Matches:     matches,
		Live:        casted,
		Division:    div,
		ChannelLive: channelLive,
		ChannelURL:  twitchURL,
	}
	if htmx.IsRequest(r) {
		apiutil.RenderHTMLComponent(r.Context(), w, upcomingtempl.List(view), "Failed to render upcoming list", "Failed to render list")
		return
	}
	page := layouts.Base(upcomingtempl.Page(view), false)
	apiutil.RenderHTMLComponent(r.Context(), w, page, "Failed to render upcoming page", "Failed to render page")
}

// GET /admin/upcoming
func HandleManagePage(w http.ResponseWriter, r *http.Request) {
	logger := log.Ctx(r.Context())

	ctx, cancel := context.WithTimeout(r.Context(), upstreamTimeout)
	defer cancel()

	matches, err := client.Upcoming(ctx, r.URL.Query().Get("div"))
	if err != nil {
		logger.Error().Err(err).Msg("Failed to list upcoming matches for manage view")
		http.Error(w, "Failed to load upcoming matches", http.StatusBadGateway)
		return
	}

	view := upcomingtempl.ManageView{Matches: matches}
	if htmx.IsRequest(r) {
		apiutil.RenderHTMLComponent(r.Context(), w, upcomingtempl.ManageList(view), "Failed to render upcoming manage list", "Failed to render list")
		return
	}
	page := layouts.Base(upcomingtempl.ManagePage(view), true)
	apiutil.RenderHTMLComponent(r.Context(), w, page, "Failed to render upcoming manage page", "Failed to render page")
}

// GET /admin/upcoming/new
// GET /admin/upcoming/{id}/edit
func HandleFormPage(w http.ResponseWriter, r *http.Request) {
	logger := log.Ctx(r.Context())

	ctx, cancel := context.WithTimeout(r.Context(), upstreamTimeout)
	defer cancel()

	form := upcomingtempl.FormView{}

	if raw := r.PathValue("id"); raw != "" {
		upcomingID, err := apiutil.IDFromPath(r, "id")
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		existing, err := findUpcoming(ctx, upcomingID)
		if err != nil {
			logger.Error().Err(err).Int64("upcoming_id", upcomingID).Msg("Failed to load upcoming match")
			http.Error(w, "Failed to load scheduled match", http.StatusBadGateway)
			return
		}
		form.Upcoming = *existing
		form.Upcoming.Datetime = editor.TruncateDatetime(existing.Datetime)
	}

	teams, err := directory.Teams(ctx)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to load teams")
		http.Error(w, "Failed to load teams", http.StatusBadGateway)
		return
	}
	divisions, err := client.Divisions(ctx)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to load divisions")
		http.Error(w, "Failed to load divisions", http.StatusBadGateway)
		return
	}
	form.Teams = teams
	form.Divisions = divisions

	page := layouts.Base(upcomingtempl.Form(form), true)
	apiutil.RenderHTMLComponent(r.Context(), w, page, "Failed to render upcoming form", "Failed to render page")
}

// POST /admin/upcoming/submit
func HandleSubmit(w http.ResponseWriter, r *http.Request) {
	logger := log.Ctx(r.Context())

	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form", http.StatusBadRequest)
		return
	}

	payload, err := parseUpcomingForm(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), upstreamTimeout)
	defer cancel()

	if payload.ID != 0 {
		err = client.EditUpcoming(ctx, payload)
	} else {
		err = client.AddUpcoming(ctx, payload)
	}
	if err != nil {
		if errors.Is(err, league.ErrUnauthorized) {
			logger.Error().Err(err).Msg("Upstream rejected admin password")
			http.Error(w, "Wrong password: upstream rejected the configured admin credentials", http.StatusBadGateway)
			return
		}
		logger.Error().Err(err).Msg("Failed to save upcoming match")
		http.Error(w, "Failed to save upcoming match", http.StatusBadGateway)
		return
	}

	logger.Info().Int64("upcoming_id", payload.ID).Msg("Upcoming match saved")
	htmx.Redirect(w, r, "/admin/upcoming")
}

// DELETE /admin/upcoming/{id}
func HandleDelete(w http.ResponseWriter, r *http.Request) {
	logger := log.Ctx(r.Context())

	upcomingID, err := apiutil.IDFromPath(r, "id")
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), upstreamTimeout)
	defer cancel()

	if err := client.DeleteUpcoming(ctx, upcomingID); err != nil {
		if errors.Is(err, league.ErrUnauthorized) {
			logger.Error().Err(err).Int64("upcoming_id", upcomingID).Msg("Upstream rejected admin password on delete")
			http.Error(w, "Wrong password: upstream rejected the configured admin credentials", http.StatusBadGateway)
			return
		}
		logger.Error().Err(err).Int64("upcoming_id", upcomingID).Msg("Failed to delete upcoming match")
		http.Error(w, "Failed to delete upcoming match", http.StatusBadGateway)
		return
	}

	logger.Info().Int64("upcoming_id", upcomingID).Msg("Upcoming match deleted")
	htmx.Redirect(w, r, "/admin/upcoming")
}

// parseUpcomingForm decodes the upcoming-match form, including the
// append-only stream rows (streams.<team>.<i>.name / .url).
func parseUpcomingForm(r *http.Request) (league.UpcomingPayload, error) {
	values := r.PostForm

	id, err := apiutil.ParseNonNegativeInt64Field(valueOr(values.Get("upcoming_id"), "0"), "upcoming_id")
	if err != nil {
		return league.UpcomingPayload{}, err
	}
	week, err := apiutil.ParseNonNegativeInt64Field(valueOr(values.Get("week"), "0"), "week")
	if err != nil {
		return league.UpcomingPayload{}, err
	}
	team1, err := apiutil.ParsePositiveInt64Field(values.Get("team1_id"), "team1_id")
	if err != nil {
		return league.UpcomingPayload{}, err
	}
	team2, err := apiutil.ParsePositiveInt64Field(values.Get("team2_id"), "team2_id")
	if err != nil {
		return league.UpcomingPayload{}, err
	}

	datetime := strings.TrimSpace(values.Get("datetime"))
	if datetime == "" {
		return league.UpcomingPayload{}, apiutil.FieldError{Field: "datetime", Reason: "is required"}
	}
	if _, err := time.Parse(editor.DatetimeLayout, datetime); err != nil {
		return league.UpcomingPayload{}, apiutil.FieldError{Field: "datetime", Reason: "must be YYYY-MM-DDTHH:mm"}
	}

	payload := league.UpcomingPayload{
		ID:             id,
		Week:           int(week),
		Datetime:       datetime,
		Division:       strings.TrimSpace(values.Get("division")),
		Casted:         values.Get("casted") == "on" || values.Get("casted") == "true",
		MainStreamName: strings.TrimSpace(values.Get("main_stream_name")),
		MainStreamURL:  strings.TrimSpace(values.Get("main_stream_url")),
		Team1Streams:   parseStreams(values, "team1"),
		Team2Streams:   parseStreams(values, "team2"),
		Team1ID:        team1,
		Team2ID:        team2,
	}
	if payload.Division == "" {
		return league.UpcomingPayload{}, apiutil.FieldError{Field: "division", Reason: "is required"}
	}
	return payload, nil
}

func parseStreams(values url.Values, team string) map[string]string {
	streams := map[string]string{}
	for i := 0; ; i++ {
		prefix := fmt.Sprintf("streams.%s.%d.", team, i)
		if !values.Has(prefix + "name") {
			break
		}
		name := strings.TrimSpace(values.Get(prefix + "name"))
		streamURL := strings.TrimSpace(values.Get(prefix + "url"))
		if name != "" && streamURL != "" {
			streams[name] = streamURL
		}
	}
	if len(streams) == 0 {
		return nil
	}
	return streams
}

func valueOr(v, fallback string) string {
	if strings.TrimSpace(v) == "" {
		return fallback
	}
	return v
}

func findUpcoming(ctx context.Context, id int64) (*league.Upcoming, error) {
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
