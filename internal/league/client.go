// internal/league/client.go
package league

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"golang.org/x/time/rate"
)

const (
	defaultTimeout   = 10 * time.Second
	defaultRateLimit = 20 // requests per second against the upstream API
	maxErrorBodySize = 4 << 10
)

var (
	// ErrUnauthorized marks an upstream 401, i.e. a rejected admin password.
	ErrUnauthorized = errors.New("upstream rejected admin password")

	// ErrUpcomingCleanup marks a finalize flow where the match was created
	// but the source upcoming match could not be deleted.
	ErrUpcomingCleanup = errors.New("match created but upcoming match was not removed")
)

// StatusError is returned for any non-2xx upstream response.
type StatusError struct {
	Code int
	Body string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("upstream returned status %d", e.Code)
	}
	return fmt.Sprintf("upstream returned status %d: %s", e.Code, e.Body)
}

// Client is a thin client of the league REST API. All reads are anonymous;
// mutating calls carry the admin password as a query parameter, which is the
// upstream contract. The password lives in server config and never reaches
// the browser.
type Client struct {
	baseURL    string
	password   string
	httpClient *http.Client
	limiter    *rate.Limiter
}

type ClientConfig struct {
	BaseURL       string
	AdminPassword string
	Timeout       time.Duration
	RateLimit     int
}

func NewClient(cfg ClientConfig) (*Client, error) {
	base := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if base == "" {
		return nil, errors.New("league: base URL is required")
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	limit := cfg.RateLimit
	if limit <= 0 {
		limit = defaultRateLimit
	}

	return &Client{
		baseURL:    base,
		password:   cfg.AdminPassword,
		httpClient: &http.Client{Timeout: timeout},
		limiter:    rate.NewLimiter(rate.Limit(limit), limit),
	}, nil
}

// Teams lists all teams, optionally filtered by division.
func (c *Client) Teams(ctx context.Context, div string, activeOnly bool) ([]Team, error) {
	params := url.Values{}
	if div != "" {
		params.Set("div", div)
	}
	if activeOnly {
		params.Set("active_only", "true")
	}
	var teams []Team
	if err := c.get(ctx, "/teams", params, &teams); err != nil {
		return nil, err
	}
	return teams, nil
}

func (c *Client) Team(ctx context.Context, id int64) (*Team, error) {
	var team Team
	if err := c.get(ctx, "/team/"+strconv.FormatInt(id, 10), nil, &team); err != nil {
		return nil, err
	}
	return &team, nil
}

// Players lists players, optionally restricted to one team's roster.
func (c *Client) Players(ctx context.Context, teamID int64, mainOnly bool) ([]Player, error) {
	params := url.Values{}
	if teamID != 0 {
		params.Set("team_id", strconv.FormatInt(teamID, 10))
	}
	if mainOnly {
		params.Set("main_only", "true")
	}
	var players []Player
	if err := c.get(ctx, "/players", params, &players); err != nil {
		return nil, err
	}
	return players, nil
}

func (c *Client) Player(ctx context.Context, id int64) (*Player, error) {
	var player Player
	if err := c.get(ctx, "/player/"+strconv.FormatInt(id, 10), nil, &player); err != nil {
		return nil, err
	}
	return &player, nil
}

func (c *Client) Match(ctx context.Context, id int64) (*Match, error) {
	var match Match
	if err := c.get(ctx, "/match/"+strconv.FormatInt(id, 10), nil, &match); err != nil {
		return nil, err
	}
	return &match, nil
}

func (c *Client) Matches(ctx context.Context, div, group string) ([]Match, error) {
	params := url.Values{}
	if div != "" {
		params.Set("div", div)
	}
	if group != "" {
		params.Set("group", group)
	}
	var matches []Match
	if err := c.get(ctx, "/matches", params, &matches); err != nil {
		return nil, err
	}
	return matches, nil
}

func (c *Client) Standings(ctx context.Context, div, group string) ([]TeamStanding, error) {
	params := url.Values{}
	params.Set("div", div)
	params.Set("group", group)
	var standings []TeamStanding
	if err := c.get(ctx, "/standings", params, &standings); err != nil {
		return nil, err
	}
	return standings, nil
}

// PlayerStats returns upstream-aggregated per-player stats. Any of the
// filters may be zero-valued to skip it.
func (c *Client) PlayerStats(ctx context.Context, div, group string, teamID int64) ([]PlayerAverages, error) {
	params := url.Values{}
	if div != "" {
		params.Set("div", div)
	}
	if group != "" {
		params.Set("group", group)
	}
	if teamID != 0 {
		params.Set("team_id", strconv.FormatInt(teamID, 10))
	}
	var stats []PlayerAverages
	if err := c.get(ctx, "/playerstats", params, &stats); err != nil {
		return nil, err
	}
	return stats, nil
}

func (c *Client) Divisions(ctx context.Context) ([]Division, error) {
	var divs []Division
	if err := c.get(ctx, "/divisions", nil, &divs); err != nil {
		return nil, err
	}
	return divs, nil
}

func (c *Client) Groups(ctx context.Context, div string) ([]Group, error) {
	params := url.Values{}
	if div != "" {
		params.Set("div", div)
	}
	var groups []Group
	if err := c.get(ctx, "/groups", params, &groups); err != nil {
		return nil, err
	}
	return groups, nil
}

func (c *Client) Upcoming(ctx context.Context, div string) ([]Upcoming, error) {
	params := url.Values{}
	if div != "" {
		params.Set("div", div)
	}
	var upcoming []Upcoming
	if err := c.get(ctx, "/getupcoming", params, &upcoming); err != nil {
		return nil, err
	}
	return upcoming, nil
}

func (c *Client) CurrentlyCasted(ctx context.Context, div string) ([]Upcoming, error) {
	params := url.Values{}
	if div != "" {
		params.Set("div", div)
	}
	var casted []Upcoming
	if err := c.get(ctx, "/getcurrentlycasted", params, &casted); err != nil {
		return nil, err
	}
	return casted, nil
}

// Placements lists final season placements, ordered by finishing position.
func (c *Client) Placements(ctx context.Context, div string) ([]Placement, error) {
	params := url.Values{}
	if div != "" {
		params.Set("div", div)
	}
	var placements []Placement
	if err := c.get(ctx, "/placements", params, &placements); err != nil {
		return nil, err
	}
	return placements, nil
}

// IsLive reports whether the league's Twitch channel is currently
// broadcasting. An empty channel uses the upstream default.
func (c *Client) IsLive(ctx context.Context, channel string) (bool, error) {
	params := url.Values{}
	if channel != "" {
		params.Set("username", channel)
	}
	var live bool
	if err := c.get(ctx, "/islive", params, &live); err != nil {
		return false, err
	}
	return live, nil
}

func (c *Client) CreateMatch(ctx context.Context, payload MatchPayload) error {
	return c.post(ctx, "/addmatch", c.adminParams(nil), payload)
}

func (c *Client) UpdateMatch(ctx context.Context, id int64, payload MatchPayload) error {
	return c.post(ctx, "/editmatch/"+strconv.FormatInt(id, 10), c.adminParams(nil), payload)
}

func (c *Client) DeleteMatch(ctx context.Context, id int64) error {
	return c.delete(ctx, "/deletematch/"+strconv.FormatInt(id, 10), c.adminParams(nil))
}

// FinalizeUpcoming creates a match from a scheduled upcoming match and then
// removes the source upcoming entry: exactly two calls, in that order, with
// the same password. A failed cleanup after a successful create is reported
// as ErrUpcomingCleanup; the created match is left in place.
func (c *Client) FinalizeUpcoming(ctx context.Context, payload MatchPayload, upcomingID int64) error {
	if err := c.CreateMatch(ctx, payload); err != nil {
		return err
	}
	if err := c.DeleteUpcoming(ctx, upcomingID); err != nil {
		return fmt.Errorf("%w: %v", ErrUpcomingCleanup, err)
	}
	return nil
}

func (c *Client) AddUpcoming(ctx context.Context, payload UpcomingPayload) error {
	return c.post(ctx, "/addupcoming", c.adminParams(nil), payload)
}

func (c *Client) EditUpcoming(ctx context.Context, payload UpcomingPayload) error {
	return c.post(ctx, "/editupcoming", c.adminParams(nil), payload)
}

func (c *Client) DeleteUpcoming(ctx context.Context, id int64) error {
	params := url.Values{}
	params.Set("upcoming_id", strconv.FormatInt(id, 10))
	return c.delete(ctx, "/deleteupcoming", c.adminParams(params))
}

func (c *Client) CreateTeam(ctx context.Context, payload TeamPayload) error {
	return c.post(ctx, "/addteam", c.adminParams(nil), payload)
}

func (c *Client) UpdateTeam(ctx context.Context, id int64, payload TeamPayload) error {
	params := url.Values{}
	params.Set("team_id", strconv.FormatInt(id, 10))
	return c.post(ctx, "/editteam", c.adminParams(params), payload)
}

func (c *Client) DeleteTeam(ctx context.Context, id int64) error {
	params := url.Values{}
	params.Set("team_id", strconv.FormatInt(id, 10))
	return c.delete(ctx, "/deleteteam", c.adminParams(params))
}

func (c *Client) AddPlayers(ctx context.Context, players []PlayerPayload) error {
	return c.post(ctx, "/addplayers", c.adminParams(nil), players)
}

func (c *Client) EditPlayer(ctx context.Context, id int64, payload PlayerPayload) error {
	params := url.Values{}
	params.Set("player_id", strconv.FormatInt(id, 10))
	return c.post(ctx, "/editplayer", c.adminParams(params), payload)
}

func (c *Client) DeletePlayer(ctx context.Context, id int64) error {
	params := url.Values{}
	params.Set("player_id", strconv.FormatInt(id, 10))
	return c.delete(ctx, "/deleteplayer", c.adminParams(params))
}

func (c *Client) SetDivisionsAndGroups(ctx context.Context, divs []DivisionPayload, groups []GroupPayload) error {
	body := struct {
		Divs   []DivisionPayload `json:"divs"`
		Groups []GroupPayload    `json:"groups"`
	}{Divs: divs, Groups: groups}
	return c.post(ctx, "/setdivsandgroups", c.adminParams(nil), body)
}

func (c *Client) adminParams(params url.Values) url.Values {
	if params == nil {
		params = url.Values{}
	}
	params.Set("password", c.password)
	return params
}

func (c *Client) get(ctx context.Context, path string, params url.Values, dst any) error {
	resp, err := c.do(ctx, http.MethodGet, path, params, nil)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if err := checkStatus(resp); err != nil {
		return err
	}
	if err := json.NewDecoder(resp.Body).Decode(dst); err != nil {
		return fmt.Errorf("decoding %s response: %w", path, err)
	}
	return nil
}

func (c *Client) post(ctx context.Context, path string, params url.Values, body any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("encoding %s request: %w", path, err)
	}
	resp, err := c.do(ctx, http.MethodPost, path, params, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	return checkStatus(resp)
}

func (c *Client) delete(ctx context.Context, path string, params url.Values) error {
	resp, err := c.do(ctx, http.MethodDelete, path, params, nil)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	return checkStatus(resp)
}

func (c *Client) do(ctx context.Context, method, path string, params url.Values, body io.Reader) (*http.Response, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	endpoint := c.baseURL + path
	if len(params) > 0 {
		endpoint += "?" + params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, body)
	if err != nil {
		return nil, fmt.Errorf("building %s %s request: %w", method, path, err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", method, path, err)
	}
	return resp, nil
}

func checkStatus(resp *http.Response) error {
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}

	// Delete endpoints return plain text error bodies; keep a bounded
	// excerpt for operator-facing messages.
	body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBodySize))
	statusErr := &StatusError{Code: resp.StatusCode, Body: strings.TrimSpace(string(body))}
	if resp.StatusCode == http.StatusUnauthorized {
		return fmt.Errorf("%w: %v", ErrUnauthorized, statusErr)
	}
	return statusErr
}
