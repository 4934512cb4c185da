// internal/api/divisions/handlers.go

// Package divisions serves the admin editor that replaces the league's
// division and group set wholesale, the way the upstream expects it.
package divisions

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
	divisionstempl "github.com/collegecounter/ccweb/internal/templates/components/divisions"
	"github.com/collegecounter/ccweb/internal/templates/layouts"
)

const upstreamTimeout = 15 * time.Second

var client *league.Client

// InitHandlers must be called during server startup before handling requests.
func InitHandlers(c *league.Client) {
	client = c
}

// GET /admin/divisions
func HandleManagePage(w http.ResponseWriter, r *http.Request) {
	logger := log.Ctx(r.Context())

	ctx, cancel := context.WithTimeout(r.Context(), upstreamTimeout)
	defer cancel()

	view, err := loadView(ctx)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to load divisions and groups")
		http.Error(w, "Failed to load divisions", http.StatusBadGateway)
		return
	}

	if htmx.IsRequest(r) {
		apiutil.RenderHTMLComponent(r.Context(), w, divisionstempl.EditorForm(*view), "Failed to render divisions form", "Failed to render form")
		return
	}
	page := layouts.Base(divisionstempl.ManagePage(*view), true)
	apiutil.RenderHTMLComponent(r.Context(), w, page, "Failed to render divisions page", "Failed to render page")
}

// POST /admin/divisions/submit
func HandleSubmit(w http.ResponseWriter, r *http.Request) {
	logger := log.Ctx(r.Context())

	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form", http.StatusBadRequest)
		return
	}

	divs, groups := parseDivisionsForm(r.PostForm)
	view := divisionstempl.View{
		Divisions: divisionList(divs),
		Groups:    groupList(groups),
	}

	if err := validate(divs, groups); err != nil {
		view.Error = err.Error()
		apiutil.RenderHTMLComponent(r.Context(), w, divisionstempl.EditorForm(view), "Failed to render divisions form", "Failed to render form")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), upstreamTimeout)
	defer cancel()

	if err := client.SetDivisionsAndGroups(ctx, divs, groups); err != nil {
		if errors.Is(err, league.ErrUnauthorized) {
			logger.Error().Err(err).Msg("Upstream rejected admin password")
			view.Error = "Wrong password: upstream rejected the configured admin credentials"
		} else {
			logger.Error().Err(err).Msg("Failed to save divisions and groups")
			view.Error = "Failed to save divisions and groups"
		}
		apiutil.RenderHTMLComponent(r.Context(), w, divisionstempl.EditorForm(view), "Failed to render divisions form", "Failed to render form")
		return
	}

	logger.Info().Int("divisions", len(divs)).Int("groups", len(groups)).Msg("Divisions and groups replaced")
	view.Notice = "Saved"
	apiutil.RenderHTMLComponent(r.Context(), w, divisionstempl.EditorForm(view), "Failed to render divisions form", "Failed to render form")
}

// parseDivisionsForm walks the indexed rows (divs.<i>.name and
// groups.<j>.division / .name) until the first missing index. Blank names
// are dropped, which is how rows get deleted; groups whose division was
// dropped go with it.
func parseDivisionsForm(values url.Values) ([]league.DivisionPayload, []league.GroupPayload) {
	var divs []league.DivisionPayload
	kept := map[string]bool{}
	for i := 0; ; i++ {
		key := fmt.Sprintf("divs.%d.name", i)
		if !values.Has(key) {
			break
		}
		name := strings.TrimSpace(values.Get(key))
		if name == "" || kept[name] {
			continue
		}
		kept[name] = true
		divs = append(divs, league.DivisionPayload{Name: name})
	}

	var groups []league.GroupPayload
	for j := 0; ; j++ {
		prefix := fmt.Sprintf("groups.%d.", j)
		if !values.Has(prefix + "name") {
			break
		}
		name := strings.TrimSpace(values.Get(prefix + "name"))
		div := strings.TrimSpace(values.Get(prefix + "division"))
		if name == "" || !kept[div] {
			continue
		}
		groups = append(groups, league.GroupPayload{Division: div, Name: name})
	}
	return divs, groups
}

func validate(divs []league.DivisionPayload, groups []league.GroupPayload) error {
	if len(divs) == 0 {
		return errors.New("at least one division is required")
	}
	seen := map[string]bool{}
	for _, g := range groups {
		key := g.Division + "/" + g.Name
		if seen[key] {
			return fmt.Errorf("group %q appears twice in %s", g.Name, g.Division)
		}
		seen[key] = true
	}
	return nil
}

func divisionList(divs []league.DivisionPayload) []league.Division {
	out := make([]league.Division, 0, len(divs))
	for _, d := range divs {
		out = append(out, league.Division{Name: d.Name})
	}
	return out
}

func groupList(groups []league.GroupPayload) []league.Group {
	out := make([]league.Group, 0, len(groups))
	for _, g := range groups {
		out = append(out, league.Group{Division: g.Division, Name: g.Name})
	}
	return out
}

func loadView(ctx context.Context) (*divisionstempl.View, error) {
	divs, err := client.Divisions(ctx)
	if err != nil {
		return nil, err
	}
	groups, err := client.Groups(ctx, "")
	if err != nil {
		return nil, err
	}
	return &divisionstempl.View{Divisions: divs, Groups: groups}, nil
}
