// internal/league/directory.go
package league

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
)

// Directory caches the team list so page loads and the match editor don't
// re-fetch it on every request. Roster lookups are not cached: the editor
// fetches them fresh whenever a team selection changes.
type Directory struct {
	client *Client

	mu        sync.RWMutex
	teams     []Team
	refreshed time.Time
}

func NewDirectory(client *Client) *Directory {
	return &Directory{client: client}
}

// Teams returns the cached team list, fetching it on first use. A refresh
// failure after a successful fetch degrades to the stale list.
func (d *Directory) Teams(ctx context.Context) ([]Team, error) {
	d.mu.RLock()
	cached := d.teams
	d.mu.RUnlock()
	if cached != nil {
		return cached, nil
	}
	return d.refresh(ctx)
}

// Refresh re-fetches the team list. Used by the background refresh job.
func (d *Directory) Refresh(ctx context.Context) error {
	_, err := d.refresh(ctx)
	return err
}

func (d *Directory) refresh(ctx context.Context) ([]Team, error) {
	teams, err := d.client.Teams(ctx, "", false)
	if err != nil {
		d.mu.RLock()
		stale := d.teams
		d.mu.RUnlock()
		if stale != nil {
			log.Ctx(ctx).Warn().Err(err).Msg("Team directory refresh failed, serving stale list")
			return stale, nil
		}
		return nil, err
	}

	d.mu.Lock()
	d.teams = teams
	d.refreshed = time.Now()
	d.mu.Unlock()
	return teams, nil
}

// TeamByID resolves a team from the cached list.
func (d *Directory) TeamByID(ctx context.Context, id int64) (*Team, bool) {
	teams, err := d.Teams(ctx)
	if err != nil {
		return nil, false
	}
	for i := range teams {
		if teams[i].ID == id {
			return &teams[i], true
		}
	}
	return nil, false
}

// RosterPool fetches both selected teams' rosters in parallel and merges
// them into the selectable player pool for the editor's stat rows. A zero
// team id contributes nothing; duplicate players (a sub on the other team)
// appear once.
func (d *Directory) RosterPool(ctx context.Context, team1ID, team2ID int64) ([]Player, error) {
	var roster1, roster2 []Player

	g, gctx := errgroup.WithContext(ctx)
	if team1ID != 0 {
		g.Go(func() error {
			players, err := d.client.Players(gctx, team1ID, false)
			if err != nil {
				return err
			}
			roster1 = players
			return nil
		})
	}
	if team2ID != 0 {
		g.Go(func() error {
			players, err := d.client.Players(gctx, team2ID, false)
			if err != nil {
				return err
			}
			roster2 = players
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	pool := make([]Player, 0, len(roster1)+len(roster2))
	seen := make(map[int64]bool, len(roster1)+len(roster2))
	for _, p := range append(roster1, roster2...) {
		if seen[p.ID] {
			continue
		}
		seen[p.ID] = true
		pool = append(pool, p)
	}
	return pool, nil
}
