package teams

import (
	"strconv"

	"github.com/collegecounter/ccweb/internal/league"
)

type DirectoryView struct {
	Teams    []league.Team
	Division string
}

type TeamView struct {
	Team   league.Team
	Roster []league.Player
}

// Starters filters the roster down to the main lineup.
func (v TeamView) Starters() []league.Player {
	return filterRoster(v.Roster, true)
}

func (v TeamView) Substitutes() []league.Player {
	return filterRoster(v.Roster, false)
}

func filterRoster(roster []league.Player, main bool) []league.Player {
	var out []league.Player
	for _, p := range roster {
		if p.Former {
			continue
		}
		if p.Main == main {
			out = append(out, p)
		}
	}
	return out
}

type ManageView struct {
	Teams     []league.Team
	Divisions []league.Division
	Groups    []league.Group
}

func ID(id int64) string { return strconv.FormatInt(id, 10) }
