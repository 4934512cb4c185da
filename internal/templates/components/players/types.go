package players

import (
	"strconv"

	"github.com/collegecounter/ccweb/internal/league"
)

type PlayerView struct {
	Player league.Player
}

func (v PlayerView) TeamName() string {
	if v.Player.Team != nil {
		return v.Player.Team.Name
	}
	return ""
}

// ManageView drives the roster editor: team picker plus the selected
// team's roster. TeamID zero means no team selected yet.
type ManageView struct {
	Teams  []league.Team
	TeamID int64
	Roster []league.Player
}

func (v ManageView) HasTeam() bool { return v.TeamID != 0 }

func ID(id int64) string { return strconv.FormatInt(id, 10) }

func Int(n int) string { return strconv.Itoa(n) }

func Role(p league.Player) string {
	switch {
	case p.Former:
		return "Former"
	case p.Main:
		return "Starter"
	default:
		return "Substitute"
	}
}
