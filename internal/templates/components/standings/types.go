package standings

import (
	"strconv"

	"github.com/collegecounter/ccweb/internal/league"
)

type StandingsView struct {
	Divisions []league.Division
	Groups    []league.Group
	Division  string
	Group     string
	Rows      []league.TeamStanding
}

func Int(n int) string { return strconv.Itoa(n) }

func Record(wins, losses int) string {
	return strconv.Itoa(wins) + "-" + strconv.Itoa(losses)
}

// RoundDiff formats the round differential with an explicit sign, the way
// standings tables conventionally show it.
func RoundDiff(row league.TeamStanding) string {
	diff := row.RoundWins - row.RoundLosses
	if diff > 0 {
		return "+" + strconv.Itoa(diff)
	}
	return strconv.Itoa(diff)
}
