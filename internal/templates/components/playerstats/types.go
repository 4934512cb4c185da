package playerstats

import (
	"strconv"

	"github.com/collegecounter/ccweb/internal/league"
)

type StatsView struct {
	Stats    []league.PlayerAverages
	Division string
	Group    string
}

func Int(n int) string { return strconv.Itoa(n) }

func Stat(f float64) string {
	return strconv.FormatFloat(f, 'f', 1, 64)
}

func KPR(f float64) string {
	return strconv.FormatFloat(f, 'f', 2, 64)
}

// KD is kills over deaths; a deathless run shows the kill count.
func KD(row league.PlayerAverages) string {
	if row.Deaths == 0 {
		return strconv.FormatFloat(float64(row.Kills), 'f', 2, 64)
	}
	return strconv.FormatFloat(float64(row.Kills)/float64(row.Deaths), 'f', 2, 64)
}
