// internal/editor/parse.go
package editor

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
)

// Form field names. The rendered form round-trips the entire editor state,
// with collection fields indexed as maps.<i>.<field> and
// maps.<i>.stats.<j>.<field>.
const (
	fieldMatchID    = "match_id"
	fieldUpcomingID = "upcoming_id"
	fieldTeam1      = "team1_id"
	fieldTeam2      = "team2_id"
	fieldScore1     = "score1"
	fieldScore2     = "score2"
	fieldDatetime   = "datetime"
	fieldWinner     = "winner_id"
)

// ParseForm reconstructs the editor state from posted form values. Numeric
// fields that fail to parse fall back to their zero value rather than
// rejecting the whole form; Validate decides what is actually acceptable
// at submit time.
func ParseForm(values url.Values) MatchForm {
	form := MatchForm{
		MatchID:    parseID(values.Get(fieldMatchID)),
		UpcomingID: parseID(values.Get(fieldUpcomingID)),
		Team1ID:    parseID(values.Get(fieldTeam1)),
		Team2ID:    parseID(values.Get(fieldTeam2)),
		Score1:     parseInt(values.Get(fieldScore1)),
		Score2:     parseInt(values.Get(fieldScore2)),
		Datetime:   strings.TrimSpace(values.Get(fieldDatetime)),
		WinnerID:   parseID(values.Get(fieldWinner)),
	}

	for i := 0; ; i++ {
		prefix := fmt.Sprintf("maps.%d.", i)
		if !values.Has(prefix + "map_name") {
			break
		}
		m := MapForm{
			MapNum:      i + 1,
			MapName:     strings.TrimSpace(values.Get(prefix + "map_name")),
			Team1Score:  parseInt(values.Get(prefix + "team1_score")),
			Team2Score:  parseInt(values.Get(prefix + "team2_score")),
			WinnerID:    parseID(values.Get(prefix + "winner_id")),
			Picker:      values.Get(prefix + "picker"),
			PlayerStats: []PlayerStatForm{},
		}

		for j := 0; ; j++ {
			statPrefix := fmt.Sprintf("%sstats.%d.", prefix, j)
			if !values.Has(statPrefix + "player_id") {
				break
			}
			m.PlayerStats = append(m.PlayerStats, PlayerStatForm{
				Kills:     parseInt(values.Get(statPrefix + "kills")),
				Assists:   parseInt(values.Get(statPrefix + "assists")),
				Deaths:    parseInt(values.Get(statPrefix + "deaths")),
				ADR:       parseFloat(values.Get(statPrefix + "adr")),
				HSPercent: parseFloat(values.Get(statPrefix + "hs_percent")),
				KPR:       parseFloat(values.Get(statPrefix + "kpr")),
				PlayerID:  parseID(values.Get(statPrefix + "player_id")),
			})
		}
		form.Maps = append(form.Maps, m)
	}

	if form.Maps == nil {
		form.Maps = []MapForm{emptyMap(1)}
	}
	return form
}

func parseID(raw string) int64 {
	id, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil || id < 0 {
		return 0
	}
	return id
}

func parseInt(raw string) int {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return 0
	}
	return n
}

func parseFloat(raw string) float64 {
	f, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil {
		return 0
	}
	return f
}
