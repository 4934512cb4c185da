package matches

import (
	"strconv"
	"strings"
	"time"

	"github.com/collegecounter/ccweb/internal/league"
)

type ResultsView struct {
	Matches  []league.Match
	Division string
	Group    string
}

type ManageView struct {
	Matches []league.Match
	Notice  string
}

// DisplayDate renders an upstream timestamp for listing. Falls back to the
// raw string when the timestamp is not in the expected form.
func DisplayDate(datetime string) string {
	raw := strings.TrimSpace(datetime)
	if len(raw) > 16 {
		raw = raw[:16]
	}
	t, err := time.Parse("2006-01-02T15:04", raw)
	if err != nil {
		return datetime
	}
	return t.Format("Mon Jan 2, 3:04 PM")
}

func Score(m league.Match) string {
	return strconv.Itoa(m.Score1) + " : " + strconv.Itoa(m.Score2)
}

func WinnerClass(m league.Match, teamID int64) string {
	if m.WinnerID != nil && *m.WinnerID == teamID {
		return "team-winner"
	}
	return ""
}

func ID(id int64) string { return strconv.FormatInt(id, 10) }

func Int(n int) string { return strconv.Itoa(n) }
