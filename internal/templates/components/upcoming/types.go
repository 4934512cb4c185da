package upcoming

import (
	"strconv"
	"strings"
	"time"

	"github.com/collegecounter/ccweb/internal/league"
)

type ListView struct {
	Matches []league.Upcoming
	// Live holds the casted matches that are on air or about to start.
	Live        []league.Upcoming
	Division    string
	ChannelLive bool
	ChannelURL  string
}

type ManageView struct {
	Matches []league.Upcoming
}

// FormView carries the create/edit form state. A zero Upcoming.ID means
// create mode.
type FormView struct {
	Upcoming  league.Upcoming
	Teams     []league.Team
	Divisions []league.Division
}

func (v FormView) Title() string {
	if v.Upcoming.ID != 0 {
		return "Edit Scheduled Match"
	}
	return "Schedule Match"
}

// StreamRows flattens a stream map into ordered rows plus one trailing
// blank row, so the form always has an empty slot to fill in.
func StreamRows(streams map[string]string) []StreamRow {
	rows := make([]StreamRow, 0, len(streams)+1)
	for name, url := range streams {
		rows = append(rows, StreamRow{Name: name, URL: url})
	}
	sortRows(rows)
	return append(rows, StreamRow{})
}

type StreamRow struct {
	Name string
	URL  string
}

func sortRows(rows []StreamRow) {
	for i := 1; i < len(rows); i++ {
		for j := i; j > 0 && rows[j].Name < rows[j-1].Name; j-- {
			rows[j], rows[j-1] = rows[j-1], rows[j]
		}
	}
}

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

func ID(id int64) string {
	if id == 0 {
		return ""
	}
	return strconv.FormatInt(id, 10)
}

func Int(n int) string { return strconv.Itoa(n) }
