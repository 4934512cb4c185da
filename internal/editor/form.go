// internal/editor/form.go

// Package editor holds the match editor's form state: the match header
// fields plus the ordered map collection and its per-map player stat rows.
// Handlers round-trip the whole state through the rendered form, so every
// operation here is a plain mutation of an exclusively-owned value.
package editor

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/collegecounter/ccweb/internal/league"
)

// DatetimeLayout is the minute-precision layout the editor's
// datetime-local input produces and the upstream API accepts.
const DatetimeLayout = "2006-01-02T15:04"

// Map picker values. Stored as a side tag rather than a team id; the
// upstream contract expects the tag form.
const (
	PickerTeam1   = "team1"
	PickerTeam2   = "team2"
	PickerDecider = "decider"
)

type PlayerStatForm struct {
	Kills     int
	Assists   int
	Deaths    int
	ADR       float64
	HSPercent float64
	KPR       float64
	PlayerID  int64
}

type MapForm struct {
	MapNum      int
	MapName     string
	Team1Score  int
	Team2Score  int
	WinnerID    int64 // 0 = no winner recorded
	Picker      string
	PlayerStats []PlayerStatForm
}

// MatchForm is the complete editor state. MatchID set selects edit mode;
// UpcomingID set marks a finalize flow, where a successful create also
// removes the source upcoming match.
type MatchForm struct {
	MatchID    int64
	UpcomingID int64

	Team1ID  int64
	Team2ID  int64
	Score1   int
	Score2   int
	Datetime string
	WinnerID int64

	Maps []MapForm
}

// NewMatchForm returns the create-mode starting state: one empty map.
func NewMatchForm() MatchForm {
	return MatchForm{Maps: []MapForm{emptyMap(1)}}
}

func emptyMap(num int) MapForm {
	return MapForm{MapNum: num, PlayerStats: []PlayerStatForm{}}
}

// AppendMap pushes a new empty map with the next 1-based number.
func (f *MatchForm) AppendMap() {
	f.Maps = append(f.Maps, emptyMap(len(f.Maps)+1))
}

// RemoveMap deletes the map at index i and renumbers the remainder.
func (f *MatchForm) RemoveMap(i int) error {
	if i < 0 || i >= len(f.Maps) {
		return fmt.Errorf("no map at index %d", i)
	}
	f.Maps = append(f.Maps[:i], f.Maps[i+1:]...)
	f.renumber()
	return nil
}

// AppendPlayerStat adds an empty stat row to the map at mapIdx.
func (f *MatchForm) AppendPlayerStat(mapIdx int) error {
	if mapIdx < 0 || mapIdx >= len(f.Maps) {
		return fmt.Errorf("no map at index %d", mapIdx)
	}
	f.Maps[mapIdx].PlayerStats = append(f.Maps[mapIdx].PlayerStats, PlayerStatForm{})
	return nil
}

// RemovePlayerStat deletes the stat row at statIdx from the map at mapIdx.
func (f *MatchForm) RemovePlayerStat(mapIdx, statIdx int) error {
	if mapIdx < 0 || mapIdx >= len(f.Maps) {
		return fmt.Errorf("no map at index %d", mapIdx)
	}
	stats := f.Maps[mapIdx].PlayerStats
	if statIdx < 0 || statIdx >= len(stats) {
		return fmt.Errorf("no stat row at index %d", statIdx)
	}
	f.Maps[mapIdx].PlayerStats = append(stats[:statIdx], stats[statIdx+1:]...)
	return nil
}

func (f *MatchForm) renumber() {
	for i := range f.Maps {
		f.Maps[i].MapNum = i + 1
	}
}

// WinnerOptions is the selectable winner set for the match and every map:
// the chosen team ids, skipping unselected slots. Never any other team.
func (f *MatchForm) WinnerOptions() []int64 {
	options := make([]int64, 0, 2)
	if f.Team1ID != 0 {
		options = append(options, f.Team1ID)
	}
	if f.Team2ID != 0 {
		options = append(options, f.Team2ID)
	}
	return options
}

// EditMode reports whether the form mutates an existing match.
func (f *MatchForm) EditMode() bool { return f.MatchID != 0 }

// Finalizing reports whether a successful create consumes an upcoming match.
func (f *MatchForm) Finalizing() bool { return !f.EditMode() && f.UpcomingID != 0 }

// Validate checks the form against the invariants the upstream API relies
// on. rosterPool restricts stat rows to players on the two selected teams;
// a nil pool skips that check.
func (f *MatchForm) Validate(rosterPool []league.Player) error {
	if f.Team1ID == 0 || f.Team2ID == 0 {
		return errors.New("both teams must be selected")
	}
	if f.Team1ID == f.Team2ID {
		return errors.New("a team cannot play itself")
	}
	if strings.TrimSpace(f.Datetime) == "" {
		return errors.New("match date and time are required")
	}
	if _, err := time.Parse(DatetimeLayout, f.Datetime); err != nil {
		return fmt.Errorf("invalid match date %q", f.Datetime)
	}
	if f.WinnerID != 0 && !f.validWinner(f.WinnerID) {
		return fmt.Errorf("winner must be one of the selected teams")
	}

	var pool map[int64]bool
	if rosterPool != nil {
		pool = make(map[int64]bool, len(rosterPool))
		for _, p := range rosterPool {
			pool[p.ID] = true
		}
	}

	for i := range f.Maps {
		m := &f.Maps[i]
		if m.WinnerID != 0 && !f.validWinner(m.WinnerID) {
			return fmt.Errorf("map %d winner must be one of the selected teams", i+1)
		}
		switch m.Picker {
		case "", PickerTeam1, PickerTeam2, PickerDecider:
		default:
			return fmt.Errorf("map %d has unknown picker %q", i+1, m.Picker)
		}
		if pool == nil {
			continue
		}
		for j, ps := range m.PlayerStats {
			if ps.PlayerID == 0 {
				return fmt.Errorf("map %d stat row %d has no player selected", i+1, j+1)
			}
			if !pool[ps.PlayerID] {
				return fmt.Errorf("map %d stat row %d references a player outside both rosters", i+1, j+1)
			}
		}
	}
	return nil
}

func (f *MatchForm) validWinner(id int64) bool {
	return id == f.Team1ID || id == f.Team2ID
}

// Payload serializes the form for the upstream create/edit endpoints.
// Map numbers are reassigned from array position, so whatever numbering
// the editing session left behind, the wire always carries contiguous
// 1-based map_num values. Unset winners serialize as null.
func (f *MatchForm) Payload() league.MatchPayload {
	maps := make([]league.MapPayload, len(f.Maps))
	for i, m := range f.Maps {
		stats := make([]league.PlayerStatPayload, len(m.PlayerStats))
		for j, ps := range m.PlayerStats {
			stats[j] = league.PlayerStatPayload{
				Kills:     ps.Kills,
				Assists:   ps.Assists,
				Deaths:    ps.Deaths,
				ADR:       ps.ADR,
				HSPercent: ps.HSPercent,
				KPR:       ps.KPR,
				PlayerID:  ps.PlayerID,
			}
		}
		maps[i] = league.MapPayload{
			MapNum:      i + 1,
			MapName:     m.MapName,
			Team1Score:  m.Team1Score,
			Team2Score:  m.Team2Score,
			WinnerID:    optionalID(m.WinnerID),
			Picker:      m.Picker,
			PlayerStats: stats,
		}
	}

	return league.MatchPayload{
		Score1:   f.Score1,
		Score2:   f.Score2,
		Datetime: f.Datetime,
		Team1ID:  f.Team1ID,
		Team2ID:  f.Team2ID,
		WinnerID: optionalID(f.WinnerID),
		Maps:     maps,
	}
}

func optionalID(id int64) *int64 {
	if id == 0 {
		return nil
	}
	return &id
}

// FromMatch populates edit-mode state from a fetched match. The upstream
// datetime is truncated to minute precision to match the datetime-local
// input format.
func FromMatch(m *league.Match) MatchForm {
	form := MatchForm{
		MatchID:  m.ID,
		Team1ID:  m.Team1.ID,
		Team2ID:  m.Team2.ID,
		Score1:   m.Score1,
		Score2:   m.Score2,
		Datetime: TruncateDatetime(m.Datetime),
		Maps:     make([]MapForm, len(m.Maps)),
	}
	if m.WinnerID != nil {
		form.WinnerID = *m.WinnerID
	}

	for i, mm := range m.Maps {
		mf := MapForm{
			MapNum:      mm.MapNum,
			MapName:     mm.MapName,
			Team1Score:  mm.Team1Score,
			Team2Score:  mm.Team2Score,
			Picker:      mm.Picker,
			PlayerStats: make([]PlayerStatForm, len(mm.PlayerStats)),
		}
		if mm.WinnerID != nil {
			mf.WinnerID = *mm.WinnerID
		}
		for j, ps := range mm.PlayerStats {
			mf.PlayerStats[j] = PlayerStatForm{
				Kills:     ps.Kills,
				Assists:   ps.Assists,
				Deaths:    ps.Deaths,
				ADR:       ps.ADR,
				HSPercent: ps.HSPercent,
				KPR:       ps.KPR,
				PlayerID:  ps.Player.ID,
			}
		}
		form.Maps[i] = mf
	}
	return form
}

// FromUpcoming prefills a finalize-mode form from a scheduled match.
func FromUpcoming(u *league.Upcoming) MatchForm {
	form := NewMatchForm()
	form.UpcomingID = u.ID
	form.Team1ID = u.Team1.ID
	form.Team2ID = u.Team2.ID
	form.Datetime = TruncateDatetime(u.Datetime)
	return form
}

// TruncateDatetime cuts an upstream timestamp down to the first 16
// characters, the YYYY-MM-DDTHH:mm form a datetime-local input expects.
func TruncateDatetime(s string) string {
	if len(s) > len(DatetimeLayout) {
		return s[:len(DatetimeLayout)]
	}
	return s
}
