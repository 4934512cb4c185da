package editor

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/collegecounter/ccweb/internal/league"
)

func TestNewMatchFormStartsWithOneEmptyMap(t *testing.T) {
	form := NewMatchForm()

	require.Len(t, form.Maps, 1)
	assert.Equal(t, 1, form.Maps[0].MapNum)
	assert.Empty(t, form.Maps[0].PlayerStats)
	assert.False(t, form.EditMode())
	assert.False(t, form.Finalizing())
}

func TestAppendMapNumbersSequentially(t *testing.T) {
	form := NewMatchForm()
	form.AppendMap()
	form.AppendMap()

	require.Len(t, form.Maps, 3)
	for i, m := range form.Maps {
		assert.Equal(t, i+1, m.MapNum)
	}
}

func TestRemoveMapRenumbers(t *testing.T) {
	form := NewMatchForm()
	form.AppendMap()
	form.AppendMap()
	form.Maps[0].MapName = "de_ancient"
	form.Maps[1].MapName = "de_nuke"
	form.Maps[2].MapName = "de_mirage"

	require.NoError(t, form.RemoveMap(1))

	require.Len(t, form.Maps, 2)
	assert.Equal(t, "de_ancient", form.Maps[0].MapName)
	assert.Equal(t, "de_mirage", form.Maps[1].MapName)
	assert.Equal(t, 1, form.Maps[0].MapNum)
	assert.Equal(t, 2, form.Maps[1].MapNum)
}

func TestRemoveMapOutOfRange(t *testing.T) {
	form := NewMatchForm()
	assert.Error(t, form.RemoveMap(-1))
	assert.Error(t, form.RemoveMap(1))
}

func TestPlayerStatRows(t *testing.T) {
	form := NewMatchForm()

	require.NoError(t, form.AppendPlayerStat(0))
	require.NoError(t, form.AppendPlayerStat(0))
	require.Len(t, form.Maps[0].PlayerStats, 2)

	form.Maps[0].PlayerStats[0].PlayerID = 11
	form.Maps[0].PlayerStats[1].PlayerID = 22

	require.NoError(t, form.RemovePlayerStat(0, 0))
	require.Len(t, form.Maps[0].PlayerStats, 1)
	assert.Equal(t, int64(22), form.Maps[0].PlayerStats[0].PlayerID)

	assert.Error(t, form.AppendPlayerStat(5))
	assert.Error(t, form.RemovePlayerStat(0, 3))
}

func TestWinnerOptionsTrackTeamSelection(t *testing.T) {
	form := NewMatchForm()
	assert.Empty(t, form.WinnerOptions())

	form.Team1ID = 7
	assert.Equal(t, []int64{7}, form.WinnerOptions())

	form.Team2ID = 9
	assert.Equal(t, []int64{7, 9}, form.WinnerOptions())
}

func validForm() MatchForm {
	form := NewMatchForm()
	form.Team1ID = 1
	form.Team2ID = 2
	form.Datetime = "2026-02-14T19:00"
	form.Maps[0].MapName = "de_inferno"
	return form
}

func pool() []league.Player {
	return []league.Player{
		{ID: 11, Name: "alpha", TeamID: 1},
		{ID: 22, Name: "bravo", TeamID: 2},
	}
}

func TestValidateRequiresDistinctTeams(t *testing.T) {
	form := validForm()
	form.Team2ID = 0
	assert.Error(t, form.Validate(nil))

	form.Team2ID = form.Team1ID
	assert.Error(t, form.Validate(nil))
}

func TestValidateDatetime(t *testing.T) {
	form := validForm()
	form.Datetime = ""
	assert.Error(t, form.Validate(nil))

	form.Datetime = "not-a-date"
	assert.Error(t, form.Validate(nil))

	form.Datetime = "2026-02-14T19:00"
	assert.NoError(t, form.Validate(nil))
}

func TestValidateWinnerMustBeSelectedTeam(t *testing.T) {
	form := validForm()
	form.WinnerID = 99
	assert.Error(t, form.Validate(nil))

	form.WinnerID = form.Team1ID
	assert.NoError(t, form.Validate(nil))

	form.WinnerID = 0
	form.Maps[0].WinnerID = 99
	assert.Error(t, form.Validate(nil))
}

func TestValidatePicker(t *testing.T) {
	form := validForm()
	form.Maps[0].Picker = "team3"
	assert.Error(t, form.Validate(nil))

	for _, picker := range []string{"", PickerTeam1, PickerTeam2, PickerDecider} {
		form.Maps[0].Picker = picker
		assert.NoError(t, form.Validate(nil))
	}
}

func TestValidateStatRowsAgainstRoster(t *testing.T) {
	form := validForm()
	require.NoError(t, form.AppendPlayerStat(0))

	// No player selected.
	assert.Error(t, form.Validate(pool()))

	// Player outside both rosters.
	form.Maps[0].PlayerStats[0].PlayerID = 404
	assert.Error(t, form.Validate(pool()))

	form.Maps[0].PlayerStats[0].PlayerID = 11
	assert.NoError(t, form.Validate(pool()))

	// Nil pool skips the roster check.
	form.Maps[0].PlayerStats[0].PlayerID = 404
	assert.NoError(t, form.Validate(nil))
}

func TestPayloadReassignsMapNumbers(t *testing.T) {
	form := validForm()
	form.AppendMap()
	form.AppendMap()
	// Simulate stale numbering left behind by deletions.
	form.Maps[0].MapNum = 4
	form.Maps[1].MapNum = 9
	form.Maps[2].MapNum = 2

	payload := form.Payload()

	require.Len(t, payload.Maps, 3)
	for i, m := range payload.Maps {
		assert.Equal(t, i+1, m.MapNum)
	}
}

func TestPayloadWinnerNullWhenUnset(t *testing.T) {
	form := validForm()
	payload := form.Payload()
	assert.Nil(t, payload.WinnerID)
	assert.Nil(t, payload.Maps[0].WinnerID)

	form.WinnerID = form.Team2ID
	form.Maps[0].WinnerID = form.Team1ID
	payload = form.Payload()
	require.NotNil(t, payload.WinnerID)
	assert.Equal(t, form.Team2ID, *payload.WinnerID)
	require.NotNil(t, payload.Maps[0].WinnerID)
	assert.Equal(t, form.Team1ID, *payload.Maps[0].WinnerID)
}

func TestFromMatchRoundTripsThroughPayload(t *testing.T) {
	winner := int64(2)
	mapWinner := int64(1)
	match := &league.Match{
		ID:       42,
		Score1:   2,
		Score2:   1,
		Datetime: "2026-02-14T19:00:00",
		Team1:    league.Team{ID: 1, Name: "State"},
		Team2:    league.Team{ID: 2, Name: "Tech"},
		WinnerID: &winner,
		Maps: []league.Map{
			{
				MapNum:     1,
				MapName:    "de_nuke",
				Team1Score: 13,
				Team2Score: 7,
				WinnerID:   &mapWinner,
				Picker:     PickerTeam1,
				PlayerStats: []league.PlayerStat{
					{Kills: 20, Assists: 5, Deaths: 14, ADR: 88.5, HSPercent: 52.3, KPR: 0.83, Player: league.Player{ID: 11}},
				},
			},
		},
	}

	form := FromMatch(match)
	require.True(t, form.EditMode())
	assert.Equal(t, "2026-02-14T19:00", form.Datetime)
	assert.Equal(t, int64(2), form.WinnerID)

	payload := form.Payload()
	assert.Equal(t, match.Score1, payload.Score1)
	assert.Equal(t, match.Team1.ID, payload.Team1ID)
	require.Len(t, payload.Maps, 1)
	assert.Equal(t, "de_nuke", payload.Maps[0].MapName)
	require.Len(t, payload.Maps[0].PlayerStats, 1)
	assert.Equal(t, int64(11), payload.Maps[0].PlayerStats[0].PlayerID)
	assert.InDelta(t, 88.5, payload.Maps[0].PlayerStats[0].ADR, 0.001)
}

func TestFromUpcomingPrefills(t *testing.T) {
	u := &league.Upcoming{
		ID:       5,
		Datetime: "2026-03-01T20:00:00",
		Team1:    league.Team{ID: 3},
		Team2:    league.Team{ID: 4},
	}

	form := FromUpcoming(u)
	assert.True(t, form.Finalizing())
	assert.Equal(t, int64(3), form.Team1ID)
	assert.Equal(t, int64(4), form.Team2ID)
	assert.Equal(t, "2026-03-01T20:00", form.Datetime)
	require.Len(t, form.Maps, 1)
}

func TestTruncateDatetime(t *testing.T) {
	assert.Equal(t, "2026-02-14T19:00", TruncateDatetime("2026-02-14T19:00:00.123"))
	assert.Equal(t, "2026-02-14T19:00", TruncateDatetime("2026-02-14T19:00"))
	assert.Equal(t, "short", TruncateDatetime("short"))
}
