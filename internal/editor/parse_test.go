package editor

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFormReconstructsNestedState(t *testing.T) {
	values := url.Values{}
	values.Set("match_id", "42")
	values.Set("team1_id", "1")
	values.Set("team2_id", "2")
	values.Set("score1", "2")
	values.Set("score2", "0")
	values.Set("datetime", "2026-02-14T19:00")
	values.Set("winner_id", "1")
	values.Set("maps.0.map_name", "de_ancient")
	values.Set("maps.0.team1_score", "13")
	values.Set("maps.0.team2_score", "4")
	values.Set("maps.0.winner_id", "1")
	values.Set("maps.0.picker", "team2")
	values.Set("maps.0.stats.0.player_id", "11")
	values.Set("maps.0.stats.0.kills", "24")
	values.Set("maps.0.stats.0.assists", "3")
	values.Set("maps.0.stats.0.deaths", "10")
	values.Set("maps.0.stats.0.adr", "91.4")
	values.Set("maps.0.stats.0.hs_percent", "48.2")
	values.Set("maps.0.stats.0.kpr", "1.04")
	values.Set("maps.0.stats.1.player_id", "")
	values.Set("maps.1.map_name", "de_nuke")
	values.Set("maps.1.team1_score", "13")
	values.Set("maps.1.team2_score", "11")

	form := ParseForm(values)

	assert.Equal(t, int64(42), form.MatchID)
	assert.Equal(t, int64(1), form.Team1ID)
	assert.Equal(t, int64(2), form.Team2ID)
	assert.Equal(t, 2, form.Score1)
	assert.Equal(t, "2026-02-14T19:00", form.Datetime)
	assert.Equal(t, int64(1), form.WinnerID)

	require.Len(t, form.Maps, 2)
	first := form.Maps[0]
	assert.Equal(t, 1, first.MapNum)
	assert.Equal(t, "de_ancient", first.MapName)
	assert.Equal(t, "team2", first.Picker)
	require.Len(t, first.PlayerStats, 2)
	assert.Equal(t, int64(11), first.PlayerStats[0].PlayerID)
	assert.Equal(t, 24, first.PlayerStats[0].Kills)
	assert.InDelta(t, 91.4, first.PlayerStats[0].ADR, 0.001)
	// Row present but still unfilled parses to the zero row.
	assert.Equal(t, int64(0), first.PlayerStats[1].PlayerID)

	second := form.Maps[1]
	assert.Equal(t, 2, second.MapNum)
	assert.Equal(t, "de_nuke", second.MapName)
	assert.Empty(t, second.PlayerStats)
}

func TestParseFormBadNumbersFallBackToZero(t *testing.T) {
	values := url.Values{
		"team1_id":           {"abc"},
		"score1":             {"two"},
		"winner_id":          {"-5"},
		"maps.0.map_name":    {"de_mirage"},
		"maps.0.team1_score": {"x"},
	}

	form := ParseForm(values)

	assert.Equal(t, int64(0), form.Team1ID)
	assert.Equal(t, 0, form.Score1)
	assert.Equal(t, int64(0), form.WinnerID)
	require.Len(t, form.Maps, 1)
	assert.Equal(t, 0, form.Maps[0].Team1Score)
}

func TestParseFormEmptyGetsOneMap(t *testing.T) {
	form := ParseForm(url.Values{})
	require.Len(t, form.Maps, 1)
	assert.Equal(t, 1, form.Maps[0].MapNum)
	assert.Empty(t, form.Maps[0].PlayerStats)
}

func TestParseFormStopsAtGap(t *testing.T) {
	// Indexing must be contiguous; a gap ends the collection.
	values := url.Values{
		"maps.0.map_name": {"de_dust2"},
		"maps.2.map_name": {"de_train"},
	}

	form := ParseForm(values)
	require.Len(t, form.Maps, 1)
	assert.Equal(t, "de_dust2", form.Maps[0].MapName)
}
