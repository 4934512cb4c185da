package matchedit

import (
	"fmt"
	"strconv"

	"github.com/collegecounter/ccweb/internal/editor"
	"github.com/collegecounter/ccweb/internal/league"
)

// EditorView is everything the editor form renders: the current form
// state, the selectable teams, the merged roster pool for stat rows, and
// any inline error or success notice.
type EditorView struct {
	Form    editor.MatchForm
	Teams   []league.Team
	Roster  []league.Player
	MapPool []string
	Error   string
	Notice  string
}

func (v EditorView) Title() string {
	if v.Form.EditMode() {
		return "Edit Match"
	}
	if v.Form.Finalizing() {
		return "Finalize Match"
	}
	return "Add Match"
}

func (v EditorView) SubmitLabel() string {
	if v.Form.EditMode() {
		return "Update Match"
	}
	return "Add Match"
}

// WinnerOptions resolves the selectable winner ids to team names.
func (v EditorView) WinnerOptions() []TeamOption {
	options := make([]TeamOption, 0, 2)
	for _, id := range v.Form.WinnerOptions() {
		options = append(options, TeamOption{ID: id, Name: v.teamName(id)})
	}
	return options
}

type TeamOption struct {
	ID   int64
	Name string
}

func (v EditorView) teamName(id int64) string {
	for _, t := range v.Teams {
		if t.ID == id {
			return t.Name
		}
	}
	return fmt.Sprintf("Team %d", id)
}

// Team1Name and Team2Name label the per-map score inputs. Before a team
// is picked the id is zero, so fall back to a positional label.
func (v EditorView) Team1Name() string {
	if v.Form.Team1ID == 0 {
		return "Team 1"
	}
	return v.teamName(v.Form.Team1ID)
}

func (v EditorView) Team2Name() string {
	if v.Form.Team2ID == 0 {
		return "Team 2"
	}
	return v.teamName(v.Form.Team2ID)
}

func ID(id int64) string {
	if id == 0 {
		return ""
	}
	return strconv.FormatInt(id, 10)
}

func Int(n int) string { return strconv.Itoa(n) }

func Float(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// Field name builders matching editor.ParseForm's indexed encoding.

func MapField(i int, field string) string {
	return fmt.Sprintf("maps.%d.%s", i, field)
}

func StatField(i, j int, field string) string {
	return fmt.Sprintf("maps.%d.stats.%d.%s", i, j, field)
}
