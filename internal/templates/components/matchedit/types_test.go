package matchedit

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/collegecounter/ccweb/internal/editor"
	"github.com/collegecounter/ccweb/internal/league"
)

func TestTeamNamesFallBackToPositionalLabels(t *testing.T) {
	view := EditorView{Form: editor.NewMatchForm()}

	assert.Equal(t, "Team 1", view.Team1Name())
	assert.Equal(t, "Team 2", view.Team2Name())
}

func TestTeamNamesResolveSelectedTeams(t *testing.T) {
	form := editor.NewMatchForm()
	form.Team1ID = 5
	form.Team2ID = 9
	view := EditorView{
		Form: form,
		Teams: []league.Team{
			{ID: 5, Name: "State"},
			{ID: 9, Name: "Tech"},
		},
	}

	assert.Equal(t, "State", view.Team1Name())
	assert.Equal(t, "Tech", view.Team2Name())
}
