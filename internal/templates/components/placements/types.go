package placements

import (
	"fmt"

	"github.com/collegecounter/ccweb/internal/league"
)

type View struct {
	Placements []league.Placement
	Divisions  []league.Division
	Division   string
}

// Season is one past season's podium, in finishing order.
type Season struct {
	Label string
	Rows  []league.Placement
}

// Seasons groups the placements by semester and year, preserving the
// upstream finishing order inside each group.
func (v View) Seasons() []Season {
	seasons := []Season{}
	index := map[string]int{}
	for _, p := range v.Placements {
		label := fmt.Sprintf("%s %d", p.Semester, p.Year)
		i, ok := index[label]
		if !ok {
			i = len(seasons)
			index[label] = i
			seasons = append(seasons, Season{Label: label})
		}
		seasons[i].Rows = append(seasons[i].Rows, p)
	}
	return seasons
}

func PlaceLabel(p league.Placement) string {
	switch p.Placement {
	case 1:
		return "Champions"
	case 2:
		return "Runners-up"
	case 3:
		return "Third Place"
	default:
		return fmt.Sprintf("%dth Place", p.Placement)
	}
}

func TeamID(p league.Placement) string {
	return fmt.Sprintf("%d", p.Team.ID)
}
