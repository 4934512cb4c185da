package divisions

import "github.com/collegecounter/ccweb/internal/league"

// View carries the divisions-and-groups editor state. The form always
// replaces the full upstream set, so the rows mirror it exactly plus one
// blank slot per collection for additions.
type View struct {
	Divisions []league.Division
	Groups    []league.Group
	Error     string
	Notice    string
}

// DivisionRows appends a blank slot so the form always has room to add
// one more division.
func (v View) DivisionRows() []string {
	rows := make([]string, 0, len(v.Divisions)+1)
	for _, d := range v.Divisions {
		rows = append(rows, d.Name)
	}
	return append(rows, "")
}

// GroupRows appends a blank slot for a new group.
func (v View) GroupRows() []league.Group {
	rows := make([]league.Group, 0, len(v.Groups)+1)
	rows = append(rows, v.Groups...)
	return append(rows, league.Group{})
}
