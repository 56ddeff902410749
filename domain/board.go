package domain

// Board is a kanban board. Columns is the authoritative, ordered list of
// column names; tasks reference a column by name, not by key.
type Board struct {
	ID      string   `json:"id"`
	Name    string   `json:"name"`
	Columns []string `json:"columns"`
}

// BoardSummary is the sidebar projection of a board.
type BoardSummary struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// BoardView is a board with its tasks grouped into columns, in board order.
type BoardView struct {
	ID      string       `json:"id"`
	Name    string       `json:"name"`
	Columns []ColumnView `json:"columns"`
}

// ColumnView is one named column and the tasks currently in it.
type ColumnView struct {
	Name  string `json:"name"`
	Tasks []Task `json:"tasks"`
}

// GroupTasks buckets tasks under the board's columns, preserving column
// order and the given task order within each column. A task whose column is
// not on the board still shows up: its column is appended after the board's
// own columns, in first-seen order.
func GroupTasks(columns []string, tasks []Task) []ColumnView {
	index := make(map[string]int, len(columns))
	views := make([]ColumnView, 0, len(columns))
	for _, name := range columns {
		index[name] = len(views)
		views = append(views, ColumnView{Name: name, Tasks: []Task{}})
	}
	for _, t := range tasks {
		i, ok := index[t.Column]
		if !ok {
			i = len(views)
			index[t.Column] = i
			views = append(views, ColumnView{Name: t.Column, Tasks: []Task{}})
		}
		views[i].Tasks = append(views[i].Tasks, t)
	}
	return views
}
