package domain

// KeptItem is a list entry that existed before an edit and was not removed.
// ID is the entry's identity from before the edit (a subtask id, or a
// column's original name) and Title its current, possibly edited, text.
type KeptItem struct {
	ID    string
	Title string
}

// ListEdit is the three-partition payload describing a user's edit of a
// named list attached to a parent: entries kept (and possibly renamed),
// entries added, entries removed.
type ListEdit struct {
	Kept    []KeptItem
	Added   []string
	Removed []string
}

// ColumnRename moves every task from a column's old name to its new one.
type ColumnRename struct {
	From string
	To   string
}

// ColumnOps is the operation set that brings a board from its previous
// column state to the edited one. CascadeDeletes and Renames act on the
// board's tasks; Columns is the complete list to persist on the board.
type ColumnOps struct {
	CascadeDeletes []string
	Renames        []ColumnRename
	Columns        []string
}

// ReconcileColumns computes the store operations for a board-columns edit.
// Removed columns take their tasks (and those tasks' subtasks) with them,
// renamed columns carry their tasks over, and the persisted list is every
// kept title in order followed by every added title. Duplicate names are
// not collapsed; the board keeps whatever the client sent.
func ReconcileColumns(edit ListEdit) ColumnOps {
	ops := ColumnOps{
		CascadeDeletes: append([]string(nil), edit.Removed...),
		Columns:        make([]string, 0, len(edit.Kept)+len(edit.Added)),
	}
	for _, col := range edit.Kept {
		if col.Title != col.ID {
			ops.Renames = append(ops.Renames, ColumnRename{From: col.ID, To: col.Title})
		}
		ops.Columns = append(ops.Columns, col.Title)
	}
	ops.Columns = append(ops.Columns, edit.Added...)
	return ops
}

// SubtaskOps is the operation set for a task-subtasks edit. Creates and
// Updates must be applied before Deletes.
type SubtaskOps struct {
	Creates []string
	Updates []KeptItem
	Deletes []string
}

// ReconcileSubtasks computes the store operations for a task-subtasks edit:
// one create per added title, one title update per kept entry (a no-op
// write when the title is unchanged), one delete per removed id.
func ReconcileSubtasks(edit ListEdit) SubtaskOps {
	return SubtaskOps{
		Creates: append([]string(nil), edit.Added...),
		Updates: append([]KeptItem(nil), edit.Kept...),
		Deletes: append([]string(nil), edit.Removed...),
	}
}
