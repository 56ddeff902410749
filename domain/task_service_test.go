package domain

import (
	"context"
	"errors"
	"strings"
	"testing"
)

func ptrString(s string) *string { return &s }

func TestTaskCreateWithSubtasks(t *testing.T) {
	fs := newFakeStore()
	fs.boards["b1"] = Board{ID: "b1", Name: "Roadmap", Columns: []string{"Todo"}}
	svc := NewTaskService(fs)

	id, err := svc.Create(context.Background(), "b1", "Build it", "the plan", "Todo", []string{"first", "second"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	task := fs.tasks[id]
	if task.Title != "Build it" || task.Description != "the plan" || task.Column != "Todo" || task.BoardID != "b1" {
		t.Fatalf("unexpected task: %#v", task)
	}
	subs := fs.subtasksOf(id)
	if len(subs) != 2 {
		t.Fatalf("expected 2 subtasks, got %d", len(subs))
	}
	for _, st := range subs {
		if st.Completed {
			t.Fatalf("new subtask must start uncompleted: %#v", st)
		}
	}
}

func TestTaskEditAddsSubtaskToEmptyTask(t *testing.T) {
	fs := newFakeStore()
	fs.tasks["t1"] = Task{ID: "t1", BoardID: "b1", Title: "Pricing", Column: "Todo"}
	svc := NewTaskService(fs)

	upd := TaskUpdate{Title: ptrString("Pricing"), Column: ptrString("Todo")}
	err := svc.Edit(context.Background(), "t1", upd, ListEdit{Added: []string{"Research pricing"}})
	if err != nil {
		t.Fatalf("edit: %v", err)
	}

	subs := fs.subtasksOf("t1")
	if len(subs) != 1 {
		t.Fatalf("expected exactly one subtask, got %d", len(subs))
	}
	if subs[0].Title != "Research pricing" || subs[0].Completed {
		t.Fatalf("unexpected subtask: %#v", subs[0])
	}
}

func TestTaskEditWritesBeforeDeletes(t *testing.T) {
	fs := newFakeStore()
	fs.tasks["t1"] = Task{ID: "t1", BoardID: "b1", Title: "Pricing", Column: "Todo"}
	fs.subtasks["s1"] = Subtask{ID: "s1", TaskID: "t1", Title: "old"}
	fs.subtasks["s2"] = Subtask{ID: "s2", TaskID: "t1", Title: "doomed"}
	svc := NewTaskService(fs)

	upd := TaskUpdate{Title: ptrString("Pricing"), Column: ptrString("Todo")}
	edit := ListEdit{
		Kept:    []KeptItem{{ID: "s1", Title: "renamed"}},
		Added:   []string{"fresh"},
		Removed: []string{"s2"},
	}
	if err := svc.Edit(context.Background(), "t1", upd, edit); err != nil {
		t.Fatalf("edit: %v", err)
	}

	deleteAt := -1
	for i, op := range fs.ops {
		if op == "delete-subtasks" {
			deleteAt = i
		}
	}
	if deleteAt == -1 {
		t.Fatalf("delete-subtasks never ran: %v", fs.ops)
	}
	for i, op := range fs.ops {
		if (strings.HasPrefix(op, "create-subtask") || strings.HasPrefix(op, "update-subtask")) && i > deleteAt {
			t.Fatalf("subtask write after delete: %v", fs.ops)
		}
	}
	if fs.subtasks["s1"].Title != "renamed" {
		t.Fatalf("kept subtask not updated: %#v", fs.subtasks["s1"])
	}
	if _, ok := fs.subtasks["s2"]; ok {
		t.Fatal("removed subtask still present")
	}
	if len(fs.subtasksOf("t1")) != 2 {
		t.Fatalf("expected kept+added subtasks, got %d", len(fs.subtasksOf("t1")))
	}
}

func TestTaskEditNilDescriptionLeavesStoredValue(t *testing.T) {
	fs := newFakeStore()
	fs.tasks["t1"] = Task{ID: "t1", BoardID: "b1", Title: "Pricing", Description: "keep me", Column: "Todo"}
	svc := NewTaskService(fs)

	upd := TaskUpdate{Title: ptrString("Pricing v2"), Column: ptrString("Doing")}
	if err := svc.Edit(context.Background(), "t1", upd, ListEdit{}); err != nil {
		t.Fatalf("edit: %v", err)
	}
	task := fs.tasks["t1"]
	if task.Description != "keep me" {
		t.Fatalf("description should be untouched: %q", task.Description)
	}
	if task.Title != "Pricing v2" || task.Column != "Doing" {
		t.Fatalf("scalar update not applied: %#v", task)
	}
}

func TestTaskEditMissingTask(t *testing.T) {
	fs := newFakeStore()
	svc := NewTaskService(fs)

	err := svc.Edit(context.Background(), "nope", TaskUpdate{}, ListEdit{Added: []string{"x"}})
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if len(fs.subtasks) != 0 {
		t.Fatal("no subtask should be created for a missing task")
	}
}

func TestTaskMove(t *testing.T) {
	fs := newFakeStore()
	fs.boards["b1"] = Board{ID: "b1", Name: "Roadmap", Columns: []string{"Todo", "Done"}}
	fs.tasks["t1"] = Task{ID: "t1", BoardID: "b1", Title: "one", Column: "Todo"}
	svc := NewTaskService(fs)

	if err := svc.Move(context.Background(), "t1", "Done"); err != nil {
		t.Fatalf("move: %v", err)
	}
	if fs.tasks["t1"].Column != "Done" {
		t.Fatalf("task not moved: %q", fs.tasks["t1"].Column)
	}
}

func TestTaskMoveRejectsUnknownColumn(t *testing.T) {
	fs := newFakeStore()
	fs.boards["b1"] = Board{ID: "b1", Name: "Roadmap", Columns: []string{"Todo", "Done"}}
	fs.tasks["t1"] = Task{ID: "t1", BoardID: "b1", Title: "one", Column: "Todo"}
	svc := NewTaskService(fs)

	err := svc.Move(context.Background(), "t1", "Archive")
	var verr ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if fs.tasks["t1"].Column != "Todo" {
		t.Fatalf("task should not move: %q", fs.tasks["t1"].Column)
	}
}

func TestTaskDeleteCascades(t *testing.T) {
	fs := newFakeStore()
	fs.tasks["t1"] = Task{ID: "t1", BoardID: "b1", Column: "Todo"}
	fs.subtasks["s1"] = Subtask{ID: "s1", TaskID: "t1"}
	svc := NewTaskService(fs)

	if err := svc.Delete(context.Background(), "t1"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if len(fs.tasks) != 0 || len(fs.subtasks) != 0 {
		t.Fatal("expected task and subtasks gone")
	}
	if err := svc.Delete(context.Background(), "t1"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestToggleSubtaskIdempotent(t *testing.T) {
	fs := newFakeStore()
	fs.subtasks["s1"] = Subtask{ID: "s1", TaskID: "t1", Title: "sub"}
	svc := NewTaskService(fs)

	for i := 0; i < 2; i++ {
		if err := svc.ToggleSubtask(context.Background(), "s1", true); err != nil {
			t.Fatalf("toggle %d: %v", i, err)
		}
		if !fs.subtasks["s1"].Completed {
			t.Fatalf("toggle %d: expected completed", i)
		}
	}

	if err := svc.ToggleSubtask(context.Background(), "s1", false); err != nil {
		t.Fatalf("untoggle: %v", err)
	}
	if fs.subtasks["s1"].Completed {
		t.Fatal("expected uncompleted")
	}

	if err := svc.ToggleSubtask(context.Background(), "missing", true); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestTaskCreateSubtaskFailurePropagates(t *testing.T) {
	fs := newFakeStore()
	fs.failOn = "create-subtask"
	svc := NewTaskService(fs)

	_, err := svc.Create(context.Background(), "b1", "Build it", "", "Todo", []string{"first"})
	if err == nil {
		t.Fatal("expected store failure to propagate")
	}
}
