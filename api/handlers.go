package api

import (
	"errors"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/bytedance/sonic"
	"github.com/labstack/echo/v4"
	log "github.com/sirupsen/logrus"

	"kanban-api/domain"
)

// Register wires up all API routes on the provided Echo instance.
func Register(e *echo.Echo, boards Boards, tasks Tasks, views Views, logger *log.Logger) {
	e.GET("/api/boards", getBoards(views))
	e.GET("/api/boards/:id", getBoard(views, logger))
	e.POST("/api/boards", createBoard(boards, views))
	e.POST("/api/boards/:id", boardAction(boards, tasks, views))
	e.GET("/healthz", healthz())
}

type boardsResponse struct {
	Boards []domain.BoardSummary `json:"boards"`
}

type actionResponse struct {
	OK      bool   `json:"ok"`
	Message string `json:"message"`
}

type errorResponse struct {
	Message string `json:"message"`
}

func healthz() echo.HandlerFunc {
	return func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	}
}

func getBoards(views Views) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := c.Request().Context()
		boards, err := views.FetchBoards(ctx)
		if err != nil {
			c.Logger().Error(err)
			return c.JSON(http.StatusInternalServerError, errorResponse{Message: "failed to load boards"})
		}
		return c.JSON(http.StatusOK, boardsResponse{Boards: boards})
	}
}

func getBoard(views Views, logger *log.Logger) echo.HandlerFunc {
	return func(c echo.Context) (err error) {
		ctx := c.Request().Context()
		metrics, spanCtx := newBoardRequestMetrics(ctx, logger)
		if spanCtx != nil {
			c.SetRequest(c.Request().WithContext(spanCtx))
			ctx = spanCtx
		}
		defer func() {
			metrics.Log(c.Response().Status, err)
		}()

		fetchStart := time.Now()
		view, fetchErr := views.FetchBoard(ctx, c.Param("id"))
		metrics.ObserveFetch(time.Since(fetchStart))
		if fetchErr != nil {
			if errors.Is(fetchErr, domain.ErrNotFound) {
				metrics.SetErrorStage("not_found")
				err = c.JSON(http.StatusNotFound, errorResponse{Message: "board not found"})
				return err
			}
			metrics.SetErrorStage("storage")
			c.Logger().Error(fetchErr)
			err = c.JSON(http.StatusInternalServerError, errorResponse{Message: "failed to load board"})
			return err
		}
		metrics.SetColumnsReturned(len(view.Columns))
		taskCount := 0
		for _, col := range view.Columns {
			taskCount += len(col.Tasks)
		}
		metrics.SetTasksReturned(taskCount)

		encodeStart := time.Now()
		err = c.JSON(http.StatusOK, view)
		metrics.ObserveEncode(time.Since(encodeStart))
		if err != nil {
			metrics.SetErrorStage("encode_response")
		}
		return err
	}
}

func createBoard(boards Boards, views Views) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := c.Request().Context()
		form, err := c.FormParams()
		if err != nil {
			return c.JSON(http.StatusBadRequest, errorResponse{Message: "invalid form body"})
		}

		name := form.Get("name")
		if name == "" {
			return respondError(c, domain.Validationf("name is required"))
		}
		newColumns, err := decodeMultiInputs(form.Get("new-columns"))
		if err != nil {
			return respondError(c, err)
		}
		columns := make([]string, 0, len(newColumns))
		for _, col := range newColumns {
			columns = append(columns, col.Value)
		}

		id, err := boards.Create(ctx, name, columns)
		if err != nil {
			return respondError(c, err)
		}
		views.EvictBoards(ctx)
		return c.Redirect(http.StatusSeeOther, "/"+id)
	}
}

// boardAction dispatches the form-encoded mutation actions posted to a
// board, discriminated by the _action field.
func boardAction(boards Boards, tasks Tasks, views Views) echo.HandlerFunc {
	return func(c echo.Context) error {
		boardID := c.Param("id")
		form, err := c.FormParams()
		if err != nil {
			return c.JSON(http.StatusBadRequest, errorResponse{Message: "invalid form body"})
		}

		switch form.Get("_action") {
		case "new-task":
			return newTask(c, tasks, views, boardID, form)
		case "edit-task":
			return editTask(c, tasks, views, boardID, form)
		case "delete-task":
			return deleteTask(c, tasks, views, boardID, form)
		case "complete-subtask":
			return completeSubtask(c, tasks, views, boardID, form)
		case "move-task":
			return moveTask(c, tasks, views, boardID, form)
		case "edit-board":
			return editBoard(c, boards, views, boardID, form)
		case "delete-board":
			return deleteBoard(c, boards, views, boardID)
		default:
			return respondError(c, domain.Validationf("unknown action"))
		}
	}
}

func newTask(c echo.Context, tasks Tasks, views Views, boardID string, form url.Values) error {
	title := form.Get("name")
	column := form.Get("column")
	if title == "" {
		return respondError(c, domain.Validationf("title is required"))
	}
	if column == "" {
		return respondError(c, domain.Validationf("column is required"))
	}
	description := form.Get("description")
	subtasks := form["subtasks"]

	if _, err := tasks.Create(c.Request().Context(), boardID, title, description, column, subtasks); err != nil {
		return respondError(c, err)
	}
	views.EvictBoard(c.Request().Context(), boardID)
	return c.JSON(http.StatusCreated, actionResponse{OK: true, Message: "Task created successfully"})
}

func editTask(c echo.Context, tasks Tasks, views Views, boardID string, form url.Values) error {
	taskID := form.Get("taskId")
	title := form.Get("name")
	column := form.Get("column")
	if taskID == "" {
		return respondError(c, domain.Validationf("taskId is required"))
	}
	if title == "" {
		return respondError(c, domain.Validationf("title is required"))
	}
	if column == "" {
		return respondError(c, domain.Validationf("column is required"))
	}

	edit, err := listEditFromForm(form, "old-subtasks", "new-subtasks", "deleted-subtasks")
	if err != nil {
		return respondError(c, err)
	}

	upd := domain.TaskUpdate{Title: &title, Column: &column}
	// An empty description leaves the stored one untouched, matching the
	// original form behavior.
	if description := form.Get("description"); description != "" {
		upd.Description = &description
	}

	if err := tasks.Edit(c.Request().Context(), taskID, upd, edit); err != nil {
		return respondError(c, err)
	}
	views.EvictBoard(c.Request().Context(), boardID)
	return c.JSON(http.StatusOK, actionResponse{OK: true, Message: "Task updated successfully"})
}

func deleteTask(c echo.Context, tasks Tasks, views Views, boardID string, form url.Values) error {
	taskID := form.Get("taskId")
	if taskID == "" {
		return respondError(c, domain.Validationf("taskId is required"))
	}
	if err := tasks.Delete(c.Request().Context(), taskID); err != nil {
		return respondError(c, err)
	}
	views.EvictBoard(c.Request().Context(), boardID)
	return c.JSON(http.StatusOK, actionResponse{OK: true, Message: "Task deleted successfully"})
}

func completeSubtask(c echo.Context, tasks Tasks, views Views, boardID string, form url.Values) error {
	subtaskID := form.Get("subtaskId")
	if subtaskID == "" {
		return respondError(c, domain.Validationf("subtaskId is required"))
	}
	completed := form.Get("completed") == "on"

	if err := tasks.ToggleSubtask(c.Request().Context(), subtaskID, completed); err != nil {
		return respondError(c, err)
	}
	views.EvictBoard(c.Request().Context(), boardID)
	message := "Subtask uncompleted successfully"
	if completed {
		message = "Subtask completed successfully"
	}
	return c.JSON(http.StatusOK, actionResponse{OK: true, Message: message})
}

func moveTask(c echo.Context, tasks Tasks, views Views, boardID string, form url.Values) error {
	taskID := form.Get("taskId")
	column := form.Get("column")
	if taskID == "" {
		return respondError(c, domain.Validationf("taskId is required"))
	}
	if column == "" {
		return respondError(c, domain.Validationf("column is required"))
	}
	if err := tasks.Move(c.Request().Context(), taskID, column); err != nil {
		return respondError(c, err)
	}
	views.EvictBoard(c.Request().Context(), boardID)
	return c.JSON(http.StatusOK, actionResponse{OK: true, Message: "Task moved successfully"})
}

func editBoard(c echo.Context, boards Boards, views Views, boardID string, form url.Values) error {
	name := form.Get("name")
	if name == "" {
		return respondError(c, domain.Validationf("name is required"))
	}
	edit, err := listEditFromForm(form, "old-columns", "new-columns", "deleted-columns")
	if err != nil {
		return respondError(c, err)
	}

	if err := boards.Edit(c.Request().Context(), boardID, name, edit); err != nil {
		return respondError(c, err)
	}
	views.EvictBoard(c.Request().Context(), boardID)
	return c.JSON(http.StatusOK, actionResponse{OK: true, Message: "Board updated successfully"})
}

func deleteBoard(c echo.Context, boards Boards, views Views, boardID string) error {
	if err := boards.Delete(c.Request().Context(), boardID); err != nil {
		return respondError(c, err)
	}
	views.EvictBoard(c.Request().Context(), boardID)
	return c.Redirect(http.StatusSeeOther, "/")
}

type multiInput struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// decodeMultiInputs parses the JSON payload of a multi-input form field, an
// array of {key, value} objects.
func decodeMultiInputs(raw string) ([]multiInput, error) {
	if raw == "" {
		return nil, domain.Validationf("invalid multi inputs schema")
	}
	dec := sonic.ConfigStd.NewDecoder(strings.NewReader(raw))
	dec.DisallowUnknownFields()
	var items []multiInput
	if err := dec.Decode(&items); err != nil {
		return nil, domain.Validationf("invalid multi inputs schema")
	}
	return items, nil
}

// listEditFromForm assembles the three-partition edit payload from the
// form's kept/added/removed fields.
func listEditFromForm(form url.Values, oldField, newField, deletedField string) (domain.ListEdit, error) {
	oldItems, err := decodeMultiInputs(form.Get(oldField))
	if err != nil {
		return domain.ListEdit{}, err
	}
	newItems, err := decodeMultiInputs(form.Get(newField))
	if err != nil {
		return domain.ListEdit{}, err
	}

	edit := domain.ListEdit{
		Kept:    make([]domain.KeptItem, 0, len(oldItems)),
		Added:   make([]string, 0, len(newItems)),
		Removed: append([]string(nil), form[deletedField]...),
	}
	for _, item := range oldItems {
		edit.Kept = append(edit.Kept, domain.KeptItem{ID: item.Key, Title: item.Value})
	}
	for _, item := range newItems {
		edit.Added = append(edit.Added, item.Value)
	}
	return edit, nil
}

func respondError(c echo.Context, err error) error {
	var verr domain.ValidationError
	switch {
	case errors.As(err, &verr):
		return c.JSON(http.StatusBadRequest, errorResponse{Message: verr.Error()})
	case errors.Is(err, domain.ErrNotFound):
		return c.JSON(http.StatusNotFound, errorResponse{Message: "not found"})
	default:
		c.Logger().Error(err)
		return c.JSON(http.StatusInternalServerError, errorResponse{Message: "operation failed"})
	}
}
