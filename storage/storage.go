package storage

import (
	"context"
	"errors"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"kanban-api/domain"
)

// Store provides access to the relational store.
type Store struct {
	db *gorm.DB
}

// New opens the Postgres database at dsn and migrates the schema.
func New(dsn string) (*Store, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Discard,
	})
	if err != nil {
		return nil, err
	}
	if err := db.AutoMigrate(&boardRecord{}, &taskRecord{}, &subtaskRecord{}); err != nil {
		return nil, err
	}
	return &Store{db: db}, nil
}

type boardRecord struct {
	ID        string   `gorm:"type:uuid;primaryKey"`
	Name      string   `gorm:"not null"`
	Columns   []string `gorm:"serializer:json"`
	CreatedAt time.Time
	UpdatedAt time.Time

	Tasks []taskRecord `gorm:"foreignKey:BoardID;constraint:OnDelete:CASCADE"`
}

func (boardRecord) TableName() string { return "boards" }

type taskRecord struct {
	ID          string `gorm:"type:uuid;primaryKey"`
	BoardID     string `gorm:"type:uuid;not null;index"`
	Title       string `gorm:"not null"`
	Description string
	// "column" is reserved in SQL, so the field maps to column_name.
	Column    string `gorm:"column:column_name;not null;index"`
	CreatedAt time.Time
	UpdatedAt time.Time

	Subtasks []subtaskRecord `gorm:"foreignKey:TaskID;constraint:OnDelete:CASCADE"`
}

func (taskRecord) TableName() string { return "tasks" }

type subtaskRecord struct {
	ID        string `gorm:"type:uuid;primaryKey"`
	TaskID    string `gorm:"type:uuid;not null;index"`
	Title     string `gorm:"not null"`
	Completed bool   `gorm:"not null;default:false"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (subtaskRecord) TableName() string { return "subtasks" }

func (s *Store) CreateBoard(ctx context.Context, b domain.Board) error {
	rec := boardRecord{ID: b.ID, Name: b.Name, Columns: b.Columns}
	return s.db.WithContext(ctx).Create(&rec).Error
}

func (s *Store) GetBoard(ctx context.Context, id string) (*domain.Board, error) {
	var rec boardRecord
	err := s.db.WithContext(ctx).First(&rec, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &domain.Board{ID: rec.ID, Name: rec.Name, Columns: rec.Columns}, nil
}

func (s *Store) UpdateBoard(ctx context.Context, id, name string, columns []string) error {
	// Struct update so the columns serializer applies; Select forces the
	// write even when the new column list is empty.
	res := s.db.WithContext(ctx).Model(&boardRecord{ID: id}).
		Select("name", "columns").
		Updates(&boardRecord{Name: name, Columns: columns})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (s *Store) DeleteBoard(ctx context.Context, id string) error {
	res := s.db.WithContext(ctx).Delete(&boardRecord{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (s *Store) CreateTask(ctx context.Context, t domain.Task) error {
	rec := taskRecord{
		ID:          t.ID,
		BoardID:     t.BoardID,
		Title:       t.Title,
		Description: t.Description,
		Column:      t.Column,
	}
	return s.db.WithContext(ctx).Create(&rec).Error
}

func (s *Store) GetTask(ctx context.Context, id string) (*domain.Task, error) {
	var rec taskRecord
	err := s.db.WithContext(ctx).First(&rec, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &domain.Task{
		ID:          rec.ID,
		BoardID:     rec.BoardID,
		Title:       rec.Title,
		Description: rec.Description,
		Column:      rec.Column,
	}, nil
}

func (s *Store) UpdateTask(ctx context.Context, id string, upd domain.TaskUpdate) error {
	updates := map[string]any{}
	if upd.Title != nil {
		updates["title"] = *upd.Title
	}
	if upd.Description != nil {
		updates["description"] = *upd.Description
	}
	if upd.Column != nil {
		updates["column_name"] = *upd.Column
	}
	if len(updates) == 0 {
		return nil
	}
	res := s.db.WithContext(ctx).Model(&taskRecord{}).Where("id = ?", id).Updates(updates)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (s *Store) DeleteTask(ctx context.Context, id string) error {
	res := s.db.WithContext(ctx).Delete(&taskRecord{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// DeleteTasksInColumn removes every task of the board in the named column.
// Subtasks go with them through the ON DELETE CASCADE constraint.
func (s *Store) DeleteTasksInColumn(ctx context.Context, boardID, column string) error {
	return s.db.WithContext(ctx).
		Where("board_id = ? AND column_name = ?", boardID, column).
		Delete(&taskRecord{}).Error
}

func (s *Store) MoveTasks(ctx context.Context, boardID, from, to string) error {
	return s.db.WithContext(ctx).Model(&taskRecord{}).
		Where("board_id = ? AND column_name = ?", boardID, from).
		Update("column_name", to).Error
}

func (s *Store) CreateSubtask(ctx context.Context, st domain.Subtask) error {
	rec := subtaskRecord{ID: st.ID, TaskID: st.TaskID, Title: st.Title, Completed: st.Completed}
	return s.db.WithContext(ctx).Create(&rec).Error
}

func (s *Store) UpdateSubtaskTitle(ctx context.Context, id, title string) error {
	res := s.db.WithContext(ctx).Model(&subtaskRecord{}).Where("id = ?", id).Update("title", title)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (s *Store) SetSubtaskCompleted(ctx context.Context, id string, completed bool) error {
	res := s.db.WithContext(ctx).Model(&subtaskRecord{}).Where("id = ?", id).Update("completed", completed)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (s *Store) DeleteSubtasks(ctx context.Context, ids []string) error {
	if len(ids) == 0 {
		return nil
	}
	return s.db.WithContext(ctx).Where("id IN ?", ids).Delete(&subtaskRecord{}).Error
}

// Transact runs fn inside a single database transaction.
func (s *Store) Transact(ctx context.Context, fn func(domain.Store) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&Store{db: tx})
	})
}

// FetchBoards retrieves the sidebar summaries of all boards.
func (s *Store) FetchBoards(ctx context.Context) ([]domain.BoardSummary, error) {
	var recs []boardRecord
	if err := s.db.WithContext(ctx).Select("id", "name").Order("created_at ASC").Find(&recs).Error; err != nil {
		return nil, err
	}
	boards := make([]domain.BoardSummary, 0, len(recs))
	for _, rec := range recs {
		boards = append(boards, domain.BoardSummary{ID: rec.ID, Name: rec.Name})
	}
	return boards, nil
}

// FetchBoard retrieves the board with its tasks grouped by column. Tasks
// and subtasks come back in creation order.
func (s *Store) FetchBoard(ctx context.Context, id string) (*domain.BoardView, error) {
	var rec boardRecord
	err := s.db.WithContext(ctx).
		Preload("Tasks", func(db *gorm.DB) *gorm.DB {
			return db.Order("tasks.created_at ASC")
		}).
		Preload("Tasks.Subtasks", func(db *gorm.DB) *gorm.DB {
			return db.Order("subtasks.created_at ASC")
		}).
		First(&rec, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	tasks := make([]domain.Task, 0, len(rec.Tasks))
	for _, tr := range rec.Tasks {
		subtasks := make([]domain.Subtask, 0, len(tr.Subtasks))
		for _, sr := range tr.Subtasks {
			subtasks = append(subtasks, domain.Subtask{
				ID:        sr.ID,
				TaskID:    sr.TaskID,
				Title:     sr.Title,
				Completed: sr.Completed,
			})
		}
		tasks = append(tasks, domain.Task{
			ID:          tr.ID,
			BoardID:     tr.BoardID,
			Title:       tr.Title,
			Description: tr.Description,
			Column:      tr.Column,
			Subtasks:    subtasks,
		})
	}
	return &domain.BoardView{
		ID:      rec.ID,
		Name:    rec.Name,
		Columns: domain.GroupTasks(rec.Columns, tasks),
	}, nil
}
