// Package subject is the entity service for subjects. Subjects are
// free-standing records; the (name, grade level) pairing is a pre-checked
// business uniqueness rule rather than a store constraint.
package subject

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"registra.org/internal/pgerr"
	"registra.org/internal/resource"
)

// ErrAlreadyCreated reports an existing (name, grade level) pairing.
var ErrAlreadyCreated = errors.New("subject: already created")

// Subject is a persisted record identified to users by name and grade.
type Subject struct {
	ID         int64     `json:"id"`
	Name       string    `json:"subject_name"`
	GradeLevel int       `json:"grade_level"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// Create is the creation input shape.
type Create struct {
	Name       string `json:"subject_name"`
	GradeLevel int    `json:"grade_level"`
}

// Update is the partial-update input shape.
type Update struct {
	Name       *string `json:"subject_name"`
	GradeLevel *int    `json:"grade_level"`
}

func descriptor() resource.Descriptor[Subject, Create, Update] {
	return resource.Descriptor[Subject, Create, Update]{
		Table:   "subjects",
		Columns: []string{"id", "subject_name", "grade_level", "created_at", "updated_at"},
		Scan: func(s resource.Scanner) (*Subject, error) {
			var sub Subject
			if err := s.Scan(&sub.ID, &sub.Name, &sub.GradeLevel, &sub.CreatedAt, &sub.UpdatedAt); err != nil {
				return nil, err
			}
			return &sub, nil
		},
		Insert: func(c *Create) ([]string, []any) {
			return []string{"subject_name", "grade_level"}, []any{c.Name, c.GradeLevel}
		},
		Update: func(u *Update) map[string]any {
			changes := map[string]any{}
			if u.Name != nil {
				changes["subject_name"] = *u.Name
			}
			if u.GradeLevel != nil {
				changes["grade_level"] = *u.GradeLevel
			}
			return changes
		},
	}
}

// Service provides subject operations.
type Service struct {
	db   *sql.DB
	repo *resource.Repository[Subject, Create, Update]
}

func NewService(db *sql.DB) *Service {
	return &Service{db: db, repo: resource.New(db, descriptor())}
}

// Create pre-checks the (name, grade level) pairing and fails with
// ErrAlreadyCreated when it exists.
func (s *Service) Create(ctx context.Context, input *Create) (*Subject, error) {
	var existing int64
	err := s.db.QueryRowContext(ctx,
		`select id from subjects where subject_name = $1 and grade_level = $2`,
		input.Name, input.GradeLevel).Scan(&existing)
	if err == nil {
		return nil, ErrAlreadyCreated
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, pgerr.Classify(err)
	}
	return s.repo.Create(ctx, input)
}

func (s *Service) GetByID(ctx context.Context, id int64) (*Subject, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) List(ctx context.Context, page, limit int) (*resource.Page[Subject], error) {
	return s.repo.List(ctx, page, limit)
}

// ListByGradeLevel returns every subject of one grade, ordered by identity.
func (s *Service) ListByGradeLevel(ctx context.Context, gradeLevel int) ([]*Subject, error) {
	rows, err := s.db.QueryContext(ctx,
		`select id, subject_name, grade_level, created_at, updated_at
		from subjects where grade_level = $1 order by id asc`, gradeLevel)
	if err != nil {
		return nil, pgerr.Classify(err)
	}
	defer rows.Close()

	var subjects []*Subject
	for rows.Next() {
		var sub Subject
		if err := rows.Scan(&sub.ID, &sub.Name, &sub.GradeLevel, &sub.CreatedAt, &sub.UpdatedAt); err != nil {
			return nil, err
		}
		subjects = append(subjects, &sub)
	}
	return subjects, rows.Err()
}

func (s *Service) Update(ctx context.Context, id int64, input *Update) (*Subject, error) {
	return s.repo.Update(ctx, id, input)
}

func (s *Service) Delete(ctx context.Context, id int64) (*Subject, error) {
	return s.repo.Delete(ctx, id)
}

// DeleteByGradeLevel removes every subject of one grade in a single
// transaction and returns the pre-deletion snapshots, or nil when the grade
// has no subjects.
func (s *Service) DeleteByGradeLevel(ctx context.Context, gradeLevel int) ([]*Subject, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback() }()

	rows, err := tx.QueryContext(ctx,
		`select id, subject_name, grade_level, created_at, updated_at
		from subjects where grade_level = $1 order by id asc`, gradeLevel)
	if err != nil {
		return nil, pgerr.Classify(err)
	}
	var snapshot []*Subject
	for rows.Next() {
		var sub Subject
		if err := rows.Scan(&sub.ID, &sub.Name, &sub.GradeLevel, &sub.CreatedAt, &sub.UpdatedAt); err != nil {
			rows.Close()
			return nil, err
		}
		snapshot = append(snapshot, &sub)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, err
	}
	rows.Close()

	if len(snapshot) == 0 {
		return nil, nil
	}

	if _, err := tx.ExecContext(ctx, `delete from subjects where grade_level = $1`, gradeLevel); err != nil {
		return nil, pgerr.Classify(err)
	}
	if err := tx.Commit(); err != nil {
		return nil, pgerr.Classify(err)
	}
	return snapshot, nil
}
