// Package role is the entity service for roles. Every account references
// exactly one role; the description is required, unlike organizations.
package role

import (
	"context"
	"database/sql"
	"time"

	"registra.org/internal/resource"
)

// Role is a persisted record with a unique name and required description.
type Role struct {
	ID          int64     `json:"id"`
	Name        string    `json:"role_name"`
	Description string    `json:"role_description"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Create is the creation input shape.
type Create struct {
	Name        string `json:"role_name"`
	Description string `json:"role_description"`
}

// Update is the partial-update input shape.
type Update struct {
	Name        *string `json:"role_name"`
	Description *string `json:"role_description"`
}

func descriptor() resource.Descriptor[Role, Create, Update] {
	return resource.Descriptor[Role, Create, Update]{
		Table:   "roles",
		Columns: []string{"id", "role_name", "role_description", "created_at", "updated_at"},
		Scan: func(s resource.Scanner) (*Role, error) {
			var r Role
			if err := s.Scan(&r.ID, &r.Name, &r.Description, &r.CreatedAt, &r.UpdatedAt); err != nil {
				return nil, err
			}
			return &r, nil
		},
		Insert: func(c *Create) ([]string, []any) {
			return []string{"role_name", "role_description"}, []any{c.Name, c.Description}
		},
		Update: func(u *Update) map[string]any {
			changes := map[string]any{}
			if u.Name != nil {
				changes["role_name"] = *u.Name
			}
			if u.Description != nil {
				changes["role_description"] = *u.Description
			}
			return changes
		},
	}
}

// Service provides role operations.
type Service struct {
	repo *resource.Repository[Role, Create, Update]
}

func NewService(db *sql.DB) *Service {
	return &Service{repo: resource.New(db, descriptor())}
}

func (s *Service) Create(ctx context.Context, input *Create) (*Role, error) {
	return s.repo.Create(ctx, input)
}

func (s *Service) GetByID(ctx context.Context, id int64) (*Role, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) GetByName(ctx context.Context, name string) (*Role, error) {
	return s.repo.GetByField(ctx, "role_name", name)
}

func (s *Service) List(ctx context.Context, page, limit int) (*resource.Page[Role], error) {
	return s.repo.List(ctx, page, limit)
}

func (s *Service) Update(ctx context.Context, id int64, input *Update) (*Role, error) {
	return s.repo.Update(ctx, id, input)
}

func (s *Service) Delete(ctx context.Context, id int64) (*Role, error) {
	return s.repo.Delete(ctx, id)
}
