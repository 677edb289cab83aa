// Package organization is the entity service for organizations: a thin
// composition of the generic resource repository with this record kind's
// table mapping.
package organization

import (
	"context"
	"database/sql"
	"time"

	"registra.org/internal/resource"
)

// Organization is a persisted record with a unique name and an optional
// description.
type Organization struct {
	ID          int64     `json:"id"`
	Name        string    `json:"organization_name"`
	Description *string   `json:"organization_description"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Create is the creation input shape.
type Create struct {
	Name        string  `json:"organization_name"`
	Description *string `json:"organization_description"`
}

// Update is the partial-update input shape; absent fields stay untouched.
type Update struct {
	Name        *string `json:"organization_name"`
	Description *string `json:"organization_description"`
}

func descriptor() resource.Descriptor[Organization, Create, Update] {
	return resource.Descriptor[Organization, Create, Update]{
		Table:   "organizations",
		Columns: []string{"id", "organization_name", "organization_description", "created_at", "updated_at"},
		Scan: func(s resource.Scanner) (*Organization, error) {
			var (
				o    Organization
				desc sql.NullString
			)
			if err := s.Scan(&o.ID, &o.Name, &desc, &o.CreatedAt, &o.UpdatedAt); err != nil {
				return nil, err
			}
			if desc.Valid {
				o.Description = &desc.String
			}
			return &o, nil
		},
		Insert: func(c *Create) ([]string, []any) {
			return []string{"organization_name", "organization_description"},
				[]any{c.Name, c.Description}
		},
		Update: func(u *Update) map[string]any {
			changes := map[string]any{}
			if u.Name != nil {
				changes["organization_name"] = *u.Name
			}
			if u.Description != nil {
				changes["organization_description"] = *u.Description
			}
			return changes
		},
	}
}

// Service provides organization operations.
type Service struct {
	repo *resource.Repository[Organization, Create, Update]
}

func NewService(db *sql.DB) *Service {
	return &Service{repo: resource.New(db, descriptor())}
}

func (s *Service) Create(ctx context.Context, input *Create) (*Organization, error) {
	return s.repo.Create(ctx, input)
}

func (s *Service) GetByID(ctx context.Context, id int64) (*Organization, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) GetByName(ctx context.Context, name string) (*Organization, error) {
	return s.repo.GetByField(ctx, "organization_name", name)
}

func (s *Service) List(ctx context.Context, page, limit int) (*resource.Page[Organization], error) {
	return s.repo.List(ctx, page, limit)
}

func (s *Service) Update(ctx context.Context, id int64, input *Update) (*Organization, error) {
	return s.repo.Update(ctx, id, input)
}

func (s *Service) Delete(ctx context.Context, id int64) (*Organization, error) {
	return s.repo.Delete(ctx, id)
}
