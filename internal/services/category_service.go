package services

import (
	"context"

	"github.com/GeX90/gestorapp-backend/internal/core"
	"github.com/GeX90/gestorapp-backend/internal/store"
)

// CategoryService handles category CRUD with the same explicit
// ownership semantics as transactions.
type CategoryService struct {
	cats store.CategoryStore
}

func NewCategoryService(cats store.CategoryStore) *CategoryService {
	return &CategoryService{cats: cats}
}

func (s *CategoryService) Create(ctx context.Context, userID, name string, typ core.CategoryType) (core.Category, error) {
	c := core.Category{UserID: userID, Name: name, Type: typ}
	if err := c.Validate(); err != nil {
		return core.Category{}, err
	}
	return s.cats.CreateCategory(ctx, c)
}

func (s *CategoryService) Get(ctx context.Context, userID string, id int64) (core.Category, error) {
	c, err := s.cats.GetCategory(ctx, id)
	if err != nil {
		return core.Category{}, err
	}
	if c.UserID != userID {
		return core.Category{}, core.ErrForbidden
	}
	return c, nil
}

func (s *CategoryService) List(ctx context.Context, userID string) ([]core.Category, error) {
	return s.cats.ListCategories(ctx, userID)
}

func (s *CategoryService) Update(ctx context.Context, userID string, id int64, name *string, typ *core.CategoryType) (core.Category, error) {
	c, err := s.Get(ctx, userID, id)
	if err != nil {
		return core.Category{}, err
	}
	if name != nil {
		c.Name = *name
	}
	if typ != nil {
		c.Type = *typ
	}
	if err := c.Validate(); err != nil {
		return core.Category{}, err
	}
	return s.cats.UpdateCategory(ctx, c)
}

func (s *CategoryService) Delete(ctx context.Context, userID string, id int64) error {
	if _, err := s.Get(ctx, userID, id); err != nil {
		return err
	}
	return s.cats.DeleteCategory(ctx, id)
}

// SeedDefaults creates the stock categories for a user, skipping names
// that already exist. Safe to call repeatedly.
func (s *CategoryService) SeedDefaults(ctx context.Context, userID string) ([]core.Category, error) {
	existing, err := s.cats.ListCategories(ctx, userID)
	if err != nil {
		return nil, err
	}
	have := make(map[string]bool, len(existing))
	for _, c := range existing {
		have[c.Name] = true
	}

	var created []core.Category
	for _, def := range core.DefaultCategories {
		if have[def.Name] {
			continue
		}
		c, err := s.cats.CreateCategory(ctx, core.Category{UserID: userID, Name: def.Name, Type: def.Type})
		if err != nil {
			return created, err
		}
		created = append(created, c)
	}
	return created, nil
}
