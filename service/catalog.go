package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"

	"restaurant-ordering-api/models"
	"restaurant-ordering-api/repository"
)

// Uncategorized is the pseudo category for items whose category is unset or
// was deleted.
const Uncategorized = "uncategorized"

type MenuFilter struct {
	CategoryID    string
	OnlyAvailable bool
}

type CategoryInput struct {
	Name        string `json:"name" validate:"required,max=100"`
	Description string `json:"description" validate:"max=500"`
	Image       string `json:"image" validate:"max=500"`
}

type MenuItemInput struct {
	Name        string       `json:"name" validate:"required,max=100"`
	Description string       `json:"description" validate:"max=1000"`
	Price       models.Money `json:"price" validate:"min=0,max=100000000"`
	Image       string       `json:"image" validate:"max=500"`
	CategoryID  string       `json:"categoryId" validate:"max=64"`
	Ingredients []string     `json:"ingredients" validate:"max=50,dive,required,max=100"`
	Recipe      string       `json:"recipe" validate:"max=2000"`
	IsAvailable *bool        `json:"isAvailable"`
	Allergens   []string     `json:"allergens" validate:"max=20,dive,required,max=50"`
}

type CatalogService struct {
	repo *repository.Repository
	now  func() time.Time
}

func NewCatalogService(repo *repository.Repository) *CatalogService {
	return &CatalogService{repo: repo, now: time.Now}
}

func (s *CatalogService) ListCategories(ctx context.Context) ([]models.Category, error) {
	return s.repo.ListCategories(ctx)
}

func (s *CatalogService) GetCategory(ctx context.Context, id string) (*models.Category, error) {
	if err := validateID("id", id); err != nil {
		return nil, err
	}
	c, err := s.repo.GetCategory(ctx, id)
	if err != nil {
		return nil, notFound(err, "category "+id)
	}
	return c, nil
}

// ListMenuItems filters by category. Filtering by Uncategorized returns items
// with no category or one that no longer exists.
func (s *CatalogService) ListMenuItems(ctx context.Context, filter MenuFilter) ([]models.MenuItem, error) {
	if filter.CategoryID != Uncategorized {
		if filter.CategoryID != "" {
			if err := validateID("category", filter.CategoryID); err != nil {
				return nil, err
			}
		}
		return s.repo.ListMenuItems(ctx, repository.MenuFilter{
			CategoryID:    filter.CategoryID,
			OnlyAvailable: filter.OnlyAvailable,
		})
	}

	items, err := s.repo.ListMenuItems(ctx, repository.MenuFilter{OnlyAvailable: filter.OnlyAvailable})
	if err != nil {
		return nil, err
	}
	categories, err := s.repo.ListCategories(ctx)
	if err != nil {
		return nil, err
	}
	known := make(map[string]bool, len(categories))
	for _, c := range categories {
		known[c.ID] = true
	}
	out := make([]models.MenuItem, 0)
	for _, it := range items {
		if !known[it.CategoryID] {
			out = append(out, it)
		}
	}
	return out, nil
}

func (s *CatalogService) GetMenuItem(ctx context.Context, id string) (*models.MenuItem, error) {
	if err := validateID("id", id); err != nil {
		return nil, err
	}
	it, err := s.repo.GetMenuItem(ctx, id)
	if err != nil {
		return nil, notFound(err, "menu item "+id)
	}
	return it, nil
}

// SaveCategory creates a category when id is empty, otherwise creates or
// replaces the category with that id.
func (s *CatalogService) SaveCategory(ctx context.Context, id string, in CategoryInput) (*models.Category, error) {
	in.Name = strings.TrimSpace(in.Name)
	if err := validateStruct(in); err != nil {
		return nil, err
	}
	if id != "" {
		if err := validateID("id", id); err != nil {
			return nil, err
		}
	}
	c := &models.Category{ID: id, Name: in.Name, Description: in.Description, Image: in.Image}
	if err := s.repo.SaveCategory(ctx, c); err != nil {
		return nil, fmt.Errorf("save category: %w", err)
	}
	log.WithFields(log.Fields{"category_id": c.ID, "name": c.Name}).Info("category saved")
	return c, nil
}

// DeleteCategory is idempotent. Items in the category are kept.
func (s *CatalogService) DeleteCategory(ctx context.Context, id string) error {
	if err := validateID("id", id); err != nil {
		return err
	}
	removed, err := s.repo.DeleteCategory(ctx, id)
	if err != nil {
		return fmt.Errorf("delete category %s: %w", id, err)
	}
	if removed {
		log.WithField("category_id", id).Info("category deleted")
	}
	return nil
}

// SaveMenuItem creates an item when id is empty, otherwise creates or
// replaces the item with that id. Orders already placed keep their snapshot.
func (s *CatalogService) SaveMenuItem(ctx context.Context, id string, in MenuItemInput) (*models.MenuItem, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.CategoryID = strings.TrimSpace(in.CategoryID)
	if err := validateStruct(in); err != nil {
		return nil, err
	}
	if id != "" {
		if err := validateID("id", id); err != nil {
			return nil, err
		}
	}
	if in.CategoryID != "" {
		if _, err := s.repo.GetCategory(ctx, in.CategoryID); err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return nil, invalid("categoryId", "unknown category %q", in.CategoryID)
			}
			return nil, err
		}
	}

	available := true
	if in.IsAvailable != nil {
		available = *in.IsAvailable
	}
	now := s.now()
	item := &models.MenuItem{
		ID:          id,
		Name:        in.Name,
		Description: in.Description,
		Price:       in.Price,
		Image:       in.Image,
		CategoryID:  in.CategoryID,
		Ingredients: in.Ingredients,
		Recipe:      in.Recipe,
		IsAvailable: available,
		Allergens:   in.Allergens,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if id != "" {
		existing, err := s.repo.GetMenuItem(ctx, id)
		switch {
		case err == nil:
			item.CreatedAt = existing.CreatedAt
		case !errors.Is(err, repository.ErrNotFound):
			return nil, err
		}
	}
	if err := s.repo.SaveMenuItem(ctx, item); err != nil {
		return nil, fmt.Errorf("save menu item: %w", err)
	}
	log.WithFields(log.Fields{
		"menu_item_id": item.ID,
		"price":        item.Price.String(),
		"available":    item.IsAvailable,
	}).Info("menu item saved")
	return item, nil
}

func (s *CatalogService) DeleteMenuItem(ctx context.Context, id string) error {
	if err := validateID("id", id); err != nil {
		return err
	}
	removed, err := s.repo.DeleteMenuItem(ctx, id)
	if err != nil {
		return fmt.Errorf("delete menu item %s: %w", id, err)
	}
	if removed {
		log.WithField("menu_item_id", id).Info("menu item deleted")
	}
	return nil
}
