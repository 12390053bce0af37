package repository

import (
	"context"

	"restaurant-ordering-api/models"
)

type MenuFilter struct {
	CategoryID    string
	OnlyAvailable bool
}

func (r *Repository) ListCategories(ctx context.Context) ([]models.Category, error) {
	var categories []models.Category
	err := r.conn(ctx).Order("name asc").Find(&categories).Error
	return categories, err
}

func (r *Repository) GetCategory(ctx context.Context, id string) (*models.Category, error) {
	var category models.Category
	if err := r.conn(ctx).First(&category, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return &category, nil
}

// SaveCategory inserts or fully replaces the category with the given id.
func (r *Repository) SaveCategory(ctx context.Context, category *models.Category) error {
	return r.conn(ctx).Save(category).Error
}

// DeleteCategory reports whether a row was removed. Menu items keep their
// category id.
func (r *Repository) DeleteCategory(ctx context.Context, id string) (bool, error) {
	res := r.conn(ctx).Delete(&models.Category{}, "id = ?", id)
	return res.RowsAffected > 0, res.Error
}

func (r *Repository) ListMenuItems(ctx context.Context, filter MenuFilter) ([]models.MenuItem, error) {
	query := r.conn(ctx).Order("name asc")
	if filter.CategoryID != "" {
		query = query.Where("category_id = ?", filter.CategoryID)
	}
	if filter.OnlyAvailable {
		query = query.Where("is_available = ?", true)
	}
	var items []models.MenuItem
	err := query.Find(&items).Error
	return items, err
}

func (r *Repository) GetMenuItem(ctx context.Context, id string) (*models.MenuItem, error) {
	var item models.MenuItem
	if err := r.conn(ctx).First(&item, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return &item, nil
}

// GetMenuItems loads the given ids; missing ids are simply absent from the map.
func (r *Repository) GetMenuItems(ctx context.Context, ids []string) (map[string]models.MenuItem, error) {
	var items []models.MenuItem
	if len(ids) > 0 {
		if err := r.conn(ctx).Where("id IN ?", ids).Find(&items).Error; err != nil {
			return nil, err
		}
	}
	byID := make(map[string]models.MenuItem, len(items))
	for _, it := range items {
		byID[it.ID] = it
	}
	return byID, nil
}

func (r *Repository) SaveMenuItem(ctx context.Context, item *models.MenuItem) error {
	return r.conn(ctx).Save(item).Error
}

func (r *Repository) DeleteMenuItem(ctx context.Context, id string) (bool, error) {
	res := r.conn(ctx).Delete(&models.MenuItem{}, "id = ?", id)
	return res.RowsAffected > 0, res.Error
}
