package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"restaurant-ordering-api/service"
)

// AdminListMenuItems includes unavailable items; ?available=true hides them.
func (h *Handler) AdminListMenuItems(c *gin.Context) {
	items, err := h.Catalog.ListMenuItems(c.Request.Context(), service.MenuFilter{
		CategoryID:    c.Query("category"),
		OnlyAvailable: queryBool(c, "available"),
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"count": len(items), "items": items})
}

func (h *Handler) AddCategory(c *gin.Context) {
	var req service.CategoryInput
	if !bindJSON(c, &req) {
		return
	}
	category, err := h.Catalog.SaveCategory(c.Request.Context(), "", req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "Category added", "category": category})
}

// UpdateCategory replaces the category, creating it if the id is new.
func (h *Handler) UpdateCategory(c *gin.Context) {
	var req service.CategoryInput
	if !bindJSON(c, &req) {
		return
	}
	category, err := h.Catalog.SaveCategory(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Category updated", "category": category})
}

// DeleteCategory keeps the category's items; they show up as uncategorized.
func (h *Handler) DeleteCategory(c *gin.Context) {
	if err := h.Catalog.DeleteCategory(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Category deleted"})
}

func (h *Handler) AddMenuItem(c *gin.Context) {
	var req service.MenuItemInput
	if !bindJSON(c, &req) {
		return
	}
	item, err := h.Catalog.SaveMenuItem(c.Request.Context(), "", req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "Menu item added", "item": item})
}

// UpdateMenuItem replaces the item. Orders already placed keep the old name
// and price.
func (h *Handler) UpdateMenuItem(c *gin.Context) {
	var req service.MenuItemInput
	if !bindJSON(c, &req) {
		return
	}
	item, err := h.Catalog.SaveMenuItem(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Menu item updated", "item": item})
}

func (h *Handler) DeleteMenuItem(c *gin.Context) {
	if err := h.Catalog.DeleteMenuItem(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Menu item deleted"})
}
