package handlers

import (
	"fmt"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"justeat/guard"
	"justeat/services"
)

func isValidImageExtension(file *multipart.FileHeader) bool {
	switch strings.ToLower(filepath.Ext(file.Filename)) {
	case ".jpg", ".jpeg", ".png":
		return true
	}
	return false
}

func makeUniqueFileName(file *multipart.FileHeader) string {
	return uuid.NewString() + strings.ToLower(filepath.Ext(file.Filename))
}

// Dashboard lists the caller's restaurants.
func (h *Handler) Dashboard(c *gin.Context) {
	restaurants, err := h.Restaurants.ByOwner(c.Request.Context(), identity(c).UserID)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"restaurants": restaurants})
}

func (h *Handler) CreateRestaurant(c *gin.Context) {
	var in services.RestaurantInput
	if err := c.ShouldBindJSON(&in); err != nil {
		h.bindError(c, err)
		return
	}

	restaurant, err := h.Restaurants.Create(c.Request.Context(), identity(c).UserID, in)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "Restaurant created successfully", "restaurant": restaurant})
}

// OwnerRestaurant shows one of the caller's restaurants with its full menu.
func (h *Handler) OwnerRestaurant(c *gin.Context) {
	ctx := c.Request.Context()
	restaurant := guard.Restaurant(c)

	items, err := h.MenuItems.Menu(ctx, restaurant.ID, true)
	if err != nil {
		h.respondError(c, err)
		return
	}
	popular, err := h.MenuItems.PopularItemIDs(ctx, restaurant.ID, services.PopularThreshold)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"restaurant":       restaurant,
		"menu_items":       items,
		"popular_item_ids": popular,
	})
}

func (h *Handler) UpdateRestaurant(c *gin.Context) {
	var in services.RestaurantInput
	if err := c.ShouldBindJSON(&in); err != nil {
		h.bindError(c, err)
		return
	}

	restaurant, err := h.Restaurants.Update(c.Request.Context(), guard.Restaurant(c), in)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Restaurant details updated successfully", "restaurant": restaurant})
}

func (h *Handler) SetCuisines(c *gin.Context) {
	var in struct {
		CuisineIDs []uint `json:"cuisine_ids"`
	}
	if err := c.ShouldBindJSON(&in); err != nil {
		h.bindError(c, err)
		return
	}

	restaurant := guard.Restaurant(c)
	if err := h.Restaurants.SetCuisines(c.Request.Context(), restaurant, in.CuisineIDs); err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Cuisines updated successfully", "restaurant": restaurant})
}

// flagParam reads a 0/1 path parameter.
func flagParam(c *gin.Context, name string) (bool, bool) {
	switch c.Param(name) {
	case "1":
		return true, true
	case "0":
		return false, true
	}
	return false, false
}

func (h *Handler) SetRestaurantStatus(c *gin.Context) {
	active, ok := flagParam(c, "status")
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Status must be 0 or 1", "redirect": guard.OwnerDashboardPath})
		return
	}

	restaurant := guard.Restaurant(c)
	if err := h.Restaurants.SetActive(c.Request.Context(), restaurant, active); err != nil {
		h.respondError(c, err)
		return
	}
	status := "deactivated"
	if active {
		status = "activated"
	}
	c.JSON(http.StatusOK, gin.H{"message": fmt.Sprintf("Restaurant %s successfully", status), "restaurant": restaurant})
}

func (h *Handler) DeleteRestaurant(c *gin.Context) {
	if err := h.Restaurants.Delete(c.Request.Context(), guard.Restaurant(c)); err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Restaurant deleted successfully", "redirect": guard.OwnerDashboardPath})
}

func (h *Handler) CreateMenuItem(c *gin.Context) {
	var in services.MenuItemInput
	if err := c.ShouldBindJSON(&in); err != nil {
		h.bindError(c, err)
		return
	}

	item, err := h.MenuItems.Create(c.Request.Context(), guard.Restaurant(c), in)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "Item added successfully", "item": item})
}

func (h *Handler) UpdateMenuItem(c *gin.Context) {
	var in services.MenuItemInput
	if err := c.ShouldBindJSON(&in); err != nil {
		h.bindError(c, err)
		return
	}

	item, err := h.MenuItems.Update(c.Request.Context(), guard.MenuItem(c), in)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Item updated successfully", "item": item})
}

func (h *Handler) DeleteMenuItem(c *gin.Context) {
	if err := h.MenuItems.Delete(c.Request.Context(), guard.MenuItem(c)); err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Item deleted successfully"})
}

func (h *Handler) SetItemSpecial(c *gin.Context) {
	special, ok := flagParam(c, "flag")
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Flag must be 0 or 1", "redirect": guard.OwnerDashboardPath})
		return
	}

	item := guard.MenuItem(c)
	if err := h.MenuItems.SetSpecial(c.Request.Context(), item, special); err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Item updated successfully", "item": item})
}

func (h *Handler) SetItemActive(c *gin.Context) {
	active, ok := flagParam(c, "flag")
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Flag must be 0 or 1", "redirect": guard.OwnerDashboardPath})
		return
	}

	item := guard.MenuItem(c)
	if err := h.MenuItems.SetActive(c.Request.Context(), item, active); err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Item updated successfully", "item": item})
}

// UploadImage stores a jpg or png under the uploads directory and returns
// the public path to reference from a restaurant or menu item.
func (h *Handler) UploadImage(c *gin.Context) {
	file, err := c.FormFile("image")
	if err != nil {
		h.bindError(c, err)
		return
	}
	if !isValidImageExtension(file) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Only jpg, jpeg and png images are allowed", "redirect": guard.OwnerDashboardPath})
		return
	}

	if err := os.MkdirAll(h.UploadsDir, 0o755); err != nil {
		h.respondError(c, err)
		return
	}
	path := filepath.Join(h.UploadsDir, makeUniqueFileName(file))
	if err := c.SaveUploadedFile(file, path); err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"message": "Image uploaded",
		"image":   "/uploads/" + filepath.Base(path),
	})
}
