package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/arvellino/dinespot/internal/helpers"
	"github.com/arvellino/dinespot/internal/models"
)

type FoodItemRequest struct {
	RestaurantID uuid.UUID `json:"restaurant_id" binding:"required"`
	Name         string    `json:"name" binding:"required"`
	Description  string    `json:"description"`
	Price        *int      `json:"price" binding:"required"`
	Category     string    `json:"category"`
	Availability string    `json:"availability"`
}

// ownedRestaurant verifies the caller manages the restaurant (or is admin).
func ownedRestaurant(c *gin.Context, gormDB *gorm.DB, restaurantID uuid.UUID) (*models.Restaurant, bool) {
	userID, exists := c.Get("user_id")
	if !exists {
		helpers.RespondWithError(c, http.StatusUnauthorized, "User ID not found in token.")
		return nil, false
	}
	role, _ := c.Get("role")

	var restaurant models.Restaurant
	if err := gormDB.Where("id = ?", restaurantID).First(&restaurant).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			helpers.RespondWithError(c, http.StatusNotFound, "Restaurant not found.")
			return nil, false
		}
		helpers.RespondWithError(c, http.StatusInternalServerError, "Error verifying restaurant ownership.")
		return nil, false
	}

	if role != models.RoleAdmin && restaurant.ManagerID != userID {
		helpers.RespondWithError(c, http.StatusForbidden, "You don't have permission to modify this restaurant's menu.")
		return nil, false
	}
	return &restaurant, true
}

func CreateFoodItem(c *gin.Context) {
	var req FoodItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		helpers.RespondWithError(c, http.StatusBadRequest, "Invalid input. Please check your fields.")
		return
	}

	if *req.Price < 0 {
		helpers.RespondWithError(c, http.StatusBadRequest, "Price must not be negative.")
		return
	}

	db, exists := c.Get("db")
	if !exists {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Database connection not found.")
		return
	}
	gormDB := db.(*gorm.DB)

	restaurant, ok := ownedRestaurant(c, gormDB, req.RestaurantID)
	if !ok {
		return
	}

	availability := req.Availability
	if availability == "" {
		availability = models.FoodAvailable
	}
	if availability != models.FoodAvailable && availability != models.FoodUnavailable {
		helpers.RespondWithError(c, http.StatusBadRequest, "Availability must be Available or Unavailable.")
		return
	}

	item := models.FoodItem{
		RestaurantID:   restaurant.ID,
		RestaurantName: restaurant.Name,
		Name:           req.Name,
		Description:    req.Description,
		Price:          *req.Price,
		Category:       req.Category,
		Availability:   availability,
	}

	if err := gormDB.Create(&item).Error; err != nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Failed to create food item.")
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message":      "Food item created successfully.",
		"food_item_id": item.ID,
	})
}

func GetFoodItem(c *gin.Context) {
	itemID := c.Param("id")

	db, exists := c.Get("db")
	if !exists {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Database connection not found.")
		return
	}
	gormDB := db.(*gorm.DB)

	var item models.FoodItem
	if err := gormDB.Where("id = ?", itemID).First(&item).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			helpers.RespondWithError(c, http.StatusNotFound, "Food item not found.")
			return
		}
		helpers.RespondWithError(c, http.StatusInternalServerError, "Error retrieving food item.")
		return
	}

	c.JSON(http.StatusOK, item)
}

func ListFoodItems(c *gin.Context) {
	db, exists := c.Get("db")
	if !exists {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Database connection not found.")
		return
	}
	gormDB := db.(*gorm.DB)

	page := c.DefaultQuery("page", "1")
	limit := c.DefaultQuery("limit", "10")
	category := c.Query("category")

	pageNum, err := helpers.StringToInt(page)
	if err != nil || pageNum < 1 {
		helpers.RespondWithError(c, http.StatusBadRequest, "Invalid page number.")
		return
	}

	limitNum, err := helpers.StringToInt(limit)
	if err != nil || limitNum < 1 {
		helpers.RespondWithError(c, http.StatusBadRequest, "Invalid limit.")
		return
	}

	query := gormDB.Model(&models.FoodItem{})
	if category != "" {
		query = query.Where("category = ?", category)
	}

	var totalCount int64
	query.Count(&totalCount)

	var items []models.FoodItem
	offset := (pageNum - 1) * limitNum
	err = query.Offset(offset).Limit(limitNum).Order("created_at DESC").Find(&items).Error
	if err != nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Error retrieving food items.")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"food_items":  items,
		"total":       totalCount,
		"page":        pageNum,
		"limit":       limitNum,
		"total_pages": (totalCount + int64(limitNum) - 1) / int64(limitNum),
	})
}

// GetRestaurantFoods returns the restaurant's menu. An empty menu is a valid
// response, not an error; only an unknown restaurant is a 404.
func GetRestaurantFoods(c *gin.Context) {
	restaurantID := c.Param("id")

	db, exists := c.Get("db")
	if !exists {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Database connection not found.")
		return
	}
	gormDB := db.(*gorm.DB)

	var restaurant models.Restaurant
	if err := gormDB.Where("id = ?", restaurantID).First(&restaurant).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			helpers.RespondWithError(c, http.StatusNotFound, "Restaurant not found.")
			return
		}
		helpers.RespondWithError(c, http.StatusInternalServerError, "Error retrieving restaurant.")
		return
	}

	foods := []models.FoodItem{}
	if err := gormDB.Where("restaurant_id = ?", restaurant.ID).Order("created_at DESC").Find(&foods).Error; err != nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Error retrieving menu.")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"restaurant_name": restaurant.Name,
		"foods":           foods,
	})
}

func UpdateFoodItem(c *gin.Context) {
	itemID := c.Param("id")

	var req FoodItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		helpers.RespondWithError(c, http.StatusBadRequest, "Invalid input. Please check your fields.")
		return
	}

	if *req.Price < 0 {
		helpers.RespondWithError(c, http.StatusBadRequest, "Price must not be negative.")
		return
	}

	db, exists := c.Get("db")
	if !exists {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Database connection not found.")
		return
	}
	gormDB := db.(*gorm.DB)

	var item models.FoodItem
	if err := gormDB.Where("id = ?", itemID).First(&item).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			helpers.RespondWithError(c, http.StatusNotFound, "Food item not found.")
			return
		}
		helpers.RespondWithError(c, http.StatusInternalServerError, "Error finding food item.")
		return
	}

	if _, ok := ownedRestaurant(c, gormDB, item.RestaurantID); !ok {
		return
	}

	item.Name = req.Name
	item.Description = req.Description
	item.Price = *req.Price
	item.Category = req.Category
	if req.Availability != "" {
		if req.Availability != models.FoodAvailable && req.Availability != models.FoodUnavailable {
			helpers.RespondWithError(c, http.StatusBadRequest, "Availability must be Available or Unavailable.")
			return
		}
		item.Availability = req.Availability
	}

	if err := gormDB.Save(&item).Error; err != nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Failed to update food item.")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":   "Food item updated successfully.",
		"food_item": item,
	})
}

func DeleteFoodItem(c *gin.Context) {
	itemID := c.Param("id")

	db, exists := c.Get("db")
	if !exists {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Database connection not found.")
		return
	}
	gormDB := db.(*gorm.DB)

	var item models.FoodItem
	if err := gormDB.Where("id = ?", itemID).First(&item).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			helpers.RespondWithError(c, http.StatusNotFound, "Food item not found.")
			return
		}
		helpers.RespondWithError(c, http.StatusInternalServerError, "Error finding food item.")
		return
	}

	if _, ok := ownedRestaurant(c, gormDB, item.RestaurantID); !ok {
		return
	}

	if err := gormDB.Delete(&item).Error; err != nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Failed to delete food item.")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Food item deleted successfully.",
	})
}
