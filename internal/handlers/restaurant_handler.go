package handlers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/arvellino/dinespot/internal/helpers"
	"github.com/arvellino/dinespot/internal/models"
)

// parseTableTypes reads the tables[i].seat_count / tables[i].quantity form
// field pairs, stopping at the first missing index.
func parseTableTypes(c *gin.Context) ([]models.TableType, error) {
	var tables []models.TableType
	for i := 0; ; i++ {
		seatStr := c.PostForm(fmt.Sprintf("tables[%d].seat_count", i))
		qtyStr := c.PostForm(fmt.Sprintf("tables[%d].quantity", i))
		if seatStr == "" && qtyStr == "" {
			break
		}

		seats, err := helpers.StringToInt(seatStr)
		if err != nil || seats <= 0 {
			return nil, fmt.Errorf("invalid seat count for table type %d", i)
		}
		qty, err := helpers.StringToInt(qtyStr)
		if err != nil || qty <= 0 {
			return nil, fmt.Errorf("invalid quantity for table type %d", i)
		}

		tables = append(tables, models.TableType{Position: i, SeatCount: seats, Quantity: qty})
	}
	return tables, nil
}

// restaurantForUpdate loads the restaurant and enforces that the caller is
// its manager, or an admin.
func restaurantForUpdate(c *gin.Context, gormDB *gorm.DB) (*models.Restaurant, bool) {
	restaurantID := c.Param("id")

	userID, exists := c.Get("user_id")
	if !exists {
		helpers.RespondWithError(c, http.StatusUnauthorized, "User ID not found in token.")
		return nil, false
	}
	role, _ := c.Get("role")

	var restaurant models.Restaurant
	if err := gormDB.Preload("Tables", func(db *gorm.DB) *gorm.DB {
		return db.Order("position ASC")
	}).Where("id = ?", restaurantID).First(&restaurant).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			helpers.RespondWithError(c, http.StatusNotFound, "Restaurant not found.")
			return nil, false
		}
		helpers.RespondWithError(c, http.StatusInternalServerError, "Error finding restaurant.")
		return nil, false
	}

	if role != models.RoleAdmin && restaurant.ManagerID != userID {
		helpers.RespondWithError(c, http.StatusForbidden, "You don't have permission to modify this restaurant.")
		return nil, false
	}

	return &restaurant, true
}

func CreateRestaurant(c *gin.Context) {
	name := c.PostForm("name")
	description := c.PostForm("description")
	location := c.PostForm("location")
	phone := c.PostForm("phone")

	if name == "" || description == "" || location == "" {
		helpers.RespondWithError(c, http.StatusBadRequest, "Missing required fields.")
		return
	}

	tables, err := parseTableTypes(c)
	if err != nil {
		helpers.RespondWithError(c, http.StatusBadRequest, err.Error())
		return
	}

	userID, exists := c.Get("user_id")
	if !exists {
		helpers.RespondWithError(c, http.StatusUnauthorized, "User ID not found in token.")
		return
	}
	userUUID, ok := userID.(uuid.UUID)
	if !ok {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Invalid user ID type.")
		return
	}

	db, exists := c.Get("db")
	if !exists {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Database connection not found.")
		return
	}
	gormDB := db.(*gorm.DB)

	restaurant := models.Restaurant{
		Name:        name,
		Description: description,
		Location:    location,
		Phone:       phone,
		IsEnabled:   true,
		ManagerID:   userUUID,
		Tables:      tables,
	}

	imageFile, err := c.FormFile("image")
	if err == nil {
		imagePath, err := helpers.UploadFile(c, imageFile, "restaurant_images")
		if err != nil {
			helpers.RespondWithError(c, http.StatusBadRequest, err.Error())
			return
		}
		restaurant.ImagePath = imagePath
	}

	image360File, err := c.FormFile("image_360")
	if err == nil {
		image360Path, err := helpers.UploadFile(c, image360File, "restaurant_images_360")
		if err != nil {
			helpers.RespondWithError(c, http.StatusBadRequest, err.Error())
			return
		}
		restaurant.Image360Path = image360Path
	}

	if err := gormDB.Create(&restaurant).Error; err != nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Failed to create restaurant.")
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message":       "Restaurant created successfully.",
		"restaurant_id": restaurant.ID,
	})
}

func GetRestaurant(c *gin.Context) {
	restaurantID := c.Param("id")

	db, exists := c.Get("db")
	if !exists {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Database connection not found.")
		return
	}
	gormDB := db.(*gorm.DB)

	var restaurant models.Restaurant
	if err := gormDB.Preload("Tables", func(db *gorm.DB) *gorm.DB {
		return db.Order("position ASC")
	}).Where("id = ?", restaurantID).First(&restaurant).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			helpers.RespondWithError(c, http.StatusNotFound, "Restaurant not found.")
			return
		}
		helpers.RespondWithError(c, http.StatusInternalServerError, "Error retrieving restaurant.")
		return
	}

	c.JSON(http.StatusOK, restaurant)
}

func ListRestaurants(c *gin.Context) {
	db, exists := c.Get("db")
	if !exists {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Database connection not found.")
		return
	}
	gormDB := db.(*gorm.DB)

	page := c.DefaultQuery("page", "1")
	limit := c.DefaultQuery("limit", "10")
	location := c.Query("location")

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

	query := gormDB.Model(&models.Restaurant{})
	if location != "" {
		query = query.Where("location = ?", location)
	}

	var totalCount int64
	query.Count(&totalCount)

	var restaurants []models.Restaurant
	offset := (pageNum - 1) * limitNum
	err = query.Preload("Tables", func(db *gorm.DB) *gorm.DB {
		return db.Order("position ASC")
	}).Offset(offset).Limit(limitNum).Order("created_at DESC").Find(&restaurants).Error
	if err != nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Error retrieving restaurants.")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"restaurants": restaurants,
		"total":       totalCount,
		"page":        pageNum,
		"limit":       limitNum,
		"total_pages": (totalCount + int64(limitNum) - 1) / int64(limitNum),
	})
}

func UpdateRestaurant(c *gin.Context) {
	db, exists := c.Get("db")
	if !exists {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Database connection not found.")
		return
	}
	gormDB := db.(*gorm.DB)

	restaurant, ok := restaurantForUpdate(c, gormDB)
	if !ok {
		return
	}

	name := c.PostForm("name")
	description := c.PostForm("description")
	location := c.PostForm("location")
	phone := c.PostForm("phone")

	if name == "" || description == "" || location == "" {
		helpers.RespondWithError(c, http.StatusBadRequest, "Missing required fields.")
		return
	}

	tables, err := parseTableTypes(c)
	if err != nil {
		helpers.RespondWithError(c, http.StatusBadRequest, err.Error())
		return
	}

	renamed := restaurant.Name != name

	restaurant.Name = name
	restaurant.Description = description
	restaurant.Location = location
	restaurant.Phone = phone

	imageFile, err := c.FormFile("image")
	if err == nil {
		imagePath, uploadErr := helpers.UploadFile(c, imageFile, "restaurant_images")
		if uploadErr != nil {
			helpers.RespondWithError(c, http.StatusBadRequest, uploadErr.Error())
			return
		}
		if restaurant.ImagePath != "" {
			if err := helpers.DeleteFile(restaurant.ImagePath); err != nil {
				logrus.WithError(err).Warn("failed to delete old restaurant image")
			}
		}
		restaurant.ImagePath = imagePath
	}

	image360File, err := c.FormFile("image_360")
	if err == nil {
		image360Path, uploadErr := helpers.UploadFile(c, image360File, "restaurant_images_360")
		if uploadErr != nil {
			helpers.RespondWithError(c, http.StatusBadRequest, uploadErr.Error())
			return
		}
		if restaurant.Image360Path != "" {
			if err := helpers.DeleteFile(restaurant.Image360Path); err != nil {
				logrus.WithError(err).Warn("failed to delete old restaurant 360 image")
			}
		}
		restaurant.Image360Path = image360Path
	}

	err = gormDB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(restaurant).Error; err != nil {
			return err
		}

		if len(tables) > 0 {
			if err := tx.Where("restaurant_id = ?", restaurant.ID).Delete(&models.TableType{}).Error; err != nil {
				return err
			}
			for i := range tables {
				tables[i].RestaurantID = restaurant.ID
			}
			if err := tx.Create(&tables).Error; err != nil {
				return err
			}
		}

		// Keep the denormalized name on menu items in sync with renames.
		if renamed {
			if err := tx.Model(&models.FoodItem{}).
				Where("restaurant_id = ?", restaurant.ID).
				Update("restaurant_name", restaurant.Name).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Failed to update restaurant.")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":    "Restaurant updated successfully.",
		"restaurant": restaurant,
	})
}

func ToggleRestaurantStatus(c *gin.Context) {
	db, exists := c.Get("db")
	if !exists {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Database connection not found.")
		return
	}
	gormDB := db.(*gorm.DB)

	restaurant, ok := restaurantForUpdate(c, gormDB)
	if !ok {
		return
	}

	if err := gormDB.Model(restaurant).Update("is_enabled", !restaurant.IsEnabled).Error; err != nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Failed to toggle restaurant status.")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":    "Restaurant status updated.",
		"is_enabled": !restaurant.IsEnabled,
	})
}

func DeleteRestaurant(c *gin.Context) {
	db, exists := c.Get("db")
	if !exists {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Database connection not found.")
		return
	}
	gormDB := db.(*gorm.DB)

	restaurant, ok := restaurantForUpdate(c, gormDB)
	if !ok {
		return
	}

	// Menu and reservations go with the restaurant; orders and payments are
	// kept as history.
	err := gormDB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("restaurant_id = ?", restaurant.ID).Delete(&models.FoodItem{}).Error; err != nil {
			return err
		}
		if err := tx.Where("restaurant_id = ?", restaurant.ID).Delete(&models.ReservationTable{}).Error; err != nil {
			return err
		}
		if err := tx.Where("restaurant_id = ?", restaurant.ID).Delete(&models.Reservation{}).Error; err != nil {
			return err
		}
		if err := tx.Where("restaurant_id = ?", restaurant.ID).Delete(&models.TableType{}).Error; err != nil {
			return err
		}
		return tx.Delete(restaurant).Error
	})
	if err != nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Failed to delete restaurant.")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Restaurant deleted successfully.",
	})
}
