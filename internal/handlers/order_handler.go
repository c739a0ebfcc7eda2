package handlers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/arvellino/dinespot/internal/helpers"
	"github.com/arvellino/dinespot/internal/models"
)

type OrderItemRequest struct {
	Name        string `json:"name" binding:"required"`
	Quantity    int    `json:"quantity" binding:"required,min=1"`
	Price       int    `json:"price" binding:"required,min=0"`
	PortionSize string `json:"portion_size"`
}

type OrderRequest struct {
	RestaurantID  uuid.UUID          `json:"restaurant_id" binding:"required"`
	CustomerName  string             `json:"customer_name" binding:"required"`
	CustomerEmail string             `json:"customer_email" binding:"required,email"`
	OrderType     string             `json:"order_type" binding:"required"`
	PaymentMethod string             `json:"payment_method" binding:"required"`
	OrderStatus   string             `json:"order_status" binding:"required"`
	Total         *int               `json:"total"`
	Items         []OrderItemRequest `json:"items" binding:"required,min=1,dive"`
	ReservationID string             `json:"reservation_id"`
}

// computeOrderTotal is the authoritative total; the client-submitted figure
// is only accepted when it agrees.
func computeOrderTotal(items []OrderItemRequest) int {
	total := 0
	for _, item := range items {
		total += item.Price * item.Quantity
	}
	return total
}

func CreateOrder(c *gin.Context) {
	var req OrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		helpers.RespondWithError(c, http.StatusBadRequest, "Invalid input. Please check your fields.")
		return
	}

	if req.OrderType != models.OrderTypeDineIn && req.OrderType != models.OrderTypeTakeaway {
		helpers.RespondWithError(c, http.StatusBadRequest, "Order type must be Dine-in or Takeaway.")
		return
	}

	total := computeOrderTotal(req.Items)
	if req.Total != nil && *req.Total != total {
		helpers.RespondWithError(c, http.StatusBadRequest,
			fmt.Sprintf("Submitted total %d does not match the item total %d.", *req.Total, total))
		return
	}

	db, exists := c.Get("db")
	if !exists {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Database connection not found.")
		return
	}
	gormDB := db.(*gorm.DB)

	var restaurant models.Restaurant
	if err := gormDB.Where("id = ?", req.RestaurantID).First(&restaurant).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			helpers.RespondWithError(c, http.StatusNotFound, "Restaurant not found.")
			return
		}
		helpers.RespondWithError(c, http.StatusInternalServerError, "Error retrieving restaurant.")
		return
	}

	order := models.Order{
		OrderID:               fmt.Sprintf("ORD-%d", time.Now().UnixMilli()),
		RestaurantID:          restaurant.ID,
		CustomerName:          req.CustomerName,
		CustomerEmail:         req.CustomerEmail,
		OrderType:             req.OrderType,
		PaymentMethod:         req.PaymentMethod,
		PaymentStatus:         models.PaymentPending,
		OrderStatus:           req.OrderStatus,
		Total:                 total,
		LinkedReservationID:   models.ReservationNone,
		ReservationLinkStatus: models.ReservationUnavailable,
	}

	if req.ReservationID != "" {
		var reservation models.Reservation
		if err := gormDB.Where("reservation_id = ?", req.ReservationID).First(&reservation).Error; err != nil {
			helpers.RespondWithError(c, http.StatusNotFound, "Linked reservation not found.")
			return
		}
		order.LinkedReservationID = reservation.ReservationID
		order.ReservationLinkStatus = "Linked"
	}

	for _, item := range req.Items {
		portion := item.PortionSize
		if portion == "" {
			portion = "Medium"
		}

		// Best-effort image enrichment from the menu; no match means no image.
		imagePath := ""
		var food models.FoodItem
		if err := gormDB.Where("name = ? AND restaurant_id = ?", item.Name, restaurant.ID).First(&food).Error; err == nil {
			imagePath = food.ImagePath
		}

		order.Items = append(order.Items, models.OrderItem{
			Name:        item.Name,
			Quantity:    item.Quantity,
			Price:       item.Price,
			PortionSize: portion,
			ImagePath:   imagePath,
		})
	}

	if err := gormDB.Create(&order).Error; err != nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Failed to create order.")
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message":  "Order placed successfully.",
		"order_id": order.OrderID,
		"order":    order,
	})
}

func ListOrders(c *gin.Context) {
	db, exists := c.Get("db")
	if !exists {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Database connection not found.")
		return
	}
	gormDB := db.(*gorm.DB)

	page := c.DefaultQuery("page", "1")
	limit := c.DefaultQuery("limit", "10")
	restaurantID := c.Query("restaurantId")

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

	query := gormDB.Model(&models.Order{})
	if restaurantID != "" {
		query = query.Where("restaurant_id = ?", restaurantID)
	}

	var totalCount int64
	query.Count(&totalCount)

	var orders []models.Order
	offset := (pageNum - 1) * limitNum
	err = query.Preload("Items").Offset(offset).Limit(limitNum).Order("created_at DESC").Find(&orders).Error
	if err != nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Error retrieving orders.")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"orders":      orders,
		"total":       totalCount,
		"page":        pageNum,
		"limit":       limitNum,
		"total_pages": (totalCount + int64(limitNum) - 1) / int64(limitNum),
	})
}

func GetOrder(c *gin.Context) {
	orderID := c.Param("id")

	db, exists := c.Get("db")
	if !exists {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Database connection not found.")
		return
	}
	gormDB := db.(*gorm.DB)

	var order models.Order
	if err := gormDB.Preload("Items").Where("id = ?", orderID).First(&order).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			helpers.RespondWithError(c, http.StatusNotFound, "Order not found.")
			return
		}
		helpers.RespondWithError(c, http.StatusInternalServerError, "Error retrieving order.")
		return
	}

	c.JSON(http.StatusOK, order)
}

// MyOrders lists a customer's orders with the restaurant name and the linked
// reservation joined in. Missing joins degrade instead of failing the whole
// request.
func MyOrders(c *gin.Context) {
	email := c.Param("email")

	db, exists := c.Get("db")
	if !exists {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Database connection not found.")
		return
	}
	gormDB := db.(*gorm.DB)

	var orders []models.Order
	if err := gormDB.Preload("Items").
		Where("LOWER(customer_email) = LOWER(?)", email).
		Order("created_at DESC").Find(&orders).Error; err != nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Error retrieving orders.")
		return
	}

	enriched := make([]gin.H, 0, len(orders))
	for _, order := range orders {
		restaurantName := "Unknown Restaurant"
		var restaurant models.Restaurant
		if err := gormDB.Where("id = ?", order.RestaurantID).First(&restaurant).Error; err == nil {
			restaurantName = restaurant.Name
		}

		var reservation *models.Reservation
		if order.LinkedReservationID != models.ReservationNone {
			var linked models.Reservation
			if err := gormDB.Where("reservation_id = ?", order.LinkedReservationID).First(&linked).Error; err == nil {
				reservation = &linked
			}
		}

		enriched = append(enriched, gin.H{
			"order":           order,
			"restaurant_name": restaurantName,
			"reservation":     reservation,
		})
	}

	c.JSON(http.StatusOK, gin.H{"orders": enriched})
}

type UpdateOrderRequest struct {
	OrderStatus   string `json:"order_status"`
	PaymentStatus string `json:"payment_status"`
}

func UpdateOrder(c *gin.Context) {
	orderID := c.Param("id")

	var req UpdateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		helpers.RespondWithError(c, http.StatusBadRequest, "Invalid input. Please check your fields.")
		return
	}

	db, exists := c.Get("db")
	if !exists {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Database connection not found.")
		return
	}
	gormDB := db.(*gorm.DB)

	var order models.Order
	if err := gormDB.Where("id = ?", orderID).First(&order).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			helpers.RespondWithError(c, http.StatusNotFound, "Order not found.")
			return
		}
		helpers.RespondWithError(c, http.StatusInternalServerError, "Error finding order.")
		return
	}

	if req.OrderStatus != "" {
		order.OrderStatus = req.OrderStatus
	}
	if req.PaymentStatus != "" {
		order.PaymentStatus = req.PaymentStatus
	}

	if err := gormDB.Save(&order).Error; err != nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Failed to update order.")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Order updated successfully.",
		"order":   order,
	})
}

func DeleteOrder(c *gin.Context) {
	orderID := c.Param("id")

	db, exists := c.Get("db")
	if !exists {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Database connection not found.")
		return
	}
	gormDB := db.(*gorm.DB)

	result := gormDB.Where("id = ?", orderID).Delete(&models.Order{})
	if result.Error != nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Failed to delete order.")
		return
	}

	if result.RowsAffected == 0 {
		helpers.RespondWithError(c, http.StatusNotFound, "Order not found.")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Order deleted successfully.",
	})
}
