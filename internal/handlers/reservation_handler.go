package handlers

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/skip2/go-qrcode"
	"gorm.io/gorm"

	"github.com/arvellino/dinespot/internal/booking"
	"github.com/arvellino/dinespot/internal/helpers"
	"github.com/arvellino/dinespot/internal/models"
)

type ReservationRequest struct {
	RestaurantID  uuid.UUID `json:"restaurant_id" binding:"required"`
	TableNumber   string    `json:"table_number" binding:"required"`
	CustomerName  string    `json:"customer_name" binding:"required"`
	CustomerEmail string    `json:"customer_email" binding:"required,email"`
	PartySize     int       `json:"party_size" binding:"required,min=1"`
	Date          string    `json:"date" binding:"required"`
	TimeSlot      string    `json:"time_slot" binding:"required"`
}

// GetAvailableTables reports which table identifiers are free for one
// restaurant, date and time slot.
func GetAvailableTables(c *gin.Context) {
	restaurantID := c.Query("restaurantId")
	date := c.Query("date")
	timeSlot := c.Query("time")

	if restaurantID == "" || date == "" || timeSlot == "" {
		helpers.RespondWithError(c, http.StatusBadRequest, "restaurantId, date and time are required.")
		return
	}

	if _, err := booking.SlotStartHour(timeSlot); err != nil {
		helpers.RespondWithError(c, http.StatusBadRequest, "Unknown time slot.")
		return
	}

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

	var reservations []models.Reservation
	if err := gormDB.Where("restaurant_id = ? AND date = ? AND time_slot = ?",
		restaurant.ID, date, timeSlot).Find(&reservations).Error; err != nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Error retrieving reservations.")
		return
	}

	availability := booking.ComputeAvailability(restaurant.Tables, reservations)

	c.JSON(http.StatusOK, gin.H{
		"available": availability.Available,
		"reserved":  availability.Reserved,
		"tables":    restaurant.Tables,
	})
}

func CreateReservation(c *gin.Context) {
	var req ReservationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		helpers.RespondWithError(c, http.StatusBadRequest, "Invalid input. Please check your fields.")
		return
	}

	if err := booking.ValidateSlotTime(req.Date, req.TimeSlot, time.Now()); err != nil {
		switch {
		case errors.Is(err, booking.ErrUnknownSlot):
			helpers.RespondWithError(c, http.StatusBadRequest, "Unknown time slot.")
		case errors.Is(err, booking.ErrInvalidDate):
			helpers.RespondWithError(c, http.StatusBadRequest, "Invalid date, expected YYYY-MM-DD.")
		default:
			helpers.RespondWithError(c, http.StatusBadRequest, "This time slot has already passed.")
		}
		return
	}

	db, exists := c.Get("db")
	if !exists {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Database connection not found.")
		return
	}
	gormDB := db.(*gorm.DB)

	var restaurant models.Restaurant
	if err := gormDB.Preload("Tables", func(db *gorm.DB) *gorm.DB {
		return db.Order("position ASC")
	}).Where("id = ?", req.RestaurantID).First(&restaurant).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			helpers.RespondWithError(c, http.StatusNotFound, "Restaurant not found.")
			return
		}
		helpers.RespondWithError(c, http.StatusInternalServerError, "Error retrieving restaurant.")
		return
	}

	if !restaurant.IsEnabled {
		helpers.RespondWithError(c, http.StatusForbidden, "This restaurant is not accepting reservations.")
		return
	}

	identifiers := booking.SplitTableNumbers(req.TableNumber)
	if err := booking.CheckCapacity(restaurant.Tables, identifiers, req.PartySize); err != nil {
		switch {
		case errors.Is(err, booking.ErrInsufficientCapacity):
			helpers.RespondWithError(c, http.StatusBadRequest, "Selected tables cannot seat the whole party.")
		case errors.Is(err, booking.ErrUnknownTable):
			helpers.RespondWithError(c, http.StatusBadRequest, "Unknown table identifier.")
		default:
			helpers.RespondWithError(c, http.StatusBadRequest, "No tables selected.")
		}
		return
	}

	var existing []models.Reservation
	if err := gormDB.Where("restaurant_id = ? AND date = ? AND time_slot = ?",
		restaurant.ID, req.Date, req.TimeSlot).Find(&existing).Error; err != nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Error checking availability.")
		return
	}

	availability := booking.ComputeAvailability(restaurant.Tables, existing)
	if err := availability.CheckRequested(identifiers); err != nil {
		helpers.RespondWithError(c, http.StatusConflict, "One or more of the selected tables is already reserved.")
		return
	}

	reservation := models.Reservation{
		ReservationID: fmt.Sprintf("RES-%d", time.Now().UnixMilli()),
		RestaurantID:  restaurant.ID,
		ShopName:      restaurant.Name,
		TableNumber:   strings.Join(identifiers, ","),
		CustomerName:  req.CustomerName,
		CustomerEmail: req.CustomerEmail,
		PartySize:     req.PartySize,
		Date:          req.Date,
		TimeSlot:      req.TimeSlot,
	}
	for _, id := range identifiers {
		reservation.Tables = append(reservation.Tables, models.ReservationTable{
			RestaurantID: restaurant.ID,
			TableNumber:  id,
			Date:         req.Date,
			TimeSlot:     req.TimeSlot,
		})
	}

	// The availability check above is advisory; the unique index on the
	// reservation_tables tuple decides races. A duplicated key here means
	// someone else claimed a table between the check and this insert.
	if err := gormDB.Create(&reservation).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			helpers.RespondWithError(c, http.StatusConflict, "One or more of the selected tables is already reserved.")
			return
		}
		helpers.RespondWithError(c, http.StatusInternalServerError, "Failed to create reservation.")
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message":        "Reservation created successfully.",
		"reservation_id": reservation.ReservationID,
		"id":             reservation.ID,
	})
}

func ListReservations(c *gin.Context) {
	db, exists := c.Get("db")
	if !exists {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Database connection not found.")
		return
	}
	gormDB := db.(*gorm.DB)

	page := c.DefaultQuery("page", "1")
	limit := c.DefaultQuery("limit", "10")
	restaurantID := c.Query("restaurantId")
	date := c.Query("date")

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

	query := gormDB.Model(&models.Reservation{})
	if restaurantID != "" {
		query = query.Where("restaurant_id = ?", restaurantID)
	}
	if date != "" {
		query = query.Where("date = ?", date)
	}

	var totalCount int64
	query.Count(&totalCount)

	var reservations []models.Reservation
	offset := (pageNum - 1) * limitNum
	err = query.Offset(offset).Limit(limitNum).Order("created_at DESC").Find(&reservations).Error
	if err != nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Error retrieving reservations.")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"reservations": reservations,
		"total":        totalCount,
		"page":         pageNum,
		"limit":        limitNum,
		"total_pages":  (totalCount + int64(limitNum) - 1) / int64(limitNum),
	})
}

// reservationForCaller loads the reservation and checks the caller owns it
// (by email), manages its restaurant, or is an admin.
func reservationForCaller(c *gin.Context, gormDB *gorm.DB) (*models.Reservation, bool) {
	reservationID := c.Param("id")

	var reservation models.Reservation
	if err := gormDB.Where("id = ?", reservationID).First(&reservation).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			helpers.RespondWithError(c, http.StatusNotFound, "Reservation not found.")
			return nil, false
		}
		helpers.RespondWithError(c, http.StatusInternalServerError, "Error retrieving reservation.")
		return nil, false
	}

	role, _ := c.Get("role")
	if role == models.RoleAdmin {
		return &reservation, true
	}

	userID, _ := c.Get("user_id")

	if role == models.RoleRestaurantManager {
		var restaurant models.Restaurant
		if err := gormDB.Where("id = ? AND manager_id = ?", reservation.RestaurantID, userID).First(&restaurant).Error; err == nil {
			return &reservation, true
		}
	}

	var user models.User
	if err := gormDB.Where("id = ?", userID).First(&user).Error; err == nil &&
		strings.EqualFold(user.Email, reservation.CustomerEmail) {
		return &reservation, true
	}

	helpers.RespondWithError(c, http.StatusForbidden, "You don't have permission to access this reservation.")
	return nil, false
}

func GetReservation(c *gin.Context) {
	db, exists := c.Get("db")
	if !exists {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Database connection not found.")
		return
	}
	gormDB := db.(*gorm.DB)

	reservation, ok := reservationForCaller(c, gormDB)
	if !ok {
		return
	}

	c.JSON(http.StatusOK, reservation)
}

type UpdateReservationRequest struct {
	CustomerName string `json:"customer_name"`
	PartySize    int    `json:"party_size"`
}

// UpdateReservation changes contact details and party size. Moving a booking
// to another table or slot is a cancel-and-rebook, not an update, so the
// claimed tables never change here.
func UpdateReservation(c *gin.Context) {
	var req UpdateReservationRequest
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

	reservation, ok := reservationForCaller(c, gormDB)
	if !ok {
		return
	}

	if req.PartySize > 0 {
		var restaurant models.Restaurant
		if err := gormDB.Preload("Tables", func(db *gorm.DB) *gorm.DB {
			return db.Order("position ASC")
		}).Where("id = ?", reservation.RestaurantID).First(&restaurant).Error; err != nil {
			helpers.RespondWithError(c, http.StatusInternalServerError, "Error retrieving restaurant.")
			return
		}

		identifiers := booking.SplitTableNumbers(reservation.TableNumber)
		if err := booking.CheckCapacity(restaurant.Tables, identifiers, req.PartySize); err != nil {
			helpers.RespondWithError(c, http.StatusBadRequest, "Booked tables cannot seat the new party size.")
			return
		}
		reservation.PartySize = req.PartySize
	}

	if req.CustomerName != "" {
		reservation.CustomerName = req.CustomerName
	}

	if err := gormDB.Save(reservation).Error; err != nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Failed to update reservation.")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":     "Reservation updated successfully.",
		"reservation": reservation,
	})
}

func DeleteReservation(c *gin.Context) {
	db, exists := c.Get("db")
	if !exists {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Database connection not found.")
		return
	}
	gormDB := db.(*gorm.DB)

	reservation, ok := reservationForCaller(c, gormDB)
	if !ok {
		return
	}

	// Table claims are removed unconditionally so the slot frees up even
	// though the reservation row itself is only soft-deleted.
	err := gormDB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Unscoped().Where("reservation_id = ?", reservation.ID).Delete(&models.ReservationTable{}).Error; err != nil {
			return err
		}
		return tx.Delete(reservation).Error
	})
	if err != nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Failed to delete reservation.")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Reservation cancelled successfully.",
	})
}

func reservationQRData(reservation *models.Reservation) string {
	signature := reservationSignature(reservation, os.Getenv("JWT_SECRET"))
	return fmt.Sprintf("reservation:%s;restaurant:%s;signature:%s",
		reservation.ID.String(),
		reservation.RestaurantID.String(),
		signature,
	)
}

func reservationSignature(reservation *models.Reservation, secretKey string) string {
	data := fmt.Sprintf("%s:%s:%s", reservation.ID.String(), reservation.RestaurantID.String(), reservation.CustomerEmail)
	h := hmac.New(sha256.New, []byte(secretKey))
	h.Write([]byte(data))
	return hex.EncodeToString(h.Sum(nil))
}

func extractReservationIDFromQRData(qrData string) (uuid.UUID, error) {
	parts := strings.Split(qrData, ";")
	if len(parts) != 3 || !strings.HasPrefix(parts[0], "reservation:") || !strings.HasPrefix(parts[2], "signature:") {
		return uuid.Nil, fmt.Errorf("invalid QR data format")
	}
	return uuid.Parse(strings.TrimPrefix(parts[0], "reservation:"))
}

func validateReservationQRSignature(reservation *models.Reservation, qrData, secretKey string) bool {
	parts := strings.Split(qrData, ";")
	if len(parts) != 3 || !strings.HasPrefix(parts[2], "signature:") {
		return false
	}

	signature := strings.TrimPrefix(parts[2], "signature:")
	expectedSignature := reservationSignature(reservation, secretKey)
	return hmac.Equal([]byte(expectedSignature), []byte(signature))
}

func GenerateReservationQR(c *gin.Context) {
	db, exists := c.Get("db")
	if !exists {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Database connection not found.")
		return
	}
	gormDB := db.(*gorm.DB)

	reservation, ok := reservationForCaller(c, gormDB)
	if !ok {
		return
	}

	if reservation.CheckedIn {
		helpers.RespondWithError(c, http.StatusForbidden, "Reservation already checked in.")
		return
	}

	qrImage, err := qrcode.Encode(reservationQRData(reservation), qrcode.Medium, 256)
	if err != nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Failed to generate QR code.")
		return
	}

	c.Data(http.StatusOK, "image/png", qrImage)
}

func ValidateReservationQR(c *gin.Context) {
	userID, exists := c.Get("user_id")
	if !exists {
		helpers.RespondWithError(c, http.StatusUnauthorized, "User not authenticated.")
		return
	}

	db, exists := c.Get("db")
	if !exists {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Database connection not found.")
		return
	}
	gormDB := db.(*gorm.DB)

	var validationRequest struct {
		QRData string `json:"qr_data" binding:"required"`
	}
	if err := c.ShouldBindJSON(&validationRequest); err != nil {
		helpers.RespondWithError(c, http.StatusBadRequest, "Invalid request payload.")
		return
	}

	reservationID, err := extractReservationIDFromQRData(validationRequest.QRData)
	if err != nil {
		helpers.RespondWithError(c, http.StatusBadRequest, "Invalid QR code format.")
		return
	}

	var reservation models.Reservation
	if err := gormDB.Where("id = ?", reservationID).First(&reservation).Error; err != nil {
		helpers.RespondWithError(c, http.StatusNotFound, "Reservation not found.")
		return
	}

	if !validateReservationQRSignature(&reservation, validationRequest.QRData, os.Getenv("JWT_SECRET")) {
		helpers.RespondWithError(c, http.StatusForbidden, "Invalid QR code signature.")
		return
	}

	role, _ := c.Get("role")
	if role != models.RoleAdmin {
		var restaurant models.Restaurant
		if err := gormDB.Where("id = ? AND manager_id = ?", reservation.RestaurantID, userID).First(&restaurant).Error; err != nil {
			helpers.RespondWithError(c, http.StatusForbidden, "You don't have permission to validate this reservation.")
			return
		}
	}

	if reservation.CheckedIn {
		helpers.RespondWithError(c, http.StatusForbidden, "Reservation already checked in.")
		return
	}

	if err := gormDB.Model(&reservation).Update("checked_in", true).Error; err != nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Failed to check in reservation.")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Reservation checked in successfully.",
		"reservation": gin.H{
			"reservation_id": reservation.ReservationID,
			"customer_name":  reservation.CustomerName,
			"table_number":   reservation.TableNumber,
			"time_slot":      reservation.TimeSlot,
		},
	})
}
