package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/arvellino/dinespot/internal/helpers"
	"github.com/arvellino/dinespot/internal/models"
	"github.com/arvellino/dinespot/internal/reporting"
)

// reportStatuses are the payment states that count toward revenue.
var reportStatuses = []string{models.PaymentCompleted, models.PaymentAccepted}

var ErrIllegalTransition = errors.New("illegal payment status transition")

type PaymentRequest struct {
	OrderID uuid.UUID `json:"order_id" binding:"required"`
	Amount  int       `json:"amount" binding:"required,min=1"`
	Method  string    `json:"method" binding:"required"`
}

type PaymentStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// checkTransition allows only Pending -> Completed and Pending -> Failed.
func checkTransition(current, next string) error {
	if current != models.PaymentPending {
		return ErrIllegalTransition
	}
	if next != models.PaymentCompleted && next != models.PaymentFailed {
		return ErrIllegalTransition
	}
	return nil
}

func validMethod(method string) bool {
	return method == models.MethodCard || method == models.MethodPayPal || method == models.MethodCash
}

func CreatePayment(c *gin.Context) {
	var req PaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		helpers.RespondWithError(c, http.StatusBadRequest, "Invalid input. Please check your fields.")
		return
	}

	if !validMethod(req.Method) {
		helpers.RespondWithError(c, http.StatusBadRequest, "Payment method must be Card, PayPal or Cash.")
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

	var order models.Order
	if err := gormDB.Where("id = ?", req.OrderID).First(&order).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			helpers.RespondWithError(c, http.StatusNotFound, "Order not found.")
			return
		}
		helpers.RespondWithError(c, http.StatusInternalServerError, "Error retrieving order.")
		return
	}

	payment := models.Payment{
		Amount: req.Amount,
		Method: req.Method,
		Status: models.PaymentPending,
		// Server-generated: client-side counters are not unique across sessions.
		TransactionID: fmt.Sprintf("TXN-%s", uuid.New().String()),
		UserID:        userUUID,
		OrderID:       order.ID,
	}

	if err := gormDB.Create(&payment).Error; err != nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Failed to record payment.")
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Payment recorded successfully.",
		"payment": payment,
	})
}

func ListPayments(c *gin.Context) {
	db, exists := c.Get("db")
	if !exists {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Database connection not found.")
		return
	}
	gormDB := db.(*gorm.DB)

	page := c.DefaultQuery("page", "1")
	limit := c.DefaultQuery("limit", "10")
	status := c.Query("status")

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

	query := gormDB.Model(&models.Payment{})
	if status != "" {
		query = query.Where("status = ?", status)
	}

	var totalCount int64
	query.Count(&totalCount)

	var payments []models.Payment
	offset := (pageNum - 1) * limitNum
	err = query.Offset(offset).Limit(limitNum).Order("created_at DESC").Find(&payments).Error
	if err != nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Error retrieving payments.")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"payments":    payments,
		"total":       totalCount,
		"page":        pageNum,
		"limit":       limitNum,
		"total_pages": (totalCount + int64(limitNum) - 1) / int64(limitNum),
	})
}

func GetPayment(c *gin.Context) {
	paymentID := c.Param("id")

	db, exists := c.Get("db")
	if !exists {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Database connection not found.")
		return
	}
	gormDB := db.(*gorm.DB)

	var payment models.Payment
	if err := gormDB.Where("id = ?", paymentID).First(&payment).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			helpers.RespondWithError(c, http.StatusNotFound, "Payment not found.")
			return
		}
		helpers.RespondWithError(c, http.StatusInternalServerError, "Error retrieving payment.")
		return
	}

	c.JSON(http.StatusOK, payment)
}

func UpdatePaymentStatus(c *gin.Context) {
	paymentID := c.Param("id")

	var req PaymentStatusRequest
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

	var payment models.Payment
	if err := gormDB.Where("id = ?", paymentID).First(&payment).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			helpers.RespondWithError(c, http.StatusNotFound, "Payment not found.")
			return
		}
		helpers.RespondWithError(c, http.StatusInternalServerError, "Error finding payment.")
		return
	}

	if err := checkTransition(payment.Status, req.Status); err != nil {
		helpers.RespondWithError(c, http.StatusConflict,
			fmt.Sprintf("Cannot transition payment from %s to %s.", payment.Status, req.Status))
		return
	}

	if err := gormDB.Model(&payment).Update("status", req.Status).Error; err != nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Failed to update payment status.")
		return
	}
	payment.Status = req.Status

	c.JSON(http.StatusOK, gin.H{
		"message": "Payment status updated.",
		"payment": payment,
	})
}

func DeletePayment(c *gin.Context) {
	paymentID := c.Param("id")

	db, exists := c.Get("db")
	if !exists {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Database connection not found.")
		return
	}
	gormDB := db.(*gorm.DB)

	result := gormDB.Where("id = ?", paymentID).Delete(&models.Payment{})
	if result.Error != nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Failed to delete payment.")
		return
	}

	if result.RowsAffected == 0 {
		helpers.RespondWithError(c, http.StatusNotFound, "Payment not found.")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Payment deleted successfully.",
	})
}

func respondWithReport(c *gin.Context, gormDB *gorm.DB, from, to time.Time) {
	var payments []models.Payment
	if err := gormDB.Where("status IN ? AND created_at BETWEEN ? AND ?", reportStatuses, from, to).
		Order("created_at ASC").Find(&payments).Error; err != nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Error building report.")
		return
	}

	totalAmount := 0
	for _, payment := range payments {
		totalAmount += payment.Amount
	}

	c.JSON(http.StatusOK, gin.H{
		"payments":     payments,
		"count":        len(payments),
		"total_amount": totalAmount,
		"from":         from,
		"to":           to,
	})
}

func PaymentReport(c *gin.Context) {
	period := c.Query("type")

	from, to, err := reporting.Window(period, time.Now())
	if err != nil {
		helpers.RespondWithError(c, http.StatusBadRequest, "Report type must be daily, weekly or monthly.")
		return
	}

	db, exists := c.Get("db")
	if !exists {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Database connection not found.")
		return
	}
	gormDB := db.(*gorm.DB)

	respondWithReport(c, gormDB, from, to)
}

func PaymentReportRange(c *gin.Context) {
	start := c.Query("start")
	end := c.Query("end")

	from, to, err := reporting.RangeWindow(start, end, time.Local)
	if err != nil {
		helpers.RespondWithError(c, http.StatusBadRequest, "Invalid report range, expected start and end as YYYY-MM-DD.")
		return
	}

	db, exists := c.Get("db")
	if !exists {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Database connection not found.")
		return
	}
	gormDB := db.(*gorm.DB)

	respondWithReport(c, gormDB, from, to)
}
