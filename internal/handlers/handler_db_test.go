package handlers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/arvellino/dinespot/internal/booking"
	"github.com/arvellino/dinespot/internal/middleware"
	"github.com/arvellino/dinespot/internal/models"
)

// newTestDB opens a per-test in-memory database with the same error
// translation the production connection uses, so unique-constraint
// violations surface as gorm.ErrDuplicatedKey here too.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{TranslateError: true})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(
		&models.Role{},
		&models.User{},
		&models.Restaurant{},
		&models.TableType{},
		&models.FoodItem{},
		&models.Reservation{},
		&models.ReservationTable{},
		&models.Order{},
		&models.OrderItem{},
		&models.Payment{},
	))
	return db
}

func newTestRouter(db *gorm.DB, userID uuid.UUID, role string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(middleware.DatabaseMiddleware(db))
	if role != "" {
		router.Use(func(c *gin.Context) {
			c.Set("user_id", userID)
			c.Set("role", role)
			c.Next()
		})
	}
	return router
}

func performJSON(router *gin.Engine, method, path string, payload any) *httptest.ResponseRecorder {
	var body bytes.Buffer
	if payload != nil {
		if err := json.NewEncoder(&body).Encode(payload); err != nil {
			panic(err)
		}
	}

	req := httptest.NewRequest(method, path, &body)
	req.Header.Set("Content-Type", "application/json")
	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, req)
	return recorder
}

func seedRestaurant(t *testing.T, db *gorm.DB) models.Restaurant {
	t.Helper()

	restaurant := models.Restaurant{
		Name:        "Spice Garden",
		Description: "South Indian kitchen",
		Location:    "Chennai",
		ManagerID:   uuid.New(),
		IsEnabled:   true,
		Tables: []models.TableType{
			{Position: 0, SeatCount: 4, Quantity: 2},
			{Position: 1, SeatCount: 2, Quantity: 1},
		},
	}
	require.NoError(t, db.Create(&restaurant).Error)
	return restaurant
}

func seedOrder(t *testing.T, db *gorm.DB, restaurantID uuid.UUID, email string) models.Order {
	t.Helper()

	order := models.Order{
		OrderID:               fmt.Sprintf("ORD-%d", time.Now().UnixMilli()),
		RestaurantID:          restaurantID,
		CustomerName:          "Asha Nair",
		CustomerEmail:         email,
		OrderType:             models.OrderTypeDineIn,
		PaymentMethod:         models.MethodCard,
		PaymentStatus:         models.PaymentPending,
		OrderStatus:           "Placed",
		Total:                 1300,
		LinkedReservationID:   models.ReservationNone,
		ReservationLinkStatus: models.ReservationUnavailable,
		Items: []models.OrderItem{
			{Name: "Masala Dosa", Quantity: 2, Price: 500, PortionSize: "Medium"},
			{Name: "Filter Coffee", Quantity: 1, Price: 300, PortionSize: "Small"},
		},
	}
	require.NoError(t, db.Create(&order).Error)
	return order
}

func TestCreateReservationRejectsDoubleBooking(t *testing.T) {
	db := newTestDB(t)
	restaurant := seedRestaurant(t, db)

	router := newTestRouter(db, uuid.New(), models.RoleRegisteredUser)
	router.POST("/reservations", CreateReservation)

	date := time.Now().AddDate(0, 0, 7).Format(booking.DateLayout)
	payload := gin.H{
		"restaurant_id":  restaurant.ID,
		"table_number":   "001",
		"customer_name":  "Asha Nair",
		"customer_email": "asha@example.com",
		"party_size":     2,
		"date":           date,
		"time_slot":      "06:00 - 08:00 PM",
	}

	w := performJSON(router, http.MethodPost, "/reservations", payload)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	payload["customer_name"] = "Ravi Menon"
	payload["customer_email"] = "ravi@example.com"
	w = performJSON(router, http.MethodPost, "/reservations", payload)
	assert.Equal(t, http.StatusConflict, w.Code, w.Body.String())

	// A different table in the same slot is still free.
	payload["table_number"] = "002"
	w = performJSON(router, http.MethodPost, "/reservations", payload)
	assert.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var claims int64
	db.Model(&models.ReservationTable{}).Count(&claims)
	assert.EqualValues(t, 2, claims)
}

func TestCreateReservationConflictOnConcurrentClaim(t *testing.T) {
	db := newTestDB(t)
	restaurant := seedRestaurant(t, db)

	date := time.Now().AddDate(0, 0, 7).Format(booking.DateLayout)
	slot := "12:00 - 02:00 PM"

	// Simulates a booking that committed its table claim between this
	// request's availability check and its insert: the claim row exists but
	// no reservation is visible, so only the unique index can catch it.
	claim := models.ReservationTable{
		ReservationID: uuid.New(),
		RestaurantID:  restaurant.ID,
		TableNumber:   "001",
		Date:          date,
		TimeSlot:      slot,
	}
	require.NoError(t, db.Create(&claim).Error)

	router := newTestRouter(db, uuid.New(), models.RoleRegisteredUser)
	router.POST("/reservations", CreateReservation)

	w := performJSON(router, http.MethodPost, "/reservations", gin.H{
		"restaurant_id":  restaurant.ID,
		"table_number":   "001",
		"customer_name":  "Asha Nair",
		"customer_email": "asha@example.com",
		"party_size":     2,
		"date":           date,
		"time_slot":      slot,
	})
	assert.Equal(t, http.StatusConflict, w.Code, w.Body.String())

	// The losing insert must not leave a half-written reservation behind.
	var reservations int64
	db.Model(&models.Reservation{}).Count(&reservations)
	assert.Zero(t, reservations)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	db := newTestDB(t)
	require.NoError(t, db.Create(&models.Role{Name: models.RoleRegisteredUser}).Error)

	router := newTestRouter(db, uuid.Nil, "")
	router.POST("/register", Register)

	payload := gin.H{
		"first_name": "Asha",
		"last_name":  "Nair",
		"email":      "asha@example.com",
		"password":   "secret123",
	}

	w := performJSON(router, http.MethodPost, "/register", payload)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = performJSON(router, http.MethodPost, "/register", payload)
	assert.Equal(t, http.StatusConflict, w.Code, w.Body.String())

	// A soft-deleted account no longer shows up in the existence check but
	// still owns the unique index, so the insert itself must map to 409.
	require.NoError(t, db.Where("email = ?", "asha@example.com").Delete(&models.User{}).Error)

	w = performJSON(router, http.MethodPost, "/register", payload)
	assert.Equal(t, http.StatusConflict, w.Code, w.Body.String())
}

func TestPaymentLifecycleAndReport(t *testing.T) {
	db := newTestDB(t)
	restaurant := seedRestaurant(t, db)
	order := seedOrder(t, db, restaurant.ID, "asha@example.com")

	router := newTestRouter(db, uuid.New(), models.RoleRestaurantManager)
	router.POST("/payments", CreatePayment)
	router.GET("/payments/report-range", PaymentReportRange)
	router.GET("/payments/:id", GetPayment)
	router.PUT("/payments/:id", UpdatePaymentStatus)

	w := performJSON(router, http.MethodPost, "/payments", gin.H{
		"order_id": order.ID,
		"amount":   1300,
		"method":   models.MethodCard,
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var created struct {
		Payment models.Payment `json:"payment"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	assert.Equal(t, models.PaymentPending, created.Payment.Status)
	assert.Contains(t, created.Payment.TransactionID, "TXN-")

	reportPath := fmt.Sprintf("/payments/report-range?start=%s&end=%s",
		time.Now().AddDate(0, 0, -1).Format("2006-01-02"),
		time.Now().AddDate(0, 0, 1).Format("2006-01-02"))

	// Pending payments carry no revenue yet.
	var report struct {
		Count       int `json:"count"`
		TotalAmount int `json:"total_amount"`
	}
	w = performJSON(router, http.MethodGet, reportPath, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &report))
	assert.Zero(t, report.Count)

	paymentPath := "/payments/" + created.Payment.ID.String()
	w = performJSON(router, http.MethodPut, paymentPath, gin.H{"status": models.PaymentCompleted})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var fetched models.Payment
	w = performJSON(router, http.MethodGet, paymentPath, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &fetched))
	assert.Equal(t, models.PaymentCompleted, fetched.Status)

	// Completed is terminal.
	w = performJSON(router, http.MethodPut, paymentPath, gin.H{"status": models.PaymentFailed})
	assert.Equal(t, http.StatusConflict, w.Code, w.Body.String())

	w = performJSON(router, http.MethodGet, reportPath, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &report))
	assert.Equal(t, 1, report.Count)
	assert.Equal(t, 1300, report.TotalAmount)
}

func TestMyOrdersMatchesEmailCaseInsensitively(t *testing.T) {
	db := newTestDB(t)
	restaurant := seedRestaurant(t, db)
	order := seedOrder(t, db, restaurant.ID, "asha@example.com")

	router := newTestRouter(db, uuid.New(), models.RoleRegisteredUser)
	router.GET("/orders/my-orders/:email", MyOrders)

	w := performJSON(router, http.MethodGet, "/orders/my-orders/Asha@Example.COM", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp struct {
		Orders []struct {
			Order          models.Order `json:"order"`
			RestaurantName string       `json:"restaurant_name"`
		} `json:"orders"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Orders, 1)
	assert.Equal(t, order.OrderID, resp.Orders[0].Order.OrderID)
	assert.Equal(t, restaurant.Name, resp.Orders[0].RestaurantName)

	w = performJSON(router, http.MethodGet, "/orders/my-orders/someone.else@example.com", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	resp.Orders = nil
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Empty(t, resp.Orders)
}

func TestListRestaurantsRejectsBadPagination(t *testing.T) {
	db := newTestDB(t)
	seedRestaurant(t, db)

	router := newTestRouter(db, uuid.Nil, "")
	router.GET("/restaurants", ListRestaurants)

	for _, path := range []string{
		"/restaurants?page=0",
		"/restaurants?page=-1",
		"/restaurants?limit=0",
		"/restaurants?limit=-5",
		"/restaurants?page=abc",
	} {
		w := performJSON(router, http.MethodGet, path, nil)
		assert.Equal(t, http.StatusBadRequest, w.Code, path)
	}

	w := performJSON(router, http.MethodGet, "/restaurants", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
}

func TestUpdateRestaurantReplacesImage360(t *testing.T) {
	db := newTestDB(t)
	managerID := uuid.New()
	restaurant := models.Restaurant{
		Name:        "Spice Garden",
		Description: "South Indian kitchen",
		Location:    "Chennai",
		ManagerID:   managerID,
		IsEnabled:   true,
	}
	require.NoError(t, db.Create(&restaurant).Error)

	router := newTestRouter(db, managerID, models.RoleRestaurantManager)
	router.PUT("/restaurants/:id", UpdateRestaurant)
	t.Cleanup(func() { os.RemoveAll("./uploads") })

	var buf bytes.Buffer
	form := multipart.NewWriter(&buf)
	require.NoError(t, form.WriteField("name", restaurant.Name))
	require.NoError(t, form.WriteField("description", restaurant.Description))
	require.NoError(t, form.WriteField("location", restaurant.Location))
	part, err := form.CreateFormFile("image_360", "panorama.png")
	require.NoError(t, err)
	pngHeader := append([]byte{0x89, 'P', 'N', 'G', 0x0D, 0x0A, 0x1A, 0x0A}, make([]byte, 64)...)
	_, err = part.Write(pngHeader)
	require.NoError(t, err)
	require.NoError(t, form.Close())

	req := httptest.NewRequest(http.MethodPut, "/restaurants/"+restaurant.ID.String(), &buf)
	req.Header.Set("Content-Type", form.FormDataContentType())
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var updated models.Restaurant
	require.NoError(t, db.Where("id = ?", restaurant.ID).First(&updated).Error)
	assert.NotEmpty(t, updated.Image360Path)
}
