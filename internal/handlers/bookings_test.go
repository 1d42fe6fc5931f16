package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/you/badminton-network/internal/domain"
	"github.com/you/badminton-network/internal/repository"
	"github.com/you/badminton-network/internal/service"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("db handle: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	return db
}

func asUser(id string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if id != "" {
			c.Set("sub", id)
		}
		c.Next()
	}
}

func newBookingRouter(t *testing.T, userID string) (*gin.Engine, *domain.Court) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db := newTestDB(t)
	courts := repository.NewCourtRepo(db)
	bookings := repository.NewBookingRepo(db)
	users := repository.NewUserRepo(db)
	for _, m := range []func() error{courts.Migrate, bookings.Migrate, users.Migrate} {
		if err := m(); err != nil {
			t.Fatalf("migrate: %v", err)
		}
	}

	court := &domain.Court{Name: "Smash Arena", AvailableTimes: "9-11am, 2-4pm", CreatedBy: "owner"}
	if err := courts.Create(context.Background(), court); err != nil {
		t.Fatalf("seed court: %v", err)
	}

	h := NewBookingHandler(
		service.NewBookingSvc(bookings, courts, nil),
		service.NewUserSvc(users),
	)
	r := gin.New()
	r.POST("/v1/courts/:id/bookings", asUser(userID), h.Create)
	r.GET("/v1/courts/:id/bookings", h.ListByCourt)
	return r, court
}

func postBooking(t *testing.T, r *gin.Engine, courtID, slot, date string) *httptest.ResponseRecorder {
	t.Helper()
	body, _ := json.Marshal(gin.H{"slot": slot, "date": date})
	req := httptest.NewRequest(http.MethodPost, "/v1/courts/"+courtID+"/bookings", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestCreateBookingStatusCodes(t *testing.T) {
	r, court := newBookingRouter(t, "u1")

	w := postBooking(t, r, court.ID, "9-11am", "2099-01-01")
	if w.Code != http.StatusCreated {
		t.Fatalf("create = %d, body %s", w.Code, w.Body.String())
	}

	// same slot and date again conflicts
	w = postBooking(t, r, court.ID, "9-11am", "2099-01-01")
	if w.Code != http.StatusConflict {
		t.Fatalf("conflict = %d, body %s", w.Code, w.Body.String())
	}

	w = postBooking(t, r, court.ID, "", "2099-01-01")
	if w.Code != http.StatusBadRequest {
		t.Fatalf("missing slot = %d", w.Code)
	}

	w = postBooking(t, r, court.ID, "9-11am", "bad-date")
	if w.Code != http.StatusBadRequest {
		t.Fatalf("bad date = %d", w.Code)
	}

	w = postBooking(t, r, "missing-court", "9-11am", "2099-01-01")
	if w.Code != http.StatusNotFound {
		t.Fatalf("missing court = %d", w.Code)
	}
}

func TestCreateBookingAnonymous(t *testing.T) {
	r, court := newBookingRouter(t, "")

	w := postBooking(t, r, court.ID, "9-11am", "2099-01-01")
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("anonymous = %d, body %s", w.Code, w.Body.String())
	}
}

func TestListBookingsByCourt(t *testing.T) {
	r, court := newBookingRouter(t, "u1")

	if w := postBooking(t, r, court.ID, "2-4pm", "2099-01-01"); w.Code != http.StatusCreated {
		t.Fatalf("seed booking = %d", w.Code)
	}

	req := httptest.NewRequest(http.MethodGet, "/v1/courts/"+court.ID+"/bookings", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("list = %d", w.Code)
	}

	var out struct {
		Bookings []struct {
			Slot     string `json:"Slot"`
			UserName string `json:"user_name"`
		} `json:"bookings"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(out.Bookings) != 1 || out.Bookings[0].Slot != "2-4pm" {
		t.Fatalf("bookings = %+v", out.Bookings)
	}
	// no profile row for u1, the display name falls back
	if out.Bookings[0].UserName != "Anonymous" {
		t.Fatalf("user_name = %q, want Anonymous", out.Bookings[0].UserName)
	}
}
