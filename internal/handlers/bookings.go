package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/you/badminton-network/internal/domain"
	"github.com/you/badminton-network/internal/middlewares"
	"github.com/you/badminton-network/internal/service"
)

type BookingHandler struct {
	svc   *service.BookingSvc
	users *service.UserSvc
}

func NewBookingHandler(svc *service.BookingSvc, users *service.UserSvc) *BookingHandler {
	return &BookingHandler{svc: svc, users: users}
}

// POST /v1/courts/:id/bookings
func (h *BookingHandler) Create(c *gin.Context) {
	var in struct {
		Slot string `json:"slot"`
		Date string `json:"date"` // YYYY-MM-DD
	}
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	b, err := h.svc.Book(c, c.Param("id"), middlewares.UserID(c), in.Slot, in.Date)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"booking": b})
}

type bookingView struct {
	domain.Booking
	UserName string `json:"user_name"`
}

// GET /v1/courts/:id/bookings
//
// The booking-details panel: every reservation for the court across all
// dates, with the booking player's display name resolved.
func (h *BookingHandler) ListByCourt(c *gin.Context) {
	list, err := h.svc.ListByCourt(c, c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	ids := make([]string, 0, len(list))
	for _, b := range list {
		ids = append(ids, b.UserID)
	}
	names, err := h.users.NamesByID(c, ids)
	if err != nil {
		writeError(c, err)
		return
	}
	out := make([]bookingView, 0, len(list))
	for _, b := range list {
		out = append(out, bookingView{Booking: b, UserName: names[b.UserID]})
	}
	c.JSON(http.StatusOK, gin.H{"bookings": out})
}

// GET /v1/bookings (the caller's own)
func (h *BookingHandler) ListMine(c *gin.Context) {
	list, err := h.svc.ListByUser(c, middlewares.UserID(c))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"bookings": list})
}

// GET /v1/bookings/:id
func (h *BookingHandler) Get(c *gin.Context) {
	b, err := h.svc.Get(c, c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"booking": b})
}
