package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/you/badminton-network/internal/domain"
	"github.com/you/badminton-network/internal/middlewares"
	"github.com/you/badminton-network/internal/service"
)

type CourtHandler struct {
	svc      *service.CourtSvc
	bookings *service.BookingSvc
}

func NewCourtHandler(svc *service.CourtSvc, bookings *service.BookingSvc) *CourtHandler {
	return &CourtHandler{svc: svc, bookings: bookings}
}

// POST /v1/courts
func (h *CourtHandler) Create(c *gin.Context) {
	var in struct {
		Name           string  `json:"name" binding:"required"`
		Description    string  `json:"description"`
		Location       string  `json:"location" binding:"required"`
		City           string  `json:"city"`
		AvailableTimes string  `json:"available_times"` // comma-separated slot labels
		Amenities      string  `json:"amenities"`
		PricePerHour   string  `json:"price_per_hour"`
		Color          string  `json:"color"`
		Rating         float64 `json:"rating"`
		ContactNumber  string  `json:"contact_number"`
	}
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	court, err := h.svc.Create(c, domain.Court{
		Name:           in.Name,
		Description:    in.Description,
		Location:       in.Location,
		City:           in.City,
		AvailableTimes: in.AvailableTimes,
		Amenities:      in.Amenities,
		PricePerHour:   in.PricePerHour,
		Color:          in.Color,
		Rating:         in.Rating,
		ContactNumber:  in.ContactNumber,
		CreatedBy:      middlewares.UserID(c),
	})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"court": court})
}

// GET /v1/courts?page=1&page_size=20&q=
func (h *CourtHandler) List(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	size, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	if page < 1 {
		page = 1
	}
	courts, err := h.svc.List(c, int32(page-1), int32(size), c.Query("q"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"courts": courts})
}

// GET /v1/courts/:id
//
// The detail view ships the slot catalog together with today's reconciled
// availability so the page renders taken slots distinguished from offerable
// ones without a second round trip.
func (h *CourtHandler) Get(c *gin.Context) {
	court, err := h.svc.Get(c, c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	page, err := h.bookings.CourtPage(c, court.ID)
	if err != nil {
		writeError(c, err)
		return
	}
	catalog := h.svc.Catalog(court)
	taken := make([]string, 0, len(catalog))
	for _, slot := range catalog {
		if page.Taken(slot) {
			taken = append(taken, slot)
		}
	}
	c.JSON(http.StatusOK, gin.H{
		"court":           court,
		"date":            page.Today(),
		"catalog":         catalog,
		"taken_today":     taken,
		"available_today": page.Available(),
	})
}

// GET /v1/courts/:id/availability?date=YYYY-MM-DD
func (h *CourtHandler) Availability(c *gin.Context) {
	catalog, taken, available, err := h.bookings.Availability(c, c.Param("id"), c.Query("date"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"catalog":   catalog,
		"taken":     taken,
		"available": available,
	})
}

// PUT /v1/courts/:id
func (h *CourtHandler) Update(c *gin.Context) {
	var in struct {
		Name           string  `json:"name"`
		Description    string  `json:"description"`
		Location       string  `json:"location"`
		City           string  `json:"city"`
		AvailableTimes string  `json:"available_times"`
		Amenities      string  `json:"amenities"`
		PricePerHour   string  `json:"price_per_hour"`
		Color          string  `json:"color"`
		Rating         float64 `json:"rating"`
		ContactNumber  string  `json:"contact_number"`
	}
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	court, err := h.svc.Update(c, domain.Court{
		ID:             c.Param("id"),
		Name:           in.Name,
		Description:    in.Description,
		Location:       in.Location,
		City:           in.City,
		AvailableTimes: in.AvailableTimes,
		Amenities:      in.Amenities,
		PricePerHour:   in.PricePerHour,
		Color:          in.Color,
		Rating:         in.Rating,
		ContactNumber:  in.ContactNumber,
	}, middlewares.UserID(c))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"court": court})
}

// DELETE /v1/courts/:id
func (h *CourtHandler) Delete(c *gin.Context) {
	if err := h.svc.Delete(c, c.Param("id"), middlewares.UserID(c)); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
