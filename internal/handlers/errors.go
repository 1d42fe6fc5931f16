package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/you/badminton-network/internal/availability"
	"github.com/you/badminton-network/internal/repository"
	"github.com/you/badminton-network/internal/service"
)

// writeError maps service errors onto the API's status codes. Anything not
// in the taxonomy is a generic backend failure: reported, never fatal.
func writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, availability.ErrUnauthenticated),
		errors.Is(err, service.ErrBadCredentials):
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
	case errors.Is(err, availability.ErrNoSlotSelected),
		errors.Is(err, availability.ErrSubmitting),
		errors.Is(err, service.ErrBadDate),
		errors.Is(err, service.ErrEmptyContent):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, availability.ErrSlotTaken),
		errors.Is(err, repository.ErrSlotTaken):
		c.JSON(http.StatusConflict, gin.H{"error": "slot already booked for this date"})
	case errors.Is(err, repository.ErrAlreadyRegistered):
		c.JSON(http.StatusConflict, gin.H{"error": "you are already registered for this tournament"})
	case errors.Is(err, repository.ErrTournamentFull):
		c.JSON(http.StatusConflict, gin.H{"error": "this tournament is full"})
	case errors.Is(err, repository.ErrNotOwner),
		errors.Is(err, service.ErrNotYourBooking):
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
	case errors.Is(err, gorm.ErrRecordNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}
