package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/you/badminton-network/internal/domain"
	"github.com/you/badminton-network/internal/middlewares"
	"github.com/you/badminton-network/internal/service"
)

type TournamentHandler struct {
	svc *service.TournamentSvc
}

func NewTournamentHandler(svc *service.TournamentSvc) *TournamentHandler {
	return &TournamentHandler{svc: svc}
}

// GET /v1/tournaments?page=1&page_size=20&q=&category=
func (h *TournamentHandler) List(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	size, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	if page < 1 {
		page = 1
	}
	list, err := h.svc.List(c, int32(page-1), int32(size), c.Query("q"), c.Query("category"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"tournaments": list})
}

// POST /v1/tournaments
func (h *TournamentHandler) Create(c *gin.Context) {
	var in struct {
		Name        string `json:"name" binding:"required"`
		Description string `json:"description"`
		Date        string `json:"date" binding:"required"` // YYYY-MM-DD
		Location    string `json:"location" binding:"required"`
		City        string `json:"city"`
		MaxPlayers  int32  `json:"max_players" binding:"required,gt=0"`
		Category    string `json:"category"`
		Color       string `json:"color"`
	}
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	t, err := h.svc.Create(c, domain.Tournament{
		Name:        in.Name,
		Description: in.Description,
		Date:        in.Date,
		Location:    in.Location,
		City:        in.City,
		MaxPlayers:  in.MaxPlayers,
		Category:    in.Category,
		Color:       in.Color,
		CreatedBy:   middlewares.UserID(c),
	})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"tournament": t})
}

// GET /v1/tournaments/:id returns the detail plus the registration list with names.
func (h *TournamentHandler) Get(c *gin.Context) {
	t, err := h.svc.Get(c, c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	regs, err := h.svc.Registrations(c, t.ID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"tournament": t, "registrations": regs})
}

// PUT /v1/tournaments/:id
func (h *TournamentHandler) Update(c *gin.Context) {
	var in struct {
		Name        string `json:"name"`
		Description string `json:"description"`
		Date        string `json:"date"`
		Location    string `json:"location"`
		City        string `json:"city"`
		MaxPlayers  int32  `json:"max_players"`
		Category    string `json:"category"`
		Color       string `json:"color"`
	}
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	t, err := h.svc.Update(c, domain.Tournament{
		ID:          c.Param("id"),
		Name:        in.Name,
		Description: in.Description,
		Date:        in.Date,
		Location:    in.Location,
		City:        in.City,
		MaxPlayers:  in.MaxPlayers,
		Category:    in.Category,
		Color:       in.Color,
	}, middlewares.UserID(c))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"tournament": t})
}

// DELETE /v1/tournaments/:id
func (h *TournamentHandler) Delete(c *gin.Context) {
	if err := h.svc.Delete(c, c.Param("id"), middlewares.UserID(c)); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// POST /v1/tournaments/:id/register
func (h *TournamentHandler) Register(c *gin.Context) {
	t, err := h.svc.Register(c, c.Param("id"), middlewares.UserID(c))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"tournament": t})
}
