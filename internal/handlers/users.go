package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/you/badminton-network/internal/middlewares"
	"github.com/you/badminton-network/internal/service"
)

type UserHandler struct {
	svc *service.UserSvc
}

func NewUserHandler(svc *service.UserSvc) *UserHandler {
	return &UserHandler{svc: svc}
}

// GET /v1/users/me
func (h *UserHandler) GetMe(c *gin.Context) {
	u, err := h.svc.GetByID(c, middlewares.UserID(c))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": u})
}

// PUT /v1/users/me
func (h *UserHandler) UpdateMe(c *gin.Context) {
	var in struct {
		Name      string `json:"name"`
		Phone     string `json:"phone"`
		AvatarURL string `json:"avatar_url"`
	}
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	u, err := h.svc.Update(c, middlewares.UserID(c), in.Name, in.Phone, in.AvatarURL)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": u})
}

// GET /v1/users?page=1&page_size=20&q=name
func (h *UserHandler) List(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	size, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	if page < 1 {
		page = 1
	}
	users, total, err := h.svc.List(c, int32(page-1), int32(size), c.Query("q"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"users": users, "total": total})
}

// GET /v1/users/:id
func (h *UserHandler) GetByID(c *gin.Context) {
	u, err := h.svc.GetByID(c, c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": u})
}
