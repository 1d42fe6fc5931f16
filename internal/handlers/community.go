package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/you/badminton-network/internal/domain"
	"github.com/you/badminton-network/internal/middlewares"
	"github.com/you/badminton-network/internal/service"
)

type CommunityHandler struct {
	svc   *service.CommunitySvc
	users *service.UserSvc
}

func NewCommunityHandler(svc *service.CommunitySvc, users *service.UserSvc) *CommunityHandler {
	return &CommunityHandler{svc: svc, users: users}
}

type postView struct {
	domain.Post
	UserName   string `json:"user_name"`
	UserAvatar string `json:"user_avatar,omitempty"`
}

type replyView struct {
	domain.Reply
	UserName string `json:"user_name"`
}

// GET /v1/posts?page=1&page_size=50
func (h *CommunityHandler) ListPosts(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	size, _ := strconv.Atoi(c.DefaultQuery("page_size", "50"))
	if page < 1 {
		page = 1
	}
	posts, err := h.svc.ListPosts(c, int32(page-1), int32(size))
	if err != nil {
		writeError(c, err)
		return
	}
	ids := make([]string, 0, len(posts))
	for _, p := range posts {
		ids = append(ids, p.UserID)
	}
	names, err := h.users.NamesByID(c, ids)
	if err != nil {
		writeError(c, err)
		return
	}
	out := make([]postView, 0, len(posts))
	for _, p := range posts {
		out = append(out, postView{Post: p, UserName: names[p.UserID]})
	}
	c.JSON(http.StatusOK, gin.H{"posts": out})
}

// POST /v1/posts
func (h *CommunityHandler) CreatePost(c *gin.Context) {
	var in struct {
		Content  string `json:"content"`
		ImageURL string `json:"image_url"`
	}
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	p, err := h.svc.CreatePost(c, middlewares.UserID(c), in.Content, in.ImageURL)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"post": p})
}

// GET /v1/posts/:id returns the post with its reply thread, oldest reply first.
func (h *CommunityHandler) GetPost(c *gin.Context) {
	p, err := h.svc.GetPost(c, c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	replies, err := h.svc.Replies(c, p.ID)
	if err != nil {
		writeError(c, err)
		return
	}
	ids := []string{p.UserID}
	for _, r := range replies {
		ids = append(ids, r.UserID)
	}
	names, err := h.users.NamesByID(c, ids)
	if err != nil {
		writeError(c, err)
		return
	}
	out := make([]replyView, 0, len(replies))
	for _, r := range replies {
		out = append(out, replyView{Reply: r, UserName: names[r.UserID]})
	}
	c.JSON(http.StatusOK, gin.H{
		"post":    postView{Post: *p, UserName: names[p.UserID]},
		"replies": out,
	})
}

// POST /v1/posts/:id/replies
func (h *CommunityHandler) CreateReply(c *gin.Context) {
	var in struct {
		Content string `json:"content"`
	}
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	r, err := h.svc.Reply(c, c.Param("id"), middlewares.UserID(c), in.Content)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"reply": r})
}
