package handlers

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/you/badminton-network/internal/events"
	"github.com/you/badminton-network/internal/realtime"
)

// StreamHandler exposes the realtime hub over SSE. A connection is the page
// registering its change handler; closing the connection unregisters it.
type StreamHandler struct {
	hub *realtime.Hub
}

func NewStreamHandler(hub *realtime.Hub) *StreamHandler {
	return &StreamHandler{hub: hub}
}

var topicPrefixes = map[string]string{
	"courts":      "court.",
	"tournaments": "tournament.",
	"posts":       "post.",
	"bookings":    "booking.",
}

// GET /v1/stream?topics=courts&topics=tournaments
func (h *StreamHandler) Directory(c *gin.Context) {
	var prefixes []string
	for _, t := range c.QueryArray("topics") {
		if p, ok := topicPrefixes[t]; ok {
			prefixes = append(prefixes, p)
		}
	}
	if len(prefixes) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "no known topics requested"})
		return
	}
	sub := h.hub.Subscribe(prefixes...)
	defer sub.Close()

	c.Writer.Header().Set("Cache-Control", "no-cache")
	c.Stream(func(w io.Writer) bool {
		select {
		case <-c.Request.Context().Done():
			return false
		case ev, ok := <-sub.C:
			if !ok {
				return false
			}
			c.SSEvent(ev.Key, string(ev.Payload))
			return true
		}
	})
}

// GET /v1/posts/:id/stream streams reply events scoped to one post.
func (h *StreamHandler) PostReplies(c *gin.Context) {
	postID := c.Param("id")
	sub := h.hub.Subscribe(events.RKReplyCreated)
	defer sub.Close()

	c.Writer.Header().Set("Cache-Control", "no-cache")
	c.Stream(func(w io.Writer) bool {
		select {
		case <-c.Request.Context().Done():
			return false
		case ev, ok := <-sub.C:
			if !ok {
				return false
			}
			rep, err := events.MustUnmarshal[events.ReplyCreated](ev.Payload)
			if err != nil || rep.PostID != postID {
				return true // skip, keep streaming
			}
			c.SSEvent(ev.Key, string(ev.Payload))
			return true
		}
	})
}
