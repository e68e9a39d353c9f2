package chat

import (
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/liliang-cn/citelens/internal/api/response"
	"github.com/liliang-cn/citelens/internal/domain"
	"github.com/liliang-cn/citelens/internal/render"
	"github.com/liliang-cn/citelens/internal/service"
)

// Handler handles chat API requests
type Handler struct {
	chatService    *service.ChatService
	sessionService *service.SessionService
}

// NewHandler creates a new chat handler
func NewHandler(chatService *service.ChatService, sessionService *service.SessionService) *Handler {
	return &Handler{
		chatService:    chatService,
		sessionService: sessionService,
	}
}

// RegisterRoutes registers chat routes
func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	r.POST("/chat", h.Chat)
	r.POST("/chat/stream", h.ChatStream)

	sessions := r.Group("/sessions/:id")
	{
		sessions.GET("/messages", h.Messages)
		sessions.GET("/messages/:message_id/citations/:index/annotated", h.AnnotatedCitation)
	}
}

// Chat handles a chat message
func (h *Handler) Chat(c *gin.Context) {
	var req domain.ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err)
		return
	}

	resp, err := h.chatService.Chat(c.Request.Context(), &req)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// ChatStream handles a streaming chat message (SSE). Each loading state is
// sent as a "status" event, followed by "message" and "done".
func (h *Handler) ChatStream(c *gin.Context) {
	var req domain.ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err)
		return
	}

	stream, err := h.chatService.ChatStream(c.Request.Context(), &req)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")

	c.Stream(func(w io.Writer) bool {
		chunk, ok := <-stream
		if !ok {
			return false
		}
		c.SSEvent(chunk.Type, chunk)
		return true
	})
}

// Messages returns the conversation of a session
func (h *Handler) Messages(c *gin.Context) {
	messages, err := h.sessionService.GetMessages(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"messages": messages})
}

// AnnotatedCitation renders a citation screenshot with its highlights as PNG.
// The optional max_width query parameter scales large screenshots down.
func (h *Handler) AnnotatedCitation(c *gin.Context) {
	index, err := strconv.Atoi(c.Param("index"))
	if err != nil || index < 1 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid citation index"})
		return
	}

	var opts render.Options
	if v := c.Query("max_width"); v != "" {
		if opts.MaxWidth, err = strconv.Atoi(v); err != nil || opts.MaxWidth < 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid max_width"})
			return
		}
	}

	data, err := h.sessionService.AnnotatedCitation(c.Request.Context(), c.Param("id"), c.Param("message_id"), index, opts)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.Data(http.StatusOK, "image/png", data)
}
