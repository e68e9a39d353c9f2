// Package vision exposes the image locate and field extraction endpoints.
package vision

import (
	"github.com/gin-gonic/gin"
	"github.com/liliang-cn/citelens/internal/api/response"
	"github.com/liliang-cn/citelens/internal/domain"
	"github.com/liliang-cn/citelens/internal/service"
)

// LocateRequest asks where content appears in an image.
type LocateRequest struct {
	Image   string `json:"image" binding:"required"`
	Content string `json:"content" binding:"required"`
	Model   string `json:"model,omitempty"`
}

// PhrasesRequest asks where several phrases appear in an image.
type PhrasesRequest struct {
	Image   string   `json:"image" binding:"required"`
	Phrases []string `json:"phrases" binding:"required,min=1"`
	Model   string   `json:"model,omitempty"`
}

// AnalyzeRequest runs a free prompt against an image.
type AnalyzeRequest struct {
	Image  string `json:"image" binding:"required"`
	Prompt string `json:"prompt" binding:"required"`
	Model  string `json:"model,omitempty"`
}

// FieldsRequest asks for labelled values answering a task.
type FieldsRequest struct {
	Image string `json:"image" binding:"required"`
	Task  string `json:"task" binding:"required"`
	Model string `json:"model,omitempty"`
}

// Handler handles vision API requests
type Handler struct {
	locateService *service.LocateService
}

// NewHandler creates a new vision handler
func NewHandler(locateService *service.LocateService) *Handler {
	return &Handler{locateService: locateService}
}

// RegisterRoutes registers vision routes
func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	r.POST("/analyze", h.Analyze)
	r.POST("/locate", h.Locate)
	r.POST("/locate/phrases", h.LocatePhrases)

	fields := r.Group("/fields")
	{
		fields.POST("/extract", h.ExtractFields)
		fields.POST("/locate", h.LocateFields)
	}
}

// bind decodes the body and the image it carries. It writes the error
// response itself and reports whether the handler should continue.
func bind(c *gin.Context, req any, image *string) (domain.Image, bool) {
	if err := c.ShouldBindJSON(req); err != nil {
		response.BadRequest(c, err)
		return domain.Image{}, false
	}
	img, err := domain.ParseImage(*image)
	if err != nil {
		response.Result(c, domain.Fail[any]("Invalid image", err))
		return domain.Image{}, false
	}
	return img, true
}

func (h *Handler) Analyze(c *gin.Context) {
	var req AnalyzeRequest
	img, ok := bind(c, &req, &req.Image)
	if !ok {
		return
	}
	response.Result(c, h.locateService.Analyze(c.Request.Context(), img, req.Prompt, req.Model))
}

func (h *Handler) Locate(c *gin.Context) {
	var req LocateRequest
	img, ok := bind(c, &req, &req.Image)
	if !ok {
		return
	}
	response.Result(c, h.locateService.LocateContent(c.Request.Context(), img, req.Content, req.Model))
}

func (h *Handler) LocatePhrases(c *gin.Context) {
	var req PhrasesRequest
	img, ok := bind(c, &req, &req.Image)
	if !ok {
		return
	}
	response.Result(c, h.locateService.LocatePhrases(c.Request.Context(), img, req.Phrases, req.Model))
}

func (h *Handler) ExtractFields(c *gin.Context) {
	var req FieldsRequest
	img, ok := bind(c, &req, &req.Image)
	if !ok {
		return
	}
	response.Result(c, h.locateService.ExtractFields(c.Request.Context(), img, req.Task, req.Model))
}

func (h *Handler) LocateFields(c *gin.Context) {
	var req FieldsRequest
	img, ok := bind(c, &req, &req.Image)
	if !ok {
		return
	}
	response.Result(c, h.locateService.LocateFields(c.Request.Context(), img, req.Task, req.Model))
}
