package certificates

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type Handler struct {
	service Service
	logger  *zap.Logger
}

func NewHandler(service Service, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{service: service, logger: logger}
}

// RegisterRoutes mounts the API under rg. generate runs before the generate
// handler, e.g. a rate limiter.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup, generate ...gin.HandlerFunc) {
	handlers := append(append([]gin.HandlerFunc{}, generate...), h.Generate)
	rg.POST("/generate-certificate", handlers...)
	rg.GET("/download-certificate/*filename", h.Download)
	rg.GET("/templates", h.Templates)
	rg.GET("/health", h.Health)
}

func (h *Handler) Generate(c *gin.Context) {
	var req CertificateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Debug("invalid generate request body", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	cert, err := h.service.Generate(c.Request.Context(), &req)
	if err != nil {
		var verr *ValidationError
		if errors.As(err, &verr) {
			c.JSON(http.StatusBadRequest, gin.H{"error": verr.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, GenerateResponse{
		Success:       true,
		Filename:      cert.Filename,
		Message:       "Certificate generated successfully",
		CertificateID: cert.CertificateID,
		Style:         cert.Style,
		TemplateType:  cert.TemplateType,
	})
}

func (h *Handler) Download(c *gin.Context) {
	filename := strings.TrimPrefix(c.Param("filename"), "/")

	obj, err := h.service.Open(c.Request.Context(), filename)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Certificate not found"})
			return
		}
		h.logger.Error("certificate download failed", zap.String("filename", filename), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	defer obj.Close()

	size := obj.Size
	if size <= 0 {
		size = -1
	}
	c.DataFromReader(http.StatusOK, size, obj.ContentType, obj.Body, map[string]string{
		"Content-Disposition": fmt.Sprintf(`attachment; filename="%s"`, obj.Name),
	})
}

func (h *Handler) Templates(c *gin.Context) {
	c.JSON(http.StatusOK, h.service.Catalog())
}

func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"message": "Certificate Generator API is running",
	})
}
