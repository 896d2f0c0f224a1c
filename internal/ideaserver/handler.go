package ideaserver

import (
	"errors"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/anatolykoptev/go_ideas/internal/engine"
	"github.com/anatolykoptev/go_ideas/internal/pipeline"
)

type Handler struct {
	Orchestrator *pipeline.Orchestrator
}

func NewHandler(orch *pipeline.Orchestrator) *Handler {
	return &Handler{Orchestrator: orch}
}

func RegisterRoutes(router gin.IRoutes, h *Handler) {
	router.POST("/api/generate-ideas", h.HandleGenerateIdeas)
	router.GET("/health", HandleHealth)
	router.GET("/metrics", HandleMetrics)
}

// NewRouter returns a gin engine with recovery and the idea routes.
func NewRouter(h *Handler) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	RegisterRoutes(r, h)
	return r
}

// NewHTTPServer serves the idea routes on addr. Callers own the lifecycle; Shutdown
// lets in-flight streams finish.
func NewHTTPServer(addr string, h *Handler) *http.Server {
	return &http.Server{
		Addr:              addr,
		Handler:           NewRouter(h),
		ReadHeaderTimeout: 10 * time.Second,
	}
}

// HandleGenerateIdeas runs the pipeline for {"url": "..."} and streams every event.
// Validation failures are reported in-stream; only an unparseable body gets a 400.
// The pipeline is bound to the request context, so a client disconnect cancels it.
func (h *Handler) HandleGenerateIdeas(c *gin.Context) {
	if h == nil || h.Orchestrator == nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "orchestrator unavailable"})
		return
	}

	var req pipeline.Request
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request payload"})
		return
	}

	em, err := NewSSEEmitter(c.Writer)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	if _, err := h.Orchestrator.Run(c.Request.Context(), req, em); err != nil {
		slog.Debug("generate-ideas: stream ended with error",
			slog.String("remote", c.ClientIP()),
			slog.Any("error", err))
	}
}

func HandleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func HandleMetrics(c *gin.Context) {
	c.String(http.StatusOK, engine.FormatMetrics())
}
