// Package httpapi exposes the note service over HTTP with gin.
package httpapi

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"dovakin0007.com/notes-moderation/internal/auth"
	"dovakin0007.com/notes-moderation/internal/metrics"
	"dovakin0007.com/notes-moderation/internal/notes"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

type Deps struct {
	Service *notes.Service
	Signer  *auth.Signer
	Metrics *metrics.Metrics
	Logger  zerolog.Logger
}

func NewRouter(d Deps) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), LoggerMiddleware(d.Logger), MetricsMiddleware(d.Metrics))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	if d.Metrics != nil {
		r.GET("/metrics", gin.WrapH(d.Metrics.Handler()))
	}

	h := NewNoteHandler(d.Service)
	api := r.Group("/", OptionalAuth(d.Signer))
	NoteRoutes(api, h)
	AdminRoutes(api.Group("/admin"), h)
	return r
}

func NoteRoutes(rg *gin.RouterGroup, h *NoteHandler) {
	rg.GET("/public-notes", h.PublicNotes)

	group := rg.Group("/notes")
	{
		group.GET("", h.ListNotes)
		group.POST("", h.CreateNote)
		group.GET("/:id", h.GetNote)
		group.PUT("/:id", h.UpdateNote)
		group.DELETE("/:id", h.DeleteNote)
		group.POST("/:id/submit", h.SubmitNote)
	}
}

func AdminRoutes(rg *gin.RouterGroup, h *NoteHandler) {
	rg.GET("/pending-notes", h.PendingNotes)
	rg.POST("/notes/:id/approve", h.ApproveNote)
	rg.POST("/notes/:id/reject", h.RejectNote)
}

// Server runs the gin engine on a plain net/http server.
type Server struct {
	srv             *http.Server
	shutdownTimeout time.Duration
	log             zerolog.Logger
}

func NewServer(port int, handler http.Handler, shutdownTimeout time.Duration, log zerolog.Logger) *Server {
	return &Server{
		srv: &http.Server{
			Addr:              fmt.Sprintf(":%d", port),
			Handler:           handler,
			ReadHeaderTimeout: 10 * time.Second,
		},
		shutdownTimeout: shutdownTimeout,
		log:             log,
	}
}

func (s *Server) Run() error {
	s.log.Info().Str("addr", s.srv.Addr).Msg("HTTP server running")
	if err := s.srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("http server: %w", err)
	}
	return nil
}

func (s *Server) End() {
	s.log.Info().Msg("stopping HTTP server")
	ctx, cancel := context.WithTimeout(context.Background(), s.shutdownTimeout)
	defer cancel()
	if err := s.srv.Shutdown(ctx); err != nil {
		s.log.Warn().Err(err).Msg("http shutdown")
	}
}
