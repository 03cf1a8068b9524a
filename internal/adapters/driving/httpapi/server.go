package httpapi

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/custodia-labs/webrecall/internal/logger"
)

// DefaultAddr matches the port the browser extension expects.
const DefaultAddr = "localhost:5000"

const (
	shutdownTimeout = 10 * time.Second

	// maxUploadBytes bounds /index/pdf uploads.
	maxUploadBytes = 32 << 20
)

// Server is the HTTP API.
type Server struct {
	ports  *Ports
	engine *gin.Engine
}

// NewServer creates the API and registers its routes.
func NewServer(ports *Ports) (*Server, error) {
	if err := ports.Validate(); err != nil {
		return nil, err
	}

	engine := gin.New()
	engine.Use(gin.Recovery(), requestLog(), cors())
	engine.MaxMultipartMemory = maxUploadBytes

	s := &Server{ports: ports, engine: engine}
	s.routes()
	return s, nil
}

func (s *Server) routes() {
	s.engine.GET("/health", s.health)
	s.engine.POST("/index", s.indexPage)
	s.engine.POST("/index/pdf", s.indexPDF)
	s.engine.GET("/search", s.search)
	s.engine.POST("/chat", s.chat)
	s.engine.GET("/stats", s.stats)
	s.engine.POST("/clear", s.clear)
}

// Handler returns the routed handler.
func (s *Server) Handler() http.Handler {
	return s.engine
}

// Run serves on addr until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	if addr == "" {
		addr = DefaultAddr
	}

	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}
	return s.Serve(ctx, ln)
}

// Serve serves on ln until ctx is cancelled.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("HTTP API listening on http://%s", ln.Addr())
		errCh <- srv.Serve(ln)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	logger.Info("HTTP API stopped")
	return nil
}
