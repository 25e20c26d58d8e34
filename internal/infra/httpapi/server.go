package httpapi

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/cors"

	"chatbot/internal/application"
	"chatbot/internal/domain"
)

type Options struct {
	Addr           string
	ReadTimeout    time.Duration
	WriteTimeout   time.Duration
	RateLimit      int // requests per minute and IP on chat and speech routes
	RateBurst      int
	AllowedOrigins []string
	AIEnabled      bool
}

func DefaultOptions() Options {
	return Options{
		Addr:           ":8080",
		ReadTimeout:    15 * time.Second,
		WriteTimeout:   60 * time.Second,
		RateLimit:      30,
		RateBurst:      10,
		AllowedOrigins: []string{"*"},
	}
}

// Server exposes the chat, speech and admin endpoints.
type Server struct {
	opts      Options
	assistant *application.Assistant
	config    *application.ConfigService
	voices    *application.VoiceRouter
	logger    *slog.Logger

	handler http.Handler
	server  *http.Server
	mu      sync.Mutex
	running bool
	started time.Time
}

func NewServer(opts Options, assistant *application.Assistant, config *application.ConfigService, voices *application.VoiceRouter, logger *slog.Logger) *Server {
	gin.SetMode(gin.ReleaseMode)

	s := &Server{
		opts:      opts,
		assistant: assistant,
		config:    config,
		voices:    voices,
		logger:    logger,
		started:   time.Now(),
	}

	limiter := NewRateLimiter(opts.RateLimit, opts.RateBurst)

	r := gin.New()
	r.Use(gin.Recovery(), s.requestLogger())

	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := r.Group("/api")
	api.GET("/health", s.handleHealth)

	limited := api.Group("", limiter.Middleware(), limitBody(64<<10))
	limited.POST("/chat", s.handleChat)
	limited.POST("/tts", s.handleTTS)
	limited.POST("/tts-preview", s.handlePreview)
	limited.POST("/polly", s.handleProvider(domain.ProviderPolly))
	limited.POST("/bark", s.handleProvider(domain.ProviderBark))
	limited.POST("/elevenlabs", s.handleProvider(domain.ProviderElevenLabs))

	admin := api.Group("/admin", limitBody(1<<20))
	admin.GET("/get-config", s.handleGetConfig)
	admin.POST("/save-config", s.handleSaveConfig)

	c := cors.New(cors.Options{
		AllowedOrigins: opts.AllowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type", "Authorization"},
		ExposedHeaders: []string{"X-Request-ID"},
	})
	s.handler = c.Handler(r)
	return s
}

func (s *Server) Handler() http.Handler {
	return s.handler
}

func (s *Server) Start(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running {
		return nil
	}

	s.server = &http.Server{
		Addr:         s.opts.Addr,
		Handler:      s.handler,
		ReadTimeout:  s.opts.ReadTimeout,
		WriteTimeout: s.opts.WriteTimeout,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		s.logger.Info("HTTP server starting", "addr", s.opts.Addr)
		if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			s.logger.Error("HTTP server error", "error", err)
		}
	}()

	s.running = true
	return nil
}

func (s *Server) Stop() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.running {
		return nil
	}

	if s.server != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := s.server.Shutdown(ctx); err != nil {
			s.logger.Warn("graceful shutdown failed, forcing close", "error", err)
			if err := s.server.Close(); err != nil {
				return fmt.Errorf("closing server: %w", err)
			}
		}
	}

	s.running = false
	return nil
}

func (s *Server) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		requestID := uuid.NewString()
		c.Set("request_id", requestID)
		c.Header("X-Request-ID", requestID)

		c.Next()

		if c.Request.URL.Path == "/metrics" {
			return
		}
		s.logger.Debug("http request",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"duration", time.Since(start),
			"request_id", requestID,
		)
	}
}

func limitBody(n int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, n)
		c.Next()
	}
}
