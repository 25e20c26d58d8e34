package httpapi

import (
	"encoding/base64"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"chatbot/internal/application"
	"chatbot/internal/domain"
	"chatbot/internal/infra/metrics"
)

const browserFallback = "browser-tts"

type chatRequest struct {
	Message string `json:"message"`
}

type speechRequest struct {
	Text  string `json:"text"`
	Voice string `json:"voice"`
}

type saveConfigRequest struct {
	Categories *domain.Categories `json:"categories"`
	Metadata   domain.Metadata    `json:"metadata"`
}

type audioResponse struct {
	Audio    string               `json:"audio"`
	Format   domain.AudioFormat   `json:"format"`
	MimeType string               `json:"mimeType"`
	Provider domain.VoiceProvider `json:"provider"`
	Size     int                  `json:"size"`
}

func (s *Server) handleHealth(c *gin.Context) {
	cfg := s.config.Snapshot()
	c.JSON(http.StatusOK, gin.H{
		"status":     "ok",
		"aiEnabled":  s.opts.AIEnabled,
		"categories": cfg.Categories.Len(),
		"uptime":     time.Since(s.started).Round(time.Second).String(),
		"timestamp":  time.Now().UTC(),
	})
}

func (s *Server) handleChat(c *gin.Context) {
	var req chatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	start := time.Now()
	reply, err := s.assistant.Reply(c.Request.Context(), req.Message)
	if errors.Is(err, domain.ErrEmptyMessage) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Message is required"})
		return
	}
	if err != nil {
		s.logger.Error("chat reply failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to process message"})
		return
	}

	metrics.RecordChatReply(string(reply.Mode), reply.Category, time.Since(start).Seconds())
	c.JSON(http.StatusOK, reply)
}

func (s *Server) handleTTS(c *gin.Context) {
	var req speechRequest
	if err := c.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.Text) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Text is required"})
		return
	}

	settings, priority := application.VoicePreferences(s.config.Snapshot().Metadata)
	if req.Voice != "" {
		settings = s.withVoice(settings, req.Voice)
	}

	clip, err := s.voices.Synthesize(c.Request.Context(), req.Text, settings, priority)
	if err != nil {
		metrics.RecordTTS("chain", "fallback")
		s.unavailable(c, err)
		return
	}
	metrics.RecordTTS(string(clip.Provider), "ok")
	c.JSON(http.StatusOK, encodeAudio(clip))
}

func (s *Server) handleProvider(name domain.VoiceProvider) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req speechRequest
		if err := c.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.Text) == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Text is required"})
			return
		}

		provider, ok := s.voices.Provider(name)
		if !ok {
			metrics.RecordTTS(string(name), "unconfigured")
			s.unavailable(c, domain.ErrProviderNotConfigured)
			return
		}

		voice := req.Voice
		if voice == "" {
			settings, _ := application.VoicePreferences(s.config.Snapshot().Metadata)
			voice = settings.VoiceFor(name)
		}

		clip, err := provider.Synthesize(c.Request.Context(), req.Text, voice)
		if err != nil {
			metrics.RecordTTS(string(name), "error")
			s.unavailable(c, err)
			return
		}
		metrics.RecordTTS(string(name), "ok")
		c.JSON(http.StatusOK, encodeAudio(clip))
	}
}

func (s *Server) handlePreview(c *gin.Context) {
	var req speechRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Voice == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Voice is required"})
		return
	}

	clip, err := s.voices.Preview(c.Request.Context(), req.Text, req.Voice)
	if err != nil {
		metrics.RecordTTS("preview", "error")
		s.unavailable(c, err)
		return
	}
	metrics.RecordTTS(string(clip.Provider), "ok")
	c.Data(http.StatusOK, clip.Format.MIMEType(), clip.Data)
}

func (s *Server) handleGetConfig(c *gin.Context) {
	cfg := s.config.Snapshot()
	c.JSON(http.StatusOK, gin.H{
		"categories": cfg.Categories,
		"metadata":   cfg.Metadata,
	})
}

func (s *Server) handleSaveConfig(c *gin.Context) {
	var req saveConfigRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid configuration", "details": err.Error()})
		return
	}
	if req.Categories == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Categories are required"})
		return
	}

	cfg, err := s.config.Update(c.Request.Context(), req.Categories, req.Metadata)
	if err != nil {
		metrics.RecordConfigSave("error")
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Failed to save configuration",
			"details": err.Error(),
		})
		return
	}

	metrics.RecordConfigSave("ok")
	c.JSON(http.StatusOK, gin.H{
		"success":    true,
		"message":    "Configuration saved",
		"categories": cfg.Categories,
		"metadata":   cfg.Metadata,
	})
}

// unavailable tells the client to speak the text with its own engine.
func (s *Server) unavailable(c *gin.Context, err error) {
	s.logger.Warn("speech synthesis unavailable", "path", c.Request.URL.Path, "error", err)
	c.JSON(http.StatusServiceUnavailable, gin.H{
		"error":    err.Error(),
		"fallback": browserFallback,
	})
}

// withVoice routes an explicit voice name to the provider that owns it.
func (s *Server) withVoice(settings domain.VoiceSettings, voice string) domain.VoiceSettings {
	for _, name := range []domain.VoiceProvider{domain.ProviderPolly, domain.ProviderBark, domain.ProviderElevenLabs} {
		p, ok := s.voices.Provider(name)
		if !ok || !p.Supports(voice) {
			continue
		}
		switch name {
		case domain.ProviderPolly:
			settings.SelectedVoice = voice
		case domain.ProviderBark:
			settings.BarkVoice = voice
		case domain.ProviderElevenLabs:
			settings.ElevenLabsVoice = voice
		}
		return settings
	}
	return settings
}

func encodeAudio(clip *domain.Audio) audioResponse {
	return audioResponse{
		Audio:    base64.StdEncoding.EncodeToString(clip.Data),
		Format:   clip.Format,
		MimeType: clip.Format.MIMEType(),
		Provider: clip.Provider,
		Size:     len(clip.Data),
	}
}
