package gateway

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/soyeahso/safetalk/internal/hooks"
	"github.com/soyeahso/safetalk/internal/llm"
	"github.com/soyeahso/safetalk/internal/store"
)

// maxBodyBytes caps POST bodies.
const maxBodyBytes = 1 << 20

// HealthResponse is returned by GET /health.
type HealthResponse struct {
	Status  string  `json:"status"`
	Version string  `json:"version,omitempty"`
	Uptime  float64 `json:"uptimeSeconds"`
}

// DetectRequest is the body of POST /detect-hate.
type DetectRequest struct {
	Text string `json:"text"`
}

// ChatRequest is the body of POST /chat-avatar.
type ChatRequest struct {
	Messages []llm.Message `json:"messages"`
	Model    string        `json:"model,omitempty"`
}

// ChatResponse is returned by POST /chat-avatar.
type ChatResponse struct {
	Content string `json:"content"`
}

// DetectionsResponse is returned by GET /detections.
type DetectionsResponse struct {
	Stats  store.DetectionStats    `json:"stats"`
	Recent []store.DetectionRecord `json:"recent"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// writeDetail writes an error body in the {"detail": ...} shape the front
// end reads.
func writeDetail(w http.ResponseWriter, status int, detail string) {
	writeJSON(w, status, map[string]string{"detail": detail})
}

func decodeBody(w http.ResponseWriter, r *http.Request, v any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	dec := json.NewDecoder(r.Body)
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("invalid request body: %w", err)
	}
	return nil
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, HealthResponse{
		Status:  "ok",
		Version: s.version,
		Uptime:  s.Uptime().Seconds(),
	})
}

func handleNotFound(w http.ResponseWriter, r *http.Request) {
	if method, ok := routeMethods[r.URL.Path]; ok {
		allow := method
		if method == http.MethodGet {
			allow += ", " + http.MethodHead
		}
		w.Header().Set("Allow", allow)
		writeDetail(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	writeDetail(w, http.StatusNotFound, "not found: "+r.URL.Path)
}

func (s *Server) handleDetect(w http.ResponseWriter, r *http.Request) {
	var req DetectRequest
	if err := decodeBody(w, r, &req); err != nil {
		writeDetail(w, http.StatusBadRequest, err.Error())
		return
	}
	if strings.TrimSpace(req.Text) == "" {
		writeDetail(w, http.StatusBadRequest, "text must not be empty")
		return
	}
	if s.detector == nil {
		s.metrics.detections.WithLabelValues("error").Inc()
		writeDetail(w, http.StatusInternalServerError, "detector not configured (set OPENROUTER_API_KEY or detector.provider)")
		return
	}

	det, err := s.detector.Detect(r.Context(), req.Text)
	if err != nil {
		s.metrics.detections.WithLabelValues("error").Inc()
		s.log.Warn().Err(err).Msg("detection failed")
		writeDetail(w, http.StatusInternalServerError, err.Error())
		return
	}

	verdict := "safe"
	if det.IsHate {
		verdict = "hate"
	}
	s.metrics.detections.WithLabelValues(verdict).Inc()

	textLen := utf8.RuneCountInString(req.Text)
	if s.detections != nil {
		if _, err := s.detections.Record(r.Context(), textLen, det); err != nil {
			s.log.Warn().Err(err).Msg("failed to record detection")
		}
	}
	s.hooks.Emit(r.Context(), hooks.EventDetectionServed, map[string]any{
		"isHate": det.IsHate,
		"label":  det.Label,
		"score":  det.ToxicityScore,
	})

	writeJSON(w, http.StatusOK, det)
}

func (s *Server) handleChatAvatar(w http.ResponseWriter, r *http.Request) {
	var req ChatRequest
	if err := decodeBody(w, r, &req); err != nil {
		writeDetail(w, http.StatusBadRequest, err.Error())
		return
	}
	model := req.Model
	if model == "" {
		model = s.cfg.AvatarChat.Model
	}
	if s.avatar == nil {
		s.metrics.chats.WithLabelValues("error").Inc()
		writeDetail(w, http.StatusBadGateway, unavailableDetail("no avatar chat provider configured", model))
		return
	}

	prompt := s.cfg.AvatarChat.SystemPrompt
	if prompt == "" {
		prompt = DefaultAvatarSystemPrompt
	}
	ctx, cancel := withOptionalTimeout(r.Context(), s.cfg.AvatarChat.Timeout)
	defer cancel()

	resp, err := s.avatar.Complete(ctx, llm.CompletionRequest{
		Model:    model,
		System:   prompt,
		Messages: req.Messages,
	})
	if err != nil {
		s.metrics.chats.WithLabelValues("error").Inc()
		s.log.Warn().Err(err).Str("model", model).Msg("avatar chat failed")
		writeDetail(w, http.StatusBadGateway, unavailableDetail(err.Error(), model))
		return
	}

	reply := TruncateReply(StripThink(resp.Content), s.cfg.AvatarChat.MaxReplyChars)
	s.metrics.chats.WithLabelValues("ok").Inc()
	writeJSON(w, http.StatusOK, ChatResponse{Content: reply})
}

func unavailableDetail(cause, model string) string {
	return fmt.Sprintf("Ollama unavailable or error: %s. Is Ollama running and is the model pulled? Try: ollama run %s", cause, model)
}

func (s *Server) handleDetections(w http.ResponseWriter, r *http.Request) {
	if s.detections == nil {
		writeDetail(w, http.StatusNotFound, "detection log disabled")
		return
	}
	limit := 20
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			writeDetail(w, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		limit = min(n, 500)
	}

	stats, err := s.detections.Stats(r.Context())
	if err != nil {
		writeDetail(w, http.StatusInternalServerError, err.Error())
		return
	}
	recent, err := s.detections.Recent(r.Context(), limit)
	if err != nil {
		writeDetail(w, http.StatusInternalServerError, err.Error())
		return
	}
	if recent == nil {
		recent = []store.DetectionRecord{}
	}
	writeJSON(w, http.StatusOK, DetectionsResponse{Stats: stats, Recent: recent})
}

func withOptionalTimeout(ctx context.Context, d time.Duration) (context.Context, context.CancelFunc) {
	if d <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, d)
}
