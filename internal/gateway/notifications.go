package gateway

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/gorilla/websocket"
	"github.com/soyeahso/safetalk/internal/domain"
	"github.com/soyeahso/safetalk/internal/masking"
	"github.com/soyeahso/safetalk/internal/notify"
	"github.com/soyeahso/safetalk/internal/reveal"
)

// maxFrameBytes caps inbound WebSocket frames.
const maxFrameBytes = 64 * 1024

// detectorClassifier adapts a Detector to the notification classifier.
type detectorClassifier struct {
	d Detector
}

func (c detectorClassifier) Classify(ctx context.Context, msg domain.InboundMessage) domain.ClassificationResult {
	if c.d == nil {
		return domain.Failed(msg.ID)
	}
	det, err := c.d.Detect(ctx, msg.RawText())
	if err != nil {
		return domain.Failed(msg.ID)
	}
	return domain.ClassificationResult{
		MessageID:   msg.ID,
		Status:      domain.StatusDone,
		IsHate:      det.IsHate,
		Explanation: det.Explanation,
	}
}

// handleNotifications hosts one notification surface per connection. The
// reveal schedule starts on connect and is cancelled when the socket closes.
func (s *Server) handleNotifications(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.log.Warn().Err(err).Msg("websocket upgrade failed")
		return
	}
	conn.SetReadLimit(maxFrameBytes)

	client := NewClient(conn, r.RemoteAddr, s.log.Sub("ws"))
	s.clients.Add(client)

	catalog := reveal.DefaultCatalog(s.cfg.Reveal.Delays)
	surface := notify.New(
		detectorClassifier{d: s.detector},
		masking.NewPolicy(reveal.HardFlaggedIndex),
		notify.WithListener(func(ev notify.Event) {
			name := EventNotificationCurrent
			if ev.Kind == notify.EventClassified {
				name = EventNotificationClassified
			}
			if err := client.SendEvent(name, ev.View, s.nextSeq()); err != nil {
				s.log.Debug().Err(err).Str("connId", client.ConnID).Msg("dropping event")
			}
		}),
		notify.WithHooks(s.hooks),
		notify.WithTimeout(s.cfg.Client.DetectTimeout),
		notify.WithLogger(s.log),
	)

	hello := Hello{
		Protocol: ProtocolVersion,
		ConnID:   client.ConnID,
		Version:  s.version,
		Messages: len(catalog),
		Methods:  []string{MethodView, MethodLike, MethodReply, MethodReplyDraft, MethodReplySend, MethodOpen},
		Events:   []string{EventNotificationCurrent, EventNotificationClassified},
	}
	if err := client.SendEvent(EventHello, hello, s.nextSeq()); err != nil {
		s.log.Warn().Err(err).Msg("failed to send hello")
		surface.Close()
		s.clients.Remove(client.ConnID)
		client.Close()
		return
	}

	handle := reveal.New(catalog, reveal.WithClock(s.clock), reveal.WithLogger(s.log)).Start(surface.Show)
	defer func() {
		handle.Cancel()
		surface.Close()
		s.clients.Remove(client.ConnID)
		client.Close()
	}()

	s.readLoop(client, surface)
}

// readLoop serves requests until the connection closes.
func (s *Server) readLoop(client *Client, surface *notify.Surface) {
	for {
		frame, err := client.ReadFrame()
		if err != nil {
			if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				s.log.Debug().Str("connId", client.ConnID).Msg("client closed connection")
			} else {
				s.log.Warn().Err(err).Str("connId", client.ConnID).Msg("read error")
			}
			return
		}
		if frame.Type != FrameTypeRequest {
			s.log.Debug().Str("type", frame.Type).Msg("ignoring non-request frame")
			continue
		}
		s.dispatch(client, surface, frame)
	}
}

// dispatch applies one request to the surface and answers with the
// resulting view (or the hand-off payload for open).
func (s *Server) dispatch(client *Client, surface *notify.Surface, frame Frame) {
	respond := func(payload any) {
		if err := client.Respond(frame.ID, payload); err != nil {
			s.log.Warn().Err(err).Str("method", frame.Method).Msg("failed to send response")
		}
	}
	fail := func(code, msg string) {
		client.RespondError(frame.ID, ErrorShape{Code: code, Message: msg})
	}

	switch frame.Method {
	case MethodView:
		respond(surface.View())
	case MethodLike:
		surface.Like()
		respond(surface.View())
	case MethodReply:
		surface.EnterReply()
		respond(surface.View())
	case MethodReplyDraft:
		var p DraftParams
		if len(frame.Params) > 0 {
			if err := json.Unmarshal(frame.Params, &p); err != nil {
				fail("invalid_params", err.Error())
				return
			}
		}
		surface.SetDraft(p.Text)
		respond(surface.View())
	case MethodReplySend:
		surface.SendReply()
		respond(surface.View())
	case MethodOpen:
		payload, ok := surface.Open()
		if !ok {
			fail("no_message", "no notification is showing yet")
			return
		}
		respond(payload)
	default:
		fail("method_not_found", "unknown method: "+frame.Method)
	}
}
