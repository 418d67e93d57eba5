package gateway

import "net/http"

// routeMethods lists the method each known path answers to. Requests for a
// known path with another method get 405 instead of falling through to 404.
var routeMethods = map[string]string{
	"/health":           http.MethodGet,
	"/detect-hate":      http.MethodPost,
	"/chat-avatar":      http.MethodPost,
	"/detections":       http.MethodGet,
	"/metrics":          http.MethodGet,
	"/ws/notifications": http.MethodGet,
}

// registerHTTPRoutes sets up all HTTP routes on the server mux.
func (s *Server) registerHTTPRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /health", s.handleHealth)
	mux.HandleFunc("POST /detect-hate", s.limited(s.handleDetect))
	mux.HandleFunc("POST /chat-avatar", s.limited(s.handleChatAvatar))
	mux.HandleFunc("GET /detections", s.handleDetections)
	mux.Handle("GET /metrics", s.metrics.handler())
	mux.HandleFunc("GET /ws/notifications", s.limited(s.handleNotifications))

	mux.HandleFunc("/", handleNotFound)
}
