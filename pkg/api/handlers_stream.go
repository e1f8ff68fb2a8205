package api

import (
	"net/http"
	"slices"
	"time"

	"github.com/gorilla/websocket"

	"github.com/dd0wney/cluso-chaingraph/pkg/logging"
	"github.com/dd0wney/cluso-chaingraph/pkg/pubsub"
)

const (
	streamWriteWait  = 10 * time.Second
	streamPongWait   = 60 * time.Second
	streamPingPeriod = streamPongWait * 9 / 10
)

func (s *Server) subscriberCount() int { return int(s.subscribers.Load()) }

// checkOrigin admits same-origin requests, clients that send no Origin,
// and origins the CORS policy allows
func (s *Server) checkOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" {
		return true
	}
	allowed := s.cors.Load().AllowedOrigins
	if slices.Contains(allowed, "*") || slices.Contains(allowed, origin) {
		return true
	}
	return origin == "http://"+r.Host || origin == "https://"+r.Host
}

// handleStream upgrades to a websocket and forwards analysis events. The
// optional topics parameter keeps only the listed event types, e.g.
// ?topics=communities,layout.
func (s *Server) handleStream(w http.ResponseWriter, r *http.Request) {
	max := s.Config().Server.StreamMaxSubscribers
	if max > 0 && s.subscriberCount() >= max {
		s.respondError(w, r, http.StatusServiceUnavailable, "subscriber limit reached")
		return
	}

	var types []string
	newQueryDecoder(r).Strings("topics", &types)

	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade has already written the error response
		requestLogger(r).Warn("Websocket upgrade failed", logging.Error(err))
		return
	}
	defer conn.Close()

	sub, err := s.stream.Subscribe(r.Context(), pubsub.TopicAnalysis)
	if err != nil {
		conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseGoingAway, "server shutting down"),
			time.Now().Add(streamWriteWait))
		return
	}
	defer sub.Unsubscribe()

	s.metrics.SetStreamSubscribers(int(s.subscribers.Add(1)))
	defer func() { s.metrics.SetStreamSubscribers(int(s.subscribers.Add(-1))) }()

	logger := requestLogger(r).With(logging.Component("stream"))
	logger.Info("Stream client connected", logging.Any("topics", types))

	closed := make(chan struct{})
	go func() {
		defer close(closed)
		conn.SetReadLimit(512)
		conn.SetReadDeadline(time.Now().Add(streamPongWait))
		conn.SetPongHandler(func(string) error {
			return conn.SetReadDeadline(time.Now().Add(streamPongWait))
		})
		for {
			if _, _, err := conn.NextReader(); err != nil {
				return
			}
		}
	}()

	ticker := time.NewTicker(streamPingPeriod)
	defer ticker.Stop()

	for {
		select {
		case event, ok := <-sub.Channel():
			if !ok {
				conn.WriteControl(websocket.CloseMessage,
					websocket.FormatCloseMessage(websocket.CloseGoingAway, "server shutting down"),
					time.Now().Add(streamWriteWait))
				return
			}
			if len(types) > 0 && !slices.Contains(types, event.Type) {
				continue
			}
			conn.SetWriteDeadline(time.Now().Add(streamWriteWait))
			if err := conn.WriteJSON(event); err != nil {
				logger.Warn("Failed to write stream event", logging.Error(err))
				return
			}
		case <-ticker.C:
			if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(streamWriteWait)); err != nil {
				return
			}
		case <-closed:
			logger.Info("Stream client disconnected")
			return
		}
	}
}
