package api

import (
	"encoding/json"
	"fmt"
	"net/http"
)

// handleSSE streams investigation lifecycle events to the client.
func (s *Server) handleSSE(w http.ResponseWriter, r *http.Request) {
	if s.bus == nil {
		respondError(w, http.StatusNotImplemented, "event streaming is not enabled")
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		respondError(w, http.StatusInternalServerError, "streaming not supported")
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no")

	ch := s.bus.Subscribe()
	defer s.bus.Unsubscribe(ch)

	s.log.Info("sse client connected", "remote_addr", r.RemoteAddr)
	s.writeSSE(w, flusher, "connected", map[string]string{"status": "connected"})

	ctx := r.Context()
	for {
		select {
		case <-ctx.Done():
			s.log.Info("sse client disconnected", "remote_addr", r.RemoteAddr)
			return
		case event, ok := <-ch:
			if !ok {
				return
			}
			s.writeSSE(w, flusher, event.EventType(), event)
		}
	}
}

func (s *Server) writeSSE(w http.ResponseWriter, flusher http.Flusher, eventType string, data interface{}) {
	payload, err := json.Marshal(data)
	if err != nil {
		s.log.Error("failed to marshal sse payload", "type", eventType, "error", err)
		return
	}
	fmt.Fprintf(w, "event: %s\n", eventType)
	fmt.Fprintf(w, "data: %s\n\n", payload)
	flusher.Flush()
}
