package http

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/aretw0/algotrace/pkg/playback"
	"github.com/aretw0/algotrace/pkg/session"
)

// OpenSessionRequest is the body of POST /sessions.
type OpenSessionRequest struct {
	BuildRequest
	Speed *float64 `json:"speed,omitempty"`
	Loop  *bool    `json:"loop,omitempty"`
}

// SessionStatus describes a session and its player.
type SessionStatus struct {
	ID          string            `json:"id"`
	AlgorithmID string            `json:"algorithmId"`
	State       string            `json:"state"`
	Speed       float64           `json:"speed"`
	Loop        bool              `json:"loop"`
	IntervalMS  int64             `json:"intervalMs"`
	Emission    playback.Emission `json:"emission"`
}

func statusOf(sess *session.Session) SessionStatus {
	p := sess.Player
	return SessionStatus{
		ID:          sess.ID,
		AlgorithmID: sess.Algorithm,
		State:       p.State().String(),
		Speed:       p.Speed(),
		Loop:        p.Loop(),
		IntervalMS:  p.Interval().Milliseconds(),
		Emission:    p.Current(),
	}
}

// ListSessions handles the GET /sessions request.
func (s *Server) ListSessions(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string][]string{"sessions": s.Sessions.List()})
}

// OpenSession handles the POST /sessions request.
func (s *Server) OpenSession(w http.ResponseWriter, r *http.Request) {
	var body OpenSessionRequest
	if err := s.bodies.decode(r, "OpenSessionRequest", &body); err != nil {
		s.logger.Warn("OpenSession: Invalid request body", "error", err)
		s.writeError(w, err)
		return
	}

	run, err := s.Engine.Build(r.Context(), body.AlgorithmID, body.Input)
	if err != nil {
		s.writeError(w, err)
		return
	}

	var opts []playback.Option
	if body.Speed != nil {
		opts = append(opts, playback.WithSpeed(*body.Speed))
	}
	if body.Loop != nil {
		opts = append(opts, playback.WithLoop(*body.Loop))
	}
	sess := s.Sessions.Open(run, body.Input, opts...)

	w.Header().Set("Location", "/sessions/"+sess.ID)
	s.writeJSON(w, http.StatusCreated, statusOf(sess))
}

// GetSession handles the GET /sessions/{id} request.
func (s *Server) GetSession(w http.ResponseWriter, r *http.Request) {
	sess, err := s.Sessions.Get(chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, statusOf(sess))
}

// CloseSession handles the DELETE /sessions/{id} request.
func (s *Server) CloseSession(w http.ResponseWriter, r *http.Request) {
	if err := s.Sessions.Close(chi.URLParam(r, "id")); err != nil {
		s.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type command func(*playback.Player)

var (
	cmdForward  command = func(p *playback.Player) { p.StepForward() }
	cmdBackward command = func(p *playback.Player) { p.StepBackward() }
	cmdReset    command = (*playback.Player).Reset
	cmdPlay     command = (*playback.Player).Play
	cmdPause    command = (*playback.Player).Pause
)

// command adapts a player operation to a POST /sessions/{id}/<op> handler.
func (s *Server) command(run command) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess, err := s.Sessions.Get(chi.URLParam(r, "id"))
		if err != nil {
			s.writeError(w, err)
			return
		}
		run(sess.Player)
		s.writeJSON(w, http.StatusOK, statusOf(sess))
	}
}

// SetSpeed handles the PUT /sessions/{id}/speed request.
func (s *Server) SetSpeed(w http.ResponseWriter, r *http.Request) {
	sess, err := s.Sessions.Get(chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, err)
		return
	}
	var body struct {
		Speed float64 `json:"speed"`
	}
	if err := s.bodies.decode(r, "SpeedRequest", &body); err != nil {
		s.writeError(w, err)
		return
	}
	sess.Player.SetSpeed(body.Speed)
	s.writeJSON(w, http.StatusOK, statusOf(sess))
}

// SetLoop handles the PUT /sessions/{id}/loop request.
func (s *Server) SetLoop(w http.ResponseWriter, r *http.Request) {
	sess, err := s.Sessions.Get(chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, err)
		return
	}
	var body struct {
		Loop bool `json:"loop"`
	}
	if err := s.bodies.decode(r, "LoopRequest", &body); err != nil {
		s.writeError(w, err)
		return
	}
	sess.Player.SetLoop(body.Loop)
	s.writeJSON(w, http.StatusOK, statusOf(sess))
}

// SubscribeEvents handles the GET /sessions/{id}/events request (SSE).
// Each player event is sent with its type as the SSE event name.
func (s *Server) SubscribeEvents(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "Streaming not supported", http.StatusInternalServerError)
		s.logger.Error("SubscribeEvents: Streaming not supported")
		return
	}

	sessionID := chi.URLParam(r, "id")
	ch, cancel, err := s.Sessions.Subscribe(sessionID)
	if err != nil {
		s.writeError(w, err)
		return
	}
	defer cancel()
	s.logger.Info("SSE: Subscribing to session events", "session_id", sessionID)

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	fmt.Fprintf(w, "event: ping\ndata: connected\n\n")
	flusher.Flush()

	for {
		select {
		case <-r.Context().Done():
			s.logger.Info("SSE Client Disconnected", "session_id", sessionID)
			return
		case ev, ok := <-ch:
			if !ok {
				fmt.Fprintf(w, "event: close\ndata: session closed\n\n")
				flusher.Flush()
				return
			}
			payload, err := json.Marshal(ev)
			if err != nil {
				s.logger.Error("SSE: event encode failed", "error", err)
				continue
			}
			fmt.Fprintf(w, "event: %s\ndata: %s\n\n", ev.Type, payload)
			flusher.Flush()
		}
	}
}
