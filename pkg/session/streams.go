package session

import (
	"log/slog"
	"sync"

	"github.com/aretw0/algotrace/pkg/playback"
)

// Event types.
const (
	EventStep  = "step"
	EventPlay  = "play"
	EventPause = "pause"
	EventReset = "reset"
)

// Event is what subscribers receive. Emission is set for EventStep.
type Event struct {
	Type     string             `json:"type"`
	Emission *playback.Emission `json:"emission,omitempty"`
}

// subscriberBuffer bounds each subscriber channel. Slow readers lose events.
const subscriberBuffer = 10

// streams fans events out per session.
type streams struct {
	mu          sync.RWMutex
	subscribers map[string]map[chan Event]struct{} // session ID -> set of channels
	logger      *slog.Logger
}

func newStreams(logger *slog.Logger) *streams {
	return &streams{
		subscribers: make(map[string]map[chan Event]struct{}),
		logger:      logger,
	}
}

func (s *streams) subscribe(sessionID string) (<-chan Event, func()) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ch := make(chan Event, subscriberBuffer)
	if _, ok := s.subscribers[sessionID]; !ok {
		s.subscribers[sessionID] = make(map[chan Event]struct{})
	}
	s.subscribers[sessionID][ch] = struct{}{}

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			s.mu.Lock()
			defer s.mu.Unlock()
			if subs, ok := s.subscribers[sessionID]; ok {
				if _, live := subs[ch]; live {
					delete(subs, ch)
					close(ch)
				}
				if len(subs) == 0 {
					delete(s.subscribers, sessionID)
				}
			}
		})
	}
}

func (s *streams) broadcast(sessionID string, ev Event) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for ch := range s.subscribers[sessionID] {
		select {
		case ch <- ev:
		default:
			s.logger.Warn("subscriber buffer full, dropping event", "session_id", sessionID, "type", ev.Type)
		}
	}
}

// closeSession closes every channel of the session so readers terminate.
func (s *streams) closeSession(sessionID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for ch := range s.subscribers[sessionID] {
		close(ch)
	}
	delete(s.subscribers, sessionID)
}

func (s *streams) count(sessionID string) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.subscribers[sessionID])
}
