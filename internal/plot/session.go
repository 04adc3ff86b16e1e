package plot

import "sync"

// Session remembers which topic was charted last during an interactive run.
type Session struct {
	mu    sync.Mutex
	topic string
	files []string
}

// Record stores the charts just written for topic and returns the topic
// they supersede, or "" on the first plot of the session.
func (s *Session) Record(topic string, files []string) (previous string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	previous = s.topic
	s.topic = topic
	s.files = append([]string(nil), files...)
	return previous
}

// Last returns the most recently charted topic and its files.
func (s *Session) Last() (string, []string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.topic, append([]string(nil), s.files...)
}
