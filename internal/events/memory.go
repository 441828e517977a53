package events

import (
	"sync"

	"modelhost/pkg/types"
)

// MemorySink stores events in-memory for tests.
type MemorySink struct {
	mu       sync.Mutex
	progress []types.InstallProgress
	tokens   []types.ChatToken
	finished []types.ChatFinished
}

func NewMemorySink() *MemorySink { return &MemorySink{} }

func (s *MemorySink) InstallProgress(p types.InstallProgress) {
	s.mu.Lock()
	s.progress = append(s.progress, p)
	s.mu.Unlock()
}

func (s *MemorySink) ChatToken(t types.ChatToken) {
	s.mu.Lock()
	s.tokens = append(s.tokens, t)
	s.mu.Unlock()
}

func (s *MemorySink) ChatFinished(f types.ChatFinished) {
	s.mu.Lock()
	s.finished = append(s.finished, f)
	s.mu.Unlock()
}

func (s *MemorySink) Progress() []types.InstallProgress {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]types.InstallProgress, len(s.progress))
	copy(out, s.progress)
	return out
}

func (s *MemorySink) Tokens() []types.ChatToken {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]types.ChatToken, len(s.tokens))
	copy(out, s.tokens)
	return out
}

func (s *MemorySink) Finished() []types.ChatFinished {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]types.ChatFinished, len(s.finished))
	copy(out, s.finished)
	return out
}
