package httpapi

import (
	"encoding/json"
	"io"
	"net/http"

	"modelhost/pkg/types"
)

// lineStream adapts an HTTP response into an event sink: every event becomes
// one NDJSON line, flushed immediately so clients observe progress live.
// Events arrive from a single goroutine per request; no locking needed.
type lineStream struct {
	enc   *json.Encoder
	flush func()
	wrote bool
}

// newLineStream builds a sink writing to dst. dst is usually w itself, or a
// tee of it when debug logging is on; the flusher always comes from w.
func newLineStream(w http.ResponseWriter, dst io.Writer) *lineStream {
	ls := &lineStream{enc: json.NewEncoder(dst)}
	if f, ok := w.(http.Flusher); ok {
		ls.flush = f.Flush
	}
	return ls
}

func (s *lineStream) emit(v any) {
	s.wrote = true
	_ = s.enc.Encode(v)
	if s.flush != nil {
		s.flush()
	}
}

func (s *lineStream) InstallProgress(p types.InstallProgress) { s.emit(p) }

func (s *lineStream) ChatToken(t types.ChatToken) {
	tokensStreamedTotal.Inc()
	s.emit(t)
}

func (s *lineStream) ChatFinished(f types.ChatFinished) { s.emit(f) }
