// Package engine runs text generation in-process against a loaded model.
// A single Context holds at most one runtime; loading a new model replaces
// and frees the previous one, and generation holds the context for its whole
// duration so concurrent requests serialize instead of interleaving.
package engine

import (
	"context"
	"fmt"
	"sync"

	"github.com/rs/zerolog"

	"modelhost/internal/events"
)

// Token is a runtime token id.
type Token int32

// Runtime is the common surface of every loaded-model backend.
type Runtime interface {
	Close() error
}

// StepRuntime is a backend that exposes stepwise decoding. The generation
// loop (greedy pick, EOS stop, token cap) lives in the session, not the
// backend.
type StepRuntime interface {
	Runtime
	Tokenize(prompt string) ([]Token, error)
	// ResetCache clears any decode state carried over from a previous turn.
	ResetCache()
	// Decode feeds tokens starting at position pos.
	Decode(tokens []Token, pos int) error
	// Greedy returns the arg-max token over the logits of the last decode.
	Greedy() (Token, error)
	IsEOS(t Token) bool
	TokenText(t Token) string
}

// StreamRuntime is a backend that runs the whole generation itself and
// streams token text through a callback. The callback returning an error
// aborts generation.
type StreamRuntime interface {
	Runtime
	Generate(ctx context.Context, prompt string, maxTokens int, onToken func(text string) error) error
}

// RuntimeLoader constructs a runtime from a weights file.
type RuntimeLoader func(path string, ctxSize int) (Runtime, error)

// ContextConfig holds Context construction parameters.
type ContextConfig struct {
	CtxSize   int
	MaxTokens int
	// Loader defaults to the llama backend compiled into this binary.
	Loader RuntimeLoader
	Logger zerolog.Logger
}

// Context is the engine's single model slot.
type Context struct {
	cfg ContextConfig

	mu     sync.Mutex
	rt     Runtime
	loaded string
}

// LlamaBuilt reports whether this binary carries the in-process llama
// backend.
func LlamaBuilt() bool { return llamaBuilt }

// NewContext constructs an empty Context.
func NewContext(cfg ContextConfig) *Context {
	if cfg.CtxSize <= 0 {
		cfg.CtxSize = 2048
	}
	if cfg.MaxTokens <= 0 {
		cfg.MaxTokens = 200
	}
	if cfg.Loader == nil {
		cfg.Loader = newLlamaRuntime
	}
	return &Context{cfg: cfg}
}

// LoadModel loads the weights at path, replacing any previously loaded
// runtime. On failure the slot is left empty, never pointing at the old
// model.
func (c *Context) LoadModel(path string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.rt != nil {
		old := c.rt
		c.rt = nil
		c.loaded = ""
		if err := old.Close(); err != nil {
			c.cfg.Logger.Warn().Err(err).Msg("closing previous runtime")
		}
	}
	rt, err := c.cfg.Loader(path, c.cfg.CtxSize)
	if err != nil {
		if IsEngineUnavailable(err) {
			return err
		}
		return ErrLoad(fmt.Sprintf("load %s: %v", path, err))
	}
	c.rt = rt
	c.loaded = path
	c.cfg.Logger.Info().Str("path", path).Int("ctx_size", c.cfg.CtxSize).Msg("model loaded")
	return nil
}

// LoadedPath returns the weights path of the loaded model, "" when empty.
func (c *Context) LoadedPath() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.loaded
}

// Ready reports whether a model is loaded.
func (c *Context) Ready() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.rt != nil
}

// Generate runs one generation over the loaded model, streaming tokens to
// the sink. The context lock is held for the entire generation, so a second
// caller blocks until the first finishes. Exactly one ChatFinished event is
// emitted per call that reaches a runtime.
func (c *Context) Generate(ctx context.Context, prompt string, sink events.Sink) error {
	if sink == nil {
		sink = events.NopSink{}
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.rt == nil {
		return ErrEngineUnavailable("no model loaded")
	}
	s := &session{rt: c.rt, maxTokens: c.cfg.MaxTokens, sink: sink, log: c.cfg.Logger}
	return s.run(ctx, prompt)
}

// Close frees the loaded runtime, if any.
func (c *Context) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.rt == nil {
		return nil
	}
	err := c.rt.Close()
	c.rt = nil
	c.loaded = ""
	return err
}
