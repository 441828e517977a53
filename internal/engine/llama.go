//go:build llama

package engine

import (
	"context"
	"fmt"
	"strings"

	llama "github.com/go-skynet/go-llama.cpp"
)

// llamaBuilt indicates this binary was compiled with real llama support.
var llamaBuilt = true

// llamaRuntime runs generation in-process through go-llama.cpp. The binding
// only exposes callback streaming, so it implements StreamRuntime; greedy
// decoding is selected through the predict options.
type llamaRuntime struct {
	model   *llama.LLama
	ctxSize int
}

func newLlamaRuntime(path string, ctxSize int) (Runtime, error) {
	if strings.TrimSpace(path) == "" {
		return nil, ErrLoad("model path is empty")
	}
	m, err := llama.New(path, llama.SetContext(ctxSize))
	if err != nil {
		return nil, ErrLoad(fmt.Sprintf("load %s: %v", path, err))
	}
	return &llamaRuntime{model: m, ctxSize: ctxSize}, nil
}

func (r *llamaRuntime) Generate(ctx context.Context, prompt string, maxTokens int, onToken func(string) error) error {
	if r.model == nil {
		return ErrEngineUnavailable("llama model not initialized")
	}
	r.model.SetTokenCallback(func(tok string) bool {
		select {
		case <-ctx.Done():
			return false
		default:
		}
		if err := onToken(tok); err != nil {
			return false
		}
		return true
	})
	// Temperature 0 / top-k 1 makes prediction deterministic greedy.
	_, err := r.model.Predict(prompt,
		llama.SetTokens(maxTokens),
		llama.SetTemperature(0),
		llama.SetTopK(1),
	)
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return err
	}
	return nil
}

func (r *llamaRuntime) Close() error {
	if r.model != nil {
		r.model.Free()
		r.model = nil
	}
	return nil
}
