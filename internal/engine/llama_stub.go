//go:build !llama

package engine

// This file provides a no-CGO stub for the llama backend. It is compiled when
// the 'llama' build tag is NOT set, keeping default builds and CI CGO-free.
// The real backend lives in llama.go (tagged 'llama').

// llamaBuilt indicates this binary was compiled with real llama support.
var llamaBuilt = false

func newLlamaRuntime(path string, ctxSize int) (Runtime, error) {
	// Fail fast: llama runtime not available in this build.
	return nil, ErrEngineUnavailable("llama support not built (missing 'llama' build tag)")
}
