// Package events defines the typed sink the core writes progress and token
// events to. The host layer supplies the real consumer; tests substitute a
// recording sink.
package events

import "modelhost/pkg/types"

// Sink receives events from the core. Implementations should be lightweight
// and non-blocking; methods must not panic.
type Sink interface {
	InstallProgress(types.InstallProgress)
	ChatToken(types.ChatToken)
	ChatFinished(types.ChatFinished)
}

// NopSink is the default; it drops events.
type NopSink struct{}

func (NopSink) InstallProgress(types.InstallProgress) {}
func (NopSink) ChatToken(types.ChatToken)             {}
func (NopSink) ChatFinished(types.ChatFinished)       {}
