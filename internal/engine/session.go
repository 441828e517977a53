package engine

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"modelhost/internal/events"
	"modelhost/pkg/types"
)

// session runs a single generation. The caller (Context.Generate) holds the
// engine lock for the session's lifetime.
type session struct {
	rt        Runtime
	maxTokens int
	sink      events.Sink
	log       zerolog.Logger
}

// run drives the generation and always emits exactly one ChatFinished,
// carrying the reason the loop stopped.
func (s *session) run(ctx context.Context, prompt string) error {
	reason := types.FinishError
	defer func() {
		s.sink.ChatFinished(types.ChatFinished{Reason: reason})
	}()

	var err error
	switch rt := s.rt.(type) {
	case StepRuntime:
		reason, err = s.runStep(ctx, rt, prompt)
	case StreamRuntime:
		reason, err = s.runStream(ctx, rt, prompt)
	default:
		err = ErrEngineUnavailable(fmt.Sprintf("runtime %T supports no generation mode", s.rt))
	}
	if err != nil {
		s.log.Warn().Err(err).Str("reason", reason).Msg("generation aborted")
	}
	return err
}

// runStep is the stepwise loop: tokenize the prompt, clear cached state from
// the previous turn, decode the prompt as one batch, then pick greedily one
// token at a time until EOS or the token cap. EOS is never emitted as text.
func (s *session) runStep(ctx context.Context, rt StepRuntime, prompt string) (string, error) {
	toks, err := rt.Tokenize(prompt)
	if err != nil {
		return types.FinishError, ErrTokenization(fmt.Sprintf("tokenize prompt: %v", err))
	}
	rt.ResetCache()
	if err := rt.Decode(toks, 0); err != nil {
		return types.FinishError, ErrDecode(fmt.Sprintf("decode prompt: %v", err))
	}
	pos := len(toks)
	for i := 0; i < s.maxTokens; i++ {
		select {
		case <-ctx.Done():
			return types.FinishCancelled, ctx.Err()
		default:
		}
		tok, err := rt.Greedy()
		if err != nil {
			return types.FinishError, ErrDecode(fmt.Sprintf("sample token %d: %v", i, err))
		}
		if rt.IsEOS(tok) {
			return types.FinishEOS, nil
		}
		s.sink.ChatToken(types.ChatToken{Token: rt.TokenText(tok)})
		if err := rt.Decode([]Token{tok}, pos); err != nil {
			return types.FinishError, ErrDecode(fmt.Sprintf("decode token %d: %v", i, err))
		}
		pos++
	}
	return types.FinishMaxTokens, nil
}

// runStream delegates the loop to the backend and only relays token text.
func (s *session) runStream(ctx context.Context, rt StreamRuntime, prompt string) (string, error) {
	emitted := 0
	err := rt.Generate(ctx, prompt, s.maxTokens, func(text string) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		s.sink.ChatToken(types.ChatToken{Token: text})
		emitted++
		return nil
	})
	if err != nil {
		if ctx.Err() != nil {
			return types.FinishCancelled, ctx.Err()
		}
		return types.FinishError, ErrDecode(fmt.Sprintf("generate: %v", err))
	}
	if emitted >= s.maxTokens {
		return types.FinishMaxTokens, nil
	}
	return types.FinishEOS, nil
}
