package riffusion

import (
	"context"
	"sync"
)

// Stub is an in-memory Submitter for tests. It records every call and
// returns Result or Err.
type Stub struct {
	Result Result
	Err    error

	mu    sync.Mutex
	calls []StubCall
}

// StubCall is one recorded Submit invocation.
type StubCall struct {
	Prompt string
	Params Params
}

func (s *Stub) Submit(ctx context.Context, prompt string, params Params) (Result, error) {
	s.mu.Lock()
	s.calls = append(s.calls, StubCall{Prompt: prompt, Params: params})
	s.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return Result{}, err
	}
	if s.Err != nil {
		return Result{}, s.Err
	}
	return s.Result, nil
}

// Calls returns a copy of the recorded invocations.
func (s *Stub) Calls() []StubCall {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]StubCall(nil), s.calls...)
}
