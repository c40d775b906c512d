package openrag

import (
	"errors"
	"fmt"
	"io"
	"iter"
	"slices"
	"sync"

	"github.com/openragproject/openrag-go/pkg/sse"
)

// ChatStream is a live streaming chat exchange. It decodes the server's
// event stream once and exposes it three ways over a single internal cursor:
//
//   - Next / Events: every StreamEvent in arrival order.
//   - Text: only the content deltas.
//   - Final: drain to completion and return the frozen aggregate.
//
// The aggregate (response text so far, sources so far, conversation id) is
// updated as events are pulled, whichever path pulls them. Snapshot reads
// the aggregate mid-stream without waiting for completion.
//
// Callers own the stream's lifetime: Close releases the underlying
// connection and must be called unless the stream was drained to its
// terminal event, which closes it eagerly. Close is idempotent, so an
// unconditional defer is the usual pattern.
type ChatStream struct {
	body   io.ReadCloser
	reader *sse.Reader

	// mu serializes the consumption paths (Next, Events, Text, Final) so at
	// most one drain of the underlying stream is active at a time and no
	// event is delivered twice or lost between paths.
	mu sync.Mutex

	// stateMu guards the aggregate fields below. Mid-stream Snapshot readers
	// and Close may touch them concurrently with an in-flight Next.
	stateMu     sync.RWMutex
	agg         ChatResponse
	done        bool
	terminalErr error
	closed      bool
}

func newChatStream(body io.ReadCloser) *ChatStream {
	return &ChatStream{
		body:   body,
		reader: sse.NewReader(body),
	}
}

// Next returns the next event from the stream, blocking until one arrives.
// After the terminal event it returns io.EOF on a cleanly completed stream,
// or the terminal error (a *RemoteError, *DecodeError, or transport failure)
// on a failed one. Either way no further reads hit the transport.
func (s *ChatStream) Next() (StreamEvent, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.next()
}

// next is Next without the consumption lock. Callers hold s.mu.
func (s *ChatStream) next() (StreamEvent, error) {
	if s.isDone() {
		return nil, s.terminalError()
	}

	for {
		ev, err := s.reader.Next()
		if err != nil {
			s.finish(fmt.Errorf("openrag: reading stream: %w", err))
			return nil, s.terminalError()
		}
		if ev == nil {
			// Source exhausted without a done event: the server hung up or
			// the tail was truncated. The aggregate is whatever arrived.
			s.finish(nil)
			return nil, s.terminalError()
		}

		event, err := decodeStreamEvent([]byte(ev.Data))
		if err != nil {
			s.finish(err)
			return nil, err
		}
		if event == nil {
			// Unknown event type: skip for forward compatibility.
			continue
		}

		s.apply(event)
		if _, terminal := event.(DoneEvent); terminal {
			s.finish(nil)
		}

		return event, nil
	}
}

// Events returns the raw event sequence as a range-over-func iterator.
// Breaking out of the range stops pulling from the transport; the stream
// still needs Close unless it reached its terminal event.
func (s *ChatStream) Events() iter.Seq2[StreamEvent, error] {
	return func(yield func(StreamEvent, error) bool) {
		for {
			event, err := s.Next()
			if errors.Is(err, io.EOF) {
				return
			}
			if err != nil {
				yield(nil, err)
				return
			}
			if !yield(event, nil) {
				return
			}
		}
	}
}

// Text returns only the content deltas, in arrival order. It is a projection
// of Events over the same single-pass cursor, not a second read of the
// network.
func (s *ChatStream) Text() iter.Seq2[string, error] {
	return func(yield func(string, error) bool) {
		for event, err := range s.Events() {
			if err != nil {
				yield("", err)
				return
			}
			content, ok := event.(ContentEvent)
			if !ok {
				continue
			}
			if !yield(content.Delta, nil) {
				return
			}
		}
	}
}

// Final drains any remaining events and returns the completed aggregate:
// the concatenated response text, every source in arrival order, and the
// conversation id from the done event. Final is idempotent: once the
// stream has terminated it returns the same frozen snapshot (or the same
// terminal error) without touching the transport again.
func (s *ChatStream) Final() (*ChatResponse, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for {
		_, err := s.next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}
	}

	s.stateMu.RLock()
	defer s.stateMu.RUnlock()

	if s.terminalErr != nil {
		return nil, s.terminalErr
	}

	resp := s.snapshotLocked()
	return &resp, nil
}

// Snapshot returns a point-in-time copy of the aggregate built so far. It is
// safe to call from another goroutine mid-stream for progress reporting, but
// the view may be outdated by the time it returns; use Final for a stable
// completed view.
func (s *ChatStream) Snapshot() ChatResponse {
	s.stateMu.RLock()
	defer s.stateMu.RUnlock()
	return s.snapshotLocked()
}

func (s *ChatStream) snapshotLocked() ChatResponse {
	out := s.agg
	out.Sources = slices.Clone(s.agg.Sources)
	return out
}

// Close releases the underlying connection. Releasing mid-stream aborts the
// in-flight response; a consumer blocked in Next observes end of stream.
// Close is idempotent (only the first call closes the transport) and is
// safe after the stream has already terminated on its own.
func (s *ChatStream) Close() error {
	s.stateMu.Lock()
	defer s.stateMu.Unlock()

	s.done = true
	if s.closed {
		return nil
	}
	s.closed = true

	return s.body.Close()
}

// apply folds one event into the aggregate. Text and sources are
// append-only; the conversation id is set once by the done event.
func (s *ChatStream) apply(event StreamEvent) {
	s.stateMu.Lock()
	defer s.stateMu.Unlock()

	switch e := event.(type) {
	case ContentEvent:
		s.agg.Response += e.Delta
	case SourcesEvent:
		s.agg.Sources = append(s.agg.Sources, e.Sources...)
	case DoneEvent:
		s.agg.ChatID = e.ChatID
	}
}

// finish marks the stream terminal and closes the transport. A nil err is a
// clean completion. The first terminal condition wins: finish after Close
// (or a second finish) changes nothing.
func (s *ChatStream) finish(err error) {
	s.stateMu.Lock()
	defer s.stateMu.Unlock()

	if s.done {
		return
	}
	s.done = true
	s.terminalErr = err

	if !s.closed {
		s.closed = true
		_ = s.body.Close()
	}
}

func (s *ChatStream) isDone() bool {
	s.stateMu.RLock()
	defer s.stateMu.RUnlock()
	return s.done
}

// terminalError returns the error consumption paths should surface once the
// stream is done: io.EOF for a clean completion, the terminal error otherwise.
func (s *ChatStream) terminalError() error {
	s.stateMu.RLock()
	defer s.stateMu.RUnlock()

	if s.terminalErr != nil {
		return s.terminalErr
	}
	return io.EOF
}
