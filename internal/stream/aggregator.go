// Package stream batches incremental completion fragments into bounded
// render updates.
//
// Rendering every token forces a re-render per token; flushing only at
// paragraph boundaries delays feedback. The aggregator takes the middle
// road: it buffers fragments and flushes the accumulated text when the
// buffer grows past a size threshold, when enough time has passed since
// the last flush, or when the buffer holds Markdown structure that should
// not be rendered half-open.
package stream

import (
	"strings"
	"time"
)

// State tracks the aggregator's flush machine: Idle with nothing pending,
// Buffering while fragments accumulate, FlushScheduled for the instant a
// flush condition has fired and the callback is about to run.
type State int

const (
	StateIdle State = iota
	StateBuffering
	StateFlushScheduled
)

// String returns the state name
func (s State) String() string {
	switch s {
	case StateBuffering:
		return "Buffering"
	case StateFlushScheduled:
		return "FlushScheduled"
	default:
		return "Idle"
	}
}

// Options tunes the flush policy
type Options struct {
	// SizeThreshold flushes once the pending buffer reaches this many bytes
	SizeThreshold int
	// TimeThreshold flushes once this much time has passed since the last flush
	TimeThreshold time.Duration
	// MarkdownMin is the minimum pending size before a Markdown control
	// character forces a flush
	MarkdownMin int
	// Now overrides the clock, for tests
	Now func() time.Time
}

// DefaultOptions returns the tuned production thresholds
func DefaultOptions() Options {
	return Options{
		SizeThreshold: 25,
		TimeThreshold: 150 * time.Millisecond,
		MarkdownMin:   3,
	}
}

// FlushFunc receives the cumulative text every time the aggregator flushes
type FlushFunc func(text string)

// Aggregator accumulates streamed fragments and decides when to hand the
// cumulative text to the render callback. It is request-scoped and not
// safe for concurrent use; one stream feeds one aggregator.
type Aggregator struct {
	opts    Options
	onFlush FlushFunc

	pending     strings.Builder // unflushed fragment bytes
	full        strings.Builder // everything received
	lastFlush   time.Time
	inCodeBlock bool
	state       State
	flushes     int
}

// New creates an aggregator delivering flushes to onFlush
func New(onFlush FlushFunc, opts Options) *Aggregator {
	if opts.SizeThreshold <= 0 {
		opts.SizeThreshold = DefaultOptions().SizeThreshold
	}
	if opts.TimeThreshold <= 0 {
		opts.TimeThreshold = DefaultOptions().TimeThreshold
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}

	return &Aggregator{
		opts:      opts,
		onFlush:   onFlush,
		lastFlush: opts.Now(),
		state:     StateIdle,
	}
}

// Push feeds one fragment into the aggregator, flushing synchronously if
// any flush condition holds.
func (a *Aggregator) Push(fragment string) {
	if fragment == "" {
		return
	}

	a.pending.WriteString(fragment)
	a.full.WriteString(fragment)
	a.state = StateBuffering

	buf := a.pending.String()

	// Fenced code delimiters flush immediately: a fence split across two
	// renders flips the whole tail of the document into code styling.
	if n := strings.Count(buf, "```"); n > 0 {
		if n%2 == 1 {
			a.inCodeBlock = !a.inCodeBlock
		}
		a.flush()
		return
	}

	if len(buf) >= a.opts.SizeThreshold {
		a.flush()
		return
	}

	if a.opts.Now().Sub(a.lastFlush) >= a.opts.TimeThreshold {
		a.flush()
		return
	}

	if a.opts.MarkdownMin > 0 && len(buf) > a.opts.MarkdownMin && containsMarkdownControl(buf) {
		a.flush()
	}
}

// Complete finishes the stream. Any pending text is flushed, then the
// provider's authoritative full string replaces the accumulated text,
// guarding against drift. Replacing with identical text emits nothing
// extra. Returns the final text.
func (a *Aggregator) Complete(authoritative string) string {
	if a.pending.Len() > 0 {
		a.flush()
	}

	final := a.full.String()
	if authoritative != "" && authoritative != final {
		final = authoritative
		a.full.Reset()
		a.full.WriteString(authoritative)
		a.emit(final)
	}

	a.state = StateIdle
	return final
}

// Discard drops any pending buffer after a mid-stream failure. The caller
// reports the error upstream; nothing partial is committed.
func (a *Aggregator) Discard() {
	a.pending.Reset()
	a.state = StateIdle
}

// Text returns everything received so far
func (a *Aggregator) Text() string {
	return a.full.String()
}

// Pending returns the number of unflushed bytes
func (a *Aggregator) Pending() int {
	return a.pending.Len()
}

// InCodeBlock reports whether the stream is inside an open code fence
func (a *Aggregator) InCodeBlock() bool {
	return a.inCodeBlock
}

// State returns the current flush-machine state
func (a *Aggregator) State() State {
	return a.state
}

// Flushes returns how many times the callback has run
func (a *Aggregator) Flushes() int {
	return a.flushes
}

func (a *Aggregator) flush() {
	a.state = StateFlushScheduled
	a.pending.Reset()
	a.emit(a.full.String())
	a.state = StateIdle
}

func (a *Aggregator) emit(text string) {
	a.flushes++
	a.lastFlush = a.opts.Now()
	if a.onFlush != nil {
		a.onFlush(text)
	}
}

// markdownInline are control characters that matter anywhere in the text
const markdownInline = "#*`_~[]>\n"

// containsMarkdownControl reports whether buf holds Markdown structure
// worth flushing early for. Inline markers count anywhere; "-" and "+"
// only as list markers at a line start; "!" only when opening an image
// link. A bare exclamation mark in prose is not structure.
func containsMarkdownControl(buf string) bool {
	if strings.ContainsAny(buf, markdownInline) {
		return true
	}

	if strings.Contains(buf, "![") {
		return true
	}

	for _, prefix := range []string{"- ", "+ "} {
		if strings.HasPrefix(buf, prefix) {
			return true
		}
	}

	return false
}
