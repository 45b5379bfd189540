package stream

import (
	"strings"
	"testing"
	"time"
)

// testClock is a manually advanced clock
type testClock struct {
	now time.Time
}

func newTestClock() *testClock {
	return &testClock{now: time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)}
}

func (c *testClock) Now() time.Time {
	return c.now
}

func (c *testClock) Advance(d time.Duration) {
	c.now = c.now.Add(d)
}

func newTestAggregator(clock *testClock, size int, window time.Duration) (*Aggregator, *[]string) {
	var flushes []string
	agg := New(func(text string) {
		flushes = append(flushes, text)
	}, Options{
		SizeThreshold: size,
		TimeThreshold: window,
		MarkdownMin:   3,
		Now:           clock.Now,
	})
	return agg, &flushes
}

func TestAggregator_SizeTimeORCondition(t *testing.T) {
	// Buffer threshold 15 chars, time threshold 100ms, fragments arrive
	// with sub-threshold gaps: nothing flushes mid-stream, one flush on
	// completion.
	clock := newTestClock()
	agg, flushes := newTestAggregator(clock, 15, 100*time.Millisecond)

	for _, frag := range []string{"He", "llo ", "wor", "ld!"} {
		clock.Advance(20 * time.Millisecond)
		agg.Push(frag)
	}

	if len(*flushes) != 0 {
		t.Fatalf("expected no mid-stream flush at 12 buffered chars, got %d", len(*flushes))
	}

	final := agg.Complete("Hello world!")

	if final != "Hello world!" {
		t.Errorf("final = %q, want %q", final, "Hello world!")
	}
	if len(*flushes) != 1 {
		t.Fatalf("expected exactly one completion flush, got %d", len(*flushes))
	}
	if (*flushes)[0] != "Hello world!" {
		t.Errorf("flush = %q, want %q", (*flushes)[0], "Hello world!")
	}
}

func TestAggregator_SizeThresholdFlush(t *testing.T) {
	clock := newTestClock()
	agg, flushes := newTestAggregator(clock, 10, time.Hour)

	agg.Push("0123456789extra")

	if len(*flushes) != 1 {
		t.Fatalf("expected flush at size threshold, got %d", len(*flushes))
	}
	if (*flushes)[0] != "0123456789extra" {
		t.Errorf("flush should carry cumulative text, got %q", (*flushes)[0])
	}
	if agg.Pending() != 0 {
		t.Errorf("buffer should be cleared after flush, got %d pending", agg.Pending())
	}
}

func TestAggregator_TimeThresholdFlush(t *testing.T) {
	clock := newTestClock()
	agg, flushes := newTestAggregator(clock, 1000, 100*time.Millisecond)

	agg.Push("one")
	if len(*flushes) != 0 {
		t.Fatal("flush before the time window elapsed")
	}

	clock.Advance(150 * time.Millisecond)
	agg.Push("two")

	if len(*flushes) != 1 {
		t.Fatalf("expected time-triggered flush, got %d", len(*flushes))
	}
	if (*flushes)[0] != "onetwo" {
		t.Errorf("flush = %q, want %q", (*flushes)[0], "onetwo")
	}
}

func TestAggregator_NoFragmentLossOrDuplication(t *testing.T) {
	// Property: concatenating all fragments equals the completed text,
	// regardless of how flushes interleave.
	clock := newTestClock()
	agg, flushes := newTestAggregator(clock, 8, 50*time.Millisecond)

	fragments := []string{"The ", "quick ", "brown ", "fox ", "jumps ", "over ", "the ", "lazy ", "dog."}
	var want strings.Builder
	for i, frag := range fragments {
		if i%3 == 0 {
			clock.Advance(60 * time.Millisecond)
		}
		want.WriteString(frag)
		agg.Push(frag)
	}

	final := agg.Complete(want.String())

	if final != want.String() {
		t.Errorf("final = %q, want %q", final, want.String())
	}
	if agg.Text() != want.String() {
		t.Errorf("Text() = %q, want %q", agg.Text(), want.String())
	}
	// The last flush always carries the full text
	if last := (*flushes)[len(*flushes)-1]; last != want.String() {
		t.Errorf("last flush = %q, want %q", last, want.String())
	}
}

func TestAggregator_CodeFenceFlushesImmediately(t *testing.T) {
	clock := newTestClock()
	agg, flushes := newTestAggregator(clock, 1000, time.Hour)

	agg.Push("x")
	before := len(*flushes)

	// A fence must flush synchronously regardless of buffer size
	agg.Push("```")

	if len(*flushes) != before+1 {
		t.Fatalf("fence should flush synchronously, flushes %d -> %d", before, len(*flushes))
	}
	if !agg.InCodeBlock() {
		t.Error("code-block flag should toggle open at the first fence")
	}

	agg.Push("```")
	if agg.InCodeBlock() {
		t.Error("code-block flag should toggle closed at the second fence")
	}
}

func TestAggregator_FencePairInOneFragmentKeepsParity(t *testing.T) {
	clock := newTestClock()
	agg, _ := newTestAggregator(clock, 1000, time.Hour)

	agg.Push("```go\nx := 1\n```")

	if agg.InCodeBlock() {
		t.Error("an open+close pair in one fragment should leave the flag closed")
	}
}

func TestAggregator_MarkdownControlFlush(t *testing.T) {
	clock := newTestClock()
	agg, flushes := newTestAggregator(clock, 1000, time.Hour)

	// Below MarkdownMin: a control char alone does not flush
	agg.Push("# ")
	if len(*flushes) != 0 {
		t.Fatal("control char under the minimum size should not flush")
	}

	agg.Push("Title")
	if len(*flushes) != 1 {
		t.Fatalf("expected markdown-aware flush, got %d", len(*flushes))
	}
}

func TestAggregator_PlainProseDoesNotTriggerMarkdownFlush(t *testing.T) {
	clock := newTestClock()
	agg, flushes := newTestAggregator(clock, 1000, time.Hour)

	// Contains '!' and '-' in prose positions, which are not structure
	agg.Push("well-known fact! truly")

	if len(*flushes) != 0 {
		t.Errorf("prose should not trigger the markdown condition, got %d flushes", len(*flushes))
	}
}

func TestAggregator_CompleteAuthoritativeReplace(t *testing.T) {
	clock := newTestClock()
	agg, flushes := newTestAggregator(clock, 3, time.Hour)

	agg.Push("drifted")
	final := agg.Complete("authoritative text")

	if final != "authoritative text" {
		t.Errorf("final = %q, want authoritative replacement", final)
	}
	if last := (*flushes)[len(*flushes)-1]; last != "authoritative text" {
		t.Errorf("last flush = %q, want authoritative text", last)
	}
}

func TestAggregator_CompleteIdempotentReplace(t *testing.T) {
	clock := newTestClock()
	agg, flushes := newTestAggregator(clock, 3, time.Hour)

	agg.Push("same")
	n := len(*flushes) // size flush already happened

	// Authoritative string identical to the accumulated text: no extra emit
	final := agg.Complete("same")

	if final != "same" {
		t.Errorf("final = %q, want %q", final, "same")
	}
	if len(*flushes) != n {
		t.Errorf("identical replace should be a no-op, flushes %d -> %d", n, len(*flushes))
	}
}

func TestAggregator_CompleteEmptyAuthoritativeKeepsAccumulated(t *testing.T) {
	clock := newTestClock()
	agg, _ := newTestAggregator(clock, 1000, time.Hour)

	agg.Push("kept")
	final := agg.Complete("")

	if final != "kept" {
		t.Errorf("final = %q, want accumulated text when authoritative is empty", final)
	}
}

func TestAggregator_DiscardDropsPending(t *testing.T) {
	clock := newTestClock()
	agg, flushes := newTestAggregator(clock, 1000, time.Hour)

	agg.Push("partial")
	agg.Discard()

	if agg.Pending() != 0 {
		t.Errorf("pending = %d after Discard, want 0", agg.Pending())
	}
	if len(*flushes) != 0 {
		t.Error("Discard must not flush")
	}
	if agg.State() != StateIdle {
		t.Errorf("state = %v after Discard, want Idle", agg.State())
	}
}

func TestAggregator_StateMachine(t *testing.T) {
	clock := newTestClock()

	var agg *Aggregator
	var stateInFlush State
	agg = New(func(string) {
		stateInFlush = agg.State()
	}, Options{
		SizeThreshold: 5,
		TimeThreshold: time.Hour,
		Now:           clock.Now,
	})

	if agg.State() != StateIdle {
		t.Errorf("initial state = %v, want Idle", agg.State())
	}

	agg.Push("ab")
	if agg.State() != StateBuffering {
		t.Errorf("state = %v while under threshold, want Buffering", agg.State())
	}

	agg.Push("cdef") // crosses the size threshold
	if stateInFlush != StateFlushScheduled {
		t.Errorf("state during flush callback = %v, want FlushScheduled", stateInFlush)
	}
	if agg.State() != StateIdle {
		t.Errorf("state = %v after flush, want Idle", agg.State())
	}
}

func TestAggregator_EmptyFragmentIgnored(t *testing.T) {
	clock := newTestClock()
	agg, flushes := newTestAggregator(clock, 1, time.Hour)

	agg.Push("")

	if len(*flushes) != 0 {
		t.Error("empty fragment should not flush")
	}
	if agg.State() != StateIdle {
		t.Errorf("state = %v, want Idle", agg.State())
	}
}

func TestState_String(t *testing.T) {
	tests := []struct {
		state State
		want  string
	}{
		{StateIdle, "Idle"},
		{StateBuffering, "Buffering"},
		{StateFlushScheduled, "FlushScheduled"},
	}

	for _, tt := range tests {
		if got := tt.state.String(); got != tt.want {
			t.Errorf("String() = %s, want %s", got, tt.want)
		}
	}
}

func TestDefaultOptions(t *testing.T) {
	opts := DefaultOptions()

	if opts.SizeThreshold != 25 {
		t.Errorf("SizeThreshold = %d, want 25", opts.SizeThreshold)
	}
	if opts.TimeThreshold != 150*time.Millisecond {
		t.Errorf("TimeThreshold = %v, want 150ms", opts.TimeThreshold)
	}
}
