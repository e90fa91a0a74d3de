package timed

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recorder struct {
	shown  []string
	sleeps []time.Duration
}

func (r *recorder) runner() *Runner {
	return &Runner{
		Display: func(line string) { r.shown = append(r.shown, line) },
		Sleep: func(ctx context.Context, d time.Duration) error {
			r.sleeps = append(r.sleeps, d)
			return ctx.Err()
		},
	}
}

func TestRunCompletesAndSharesProperties(t *testing.T) {
	rec := &recorder{}
	steps := []Step{
		Text("stringA"),
		Func(func(ev *Event) string {
			ev.Set("x", 1)
			return ""
		}),
		Func(func(ev *Event) string {
			if v, _ := ev.Get("x"); v != 1 {
				ev.Cancel()
			}
			return "validated"
		}),
	}

	ev, err := rec.runner().Run(context.Background(), steps, 50*time.Millisecond)

	require.NoError(t, err)
	require.NotNil(t, ev)
	x, ok := ev.Get("x")
	require.True(t, ok)
	assert.Equal(t, 1, x)
	assert.False(t, ev.Canceled())
	assert.Equal(t, []string{"stringA", "validated"}, rec.shown)
	assert.Len(t, rec.sleeps, 3)
}

func TestRunStopsOnCancel(t *testing.T) {
	rec := &recorder{}
	ran := false
	steps := []Step{
		Text("connecting"),
		Func(func(ev *Event) string {
			ev.Cancel()
			return "connection refused"
		}),
		Func(func(ev *Event) string {
			ran = true
			return "never"
		}),
		Text("never either"),
	}

	ev, err := rec.runner().Run(context.Background(), steps, time.Millisecond)

	require.ErrorIs(t, err, ErrCanceled)
	assert.True(t, ev.Canceled())
	assert.False(t, ran)
	assert.Equal(t, []string{"connecting", "connection refused"}, rec.shown)
	assert.Len(t, rec.sleeps, 1)
}

func TestRunStopsWhenContextEnds(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	var shown []string
	r := &Runner{
		Display: func(line string) { shown = append(shown, line) },
		Sleep: func(ctx context.Context, d time.Duration) error {
			cancel()
			return ctx.Err()
		},
	}

	ev, err := r.Run(ctx, []Step{Text("one"), Text("two")}, time.Second)

	require.ErrorIs(t, err, ErrCanceled)
	assert.True(t, errors.Is(err, context.Canceled))
	assert.True(t, ev.Canceled())
	assert.Equal(t, []string{"one"}, shown)
}

func TestRunWithRealSleep(t *testing.T) {
	var shown []string
	r := NewRunner(func(line string) { shown = append(shown, line) })

	start := time.Now()
	_, err := r.Run(context.Background(), []Step{Text("a"), Text("b")}, 5*time.Millisecond)

	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, shown)
	assert.GreaterOrEqual(t, time.Since(start), 10*time.Millisecond)
}

func TestRunAsyncDeliversOutcome(t *testing.T) {
	rec := &recorder{}
	out := rec.runner().RunAsync(context.Background(), []Step{Func(func(ev *Event) string {
		ev.Set("done", true)
		return ""
	})}, 0)

	select {
	case o, ok := <-out:
		require.True(t, ok)
		require.NoError(t, o.Err)
		done, _ := o.Event.Get("done")
		assert.Equal(t, true, done)
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for outcome")
	}
	_, open := <-out
	assert.False(t, open)
}

func TestEventProperties(t *testing.T) {
	ev := newEvent()
	ev.Set("a", 1)
	props := ev.Properties()
	props["b"] = 2

	_, ok := ev.Get("b")
	assert.False(t, ok)
	assert.Equal(t, map[string]any{"a": 1}, ev.Properties())
}

func TestSleepHonoursContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, Sleep(ctx, time.Hour), context.Canceled)
	assert.NoError(t, Sleep(context.Background(), 0))
}
