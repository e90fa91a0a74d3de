package hotkeys

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDispatchStopsWhenHandlerReturnsFalse(t *testing.T) {
	r := New()
	var calls []string
	r.Register("esc", func() bool { calls = append(calls, "first"); return true })
	r.Register("esc", func() bool { calls = append(calls, "second"); return false })
	r.Register("esc", func() bool { calls = append(calls, "third"); return true })

	assert.True(t, r.Dispatch("esc"))
	assert.Equal(t, []string{"first", "second"}, calls)
}

func TestDispatchUnknownKey(t *testing.T) {
	r := New()
	assert.False(t, r.Dispatch("f1"))
	assert.False(t, r.Has("f1"))

	r.Register("f1", func() bool { return true })
	assert.True(t, r.Has("f1"))
}

func TestRegistriesAreIndependent(t *testing.T) {
	a, b := New(), New()
	hit := 0
	a.Register("ctrl+y", func() bool { hit++; return true })

	b.Dispatch("ctrl+y")
	a.Dispatch("ctrl+y")
	assert.Equal(t, 1, hit)
}
