package reform

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMatcherAnchorsWholeInput(t *testing.T) {
	m := NewMatcher("{a}|{b}", `a|ab`)
	assert.Equal(t, `^(?:a|ab)$`, m.Anchored())

	assert.True(t, m.MatchString("a"))
	assert.True(t, m.MatchString("ab"))
	assert.False(t, m.MatchString("xab"))
	assert.False(t, m.MatchString("abx"))
}

func TestMatcherMatch(t *testing.T) {
	m := NewMatcher("{k}={v}", `(\w+)=(\d+)?`)

	c, err := m.Match("size=12")
	require.NoError(t, err)
	assert.Equal(t, 3, c.Len())
	assert.Equal(t, "size=12", c.Text(0))
	assert.Equal(t, "size", c.Text(1))
	assert.Equal(t, "12", c.Text(2))
	assert.Equal(t, "size=12", c.Input())

	c, err = m.Match("size=")
	require.NoError(t, err)
	_, ok := c.Get(2)
	assert.False(t, ok)

	_, err = m.Match("size")
	var nme *NoMatchError
	require.ErrorAs(t, err, &nme)
	assert.Equal(t, "size", nme.Request)
	assert.Equal(t, "{k}={v}", nme.Template)
	assert.Equal(t, `(\w+)=(\d+)?`, nme.Pattern)
}

func TestMatcherPanicsOnInvalidPattern(t *testing.T) {
	m := NewMatcher("broken", `(\d+`)
	assert.Panics(t, func() { m.Regex() })
}

func TestMatcherCompilesOnce(t *testing.T) {
	m := NewMatcher("{n}", `(\d+)`)

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.True(t, m.MatchString("123"))
		}()
	}
	wg.Wait()

	assert.Same(t, m.Regex(), m.Regex())
}

func TestCaptures(t *testing.T) {
	c := NewCaptures("ab cd", []int{0, 5, 0, 2, -1, -1, 3, 5})

	assert.Equal(t, 4, c.Len())

	text, ok := c.Get(1)
	assert.True(t, ok)
	assert.Equal(t, "ab", text)

	_, ok = c.Get(2)
	assert.False(t, ok, "non-participating group")
	_, ok = c.Get(4)
	assert.False(t, ok, "out of range")
	_, ok = c.Get(-1)
	assert.False(t, ok, "negative index")

	assert.Equal(t, "", c.Text(2))
	assert.Equal(t, []string{"ab", "", "cd"}, c.Slice(1, 3))
	assert.Equal(t, []string{"cd", ""}, c.Slice(3, 2))
}
