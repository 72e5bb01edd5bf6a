package automaton

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPrefixAutomaton(t *testing.T) {
	a, err := NewPrefixAutomaton("ab")
	assert.Nil(t, err)
	assert.True(t, a.IsDeterministic())

	assert.True(t, Run(a, "ab"))
	assert.True(t, Run(a, "abc"))
	assert.True(t, Run(a, "ab日本"))
	assert.False(t, Run(a, "a"))
	assert.False(t, Run(a, "ba"))
	assert.False(t, Run(a, ""))
}

func TestPrefixAutomatonEmptyPrefix(t *testing.T) {
	a, err := NewPrefixAutomaton("")
	assert.Nil(t, err)

	assert.True(t, Run(a, ""))
	assert.True(t, Run(a, "anything"))
}
