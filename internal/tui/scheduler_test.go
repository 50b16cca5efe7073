package tui

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCallbackMsgRunsOnce(t *testing.T) {
	calls := 0
	tok := &callbackToken{fn: func() { calls++ }}
	msg := callbackMsg{tok: tok}

	msg.run()
	msg.run()
	assert.Equal(t, 1, calls)
	assert.False(t, tok.Cancel())
}

func TestCancelledCallbackDoesNotRun(t *testing.T) {
	calls := 0
	tok := &callbackToken{fn: func() { calls++ }}

	assert.True(t, tok.Cancel())
	assert.False(t, tok.Cancel())
	callbackMsg{tok: tok}.run()
	assert.Equal(t, 0, calls)
}
