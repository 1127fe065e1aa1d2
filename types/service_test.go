package types

import (
	"testing"

	"github.com/netrixframework/qengine/log"
	"github.com/stretchr/testify/assert"
)

func TestBaseService(t *testing.T) {
	b := NewBaseService("test", log.NewDiscard())
	assert.Equal(t, "test", b.Name())
	assert.False(t, b.Running())

	b.StartRunning()
	assert.True(t, b.Running())

	b.StopRunning()
	b.StopRunning()
	assert.False(t, b.Running())
	select {
	case <-b.QuitCh():
	default:
		t.Fatal("quit channel is open")
	}
}
