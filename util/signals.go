package util

import (
	"os"
	"os/signal"
	"syscall"
)

// Term returns a channel that receives SIGINT and SIGTERM
func Term() <-chan os.Signal {
	ch := make(chan os.Signal, 1)
	signal.Notify(ch, os.Interrupt, syscall.SIGTERM)
	return ch
}
