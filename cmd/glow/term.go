package main

import (
	"fmt"
	"io"
	"os"

	"github.com/karlmutch/errors"
)

var (
	msgV io.Writer = os.Stdout
	errV io.Writer = os.Stderr
)

// runTUI starts printing status messages and errors raised by the gateway
// until quitC is closed
func runTUI(msgC <-chan string, errC <-chan errors.Error, quitC <-chan struct{}) {
	go msgWatch(msgC, errC, quitC)
}

func msgWatch(msgsC <-chan string, errorC <-chan errors.Error, quitC <-chan struct{}) {
	for {
		select {
		case msg := <-msgsC:
			if msgV != nil {
				fmt.Fprint(msgV, msg)
			}
		case err := <-errorC:
			if err == nil {
				continue
			}
			logger.Warn(err.Error())
			if errV != nil {
				fmt.Fprintln(errV, err.Error())
			}
		case <-quitC:
			return
		}
	}
}
