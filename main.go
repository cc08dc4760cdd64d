package main

import (
	"os"
	"os/signal"

	"github.com/rs/zerolog/log"

	"github.com/patrikhermansson/descry/cmd"
)

// main is the entry point of the demo application. Logging is configured by
// the core package from the DEBUG_DESCRY environment variable. A goroutine
// listens for interrupt signals and exits the program when one is received.
func main() {
	stopChan := make(chan os.Signal, 1)
	signal.Notify(stopChan, os.Interrupt)
	go listenForInterrupt(stopChan)

	cmd.Execute()
}

// listenForInterrupt listens for an interrupt signal and exits the program when it is received.
func listenForInterrupt(stopChan chan os.Signal) {
	<-stopChan
	log.Fatal().Msg("Interrupt signal received. Exiting...")
}
