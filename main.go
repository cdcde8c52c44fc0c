package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/wqeqwqeq/AzureAgent/cmd"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	log.SetFlags(log.LstdFlags | log.Lshortfile)

	if err := cmd.Execute(ctx); err != nil {
		log.Printf("error: %v", err)
		os.Exit(1)
	}
}
