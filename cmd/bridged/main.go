// Command bridged serves an origin-private sandbox store over HTTP and
// websocket bridge endpoints.
//
// Configuration comes from BRIDGE_* environment variables (see the config
// package); the flags below override the most common ones.
package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sandboxfs/bridge/internal/infrastructure/config"
	"github.com/sandboxfs/bridge/internal/server"
)

func main() {
	cfg := config.LoadOrDefault()

	port := flag.String("port", cfg.Server.Port, "listen port")
	host := flag.String("host", cfg.Server.Host, "listen host")
	root := flag.String("root", cfg.Sandbox.Root, "sandbox root directory (empty for in-memory)")
	origin := flag.String("origin", cfg.Sandbox.Origin, "origin whose store to serve")
	flag.Parse()

	cfg.Server.Port = *port
	cfg.Server.Host = *host
	cfg.Sandbox.Root = *root
	cfg.Sandbox.Origin = *origin

	srv, err := server.New(cfg)
	if err != nil {
		log.Fatalf("failed to start: %v", err)
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	errChan := make(chan error, 1)
	go func() {
		errChan <- srv.Run()
	}()

	select {
	case <-sigChan:
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(ctx); err != nil {
			log.Printf("shutdown error: %v", err)
		}
	case err := <-errChan:
		if err != nil {
			log.Fatalf("server error: %v", err)
		}
	}
}
