// Command gatewayd wires the matching engine behind the TCP gateway — the
// ambient front-end spec.md treats as an external collaborator, carried
// here so the engine has a realistic entry point (SPEC_FULL.md §C).
package main

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog/log"

	"talon/internal/config"
	"talon/internal/engine"
	"talon/internal/net"
)

func main() {
	ctx, stop := signal.NotifyContext(
		context.Background(),
		syscall.SIGTERM,
		syscall.SIGINT,
	)
	defer stop()

	cfg, err := config.Load(".env")
	if err != nil {
		log.Fatal().Err(err).Msg("gatewayd: failed loading config")
	}

	eng := engine.New(engine.WithConfig(cfg))
	srv := net.New("0.0.0.0", 9001, eng)
	eng.SetReporter(srv)

	go srv.Run(ctx)
	<-ctx.Done()
	eng.Shutdown()
}
