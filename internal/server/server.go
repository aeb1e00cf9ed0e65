package server

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

// Server is a long running component. Run blocks until the component stops
// or fails; End asks it to stop.
type Server interface {
	Run() error
	End()
}

var ErrShutdownTimeout = errors.New("shutdown timed out")

// Start runs every server until ctx is done or one of them fails. The servers
// are then ended in reverse order, so list the consul registrar last to have
// it deregister before the listeners close.
func Start(ctx context.Context, log zerolog.Logger, timeout time.Duration, servers ...Server) error {
	g, gctx := errgroup.WithContext(ctx)
	for _, s := range servers {
		g.Go(s.Run)
	}
	g.Go(func() error {
		<-gctx.Done()
		log.Info().Msg("shutting down")

		done := make(chan struct{})
		go func() {
			defer close(done)
			for i := len(servers) - 1; i >= 0; i-- {
				servers[i].End()
			}
		}()
		select {
		case <-done:
			return nil
		case <-time.After(timeout):
			log.Error().Dur("timeout", timeout).Msg("servers did not stop in time")
			return ErrShutdownTimeout
		}
	})
	return g.Wait()
}
