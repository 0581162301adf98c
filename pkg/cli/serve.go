package cli

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/m-mizutani/goerr/v2"
	httpctrl "github.com/secmon-lab/badgeforge/pkg/controller/http"
	"github.com/secmon-lab/badgeforge/pkg/service/worker"
	"github.com/secmon-lab/badgeforge/pkg/utils/logging"
	"github.com/urfave/cli/v3"
)

func cmdServe() *cli.Command {
	var addr string
	var rateLimit float64
	var rateBurst int
	var probeInterval time.Duration
	var pipelineCfg pipelineConfig

	flags := []cli.Flag{
		&cli.StringFlag{
			Name:        "addr",
			Usage:       "HTTP server address",
			Value:       ":8080",
			Sources:     cli.EnvVars("BADGEFORGE_ADDR"),
			Destination: &addr,
		},
		&cli.FloatFlag{
			Name:        "rate-limit",
			Usage:       "Generation requests allowed per second (0 disables limiting)",
			Value:       1,
			Sources:     cli.EnvVars("BADGEFORGE_RATE_LIMIT"),
			Destination: &rateLimit,
		},
		&cli.IntFlag{
			Name:        "rate-burst",
			Usage:       "Burst size of the generation rate limit",
			Value:       4,
			Sources:     cli.EnvVars("BADGEFORGE_RATE_BURST"),
			Destination: &rateBurst,
		},
		&cli.DurationFlag{
			Name:        "probe-interval",
			Usage:       "Interval of inference backend health checks (0 disables the probe)",
			Value:       time.Minute,
			Sources:     cli.EnvVars("BADGEFORGE_PROBE_INTERVAL"),
			Destination: &probeInterval,
		},
	}
	flags = append(flags, pipelineCfg.Flags()...)

	return &cli.Command{
		Name:    "serve",
		Aliases: []string{"s"},
		Usage:   "Start HTTP server",
		Flags:   flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			p, err := pipelineCfg.Configure(ctx, c)
			if err != nil {
				return err
			}

			httpOpts := []httpctrl.Options{
				httpctrl.WithRateLimit(rateLimit, rateBurst),
			}

			var probe *worker.InferenceProbeWorker
			if probeInterval > 0 {
				probe = worker.NewInferenceProbeWorker(p.inference, probeInterval)
				if err := probe.Start(ctx); err != nil {
					return goerr.Wrap(err, "failed to start inference probe worker")
				}
				httpOpts = append(httpOpts, httpctrl.WithHealthReporter(probe))
			}

			server := &http.Server{
				Addr:              addr,
				Handler:           httpctrl.New(p.uc, httpOpts...),
				ReadHeaderTimeout: 30 * time.Second,
			}

			// Setup signal handling for graceful shutdown
			sigCh := make(chan os.Signal, 1)
			signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

			errCh := make(chan error, 1)
			go func() {
				logging.Default().Info("Starting HTTP server", "addr", addr, "rate_limit", rateLimit)
				if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					errCh <- goerr.Wrap(err, "failed to start server")
				}
			}()

			select {
			case err := <-errCh:
				if probe != nil {
					probe.Stop()
				}
				return err
			case sig := <-sigCh:
				logging.Default().Info("Received shutdown signal", "signal", sig)

				if probe != nil {
					probe.Stop()
				}

				// Streams in flight get the same grace period as other requests
				shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
				defer cancel()

				if err := server.Shutdown(shutdownCtx); err != nil {
					return goerr.Wrap(err, "failed to shutdown server gracefully")
				}

				logging.Default().Info("Server shutdown completed")
				return nil
			}
		},
	}
}
