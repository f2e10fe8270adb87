package main

import (
	"context"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/dm/dfsmon/internal/config"
	"github.com/dm/dfsmon/internal/logging"
	"github.com/dm/dfsmon/internal/sink"
)

// ErrNoCredentials is returned by watch when no username is configured.
var ErrNoCredentials = errors.New("watch needs a username (URL userinfo, --user or $" + envUser + ")")

func newWatchCmd(flags *globalFlags, stdout, stderr io.Writer) *cobra.Command {
	var listen string
	cmd := &cobra.Command{
		Use:   "watch [coordinator-url]",
		Short: "Poll without a terminal UI, writing one JSON summary per line",
		Long: `watch logs in with the configured credentials and writes every summary to
stdout as a JSON object. The password is read from the URL or $` + envPassword + `.
With --listen the latest summary is also served over HTTP at /summary and
/healthz.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := resolveConfig(cmd, flags, args)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("listen") {
				cfg.Listen = listen
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return runWatch(ctx, cfg, stdout, stderr)
		},
	}
	cmd.Flags().StringVar(&listen, "listen", "", "serve /summary and /healthz on this address (e.g. :8080)")
	return cmd
}

// runWatch logs in, then polls until ctx is done. Summaries go to stdout as
// JSON lines; logs go to stderr.
func runWatch(ctx context.Context, cfg config.Config, stdout, stderr io.Writer) error {
	if cfg.Username == "" {
		return ErrNoCredentials
	}
	logger := logging.New(stderr, cfg.LogLevel)

	latest := sink.NewLatest()
	sinks := sink.Fanout{sink.NewJSONLines(stdout, logger), latest}

	mgr, err := newManager(cfg, sinks, logger)
	if err != nil {
		return err
	}
	defer mgr.Close()

	if _, err := mgr.Login(ctx, cfg.Username, cfg.Password); err != nil {
		return errors.Wrap(err, "login")
	}

	g, gctx := errgroup.WithContext(ctx)
	if cfg.Listen != "" {
		srv := sink.NewServer(latest, logger)
		g.Go(func() error {
			return srv.Start(gctx, cfg.Listen)
		})
	}
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("stopping", "cause", context.Cause(gctx))
		return nil
	})
	return g.Wait()
}
