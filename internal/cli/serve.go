package cli

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/YuminosukeSato/mantar/pkg/log"
	"github.com/YuminosukeSato/mantar/web"
	"github.com/spf13/cobra"
)

var (
	serveAddr       string
	serveSampleRows int
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the web demo",
	Long: `Load the dataset and artifacts once, then serve the demo page.

Examples:
  mantar serve
  mantar serve --addr :8080
  mantar serve --classifier artifacts/logreg_model.gob`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "listen address (MANTAR_ADDR)")
	serveCmd.Flags().IntVar(&serveSampleRows, "sample-rows", 0, "rows in the random sample table (MANTAR_SAMPLE_ROWS)")
}

func runServe(cmd *cobra.Command, args []string) error {
	d, err := loadDemo()
	if err != nil {
		return err
	}

	srv, err := web.New(d,
		web.WithLogger(log.Default()),
		web.WithSampleRows(cfg.SampleRows),
		web.WithChartTTL(cfg.ChartTTL),
	)
	if err != nil {
		return err
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Listen(cfg.Addr)
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(quit)

	return awaitShutdown(srv, errCh, quit, log.Default().With(log.ComponentKey, "serve"))
}

type shutdowner interface {
	Shutdown(ctx context.Context) error
}

// awaitShutdown blocks until the listener fails or a signal arrives, then
// gives the server 10 seconds to drain.
func awaitShutdown(srv shutdowner, errCh <-chan error, quit <-chan os.Signal, logger log.Logger) error {
	select {
	case err := <-errCh:
		return err
	case sig := <-quit:
		logger.Info("shutting down server...", "signal", sig.String())
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("shutdown failed", err)
		return err
	}

	logger.Info("server stopped")
	return nil
}
