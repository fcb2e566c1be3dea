package cmd

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/spigell/talent-matcher/internal/api"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the matching API over HTTP",
	Run: func(_ *cobra.Command, _ []string) {
		serve()
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().String("addr", "", "listen address (default is server.addr from the config)")

	viper.BindPFlag("server.addr", serveCmd.Flags().Lookup("addr"))
}

func serve() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	c := setup()

	src, err := c.source()
	switch {
	case errors.Is(err, errNoSource):
		c.logger.Info("no data source configured, lookup routes are disabled")
	case err != nil:
		c.logger.Fatal("preparing data source", zap.Error(err))
	}

	handler := api.New(api.Deps{
		Engine:         c.engine,
		Analyzer:       c.analyzer,
		Searcher:       c.searcher,
		Synonyms:       c.synonyms,
		Agent:          c.newAgent(ctx),
		Source:         src,
		ReadyThreshold: c.readyThreshold(),
		Logger:         c.logger,
	}).Routes()

	cfg := c.config.Server
	server := &http.Server{
		Addr:         cfg.Addr,
		Handler:      handler,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	ln, err := net.Listen("tcp", cfg.Addr)
	if err != nil {
		c.logger.Fatal("listening", zap.String("addr", cfg.Addr), zap.Error(err))
	}

	c.logger.Info("starting the server", zap.String("addr", ln.Addr().String()), zap.String("version", version))

	if err := runServer(ctx, c.logger, server, ln, cfg.ShutdownTimeout); err != nil {
		c.logger.Fatal("serving", zap.Error(err))
	}
	c.logger.Info("server stopped")
}

// runServer serves on ln until ctx is done and returns once in-flight requests are drained
// or the shutdown timeout is hit.
func runServer(ctx context.Context, logger *zap.Logger, server *http.Server, ln net.Listener, timeout time.Duration) error {
	shutdown := make(chan error, 1)
	go func() {
		<-ctx.Done()
		logger.Info("shutting down the server")

		shutdownCtx := context.Background()
		if timeout > 0 {
			var cancel context.CancelFunc
			shutdownCtx, cancel = context.WithTimeout(shutdownCtx, timeout)
			defer cancel()
		}
		shutdown <- server.Shutdown(shutdownCtx)
	}()

	if err := server.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	if err := <-shutdown; err != nil {
		return fmt.Errorf("shutting down the server: %w", err)
	}
	return nil
}
