package cli

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"github.com/eleven-am/bulldoggy/internal/auth"
	"github.com/eleven-am/bulldoggy/internal/logger"
	"github.com/eleven-am/bulldoggy/internal/reminders"
	"github.com/eleven-am/bulldoggy/internal/web"
)

const shutdownTimeout = 10 * time.Second

var serveAddress string

func newServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the web server",
		Long: `Starts the HTTP server for the reminder pages and the JSON API.
The server stops gracefully on SIGINT or SIGTERM.`,
		RunE: runServe,
	}

	cmd.Flags().StringVar(&serveAddress, "address", "", "listen address (default: server.address from config)")
	return cmd
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := requireConfig()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := openDatabase(ctx, cfg)
	if err != nil {
		return err
	}
	defer db.Close()

	if debug {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	resolver := auth.NewResolver(auth.Options{
		Users:         cfg.Users,
		SecretKey:     cfg.SecretKey,
		SecureCookies: cfg.Server.SecureCookies,
	})
	server := web.NewServer(reminders.NewStore(db), resolver)

	addr := serveAddress
	if addr == "" {
		addr = cfg.Server.Address
	}

	return serve(ctx, &http.Server{
		Addr:              addr,
		Handler:           server.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	})
}

// serve runs srv until ctx is done, then shuts it down.
func serve(ctx context.Context, srv *http.Server) error {
	log := logger.CLI()

	errCh := make(chan error, 1)
	go func() {
		log.Info("listening", "address", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return <-errCh
}
