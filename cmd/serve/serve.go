package serve

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-extras/cobraflags"
	"github.com/spf13/cobra"

	"github.com/stokaro/inkwell/cmd/internal/cli"
	"github.com/stokaro/inkwell/config"
	"github.com/stokaro/inkwell/dbschema"
	"github.com/stokaro/inkwell/internal/authors"
	"github.com/stokaro/inkwell/internal/httpapi"
	"github.com/stokaro/inkwell/internal/store"
	"github.com/stokaro/inkwell/migration/migrations"
	"github.com/stokaro/inkwell/migration/migrator"
)

// ErrPendingMigrations stops the server from starting on an outdated schema.
var ErrPendingMigrations = errors.New("database has pending migrations")

const shutdownTimeout = 10 * time.Second

const (
	addrFlag           = "addr"
	appNameFlag        = "app-name"
	requestTimeoutFlag = "request-timeout"
)

var serveFlags = map[string]cobraflags.Flag{
	addrFlag: &cobraflags.StringFlag{
		Name:  addrFlag,
		Value: "",
		Usage: "Listen address (default 127.0.0.1:8067, env INKWELL_ADDR)",
	},
	appNameFlag: &cobraflags.StringFlag{
		Name:  appNameFlag,
		Value: "",
		Usage: "Name reported by GET /hello (env INKWELL_APP_NAME)",
	},
	requestTimeoutFlag: &cobraflags.StringFlag{
		Name:  requestTimeoutFlag,
		Value: "",
		Usage: "Per-request timeout such as 30s (env INKWELL_REQUEST_TIMEOUT)",
	},
}

func NewServeCommand(g *cli.Globals) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the blog HTTP API",
		Long: `Serve the blog HTTP API.

The server refuses to start while any migration is pending. Run
"inkwell migrate up" first.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return serveCommand(cmd, g)
		},
	}
	cobraflags.RegisterMap(cmd, serveFlags)
	return cmd
}

func serveCommand(cmd *cobra.Command, g *cli.Globals) error {
	cfg, logger, err := g.Load(cmd.ErrOrStderr(), cli.Overrides(
		config.KeyAddr, serveFlags[addrFlag].GetString(),
		config.KeyAppName, serveFlags[appNameFlag].GetString(),
		config.KeyRequestTimeout, serveFlags[requestTimeoutFlag].GetString(),
	))
	if err != nil {
		return err
	}
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	conn, err := cli.Connect(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer conn.Close()

	if err := CheckSchema(ctx, conn, logger); err != nil {
		return err
	}
	handler, err := NewHandler(conn, cfg, logger)
	if err != nil {
		return err
	}

	ln, err := net.Listen("tcp", cfg.Addr)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", cfg.Addr, err)
	}
	logger.Info("Listening", "addr", ln.Addr().String(), "app", cfg.AppName)
	return Serve(ctx, ln, &http.Server{
		Handler:           handler,
		ReadHeaderTimeout: 15 * time.Second,
	})
}

// CheckSchema fails with ErrPendingMigrations when the catalog has
// migrations the database has not applied.
func CheckSchema(ctx context.Context, conn *dbschema.DatabaseConnection, logger *slog.Logger) error {
	m := migrator.NewMigrator(conn, migrations.Provider()).WithLogger(logger)
	pending, err := m.GetPendingMigrations(ctx)
	if err != nil {
		return fmt.Errorf("check migrations: %w", err)
	}
	if len(pending) == 0 {
		return nil
	}
	versions := make([]int64, 0, len(pending))
	for _, mig := range pending {
		versions = append(versions, mig.Version)
	}
	return fmt.Errorf("%w: %v (run \"inkwell migrate up\")", ErrPendingMigrations, versions)
}

// NewHandler builds the HTTP handler over conn.
func NewHandler(conn *dbschema.DatabaseConnection, cfg config.Config, logger *slog.Logger) (http.Handler, error) {
	s, err := store.Open(conn, logger)
	if err != nil {
		return nil, err
	}
	svc := authors.NewService(authors.NewStoreGateway(s))
	return httpapi.NewRouter(svc, httpapi.Options{
		AppName:        cfg.AppName,
		RequestTimeout: cfg.RequestTimeout,
		Logger:         logger,
	}), nil
}

// Serve runs srv on ln until ctx ends, then shuts it down gracefully.
func Serve(ctx context.Context, ln net.Listener, srv *http.Server) error {
	serveErr := make(chan error, 1)
	go func() {
		serveErr <- srv.Serve(ln)
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown http server: %w", err)
		}
		return nil
	case err := <-serveErr:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("serve http: %w", err)
	}
}
