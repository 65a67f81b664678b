package serve_test

import (
	"context"
	"io"
	"net"
	"net/http"
	"testing"
	"time"

	qt "github.com/frankban/quicktest"

	"github.com/stokaro/inkwell/cmd/serve"
	"github.com/stokaro/inkwell/config"
	"github.com/stokaro/inkwell/internal/testutil"
	"github.com/stokaro/inkwell/migration/migrations"
	"github.com/stokaro/inkwell/migration/migrator"
)

func TestCheckSchema_RefusesPendingMigrations(t *testing.T) {
	c := qt.New(t)
	conn := testutil.OpenSQLite(c)

	err := serve.CheckSchema(context.Background(), conn, testutil.DiscardLogger)
	c.Assert(err, qt.ErrorIs, serve.ErrPendingMigrations)
	c.Assert(err, qt.ErrorMatches, `database has pending migrations: \[20240220180000 20240305090000\].*`)
}

func TestCheckSchema_PartiallyMigrated(t *testing.T) {
	c := qt.New(t)
	conn := testutil.OpenSQLite(c)

	m := migrator.NewMigrator(conn, migrations.Provider()).WithLogger(testutil.DiscardLogger)
	_, err := m.MigrateUp(context.Background())
	c.Assert(err, qt.IsNil)
	c.Assert(m.MigrateDown(context.Background()), qt.IsNil)

	err = serve.CheckSchema(context.Background(), conn, testutil.DiscardLogger)
	c.Assert(err, qt.ErrorMatches, `database has pending migrations: \[20240305090000\].*`)
}

func TestCheckSchema_UpToDate(t *testing.T) {
	c := qt.New(t)
	conn := testutil.OpenMigrated(c)

	c.Assert(serve.CheckSchema(context.Background(), conn, testutil.DiscardLogger), qt.IsNil)
}

func TestServe(t *testing.T) {
	c := qt.New(t)
	conn := testutil.OpenMigrated(c)

	handler, err := serve.NewHandler(conn, config.Config{AppName: "serve test"}, testutil.DiscardLogger)
	c.Assert(err, qt.IsNil)

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	c.Assert(err, qt.IsNil)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- serve.Serve(ctx, ln, &http.Server{Handler: handler})
	}()

	resp, err := http.Get("http://" + ln.Addr().String() + "/hello")
	c.Assert(err, qt.IsNil)
	body, err := io.ReadAll(resp.Body)
	resp.Body.Close()
	c.Assert(err, qt.IsNil)
	c.Assert(string(body), qt.Equals, "Hello world! This is serve test.")

	cancel()
	select {
	case err := <-done:
		c.Assert(err, qt.IsNil)
	case <-time.After(10 * time.Second):
		c.Fatal("server did not shut down")
	}
}
