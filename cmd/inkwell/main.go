// Command inkwell serves the blog API and manages its schema.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/stokaro/inkwell/cmd/authors"
	"github.com/stokaro/inkwell/cmd/internal/cli"
	"github.com/stokaro/inkwell/cmd/migrate"
	"github.com/stokaro/inkwell/cmd/serve"
)

func main() {
	if err := newRootCommand().ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	var g cli.Globals
	root := &cobra.Command{
		Use:   "inkwell",
		Short: "Blog backend with versioned schema migrations",
		Long: `inkwell serves a small blog API (authors, posts, tags) over HTTP
and manages the relational schema behind it.

Configuration comes from environment variables (DATABASE_URL, INKWELL_*),
an optional YAML file (--config) and command flags, in that order.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	g.Register(root)

	root.AddCommand(serve.NewServeCommand(&g))
	root.AddCommand(migrate.NewMigrateCommand(&g))
	root.AddCommand(authors.NewAuthorsCommand())
	return root
}
