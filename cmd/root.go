package cmd

import (
	"github.com/urfave/cli/v2"
)

func RootApp() *cli.App {
	return &cli.App{
		Name:  "postapi",
		Usage: "A JSON CRUD API for posts",
		Description: `A small HTTP service that stores posts in a single SQL table
		and exposes them under /v1/post.

		Posts can be listed page by page, fetched by id, created, replaced,
		patched and deleted. Every response is a {data, meta} envelope.

		Flags can generally be set via environment variables, e.g.:

		--list-per-page => LIST_PER_PAGE=10
		--db-host => DB_HOST=localhost
		`,
		Commands: []*cli.Command{
			serveCmd(),
		},
		Action: func(ctx *cli.Context) error {
			// Show help if no command is specified
			return ctx.App.Run([]string{"", "help"})
		},
	}
}
