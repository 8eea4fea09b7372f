package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"postapi/db"
	"postapi/server"

	log "github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"
)

// serveCmd represents the serve command
func serveCmd() *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Serve the post API",
		Description: `Starts the HTTP server for the /v1/post API.

Every flag can also be set through its environment variable or a TOML file
passed with --config. Flags and environment variables win over the file.`,
		Flags: serveFlags(),
		Action: func(ctx *cli.Context) error {
			if err := setupLogging(ctx.String("log-level"), ctx.String("log-format")); err != nil {
				return err
			}

			cfg, err := loadConfig(ctx)
			if err != nil {
				return fmt.Errorf("invalid configuration: %w", err)
			}

			bodyLimit, err := cfg.BodyLimitBytes()
			if err != nil {
				return err
			}

			log.WithFields(log.Fields{
				"driver":  cfg.Database.Driver,
				"perPage": cfg.Listing.PerPage,
				"mode":    cfg.Server.ErrorMode,
			}).Info("Starting postapi")

			conn, err := db.Open(ctx.Context, cfg.Database)
			if err != nil {
				return err
			}
			defer conn.Close()

			posts := db.NewPosts(conn, cfg.Database.Driver, cfg.Listing.PerPage, cfg.Database.QueryTimeout)
			if cfg.Database.InitSchema {
				if err := posts.Init(ctx.Context); err != nil {
					return err
				}
			}

			app := server.Server(&server.ServerConfig{
				Posts:     posts,
				ErrorMode: cfg.Server.ErrorMode,
				BodyLimit: bodyLimit,
			})

			// Graceful shutdown
			c := make(chan os.Signal, 1)
			signal.Notify(c, os.Interrupt, syscall.SIGTERM)
			go func() {
				<-c
				log.Info("Gracefully shutting down...")
				if err := app.ShutdownWithTimeout(30 * time.Second); err != nil {
					log.WithError(err).Error("Shutdown failed")
				}
			}()

			addr := fmt.Sprintf(":%d", cfg.Server.Port)
			log.WithFields(log.Fields{"addr": addr}).Info("Starting server")
			if err := app.Listen(addr); err != nil {
				return fmt.Errorf("server stopped: %w", err)
			}

			log.Info("Done!")
			return nil
		},
	}
}

func setupLogging(level, format string) error {
	lvl, err := log.ParseLevel(level)
	if err != nil {
		return fmt.Errorf("invalid log level: %w", err)
	}
	log.SetLevel(lvl)

	switch format {
	case "json":
		log.SetFormatter(&log.JSONFormatter{})
	case "text":
		log.SetFormatter(&log.TextFormatter{FullTimestamp: true})
	default:
		return fmt.Errorf("invalid log format %q", format)
	}
	return nil
}
