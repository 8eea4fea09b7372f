package cmd

import (
	"postapi/config"

	"github.com/urfave/cli/v2"
)

// serveFlags mirror config.Config. Defaults are shown in the help output
// but only flags that were set, directly or through their environment
// variable, override the config file.
func serveFlags() []cli.Flag {
	defaults := config.Default()

	return []cli.Flag{
		&cli.StringFlag{
			Name:    "config",
			Aliases: []string{"c"},
			Usage:   "Path to an optional TOML configuration file",
			EnvVars: []string{"POSTAPI_CONFIG"},
		},
		&cli.IntFlag{
			Name:    "port",
			Aliases: []string{"p"},
			Usage:   "Port to listen on",
			EnvVars: []string{"PORT"},
			Value:   defaults.Server.Port,
		},
		&cli.StringFlag{
			Name:    "body-limit",
			Usage:   "Maximum request body size, e.g. 512KB or 4MB",
			EnvVars: []string{"BODY_LIMIT"},
			Value:   defaults.Server.BodyLimit,
		},
		&cli.StringFlag{
			Name:    "error-mode",
			Usage:   "strict answers failures with 4xx/5xx, legacy answers some routes with 200 and a message",
			EnvVars: []string{"ERROR_MODE"},
			Value:   defaults.Server.ErrorMode,
		},
		&cli.IntFlag{
			Name:    "list-per-page",
			Usage:   "Number of posts per page when listing",
			EnvVars: []string{"LIST_PER_PAGE"},
			Value:   defaults.Listing.PerPage,
		},
		&cli.StringFlag{
			Name:    "db-driver",
			Usage:   "Database driver, sqlite or postgres",
			EnvVars: []string{"DB_DRIVER"},
			Value:   defaults.Database.Driver,
		},
		&cli.StringFlag{
			Name:    "db-path",
			Usage:   "SQLite database file location",
			EnvVars: []string{"DB_PATH"},
			Value:   defaults.Database.Path,
		},
		&cli.StringFlag{
			Name:    "db-host",
			Usage:   "PostgreSQL host",
			EnvVars: []string{"DB_HOST"},
			Value:   defaults.Database.Host,
		},
		&cli.IntFlag{
			Name:    "db-port",
			Usage:   "PostgreSQL port",
			EnvVars: []string{"DB_PORT"},
			Value:   defaults.Database.Port,
		},
		&cli.StringFlag{
			Name:    "db-user",
			Usage:   "PostgreSQL user",
			EnvVars: []string{"DB_USER"},
			Value:   defaults.Database.User,
		},
		&cli.StringFlag{
			Name:    "db-password",
			Usage:   "PostgreSQL password",
			EnvVars: []string{"DB_PASSWORD"},
			Value:   defaults.Database.Password,
		},
		&cli.StringFlag{
			Name:    "db-name",
			Usage:   "PostgreSQL database name",
			EnvVars: []string{"DB_NAME"},
			Value:   defaults.Database.Name,
		},
		&cli.StringFlag{
			Name:    "db-sslmode",
			Usage:   "PostgreSQL sslmode",
			EnvVars: []string{"DB_SSLMODE"},
			Value:   defaults.Database.SSLMode,
		},
		&cli.DurationFlag{
			Name:    "query-timeout",
			Usage:   "Upper bound for a single SQL statement, 0 disables it",
			EnvVars: []string{"QUERY_TIMEOUT"},
			Value:   defaults.Database.QueryTimeout,
		},
		&cli.BoolFlag{
			Name:    "init-schema",
			Usage:   "Create the post table on startup if it does not exist",
			EnvVars: []string{"INIT_SCHEMA"},
		},
		&cli.StringFlag{
			Name:    "log-level",
			Usage:   "Log level (debug, info, warn, error)",
			EnvVars: []string{"LOG_LEVEL"},
			Value:   "info",
		},
		&cli.StringFlag{
			Name:    "log-format",
			Usage:   "Log format, text or json",
			EnvVars: []string{"LOG_FORMAT"},
			Value:   "text",
		},
	}
}

// loadConfig reads the config file and lays the set flags on top.
func loadConfig(ctx *cli.Context) (*config.Config, error) {
	cfg, err := config.LoadConfig(ctx.String("config"))
	if err != nil {
		return nil, err
	}

	setInt := func(name string, dst *int) {
		if ctx.IsSet(name) {
			*dst = ctx.Int(name)
		}
	}
	setString := func(name string, dst *string) {
		if ctx.IsSet(name) {
			*dst = ctx.String(name)
		}
	}

	setInt("port", &cfg.Server.Port)
	setString("body-limit", &cfg.Server.BodyLimit)
	setString("error-mode", &cfg.Server.ErrorMode)
	setInt("list-per-page", &cfg.Listing.PerPage)
	setString("db-driver", &cfg.Database.Driver)
	setString("db-path", &cfg.Database.Path)
	setString("db-host", &cfg.Database.Host)
	setInt("db-port", &cfg.Database.Port)
	setString("db-user", &cfg.Database.User)
	setString("db-password", &cfg.Database.Password)
	setString("db-name", &cfg.Database.Name)
	setString("db-sslmode", &cfg.Database.SSLMode)
	if ctx.IsSet("query-timeout") {
		cfg.Database.QueryTimeout = ctx.Duration("query-timeout")
	}
	if ctx.IsSet("init-schema") {
		cfg.Database.InitSchema = ctx.Bool("init-schema")
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
