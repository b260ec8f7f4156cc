// submodule cmd contains command definitions
package main

import "github.com/urfave/cli/v3"

func configFlag() cli.Flag {
	return &cli.StringFlag{
		Name:    "config",
		Aliases: []string{"c"},
		Usage:   "Path to configuration file",
		Value:   "config.toml",
	}
}

// buildCommand runs a full playlist build
func buildCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "build",
		Usage: "Scan the library and build AboveVTT playlists",
		Flags: []cli.Flag{
			configFlag(),
			&cli.StringFlag{
				Name:  "root",
				Usage: "Local library root to scan (overrides config)",
			},
			&cli.StringFlag{
				Name:  "remote-root",
				Usage: "Dropbox folder corresponding to the local root (overrides config)",
			},
			&cli.BoolFlag{
				Name:  "per-folder",
				Usage: "Also write one playlist per top-level folder",
			},
			&cli.BoolFlag{
				Name:  "refresh",
				Usage: "Ignore the link cache and re-resolve every file",
			},
			&cli.BoolFlag{
				Name:  "no-history",
				Usage: "Skip recording this run in the history database",
			},
			&cli.BoolFlag{
				Name:    "verbose",
				Aliases: []string{"v"},
				Usage:   "Enable debug logging",
			},
		},
		Action: r.Build,
	}
}

// authCommand verifies Dropbox credentials
func authCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "auth",
		Usage: "Dropbox authentication",
		Commands: []*cli.Command{
			{
				Name:   "check",
				Usage:  "Verify the configured access token against the Dropbox API",
				Flags:  []cli.Flag{configFlag()},
				Action: r.AuthCheck,
			},
		},
	}
}

// setupCommand initializes configuration and the history database
func setupCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:   "setup",
		Usage:  "Create a config file and initialize the history database",
		Flags:  []cli.Flag{configFlag()},
		Action: r.Setup,
	}
}

// cacheCommand inspects and clears the shared link cache
func cacheCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "cache",
		Usage: "Inspect or clear the shared link cache",
		Commands: []*cli.Command{
			{
				Name:  "stats",
				Usage: "Show link cache size and location",
				Flags: []cli.Flag{
					configFlag(),
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output as JSON",
					},
					&cli.BoolFlag{
						Name:  "pretty",
						Usage: "Pretty-print output",
					},
				},
				Action: r.CacheStats,
			},
			{
				Name:   "clear",
				Usage:  "Delete the link cache, forcing a full re-resolve on the next build",
				Flags:  []cli.Flag{configFlag()},
				Action: r.CacheClear,
			},
		},
	}
}

// historyCommand lists and inspects past build runs
func historyCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "history",
		Usage: "Build run history",
		Commands: []*cli.Command{
			{
				Name:  "list",
				Usage: "List recent build runs",
				Flags: []cli.Flag{
					configFlag(),
					&cli.IntFlag{
						Name:  "limit",
						Usage: "Maximum number of runs to show",
						Value: 10,
					},
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output as JSON",
					},
					&cli.BoolFlag{
						Name:  "pretty",
						Usage: "Pretty-print output",
					},
				},
				Action: r.HistoryList,
			},
			{
				Name:  "show",
				Usage: "Show one run with its resolved tracks",
				Flags: []cli.Flag{
					configFlag(),
					&cli.StringFlag{
						Name:     "id",
						Usage:    "Run ID to show",
						Required: true,
					},
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output as JSON",
					},
				},
				Action: r.HistoryShow,
			},
		},
	}
}
