// submodule cmd contains command definitions
package main

import "github.com/urfave/cli/v3"

func formatFlag() cli.Flag {
	return &cli.StringFlag{
		Name:    "format",
		Aliases: []string{"f"},
		Usage:   "Output format: text, csv or json",
		Value:   "text",
	}
}

func urlFlag() cli.Flag {
	return &cli.StringFlag{
		Name:  "url",
		Usage: "Base URL of a running singarr server (defaults to server.addr)",
	}
}

// serveCommand runs the daemon
func serveCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Run the worker, scheduler, notifiers and HTTP API",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "addr",
				Usage: "Listen address (overrides server.addr)",
			},
			&cli.BoolFlag{
				Name:  "no-schedule",
				Usage: "Do not register the recurring library tasks",
			},
		},
		Action: r.Serve,
	}
}

func setupCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "setup",
		Usage: "Create the configuration file or the database",
		Commands: []*cli.Command{
			{
				Name:   "config",
				Usage:  "Write the example configuration to --config",
				Action: r.SetupConfig,
			},
			{
				Name:   "database",
				Usage:  "Initialize database and run migrations",
				Action: r.SetupDatabase,
			},
		},
	}
}

// jobsCommand talks to the job API of a running server
func jobsCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "jobs",
		Usage: "Enqueue and inspect jobs on a running server",
		Commands: []*cli.Command{
			{
				Name:  "enqueue",
				Usage: "Enqueue a job, e.g. 'jobs enqueue scanAlbum --id 3'",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "type"},
				},
				Flags: []cli.Flag{
					&cli.Int64Flag{
						Name:  "id",
						Usage: "Artist, album or track id the job targets",
					},
					&cli.BoolFlag{
						Name:  "force",
						Usage: "Re-download images for metadata jobs",
					},
					urlFlag(),
					formatFlag(),
				},
				Action: r.JobsEnqueue,
			},
			{
				Name:  "list",
				Usage: "List recent jobs",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "status",
						Usage: "Only jobs with this status: pending, running, done or failed",
					},
					&cli.IntFlag{
						Name:  "limit",
						Usage: "Maximum number of jobs to return",
						Value: 50,
					},
					urlFlag(),
					formatFlag(),
				},
				Action: r.JobsList,
			},
			{
				Name:  "show",
				Usage: "Show one job",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "id"},
				},
				Flags:  []cli.Flag{urlFlag(), formatFlag()},
				Action: r.JobsShow,
			},
		},
	}
}

func tasksCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "tasks",
		Usage: "Recurring tasks of a running server",
		Commands: []*cli.Command{
			{
				Name:   "list",
				Usage:  "List scheduled tasks and when they fire next",
				Flags:  []cli.Flag{urlFlag(), formatFlag()},
				Action: r.TasksList,
			},
		},
	}
}

func lrcCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "lrc",
		Usage: "Work with LRC files",
		Commands: []*cli.Command{
			{
				Name:  "parse",
				Usage: "Parse an LRC file and print its tags, lines and type",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "file"},
				},
				Flags:  []cli.Flag{formatFlag()},
				Action: r.LrcParse,
			},
		},
	}
}

func searchCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "search",
		Usage: "Query lyrics providers without importing",
		Commands: []*cli.Command{
			{
				Name:  "track",
				Usage: "Print scored candidates for a track in the database",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "id"},
				},
				Flags:  []cli.Flag{formatFlag()},
				Action: r.SearchTrack,
			},
		},
	}
}

func notifiersCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "notifiers",
		Usage: "Manage notification sinks",
		Commands: []*cli.Command{
			{
				Name:  "add",
				Usage: "Add a sink",
				Commands: []*cli.Command{
					{
						Name:  "discord",
						Usage: "Post lyrics events to a Discord webhook",
						Arguments: []cli.Argument{
							&cli.StringArg{Name: "url"},
						},
						Action: r.NotifiersAddDiscord,
					},
				},
			},
			{
				Name:   "list",
				Usage:  "List configured sinks",
				Flags:  []cli.Flag{formatFlag()},
				Action: r.NotifiersList,
			},
			{
				Name:  "remove",
				Usage: "Remove a sink",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "id"},
				},
				Action: r.NotifiersRemove,
			},
		},
	}
}

func monitorCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "monitor",
		Aliases: []string{"tui"},
		Usage:   "Watch jobs and library changes of a running server",
		Flags: []cli.Flag{
			urlFlag(),
			&cli.StringFlag{
				Name:  "log-file",
				Usage: "Where to write logs while the UI owns the terminal",
				Value: "./tmp/singarr-monitor.log",
			},
		},
		Action: r.Monitor,
	}
}
