package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/sourcegraph/conc"
	"github.com/urfave/cli/v3"

	"github.com/desertthunder/singarr/internal/events"
	"github.com/desertthunder/singarr/internal/jobs"
	"github.com/desertthunder/singarr/internal/models"
	"github.com/desertthunder/singarr/internal/notifier"
	"github.com/desertthunder/singarr/internal/providers"
	"github.com/desertthunder/singarr/internal/repositories"
	"github.com/desertthunder/singarr/internal/scheduler"
	"github.com/desertthunder/singarr/internal/server"
	"github.com/desertthunder/singarr/internal/services"
	"github.com/desertthunder/singarr/internal/shared"
	"github.com/desertthunder/singarr/internal/tasks"
)

// Serve wires every component and runs until SIGINT or SIGTERM.
func (r *Runner) Serve(ctx context.Context, cmd *cli.Command) error {
	if err := r.config.Validate(); err != nil {
		return err
	}
	if addr := cmd.String("addr"); addr != "" {
		r.config.Server.Addr = addr
	}

	if path := r.config.Log.File; path != "" {
		logger, closer := shared.NewFileLogger(path)
		defer closer.Close()
		shared.SetLogLevel(logger, r.config.Log.Level)
		r.SetLogger(logger)
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := r.openDatabase()
	if err != nil {
		return err
	}
	defer db.Close()
	shared.ConfigureDatabase(db, 1, 1)

	settings := shared.NewSettings(r.config, r.configPath)
	bus := events.NewBus()

	artists := repositories.NewArtistRepository(db, bus)
	albums := repositories.NewAlbumRepository(db, bus)
	tracks := repositories.NewTrackRepository(db, bus)
	lyrics := repositories.NewLyricsRepository(db, bus)
	jobStore := repositories.NewJobRepository(db)
	notifierStore := repositories.NewNotifierRepository(db)

	lidarr := services.NewLidarrService(settings)
	audioDB := services.NewAudioDBService("")
	images := services.NewImageService(r.config.Library.ImagesFolder)
	lrcLib := providers.NewLrcLib("")
	search := providers.NewService(shared.WithLogger(r.logger, "component", "providers"), lrcLib)

	engine := tasks.NewEngine(tasks.Deps{
		Artists:   artists,
		Albums:    albums,
		Tracks:    tracks,
		Lyrics:    lyrics,
		Lidarr:    lidarr,
		Metadata:  audioDB,
		Images:    images,
		Providers: search,
		Events:    bus,
		Settings:  settings,
		Logger:    shared.WithLogger(r.logger, "component", "tasks"),
	})

	queue := jobs.NewQueue()
	jobService := jobs.NewService(jobStore, queue, shared.WithLogger(r.logger, "component", "jobs"))
	worker := jobs.NewWorker(jobStore, queue, engine, bus, shared.WithLogger(r.logger, "component", "worker"))

	recovered, err := jobService.Recover(ctx)
	if err != nil {
		return fmt.Errorf("failed to recover jobs: %w", err)
	}
	if recovered > 0 {
		r.logger.Info("re-queued pending jobs", "count", recovered)
	}

	sched := scheduler.New(jobService, shared.WithLogger(r.logger, "component", "scheduler"))
	if !cmd.Bool("no-schedule") {
		if err := sched.RegisterDefaults(); err != nil {
			return fmt.Errorf("failed to register scheduled tasks: %w", err)
		}
	}

	notifications := notifier.NewService(
		notifierStore,
		map[models.NotifierType]notifier.Sink{models.NotifierDiscord: notifier.NewDiscord(images)},
		shared.WithLogger(r.logger, "component", "notifier"),
	)
	notifierSub := bus.Subscribe()
	defer notifierSub.Close()

	srv := server.New(server.Deps{
		Jobs:     jobService,
		Tasks:    sched,
		Bus:      bus,
		Services: []services.Service{lidarr, audioDB, lrcLib},
		Logger:   shared.WithLogger(r.logger, "component", "http"),
	})

	r.logger.Info("starting singarr", "addr", r.config.Server.Addr, "database", r.config.Database.Path, "root", r.config.Library.RootFolder)

	sched.Start()
	defer func() { <-sched.Stop().Done() }()

	errs := make(chan error, 3)
	var wg conc.WaitGroup
	wg.Go(func() { errs <- worker.Run(ctx) })
	wg.Go(func() { errs <- notifications.Run(ctx, notifierSub) })
	wg.Go(func() { errs <- srv.Run(ctx, r.config.Server.Addr) })

	// the first component to stop takes the others down with it
	var first error
	select {
	case <-ctx.Done():
	case first = <-errs:
	}
	stop()
	wg.Wait()

	if first != nil && !errors.Is(first, context.Canceled) {
		return first
	}
	r.logger.Info("singarr stopped")
	return nil
}
