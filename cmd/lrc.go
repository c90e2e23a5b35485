package main

import (
	"context"
	"fmt"
	"os"
	"sort"

	"github.com/urfave/cli/v3"

	"github.com/desertthunder/singarr/internal/events"
	"github.com/desertthunder/singarr/internal/formatter"
	"github.com/desertthunder/singarr/internal/lrc"
	"github.com/desertthunder/singarr/internal/providers"
	"github.com/desertthunder/singarr/internal/repositories"
	"github.com/desertthunder/singarr/internal/shared"
)

// LrcParse prints the parsed form of an LRC file.
func (r *Runner) LrcParse(ctx context.Context, cmd *cli.Command) error {
	path := cmd.StringArg("file")
	if path == "" {
		return fmt.Errorf("%w: file", shared.ErrMissingArgument)
	}

	content, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read lyrics file: %w", err)
	}
	return r.write(cmd, lrc.Parse(string(content)))
}

// SearchTrack queries every provider for a track and prints the scored candidates, best first.
// Nothing is written to disk or the database.
func (r *Runner) SearchTrack(ctx context.Context, cmd *cli.Command) error {
	id, err := parseID(cmd.StringArg("id"))
	if err != nil {
		return err
	}

	db, err := r.openDatabase()
	if err != nil {
		return err
	}
	defer db.Close()

	track, err := repositories.NewTrackRepository(db, events.NewBus()).Find(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to find track %d: %w", id, err)
	}

	search := providers.NewService(r.logger, providers.NewLrcLib(""))
	results, err := search.GetResults(ctx, track)
	if err != nil {
		return err
	}
	sort.SliceStable(results, func(i, j int) bool { return results[i].Score > results[j].Score })

	format, err := formatter.ParseFormat(cmd.String("format"))
	if err != nil {
		return err
	}
	if format != formatter.Text {
		return formatter.Write(r.output, format, results)
	}

	selected := providers.Select(results, r.config.Search.MinScore)
	r.writePlainHeader(fmt.Sprintf("%s - %s - %s", track.ArtistName, track.AlbumTitle, track.Title))
	if _, err := r.output.Write(formatter.ResultsToText(results, selected)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	if selected == nil {
		return r.writePlainln("No candidate scored at least %.2f", r.config.Search.MinScore)
	}
	return nil
}
