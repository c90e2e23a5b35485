package main

import (
	"context"
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/urfave/cli/v3"

	"github.com/desertthunder/singarr/internal/models"
	"github.com/desertthunder/singarr/internal/repositories"
	"github.com/desertthunder/singarr/internal/shared"
)

// NotifiersAddDiscord stores a Discord webhook sink. A running server picks it up on the next event.
func (r *Runner) NotifiersAddDiscord(ctx context.Context, cmd *cli.Command) error {
	params := models.DiscordParams{WebhookURL: cmd.StringArg("url")}
	if err := validator.New().Struct(params); err != nil {
		return fmt.Errorf("%w: webhook url: %v", shared.ErrInvalidInput, err)
	}

	db, err := r.openDatabase()
	if err != nil {
		return err
	}
	defer db.Close()

	notifier, err := repositories.NewNotifierRepository(db).Create(ctx, params)
	if err != nil {
		return err
	}

	r.logger.Info("notifier added", "id", notifier.ID, "type", params.Type())
	return r.writePlain("✓ Added discord notifier #%d\n", notifier.ID)
}

// NotifiersList prints configured sinks.
func (r *Runner) NotifiersList(ctx context.Context, cmd *cli.Command) error {
	db, err := r.openDatabase()
	if err != nil {
		return err
	}
	defer db.Close()

	notifiers, err := repositories.NewNotifierRepository(db).List(ctx)
	if err != nil {
		return err
	}

	if cmd.String("format") == "json" {
		return r.writeJSON(notifiers, true)
	}

	if len(notifiers) == 0 {
		return r.writePlain("No notifiers\n")
	}
	for _, n := range notifiers {
		target := ""
		if discord, ok := n.Params.(models.DiscordParams); ok {
			target = discord.WebhookURL
		}
		r.writePlain("#%d  %-8s %s\n", n.ID, n.Params.Type(), target)
	}
	return nil
}

// NotifiersRemove deletes a sink by id.
func (r *Runner) NotifiersRemove(ctx context.Context, cmd *cli.Command) error {
	id, err := parseID(cmd.StringArg("id"))
	if err != nil {
		return err
	}

	db, err := r.openDatabase()
	if err != nil {
		return err
	}
	defer db.Close()

	if err := repositories.NewNotifierRepository(db).Remove(ctx, id); err != nil {
		return fmt.Errorf("failed to remove notifier %d: %w", id, err)
	}
	return r.writePlain("✓ Removed notifier #%d\n", id)
}
