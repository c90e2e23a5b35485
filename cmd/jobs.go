package main

import (
	"context"
	"fmt"
	"strconv"

	"github.com/urfave/cli/v3"

	"github.com/desertthunder/singarr/internal/models"
	"github.com/desertthunder/singarr/internal/shared"
)

// JobsEnqueue builds a payload from its type and --id and submits it to the server.
func (r *Runner) JobsEnqueue(ctx context.Context, cmd *cli.Command) error {
	kind := cmd.StringArg("type")
	if kind == "" {
		return fmt.Errorf("%w: job type", shared.ErrMissingArgument)
	}

	payload, err := models.BuildPayload(models.PayloadType(kind), cmd.Int64("id"), cmd.Bool("force"))
	if err != nil {
		return err
	}

	r.logger.Debug("enqueue request", "type", kind, "id", cmd.Int64("id"))
	job, err := r.serverClient(cmd).Enqueue(ctx, payload)
	if err != nil {
		return err
	}
	return r.write(cmd, job)
}

// JobsList prints recent jobs, newest first.
func (r *Runner) JobsList(ctx context.Context, cmd *cli.Command) error {
	filter := models.JobFilter{Limit: int(cmd.Int("limit"))}
	if raw := cmd.String("status"); raw != "" {
		status, err := models.ParseJobStatus(raw)
		if err != nil {
			return err
		}
		filter.Status = &status
	}

	jobs, err := r.serverClient(cmd).List(ctx, filter)
	if err != nil {
		return err
	}
	return r.write(cmd, jobs)
}

// JobsShow prints a single job.
func (r *Runner) JobsShow(ctx context.Context, cmd *cli.Command) error {
	id, err := parseID(cmd.StringArg("id"))
	if err != nil {
		return err
	}

	job, err := r.serverClient(cmd).Find(ctx, id)
	if err != nil {
		return err
	}
	return r.write(cmd, job)
}

// TasksList prints the recurring tasks of the server.
func (r *Runner) TasksList(ctx context.Context, cmd *cli.Command) error {
	tasks, err := r.serverClient(cmd).Tasks(ctx)
	if err != nil {
		return err
	}
	return r.write(cmd, tasks)
}

func parseID(raw string) (int64, error) {
	if raw == "" {
		return 0, fmt.Errorf("%w: id", shared.ErrMissingArgument)
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%w: id %q", shared.ErrInvalidArgument, raw)
	}
	return id, nil
}
