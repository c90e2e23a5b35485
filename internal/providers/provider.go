// Package providers searches lyrics providers and ranks their candidates for a track.
//
// Every candidate is scored against the track with
//
//	0.4·duration + 0.2·title + 0.2·artist + 0.2·album
//
// where string terms are Jaro-Winkler similarities and the duration term falls linearly from 1
// to 0 over a ten second difference. [Select] then prefers synced lyrics over higher scores.
package providers

import (
	"context"
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/sourcegraph/conc"

	"github.com/desertthunder/singarr/internal/models"
	"github.com/desertthunder/singarr/internal/shared"
)

// Provider is a lyrics source.
type Provider interface {
	Name() string
	Search(ctx context.Context, track models.Track) ([]models.ProviderFile, error)
	Download(ctx context.Context, file models.ProviderFile) (string, error)
}

// Service fans searches out over every provider.
type Service struct {
	providers []Provider
	logger    *log.Logger
}

// NewService creates a Service over providers.
func NewService(logger *log.Logger, providers ...Provider) *Service {
	return &Service{providers: providers, logger: logger}
}

// Providers lists the configured providers.
func (s *Service) Providers() []Provider {
	return s.providers
}

// GetResults queries every provider concurrently and scores what they return.
//
// A failing provider is logged and skipped. Results are in provider order, unsorted.
func (s *Service) GetResults(ctx context.Context, track models.Track) ([]models.ProviderResult, error) {
	perProvider := make([][]models.ProviderResult, len(s.providers))

	var wg conc.WaitGroup
	for i, p := range s.providers {
		wg.Go(func() {
			files, err := p.Search(ctx, track)
			if err != nil {
				s.logger.Warn("provider search failed", "provider", p.Name(), "track", track.ID, "error", err)
				return
			}

			results := make([]models.ProviderResult, 0, len(files))
			for _, file := range files {
				results = append(results, models.ProviderResult{
					Provider: p.Name(),
					File:     file,
					Score:    Score(track, file),
				})
			}

			perProvider[i] = results
		})
	}
	wg.Wait()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	all := []models.ProviderResult{}
	for _, results := range perProvider {
		all = append(all, results...)
	}
	return all, nil
}

// Download returns the content of result, fetching it from its provider when not embedded.
func (s *Service) Download(ctx context.Context, result models.ProviderResult) (string, error) {
	if result.File.Content != nil {
		return *result.File.Content, nil
	}

	for _, p := range s.providers {
		if p.Name() == result.Provider {
			return p.Download(ctx, result.File)
		}
	}
	return "", fmt.Errorf("%w: provider %q", shared.ErrNotFound, result.Provider)
}
