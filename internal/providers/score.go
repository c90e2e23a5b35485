package providers

import (
	"github.com/adrg/strutil"
	"github.com/adrg/strutil/metrics"

	"github.com/desertthunder/singarr/internal/models"
)

const (
	durationWeight = 0.4
	fieldWeight    = 0.2

	// unknownDuration scores candidates that report no duration.
	unknownDuration = 0.5
	// durationWindowMs is the difference at which the duration term reaches zero.
	durationWindowMs = 10_000.0
)

var jaroWinkler = func() *metrics.JaroWinkler {
	m := metrics.NewJaroWinkler()
	m.CaseSensitive = true
	return m
}()

// Score rates how well file matches track, in [0, 1].
func Score(track models.Track, file models.ProviderFile) float64 {
	duration := unknownDuration
	if file.DurationMs != nil {
		duration = ScoreDurations(track.DurationMs, *file.DurationMs)
	}

	return duration*durationWeight +
		ScoreStrings(track.Title, file.TrackName)*fieldWeight +
		ScoreStrings(track.ArtistName, file.ArtistName)*fieldWeight +
		ScoreStrings(track.AlbumTitle, file.AlbumTitle)*fieldWeight
}

// ScoreStrings is the Jaro-Winkler similarity of a and b.
func ScoreStrings(a, b string) float64 {
	if a == "" && b == "" {
		return 1
	}
	return strutil.Similarity(a, b, jaroWinkler)
}

// ScoreDurations is 1 for equal durations, falling to 0 at a ten second difference.
func ScoreDurations(a, b int64) float64 {
	diff := a - b
	if diff < 0 {
		diff = -diff
	}
	return clamp(1-float64(diff)/durationWindowMs, 0, 1)
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Select picks the best result scoring at least minScore.
//
// Synced results beat unsynced ones regardless of score; otherwise the higher score wins and
// ties keep the earlier result. Returns nil when nothing qualifies.
func Select(results []models.ProviderResult, minScore float64) *models.ProviderResult {
	var best *models.ProviderResult
	for i := range results {
		candidate := &results[i]
		if candidate.Score < minScore {
			continue
		}
		if best == nil || better(candidate, best) {
			best = candidate
		}
	}
	return best
}

func better(a, b *models.ProviderResult) bool {
	if a.File.Synced != b.File.Synced {
		return a.File.Synced
	}
	return a.Score > b.Score
}
