package tasks

import "fmt"

// Progress lines written through [Context.Log]. Counters are one-based.

func syncingArtistUpdate(step, total int, name string) string {
	return fmt.Sprintf("[%d/%d] Syncing artist: %s", step, total, name)
}

func syncingAlbumUpdate(step, total int, title string) string {
	return fmt.Sprintf("[%d/%d] Syncing album: %s", step, total, title)
}

func scanningArtistUpdate(step, total int, name string) string {
	return fmt.Sprintf("[%d/%d] Scanning artist: %s", step, total, name)
}

func scanningAlbumUpdate(step, total int, title string) string {
	return fmt.Sprintf("[%d/%d] Scanning album: %s", step, total, title)
}

func scanningTrackUpdate(step, total int, title string) string {
	return fmt.Sprintf("[%d/%d] Scanning track: %s", step, total, title)
}

func searchingArtistUpdate(step, total int, name string) string {
	return fmt.Sprintf("[%d/%d] Searching artist: %s", step, total, name)
}

func searchingTracksUpdate(step, total int) string {
	return fmt.Sprintf("[%d/%d] Searching tracks", step, total)
}

func noCandidateUpdate(title string, results int) string {
	return fmt.Sprintf("No lyrics found for %s (%d results)", title, results)
}

func emptyContentUpdate(title, provider string) string {
	return fmt.Sprintf("Skipping %s: %s returned no lyrics", title, provider)
}

func importedUpdate(title, provider string, score float64, synced bool) string {
	kind := "plain"
	if synced {
		kind = "synced"
	}
	return fmt.Sprintf("Imported %s lyrics for %s from %s (score %.2f)", kind, title, provider, score)
}

const (
	cleaningUpdate        = "Cleaning removed tracks"
	downloadFailedUpdate  = "Failed to download image"
	removingArtistsUpdate = "Removing missing artists"
	removingAlbumsUpdate  = "Removing missing albums"
	removingTracksUpdate  = "Removing missing tracks"
)
