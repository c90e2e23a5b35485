package tasks

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/desertthunder/singarr/internal/lrc"
	"github.com/desertthunder/singarr/internal/models"
	"github.com/desertthunder/singarr/internal/shared"
)

func (e *Engine) scanLibrary(ctx context.Context, c Context) error {
	artists, err := e.artists.List(ctx)
	if err != nil {
		return err
	}
	for i, artist := range artists {
		c.Log(scanningArtistUpdate(i+1, len(artists), artist.Name))
		if err := e.scanArtist(ctx, c, artist.ID); err != nil {
			return err
		}
	}
	return nil
}

func (e *Engine) scanArtist(ctx context.Context, c Context, artistID int64) error {
	albums, err := e.albums.List(ctx, models.AlbumFilter{ArtistID: &artistID})
	if err != nil {
		return err
	}
	for i, album := range albums {
		c.Log(scanningAlbumUpdate(i+1, len(albums), album.Title))
		if err := e.scanAlbum(ctx, c, album.ID); err != nil {
			return err
		}
	}
	return nil
}

func (e *Engine) scanAlbum(ctx context.Context, c Context, albumID int64) error {
	tracks, err := e.tracks.List(ctx, models.TrackFilter{AlbumID: &albumID})
	if err != nil {
		return err
	}
	for i, track := range tracks {
		c.Log(scanningTrackUpdate(i+1, len(tracks), track.Title))
		if err := e.scanTrack(ctx, c, track.ID); err != nil {
			return err
		}
	}

	c.Log(cleaningUpdate)
	return e.cleanAlbum(ctx, c, albumID)
}

// scanTrack records every unknown .lrc file next to the track whose name starts with the track's file name.
func (e *Engine) scanTrack(ctx context.Context, _ Context, trackID int64) error {
	track, err := e.tracks.Find(ctx, trackID)
	if err != nil {
		return err
	}

	root := e.root()
	trackPath, stem, err := resolveTrack(root, track)
	if err != nil {
		return err
	}

	entries, err := os.ReadDir(filepath.Dir(trackPath))
	if err != nil {
		return fmt.Errorf("failed to read track folder: %w", err)
	}

	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || filepath.Ext(name) != ".lrc" || !strings.HasPrefix(strings.TrimSuffix(name, ".lrc"), stem) {
			continue
		}

		abs := filepath.Join(filepath.Dir(trackPath), name)
		rel, err := relativeTo(root, abs)
		if err != nil {
			return err
		}

		existing, err := e.lyrics.FindByPath(ctx, rel)
		if err != nil {
			return err
		}
		if existing != nil {
			continue
		}

		content, err := os.ReadFile(abs)
		if err != nil {
			return fmt.Errorf("failed to read lyrics file: %w", err)
		}

		_, err = e.lyrics.Create(ctx, models.CreateLyrics{
			TrackID:  track.ID,
			FilePath: rel,
			Synced:   lrc.Parse(string(content)).LyricsType() == lrc.Synced,
			Checksum: shared.Checksum(content),
		})
		if err != nil {
			return err
		}
	}
	return nil
}

// cleanAlbum forgets the lyrics of an album whose file is no longer on disk.
func (e *Engine) cleanAlbum(ctx context.Context, _ Context, albumID int64) error {
	all, err := e.lyrics.List(ctx, models.LyricsFilter{AlbumID: &albumID})
	if err != nil {
		return err
	}

	root := e.root()
	folders := map[string]map[string]bool{}
	keep := []int64{}

	for _, lyrics := range all {
		abs := filepath.Join(root, filepath.FromSlash(lyrics.FilePath))
		dir := filepath.Dir(abs)

		present, ok := folders[dir]
		if !ok {
			present, err = listFolder(dir)
			if err != nil {
				return err
			}
			folders[dir] = present
		}

		if present[filepath.Base(abs)] {
			keep = append(keep, lyrics.ID)
		}
	}

	_, err = e.lyrics.DeleteMany(ctx, albumID, keep)
	return err
}

// importLyrics writes content next to the track as the first free stem.lrc, stem.1.lrc, ... and records it.
func (e *Engine) importLyrics(ctx context.Context, _ Context, p models.ImportLyrics) error {
	track, err := e.tracks.Find(ctx, p.TrackID)
	if err != nil {
		return err
	}

	root := e.root()
	trackPath, stem, err := resolveTrack(root, track)
	if err != nil {
		return err
	}

	dest, err := writeFreeLyrics(filepath.Dir(trackPath), stem, p.Content)
	if err != nil {
		return err
	}

	rel, err := relativeTo(root, dest)
	if err != nil {
		return err
	}

	_, err = e.lyrics.Create(ctx, models.CreateLyrics{
		TrackID:  track.ID,
		FilePath: rel,
		Synced:   p.Synced,
		Checksum: shared.Checksum([]byte(p.Content)),
		Provider: p.Provider,
	})
	return err
}

// resolveTrack returns the absolute path of the track's audio file and its name without extension.
func resolveTrack(root string, track models.Track) (string, string, error) {
	rel := shared.RelativePath(track.FilePath)
	if rel == "" {
		return "", "", fmt.Errorf("%w: track %d has no file", shared.ErrInvalidTrackPath, track.ID)
	}

	abs := filepath.Join(root, filepath.FromSlash(rel))
	base := filepath.Base(abs)
	stem := strings.TrimSuffix(base, filepath.Ext(base))
	if stem == "" {
		return "", "", fmt.Errorf("%w: %s", shared.ErrInvalidTrackPath, track.FilePath)
	}
	return abs, stem, nil
}

func relativeTo(root, abs string) (string, error) {
	rel, err := filepath.Rel(root, abs)
	if err != nil || strings.HasPrefix(rel, "..") {
		return "", fmt.Errorf("%w: %s is outside %s", shared.ErrInvalidTrackPath, abs, root)
	}
	return filepath.ToSlash(rel), nil
}

// writeFreeLyrics creates the first of stem.lrc, stem.1.lrc, ... that does not exist yet and writes content to it.
// Each candidate is created exclusively, so concurrent imports for the same track never share a file.
func writeFreeLyrics(dir, stem, content string) (string, error) {
	for i := 0; ; i++ {
		name := stem + ".lrc"
		if i > 0 {
			name = fmt.Sprintf("%s.%d.lrc", stem, i)
		}

		candidate := filepath.Join(dir, name)
		f, err := os.OpenFile(candidate, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0644)
		if errors.Is(err, fs.ErrExist) {
			continue
		}
		if err != nil {
			return "", fmt.Errorf("failed to create lyrics file: %w", err)
		}

		_, err = f.WriteString(content)
		if cerr := f.Close(); err == nil {
			err = cerr
		}
		if err != nil {
			os.Remove(candidate)
			return "", fmt.Errorf("failed to write lyrics file: %w", err)
		}
		return candidate, nil
	}
}

// listFolder returns the names in dir. A missing folder is empty.
func listFolder(dir string) (map[string]bool, error) {
	entries, err := os.ReadDir(dir)
	if errors.Is(err, fs.ErrNotExist) {
		return map[string]bool{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read lyrics folder: %w", err)
	}

	names := make(map[string]bool, len(entries))
	for _, entry := range entries {
		names[entry.Name()] = true
	}
	return names, nil
}
