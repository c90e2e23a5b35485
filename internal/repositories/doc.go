// Package repositories implements SQLite persistence for singarr.
//
// Catalogue repositories mirror Lidarr records keyed by lidarr_id and announce every change
// on the event bus:
//   - [ArtistRepository] : artists, their images and biographies
//   - [AlbumRepository] : albums with per-album lyrics statistics
//   - [TrackRepository] : tracks paired with their Lidarr track file
//   - [LyricsRepository] : lyrics files found on disk or imported from providers
//
// Bookkeeping repositories do not emit events:
//   - [JobRepository] : background jobs and their status, kept as an audit trail
//   - [NotifierRepository] : configured event sinks
//
// Reconciliation relies on the FindExcluding methods, which return the ids of local rows that
// are absent from the set accepted during the current sync pass.
package repositories
