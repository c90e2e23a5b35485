// Package models defines the data model shared by every singarr component.
//
// The package contains four groups of types:
//
// 1. Catalogue entities mirrored from Lidarr and the filesystem
//   - [Artist], [Album], [Track] : rows reconciled against Lidarr by lidarr id
//   - [Lyrics], [LyricsDetail] : lyrics files tracked on disk, with the track they belong to
//
// 2. Jobs
//   - [Job] : the persisted unit of background work and its [JobStatus]
//   - [Payload] : closed union with one struct per job kind, encoded as JSON with a "type" discriminant
//
// 3. Events
//   - [Event] : closed union of job lifecycle events ([JobStart], [JobLog], [JobEnd]) and
//     catalogue change events ([ArtistCreated], [LyricsDeleted], ...)
//
// 4. External records
//   - [LidarrArtist], [LidarrAlbum], [LidarrTrack], [LidarrTrackFile] : Lidarr API responses
//   - [AudioDBArtist], [AudioDBAlbum] : metadata enrichment lookups
//   - [ProviderFile], [ProviderResult] : scored lyrics candidates
//
// Payload and Event values are immutable structs. Copying one is always safe, which is what lets the
// scheduler enqueue the same payload on every tick.
package models
