// Package tasks runs the work behind every job kind.
//
// # Engine
//
// [Engine.Run] is the single dispatch point: it switches over the job payload and calls the
// matching handler. Handlers compose by calling each other directly, so a library sync runs
// every artist sync inline and a failure anywhere fails the outer job.
//
// # Job kinds
//
//   - sync_*: mirror artists, albums and tracks from Lidarr and remove what Lidarr dropped
//   - sync_*_metadata: fetch artwork and descriptions from TheAudioDB
//   - scan_*: index .lrc files found next to the audio files
//   - clean_album: forget lyrics whose file is gone
//   - search_*: query lyrics providers and import the best candidate
//   - import_lyrics: write a lyrics file next to the track and record it
//   - remove_*: delete catalogue rows with their lyrics files and artwork
//
// # Progress
//
// Handlers report through [Context.Log], which writes a structured log line and publishes a
// jobLog event for live subscribers.
package tasks
