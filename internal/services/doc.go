// Package services defines the [Service] interface for the upstreams singarr talks to and implements it
// for Lidarr, TheAudioDB and a running singarr server.
//
// # Service Interface
//
// Every upstream reports a name and can be pinged, so the health endpoint checks them uniformly
// through [CheckAll].
//
// # Lidarr
//
// [LidarrService] reads base_url and api_key from [shared.Settings] on every request, so settings saved
// while the daemon runs take effect on the next call. The key travels in the X-Api-Key header.
//
// # TheAudioDB
//
// [AudioDBService] looks artists and albums up by MusicBrainz id. It does not need a key beyond the public one.
//
// # Images
//
// [ImageService] downloads artwork into the images folder. The extension is chosen from the sniffed
// content type, not the URL.
//
// # singarr Server
//
// [ServerClient] is the CLI's view of a running daemon: it enqueues and lists jobs over the JSON API
// and follows the event socket through an [EventStream].
//
// # Error Handling
//
// Services use typed errors from the shared package:
//   - [shared.ErrAPIRequest] : HTTP request failed or returned a non-2xx status
//   - [shared.ErrNotFound] : the upstream answered 404
//   - [shared.ErrServiceUnavailable] : the upstream could not be reached
//
// All clients share [APIClient], which wraps resty with a per-service rate limiter.
package services
