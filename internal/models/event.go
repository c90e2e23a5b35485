package models

import (
	"encoding/json"
	"fmt"

	"github.com/desertthunder/singarr/internal/shared"
)

// EventType is the discriminant of an [Event].
type EventType string

const (
	EventJobStart      EventType = "jobStart"
	EventJobLog        EventType = "jobLog"
	EventJobEnd        EventType = "jobEnd"
	EventArtistCreated EventType = "artistCreated"
	EventArtistUpdated EventType = "artistUpdated"
	EventArtistDeleted EventType = "artistDeleted"
	EventAlbumCreated  EventType = "albumCreated"
	EventAlbumUpdated  EventType = "albumUpdated"
	EventAlbumDeleted  EventType = "albumDeleted"
	EventTrackCreated  EventType = "trackCreated"
	EventTrackUpdated  EventType = "trackUpdated"
	EventTrackDeleted  EventType = "trackDeleted"
	EventLyricsCreated EventType = "lyricsCreated"
	EventLyricsDeleted EventType = "lyricsDeleted"
)

// Event is the closed set of messages carried by the event bus.
// Events are never persisted; only live subscribers see them.
type Event interface {
	Type() EventType
	event()
}

// JobStart is sent when the worker picks a job up.
type JobStart struct {
	Job Job `json:"job"`
}

// JobLog is a progress line written by a running job.
type JobLog struct {
	JobID int64  `json:"jobId"`
	Log   string `json:"log"`
}

// JobEnd is sent after a job reaches done or failed.
type JobEnd struct {
	Job Job `json:"job"`
}

type ArtistCreated struct {
	Artist Artist `json:"artist"`
}

type ArtistUpdated struct {
	Artist Artist `json:"artist"`
}

type ArtistDeleted struct {
	Artist Artist `json:"artist"`
}

type AlbumCreated struct {
	Album Album `json:"album"`
}

type AlbumUpdated struct {
	Album Album `json:"album"`
}

type AlbumDeleted struct {
	Album Album `json:"album"`
}

type TrackCreated struct {
	Track Track `json:"track"`
}

type TrackUpdated struct {
	Track Track `json:"track"`
}

type TrackDeleted struct {
	Track Track `json:"track"`
}

type LyricsCreated struct {
	Lyrics LyricsDetail `json:"lyrics"`
}

type LyricsDeleted struct {
	Lyrics LyricsDetail `json:"lyrics"`
}

func (JobStart) Type() EventType      { return EventJobStart }
func (JobLog) Type() EventType        { return EventJobLog }
func (JobEnd) Type() EventType        { return EventJobEnd }
func (ArtistCreated) Type() EventType { return EventArtistCreated }
func (ArtistUpdated) Type() EventType { return EventArtistUpdated }
func (ArtistDeleted) Type() EventType { return EventArtistDeleted }
func (AlbumCreated) Type() EventType  { return EventAlbumCreated }
func (AlbumUpdated) Type() EventType  { return EventAlbumUpdated }
func (AlbumDeleted) Type() EventType  { return EventAlbumDeleted }
func (TrackCreated) Type() EventType  { return EventTrackCreated }
func (TrackUpdated) Type() EventType  { return EventTrackUpdated }
func (TrackDeleted) Type() EventType  { return EventTrackDeleted }
func (LyricsCreated) Type() EventType { return EventLyricsCreated }
func (LyricsDeleted) Type() EventType { return EventLyricsDeleted }

func (JobStart) event()      {}
func (JobLog) event()        {}
func (JobEnd) event()        {}
func (ArtistCreated) event() {}
func (ArtistUpdated) event() {}
func (ArtistDeleted) event() {}
func (AlbumCreated) event()  {}
func (AlbumUpdated) event()  {}
func (AlbumDeleted) event()  {}
func (TrackCreated) event()  {}
func (TrackUpdated) event()  {}
func (TrackDeleted) event()  {}
func (LyricsCreated) event() {}
func (LyricsDeleted) event() {}

// EventJobID returns the id of the job an event belongs to, if it is a lifecycle event.
func EventJobID(e Event) (int64, bool) {
	switch v := e.(type) {
	case JobStart:
		return v.Job.ID, true
	case JobLog:
		return v.JobID, true
	case JobEnd:
		return v.Job.ID, true
	}
	return 0, false
}

// MarshalEvent encodes e as a JSON object with a "type" discriminant.
func MarshalEvent(e Event) ([]byte, error) {
	return marshalTagged(string(e.Type()), e)
}

// UnmarshalEvent decodes a "type" discriminated event.
func UnmarshalEvent(data []byte) (Event, error) {
	tag, err := readTag(data)
	if err != nil {
		return nil, err
	}

	switch EventType(tag) {
	case EventJobStart:
		return decodeEvent[JobStart](data)
	case EventJobLog:
		return decodeEvent[JobLog](data)
	case EventJobEnd:
		return decodeEvent[JobEnd](data)
	case EventArtistCreated:
		return decodeEvent[ArtistCreated](data)
	case EventArtistUpdated:
		return decodeEvent[ArtistUpdated](data)
	case EventArtistDeleted:
		return decodeEvent[ArtistDeleted](data)
	case EventAlbumCreated:
		return decodeEvent[AlbumCreated](data)
	case EventAlbumUpdated:
		return decodeEvent[AlbumUpdated](data)
	case EventAlbumDeleted:
		return decodeEvent[AlbumDeleted](data)
	case EventTrackCreated:
		return decodeEvent[TrackCreated](data)
	case EventTrackUpdated:
		return decodeEvent[TrackUpdated](data)
	case EventTrackDeleted:
		return decodeEvent[TrackDeleted](data)
	case EventLyricsCreated:
		return decodeEvent[LyricsCreated](data)
	case EventLyricsDeleted:
		return decodeEvent[LyricsDeleted](data)
	}
	return nil, fmt.Errorf("%w: %q", shared.ErrUnknownEvent, tag)
}

func decodeEvent[T Event](data []byte) (Event, error) {
	var e T
	if err := json.Unmarshal(data, &e); err != nil {
		return nil, fmt.Errorf("failed to decode %s event: %w", e.Type(), err)
	}
	return e, nil
}
