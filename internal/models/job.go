package models

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/desertthunder/singarr/internal/shared"
)

// JobStatus is the lifecycle state of a [Job].
//
// pending → running → done | failed. Both done and failed are terminal.
type JobStatus string

const (
	JobPending JobStatus = "pending"
	JobRunning JobStatus = "running"
	JobDone    JobStatus = "done"
	JobFailed  JobStatus = "failed"
)

// ParseJobStatus converts a status name to a [JobStatus].
func ParseJobStatus(s string) (JobStatus, error) {
	switch JobStatus(s) {
	case JobPending, JobRunning, JobDone, JobFailed:
		return JobStatus(s), nil
	}
	return "", fmt.Errorf("%w: job status %q", shared.ErrInvalidArgument, s)
}

// Terminal reports whether the worker is finished with a job in this status.
func (s JobStatus) Terminal() bool {
	return s == JobDone || s == JobFailed
}

// Job is one unit of background work.
type Job struct {
	ID        int64
	Payload   Payload
	Status    JobStatus
	Error     *string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewJob returns a pending job for payload.
func NewJob(payload Payload) Job {
	now := time.Now().UTC()
	return Job{Payload: payload, Status: JobPending, CreatedAt: now, UpdatedAt: now}
}

type jobJSON struct {
	ID        int64           `json:"id"`
	Payload   json.RawMessage `json:"payload"`
	Status    JobStatus       `json:"status"`
	Error     *string         `json:"error"`
	CreatedAt time.Time       `json:"createdAt"`
	UpdatedAt time.Time       `json:"updatedAt"`
}

// MarshalJSON encodes the job with its payload as a tagged object.
func (j Job) MarshalJSON() ([]byte, error) {
	payload, err := MarshalPayload(j.Payload)
	if err != nil {
		return nil, err
	}
	return json.Marshal(jobJSON{
		ID:        j.ID,
		Payload:   payload,
		Status:    j.Status,
		Error:     j.Error,
		CreatedAt: j.CreatedAt,
		UpdatedAt: j.UpdatedAt,
	})
}

// UnmarshalJSON decodes a job and its tagged payload.
func (j *Job) UnmarshalJSON(data []byte) error {
	var raw jobJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	payload, err := UnmarshalPayload(raw.Payload)
	if err != nil {
		return err
	}
	*j = Job{
		ID:        raw.ID,
		Payload:   payload,
		Status:    raw.Status,
		Error:     raw.Error,
		CreatedAt: raw.CreatedAt,
		UpdatedAt: raw.UpdatedAt,
	}
	return nil
}

// PayloadType is the discriminant of a [Payload].
type PayloadType string

const (
	TypeCleanAlbum         PayloadType = "cleanAlbum"
	TypeImportLyrics       PayloadType = "importLyrics"
	TypeScanLibrary        PayloadType = "scanLibrary"
	TypeScanArtist         PayloadType = "scanArtist"
	TypeScanAlbum          PayloadType = "scanAlbum"
	TypeScanTrack          PayloadType = "scanTrack"
	TypeSearchLibrary      PayloadType = "searchLibrary"
	TypeSearchArtist       PayloadType = "searchArtist"
	TypeSearchAlbum        PayloadType = "searchAlbum"
	TypeSearchTrack        PayloadType = "searchTrack"
	TypeSyncLibrary        PayloadType = "syncLibrary"
	TypeSyncArtist         PayloadType = "syncArtist"
	TypeSyncAlbum          PayloadType = "syncAlbum"
	TypeSyncArtistMetadata PayloadType = "syncArtistMetadata"
	TypeSyncAlbumMetadata  PayloadType = "syncAlbumMetadata"
	TypeRemoveArtist       PayloadType = "removeArtist"
	TypeRemoveAlbum        PayloadType = "removeAlbum"
	TypeRemoveTrack        PayloadType = "removeTrack"
)

// PayloadTypes lists every job kind in a stable order.
var PayloadTypes = []PayloadType{
	TypeCleanAlbum, TypeImportLyrics,
	TypeScanLibrary, TypeScanArtist, TypeScanAlbum, TypeScanTrack,
	TypeSearchLibrary, TypeSearchArtist, TypeSearchAlbum, TypeSearchTrack,
	TypeSyncLibrary, TypeSyncArtist, TypeSyncAlbum, TypeSyncArtistMetadata, TypeSyncAlbumMetadata,
	TypeRemoveArtist, TypeRemoveAlbum, TypeRemoveTrack,
}

// Payload is the closed set of job parameters. Each implementation carries only the
// identifiers needed to re-derive its context, so a job replayed from storage is reproducible.
type Payload interface {
	Type() PayloadType
	payload()
}

type CleanAlbum struct {
	AlbumID int64 `json:"albumId" validate:"required,gt=0"`
}

type ImportLyrics struct {
	TrackID  int64   `json:"trackId" validate:"required,gt=0"`
	Content  string  `json:"content" validate:"required"`
	Synced   bool    `json:"synced"`
	Provider *string `json:"provider,omitempty"`
}

type ScanLibrary struct{}

type ScanArtist struct {
	ArtistID int64 `json:"artistId" validate:"required,gt=0"`
}

type ScanAlbum struct {
	AlbumID int64 `json:"albumId" validate:"required,gt=0"`
}

type ScanTrack struct {
	TrackID int64 `json:"trackId" validate:"required,gt=0"`
}

type SearchLibrary struct{}

type SearchArtist struct {
	ArtistID int64 `json:"artistId" validate:"required,gt=0"`
}

type SearchAlbum struct {
	AlbumID int64 `json:"albumId" validate:"required,gt=0"`
}

type SearchTrack struct {
	TrackID int64 `json:"trackId" validate:"required,gt=0"`
}

type SyncLibrary struct{}

type SyncArtist struct {
	ArtistID int64 `json:"artistId" validate:"required,gt=0"`
}

type SyncAlbum struct {
	AlbumID int64 `json:"albumId" validate:"required,gt=0"`
}

type SyncArtistMetadata struct {
	ArtistID int64 `json:"artistId" validate:"required,gt=0"`
	Force    bool  `json:"force"`
}

type SyncAlbumMetadata struct {
	AlbumID int64 `json:"albumId" validate:"required,gt=0"`
	Force   bool  `json:"force"`
}

type RemoveArtist struct {
	ArtistID int64 `json:"artistId" validate:"required,gt=0"`
}

type RemoveAlbum struct {
	AlbumID int64 `json:"albumId" validate:"required,gt=0"`
}

type RemoveTrack struct {
	TrackID int64 `json:"trackId" validate:"required,gt=0"`
}

func (CleanAlbum) Type() PayloadType         { return TypeCleanAlbum }
func (ImportLyrics) Type() PayloadType       { return TypeImportLyrics }
func (ScanLibrary) Type() PayloadType        { return TypeScanLibrary }
func (ScanArtist) Type() PayloadType         { return TypeScanArtist }
func (ScanAlbum) Type() PayloadType          { return TypeScanAlbum }
func (ScanTrack) Type() PayloadType          { return TypeScanTrack }
func (SearchLibrary) Type() PayloadType      { return TypeSearchLibrary }
func (SearchArtist) Type() PayloadType       { return TypeSearchArtist }
func (SearchAlbum) Type() PayloadType        { return TypeSearchAlbum }
func (SearchTrack) Type() PayloadType        { return TypeSearchTrack }
func (SyncLibrary) Type() PayloadType        { return TypeSyncLibrary }
func (SyncArtist) Type() PayloadType         { return TypeSyncArtist }
func (SyncAlbum) Type() PayloadType          { return TypeSyncAlbum }
func (SyncArtistMetadata) Type() PayloadType { return TypeSyncArtistMetadata }
func (SyncAlbumMetadata) Type() PayloadType  { return TypeSyncAlbumMetadata }
func (RemoveArtist) Type() PayloadType       { return TypeRemoveArtist }
func (RemoveAlbum) Type() PayloadType        { return TypeRemoveAlbum }
func (RemoveTrack) Type() PayloadType        { return TypeRemoveTrack }

func (CleanAlbum) payload()         {}
func (ImportLyrics) payload()       {}
func (ScanLibrary) payload()        {}
func (ScanArtist) payload()         {}
func (ScanAlbum) payload()          {}
func (ScanTrack) payload()          {}
func (SearchLibrary) payload()      {}
func (SearchArtist) payload()       {}
func (SearchAlbum) payload()        {}
func (SearchTrack) payload()        {}
func (SyncLibrary) payload()        {}
func (SyncArtist) payload()         {}
func (SyncAlbum) payload()          {}
func (SyncArtistMetadata) payload() {}
func (SyncAlbumMetadata) payload()  {}
func (RemoveArtist) payload()       {}
func (RemoveAlbum) payload()        {}
func (RemoveTrack) payload()        {}

// MarshalPayload encodes p as a JSON object with a "type" discriminant.
func MarshalPayload(p Payload) ([]byte, error) {
	if p == nil {
		return nil, fmt.Errorf("%w: nil payload", shared.ErrInvalidPayload)
	}
	return marshalTagged(string(p.Type()), p)
}

// UnmarshalPayload decodes a "type" discriminated payload.
func UnmarshalPayload(data []byte) (Payload, error) {
	tag, err := readTag(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", shared.ErrInvalidPayload, err)
	}

	target, err := NewPayload(PayloadType(tag))
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(data, target); err != nil {
		return nil, fmt.Errorf("%w: %v", shared.ErrInvalidPayload, err)
	}
	return derefPayload(target), nil
}

// NewPayload returns a pointer to the zero payload of kind t, ready to be decoded into.
func NewPayload(t PayloadType) (any, error) {
	switch t {
	case TypeCleanAlbum:
		return &CleanAlbum{}, nil
	case TypeImportLyrics:
		return &ImportLyrics{}, nil
	case TypeScanLibrary:
		return &ScanLibrary{}, nil
	case TypeScanArtist:
		return &ScanArtist{}, nil
	case TypeScanAlbum:
		return &ScanAlbum{}, nil
	case TypeScanTrack:
		return &ScanTrack{}, nil
	case TypeSearchLibrary:
		return &SearchLibrary{}, nil
	case TypeSearchArtist:
		return &SearchArtist{}, nil
	case TypeSearchAlbum:
		return &SearchAlbum{}, nil
	case TypeSearchTrack:
		return &SearchTrack{}, nil
	case TypeSyncLibrary:
		return &SyncLibrary{}, nil
	case TypeSyncArtist:
		return &SyncArtist{}, nil
	case TypeSyncAlbum:
		return &SyncAlbum{}, nil
	case TypeSyncArtistMetadata:
		return &SyncArtistMetadata{}, nil
	case TypeSyncAlbumMetadata:
		return &SyncAlbumMetadata{}, nil
	case TypeRemoveArtist:
		return &RemoveArtist{}, nil
	case TypeRemoveAlbum:
		return &RemoveAlbum{}, nil
	case TypeRemoveTrack:
		return &RemoveTrack{}, nil
	}
	return nil, fmt.Errorf("%w: %q", shared.ErrUnknownPayload, t)
}

func derefPayload(p any) Payload {
	switch v := p.(type) {
	case *CleanAlbum:
		return *v
	case *ImportLyrics:
		return *v
	case *ScanLibrary:
		return *v
	case *ScanArtist:
		return *v
	case *ScanAlbum:
		return *v
	case *ScanTrack:
		return *v
	case *SearchLibrary:
		return *v
	case *SearchArtist:
		return *v
	case *SearchAlbum:
		return *v
	case *SearchTrack:
		return *v
	case *SyncLibrary:
		return *v
	case *SyncArtist:
		return *v
	case *SyncAlbum:
		return *v
	case *SyncArtistMetadata:
		return *v
	case *SyncAlbumMetadata:
		return *v
	case *RemoveArtist:
		return *v
	case *RemoveAlbum:
		return *v
	case *RemoveTrack:
		return *v
	}
	return nil
}

// BuildPayload constructs a payload of kind t from a single entity id, as used by the CLI.
// Library-wide kinds ignore id.
func BuildPayload(t PayloadType, id int64, force bool) (Payload, error) {
	switch t {
	case TypeCleanAlbum:
		return CleanAlbum{AlbumID: id}, nil
	case TypeScanLibrary:
		return ScanLibrary{}, nil
	case TypeScanArtist:
		return ScanArtist{ArtistID: id}, nil
	case TypeScanAlbum:
		return ScanAlbum{AlbumID: id}, nil
	case TypeScanTrack:
		return ScanTrack{TrackID: id}, nil
	case TypeSearchLibrary:
		return SearchLibrary{}, nil
	case TypeSearchArtist:
		return SearchArtist{ArtistID: id}, nil
	case TypeSearchAlbum:
		return SearchAlbum{AlbumID: id}, nil
	case TypeSearchTrack:
		return SearchTrack{TrackID: id}, nil
	case TypeSyncLibrary:
		return SyncLibrary{}, nil
	case TypeSyncArtist:
		return SyncArtist{ArtistID: id}, nil
	case TypeSyncAlbum:
		return SyncAlbum{AlbumID: id}, nil
	case TypeSyncArtistMetadata:
		return SyncArtistMetadata{ArtistID: id, Force: force}, nil
	case TypeSyncAlbumMetadata:
		return SyncAlbumMetadata{AlbumID: id, Force: force}, nil
	case TypeRemoveArtist:
		return RemoveArtist{ArtistID: id}, nil
	case TypeRemoveAlbum:
		return RemoveAlbum{AlbumID: id}, nil
	case TypeRemoveTrack:
		return RemoveTrack{TrackID: id}, nil
	case TypeImportLyrics:
		return nil, fmt.Errorf("%w: importLyrics needs content and cannot be built from an id", shared.ErrInvalidArgument)
	}
	return nil, fmt.Errorf("%w: %q", shared.ErrUnknownPayload, t)
}

// JobFilter narrows job listings. A zero Limit returns every match.
type JobFilter struct {
	Status *JobStatus
	Limit  int
}

// TaskInfo describes a recurring task and when it fires next.
type TaskInfo struct {
	ID      string
	Cron    string
	Payload Payload
	Next    *time.Time
}

type taskInfoJSON struct {
	ID      string          `json:"id"`
	Cron    string          `json:"cron"`
	Payload json.RawMessage `json:"payload"`
	Next    *time.Time      `json:"next,omitempty"`
}

// MarshalJSON encodes the task with its payload as a tagged object.
func (t TaskInfo) MarshalJSON() ([]byte, error) {
	payload, err := MarshalPayload(t.Payload)
	if err != nil {
		return nil, err
	}
	return json.Marshal(taskInfoJSON{ID: t.ID, Cron: t.Cron, Payload: payload, Next: t.Next})
}

// UnmarshalJSON decodes a task and its tagged payload.
func (t *TaskInfo) UnmarshalJSON(data []byte) error {
	var raw taskInfoJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	payload, err := UnmarshalPayload(raw.Payload)
	if err != nil {
		return err
	}
	*t = TaskInfo{ID: raw.ID, Cron: raw.Cron, Payload: payload, Next: raw.Next}
	return nil
}
