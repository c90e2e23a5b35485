package ui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/desertthunder/singarr/internal/models"
)

// MsgKind enumerates all message types in the application.
type MsgKind int

// Msg represents all possible messages in the TUI (Elm-style message union).
type Msg struct {
	kind MsgKind
	data any
}

var (
	_ tea.Msg = Msg{}
)

const (
	MsgJobsFetched MsgKind = iota
	MsgEvent
	MsgStreamClosed
	MsgEnqueued
)

type jobsResult struct {
	jobs []models.Job
	err  error
}

type enqueueResult struct {
	job models.Job
	err error
}

// jobsFetchedMsg is the constructor for [MsgJobsFetched]
func jobsFetchedMsg(jobs []models.Job, err error) Msg {
	return Msg{kind: MsgJobsFetched, data: jobsResult{jobs, err}}
}

// eventMsg is the constructor for [MsgEvent]
func eventMsg(event models.Event) Msg {
	return Msg{kind: MsgEvent, data: event}
}

// streamClosedMsg is the constructor for [MsgStreamClosed]
func streamClosedMsg(err error) Msg {
	return Msg{kind: MsgStreamClosed, data: err}
}

// enqueuedMsg is the constructor for [MsgEnqueued]
func enqueuedMsg(job models.Job, err error) Msg {
	return Msg{kind: MsgEnqueued, data: enqueueResult{job, err}}
}
