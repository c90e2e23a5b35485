// Package ui implements the terminal monitor for a running singarr server using bubbletea's Elm architecture.
//
// The monitor has two views:
//  1. [JobsView] : Recent jobs with live status, plus a feed of library changes
//  2. [LogView] : The progress log of the selected job
//
// The [Model] implements bubbletea's Init/Update/View pattern, receiving messages via the Msg union type.
// Jobs are fetched once over HTTP; every change after that arrives as an event on the server socket,
// read one at a time by a command that re-arms itself after each event.
//
// Keys: j/k to move, enter to open a job's log, esc to go back, s/c/f to enqueue a library sync, scan or search,
// r to refetch and q to quit. Contextual help is rendered with charmbracelet/bubbles/help.
package ui
