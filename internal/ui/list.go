package ui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/list"

	"github.com/desertthunder/singarr/internal/formatter"
	"github.com/desertthunder/singarr/internal/models"
)

var (
	_ list.Item = jobItem{}
)

// jobItem wraps [models.Job] to implement [list.Item].
type jobItem struct {
	job  models.Job
	last string
}

func (i jobItem) FilterValue() string { return string(i.job.Payload.Type()) }
func (i jobItem) Title() string {
	return fmt.Sprintf("#%d %s", i.job.ID, formatter.PayloadSummary(i.job.Payload))
}
func (i jobItem) Description() string {
	desc := styles.status(i.job.Status)
	switch {
	case i.job.Error != nil:
		desc = fmt.Sprintf("%s • %s", desc, *i.job.Error)
	case i.last != "":
		desc = fmt.Sprintf("%s • %s", desc, i.last)
	}
	return desc
}
