package notifier

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/desertthunder/singarr/internal/models"
	"github.com/desertthunder/singarr/internal/shared"
)

const (
	colorCreated = 0x00ff00
	colorDeleted = 0xff0000
	author       = "Singarr"
)

type discordField struct {
	Name   string `json:"name"`
	Value  string `json:"value"`
	Inline bool   `json:"inline"`
}

type discordImage struct {
	URL string `json:"url"`
}

type discordAuthor struct {
	Name string `json:"name"`
}

type discordEmbed struct {
	Author    *discordAuthor `json:"author,omitempty"`
	Title     string         `json:"title,omitempty"`
	Color     int            `json:"color,omitempty"`
	Image     *discordImage  `json:"image,omitempty"`
	Thumbnail *discordImage  `json:"thumbnail,omitempty"`
	Fields    []discordField `json:"fields,omitempty"`
}

type discordAttachment struct {
	ID       int    `json:"id"`
	Filename string `json:"filename"`
}

type discordMessage struct {
	Embeds      []discordEmbed      `json:"embeds"`
	Attachments []discordAttachment `json:"attachments"`
}

// ImageResolver maps stored image paths to files on disk. Implemented by services.ImageService.
type ImageResolver interface {
	Path(rel string) string
}

// Discord posts lyrics events to Discord webhooks.
type Discord struct {
	client *resty.Client
	images ImageResolver
}

// NewDiscord creates a Discord sink that attaches artwork resolved through images.
func NewDiscord(images ImageResolver) *Discord {
	return &Discord{
		client: resty.New().SetTimeout(30 * time.Second),
		images: images,
	}
}

// Notify posts lyricsCreated and lyricsDeleted events. Other events are ignored.
func (d *Discord) Notify(ctx context.Context, params models.NotifierParams, event models.Event) error {
	p, ok := params.(models.DiscordParams)
	if !ok {
		return fmt.Errorf("%w: discord sink got %q params", shared.ErrUnknownNotifier, params.Type())
	}

	var message *messageBuilder
	switch e := event.(type) {
	case models.LyricsCreated:
		message = newLyricsMessage(e.Lyrics, "Lyrics file imported", colorCreated)
	case models.LyricsDeleted:
		message = newLyricsMessage(e.Lyrics, "Lyrics file removed", colorDeleted)
	default:
		return nil
	}

	return d.post(ctx, p.WebhookURL, message)
}

// messageBuilder assembles one embed and the image files it references.
type messageBuilder struct {
	embed discordEmbed
	files []string // stored relative image paths, in attachment order
}

func newLyricsMessage(lyrics models.LyricsDetail, title string, color int) *messageBuilder {
	synced := "No"
	if lyrics.Synced {
		synced = "Yes"
	}
	provider := "Manual"
	if lyrics.Provider != nil {
		provider = *lyrics.Provider
	}

	m := &messageBuilder{embed: discordEmbed{
		Title: title,
		Color: color,
		Fields: []discordField{
			{Name: "Artist", Value: lyrics.Artist.Name},
			{Name: "Album", Value: lyrics.Album.Title},
			{Name: "Track", Value: lyrics.Track.Title},
			{Name: "Synced", Value: synced},
			{Name: "Provider", Value: provider},
			{Name: "File", Value: "`" + lyrics.FilePath + "`"},
		},
	}}

	if lyrics.Album.CoverPath != nil {
		m.embed.Image = m.attach(*lyrics.Album.CoverPath)
	}
	if lyrics.Artist.ImagePath != nil {
		m.embed.Thumbnail = m.attach(*lyrics.Artist.ImagePath)
	}
	return m
}

func (m *messageBuilder) attach(rel string) *discordImage {
	m.files = append(m.files, rel)
	return &discordImage{URL: "attachment://" + filepath.Base(rel)}
}

func (d *Discord) post(ctx context.Context, webhookURL string, m *messageBuilder) error {
	m.embed.Author = &discordAuthor{Name: author}
	message := discordMessage{Embeds: []discordEmbed{m.embed}, Attachments: []discordAttachment{}}

	req := d.client.R().SetContext(ctx)
	for _, rel := range m.files {
		data, err := os.ReadFile(d.images.Path(rel))
		if err != nil {
			// a missing image drops the reference, not the message
			dropImage(&message.Embeds[0], rel)
			continue
		}

		id := len(message.Attachments)
		name := filepath.Base(rel)
		message.Attachments = append(message.Attachments, discordAttachment{ID: id, Filename: name})
		req.SetFileReader(fmt.Sprintf("files[%d]", id), name, bytes.NewReader(data))
	}

	payload, err := json.Marshal(message)
	if err != nil {
		return fmt.Errorf("failed to encode discord message: %w", err)
	}
	req.SetMultipartField("payload_json", "", "application/json", bytes.NewReader(payload))

	resp, err := req.Post(webhookURL)
	if err != nil {
		return fmt.Errorf("%w: discord: %v", shared.ErrWebhookRejected, err)
	}
	if !resp.IsSuccess() {
		return fmt.Errorf("%w: discord returned status %d: %s", shared.ErrWebhookRejected, resp.StatusCode(), resp.String())
	}
	return nil
}

func dropImage(embed *discordEmbed, rel string) {
	ref := "attachment://" + filepath.Base(rel)
	if embed.Image != nil && embed.Image.URL == ref {
		embed.Image = nil
	}
	if embed.Thumbnail != nil && embed.Thumbnail.URL == ref {
		embed.Thumbnail = nil
	}
}
