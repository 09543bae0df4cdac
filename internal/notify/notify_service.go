package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	log "github.com/sirupsen/logrus"
	"github.com/sizzlei/slack-notificator"
	"github.com/slack-go/slack"

	"channelmaster/internal/channel"
)

// Attachment colors
const (
	colorCreated = "#2eb67d"
	colorUpdated = "#36c5f0"
)

// SlackNotifier posts one attachment per saved channel to a fixed Slack channel.
type SlackNotifier struct {
	botToken  string
	channelID string
	send      func(text string, attachment slack.Attachment) error
}

// NewSlackNotifier returns nil when Slack is not configured, which the
// channel service treats as "no notifier".
func NewSlackNotifier(botToken, channelID string) *SlackNotifier {
	if botToken == "" || channelID == "" {
		return nil
	}
	n := &SlackNotifier{botToken: botToken, channelID: channelID}
	n.send = func(text string, attachment slack.Attachment) error {
		api := slacknotificator.GetClient(n.botToken)
		return api.SetChannel(n.channelID).SendAttachment(text, attachment)
	}
	return n
}

// NotifySaved implements channel.SaveNotifier.
func (n *SlackNotifier) NotifySaved(ctx context.Context, record *channel.ChannelRecord, created bool) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	text, attachment := BuildSavedMessage(record, created)
	if err := n.send(text, attachment); err != nil {
		return fmt.Errorf("slack send to %s: %w", n.channelID, err)
	}
	log.Infof("Slack notification sent (channel_id=%s)", record.ChannelID)
	return nil
}

// BuildSavedMessage renders the notification text and attachment for a save.
func BuildSavedMessage(record *channel.ChannelRecord, created bool) (string, slack.Attachment) {
	verb, color := "updated", colorUpdated
	if created {
		verb, color = "created", colorCreated
	}

	title := record.ChannelID
	if record.ChannelTitle != nil && *record.ChannelTitle != "" {
		title = *record.ChannelTitle
	}

	text := fmt.Sprintf("Channel master record %s: %s", verb, record.ChannelID)
	attachment := slack.Attachment{
		Color:     color,
		Title:     title,
		TitleLink: channel.ComputeURL(record.ChannelID),
		Fields: []slack.AttachmentField{
			{Title: "Channel ID", Value: record.ChannelID, Short: true},
			{Title: "Artist", Value: orDash(record.ArtistName), Short: true},
			{Title: "Status", Value: orDash(record.Status), Short: true},
			{Title: "Access level", Value: orDash(record.AccessLevel), Short: true},
			{Title: "Updated by", Value: orDash(record.UpdatedBy), Short: true},
		},
	}
	if record.UpdatedAt != nil {
		attachment.Ts = json.Number(strconv.FormatInt(record.UpdatedAt.Unix(), 10))
	}
	return text, attachment
}

func orDash(v *string) string {
	if v == nil || *v == "" {
		return "-"
	}
	return *v
}
