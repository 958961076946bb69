package alert

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"
)

const discordColor = 0xFF0033

// Discord sends notifications via Discord webhook.
type Discord struct {
	client     *http.Client
	webhookURL string
}

// NewDiscord creates a new Discord notifier.
func NewDiscord(webhookURL string) *Discord {
	return &Discord{client: newHTTPClient(), webhookURL: webhookURL}
}

func (d *Discord) Name() string { return "discord" }

type discordEmbed struct {
	Title       string            `json:"title"`
	URL         string            `json:"url,omitempty"`
	Description string            `json:"description"`
	Color       int               `json:"color"`
	Timestamp   string            `json:"timestamp"`
	Thumbnail   *discordThumbnail `json:"thumbnail,omitempty"`
}

type discordThumbnail struct {
	URL string `json:"url"`
}

func (d *Discord) Send(ctx context.Context, n *Notification) error {
	var factors []string
	for _, f := range n.KeyFactors {
		factors = append(factors, "• "+f)
	}

	at := n.AnalyzedAt
	if at.IsZero() {
		at = time.Now()
	}

	embed := discordEmbed{
		Title:       fmt.Sprintf("🔥 %s", n.Title),
		URL:         n.URL,
		Description: fmt.Sprintf("**Score:** %.2f (%s)\n\n%s\n\n%s", n.Score, n.Tier, n.Explanation, strings.Join(factors, "\n")),
		Color:       discordColor,
		Timestamp:   at.UTC().Format(time.RFC3339),
	}
	if n.ThumbnailURL != "" {
		embed.Thumbnail = &discordThumbnail{URL: n.ThumbnailURL}
	}

	body, err := json.Marshal(map[string]any{"embeds": []discordEmbed{embed}})
	if err != nil {
		return fmt.Errorf("marshal discord payload: %w", err)
	}

	if err := post(ctx, d.client, d.webhookURL, body, nil); err != nil {
		return fmt.Errorf("discord webhook: %w", err)
	}
	return nil
}
