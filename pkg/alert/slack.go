package alert

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
)

// Slack sends notifications via Slack incoming webhook.
type Slack struct {
	client     *http.Client
	webhookURL string
}

// NewSlack creates a new Slack notifier.
func NewSlack(webhookURL string) *Slack {
	return &Slack{client: newHTTPClient(), webhookURL: webhookURL}
}

func (s *Slack) Name() string { return "slack" }

type slackText struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

type slackBlock struct {
	Type     string      `json:"type"`
	Text     *slackText  `json:"text,omitempty"`
	Elements []slackText `json:"elements,omitempty"`
}

func (s *Slack) Send(ctx context.Context, n *Notification) error {
	blocks := []slackBlock{
		{
			Type: "header",
			Text: &slackText{Type: "plain_text", Text: fmt.Sprintf("🔥 %s", n.Title)},
		},
		{
			Type: "section",
			Text: &slackText{
				Type: "mrkdwn",
				Text: fmt.Sprintf("*Score:* %.2f (%s)\n%s\n<%s|Watch>", n.Score, n.Tier, n.Explanation, n.URL),
			},
		},
	}

	if len(n.KeyFactors) > 0 {
		blocks = append(blocks, slackBlock{
			Type: "context",
			Elements: []slackText{{
				Type: "mrkdwn",
				Text: "• " + strings.Join(n.KeyFactors, "\n• "),
			}},
		})
	}

	body, err := json.Marshal(map[string]any{"blocks": blocks})
	if err != nil {
		return fmt.Errorf("marshal slack payload: %w", err)
	}

	if err := post(ctx, s.client, s.webhookURL, body, nil); err != nil {
		return fmt.Errorf("slack webhook: %w", err)
	}
	return nil
}
