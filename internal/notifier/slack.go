package notifier

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"unicode/utf8"

	"github.com/amishk599/jobmarket/internal/model"
)

// Ensure SlackNotifier implements model.Notifier.
var _ model.Notifier = (*SlackNotifier)(nil)

// Slack rejects section text over 3000 characters and messages over 50 blocks.
const (
	maxSectionChars   = 3000
	maxBlocksPerBatch = 45
)

// SlackNotifier posts the analysis to a Slack channel via Incoming Webhooks.
type SlackNotifier struct {
	webhookURL string
	httpClient *http.Client
	logger     *slog.Logger
}

// NewSlackNotifier returns a notifier that posts the analysis via webhook.
func NewSlackNotifier(webhookURL string, httpClient *http.Client, logger *slog.Logger) *SlackNotifier {
	return &SlackNotifier{
		webhookURL: webhookURL,
		httpClient: httpClient,
		logger:     logger,
	}
}

// Notify sends the analysis using Block Kit. Long analyses are split across
// sections and, if needed, several messages. The first failed post aborts.
func (s *SlackNotifier) Notify(ctx context.Context, a model.Analysis) error {
	payloads := buildPayloads(a)
	for i, p := range payloads {
		if err := s.post(ctx, p); err != nil {
			return fmt.Errorf("slack message %d/%d: %w", i+1, len(payloads), err)
		}
	}
	s.logger.Info("slack notification sent", "messages", len(payloads), "jobs", a.JobCount)
	return nil
}

func (s *SlackNotifier) post(ctx context.Context, payload slackPayload) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal slack payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.webhookURL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("create slack request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("post to slack: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return &model.HTTPError{StatusCode: resp.StatusCode}
	}
	return nil
}

// Block Kit payload types.

type slackPayload struct {
	Text   string       `json:"text"`
	Blocks []slackBlock `json:"blocks"`
}

type slackBlock struct {
	Type     string      `json:"type"`
	Text     *slackText  `json:"text,omitempty"`
	Elements []slackText `json:"elements,omitempty"`
}

type slackText struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

// SendTestMessage sends a short dummy analysis to verify the integration works.
func SendTestMessage(ctx context.Context, n model.Notifier) error {
	return n.Notify(ctx, model.Analysis{
		Topic:    "Integration check",
		JobCount: 0,
		Text:     "Test notification from jobmarket. If you can read this, delivery works.",
	})
}

func buildPayloads(a model.Analysis) []slackPayload {
	title := "Job market analysis"
	if a.Topic != "" {
		title += ": " + a.Topic
	}

	status := fmt.Sprintf("Based on %d job postings", a.JobCount)
	switch {
	case a.Err != nil:
		status = "Analysis failed, the text below is the error message"
	case a.Fallback:
		status = "The model returned no answer"
	}

	first := slackPayload{
		Text: title,
		Blocks: []slackBlock{
			{Type: "header", Text: &slackText{Type: "plain_text", Text: truncate(title, 150)}},
			{Type: "context", Elements: []slackText{{Type: "mrkdwn", Text: status}}},
		},
	}
	payloads := []slackPayload{first}
	for _, chunk := range chunkText(a.Text, maxSectionChars) {
		last := &payloads[len(payloads)-1]
		if len(last.Blocks) >= maxBlocksPerBatch {
			payloads = append(payloads, slackPayload{Text: title})
			last = &payloads[len(payloads)-1]
		}
		last.Blocks = append(last.Blocks, slackBlock{
			Type: "section",
			Text: &slackText{Type: "mrkdwn", Text: chunk},
		})
	}
	for i := range payloads {
		payloads[i].Blocks = append(payloads[i].Blocks, slackBlock{Type: "divider"})
	}
	return payloads
}

// chunkText splits s into pieces of at most limit runes, preferring line
// breaks as split points.
func chunkText(s string, limit int) []string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}

	var chunks []string
	for utf8.RuneCountInString(s) > limit {
		cut := byteOffset(s, limit)
		if nl := strings.LastIndex(s[:cut], "\n"); nl > 0 {
			cut = nl
		}
		if c := strings.TrimSpace(s[:cut]); c != "" {
			chunks = append(chunks, c)
		}
		s = strings.TrimSpace(s[cut:])
	}
	if s != "" {
		chunks = append(chunks, s)
	}
	return chunks
}

// byteOffset returns the byte index just past the first n runes of s.
func byteOffset(s string, n int) int {
	i := 0
	for pos := range s {
		if i == n {
			return pos
		}
		i++
	}
	return len(s)
}

func truncate(s string, limit int) string {
	if utf8.RuneCountInString(s) <= limit {
		return s
	}
	return string([]rune(s)[:limit-1]) + "…"
}
