package ai

import (
	"bytes"
	_ "embed"
	"fmt"
	"text/template"

	"github.com/amishk599/jobmarket/internal/model"
)

//go:embed prompts/market_analysis.tmpl
var marketAnalysisPromptRaw string

// MarketAnalysisTemplate is the parsed prompt template for market analysis.
// Parsed once at package init; reused on every ComposePrompt call.
var MarketAnalysisTemplate = template.Must(template.New("market_analysis").Parse(marketAnalysisPromptRaw))

// absent is rendered in place of values the search provider sent as null.
const absent = "N/A"

// jobBlock is the pre-rendered view of one job used by the template.
type jobBlock struct {
	Title       string
	Description string
	Skills      string
	City        string
	State       string
	Country     string
	Latitude    string
	Longitude   string
	MinSalary   string
	MaxSalary   string
	Link        string
}

// ComposePrompt renders the analysis prompt for topic with one block per job,
// in the order given. An empty jobs slice still yields the full preamble and
// instructions.
func ComposePrompt(topic string, jobs []model.Job) (string, error) {
	return composeWith(MarketAnalysisTemplate, topic, jobs)
}

func composeWith(tmpl *template.Template, topic string, jobs []model.Job) (string, error) {
	blocks := make([]jobBlock, 0, len(jobs))
	for _, j := range jobs {
		blocks = append(blocks, newJobBlock(j))
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, struct {
		Topic string
		Jobs  []jobBlock
	}{
		Topic: topic,
		Jobs:  blocks,
	}); err != nil {
		return "", fmt.Errorf("render prompt: %w", err)
	}
	return buf.String(), nil
}

func newJobBlock(j model.Job) jobBlock {
	return jobBlock{
		Title:       text(j.Title),
		Description: text(j.Description),
		Skills:      text(j.RequiredSkills),
		City:        text(j.City),
		State:       text(j.State),
		Country:     text(j.Country),
		Latitude:    text(j.Latitude),
		Longitude:   text(j.Longitude),
		MinSalary:   text(j.MinSalary),
		MaxSalary:   text(j.MaxSalary),
		Link:        text(j.Link),
	}
}

func text(v model.Value) string {
	if s, ok := v.Text(); ok {
		return s
	}
	return absent
}
