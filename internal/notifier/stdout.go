package notifier

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/amishk599/jobmarket/internal/model"
)

// Ensure StdoutNotifier implements model.Notifier.
var _ model.Notifier = (*StdoutNotifier)(nil)

// StdoutNotifier writes the analysis text to w, unadorned, so the output can
// be piped.
type StdoutNotifier struct {
	w io.Writer
}

// NewStdoutNotifier returns a notifier that prints to w.
func NewStdoutNotifier(w io.Writer) *StdoutNotifier {
	return &StdoutNotifier{w: w}
}

// Notify prints the analysis text followed by a newline.
func (n *StdoutNotifier) Notify(_ context.Context, a model.Analysis) error {
	text := a.Text
	if !strings.HasSuffix(text, "\n") {
		text += "\n"
	}
	if _, err := io.WriteString(n.w, text); err != nil {
		return fmt.Errorf("write analysis: %w", err)
	}
	return nil
}
