// Package text provides plain text output without any styling
package text

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/arthur-debert/ctxdump/pkg/core"
	"github.com/arthur-debert/ctxdump/pkg/decision"
	"github.com/arthur-debert/ctxdump/pkg/errors"
)

// Styler decorates a piece of output with a named style
type Styler func(name, s string) string

func plain(_, s string) string { return s }

// Renderer lays out results as aligned text lines. The terminal renderer
// reuses the layout with a lipgloss Styler.
type Renderer struct {
	output io.Writer
	style  Styler
}

// New creates a new text renderer
func New(output io.Writer) (*Renderer, error) {
	return NewStyled(output, nil)
}

// NewStyled creates a renderer that passes every fragment through style
func NewStyled(output io.Writer, style Styler) (*Renderer, error) {
	if style == nil {
		style = plain
	}
	return &Renderer{output: output, style: style}, nil
}

// RenderResult renders any result type as text
func (r *Renderer) RenderResult(result interface{}) error {
	switch v := result.(type) {
	case *core.ExplainResult:
		return r.renderExplain(v)
	case decision.CheckResult:
		return r.renderCheck(v)
	case *decision.CheckResult:
		return r.renderCheck(*v)
	case core.RuleListing:
		return r.renderListing(v)
	default:
		_, err := fmt.Fprintf(r.output, "%+v\n", result)
		return err
	}
}

// RenderError renders an error with its details, sorted by key
func (r *Renderer) RenderError(err error) error {
	if _, werr := fmt.Fprintf(r.output, "%s %s\n", r.style("Error", "Error:"), err.Error()); werr != nil {
		return werr
	}
	details := errors.GetErrorDetails(err)
	keys := make([]string, 0, len(details))
	for k := range details {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		if _, werr := fmt.Fprintf(r.output, "  %s %v\n", r.style("Muted", k+":"), details[k]); werr != nil {
			return werr
		}
	}
	return nil
}

// RenderMessage renders a simple message
func (r *Renderer) RenderMessage(msg string) error {
	_, err := fmt.Fprintln(r.output, msg)
	return err
}

func (r *Renderer) renderExplain(res *core.ExplainResult) error {
	width := 0
	for _, d := range res.Decisions {
		if n := len(displayPath(d)); n > width {
			width = n
		}
	}

	for _, d := range res.Decisions {
		path := displayPath(d)
		pad := strings.Repeat(" ", width-len(path))
		if _, err := fmt.Fprintf(r.output, "%s %s%s  %s\n",
			r.verdict(d.Included), r.style("Path", path), pad, r.reason(d)); err != nil {
			return err
		}
	}

	summary := fmt.Sprintf("%d accepted, %d directories visited, %d pruned, %d files skipped",
		len(res.Accepted), res.Stats.DirsVisited, res.Stats.DirsPruned, res.Stats.FilesSkipped)
	_, err := fmt.Fprintf(r.output, "\n%s\n", r.style("Muted", summary))
	return err
}

func (r *Renderer) renderCheck(d decision.CheckResult) error {
	verdict := "excluded"
	if d.Included {
		verdict = "included"
	}
	if _, err := fmt.Fprintf(r.output, "%s: %s\n", r.style("Path", displayPath(d)), r.style("Bold", verdict)); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(r.output, "  %s\n", r.reason(d)); err != nil {
		return err
	}
	if d.Tier != decision.TierNone {
		_, err := fmt.Fprintf(r.output, "  %s %s\n", r.style("Muted", "tier:"), r.style("Tier", d.Tier.String()))
		return err
	}
	return nil
}

func (r *Renderer) renderListing(l core.RuleListing) error {
	header := fmt.Sprintf("# %s (%d rules)", l.Source, len(l.Rules))
	if _, err := fmt.Fprintln(r.output, r.style("Header", header)); err != nil {
		return err
	}
	for _, rule := range l.Rules {
		if _, err := fmt.Fprintln(r.output, rule); err != nil {
			return err
		}
	}
	return nil
}

func (r *Renderer) verdict(included bool) string {
	if included {
		return r.style("Included", "INCLUDE ")
	}
	return r.style("Excluded", "EXCLUDE ")
}

// reason styles the quoted pattern inside a reason, if there is one
func (r *Renderer) reason(d decision.CheckResult) string {
	quoted := "'" + d.Pattern + "'"
	if d.Pattern == "" || !strings.HasSuffix(d.Reason, quoted) {
		return r.style("Muted", d.Reason)
	}
	prefix := strings.TrimSuffix(d.Reason, quoted)
	return r.style("Muted", prefix) + r.style("Pattern", quoted)
}

func displayPath(d decision.CheckResult) string {
	if d.IsDir && d.Path != "." {
		return d.Path + "/"
	}
	return d.Path
}
