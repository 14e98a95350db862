// Package terminal provides rich terminal output with colors and styling
package terminal

import (
	"io"

	"github.com/arthur-debert/ctxdump/pkg/ui/styles"
	"github.com/arthur-debert/ctxdump/pkg/ui/text"
)

// Renderer is the text layout rendered through the lipgloss style registry
type Renderer struct {
	*text.Renderer
}

// New creates a new terminal renderer
func New(w io.Writer) (*Renderer, error) {
	inner, err := text.NewStyled(w, styles.Render)
	if err != nil {
		return nil, err
	}
	return &Renderer{Renderer: inner}, nil
}
