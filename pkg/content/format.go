package content

import (
	"fmt"
	"io"
	"strings"
	"time"
)

// Formatter renders accepted files
type Formatter struct {
	// List renders one path per file instead of full content
	List bool
	// Sizes prefixes list lines with the size in bytes
	Sizes bool
}

// WriteBlock writes a full-content block for one file
func (f Formatter) WriteBlock(w io.Writer, relPath string, info Info, text string) error {
	if _, err := fmt.Fprintf(w, "--- BEGIN FILE: %s (%d bytes, modified %s) ---\n",
		relPath, info.Size, info.Modified.UTC().Format(time.RFC3339)); err != nil {
		return err
	}
	if _, err := io.WriteString(w, text); err != nil {
		return err
	}
	if text != "" && !strings.HasSuffix(text, "\n") {
		if _, err := io.WriteString(w, "\n"); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintf(w, "--- END FILE: %s ---\n\n", relPath)
	return err
}

// WriteListLine writes the list-mode line for one file
func (f Formatter) WriteListLine(w io.Writer, relPath string, info Info) error {
	if f.Sizes {
		_, err := fmt.Fprintf(w, "%d\t%s\n", info.Size, relPath)
		return err
	}
	_, err := fmt.Fprintf(w, "%s\n", relPath)
	return err
}
