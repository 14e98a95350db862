package topics

// Renderer turns raw topic content into what the help command prints.
// format is the topic file's extension, such as ".md".
type Renderer interface {
	Render(content string, format string) string
}

// PlainRenderer prints topics verbatim. It is used when stdout is not a
// terminal, so piped help stays free of escape codes.
type PlainRenderer struct{}

func (r *PlainRenderer) Render(content string, _ string) string {
	return content
}
