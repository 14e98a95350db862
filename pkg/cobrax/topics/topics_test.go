package topics

import (
	"bytes"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func topicFS() fstest.MapFS {
	return fstest.MapFS{
		"help/precedence.txt":  {Data: []byte("Inline beats local")},
		"help/rules.md":        {Data: []byte("# Rules\n\nOne pattern per line")},
		"help/option-mode.md":  {Data: []byte("merge or override")},
		"help/notes.txxt":      {Data: []byte("custom extension")},
		"help/ignore.json":     {Data: []byte("{}")},
		"help/nested/deep.txt": {Data: []byte("nested topic")},
	}
}

func TestScanTopics(t *testing.T) {
	t.Run("default extensions", func(t *testing.T) {
		tm := New(topicFS(), "help")
		require.NoError(t, tm.scanTopics())

		tests := []struct {
			name    string
			exists  bool
			content string
		}{
			{"precedence", true, "Inline beats local"},
			{"rules", true, "# Rules\n\nOne pattern per line"},
			{"deep", true, "nested topic"},
			{"notes", false, ""},
			{"ignore", false, ""},
		}
		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				topic, ok := tm.GetTopic(tt.name)
				assert.Equal(t, tt.exists, ok)
				if ok {
					assert.Equal(t, tt.content, topic.Content)
				}
			})
		}
	})

	t.Run("custom extensions", func(t *testing.T) {
		tm := NewWithOptions(topicFS(), "help", Options{Extensions: []string{".txxt"}})
		require.NoError(t, tm.scanTopics())
		assert.Equal(t, []string{"notes"}, tm.ListTopics())
	})

	t.Run("missing directory", func(t *testing.T) {
		tm := New(topicFS(), "nope")
		require.NoError(t, tm.scanTopics())
		assert.Empty(t, tm.ListTopics())
	})
}

func TestGetTopicFlagStyle(t *testing.T) {
	tm := New(topicFS(), "help")
	require.NoError(t, tm.scanTopics())

	for _, name := range []string{"mode", "--mode", "-mode", "option-mode"} {
		t.Run(name, func(t *testing.T) {
			topic, ok := tm.GetTopic(name)
			require.True(t, ok)
			assert.Equal(t, "merge or override", topic.Content)
		})
	}
}

type upperRenderer struct{ formats []string }

func (r *upperRenderer) Render(content, format string) string {
	r.formats = append(r.formats, format)
	return strings.ToUpper(content)
}

func newRoot(t *testing.T, opts Options) (*cobra.Command, *bytes.Buffer) {
	t.Helper()
	root := &cobra.Command{Use: "ctxdump", Short: "root", Run: func(*cobra.Command, []string) {}}
	root.AddCommand(&cobra.Command{Use: "dump", Short: "Dump files", Run: func(*cobra.Command, []string) {}})

	_, err := InitializeWithOptions(root, topicFS(), "help", opts)
	require.NoError(t, err)

	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	return root, &out
}

func TestHelpCommand(t *testing.T) {
	t.Run("lists topics", func(t *testing.T) {
		root, out := newRoot(t, Options{})
		root.SetArgs([]string{"help", "topics"})
		require.NoError(t, root.Execute())

		text := out.String()
		assert.Contains(t, text, "General topics:\n  deep\n  precedence\n  rules\n")
		assert.Contains(t, text, "Option topics:\n  --mode\n")
		assert.Contains(t, text, "Use 'ctxdump help <topic>'")
	})

	t.Run("renders a topic", func(t *testing.T) {
		r := &upperRenderer{}
		root, out := newRoot(t, Options{Renderer: r})
		root.SetArgs([]string{"help", "rules"})
		require.NoError(t, root.Execute())

		assert.Equal(t, "# RULES\n\nONE PATTERN PER LINE", out.String())
		assert.Equal(t, []string{".md"}, r.formats)
	})

	t.Run("falls back to command help", func(t *testing.T) {
		root, out := newRoot(t, Options{})
		root.SetArgs([]string{"help", "dump"})
		require.NoError(t, root.Execute())
		assert.Contains(t, out.String(), "Dump files")
	})
}

func TestPlainRenderer(t *testing.T) {
	r := &PlainRenderer{}
	assert.Equal(t, "# x", r.Render("# x", ".md"))
}

func TestGlamourRendererSkipsNonMarkdown(t *testing.T) {
	r := NewGlamourRenderer()
	assert.Equal(t, "plain text", r.Render("plain text", ".txt"))
}

func TestForOutputWithoutTerminal(t *testing.T) {
	assert.IsType(t, &PlainRenderer{}, ForOutput(nil))
}
