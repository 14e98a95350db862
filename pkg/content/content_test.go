package content

import (
	"bytes"
	stderrors "errors"
	"testing"
	"time"

	"github.com/arthur-debert/ctxdump/pkg/errors"
	"github.com/arthur-debert/ctxdump/pkg/testutil"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLooksBinary(t *testing.T) {
	tests := []struct {
		name   string
		sample []byte
		want   bool
	}{
		{"empty", nil, false},
		{"plain text", []byte("hello\nworld\n"), false},
		{"tabs and crlf", []byte("a\tb\r\nc"), false},
		{"nul byte", []byte("abc\x00def"), true},
		{"mostly control", []byte{1, 2, 3, 4, 'a', 5, 6}, true},
		{"few control", []byte("abcdefghij\x01"), false},
		{"utf-16 bom", []byte{0xFF, 0xFE, 'h', 0, 'i', 0}, false},
		{"utf-8 multibyte", []byte("héllo wörld"), false},
		{"latin-1 high bytes", []byte{'c', 'a', 'f', 0xE9, ' ', 0xE0, ' ', 0xFC}, false},
		{"windows-1252 quotes only", []byte{0x93, 0x94, 0x85}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, LooksBinary(tt.sample))
		})
	}
}

func TestIsBinary(t *testing.T) {
	fs := testutil.Tree{
		"text.txt":  "just text\n",
		"image.png": "\x89PNG\r\n\x1a\n\x00\x00\x00",
		"late.bin":  "aaaaaaaaaa\x00",
	}.Build(t, "/p")

	bin, err := IsBinary(fs, "/p/text.txt", 0)
	require.NoError(t, err)
	assert.False(t, bin)

	bin, err = IsBinary(fs, "/p/image.png", 0)
	require.NoError(t, err)
	assert.True(t, bin)

	t.Run("only the sniffed prefix counts", func(t *testing.T) {
		bin, err := IsBinary(fs, "/p/late.bin", 4)
		require.NoError(t, err)
		assert.False(t, bin)

		bin, err = IsBinary(fs, "/p/late.bin", 100)
		require.NoError(t, err)
		assert.True(t, bin)
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := IsBinary(fs, "/p/nope", 0)
		require.Error(t, err)
		assert.True(t, errors.IsErrorCode(err, errors.ErrFileAccess))
	})
}

func TestStat(t *testing.T) {
	fs := testutil.Tree{"a.txt": "12345"}.Build(t, "/p")
	mod := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	require.NoError(t, fs.SetModTime("/p/a.txt", mod))

	info, err := Stat(fs, "/p/a.txt")
	require.NoError(t, err)
	assert.Equal(t, int64(5), info.Size)
	assert.True(t, info.Modified.Equal(mod))

	_, err = Stat(fs, "/p/missing")
	assert.True(t, errors.IsErrorCode(err, errors.ErrFileAccess))
}

func TestDecode(t *testing.T) {
	tests := []struct {
		name      string
		data      []byte
		encodings []string
		wantText  string
		wantEnc   string
	}{
		{
			name:     "utf-8",
			data:     []byte("héllo"),
			wantText: "héllo",
			wantEnc:  "utf-8",
		},
		{
			name:     "utf-8 bom is stripped",
			data:     append([]byte{0xEF, 0xBB, 0xBF}, []byte("hi")...),
			wantText: "hi",
			wantEnc:  "utf-8",
		},
		{
			name:     "utf-16 little endian with bom",
			data:     []byte{0xFF, 0xFE, 'h', 0, 'i', 0},
			wantText: "hi",
			wantEnc:  "utf-16",
		},
		{
			name:     "utf-16 big endian with bom",
			data:     []byte{0xFE, 0xFF, 0, 'h', 0, 'i'},
			wantText: "hi",
			wantEnc:  "utf-16",
		},
		{
			name:     "windows-1252 smart quotes",
			data:     []byte{0x93, 'q', 0x94},
			wantText: "“q”",
			wantEnc:  "windows-1252",
		},
		{
			name:      "latin-1 when listed alone",
			data:      []byte{'c', 'a', 'f', 0xE9},
			encodings: []string{"latin-1"},
			wantText:  "café",
			wantEnc:   "latin-1",
		},
		{
			name:      "first working encoding wins",
			data:      []byte{'c', 'a', 'f', 0xE9},
			encodings: []string{"utf-8", "latin-1", "windows-1252"},
			wantText:  "café",
			wantEnc:   "latin-1",
		},
		{
			name:      "iana fallback name",
			data:      []byte{0xE9},
			encodings: []string{"ISO-8859-15"},
			wantText:  "é",
			wantEnc:   "ISO-8859-15",
		},
		{
			name:      "unknown names are skipped",
			data:      []byte("ok"),
			encodings: []string{"no-such-encoding", "utf-8"},
			wantText:  "ok",
			wantEnc:   "utf-8",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			text, enc, err := Decode(tt.data, tt.encodings)
			require.NoError(t, err)
			assert.Equal(t, tt.wantText, text)
			assert.Equal(t, tt.wantEnc, enc)
		})
	}

	t.Run("all encodings fail", func(t *testing.T) {
		_, _, err := Decode([]byte{0xFF, 0xFE, 0xFD}, []string{"utf-8"})
		require.Error(t, err)
		assert.True(t, errors.IsErrorCode(err, errors.ErrUndecodable))
	})

	t.Run("utf-16 without bom is rejected", func(t *testing.T) {
		_, _, err := Decode([]byte{'h', 0}, []string{"utf-16"})
		assert.True(t, errors.IsErrorCode(err, errors.ErrUndecodable))
	})
}

func TestRegisterDecoder(t *testing.T) {
	upper := func(data []byte) (string, bool) {
		return string(bytes.ToUpper(data)), true
	}
	if err := RegisterDecoder("x-upper", upper); err != nil {
		require.True(t, errors.IsErrorCode(err, errors.ErrAlreadyExists))
	}

	text, name, err := Decode([]byte("shout"), []string{"X_Upper"})
	require.NoError(t, err)
	assert.Equal(t, "SHOUT", text)
	assert.Equal(t, "X_Upper", name)

	err = RegisterDecoder("UTF-8", upper)
	assert.True(t, errors.IsErrorCode(err, errors.ErrAlreadyExists))
	assert.Contains(t, Decoders(), "windows1252")
}

func TestFormatterBlock(t *testing.T) {
	info := Info{Size: 5, Modified: time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)}

	t.Run("adds missing trailing newline", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, Formatter{}.WriteBlock(&buf, "a/b.txt", info, "hello"))
		assert.Equal(t,
			"--- BEGIN FILE: a/b.txt (5 bytes, modified 2024-03-01T12:00:00Z) ---\n"+
				"hello\n"+
				"--- END FILE: a/b.txt ---\n\n",
			buf.String())
	})

	t.Run("keeps existing newline", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, Formatter{}.WriteBlock(&buf, "x", info, "hello\n"))
		assert.Contains(t, buf.String(), "hello\n--- END FILE: x ---\n\n")
		assert.NotContains(t, buf.String(), "hello\n\n")
	})

	t.Run("empty file", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, Formatter{}.WriteBlock(&buf, "e", Info{Modified: info.Modified}, ""))
		assert.Equal(t,
			"--- BEGIN FILE: e (0 bytes, modified 2024-03-01T12:00:00Z) ---\n--- END FILE: e ---\n\n",
			buf.String())
	})
}

func TestFormatterListLine(t *testing.T) {
	info := Info{Size: 42}

	var plain bytes.Buffer
	require.NoError(t, Formatter{List: true}.WriteListLine(&plain, "src/a.go", info))
	assert.Equal(t, "src/a.go\n", plain.String())

	var sized bytes.Buffer
	require.NoError(t, Formatter{List: true, Sizes: true}.WriteListLine(&sized, "src/a.go", info))
	assert.Equal(t, "42\tsrc/a.go\n", sized.String())
}

func TestLimiter(t *testing.T) {
	t.Run("unlimited", func(t *testing.T) {
		l := NewLimiter(0)
		ok, err := l.Reserve("a", 1<<40)
		require.NoError(t, err)
		assert.True(t, ok)
		assert.Equal(t, int64(1<<40), l.Total())
	})

	t.Run("file larger than the limit is skipped", func(t *testing.T) {
		var buf bytes.Buffer
		original, level := log.Logger, zerolog.GlobalLevel()
		defer func() {
			log.Logger = original
			zerolog.SetGlobalLevel(level)
		}()
		zerolog.SetGlobalLevel(zerolog.WarnLevel)
		log.Logger = zerolog.New(&buf)

		l := NewLimiter(1)
		ok, err := l.Reserve("huge", 2*bytesPerMB)
		require.NoError(t, err)
		assert.False(t, ok)
		assert.Zero(t, l.Total())
		assert.Contains(t, buf.String(), `"component":"content.limit"`)
		assert.Contains(t, buf.String(), `"path":"huge"`)
	})

	t.Run("crossing the limit aborts", func(t *testing.T) {
		l := NewLimiter(1)
		ok, err := l.Reserve("a", 600*1024)
		require.NoError(t, err)
		assert.True(t, ok)

		ok, err = l.Reserve("b", 600*1024)
		require.Error(t, err)
		assert.False(t, ok)

		var sizeErr *SizeExceededError
		require.True(t, stderrors.As(err, &sizeErr))
		assert.Equal(t, "b", sizeErr.Path)
		assert.Equal(t, int64(1200*1024), sizeErr.AttemptedBytes)
		assert.Equal(t, 1.0, sizeErr.LimitMB)

		assert.True(t, errors.IsErrorCode(err, errors.ErrSizeExceeded))
		assert.True(t, errors.IsHardStop(err))
		assert.True(t, stderrors.Is(err, errors.New(errors.ErrSizeExceeded, "")))
		assert.Equal(t, int64(600*1024), l.Total())
	})

	t.Run("exactly at the limit fits", func(t *testing.T) {
		l := NewLimiter(1)
		ok, err := l.Reserve("a", bytesPerMB)
		require.NoError(t, err)
		assert.True(t, ok)
	})
}
