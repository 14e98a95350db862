package content

import (
	"bytes"
	"strings"
	"unicode/utf8"

	"github.com/arthur-debert/ctxdump/pkg/errors"
	"github.com/arthur-debert/ctxdump/pkg/logging"
	"github.com/arthur-debert/ctxdump/pkg/registry"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/ianaindex"
	"golang.org/x/text/encoding/unicode"
)

// DefaultEncodings is the order Decode tries when none is configured
var DefaultEncodings = []string{"utf-8", "utf-16", "windows-1252", "latin-1"}

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// Decode returns data as text using the first encoding in names that
// accepts it, and the name of that encoding.
func Decode(data []byte, names []string) (string, string, error) {
	if len(names) == 0 {
		names = DefaultEncodings
	}
	logger := logging.GetLogger("content.decode")

	for _, name := range names {
		text, ok, known := decodeAs(data, name)
		if !known {
			logger.Warn().Str("encoding", name).Msg("Unknown encoding, skipping it")
			continue
		}
		if ok {
			return text, name, nil
		}
	}

	return "", "", errors.Newf(errors.ErrUndecodable, "content matches none of %s", strings.Join(names, ", ")).
		WithDetail("encodings", names)
}

// Decoder turns raw bytes into text, reporting whether they decoded cleanly
type Decoder func(data []byte) (string, bool)

var decoders = registry.New[Decoder]()

func init() {
	utf16 := func(data []byte) (string, bool) {
		if !hasUTF16BOM(data) {
			return "", false
		}
		return transform(unicode.UTF16(unicode.LittleEndian, unicode.ExpectBOM), data)
	}
	windows1252 := charmapDecoder(charmap.Windows1252)
	latin1 := charmapDecoder(charmap.ISO8859_1)

	registry.MustRegister(decoders, "utf8", decodeUTF8)
	registry.MustRegister(decoders, "utf16", utf16)
	registry.MustRegister(decoders, "windows1252", windows1252)
	registry.MustRegister(decoders, "cp1252", windows1252)
	registry.MustRegister(decoders, "latin1", latin1)
	registry.MustRegister(decoders, "iso88591", latin1)
}

// RegisterDecoder makes a decoder available under name. Names are compared
// case-insensitively, ignoring dashes, underscores and spaces.
func RegisterDecoder(name string, dec Decoder) error {
	return decoders.Register(normalizeEncoding(name), dec)
}

// Decoders lists the registered encoding names
func Decoders() []string {
	return decoders.List()
}

// decodeAs reports the text, whether data decoded cleanly, and whether the
// encoding name is known at all. Names not registered fall back to the
// IANA index.
func decodeAs(data []byte, name string) (string, bool, bool) {
	if dec, err := decoders.Get(normalizeEncoding(name)); err == nil {
		text, ok := dec(data)
		return text, ok, true
	}

	enc, err := ianaindex.IANA.Encoding(name)
	if err != nil || enc == nil {
		return "", false, false
	}
	text, ok := transform(enc, data)
	return text, ok, true
}

func decodeUTF8(data []byte) (string, bool) {
	data = bytes.TrimPrefix(data, utf8BOM)
	if !utf8.Valid(data) {
		return "", false
	}
	return string(data), true
}

func charmapDecoder(cm *charmap.Charmap) Decoder {
	return func(data []byte) (string, bool) {
		return transform(cm, data)
	}
}

func transform(enc encoding.Encoding, data []byte) (string, bool) {
	out, err := enc.NewDecoder().Bytes(data)
	if err != nil || bytes.ContainsRune(out, utf8.RuneError) {
		return "", false
	}
	return string(out), true
}

func hasUTF16BOM(data []byte) bool {
	return len(data) >= 2 &&
		((data[0] == 0xFF && data[1] == 0xFE) || (data[0] == 0xFE && data[1] == 0xFF))
}

func normalizeEncoding(name string) string {
	name = strings.ToLower(strings.TrimSpace(name))
	return strings.NewReplacer("-", "", "_", "", " ", "").Replace(name)
}
