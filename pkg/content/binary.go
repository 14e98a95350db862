package content

import (
	"io"

	"github.com/arthur-debert/ctxdump/pkg/errors"
	"github.com/arthur-debert/ctxdump/pkg/types"
)

// DefaultSniffBytes is how much of a file IsBinary looks at by default
const DefaultSniffBytes = 8000

// controlRatio is the share of control bytes above which a file is binary
const controlRatio = 0.3

// IsBinary reports whether the first sniff bytes of path look binary: any
// NUL byte, or too many control characters.
func IsBinary(fs types.FS, path string, sniff int) (bool, error) {
	if sniff <= 0 {
		sniff = DefaultSniffBytes
	}

	f, err := fs.Open(path)
	if err != nil {
		return false, errors.Wrapf(err, errors.ErrFileAccess, "open %s", path)
	}
	defer func() { _ = f.Close() }()

	buf := make([]byte, sniff)
	n, err := io.ReadFull(f, buf)
	if err != nil && err != io.EOF && err != io.ErrUnexpectedEOF {
		return false, errors.Wrapf(err, errors.ErrFileAccess, "read %s", path)
	}
	return LooksBinary(buf[:n]), nil
}

// LooksBinary applies the binary heuristic to a sample: any NUL byte, or a
// share of C0 control bytes above controlRatio. A UTF-16 byte order mark
// marks text, since its ASCII range is full of NULs. UTF-8 validity is not
// checked; legacy single-byte text is left to Decode.
func LooksBinary(sample []byte) bool {
	if len(sample) == 0 || hasUTF16BOM(sample) {
		return false
	}

	control := 0
	for _, b := range sample {
		if b == 0 {
			return true
		}
		if b < 0x20 && b != '\n' && b != '\r' && b != '\t' && b != '\f' && b != '\b' && b != 0x1b {
			control++
		}
	}
	return float64(control)/float64(len(sample)) > controlRatio
}
