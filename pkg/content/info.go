package content

import (
	"time"

	"github.com/arthur-debert/ctxdump/pkg/errors"
	"github.com/arthur-debert/ctxdump/pkg/types"
)

// Info is what the dump header shows about a file
type Info struct {
	Size     int64
	Modified time.Time
}

// Stat returns size and modification time of path
func Stat(fs types.FS, path string) (Info, error) {
	fi, err := fs.Stat(path)
	if err != nil {
		return Info{}, errors.Wrapf(err, errors.ErrFileAccess, "stat %s", path)
	}
	return Info{Size: fi.Size(), Modified: fi.ModTime()}, nil
}
