package rules

import (
	"bytes"

	"github.com/arthur-debert/ctxdump/pkg/errors"
	"github.com/arthur-debert/ctxdump/pkg/types"
)

// LoadFile reads and parses a rule file
func LoadFile(fs types.FS, path string) (Ruleset, error) {
	data, err := fs.ReadFile(path)
	if err != nil {
		return Ruleset{}, errors.Wrapf(err, errors.ErrRulesLoad, "read rules file %s", path)
	}

	rs, err := ParseReader(bytes.NewReader(data))
	if err != nil {
		return Ruleset{}, errors.Wrapf(err, errors.ErrRulesLoad, "parse rules file %s", path)
	}
	rs.Source = path
	return rs, nil
}
