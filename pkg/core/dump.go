package core

import (
	"bytes"
	"context"

	"github.com/arthur-debert/ctxdump/pkg/content"
	"github.com/arthur-debert/ctxdump/pkg/errors"
	"github.com/arthur-debert/ctxdump/pkg/logging"
	"github.com/arthur-debert/ctxdump/pkg/walker"
	"github.com/rs/zerolog"
)

// Skip reasons reported in DumpResult.Skipped
const (
	SkipBinary      = "binary content"
	SkipUnreadable  = "unreadable"
	SkipUndecodable = "no encoding could decode it"
	SkipTooLarge    = "larger than the whole size limit"
)

// DumpOptions contains options for a dump run
type DumpOptions struct {
	Options

	// List writes one path per file instead of the content
	List bool
	// Sizes prefixes list lines with the file size
	Sizes bool
	// MaxSizeMB caps the cumulative size; zero or less is unlimited
	MaxSizeMB float64
}

// DumpedFile describes one file in the output
type DumpedFile struct {
	RelPath  string `json:"path"`
	Size     int64  `json:"size"`
	Encoding string `json:"encoding,omitempty"`
	Explicit bool   `json:"explicit,omitempty"`
}

// SkippedFile is a file the rules accepted but the content stage dropped
type SkippedFile struct {
	RelPath string `json:"path"`
	Reason  string `json:"reason"`
}

// DumpResult is the outcome of a successful dump
type DumpResult struct {
	Output     []byte
	Files      []DumpedFile
	Skipped    []SkippedFile
	TotalBytes int64
	Stats      walker.Stats
}

// dumper processes accepted files for one run
type dumper struct {
	opts      DumpOptions
	session   *session
	formatter content.Formatter
	limiter   *content.Limiter
	buf       bytes.Buffer
	result    DumpResult
	logger    zerolog.Logger
}

// Dump walks every target and renders the accepted files. Output is only
// returned when the whole run succeeds.
func Dump(ctx context.Context, opts DumpOptions) (*DumpResult, error) {
	logger := logging.GetLogger("core.dump")
	logger.Info().
		Str("root", opts.Root).
		Strs("targets", opts.Targets).
		Str("mode", opts.Mode.String()).
		Bool("list", opts.List).
		Float64("maxSizeMB", opts.MaxSizeMB).
		Msg("Starting dump")
	defer logging.StartOperation(logger, "dump")()

	s, err := newSession(opts.Options, opts.Recorder)
	if err != nil {
		return nil, err
	}

	d := &dumper{
		opts:      opts,
		session:   s,
		formatter: content.Formatter{List: opts.List, Sizes: opts.Sizes},
		limiter:   content.NewLimiter(opts.MaxSizeMB),
		logger:    logger,
	}

	if err := runTargets(ctx, s, logger, d.accept); err != nil {
		logger.Error().Err(err).Msg("Dump aborted, discarding output")
		return nil, err
	}

	d.result.Output = d.buf.Bytes()
	d.result.TotalBytes = d.limiter.Total()
	d.result.Stats = s.walker.Stats()

	logger.Info().
		Int("files", len(d.result.Files)).
		Int("skipped", len(d.result.Skipped)).
		Int64("bytes", d.result.TotalBytes).
		Msg("Dump complete")
	return &d.result, nil
}

// runTargets walks each target in order. Hard stops and cancellation end
// the run; any other per-target failure is logged and the next target runs.
func runTargets(ctx context.Context, s *session, logger zerolog.Logger, yield func(walker.Accepted) error) error {
	for _, t := range s.targets {
		err := s.walker.Walk(ctx, t.path, t.explicit, yield)
		if err == nil {
			continue
		}
		if ctx.Err() != nil || errors.IsHardStop(err) {
			return err
		}
		logger.Warn().Err(err).Str("target", t.path).Msg("Skipping target")
	}
	return nil
}

func (d *dumper) accept(a walker.Accepted) error {
	fs := d.session.fs

	binary, err := content.IsBinary(fs, a.Path, d.opts.SniffBytes)
	if err != nil {
		d.skip(a, SkipUnreadable, err)
		return nil
	}
	if binary {
		d.skip(a, SkipBinary, nil)
		return nil
	}

	info, err := content.Stat(fs, a.Path)
	if err != nil {
		d.skip(a, SkipUnreadable, err)
		return nil
	}

	var text, encoding string
	if !d.opts.List {
		data, err := fs.ReadFile(a.Path)
		if err != nil {
			d.skip(a, SkipUnreadable, errors.Wrapf(err, errors.ErrFileAccess, "read %s", a.Path))
			return nil
		}
		text, encoding, err = content.Decode(data, d.opts.Encodings)
		if err != nil {
			d.skip(a, SkipUndecodable, err)
			return nil
		}
	}

	ok, err := d.limiter.Reserve(a.RelPath, info.Size)
	if err != nil {
		return err
	}
	if !ok {
		d.skip(a, SkipTooLarge, nil)
		return nil
	}

	if d.opts.List {
		err = d.formatter.WriteListLine(&d.buf, a.RelPath, info)
	} else {
		err = d.formatter.WriteBlock(&d.buf, a.RelPath, info, text)
	}
	if err != nil {
		return errors.Wrapf(err, errors.ErrInternal, "render %s", a.RelPath)
	}

	d.result.Files = append(d.result.Files, DumpedFile{
		RelPath:  a.RelPath,
		Size:     info.Size,
		Encoding: encoding,
		Explicit: a.Explicit,
	})
	return nil
}

func (d *dumper) skip(a walker.Accepted, reason string, err error) {
	event := d.logger.Warn()
	if err == nil {
		event = d.logger.Info()
	}
	event.Err(err).Str("path", a.RelPath).Str("reason", reason).Msg("Skipping file")
	d.result.Skipped = append(d.result.Skipped, SkippedFile{RelPath: a.RelPath, Reason: reason})
}
