// Package ingest reads fund load records from line-delimited JSON and writes
// decisions back in the same framing.
package ingest

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"fund_loader/internal/domain"
	"fund_loader/pkg/validator"
)

const maxLineSize = 1 << 20

var ErrLineTooLong = errors.New("line too long")

type SkipRecorder interface {
	RecordSkipped()
}

// Reader yields valid attempts in input order. Malformed lines are logged and
// skipped; they never stop the stream.
type Reader struct {
	in          *bufio.Reader
	buf         []byte
	maxLineSize int
	validator   *validator.RecordValidator
	skips       SkipRecorder
	logger      *slog.Logger
	line        int
	skipped     int
}

func NewReader(r io.Reader, v *validator.RecordValidator, skips SkipRecorder, logger *slog.Logger) *Reader {
	if v == nil {
		v = validator.NewRecordValidator()
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &Reader{
		in:          bufio.NewReaderSize(r, 64*1024),
		maxLineSize: maxLineSize,
		validator:   v,
		skips:       skips,
		logger:      logger,
	}
}

// Next returns the next valid attempt, or io.EOF once the input is exhausted.
// Any other error comes from the underlying reader.
func (r *Reader) Next(ctx context.Context) (domain.Attempt, error) {
	for {
		raw, tooLong, err := r.readLine()
		if errors.Is(err, io.EOF) {
			return domain.Attempt{}, io.EOF
		}
		if err != nil {
			return domain.Attempt{}, fmt.Errorf("failed to read input at line %d: %w", r.line+1, err)
		}
		r.line++

		if tooLong {
			r.skip(ctx, fmt.Errorf("%w: exceeds %d bytes", ErrLineTooLong, r.maxLineSize))
			continue
		}

		raw = bytes.TrimSpace(raw)
		if len(raw) == 0 {
			continue
		}

		attempt, err := r.decode(raw)
		if err != nil {
			r.skip(ctx, err)
			continue
		}
		return attempt, nil
	}
}

// readLine returns the next line, terminator included. A line longer than
// maxLineSize is consumed to its end and reported as tooLong with no content.
// The returned slice is only valid until the next call.
func (r *Reader) readLine() ([]byte, bool, error) {
	r.buf = r.buf[:0]
	var (
		read    int
		tooLong bool
	)

	for {
		chunk, err := r.in.ReadSlice('\n')
		read += len(chunk)

		if !tooLong {
			if len(r.buf)+len(chunk) > r.maxLineSize+1 {
				tooLong = true
				r.buf = r.buf[:0]
			} else {
				r.buf = append(r.buf, chunk...)
			}
		}

		switch {
		case err == nil:
			return r.buf, tooLong, nil
		case errors.Is(err, bufio.ErrBufferFull):
			continue
		case errors.Is(err, io.EOF):
			if read == 0 {
				return nil, false, io.EOF
			}
			return r.buf, tooLong, nil
		default:
			return nil, false, err
		}
	}
}

func (r *Reader) Skipped() int {
	return r.skipped
}

func (r *Reader) decode(raw []byte) (domain.Attempt, error) {
	var rec domain.LoadRecord
	if err := json.Unmarshal(raw, &rec); err != nil {
		return domain.Attempt{}, fmt.Errorf("invalid JSON: %w", err)
	}
	return r.validator.ValidateRecord(rec)
}

func (r *Reader) skip(ctx context.Context, err error) {
	r.skipped++
	if r.skips != nil {
		r.skips.RecordSkipped()
	}
	r.logger.WarnContext(ctx, "Skipping invalid record",
		slog.Int("line", r.line),
		slog.String("error", err.Error()))
}
