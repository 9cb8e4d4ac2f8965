package ingest

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"

	"fund_loader/internal/domain"
)

type Writer struct {
	buf     *bufio.Writer
	encoder *json.Encoder
	written int
}

func NewWriter(w io.Writer) *Writer {
	buf := bufio.NewWriter(w)
	return &Writer{
		buf:     buf,
		encoder: json.NewEncoder(buf),
	}
}

// Write appends one decision as a single JSON line.
func (w *Writer) Write(d domain.Decision) error {
	if err := w.encoder.Encode(d); err != nil {
		return fmt.Errorf("failed to encode decision %s: %w", d.ID, err)
	}
	w.written++
	return nil
}

func (w *Writer) Flush() error {
	if err := w.buf.Flush(); err != nil {
		return fmt.Errorf("failed to flush output: %w", err)
	}
	return nil
}

func (w *Writer) Written() int {
	return w.written
}
