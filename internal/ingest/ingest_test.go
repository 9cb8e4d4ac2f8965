package ingest

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"fund_loader/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingSkips struct{ n int }

func (c *countingSkips) RecordSkipped() { c.n++ }

func readAll(t *testing.T, r *Reader) []domain.Attempt {
	t.Helper()
	var out []domain.Attempt
	for {
		a, err := r.Next(context.Background())
		if errors.Is(err, io.EOF) {
			return out
		}
		require.NoError(t, err)
		out = append(out, a)
	}
}

func TestReader_SkipsMalformedRecords(t *testing.T) {
	input := strings.Join([]string{
		`{"id":"15887","customer_id":"528","load_amount":"$3318.47","time":"2000-01-01T00:00:00Z"}`,
		``,
		`{"id":"30081","customer_id":"154",`,
		`{"id":"26540","customer_id":"426","load_amount":"$404.56","time":"2000-01-01T01:01:22Z"}`,
		`{"id":"1","customer_id":"1","load_amount":"ten dollars","time":"2000-01-01T01:01:22Z"}`,
		`{"id":"2","customer_id":"1","load_amount":"$10","time":"not a time"}`,
		`   {"id":"10694","customer_id":"1","load_amount":"$785.11","time":"2000-01-01T03:04:06Z"}   `,
	}, "\n")
	skips := &countingSkips{}
	r := NewReader(strings.NewReader(input), nil, skips, nil)

	got := readAll(t, r)

	require.Len(t, got, 3)
	assert.Equal(t, []string{"15887", "26540", "10694"}, []string{got[0].ID, got[1].ID, got[2].ID})
	assert.Equal(t, "3318.47", got[0].Amount.StringFixed(2))
	assert.Equal(t, 3, r.Skipped())
	assert.Equal(t, 3, skips.n)
}

func TestReader_SkipsOversizedLine(t *testing.T) {
	huge := `{"id":"` + strings.Repeat("x", 2<<20) + `"}`
	input := huge + "\n" + `{"id":"26540","customer_id":"426","load_amount":"$404.56","time":"2000-01-01T01:01:22Z"}`
	skips := &countingSkips{}
	r := NewReader(strings.NewReader(input), nil, skips, nil)

	got := readAll(t, r)

	require.Len(t, got, 1)
	assert.Equal(t, "26540", got[0].ID)
	assert.Equal(t, 1, r.Skipped())
	assert.Equal(t, 1, skips.n)
}

func TestReader_LineLimitIsConfigurable(t *testing.T) {
	input := strings.Join([]string{
		`{"id":"1","customer_id":"1","load_amount":"$1.00","time":"2000-01-01T00:00:00Z","padding":"` + strings.Repeat("p", 200) + `"}`,
		`{"id":"2","customer_id":"1","load_amount":"$2.00","time":"2000-01-01T00:00:00Z"}`,
	}, "\r\n")
	r := NewReader(strings.NewReader(input), nil, nil, nil)
	r.maxLineSize = 128

	got := readAll(t, r)

	require.Len(t, got, 1)
	assert.Equal(t, "2", got[0].ID)
	assert.Equal(t, 1, r.Skipped())
}

func TestReader_LastLineWithoutNewline(t *testing.T) {
	input := `{"id":"1","customer_id":"1","load_amount":"$1.00","time":"2000-01-01T00:00:00Z"}` + "\n\n" +
		`{"id":"2","customer_id":"1","load_amount":"$2.00","time":"2000-01-01T00:00:00Z"}`
	r := NewReader(strings.NewReader(input), nil, nil, nil)

	got := readAll(t, r)

	require.Len(t, got, 2)
	assert.Equal(t, 0, r.Skipped())
}

func TestReader_EmptyInput(t *testing.T) {
	r := NewReader(strings.NewReader(""), nil, nil, nil)

	_, err := r.Next(context.Background())

	assert.ErrorIs(t, err, io.EOF)
}

func TestReader_PropagatesReadErrors(t *testing.T) {
	boom := errors.New("disk on fire")
	r := NewReader(io.MultiReader(strings.NewReader(`{"id":"1"`), &failingReader{err: boom}), nil, nil, nil)

	_, err := r.Next(context.Background())

	assert.ErrorIs(t, err, boom)
}

type failingReader struct{ err error }

func (f *failingReader) Read([]byte) (int, error) { return 0, f.err }

func TestWriter_WritesOneLinePerDecision(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(&buf)

	require.NoError(t, w.Write(domain.Decision{ID: "15887", CustomerID: "528", Accepted: true}))
	require.NoError(t, w.Write(domain.Decision{ID: "30081", CustomerID: "154", Accepted: false}))
	require.NoError(t, w.Flush())

	assert.Equal(t,
		"{\"id\":\"15887\",\"customer_id\":\"528\",\"accepted\":true}\n"+
			"{\"id\":\"30081\",\"customer_id\":\"154\",\"accepted\":false}\n",
		buf.String())
	assert.Equal(t, 2, w.Written())
}
