package reader

import (
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// writeSource drops content into a temp file and returns its path.
func writeSource(t *testing.T, content []byte) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "input.txt")
	require.NoError(t, os.WriteFile(path, content, 0o600))

	return path
}

// drain collects every line until EOF.
func drain(t *testing.T, r *Reader) []Line {
	t.Helper()

	var lines []Line

	for {
		line, err := r.Next()
		if err == io.EOF {
			return lines
		}

		require.NoError(t, err)
		lines = append(lines, line)
	}
}

func TestOpen_NotFound(t *testing.T) {
	t.Parallel()

	_, err := Open(filepath.Join(t.TempDir(), "missing.txt"), false)

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestOpen_BinaryRefused(t *testing.T) {
	t.Parallel()

	path := writeSource(t, []byte{'P', 'K', 0, 3, 4})

	_, err := Open(path, false)

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrBinary)
}

func TestOpen_BinaryForced(t *testing.T) {
	t.Parallel()

	path := writeSource(t, []byte{'a', 0, '\n', 'b', '\n'})

	r, err := Open(path, true)
	require.NoError(t, err)
	defer r.Close()

	lines := drain(t, r)

	assert.Len(t, lines, 2)
}

func TestNext_BasicLines(t *testing.T) {
	t.Parallel()

	path := writeSource(t, []byte("alpha\nbeta\ngamma\n"))

	r, err := Open(path, false)
	require.NoError(t, err)
	defer r.Close()

	lines := drain(t, r)

	require.Len(t, lines, 3)
	assert.Equal(t, 0, lines[0].Index)
	assert.Equal(t, "alpha", lines[0].Text)
	assert.Equal(t, len("alpha\n"), lines[0].Bytes)
	assert.Equal(t, "gamma", lines[2].Text)
	assert.Equal(t, 2, lines[2].Index)
}

func TestNext_NoTrailingNewline(t *testing.T) {
	t.Parallel()

	path := writeSource(t, []byte("alpha\nbeta"))

	r, err := Open(path, false)
	require.NoError(t, err)
	defer r.Close()

	lines := drain(t, r)

	require.Len(t, lines, 2)
	assert.Equal(t, "beta", lines[1].Text)
	assert.Equal(t, len("beta"), lines[1].Bytes, "last line consumed no newline")
}

func TestNext_CRLF(t *testing.T) {
	t.Parallel()

	path := writeSource(t, []byte("alpha\r\nbeta\r\n"))

	r, err := Open(path, false)
	require.NoError(t, err)
	defer r.Close()

	lines := drain(t, r)

	require.Len(t, lines, 2)
	assert.Equal(t, "alpha", lines[0].Text)
	assert.Equal(t, len("alpha\r\n"), lines[0].Bytes, "CR and LF both count as consumed")
}

func TestNext_InvalidUTF8Repaired(t *testing.T) {
	t.Parallel()

	path := writeSource(t, []byte("ok\n\xff\xfe bad\nok again\n"))

	r, err := Open(path, false)
	require.NoError(t, err)
	defer r.Close()

	lines := drain(t, r)

	require.Len(t, lines, 3)
	assert.False(t, lines[0].Anomalous)
	assert.True(t, lines[1].Anomalous)
	assert.Contains(t, lines[1].Text, Replacement)
	assert.Equal(t, 1, r.Anomalies())
}

func TestNext_ByteOffsetMatchesSource(t *testing.T) {
	t.Parallel()

	content := []byte("one\ntwo\nthree\n")
	path := writeSource(t, content)

	r, err := Open(path, false)
	require.NoError(t, err)
	defer r.Close()

	drain(t, r)

	assert.Equal(t, int64(len(content)), r.ByteOffset())
	assert.Equal(t, 3, r.LineOffset())
}

func TestNext_EmptyInput(t *testing.T) {
	t.Parallel()

	path := writeSource(t, nil)

	r, err := Open(path, false)
	require.NoError(t, err)
	defer r.Close()

	_, nextErr := r.Next()

	assert.ErrorIs(t, nextErr, io.EOF)
}

func TestSkip(t *testing.T) {
	t.Parallel()

	path := writeSource(t, []byte("a\nb\nc\nd\ne\n"))

	r, err := Open(path, false)
	require.NoError(t, err)
	defer r.Close()

	skipped, skipErr := r.Skip(3)

	require.NoError(t, skipErr)
	assert.Equal(t, 3, skipped)

	line, nextErr := r.Next()
	require.NoError(t, nextErr)
	assert.Equal(t, 3, line.Index)
	assert.Equal(t, "d", line.Text)
}

func TestSkip_PastEOF(t *testing.T) {
	t.Parallel()

	path := writeSource(t, []byte("a\nb\n"))

	r, err := Open(path, false)
	require.NoError(t, err)
	defer r.Close()

	skipped, skipErr := r.Skip(10)

	require.NoError(t, skipErr)
	assert.Equal(t, 2, skipped, "skip reports the shortfall, not an error")
}

func TestNext_LongLine(t *testing.T) {
	t.Parallel()

	long := strings.Repeat("x", readBufferSize*2)
	path := writeSource(t, []byte(long+"\n"))

	r, err := Open(path, false)
	require.NoError(t, err)
	defer r.Close()

	line, nextErr := r.Next()

	require.NoError(t, nextErr)
	assert.Len(t, line.Text, readBufferSize*2)
}
