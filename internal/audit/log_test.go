package audit

import (
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var lineRe = regexp.MustCompile(`^\[\d{4}-\d{2}-\d{2} \d{2}:\d{2}:\d{2}\] `)

func TestOpen_WritesStartupMarker(t *testing.T) {
	path := filepath.Join(t.TempDir(), "mock.log")

	l, err := Open(path)
	require.NoError(t, err)
	defer l.Close()

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), "Mock Server Started at "))
}

func TestOpen_TruncatesExistingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "mock.log")
	require.NoError(t, os.WriteFile(path, []byte("stale content from a previous run\n"), 0o644))

	l, err := Open(path)
	require.NoError(t, err)
	defer l.Close()

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.NotContains(t, string(data), "stale content")
}

func TestPrintf_LineFormat(t *testing.T) {
	path := filepath.Join(t.TempDir(), "mock.log")

	l, err := Open(path)
	require.NoError(t, err)
	l.now = func() time.Time {
		return time.Date(2025, 3, 14, 9, 26, 53, 0, time.Local)
	}

	l.Printf("Grant type: %s", "password")
	require.NoError(t, l.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimRight(string(data), "\n"), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "[2025-03-14 09:26:53] Grant type: password", lines[1])
	assert.True(t, lineRe.MatchString(lines[1]))
}

func TestOpen_UnwritablePath(t *testing.T) {
	_, err := Open(filepath.Join(t.TempDir(), "no", "such", "dir", "mock.log"))
	assert.Error(t, err)
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "abc", Truncate("abc", 30))
	assert.Equal(t, "abc", Truncate("abcdef", 3))
	assert.Equal(t, "", Truncate("", 10))
}
