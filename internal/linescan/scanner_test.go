package linescan

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func collect(t *testing.T, s *Scanner) []string {
	t.Helper()
	var lines []string
	for s.Scan() {
		lines = append(lines, s.Text())
	}
	return lines
}

func TestScanner_TrimsLines(t *testing.T) {
	s, err := NewScanner(strings.NewReader("config firewall vip\n    edit \"a  b\"\r\n\tnext  \nend"), "")
	require.NoError(t, err)

	assert.Equal(t, []string{"config firewall vip", `edit "a  b"`, "next", "end"}, collect(t, s))
	assert.NoError(t, s.Err())
	assert.Equal(t, 4, s.Line())
	assert.Equal(t, "utf-8", s.Encoding())
}

func TestScanner_StripsBOM(t *testing.T) {
	s, err := NewScanner(strings.NewReader("\ufeffconfig user local\nnext\n"), "utf-8")
	require.NoError(t, err)
	assert.Equal(t, []string{"config user local", "next"}, collect(t, s))
}

func TestScanner_InvalidUTF8(t *testing.T) {
	input := []byte("edit \"ok\"\nset comments \"caf\xe9\"\nnext\n")
	s, err := NewScanner(bytes.NewReader(input), "utf-8")
	require.NoError(t, err)

	lines := collect(t, s)
	assert.Equal(t, []string{`edit "ok"`}, lines)
	require.Error(t, s.Err())
	assert.ErrorIs(t, s.Err(), ErrInvalidText)
	assert.Contains(t, s.Err().Error(), "line 2")
}

func TestScanner_Windows1252(t *testing.T) {
	input := []byte("set comments \"caf\xe9\"\n")
	for _, name := range []string{"windows-1252", "latin1", "ISO-8859-1"} {
		s, err := NewScanner(bytes.NewReader(input), name)
		require.NoError(t, err, name)
		assert.Equal(t, []string{`set comments "café"`}, collect(t, s), name)
		assert.NoError(t, s.Err(), name)
		assert.Equal(t, "windows-1252", s.Encoding(), name)
	}
}

func TestLookup_Unknown(t *testing.T) {
	_, _, err := Lookup("klingon-8")
	assert.ErrorIs(t, err, ErrUnknownEncoding)

	_, err = NewScanner(strings.NewReader(""), "klingon-8")
	assert.ErrorIs(t, err, ErrUnknownEncoding)
}

func TestOpen(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "vip.txt")
	require.NoError(t, os.WriteFile(path, []byte("edit \"web\"\nnext\n"), 0644))

	s, err := Open(path, "utf-8")
	require.NoError(t, err)
	assert.Equal(t, []string{`edit "web"`, "next"}, collect(t, s))
	assert.NoError(t, s.Close())
	assert.NoError(t, s.Close())

	_, err = Open(filepath.Join(dir, "missing.txt"), "utf-8")
	assert.ErrorIs(t, err, os.ErrNotExist)
}
