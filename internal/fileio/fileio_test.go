package fileio

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadFile_PlainUTF8(t *testing.T) {
	path := filepath.Join(t.TempDir(), "doc.edi")
	require.NoError(t, os.WriteFile(path, []byte("ST*837*0001~"), 0644))

	got, err := ReadFile(path, "utf-8")
	require.NoError(t, err)
	assert.Equal(t, "ST*837*0001~", got)
}

func TestReadFile_Latin1(t *testing.T) {
	// 0xE9 is é in ISO 8859-1.
	path := filepath.Join(t.TempDir(), "doc.edi")
	require.NoError(t, os.WriteFile(path, []byte{'N', 'M', '1', '*', 0xE9, '~'}, 0644))

	got, err := ReadFile(path, "latin-1")
	require.NoError(t, err)
	assert.Equal(t, "NM1*é~", got)
}

func TestReadFile_UnsupportedEncoding(t *testing.T) {
	path := filepath.Join(t.TempDir(), "doc.edi")
	require.NoError(t, os.WriteFile(path, []byte("x"), 0644))

	_, err := ReadFile(path, "ebcdic")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported encoding")
}

func TestWriteFile_GzipRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "doc.edi.gz")
	text := "ISA*00~" + strings.Repeat("REF*D9*X~", 100)

	require.NoError(t, WriteFile(path, text))

	// The bytes on disk must actually be compressed.
	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Greater(t, len(raw), 2)
	assert.Equal(t, byte(0x1f), raw[0])
	assert.Equal(t, byte(0x8b), raw[1])

	got, err := ReadFile(path, "")
	require.NoError(t, err)
	assert.Equal(t, text, got)
}

func TestReadAll_CP1252(t *testing.T) {
	// 0x93 is a left curly quote in Windows-1252.
	got, err := ReadAll(strings.NewReader(string([]byte{0x93})), "cp1252")
	require.NoError(t, err)
	assert.Equal(t, "“", got)
}
