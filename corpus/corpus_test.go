package corpus

import (
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/viant/afs"
	"github.com/viant/afs/file"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	location := filepath.Join(dir, name)
	fs := afs.New()
	err := fs.Upload(context.Background(), location, file.DefaultFileOsMode, strings.NewReader(content))
	require.NoError(t, err)
	return location
}

func TestCSVSource(t *testing.T) {
	ctx := context.Background()
	fs := afs.New()
	dir := t.TempDir()

	t.Run("reads id and content by header", func(t *testing.T) {
		location := writeFile(t, dir, "ok.csv", "content,id\nhello world,a1\n,a2\n")
		src, err := NewCSVSource(ctx, fs, location)
		require.NoError(t, err)
		defer src.Close()

		docs, err := ReadAll(ctx, src)
		require.NoError(t, err)
		require.Len(t, docs, 2)
		assert.Equal(t, Document{ID: "a1", Content: "hello world"}, docs[0])
		assert.Equal(t, Document{ID: "a2", Content: ""}, docs[1])
	})

	t.Run("missing column is fatal", func(t *testing.T) {
		location := writeFile(t, dir, "bad.csv", "id,text\na1,hello\n")
		_, err := NewCSVSource(ctx, fs, location)
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrMissingColumn)
	})

	t.Run("header match is case insensitive", func(t *testing.T) {
		location := writeFile(t, dir, "case.csv", "ID,Content\na1,hello\n")
		src, err := NewCSVSource(ctx, fs, location)
		require.NoError(t, err)
		defer src.Close()
		docs, err := ReadAll(ctx, src)
		require.NoError(t, err)
		require.Len(t, docs, 1)
		assert.Equal(t, "a1", docs[0].ID)
	})
}

func TestExtractPDFText_Fallback(t *testing.T) {
	// Not a valid PDF: the printable-text fallback should strip the binary
	// noise and keep readable runs.
	data := []byte("%%\x00\x01carbon footprint\x02\x7f report\n")
	got := string(ExtractPDFText(data))
	assert.Contains(t, got, "carbon footprint")
	assert.Contains(t, got, "report")
	assert.NotContains(t, got, "\x00")
}

func TestIngest(t *testing.T) {
	ctx := context.Background()
	fs := afs.New()
	dir := t.TempDir()
	writeFile(t, dir, "reports/acme-2024.txt", "Acme cut emissions by ten percent.")
	writeFile(t, dir, "reports/skip.bin", "binary")
	dest := filepath.Join(dir, "corpus.csv")

	count, err := Ingest(ctx, fs, filepath.Join(dir, "reports"), dest)
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	src, err := NewCSVSource(ctx, fs, dest)
	require.NoError(t, err)
	defer src.Close()
	docs, err := ReadAll(ctx, src)
	require.NoError(t, err)
	require.Len(t, docs, 1)
	assert.Equal(t, "acme-2024", docs[0].ID)
	assert.Contains(t, docs[0].Content, "emissions")
}
