package corpus

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"path"
	"strings"
	"unicode/utf8"

	"github.com/ledongthuc/pdf"
	"github.com/viant/afs"
	"github.com/viant/afs/file"
)

// Ingest converts a folder of PDF and plain-text reports into the tabular
// id/content corpus file at destURL. The document id is the file name
// without extension. Returns the number of documents written.
func Ingest(ctx context.Context, fs afs.Service, srcURL, destURL string) (int, error) {
	objects, err := fs.List(ctx, srcURL)
	if err != nil {
		return 0, fmt.Errorf("corpus: list %v: %w", srcURL, err)
	}
	buffer := new(bytes.Buffer)
	writer := csv.NewWriter(buffer)
	if err := writer.Write([]string{"id", "content"}); err != nil {
		return 0, err
	}
	count := 0
	for _, object := range objects {
		if object.IsDir() {
			continue
		}
		ext := strings.ToLower(path.Ext(object.Name()))
		if ext != ".pdf" && ext != ".txt" {
			continue
		}
		data, err := fs.Download(ctx, object)
		if err != nil {
			return 0, fmt.Errorf("corpus: download %v: %w", object.URL(), err)
		}
		var content []byte
		if ext == ".pdf" {
			content = ExtractPDFText(data)
		} else {
			content = data
		}
		id := strings.TrimSuffix(object.Name(), ext)
		if err := writer.Write([]string{id, string(content)}); err != nil {
			return 0, err
		}
		count++
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		return 0, err
	}
	if err := fs.Upload(ctx, destURL, file.DefaultFileOsMode, bytes.NewReader(buffer.Bytes())); err != nil {
		return 0, fmt.Errorf("corpus: upload %v: %w", destURL, err)
	}
	return count, nil
}

// ExtractPDFText extracts plain text from PDF data, falling back to a
// printable-character scan when the PDF reader rejects the payload.
func ExtractPDFText(data []byte) []byte {
	if len(data) == 0 {
		return nil
	}
	if r, err := pdf.NewReader(bytes.NewReader(data), int64(len(data))); err == nil {
		if reader, err := r.GetPlainText(); err == nil {
			if out, err := io.ReadAll(reader); err == nil && len(out) > 0 {
				return out
			}
		}
	}
	return extractPrintableText(data)
}

func extractPrintableText(in []byte) []byte {
	var out bytes.Buffer
	for len(in) > 0 {
		r, size := utf8.DecodeRune(in)
		if r == utf8.RuneError && size == 1 {
			b := in[0]
			if isPrintableASCII(b) {
				out.WriteByte(b)
			}
			in = in[1:]
			continue
		}
		if isPrintableRune(r) {
			out.WriteRune(r)
		}
		in = in[size:]
	}
	return out.Bytes()
}

func isPrintableASCII(b byte) bool {
	return b == '\n' || b == '\t' || (b >= 0x20 && b < 0x7f)
}

func isPrintableRune(r rune) bool {
	return r == '\n' || r == '\t' || r == ' ' || (r > 0x20 && r != utf8.RuneError)
}
