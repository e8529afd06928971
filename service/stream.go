package service

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"

	"github.com/viant/afs/file"
)

// uploadStream pipes produce's output straight into an afs upload, so a
// corpus-sized artifact never sits fully in memory.
func (s *Service) uploadStream(ctx context.Context, URL string, produce func(writer *bufio.Writer) error) error {
	pipeReader, pipeWriter := io.Pipe()
	done := make(chan error, 1)
	go func() {
		err := s.fs.Upload(ctx, URL, file.DefaultFileOsMode, pipeReader)
		if err != nil {
			// Unblock a producer still writing into the pipe.
			_ = pipeReader.CloseWithError(err)
		}
		done <- err
	}()
	writer := bufio.NewWriter(pipeWriter)
	err := produce(writer)
	if err == nil {
		err = writer.Flush()
	}
	if err != nil {
		_ = pipeWriter.CloseWithError(err)
		if uploadErr := <-done; uploadErr != nil {
			return fmt.Errorf("upload %v: %w", URL, uploadErr)
		}
		return err
	}
	if err := pipeWriter.Close(); err != nil {
		<-done
		return err
	}
	if err := <-done; err != nil {
		return fmt.Errorf("upload %v: %w", URL, err)
	}
	return nil
}

// openSeekable opens URL for multi-pass reading. Backends whose reader
// cannot seek are spooled through a temp file instead of memory.
func (s *Service) openSeekable(ctx context.Context, URL string) (io.ReadSeeker, func(), error) {
	reader, err := s.fs.OpenURL(ctx, URL)
	if err != nil {
		return nil, nil, fmt.Errorf("open %v: %w", URL, err)
	}
	if seeker, ok := reader.(io.ReadSeeker); ok {
		return seeker, func() { _ = reader.Close() }, nil
	}
	tmp, err := os.CreateTemp("", "esglex-*.txt")
	if err != nil {
		_ = reader.Close()
		return nil, nil, err
	}
	cleanup := func() {
		_ = tmp.Close()
		_ = os.Remove(tmp.Name())
	}
	if _, err := io.Copy(tmp, reader); err != nil {
		_ = reader.Close()
		cleanup()
		return nil, nil, fmt.Errorf("spool %v: %w", URL, err)
	}
	_ = reader.Close()
	if _, err := tmp.Seek(0, io.SeekStart); err != nil {
		cleanup()
		return nil, nil, err
	}
	return tmp, cleanup, nil
}
