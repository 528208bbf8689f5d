package storage

import (
	"context"
	"errors"
	"io"
)

var errUploadAborted = errors.New("upload aborted")

// pipeWriter adapts a streaming upload call into a ContentWriter. The upload runs
// on its own goroutine reading the pipe; Close waits for it to finish.
type pipeWriter struct {
	pw     *io.PipeWriter
	done   chan error
	cancel context.CancelFunc
	closed bool
}

func newPipeWriter(ctx context.Context, upload func(ctx context.Context, r io.Reader) error) *pipeWriter {
	ctx, cancel := context.WithCancel(ctx)
	pr, pw := io.Pipe()
	done := make(chan error, 1)

	go func() {
		err := upload(ctx, pr)
		_ = pr.CloseWithError(err)
		done <- err
	}()

	return &pipeWriter{pw: pw, done: done, cancel: cancel}
}

func (w *pipeWriter) Write(p []byte) (int, error) {
	return w.pw.Write(p)
}

func (w *pipeWriter) Close() error {
	if w.closed {
		return nil
	}
	w.closed = true
	defer w.cancel()

	_ = w.pw.Close()
	return <-w.done
}

func (w *pipeWriter) Abort() error {
	if w.closed {
		return nil
	}
	w.closed = true

	w.cancel()
	_ = w.pw.CloseWithError(errUploadAborted)
	<-w.done
	return nil
}
