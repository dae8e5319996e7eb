package mirror

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/spf13/afero"
	"golang.org/x/time/rate"

	"github.com/liveline/liveline/internal/observability"
	"github.com/liveline/liveline/internal/sparselist"
)

// Writer mirrors console rows into a file, debounced.
//
// Row updates accumulate in a buffer that is flushed to the file at a
// limited rate, so that a console redrawing many times per second does
// not turn into that many file rewrites.
type Writer struct {
	mu sync.Mutex
	wg sync.WaitGroup

	file      *lineFile
	path      string
	rateLimit *rate.Limiter
	logger    *observability.CoreLogger

	// buffer is the set of rows waiting to be written.
	buffer sparselist.SparseList[string]

	// isFlushing is whether a goroutine is looping to flush the buffer.
	isFlushing bool

	// finished is whether Finish was called.
	finished bool

	// broken is whether a write failed, after which all updates are
	// discarded.
	broken bool
}

type WriterParams struct {
	// Fs is the filesystem to write to.
	//
	// Defaults to the OS filesystem.
	Fs afero.Fs

	// Path is the file to mirror rows into.
	//
	// The parent directory must exist. An existing file is truncated.
	Path string

	// RateLimit caps how often the file is rewritten.
	//
	// Defaults to once every 10 milliseconds.
	RateLimit *rate.Limiter

	Logger *observability.CoreLogger
}

// NewWriter creates the mirror file and returns a writer for it.
func NewWriter(params WriterParams) (*Writer, error) {
	if params.Fs == nil {
		params.Fs = afero.NewOsFs()
	}
	if params.RateLimit == nil {
		params.RateLimit = rate.NewLimiter(rate.Every(10*time.Millisecond), 1)
	}
	if params.Logger == nil {
		params.Logger = observability.NewNoOpLogger()
	}

	file, err := createLineFile(params.Fs, params.Path, 0644)
	if err != nil {
		return nil, fmt.Errorf("mirror: failed to create %s: %v", params.Path, err)
	}

	return &Writer{
		file:      file,
		path:      params.Path,
		rateLimit: params.RateLimit,
		logger:    params.Logger,
	}, nil
}

// UpdateRows schedules new content for a set of rows to be written
// to the file.
//
// It is a no-op after Finish or after a write error.
func (w *Writer) UpdateRows(rows sparselist.SparseList[string]) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.finished || w.broken {
		return
	}

	w.buffer.Update(rows)

	if w.isFlushing || w.buffer.Len() == 0 {
		return
	}

	w.isFlushing = true
	w.wg.Add(1)
	go w.flushPeriodically()
}

func (w *Writer) flushPeriodically() {
	defer w.logger.Reraise()

	for {
		_ = w.rateLimit.Wait(context.Background())

		w.mu.Lock()
		if w.buffer.Len() == 0 || w.broken {
			break
		}

		buffer := w.buffer
		w.buffer = sparselist.SparseList[string]{}
		w.mu.Unlock()

		w.flush(buffer)
	}

	w.isFlushing = false
	w.wg.Done()
	w.mu.Unlock()
}

// flush writes buffered rows to the file.
//
// Must be called without holding the mutex.
func (w *Writer) flush(rows sparselist.SparseList[string]) {
	err := w.file.UpdateLines(rows)
	if err == nil {
		return
	}

	w.mu.Lock()
	w.broken = true
	w.buffer = sparselist.SparseList[string]{}
	w.mu.Unlock()

	w.logger.CaptureError(
		fmt.Errorf("mirror: failed to update %s: %v", w.path, err))
}

// Finish waits for buffered rows to reach the file and stops the writer.
//
// Later UpdateRows calls are ignored. It is safe to call more than once.
func (w *Writer) Finish() {
	w.mu.Lock()
	w.finished = true
	w.mu.Unlock()

	w.wg.Wait()
}
