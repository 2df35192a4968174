package uploader

import (
	"context"
	"fmt"
	"sync"

	"github.com/rs/zerolog"

	"github.com/elseibo-mission/gallery-server/pkg/workerpool"
)

const (
	// DefaultPoolSize is the number of files in flight at once.
	DefaultPoolSize = 2

	mib = 1024 * 1024
)

// MaxFileSize returns the per-file ceiling for an upload class.
func MaxFileSize(class Class) int64 {
	switch class {
	case ClassGuest:
		return 15 * mib
	default:
		return 20 * mib
	}
}

// Protocol is the three-step upload protocol. *Client implements it.
type Protocol interface {
	Presign(ctx context.Context, filename, contentType string, class Class) (*Ticket, error)
	Put(ctx context.Context, ticket *Ticket, data []byte) error
	Finalize(ctx context.Context, key, owner string, class Class) (*Finalized, error)
}

// Progress reports how many files of the batch have finished, successfully or not.
type Progress struct {
	Done  int
	Total int
}

func (p Progress) String() string {
	return fmt.Sprintf("%d of %d", p.Done, p.Total)
}

// OversizeError aborts a batch before any network call.
type OversizeError struct {
	Name  string
	Size  int64
	Limit int64
}

func (e *OversizeError) Error() string {
	return fmt.Sprintf("%s is %d bytes, larger than the %d byte limit", e.Name, e.Size, e.Limit)
}

// Uploaded is a file that went through all three steps.
type Uploaded struct {
	Name string
	Key  string
	URL  string
}

// Failure is a file that failed at some step.
type Failure struct {
	Name string
	Err  error
}

// Outcome summarizes a batch.
type Outcome string

const (
	OutcomeSuccess Outcome = "success"
	OutcomePartial Outcome = "partial"
	OutcomeFailed  Outcome = "failed"
)

// BatchResult lists successes and failures in input order.
type BatchResult struct {
	Succeeded []Uploaded
	Failed    []Failure
}

// Outcome distinguishes full success, partial success and total failure.
func (r *BatchResult) Outcome() Outcome {
	switch {
	case len(r.Failed) == 0:
		return OutcomeSuccess
	case len(r.Succeeded) == 0:
		return OutcomeFailed
	default:
		return OutcomePartial
	}
}

// FailedNames returns the names of failed files for a retry prompt.
func (r *BatchResult) FailedNames() []string {
	names := make([]string, 0, len(r.Failed))
	for _, f := range r.Failed {
		names = append(names, f.Name)
	}
	return names
}

// BatchUploader drives many files through the protocol with a bounded pool.
type BatchUploader struct {
	protocol   Protocol
	class      Class
	owner      string
	poolSize   int
	maxSize    int64
	transcoder Transcoder
	onProgress func(Progress)
	log        zerolog.Logger
}

// BatchOption configures a BatchUploader.
type BatchOption func(*BatchUploader)

// WithOwner sets the display name recorded for guest uploads.
func WithOwner(owner string) BatchOption {
	return func(b *BatchUploader) { b.owner = owner }
}

// WithPoolSize overrides the number of concurrent uploads.
func WithPoolSize(size int) BatchOption {
	return func(b *BatchUploader) { b.poolSize = size }
}

// WithTranscoder replaces the HEIC transcoder. Nil disables transcoding.
func WithTranscoder(t Transcoder) BatchOption {
	return func(b *BatchUploader) { b.transcoder = t }
}

// WithProgress registers a callback invoked each time a file finishes.
func WithProgress(fn func(Progress)) BatchOption {
	return func(b *BatchUploader) { b.onProgress = fn }
}

// WithLogger attaches a logger.
func WithLogger(log zerolog.Logger) BatchOption {
	return func(b *BatchUploader) { b.log = log }
}

func NewBatchUploader(protocol Protocol, class Class, opts ...BatchOption) *BatchUploader {
	b := &BatchUploader{
		protocol:   protocol,
		class:      class,
		poolSize:   DefaultPoolSize,
		maxSize:    MaxFileSize(class),
		transcoder: NewHEICTranscoder(),
		log:        zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

type fileOutcome struct {
	uploaded *Uploaded
	failure  *Failure
}

// Upload checks every file against the size limit, then uploads them. Per-file failures are
// collected in the result and never stop sibling uploads.
func (b *BatchUploader) Upload(ctx context.Context, files []File) (*BatchResult, error) {
	for _, file := range files {
		if file.Size() > b.maxSize {
			return nil, &OversizeError{Name: file.Name, Size: file.Size(), Limit: b.maxSize}
		}
	}

	total := len(files)
	var mu sync.Mutex
	done := 0

	outcomes, err := workerpool.Map(ctx, b.poolSize, files, func(ctx context.Context, _ int, file File) (fileOutcome, error) {
		uploaded, uploadErr := b.uploadOne(ctx, file)

		mu.Lock()
		done++
		progress := Progress{Done: done, Total: total}
		if b.onProgress != nil {
			b.onProgress(progress)
		}
		mu.Unlock()

		if uploadErr != nil {
			b.log.Warn().Err(uploadErr).Str("file", file.Name).Str("progress", progress.String()).Msg("upload failed")
			return fileOutcome{failure: &Failure{Name: file.Name, Err: uploadErr}}, nil
		}
		b.log.Info().Str("file", file.Name).Str("progress", progress.String()).Msg("uploaded")
		return fileOutcome{uploaded: uploaded}, nil
	})
	if err != nil {
		return nil, err
	}

	result := &BatchResult{Succeeded: []Uploaded{}, Failed: []Failure{}}
	for _, outcome := range outcomes {
		switch {
		case outcome.uploaded != nil:
			result.Succeeded = append(result.Succeeded, *outcome.uploaded)
		case outcome.failure != nil:
			result.Failed = append(result.Failed, *outcome.failure)
		}
	}
	return result, nil
}

func (b *BatchUploader) uploadOne(ctx context.Context, file File) (*Uploaded, error) {
	file = b.prepare(file)

	ticket, err := b.protocol.Presign(ctx, file.Name, file.ContentType, b.class)
	if err != nil {
		return nil, err
	}
	if err := b.protocol.Put(ctx, ticket, file.Data); err != nil {
		return nil, err
	}
	finalized, err := b.protocol.Finalize(ctx, ticket.Key, b.owner, b.class)
	if err != nil {
		return nil, err
	}

	url := finalized.URL
	if url == "" {
		url = ticket.PublicURL
	}
	return &Uploaded{Name: file.Name, Key: ticket.Key, URL: url}, nil
}

// prepare transcodes the file when a transcoder applies. Failure keeps the original.
func (b *BatchUploader) prepare(file File) File {
	if b.transcoder == nil || !b.transcoder.Applies(file) {
		return file
	}
	converted, err := b.transcoder.Transcode(file)
	if err != nil {
		b.log.Warn().Err(err).Str("file", file.Name).Msg("transcode failed, uploading original")
		return file
	}
	return converted
}
