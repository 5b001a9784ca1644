// Package recognition drives the image-acquisition-to-recognition-result
// pipeline: acquire an image from a provider, upload it to the remote
// handwriting-recognition service as a multipart POST, and normalize the
// returned text.
package recognition

import (
	"context"
	"fmt"
	"sync"

	"github.com/okulikov/handtext/internal/client/async"
	"github.com/okulikov/handtext/internal/common"
	"github.com/okulikov/handtext/internal/logging"
)

// Source selects where an image comes from.
type Source int

const (
	Gallery Source = iota
	Camera
)

func (s Source) String() string {
	switch s {
	case Gallery:
		return "gallery"
	case Camera:
		return "camera"
	default:
		return "unknown"
	}
}

// ImageAsset is one acquired document image. URI is a local file path.
type ImageAsset struct {
	URI      string
	MIMEType string
}

// AcquireResult is the tagged outcome of an acquisition attempt: either an
// asset, or a user cancellation. Provider failures are reported through
// the error return instead.
type AcquireResult struct {
	Asset     ImageAsset
	Cancelled bool
}

// ImageProvider is the external collaborator producing images.
type ImageProvider interface {
	PickFromLibrary(ctx context.Context) (AcquireResult, error)
	CaptureFromCamera(ctx context.Context) (AcquireResult, error)
}

// Result is the recognized text derived from exactly one ImageAsset.
type Result struct {
	Text string
}

// Phase is the pipeline lifecycle:
//
//	Idle -> HasImage -> Uploading -> {Completed, Failed}
//
// Acquiring a new image from Completed or Failed returns to HasImage and
// discards the prior result; Submit from HasImage (or later, with an
// image present) returns to Uploading.
type Phase int

const (
	Idle Phase = iota
	HasImage
	Uploading
	Completed
	Failed
)

func (p Phase) String() string {
	switch p {
	case Idle:
		return "idle"
	case HasImage:
		return "has image"
	case Uploading:
		return "uploading"
	case Completed:
		return "completed"
	case Failed:
		return "failed"
	default:
		return "unknown"
	}
}

// Pipeline owns the current ImageAsset and RecognitionResult. A new image
// always replaces the previous one and invalidates any in-flight upload:
// the stale upload's resolution is discarded, never attributed to the
// newer image.
type Pipeline struct {
	provider ImageProvider
	uploader *Uploader
	log      logging.Logger

	mu      sync.Mutex
	phase   Phase
	image   *ImageAsset
	result  Result
	lastErr error

	op async.Op[Result]
}

func NewPipeline(provider ImageProvider, uploader *Uploader, log logging.Logger) *Pipeline {
	return &Pipeline{provider: provider, uploader: uploader, log: log}
}

// Phase returns the current pipeline phase.
func (p *Pipeline) Phase() Phase {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.phase
}

// Image returns the current asset, if any.
func (p *Pipeline) Image() (ImageAsset, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.image == nil {
		return ImageAsset{}, false
	}
	return *p.image, true
}

// Result returns the recognition result of the current image, if the
// pipeline is Completed.
func (p *Pipeline) Result() (Result, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.result, p.phase == Completed
}

// Err returns the error that moved the pipeline to Failed, or nil.
func (p *Pipeline) Err() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.phase != Failed {
		return nil
	}
	return p.lastErr
}

// AcquireImage asks the provider for an image. On cancellation the state
// is left exactly as it was; a provider failure surfaces
// common.ErrCapture and also leaves state unchanged. On success the new
// asset replaces the previous one, any prior result is cleared, any
// in-flight upload is superseded, and the phase becomes HasImage.
func (p *Pipeline) AcquireImage(ctx context.Context, source Source) error {
	var (
		res AcquireResult
		err error
	)
	switch source {
	case Gallery:
		res, err = p.provider.PickFromLibrary(ctx)
	case Camera:
		res, err = p.provider.CaptureFromCamera(ctx)
	default:
		return fmt.Errorf("%w: unknown source %d", common.ErrCapture, source)
	}

	if err != nil {
		p.log.Warn(ctx, "image acquisition failed", "source", source.String(), "error", err)
		return fmt.Errorf("%w: %v", common.ErrCapture, err)
	}
	if res.Cancelled {
		p.log.Debug(ctx, "image acquisition cancelled", "source", source.String())
		return nil
	}

	// The new image takes over: any in-flight upload becomes stale.
	p.op.Reset()

	p.mu.Lock()
	asset := res.Asset
	p.image = &asset
	p.result = Result{}
	p.lastErr = nil
	p.phase = HasImage
	p.mu.Unlock()

	p.log.Info(ctx, "image acquired", "source", source.String(), "uri", res.Asset.URI)
	return nil
}

// Submit uploads the current image and resolves the recognized text.
// Without an image it fails with common.ErrNoImage and does not change
// state. While the upload is in flight the phase is Uploading; if a new
// image is acquired meanwhile, this upload's eventual outcome is
// discarded.
func (p *Pipeline) Submit(ctx context.Context) (Result, error) {
	p.mu.Lock()
	if p.image == nil {
		p.mu.Unlock()
		return Result{}, fmt.Errorf("%w: select or capture an image first", common.ErrNoImage)
	}
	asset := *p.image
	h := p.op.Start()
	p.phase = Uploading
	p.result = Result{}
	p.lastErr = nil
	p.mu.Unlock()

	text, err := p.uploader.Upload(ctx, asset)
	if err != nil {
		p.mu.Lock()
		defer p.mu.Unlock()
		if h.Reject(err) {
			p.phase = Failed
			p.lastErr = err
			p.log.Warn(ctx, "recognition failed", "uri", asset.URI, "error", err)
		}
		return Result{}, err
	}

	res := Result{Text: text}
	p.mu.Lock()
	defer p.mu.Unlock()
	if h.Resolve(res) {
		p.phase = Completed
		p.result = res
		p.log.Info(ctx, "recognition completed", "uri", asset.URI)
	}
	return res, nil
}
