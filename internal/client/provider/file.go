// Package provider implements the image-provider collaborator for a
// terminal client: "gallery" and "camera" both resolve to image files on
// disk, chosen through a prompt callback supplied by the UI.
package provider

import (
	"context"
	"fmt"
	"mime"
	"os"
	"path/filepath"
	"strings"

	"github.com/okulikov/handtext/internal/client/recognition"
)

// PromptFunc asks the user for an image path for the given source. An
// empty path (or io.EOF from the underlying reader surfaced as an error
// by the caller) means the user cancelled.
type PromptFunc func(ctx context.Context, source recognition.Source) (string, error)

// FileProvider resolves acquisition requests to local files. It satisfies
// recognition.ImageProvider.
type FileProvider struct {
	prompt PromptFunc
}

func NewFileProvider(prompt PromptFunc) *FileProvider {
	return &FileProvider{prompt: prompt}
}

func (p *FileProvider) PickFromLibrary(ctx context.Context) (recognition.AcquireResult, error) {
	return p.acquire(ctx, recognition.Gallery)
}

func (p *FileProvider) CaptureFromCamera(ctx context.Context) (recognition.AcquireResult, error) {
	return p.acquire(ctx, recognition.Camera)
}

func (p *FileProvider) acquire(ctx context.Context, source recognition.Source) (recognition.AcquireResult, error) {
	path, err := p.prompt(ctx, source)
	if err != nil {
		return recognition.AcquireResult{}, err
	}

	path = strings.TrimSpace(path)
	if path == "" {
		return recognition.AcquireResult{Cancelled: true}, nil
	}

	info, err := os.Stat(path)
	if err != nil {
		return recognition.AcquireResult{}, fmt.Errorf("cannot access %s: %w", path, err)
	}
	if info.IsDir() {
		return recognition.AcquireResult{}, fmt.Errorf("%s is a directory, not an image", path)
	}

	return recognition.AcquireResult{
		Asset: recognition.ImageAsset{URI: path, MIMEType: detectMIME(path)},
	}, nil
}

// detectMIME guesses the mime type from the file extension, defaulting to
// image/jpeg when unknown.
func detectMIME(path string) string {
	if t := mime.TypeByExtension(filepath.Ext(path)); strings.HasPrefix(t, "image/") {
		return t
	}
	return "image/jpeg"
}
