package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/okulikov/handtext/internal/client/recognition"
	"github.com/okulikov/handtext/internal/common"
)

// PickImage acquires an image from the library (a file path in this client).
func (a *App) PickImage(ctx context.Context) error {
	return a.acquire(ctx, recognition.Gallery)
}

// SnapImage acquires an image from the camera. The CLI has no camera, so
// this also prompts for a file path, but keeps the two entry points the
// pipeline distinguishes.
func (a *App) SnapImage(ctx context.Context) error {
	return a.acquire(ctx, recognition.Camera)
}

func (a *App) acquire(ctx context.Context, source recognition.Source) error {
	if err := a.pipeline.AcquireImage(ctx, source); err != nil {
		fmt.Println("Image acquisition failed:", err)
		return err
	}

	if img, ok := a.pipeline.Image(); ok {
		fmt.Println("Selected:", img.URI)
	} else {
		fmt.Println("Cancelled.")
	}
	return nil
}

// Recognize submits the current image to the recognition service and
// prints the recognized text.
func (a *App) Recognize(ctx context.Context) error {
	res, err := a.pipeline.Submit(ctx)
	if err != nil {
		switch {
		case errors.Is(err, common.ErrNoImage):
			fmt.Println("Pick or snap an image first.")
		case errors.Is(err, common.ErrNetwork):
			fmt.Println("Recognition service unreachable:", err)
		default:
			fmt.Println("Recognition failed:", err)
		}
		return err
	}

	fmt.Println(res.Text)
	return nil
}
