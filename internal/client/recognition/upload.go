package recognition

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"os"
	"strings"
	"time"

	"github.com/okulikov/handtext/internal/common"
)

const (
	uploadFieldName   = "image"
	uploadFileName    = "uploaded_image.jpg"
	uploadContentType = "image/jpeg"

	defaultUploadTimeout = 60 * time.Second
)

// NoTextFallback is what an empty recognition outcome normalizes to. An
// empty body is a valid answer ("nothing legible on the page"), not an
// error.
const NoTextFallback = "No text recognized."

// Uploader sends one image to the recognition endpoint as a single-part
// multipart POST (field "image", filename "uploaded_image.jpg", declared
// content type image/jpeg) and extracts the recognized text from the
// response.
type Uploader struct {
	endpoint string
	client   *http.Client
}

// NewUploader builds an Uploader for the given endpoint URL. A nil client
// gets a default with a generous timeout; recognition is slow.
func NewUploader(endpoint string, client *http.Client) *Uploader {
	if client == nil {
		client = &http.Client{Timeout: defaultUploadTimeout}
	}
	return &Uploader{endpoint: endpoint, client: client}
}

// recognizeResponse covers both wire forms the service is known to emit:
// the mobile endpoint returns recognized_text, the web endpoint returns a
// predictions list.
type recognizeResponse struct {
	RecognizedText string   `json:"recognized_text"`
	Predictions    []string `json:"predictions"`
}

// Upload performs the request and returns the normalized text.
func (u *Uploader) Upload(ctx context.Context, asset ImageAsset) (string, error) {
	body, contentType, err := buildUploadBody(asset.URI)
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u.endpoint, body)
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", contentType)

	resp, err := u.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", common.ErrNetwork, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", fmt.Errorf("%w: unexpected status %s", common.ErrRecognitionService, resp.Status)
	}

	var rr recognizeResponse
	if err := json.NewDecoder(resp.Body).Decode(&rr); err != nil {
		return "", fmt.Errorf("%w: malformed response body: %v", common.ErrRecognitionService, err)
	}

	return normalizeText(rr), nil
}

// buildUploadBody assembles the multipart body from the image file.
func buildUploadBody(uri string) (io.Reader, string, error) {
	file, err := os.Open(uri)
	if err != nil {
		return nil, "", fmt.Errorf("%w: reading image: %v", common.ErrCapture, err)
	}
	defer file.Close()

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition",
		fmt.Sprintf(`form-data; name=%q; filename=%q`, uploadFieldName, uploadFileName))
	header.Set("Content-Type", uploadContentType)

	part, err := w.CreatePart(header)
	if err != nil {
		return nil, "", err
	}
	if _, err := io.Copy(part, file); err != nil {
		return nil, "", fmt.Errorf("%w: reading image: %v", common.ErrCapture, err)
	}
	if err := w.Close(); err != nil {
		return nil, "", err
	}

	return &buf, w.FormDataContentType(), nil
}

// normalizeText reconciles the two response schemas. recognized_text wins
// when present; otherwise the predictions are joined line by line.
// Whitespace-only outcomes normalize to NoTextFallback.
func normalizeText(rr recognizeResponse) string {
	text := strings.TrimSpace(rr.RecognizedText)
	if text == "" && len(rr.Predictions) > 0 {
		lines := make([]string, 0, len(rr.Predictions))
		for _, p := range rr.Predictions {
			if p = strings.TrimSpace(p); p != "" {
				lines = append(lines, p)
			}
		}
		text = strings.Join(lines, "\n")
	}
	if text == "" {
		return NoTextFallback
	}
	return text
}
