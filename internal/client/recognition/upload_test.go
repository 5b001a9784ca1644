package recognition

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/okulikov/handtext/internal/common"
)

func TestUpload_MultipartShape(t *testing.T) {
	var (
		gotField    string
		gotFilename string
		gotPartType string
		gotBody     []byte
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		reader, err := r.MultipartReader()
		require.NoError(t, err)

		part, err := reader.NextPart()
		require.NoError(t, err)
		gotField = part.FormName()
		gotFilename = part.FileName()
		gotPartType = part.Header.Get("Content-Type")
		gotBody, _ = io.ReadAll(part)

		_, err = reader.NextPart()
		require.ErrorIs(t, err, io.EOF, "exactly one part expected")

		_, _ = w.Write([]byte(`{"recognized_text": "ok"}`))
	}))
	t.Cleanup(srv.Close)

	path := writeImage(t, "photo.png", []byte{0x89, 0x50, 0x4e, 0x47})
	u := NewUploader(srv.URL, &http.Client{Timeout: 5 * time.Second})

	text, err := u.Upload(context.Background(), ImageAsset{URI: path, MIMEType: "image/png"})
	require.NoError(t, err)
	require.Equal(t, "ok", text)

	require.Equal(t, "image", gotField)
	require.Equal(t, "uploaded_image.jpg", gotFilename)
	require.Equal(t, "image/jpeg", gotPartType, "declared part type is fixed regardless of source mime")
	require.Equal(t, []byte{0x89, 0x50, 0x4e, 0x47}, gotBody)
}

func TestUpload_MissingFile(t *testing.T) {
	u := NewUploader("http://unused", nil)
	_, err := u.Upload(context.Background(), ImageAsset{URI: "/nonexistent/image.jpg"})
	require.ErrorIs(t, err, common.ErrCapture)
}

func TestNormalizeText(t *testing.T) {
	cases := []struct {
		name string
		in   recognizeResponse
		want string
	}{
		{"recognized text", recognizeResponse{RecognizedText: "HELLO "}, "HELLO"},
		{"predictions", recognizeResponse{Predictions: []string{"A", " B "}}, "A\nB"},
		{"text wins over predictions", recognizeResponse{RecognizedText: "T", Predictions: []string{"P"}}, "T"},
		{"empty", recognizeResponse{}, NoTextFallback},
		{"whitespace only", recognizeResponse{RecognizedText: "   "}, NoTextFallback},
		{"blank predictions", recognizeResponse{Predictions: []string{" ", ""}}, NoTextFallback},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			require.Equal(t, tc.want, normalizeText(tc.in))
		})
	}
}
