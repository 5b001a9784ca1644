package recognizer

import (
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"time"
)

// maxUploadBytes bounds the multipart form kept in memory.
const maxUploadBytes = 32 << 20

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

// limit wraps a handler with the per-host rate limiter.
func (s *Service) limit(endpoint string, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		host, _, err := net.SplitHostPort(r.RemoteAddr)
		if err != nil {
			host = r.RemoteAddr
		}
		if !s.limiter.Allow(host, time.Now()) {
			s.count(endpoint, http.StatusTooManyRequests)
			s.log.Warn(r.Context(), "rate limit exceeded", "host", host, "endpoint", endpoint)
			http.Error(w, "rate limit exceeded", http.StatusTooManyRequests)
			return
		}
		next(w, r)
	}
}

// readImagePart validates that the request carries a multipart "image"
// part and drains it.
func readImagePart(r *http.Request) error {
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		return err
	}
	file, _, err := r.FormFile("image")
	if err != nil {
		return err
	}
	defer file.Close()
	_, err = io.Copy(io.Discard, file)
	return err
}

func (s *Service) health(w http.ResponseWriter, r *http.Request) {
	fmt.Fprintln(w, "OK")
}

// segmentAndRecognize mirrors the mobile endpoint: one image part in,
// one recognized_text string out.
func (s *Service) segmentAndRecognize(w http.ResponseWriter, r *http.Request) {
	if err := readImagePart(r); err != nil {
		s.count("segment_and_recognize", http.StatusBadRequest)
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "No image provided"})
		return
	}

	s.count("segment_and_recognize", http.StatusOK)
	writeJSON(w, http.StatusOK, map[string]string{"recognized_text": s.text})
}

// process mirrors the web endpoint: the text comes back as a list of
// per-word predictions.
func (s *Service) process(w http.ResponseWriter, r *http.Request) {
	if err := readImagePart(r); err != nil {
		s.count("process", http.StatusBadRequest)
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "No image file provided"})
		return
	}

	s.count("process", http.StatusOK)
	writeJSON(w, http.StatusOK, map[string][]string{"predictions": strings.Fields(s.text)})
}
