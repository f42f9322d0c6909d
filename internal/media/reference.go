package media

import (
	"context"
	"encoding/base64"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/MuhammadShohagIslam/Graphql-Course-Server/internal/apperror"
)

// MaxFileSize bounds both decoded data URIs and fetched URLs.
const MaxFileSize = 10 << 20

const refField = "uploadImageFile"

// Fetcher turns a file reference into bytes. A reference is either a data
// URI or an http(s) URL.
type Fetcher struct {
	httpClient *http.Client
	maxBytes   int64
}

func NewFetcher(httpClient *http.Client) *Fetcher {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}
	return &Fetcher{httpClient: httpClient, maxBytes: MaxFileSize}
}

// Resolve returns the referenced bytes and their content type. A malformed
// reference is a BAD_USER_INPUT error; a failing remote is a plain error.
func (f *Fetcher) Resolve(ctx context.Context, ref string) ([]byte, string, error) {
	ref = strings.TrimSpace(ref)
	switch {
	case ref == "":
		return nil, "", apperror.Validation(refField, "file reference is required")
	case strings.HasPrefix(ref, "data:"):
		return f.decodeDataURI(ref)
	case strings.HasPrefix(ref, "http://"), strings.HasPrefix(ref, "https://"):
		return f.fetch(ctx, ref)
	}
	return nil, "", apperror.Validation(refField, "file reference must be a data URI or an http(s) URL")
}

func (f *Fetcher) decodeDataURI(ref string) ([]byte, string, error) {
	meta, payload, ok := strings.Cut(strings.TrimPrefix(ref, "data:"), ",")
	if !ok {
		return nil, "", apperror.Validation(refField, "malformed data URI")
	}

	isBase64 := strings.HasSuffix(meta, ";base64")
	contentType := strings.TrimSuffix(meta, ";base64")

	var data []byte
	var err error
	if isBase64 {
		data, err = base64.StdEncoding.DecodeString(payload)
	} else {
		var s string
		s, err = url.PathUnescape(payload)
		data = []byte(s)
	}
	if err != nil {
		return nil, "", apperror.Validation(refField, "data URI payload is not decodable")
	}
	if int64(len(data)) > f.maxBytes {
		return nil, "", apperror.Validation(refField, fmt.Sprintf("file exceeds %d bytes", f.maxBytes))
	}
	if len(data) == 0 {
		return nil, "", apperror.Validation(refField, "file is empty")
	}
	if contentType == "" {
		contentType = http.DetectContentType(data)
	}
	return data, contentType, nil
}

func (f *Fetcher) fetch(ctx context.Context, ref string) ([]byte, string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, ref, nil)
	if err != nil {
		return nil, "", apperror.Validation(refField, "invalid URL")
	}
	resp, err := f.httpClient.Do(req)
	if err != nil {
		return nil, "", fmt.Errorf("fetch %s: %w", ref, err)
	}
	defer resp.Body.Close()

	if err := checkResp(resp, ref); err != nil {
		return nil, "", err
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, f.maxBytes+1))
	if err != nil {
		return nil, "", fmt.Errorf("fetch %s: read: %w", ref, err)
	}
	if int64(len(data)) > f.maxBytes {
		return nil, "", apperror.Validation(refField, fmt.Sprintf("file exceeds %d bytes", f.maxBytes))
	}

	contentType := resp.Header.Get("Content-Type")
	if contentType == "" || contentType == "application/octet-stream" {
		contentType = http.DetectContentType(data)
	}
	return data, contentType, nil
}

// checkResp returns an error carrying a prefix of the upstream body when the
// status is not 2xx.
func checkResp(resp *http.Response, ref string) error {
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
	return fmt.Errorf("fetch %s returned %d: %s", ref, resp.StatusCode, string(body))
}
