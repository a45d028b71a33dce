package relay

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"strings"
	"time"

	pkgmodels "telepipe/pkg/models"
)

// UploadError is returned by Backend.Upload. It is either *TransportError or *StatusError.
type UploadError interface {
	error
	uploadError()
}

// TransportError means the backend could not be reached or its reply could not be read.
type TransportError struct {
	Op  string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("backend %s: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }
func (*TransportError) uploadError()    {}

// StatusError means the backend answered with something other than 201 Created.
type StatusError struct {
	Code   int
	Detail string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("Backend error: %d %s", e.Code, e.Detail)
}

func (*StatusError) uploadError() {}

type UploadRequest struct {
	Data     []byte
	Filename string
	MimeType string
	Title    string
}

// Backend forwards files to the storage backend's upload endpoint.
type Backend struct {
	BaseURL    string
	HTTPClient *http.Client
}

func NewBackend(baseURL string) *Backend {
	return &Backend{
		BaseURL:    strings.TrimRight(baseURL, "/"),
		HTTPClient: &http.Client{Timeout: 5 * time.Minute},
	}
}

var quoteEscaper = strings.NewReplacer("\\", "\\\\", `"`, "\\\"")

func (b *Backend) Upload(ctx context.Context, in UploadRequest) (*pkgmodels.Video, error) {
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)

	if in.Title != "" {
		if err := writer.WriteField("title", in.Title); err != nil {
			return nil, &TransportError{Op: "encode form", Err: err}
		}
	}

	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="file"; filename="%s"`, quoteEscaper.Replace(in.Filename)))
	h.Set("Content-Type", in.MimeType)
	part, err := writer.CreatePart(h)
	if err != nil {
		return nil, &TransportError{Op: "encode form", Err: err}
	}
	if _, err := part.Write(in.Data); err != nil {
		return nil, &TransportError{Op: "encode form", Err: err}
	}
	if err := writer.Close(); err != nil {
		return nil, &TransportError{Op: "encode form", Err: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, b.BaseURL+"/upload", body)
	if err != nil {
		return nil, &TransportError{Op: "build request", Err: err}
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := b.HTTPClient.Do(req)
	if err != nil {
		return nil, &TransportError{Op: "request", Err: err}
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &TransportError{Op: "read response", Err: err}
	}

	if resp.StatusCode != http.StatusCreated {
		return nil, &StatusError{Code: resp.StatusCode, Detail: string(respBody)}
	}

	var video pkgmodels.Video
	if err := json.Unmarshal(respBody, &video); err != nil {
		return nil, &TransportError{Op: "decode response", Err: err}
	}
	return &video, nil
}
