package relay

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"telepipe/internal/telegram"
)

func TestBackendUploadSendsMultipart(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/upload" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		file, header, err := r.FormFile("file")
		if err != nil {
			t.Errorf("form file: %v", err)
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		defer file.Close()
		data, _ := io.ReadAll(file)

		if string(data) != "abc" {
			t.Errorf("unexpected data %q", data)
		}
		if header.Filename != `my "clip".mp4` {
			t.Errorf("unexpected filename %q", header.Filename)
		}
		if got := header.Header.Get("Content-Type"); got != "video/quicktime" {
			t.Errorf("unexpected content type %q", got)
		}
		if got := r.FormValue("title"); got != "Test" {
			t.Errorf("unexpected title %q", got)
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		io.WriteString(w, `{"id":42,"title":"Test","original_name":"clip.mp4","mime_type":"video/quicktime","size":3,"created_at":"2026-01-01T00:00:00Z","file_url":"http://x/video/42"}`)
	}))
	defer server.Close()

	video, err := NewBackend(server.URL+"/").Upload(context.Background(), UploadRequest{
		Data:     []byte("abc"),
		Filename: `my "clip".mp4`,
		MimeType: "video/quicktime",
		Title:    "Test",
	})
	if err != nil {
		t.Fatalf("upload: %v", err)
	}
	if video.ID != 42 || video.Size != 3 {
		t.Fatalf("unexpected video %+v", video)
	}
}

func TestBackendUploadStatusError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		io.WriteString(w, `{"error":"Empty file"}`)
	}))
	defer server.Close()

	_, err := NewBackend(server.URL).Upload(context.Background(), UploadRequest{Filename: "a.mp4", MimeType: "video/mp4"})

	var statusErr *StatusError
	if !errors.As(err, &statusErr) {
		t.Fatalf("expected *StatusError, got %T: %v", err, err)
	}
	if statusErr.Code != http.StatusBadRequest || !strings.Contains(statusErr.Detail, "Empty file") {
		t.Fatalf("unexpected status error %+v", statusErr)
	}
	var uploadErr UploadError
	if !errors.As(err, &uploadErr) {
		t.Fatalf("expected UploadError")
	}
}

func TestBackendUploadTransportError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := server.URL
	server.Close()

	_, err := NewBackend(url).Upload(context.Background(), UploadRequest{Data: []byte("a"), Filename: "a.mp4", MimeType: "video/mp4"})

	var transportErr *TransportError
	if !errors.As(err, &transportErr) {
		t.Fatalf("expected *TransportError, got %T: %v", err, err)
	}
	var statusErr *StatusError
	if errors.As(err, &statusErr) {
		t.Fatalf("transport failure must not be a status error")
	}
}

func TestAttachmentFromMessage(t *testing.T) {
	if _, ok := AttachmentFromMessage(&telegram.Message{Text: "hi"}); ok {
		t.Fatalf("expected no attachment for text")
	}
	if _, ok := AttachmentFromMessage(nil); ok {
		t.Fatalf("expected no attachment for nil message")
	}

	both := &telegram.Message{
		Video:    &telegram.Video{FileID: "v1"},
		Document: &telegram.Document{FileID: "d1", FileName: "doc.bin", MimeType: "application/zip"},
	}
	att, ok := AttachmentFromMessage(both)
	if !ok {
		t.Fatalf("expected attachment")
	}
	if _, isVideo := att.(VideoAttachment); !isVideo {
		t.Fatalf("expected video to win, got %T", att)
	}
	if att.FileID() != "v1" || att.Filename() != "v1.mp4" || att.MimeType() != "video/mp4" {
		t.Fatalf("unexpected accessors %q %q %q", att.FileID(), att.Filename(), att.MimeType())
	}

	doc, ok := AttachmentFromMessage(&telegram.Message{Document: &telegram.Document{FileID: "d2"}})
	if !ok {
		t.Fatalf("expected document attachment")
	}
	if doc.Filename() != "d2.mp4" || doc.MimeType() != "video/mp4" {
		t.Fatalf("unexpected document defaults %q %q", doc.Filename(), doc.MimeType())
	}
}
