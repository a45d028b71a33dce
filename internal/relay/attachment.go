package relay

import "telepipe/internal/telegram"

const (
	defaultExtension = ".mp4"
	defaultMimeType  = "video/mp4"
)

// Attachment is either a VideoAttachment or a DocumentAttachment.
type Attachment interface {
	FileID() string
	Filename() string
	MimeType() string
	attachment()
}

type VideoAttachment struct {
	Video *telegram.Video
}

type DocumentAttachment struct {
	Document *telegram.Document
}

// AttachmentFromMessage extracts the forwardable file of msg. A video wins over a document.
func AttachmentFromMessage(msg *telegram.Message) (Attachment, bool) {
	if msg == nil {
		return nil, false
	}
	if msg.Video != nil && msg.Video.FileID != "" {
		return VideoAttachment{Video: msg.Video}, true
	}
	if msg.Document != nil && msg.Document.FileID != "" {
		return DocumentAttachment{Document: msg.Document}, true
	}
	return nil, false
}

func (a VideoAttachment) FileID() string   { return a.Video.FileID }
func (a VideoAttachment) Filename() string { return filename(a.Video.FileName, a.Video.FileID) }
func (a VideoAttachment) MimeType() string { return mimeType(a.Video.MimeType) }
func (VideoAttachment) attachment()        {}

func (a DocumentAttachment) FileID() string { return a.Document.FileID }
func (a DocumentAttachment) Filename() string {
	return filename(a.Document.FileName, a.Document.FileID)
}
func (a DocumentAttachment) MimeType() string { return mimeType(a.Document.MimeType) }
func (DocumentAttachment) attachment()        {}

func filename(name, fileID string) string {
	if name != "" {
		return name
	}
	return fileID + defaultExtension
}

func mimeType(platform string) string {
	if platform != "" {
		return platform
	}
	return defaultMimeType
}
