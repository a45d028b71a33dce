package relay

import (
	"context"
	"fmt"
	"log"
	"runtime/debug"
	"strings"
	"sync"
	"time"

	"telepipe/internal/telegram"
	pkgmodels "telepipe/pkg/models"
)

const (
	StartText = "Send me a video or a file and I will save it to the media library."

	pollTimeout   = 30 * time.Second
	retryBackoff  = 3 * time.Second
	handleTimeout = 10 * time.Minute
	replyTimeout  = 30 * time.Second
)

// Platform is the subset of the chat platform the relay talks to.
type Platform interface {
	GetUpdates(ctx context.Context, offset int64, timeout time.Duration) ([]telegram.Update, error)
	GetFile(ctx context.Context, fileID string) (*telegram.File, error)
	DownloadFile(ctx context.Context, filePath string) ([]byte, error)
	SendMessage(ctx context.Context, chatID int64, text string, replyTo int64) error
}

type Uploader interface {
	Upload(ctx context.Context, in UploadRequest) (*pkgmodels.Video, error)
}

type Relay struct {
	Platform Platform
	Uploader Uploader

	wg sync.WaitGroup
}

func New(platform Platform, uploader Uploader) *Relay {
	return &Relay{Platform: platform, Uploader: uploader}
}

// Run long-polls the platform until ctx is cancelled, then waits for in-flight messages.
// Cancelling ctx stops polling only; messages already received are still forwarded and answered.
func (r *Relay) Run(ctx context.Context) error {
	defer r.wg.Wait()

	var offset int64
	for {
		updates, err := r.Platform.GetUpdates(ctx, offset, pollTimeout)
		if ctx.Err() != nil {
			return nil
		}
		if err != nil {
			log.Printf("Error polling updates: %v", err)
			select {
			case <-ctx.Done():
				return nil
			case <-time.After(retryBackoff):
			}
			continue
		}

		for _, update := range updates {
			if update.UpdateID >= offset {
				offset = update.UpdateID + 1
			}
			if update.Message == nil {
				continue
			}
			r.dispatch(ctx, update.Message)
		}
	}
}

// dispatch handles msg in its own goroutine so one message never blocks or crashes the loop.
func (r *Relay) dispatch(ctx context.Context, msg *telegram.Message) {
	r.wg.Add(1)
	go func() {
		defer r.wg.Done()

		handleCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), handleTimeout)
		defer cancel()

		defer func() {
			if p := recover(); p != nil {
				log.Printf("Panic handling message %d in chat %d: %v\n%s", msg.MessageID, msg.Chat.ID, p, debug.Stack())
				r.replyAfterPanic(ctx, msg)
			}
		}()
		if err := r.HandleMessage(handleCtx, msg); err != nil {
			log.Printf("Error handling message %d in chat %d: %v", msg.MessageID, msg.Chat.ID, err)
		}
	}()
}

func (r *Relay) replyAfterPanic(ctx context.Context, msg *telegram.Message) {
	replyCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), replyTimeout)
	defer cancel()
	if err := r.reply(replyCtx, msg, "Failed to save file: internal error"); err != nil {
		log.Printf("Error replying to message %d in chat %d: %v", msg.MessageID, msg.Chat.ID, err)
	}
}

// HandleMessage answers /start and forwards video or document attachments to the backend.
// Forwarding failures are reported to the user; only a failed reply is returned as an error.
func (r *Relay) HandleMessage(ctx context.Context, msg *telegram.Message) error {
	if isStartCommand(msg.Text) {
		return r.reply(ctx, msg, StartText)
	}

	att, ok := AttachmentFromMessage(msg)
	if !ok {
		return nil
	}

	video, err := r.forward(ctx, msg, att)
	if err != nil {
		log.Printf("Failed to forward %s from chat %d: %v", att.FileID(), msg.Chat.ID, err)
		return r.reply(ctx, msg, fmt.Sprintf("Failed to save file: %v", err))
	}

	log.Printf("Forwarded %s from chat %d as video %d", att.FileID(), msg.Chat.ID, video.ID)
	return r.reply(ctx, msg, fmt.Sprintf("Video saved! ID: %d", video.ID))
}

func (r *Relay) forward(ctx context.Context, msg *telegram.Message, att Attachment) (*pkgmodels.Video, error) {
	// file_path expires, so it is resolved again for every message.
	file, err := r.Platform.GetFile(ctx, att.FileID())
	if err != nil {
		return nil, fmt.Errorf("get file: %w", err)
	}
	data, err := r.Platform.DownloadFile(ctx, file.FilePath)
	if err != nil {
		return nil, fmt.Errorf("download file: %w", err)
	}

	filename := att.Filename()
	title := msg.Caption
	if title == "" {
		title = filename
	}

	return r.Uploader.Upload(ctx, UploadRequest{
		Data:     data,
		Filename: filename,
		MimeType: att.MimeType(),
		Title:    title,
	})
}

func (r *Relay) reply(ctx context.Context, msg *telegram.Message, text string) error {
	return r.Platform.SendMessage(ctx, msg.Chat.ID, text, msg.MessageID)
}

func isStartCommand(text string) bool {
	fields := strings.Fields(text)
	if len(fields) == 0 {
		return false
	}
	cmd, _, _ := strings.Cut(fields[0], "@")
	return cmd == "/start"
}
