package telegram

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"telepipe/internal/config"

	"golang.org/x/time/rate"
)

// Telegram allows bots roughly 30 outgoing messages per second overall.
const sendRatePerSecond = 30

// APIError is a Bot API reply with ok=false.
type APIError struct {
	Code        int
	Description string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("telegram API error %d: %s", e.Code, e.Description)
}

type Client struct {
	token      string
	apiURL     string
	httpClient *http.Client
	limiter    *rate.Limiter
}

func NewClient(cfg *config.Config) *Client {
	return &Client{
		token:  cfg.TelegramBotToken,
		apiURL: cfg.TelegramAPIURL,
		// Must outlive the getUpdates long-poll and large file downloads.
		httpClient: &http.Client{Timeout: 2 * time.Minute},
		limiter:    rate.NewLimiter(rate.Limit(sendRatePerSecond), sendRatePerSecond),
	}
}

// --- Helper Functions ---

func (c *Client) methodURL(method string) string {
	return fmt.Sprintf("%s/bot%s/%s", c.apiURL, c.token, method)
}

// call invokes a Bot API method with a JSON body and decodes its result into out.
func (c *Client) call(ctx context.Context, method string, body interface{}, out interface{}) error {
	var bodyReader io.Reader
	if body != nil {
		jsonData, err := json.Marshal(body)
		if err != nil {
			return err
		}
		bodyReader = bytes.NewBuffer(jsonData)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.methodURL(method), bodyReader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return c.redact(err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}

	var envelope apiResponse
	if err := json.Unmarshal(respBody, &envelope); err != nil {
		return fmt.Errorf("%s: decode response (%s): %w", method, resp.Status, err)
	}
	if !envelope.OK {
		code := envelope.ErrorCode
		if code == 0 {
			code = resp.StatusCode
		}
		return &APIError{Code: code, Description: envelope.Description}
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(envelope.Result, out); err != nil {
		return fmt.Errorf("%s: decode result: %w", method, err)
	}
	return nil
}

// redact strips the bot token from transport errors, which embed the request URL.
func (c *Client) redact(err error) error {
	if c.token == "" {
		return err
	}
	return fmt.Errorf("%s", strings.ReplaceAll(err.Error(), c.token, "<token>"))
}

// --- Updates ---

// GetUpdates long-polls for new messages starting at offset.
func (c *Client) GetUpdates(ctx context.Context, offset int64, timeout time.Duration) ([]Update, error) {
	req := getUpdatesRequest{
		Offset:         offset,
		Timeout:        int(timeout / time.Second),
		AllowedUpdates: []string{"message"},
	}
	var updates []Update
	if err := c.call(ctx, "getUpdates", req, &updates); err != nil {
		return nil, err
	}
	return updates, nil
}

// --- File Methods ---

func (c *Client) GetFile(ctx context.Context, fileID string) (*File, error) {
	var file File
	if err := c.call(ctx, "getFile", map[string]string{"file_id": fileID}, &file); err != nil {
		return nil, err
	}
	if file.FilePath == "" {
		return nil, fmt.Errorf("getFile: no file_path for %s", fileID)
	}
	return &file, nil
}

// DownloadFile fetches the bytes behind a file_path returned by GetFile.
func (c *Client) DownloadFile(ctx context.Context, filePath string) ([]byte, error) {
	escaped := (&url.URL{Path: filePath}).EscapedPath()
	fileURL := fmt.Sprintf("%s/file/bot%s/%s", c.apiURL, c.token, strings.TrimPrefix(escaped, "/"))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fileURL, nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, c.redact(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return nil, fmt.Errorf("download failed: %s", resp.Status)
	}

	return io.ReadAll(resp.Body)
}

// --- Messaging Methods ---

// SendMessage sends text to a chat, replying to replyTo when it is non-zero.
func (c *Client) SendMessage(ctx context.Context, chatID int64, text string, replyTo int64) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limiter error: %w", err)
	}

	req := sendMessageRequest{ChatID: chatID, Text: text}
	if replyTo != 0 {
		req.ReplyParameters = &replyParameters{MessageID: replyTo, AllowSendingWithoutReply: true}
	}
	return c.call(ctx, "sendMessage", req, nil)
}
