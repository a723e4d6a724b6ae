package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/spec-kit/chat-portal/internal/credentials"
	"github.com/spec-kit/chat-portal/internal/domain"
)

var (
	ErrEmptyMessage   = errors.New("message cannot be empty")
	ErrMissingSession = errors.New("session id cannot be empty")
	ErrEmptyFile      = errors.New("file cannot be empty")
)

// UnsupportedFileError rejects an upload by extension before it is sent.
type UnsupportedFileError struct {
	Name    string
	Allowed []string
}

func (e *UnsupportedFileError) Error() string {
	return fmt.Sprintf("file %q is not allowed, use one of: %s", e.Name, strings.Join(e.Allowed, ", "))
}

// ChatRequest is the body of POST /n8n/message.
type ChatRequest struct {
	ChatInput string `json:"chatInput"`
	SessionID string `json:"sessionId"`
}

// SendMessage forwards a chat message through the hard-logout path.
func (c *Client) SendMessage(ctx context.Context, store credentials.Store, message, sessionID string) (*domain.ChatReply, error) {
	if strings.TrimSpace(message) == "" {
		return nil, ErrEmptyMessage
	}
	if strings.TrimSpace(sessionID) == "" {
		return nil, ErrMissingSession
	}

	raw, err := json.Marshal(ChatRequest{ChatInput: message, SessionID: sessionID})
	if err != nil {
		return nil, fmt.Errorf("encode chat message: %w", err)
	}
	req, err := c.NewRequest(ctx, http.MethodPost, "/n8n/message", bytes.NewReader(raw))
	if err != nil {
		return nil, err
	}
	req.Header.Set(headerContentType, mimeJSON)
	req.Header.Set(headerAccept, mimeJSON)

	resp, err := c.DoAuthenticated(store, req, "/n8n/message")
	if err != nil {
		return nil, err
	}
	payload, err := strictResponse(resp)
	if err != nil {
		return nil, err
	}

	reply := &domain.ChatReply{}
	if err := payload.Decode(reply); err != nil {
		return nil, fmt.Errorf("decode chat reply: %w", err)
	}
	return reply, nil
}

// AllowedUpload reports whether name carries one of the configured suffixes.
func (c *Client) AllowedUpload(name string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	for _, allowed := range c.uploadSuffixes {
		if ext == allowed {
			return true
		}
	}
	return false
}

// UploadFile posts content as the multipart field "file". The multipart
// writer sets Content-Type with its boundary.
func (c *Client) UploadFile(ctx context.Context, store credentials.Store, name string, content io.Reader) (*Payload, error) {
	if content == nil || strings.TrimSpace(name) == "" {
		return nil, ErrEmptyFile
	}
	if !c.AllowedUpload(name) {
		return nil, &UnsupportedFileError{Name: name, Allowed: c.uploadSuffixes}
	}

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	part, err := writer.CreateFormFile("file", filepath.Base(name))
	if err != nil {
		return nil, fmt.Errorf("create form file: %w", err)
	}
	if _, err := io.Copy(part, content); err != nil {
		return nil, fmt.Errorf("copy file: %w", err)
	}
	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("close multipart writer: %w", err)
	}

	req, err := c.NewRequest(ctx, http.MethodPost, "/n8n/file", &buf)
	if err != nil {
		return nil, err
	}
	header := AuthHeader(store, c.logger)
	header.Del(headerContentType)
	copyHeader(req.Header, header)
	req.Header.Set(headerContentType, writer.FormDataContentType())

	resp, err := c.DoAuthenticated(store, req, "/n8n/file")
	if err != nil {
		return nil, err
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		defer resp.Body.Close()
		text, _ := io.ReadAll(resp.Body)
		return nil, &Error{
			Status: resp.StatusCode,
			Message: fmt.Sprintf("file upload failed: %d %s - %s",
				resp.StatusCode, http.StatusText(resp.StatusCode), strings.TrimSpace(string(text))),
		}
	}
	return HandleResponse(resp)
}
