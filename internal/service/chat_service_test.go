package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type failingResponder struct{}

func (failingResponder) Reply(context.Context, string, string) (string, error) {
	return "", errors.New("workflow unavailable")
}

func TestChatServiceMessage(t *testing.T) {
	svc := NewChatService(nil, []string{".pdf"}, nil)

	reply, err := svc.Message(context.Background(), "user-1", "hello")
	require.NoError(t, err)
	assert.Equal(t, "You said: hello", reply.Text)

	_, err = svc.Message(context.Background(), "user-1", " ")
	assert.Equal(t, "VALIDATION_FAILED", domainCode(t, err))
	_, err = svc.Message(context.Background(), "", "hello")
	assert.Equal(t, "VALIDATION_FAILED", domainCode(t, err))

	_, err = NewChatService(failingResponder{}, nil, nil).Message(context.Background(), "user-1", "hello")
	assert.Equal(t, "INTERNAL_ERROR", domainCode(t, err))
}

func TestChatServiceUpload(t *testing.T) {
	svc := NewChatService(nil, []string{".pdf", ".docx", ".txt"}, nil)

	file, err := svc.Upload(context.Background(), "user-1", "Report.PDF", 1024)
	require.NoError(t, err)
	assert.Equal(t, "Report.PDF", file.Name)
	assert.NotEmpty(t, file.ID)

	_, err = svc.Upload(context.Background(), "user-1", "script.sh", 10)
	assert.Equal(t, "VALIDATION_FAILED", domainCode(t, err))
}
