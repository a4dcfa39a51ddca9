package sender

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
)

// FileSender writes each message as an .eml file instead of sending it.
type FileSender struct {
	dir  string
	from string
}

func NewFileSender(dir, from string) (*FileSender, error) {
	if dir == "" {
		return nil, fmt.Errorf("file location not set")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create %s: %w", dir, err)
	}
	return &FileSender{dir: dir, from: from}, nil
}

func (s *FileSender) SendEmail(_ context.Context, to, subject, body string) (SendResult, error) {
	now := time.Now()
	id := uuid.NewString()
	path := filepath.Join(s.dir, fmt.Sprintf("%s-%s.eml", now.UTC().Format("20060102T150405"), id))

	if err := os.WriteFile(path, buildMessage(s.from, to, subject, body), 0o644); err != nil {
		return SendResult{}, fmt.Errorf("write %s: %w", path, err)
	}
	return SendResult{MessageID: path, SentAt: now, Channel: "file"}, nil
}
