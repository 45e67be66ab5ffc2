package impl

import (
	"context"
	"log/slog"
)

// LogMailService stands in for the real outbound sender. It records that a
// reset notification was dispatched without logging the token itself.
type LogMailService struct{}

func NewLogMailService() *LogMailService { return &LogMailService{} }

func (m *LogMailService) SendPasswordReset(ctx context.Context, to, token string) error {
	slog.Info("password reset notification dispatched", "to", to)
	return nil
}
