package service

import "context"

// MailService is the outbound notification boundary. Delivery is owned by an
// external sender; implementations must never be handed the raw password.
type MailService interface {
	SendPasswordReset(ctx context.Context, to, token string) error
}
