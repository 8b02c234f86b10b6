package repo

import (
	"context"
	"encoding/json"

	"github.com/rv2ven/rv2-relay/internal/biz/domain"
)

// MailRepo is the email gateway interface
type MailRepo interface {
	// Send delivers one email and returns the provider's JSON answer.
	// Non-2xx answers are returned as *domain.GatewayError.
	Send(ctx context.Context, email domain.OutboundEmail) (json.RawMessage, error)
}
