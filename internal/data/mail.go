package data

import (
	"context"
	"encoding/json"
	"time"

	"go.uber.org/zap"

	"github.com/rv2ven/rv2-relay/internal/biz/domain"
	"github.com/rv2ven/rv2-relay/internal/biz/repo"
	"github.com/rv2ven/rv2-relay/internal/infra/resend"
	"github.com/rv2ven/rv2-relay/internal/logger"
	"github.com/rv2ven/rv2-relay/internal/metrics"
)

type emailSender interface {
	SendEmail(ctx context.Context, email domain.OutboundEmail) (json.RawMessage, error)
}

// resendRepo implements the mail repository on Resend
type resendRepo struct {
	client emailSender
	logger *zap.Logger
}

// NewResendRepo creates a Resend mail repository
func NewResendRepo(client *resend.Client, logger *zap.Logger) repo.MailRepo {
	if client == nil {
		return nil
	}
	return &resendRepo{client: client, logger: logger}
}

func (r *resendRepo) Send(ctx context.Context, email domain.OutboundEmail) (json.RawMessage, error) {
	start := time.Now()
	data, err := r.client.SendEmail(ctx, email)
	elapsed := time.Since(start)
	metrics.RecordGatewayCall("resend", err, elapsed)

	log := logger.FromContext(ctx, r.logger).With(
		zap.String("subject", email.Subject),
		zap.Int("recipients", len(email.To)),
		zap.Duration("elapsed", elapsed),
	)
	if err != nil {
		log.Error("resend send failed", zap.Error(err))
		return nil, err
	}
	log.Info("email sent")
	return data, nil
}
