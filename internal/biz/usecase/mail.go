package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/rv2ven/rv2-relay/internal/biz/domain"
	"github.com/rv2ven/rv2-relay/internal/biz/repo"
)

// MailSettings holds sender and recipient configuration for outgoing mail
type MailSettings struct {
	FormFrom   string
	ChatFrom   string
	Recipients []string
	KeyName    string // reported when the gateway is not configured
	Location   *time.Location
}

// MailUsecase turns send-mail requests into one outbound email each
type MailUsecase struct {
	mailRepo repo.MailRepo
	settings MailSettings
	now      func() time.Time
}

// NewMailUsecase creates a new mail usecase. mailRepo may be nil when no
// email gateway key is configured; Send then fails without calling out.
func NewMailUsecase(mailRepo repo.MailRepo, settings MailSettings) *MailUsecase {
	if settings.Location == nil {
		settings.Location = time.UTC
	}
	if settings.KeyName == "" {
		settings.KeyName = "RESEND_API_KEY"
	}
	return &MailUsecase{
		mailRepo: mailRepo,
		settings: settings,
		now:      time.Now,
	}
}

// Send validates req, builds its email and hands it to the gateway once.
// It returns the client-facing success message.
func (uc *MailUsecase) Send(ctx context.Context, req domain.MailRequest) (string, error) {
	if len(uc.settings.Recipients) == 0 {
		return "", &domain.MisconfiguredError{Setting: "RESEND_RECIPIENTS", Message: domain.MsgNoRecipients}
	}

	if err := req.Validate(); err != nil {
		return "", err
	}

	if uc.mailRepo == nil {
		return "", domain.NotConfigured(uc.settings.KeyName)
	}

	email, okMsg, err := uc.build(req)
	if err != nil {
		return "", fmt.Errorf("build %s email: %w", req.Kind(), err)
	}

	if _, err := uc.mailRepo.Send(ctx, email); err != nil {
		return "", fmt.Errorf("send %s email: %w", req.Kind(), err)
	}
	return okMsg, nil
}

func (uc *MailUsecase) build(req domain.MailRequest) (domain.OutboundEmail, string, error) {
	recipients := append([]string(nil), uc.settings.Recipients...)

	switch r := req.(type) {
	case *domain.FormSubmission:
		email, err := BuildFormEmail(r, uc.settings.FormFrom, recipients, uc.now().In(uc.settings.Location))
		return email, domain.MsgFormSent, err
	case *domain.ChatTranscript:
		email, err := BuildTranscriptEmail(r, uc.settings.ChatFrom, recipients)
		return email, domain.MsgTranscriptSent, err
	default:
		return domain.OutboundEmail{}, "", fmt.Errorf("unsupported mail request %T", req)
	}
}
