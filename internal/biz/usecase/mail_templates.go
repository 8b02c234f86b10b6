package usecase

import (
	"html/template"
	"strings"
	"time"

	"github.com/rv2ven/rv2-relay/internal/biz/domain"
)

// Placeholders for missing optional fields
const (
	placeholderNotProvided = "No proporcionado"
	placeholderNoMessage   = "Sin mensaje adicional"
	placeholderAnonymous   = "Anónimo"
	placeholderVisitor     = "Visitante Anónimo"
	placeholderNoTime      = "No registrada"
	placeholderEmptyMsg    = "[mensaje vacío]"

	labelUser      = "👤 Usuario:"
	labelAssistant = "🤖 IA:"

	formSubject       = "Nuevo mensaje desde el formulario web RV2"
	transcriptSubject = "Transcripción de chat - "
)

// html/template escapes every interpolated value.
var formTemplate = template.Must(template.New("form").Parse(`
<h2>Nuevo mensaje desde el formulario RV2</h2>
<p><strong>Nombre:</strong> {{.Name}}</p>
<p><strong>Correo:</strong> {{.Email}}</p>
<p><strong>Teléfono:</strong> {{.Phone}}</p>
<p><strong>Mensaje:</strong><br>{{.Message}}</p>
<hr>
<small>Enviado el {{.SentAt}}</small>
`))

var transcriptTemplate = template.Must(template.New("transcript").Parse(`
<h2>Transcripción de chat – RV2 Web</h2>
<p><strong>Visitante:</strong> {{.VisitorName}}</p>
<p><strong>Correo:</strong> {{.VisitorEmail}}</p>
<p><strong>Teléfono:</strong> {{.VisitorPhone}}</p>
<p><strong>Hora de inicio:</strong> {{.StartTime}}</p>
<p><strong>Hora de fin:</strong> {{.EndTime}}</p>
<hr>
{{range .Messages}}<p><strong>{{.Label}}</strong> {{.Content}}</p>
{{end}}<hr>
<small>Enviado automáticamente desde el chat RV2.</small>
`))

type formView struct {
	Name    string
	Email   string
	Phone   string
	Message string
	SentAt  string
}

type transcriptLine struct {
	Label   string
	Content string
}

type transcriptView struct {
	VisitorName  string
	VisitorEmail string
	VisitorPhone string
	StartTime    string
	EndTime      string
	Messages     []transcriptLine
}

// BuildFormEmail renders a contact form submission
func BuildFormEmail(f *domain.FormSubmission, from string, to []string, sentAt time.Time) (domain.OutboundEmail, error) {
	view := formView{
		Name:    f.Name,
		Email:   f.Email,
		Phone:   orPlaceholder(f.Phone, placeholderNotProvided),
		Message: orPlaceholder(f.Message, placeholderNoMessage),
		SentAt:  FormatLocalTime(sentAt),
	}

	var sb strings.Builder
	if err := formTemplate.Execute(&sb, view); err != nil {
		return domain.OutboundEmail{}, err
	}

	return domain.OutboundEmail{
		From:    from,
		To:      to,
		Subject: formSubject,
		HTML:    sb.String(),
	}, nil
}

// BuildTranscriptEmail renders a chat transcript
func BuildTranscriptEmail(c *domain.ChatTranscript, from string, to []string) (domain.OutboundEmail, error) {
	lines := make([]transcriptLine, 0, len(c.Messages))
	for _, m := range c.Messages {
		label := labelAssistant
		if m.Role == domain.RoleUser {
			label = labelUser
		}
		content := m.Content
		if !m.HasContent() {
			content = placeholderEmptyMsg
		}
		lines = append(lines, transcriptLine{Label: label, Content: content})
	}

	view := transcriptView{
		VisitorName:  orPlaceholder(c.VisitorName, placeholderAnonymous),
		VisitorEmail: orPlaceholder(c.VisitorEmail, placeholderNotProvided),
		VisitorPhone: orPlaceholder(c.VisitorPhone, placeholderNotProvided),
		StartTime:    orPlaceholder(c.StartTime, placeholderNoTime),
		EndTime:      orPlaceholder(c.EndTime, placeholderNoTime),
		Messages:     lines,
	}

	var sb strings.Builder
	if err := transcriptTemplate.Execute(&sb, view); err != nil {
		return domain.OutboundEmail{}, err
	}

	return domain.OutboundEmail{
		From:    from,
		To:      to,
		Subject: transcriptSubject + orPlaceholder(c.VisitorName, placeholderVisitor),
		HTML:    sb.String(),
	}, nil
}

// FormatLocalTime formats t the way es-VE locales print a date and time,
// e.g. "14/10/2026, 3:04:05 p. m.". t should already be in the target zone.
func FormatLocalTime(t time.Time) string {
	suffix := "a. m."
	if t.Hour() >= 12 {
		suffix = "p. m."
	}
	return t.Format("2/1/2006, 3:04:05") + " " + suffix
}

func orPlaceholder(val, placeholder string) string {
	if val == "" {
		return placeholder
	}
	return val
}
