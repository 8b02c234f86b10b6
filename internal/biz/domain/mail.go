package domain

import (
	"encoding/json"
)

// MailKind is the discriminator of a send-mail request
type MailKind string

const (
	MailKindForm MailKind = "form"
	MailKindChat MailKind = "chat"
)

// MailRequest is a send-mail request variant: *FormSubmission or *ChatTranscript
type MailRequest interface {
	Kind() MailKind
	Validate() error
}

// FormSubmission is a contact form post
type FormSubmission struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Phone   string `json:"phone"`
	Message string `json:"message"`
}

func (*FormSubmission) Kind() MailKind { return MailKindForm }

// UnmarshalJSON reads the form fields; a field that is not a string is empty.
func (f *FormSubmission) UnmarshalJSON(data []byte) error {
	fields := rawFields(data)
	*f = FormSubmission{
		Name:    looseString(fields["name"]),
		Email:   looseString(fields["email"]),
		Phone:   looseString(fields["phone"]),
		Message: looseString(fields["message"]),
	}
	return nil
}

// Validate requires name and email
func (f *FormSubmission) Validate() error {
	if f.Name == "" || f.Email == "" {
		return &ValidationError{Message: MsgFormFieldsRequired}
	}
	return nil
}

// ChatTranscript is a finished widget conversation to be emailed
type ChatTranscript struct {
	VisitorName  string       `json:"visitorName"`
	VisitorEmail string       `json:"visitorEmail"`
	VisitorPhone string       `json:"visitorPhone"`
	StartTime    string       `json:"startTime"`
	EndTime      string       `json:"endTime"`
	Messages     ChatMessages `json:"messages"`
}

func (*ChatTranscript) Kind() MailKind { return MailKindChat }

// UnmarshalJSON reads the transcript. Visitor fields that are not strings are
// empty and a messages value that is not a list leaves the transcript empty.
func (c *ChatTranscript) UnmarshalJSON(data []byte) error {
	fields := rawFields(data)
	*c = ChatTranscript{
		VisitorName:  looseString(fields["visitorName"]),
		VisitorEmail: looseString(fields["visitorEmail"]),
		VisitorPhone: looseString(fields["visitorPhone"]),
		StartTime:    looseString(fields["startTime"]),
		EndTime:      looseString(fields["endTime"]),
	}
	if raw, ok := fields["messages"]; ok {
		if err := json.Unmarshal(raw, &c.Messages); err != nil {
			return err
		}
	}
	return nil
}

// Validate requires at least one message
func (c *ChatTranscript) Validate() error {
	if len(c.Messages) == 0 {
		return &ValidationError{Message: MsgTranscriptEmpty}
	}
	return nil
}

// OutboundEmail is the payload handed to the email gateway
type OutboundEmail struct {
	From    string   `json:"from"`
	To      []string `json:"to"`
	Subject string   `json:"subject"`
	HTML    string   `json:"html"`
}

// rawFields splits a JSON object into its members. Anything other than an
// object yields no members.
func rawFields(data []byte) map[string]json.RawMessage {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return nil
	}
	return fields
}

// DecodeMailRequest decodes a send-mail body into its variant.
// A missing type and an unknown type are distinct validation errors.
func DecodeMailRequest(body []byte) (MailRequest, error) {
	if !json.Valid(body) {
		return nil, ErrInvalidPayload
	}

	fields := rawFields(body)
	rawType, ok := fields["type"]
	if !ok || string(rawType) == "null" {
		return nil, &ValidationError{Message: MsgMissingMailType}
	}

	var kind string
	if err := json.Unmarshal(rawType, &kind); err != nil {
		return nil, &ValidationError{Message: MsgInvalidMailType}
	}
	if kind == "" {
		return nil, &ValidationError{Message: MsgMissingMailType}
	}

	var req MailRequest
	switch MailKind(kind) {
	case MailKindForm:
		req = &FormSubmission{}
	case MailKindChat:
		req = &ChatTranscript{}
	default:
		return nil, &ValidationError{Message: MsgInvalidMailType}
	}

	if err := json.Unmarshal(body, req); err != nil {
		return nil, asValidation(err)
	}
	return req, nil
}
