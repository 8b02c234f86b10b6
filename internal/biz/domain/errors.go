package domain

import (
	"errors"
	"fmt"
)

// Client-facing messages. The site's widgets match on some of these.
const (
	MsgMissingMailType    = "Missing email type."
	MsgInvalidMailType    = "Tipo de solicitud no válido."
	MsgNoRecipients       = "No recipients configured."
	MsgFormFieldsRequired = "Nombre y correo son obligatorios."
	MsgTranscriptEmpty    = "No hay mensajes para enviar."
	MsgChatEmpty          = "Debes enviar al menos un mensaje."
	MsgFormSent           = "Correo enviado correctamente."
	MsgTranscriptSent     = "Transcripción enviada."
)

var (
	// ErrInvalidPayload means the request body is not valid JSON
	ErrInvalidPayload = errors.New("Invalid JSON payload")

	// ErrEmptyModelOutput means the chat provider answered without usable text
	ErrEmptyModelOutput = errors.New("La respuesta de Gemini no contenía texto utilizable.")
)

// ValidationError is a client mistake detected before any outbound call
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// MisconfiguredError is a server-side setting missing at request time
type MisconfiguredError struct {
	Setting string
	Message string
}

func (e *MisconfiguredError) Error() string {
	return e.Message
}

// NotConfigured builds the error for a missing key setting
func NotConfigured(setting string) *MisconfiguredError {
	return &MisconfiguredError{Setting: setting, Message: setting + " is not configured."}
}

// GatewayError is a non-2xx answer from an external API
type GatewayError struct {
	Provider   string
	StatusCode int
	Body       string
}

func (e *GatewayError) Error() string {
	return fmt.Sprintf("%s API error (%d): %s", e.Provider, e.StatusCode, e.Body)
}

func asValidation(err error) error {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve
	}
	return &ValidationError{Message: err.Error()}
}
