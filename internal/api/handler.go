package api

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"go.uber.org/zap"

	"github.com/rv2ven/rv2-relay/internal/biz/domain"
	"github.com/rv2ven/rv2-relay/internal/logger"
)

const (
	maxBodyBytes = 1 << 20

	msgRouteNotFound   = "Route not found."
	msgInternal        = "Error interno del servidor."
	msgChatGateway     = "Error al conectar con Gemini."
	msgPayloadTooLarge = "Payload too large."
)

// CORS headers sent with every JSON response and preflight
var corsHeaders = map[string]string{
	"Access-Control-Allow-Origin":  "*",
	"Access-Control-Allow-Headers": "authorization, x-client-info, apikey, content-type",
	"Access-Control-Allow-Methods": "OPTIONS, POST",
}

type envelope struct {
	Success bool    `json:"success"`
	Message string  `json:"message"`
	Error   *string `json:"error,omitempty"`
}

type chatEnvelope struct {
	Success      bool    `json:"success"`
	Message      string  `json:"message"`
	FinishReason *string `json:"finishReason"`
}

// ============ Mail ============

func (s *Server) handleSendMail(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		s.handleNotFound(w, r)
		return
	}

	body, ok := s.readBody(w, r)
	if !ok {
		return
	}

	req, err := domain.DecodeMailRequest(body)
	if err == nil {
		var msg string
		msg, err = s.mail.Send(r.Context(), req)
		if err == nil {
			writeJSON(w, http.StatusOK, envelope{Success: true, Message: msg})
			return
		}
	}

	var (
		ve *domain.ValidationError
		me *domain.MisconfiguredError
	)
	switch {
	case errors.As(err, &ve):
		writeJSON(w, http.StatusBadRequest, envelope{Message: ve.Message})
	case errors.As(err, &me):
		logger.FromContext(r.Context(), s.logger).Error("mail relay misconfigured", zap.String("setting", me.Setting))
		writeJSON(w, http.StatusInternalServerError, envelope{Message: me.Message})
	default:
		s.writeInternal(w, r, err)
	}
}

// ============ Chat ============

func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		s.handleNotFound(w, r)
		return
	}

	body, ok := s.readBody(w, r)
	if !ok {
		return
	}

	req, err := domain.DecodeChatProxyRequest(body)
	if err == nil {
		var reply *domain.ChatReply
		reply, err = s.chat.Reply(r.Context(), req)
		if err == nil {
			resp := chatEnvelope{Success: true, Message: reply.Text}
			if reply.FinishReason != "" {
				resp.FinishReason = &reply.FinishReason
			}
			writeJSON(w, http.StatusOK, resp)
			return
		}
	}

	var (
		ve    *domain.ValidationError
		me    *domain.MisconfiguredError
		gwErr *domain.GatewayError
	)
	switch {
	case errors.As(err, &ve):
		writeJSON(w, http.StatusBadRequest, envelope{Message: ve.Message})
	case errors.As(err, &me):
		logger.FromContext(r.Context(), s.logger).Error("chat relay misconfigured", zap.String("setting", me.Setting))
		writeJSON(w, http.StatusInternalServerError, envelope{Message: me.Message})
	case errors.As(err, &gwErr):
		status := gwErr.StatusCode
		if status < 400 || status > 599 {
			status = http.StatusInternalServerError
		}
		writeJSON(w, status, envelope{Message: msgChatGateway, Error: &gwErr.Body})
	case errors.Is(err, domain.ErrEmptyModelOutput):
		writeJSON(w, http.StatusBadGateway, envelope{Message: err.Error()})
	default:
		s.writeInternal(w, r, err)
	}
}

// ============ Helpers ============

func (s *Server) handleNotFound(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusNotFound, envelope{Message: msgRouteNotFound})
}

// readBody reads the whole body. An empty body reads as {}.
func (s *Server) readBody(w http.ResponseWriter, r *http.Request) ([]byte, bool) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeJSON(w, http.StatusRequestEntityTooLarge, envelope{Message: msgPayloadTooLarge})
			return nil, false
		}
		s.writeInternal(w, r, err)
		return nil, false
	}

	if len(body) == 0 {
		return []byte("{}"), true
	}
	// Malformed JSON is reported like any other internal failure
	if !json.Valid(body) {
		s.writeInternal(w, r, domain.ErrInvalidPayload)
		return nil, false
	}
	return body, true
}

func (s *Server) writeInternal(w http.ResponseWriter, r *http.Request, err error) {
	logger.FromContext(r.Context(), s.logger).Error("request failed", zap.String("path", r.URL.Path), zap.Error(err))

	// The gateway text is reported without our wrapping
	text := err.Error()
	var gwErr *domain.GatewayError
	if errors.As(err, &gwErr) {
		text = gwErr.Error()
	}
	writeJSON(w, http.StatusInternalServerError, envelope{Message: msgInternal, Error: &text})
}

func setCORSHeaders(h http.Header) {
	for k, v := range corsHeaders {
		h.Set(k, v)
	}
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	setCORSHeaders(w.Header())
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}
