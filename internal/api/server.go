package api

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/rv2ven/rv2-relay/internal/biz/domain"
)

// MailSender sends form and transcript emails
type MailSender interface {
	Send(ctx context.Context, req domain.MailRequest) (string, error)
}

// ChatReplier answers a visitor conversation
type ChatReplier interface {
	Reply(ctx context.Context, req *domain.ChatProxyRequest) (*domain.ChatReply, error)
}

// Server is the public HTTP relay
type Server struct {
	mail   MailSender
	chat   ChatReplier
	logger *zap.Logger

	server *http.Server
	port   int
}

// NewServer creates a new relay server
func NewServer(mail MailSender, chat ChatReplier, logger *zap.Logger, port int) *Server {
	s := &Server{
		mail:   mail,
		chat:   chat,
		logger: logger.Named("api"),
		port:   port,
	}
	s.server = &http.Server{
		Addr:              fmt.Sprintf(":%d", port),
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s
}

// Handler returns the routed handler with middleware applied. Paths match
// exactly and are never cleaned or redirected.
func (s *Server) Handler() http.Handler {
	metricsHandler := promhttp.Handler()

	routes := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/send-mail":
			s.handleSendMail(w, r)
		case "/api/chat":
			s.handleChat(w, r)
		case "/health":
			s.handleHealth(w, r)
		case "/metrics":
			if r.Method != http.MethodGet {
				s.handleNotFound(w, r)
				return
			}
			metricsHandler.ServeHTTP(w, r)
		default:
			s.handleNotFound(w, r)
		}
	})

	return s.withRequestID(s.withAccessLog(s.withRecover(withCORSPreflight(routes))))
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		s.handleNotFound(w, r)
		return
	}
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("ok"))
}

// Start listens on the configured port and blocks until shutdown
func (s *Server) Start() error {
	s.logger.Info("relay listening", zap.Int("port", s.port))
	return s.server.ListenAndServe()
}

// Serve accepts connections on ln and blocks until shutdown
func (s *Server) Serve(ln net.Listener) error {
	s.logger.Info("relay listening", zap.String("addr", ln.Addr().String()))
	return s.server.Serve(ln)
}

// Shutdown stops accepting connections and waits for in-flight requests
func (s *Server) Shutdown(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}

// GetPort returns the server port
func (s *Server) GetPort() int {
	return s.port
}
