// Package httpapi exposes the assistant over HTTP: a JSON send-message
// endpoint, a health check, and the WhatsApp Cloud API webhook pair
// (GET verification handshake, POST message delivery).
package httpapi

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/realvia/realvia/logging"
)

// MaxMessageLength caps inbound WhatsApp message bodies; longer texts get a
// canned "too long" reply instead of a model turn.
const MaxMessageLength = 2000

// Replier answers one inbound message. *realvia.Assistant satisfies it.
type Replier interface {
	Handle(ctx context.Context, conversationID, message string) (string, error)
}

// Options configures a Server.
type Options struct {
	// VerifyToken must match the token configured in the WhatsApp app for
	// the webhook handshake to succeed.
	VerifyToken string
	// Sender delivers outbound WhatsApp messages; defaults to a logging
	// stub so the server runs without Cloud API credentials.
	Sender Sender
	// Logger defaults to NoOp.
	Logger logging.Logger
}

// Server is the HTTP front of the assistant.
type Server struct {
	assistant   Replier
	verifyToken string
	sender      Sender
	logger      logging.Logger
	mux         *http.ServeMux
}

// NewServer wires the routes around the given assistant.
func NewServer(assistant Replier, optFns ...func(o *Options)) *Server {
	opts := Options{Logger: logging.NoOpLogger{}}
	for _, fn := range optFns {
		fn(&opts)
	}
	if opts.Sender == nil {
		opts.Sender = &LogSender{Logger: opts.Logger}
	}

	s := &Server{
		assistant:   assistant,
		verifyToken: opts.VerifyToken,
		sender:      opts.Sender,
		logger:      opts.Logger,
		mux:         http.NewServeMux(),
	}
	s.mux.HandleFunc("GET /api/health", s.handleHealth)
	s.mux.HandleFunc("POST /api/send-message", s.handleSendMessage)
	s.mux.HandleFunc("GET /api/whatsapp/webhook", s.handleWebhookVerify)
	s.mux.HandleFunc("POST /api/whatsapp/webhook", s.handleWebhookMessage)
	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

// Run serves on addr until ctx is cancelled, then drains with a short
// shutdown grace period.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		s.logger.Info("http server listening", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})
	return g.Wait()
}

// sendMessageRequest is the JSON body of POST /api/send-message.
type sendMessageRequest struct {
	Message string `json:"message"`
	ChatID  string `json:"chat_id"`
}

// statusResponse is the uniform JSON reply envelope.
type statusResponse struct {
	Status   string `json:"status"`
	Response string `json:"response,omitempty"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, statusResponse{Status: "success", Response: "The API is running"})
}

func (s *Server) handleSendMessage(w http.ResponseWriter, r *http.Request) {
	var req sendMessageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, statusResponse{Status: "error", Response: "invalid JSON body"})
		return
	}
	if req.Message == "" || req.ChatID == "" {
		writeJSON(w, http.StatusBadRequest, statusResponse{Status: "error", Response: "message and chat_id are required"})
		return
	}

	reply, err := s.assistant.Handle(r.Context(), req.ChatID, req.Message)
	if err != nil {
		s.logger.Error("send-message turn failed", "chat_id", req.ChatID, "error", err)
		writeJSON(w, http.StatusInternalServerError, statusResponse{Status: "error", Response: "internal error"})
		return
	}
	writeJSON(w, http.StatusOK, statusResponse{Status: "success", Response: reply})
}

// handleWebhookVerify answers the WhatsApp subscription handshake by echoing
// hub.challenge when the verify token matches.
func (s *Server) handleWebhookVerify(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	if q.Get("hub.mode") == "subscribe" && q.Get("hub.verify_token") == s.verifyToken && s.verifyToken != "" {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(q.Get("hub.challenge")))
		return
	}
	http.Error(w, "Verification failed", http.StatusForbidden)
}

func (s *Server) handleWebhookMessage(w http.ResponseWriter, r *http.Request) {
	var payload webhookPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeJSON(w, http.StatusBadRequest, statusResponse{Status: "error", Response: "invalid JSON body"})
		return
	}

	// Status updates and other non-message notifications are acknowledged
	// and dropped.
	from, text, ok := payload.firstTextMessage()
	if !ok {
		writeJSON(w, http.StatusOK, statusResponse{Status: "received"})
		return
	}

	if len(text) > MaxMessageLength {
		if err := s.sender.SendText(r.Context(), from, "Your message is too long. Please send a shorter message."); err != nil {
			s.logger.Error("sending length warning failed", "to", from, "error", err)
		}
		writeJSON(w, http.StatusOK, statusResponse{Status: "received"})
		return
	}

	reply, err := s.assistant.Handle(r.Context(), from, text)
	if err != nil {
		s.logger.Error("webhook turn failed", "from", from, "error", err)
		writeJSON(w, http.StatusOK, statusResponse{Status: "received"})
		return
	}
	if err := s.sender.SendText(r.Context(), from, reply); err != nil {
		s.logger.Error("sending reply failed", "to", from, "error", err)
	}
	writeJSON(w, http.StatusOK, statusResponse{Status: "received"})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
