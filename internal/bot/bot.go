package bot

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
)

const errorReplyText = "Sorry, I encountered an error processing your message."

// Answerer is the pipeline entry point the bot forwards questions to.
type Answerer interface {
	Answer(ctx context.Context, question, userIdentity string) (string, error)
}

// Service is the webhook the Bot Framework channel calls with user messages.
type Service struct {
	answerer  Answerer
	connector *Connector
}

func NewService(answerer Answerer) *Service {
	return &Service{answerer: answerer, connector: NewConnector()}
}

func (s *Service) AddRoutes(r chi.Router) {
	r.Post("/api/messages", s.Messages)
}

// Messages handles one inbound activity. The channel expects a 200 promptly;
// the answer is delivered out-of-band through the connector.
func (s *Service) Messages(w http.ResponseWriter, r *http.Request) {
	var activity Activity
	if err := json.NewDecoder(r.Body).Decode(&activity); err != nil {
		slog.Error("error parsing bot activity", "error", err)
		http.Error(w, "unable to parse activity", http.StatusBadRequest)
		return
	}

	if activity.Type != activityTypeMessage {
		w.WriteHeader(http.StatusOK)
		return
	}

	// The Bot Framework Emulator emits /INSPECT system messages.
	if strings.HasPrefix(activity.Text, "/INSPECT") {
		slog.Info("ignoring system message", "text", activity.Text)
		w.WriteHeader(http.StatusOK)
		return
	}

	identity := activity.userIdentity()
	slog.Info("received bot message", "user", identity)

	answer, err := s.answerer.Answer(r.Context(), activity.Text, identity)
	if err != nil {
		answer = errorReplyText
	}

	if err := s.connector.SendReply(r.Context(), activity.reply(answer)); err != nil {
		slog.Error("error sending bot reply", "user", identity, "error", err)
		http.Error(w, "failed to deliver reply", http.StatusBadGateway)
		return
	}

	w.WriteHeader(http.StatusOK)
}
