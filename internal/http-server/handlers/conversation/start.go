package conversation

import (
	"errors"
	"io"
	"log/slog"
	"net/http"

	"ShopBot/internal/lib/api/response"
	"ShopBot/internal/lib/sl"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"
)

type StartRequest struct {
	ConversationID string `json:"conversation_id,omitempty"`
}

func (s *StartRequest) Bind(_ *http.Request) error {
	return nil
}

func Start(log *slog.Logger, handler Core) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		mod := sl.Module("http.handlers.conversation")
		workflowID := chi.URLParam(r, "workflow")

		logger := log.With(
			mod,
			slog.String("workflow_id", workflowID),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		if handler == nil {
			logger.Error("dialog engine not available")
			fail(w, r, http.StatusServiceUnavailable, "Dialog engine not available")
			return
		}

		var req StartRequest
		if err := render.Bind(r, &req); err != nil && !errors.Is(err, io.EOF) {
			logger.Error("failed to decode request body", sl.Err(err))
			fail(w, r, http.StatusBadRequest, "Invalid request body")
			return
		}

		turn, err := handler.StartConversation(r.Context(), workflowID, req.ConversationID)
		if err != nil {
			logger.Error("start conversation", sl.Err(err))
			fail(w, r, statusOf(err), err.Error())
			return
		}
		logger.With(slog.String("conversation_id", turn.ConversationID)).Debug("conversation started")

		render.JSON(w, r, response.Ok(turn))
	}
}
