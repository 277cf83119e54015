package conversation

import (
	"log/slog"
	"net/http"

	"ShopBot/bot/chat"
	"ShopBot/entity"
	"ShopBot/internal/lib/api/response"
	"ShopBot/internal/lib/sl"
	"ShopBot/internal/lib/validate"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"
)

// ResumeRequest is the reply envelope a web host posts.
type ResumeRequest struct {
	chat.RawInput
}

func (req *ResumeRequest) Bind(_ *http.Request) error {
	if req.Kind == chat.InputAttachments && req.Attachments == nil {
		req.Attachments = []entity.Attachment{}
	}
	return validate.Struct(req.RawInput)
}

func Resume(log *slog.Logger, handler Core) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		mod := sl.Module("http.handlers.conversation")
		conversationID := chi.URLParam(r, "id")

		logger := log.With(
			mod,
			slog.String("conversation_id", conversationID),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		if handler == nil {
			logger.Error("dialog engine not available")
			fail(w, r, http.StatusServiceUnavailable, "Dialog engine not available")
			return
		}

		var req ResumeRequest
		if err := render.Bind(r, &req); err != nil {
			logger.Error("invalid reply", sl.Err(err))
			fail(w, r, http.StatusBadRequest, "Invalid request body")
			return
		}
		logger = logger.With(slog.String("kind", string(req.Kind)))

		turn, err := handler.ResumeConversation(r.Context(), conversationID, req.RawInput)
		if err != nil {
			logger.Error("resume conversation", sl.Err(err))
			fail(w, r, statusOf(err), err.Error())
			return
		}
		logger.With(slog.Bool("retry", turn.Retry), slog.Bool("completed", turn.Completed)).Debug("conversation resumed")

		render.JSON(w, r, response.Ok(turn))
	}
}
