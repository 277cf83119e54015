package conversation

import (
	"log/slog"
	"net/http"

	"ShopBot/internal/lib/api/response"
	"ShopBot/internal/lib/sl"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"
)

func State(log *slog.Logger, handler Core) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		conversationID := chi.URLParam(r, "id")
		logger := log.With(
			sl.Module("http.handlers.conversation"),
			slog.String("conversation_id", conversationID),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		state, err := handler.ConversationState(r.Context(), conversationID)
		if err != nil {
			logger.Error("get state", sl.Err(err))
			fail(w, r, http.StatusInternalServerError, "Failed to get state")
			return
		}
		if state == nil {
			fail(w, r, http.StatusNotFound, "Conversation not found")
			return
		}

		render.JSON(w, r, response.Ok(state))
	}
}

func Reset(log *slog.Logger, handler Core) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		conversationID := chi.URLParam(r, "id")
		logger := log.With(
			sl.Module("http.handlers.conversation"),
			slog.String("conversation_id", conversationID),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		if err := handler.ResetConversation(r.Context(), conversationID); err != nil {
			logger.Error("reset conversation", sl.Err(err))
			fail(w, r, http.StatusInternalServerError, "Reset failed")
			return
		}
		logger.Info("conversation reset")

		render.JSON(w, r, response.Ok("Conversation reset successfully"))
	}
}

func Dialogs(log *slog.Logger, handler Core) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		conversationID := chi.URLParam(r, "id")

		dialogs, err := handler.CompletedDialogs(r.Context(), conversationID)
		if err != nil {
			log.With(
				sl.Module("http.handlers.conversation"),
				slog.String("conversation_id", conversationID),
			).Error("get dialogs", sl.Err(err))
			fail(w, r, http.StatusInternalServerError, "Failed to get dialogs")
			return
		}

		render.JSON(w, r, response.Ok(dialogs))
	}
}

func List(log *slog.Logger, handler Core) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ids, err := handler.ActiveConversations(r.Context())
		if err != nil {
			log.With(
				sl.Module("http.handlers.conversation"),
				slog.String("request_id", middleware.GetReqID(r.Context())),
			).Error("list conversations", sl.Err(err))
			fail(w, r, http.StatusInternalServerError, "Failed to list conversations")
			return
		}

		render.JSON(w, r, response.Ok(ids))
	}
}
