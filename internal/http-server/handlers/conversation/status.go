package conversation

import (
	"errors"
	"net/http"

	"ShopBot/bot/chat"
	"ShopBot/internal/lib/api/response"

	"github.com/go-chi/render"
)

// statusOf maps engine errors to HTTP statuses.
func statusOf(err error) int {
	switch {
	case chat.IsProtocolError(err), errors.Is(err, chat.ErrWorkflowNotFound):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

func fail(w http.ResponseWriter, r *http.Request, status int, message string) {
	render.Status(r, status)
	render.JSON(w, r, response.Error(message))
}
