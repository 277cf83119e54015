package catalog

import (
	"errors"
	"log/slog"
	"net/http"

	"ShopBot/bot/chat/catalog"
	"ShopBot/internal/lib/api/response"
	"ShopBot/internal/lib/sl"

	"github.com/go-chi/render"
)

type Core interface {
	Catalog() (*catalog.Catalog, error)
}

// Report describes how completely the catalog covers its own options.
type Report struct {
	Stats    catalog.Stats `json:"stats"`
	Complete bool          `json:"complete"`
	Gaps     []string      `json:"gaps,omitempty"`
}

func Coverage(log *slog.Logger, handler Core) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c, err := handler.Catalog()
		if err != nil {
			log.With(sl.Module("http.handlers.catalog")).Error("get catalog", sl.Err(err))
			render.Status(r, http.StatusServiceUnavailable)
			render.JSON(w, r, response.Error("Catalog not available"))
			return
		}

		report := Report{Stats: c.Stats(), Complete: true}
		if err = c.Verify(); err != nil {
			report.Complete = false
			report.Gaps = gaps(err)
		}

		render.JSON(w, r, response.Ok(report))
	}
}

func gaps(err error) []string {
	var joined interface{ Unwrap() []error }
	if !errors.As(err, &joined) {
		return []string{err.Error()}
	}
	out := make([]string, 0, len(joined.Unwrap()))
	for _, e := range joined.Unwrap() {
		out = append(out, e.Error())
	}
	return out
}
