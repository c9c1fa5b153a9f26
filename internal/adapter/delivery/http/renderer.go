package http

import (
	"net/http"

	"github.com/go-chi/render"
)

// PageRenderer is the external rendering collaborator: handlers hand it a page
// name and its data and it produces the response body. Templates, styling and
// markup are not this service's concern.
type PageRenderer interface {
	Page(w http.ResponseWriter, r *http.Request, statusCode int, page string, data any)
}

type jsonPageRenderer struct{}

// NewJSONPageRenderer returns the default renderer, emitting each page as a
// JSON envelope of its name and data.
func NewJSONPageRenderer() PageRenderer {
	return jsonPageRenderer{}
}

func (jsonPageRenderer) Page(w http.ResponseWriter, r *http.Request, statusCode int, page string, data any) {
	render.Status(r, statusCode)
	render.JSON(w, r, map[string]any{
		"page": page,
		"data": data,
	})
}
