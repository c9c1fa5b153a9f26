package http

import (
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/httplog/v2"
	"github.com/go-chi/render"
	"github.com/go-playground/validator/v10"
	"github.com/shortlyhq/shortly/internal/entity"
	"github.com/shortlyhq/shortly/internal/usecase"
)

type urlHandler struct {
	useCase  urlUseCase
	validate *validator.Validate
	renderer PageRenderer
	baseURL  string
}

func newURLHandler(useCase urlUseCase, validate *validator.Validate, renderer PageRenderer, baseURL string) *urlHandler {
	return &urlHandler{
		useCase:  useCase,
		validate: validate,
		renderer: renderer,
		baseURL:  baseURL,
	}
}

func (h *urlHandler) home(w http.ResponseWriter, r *http.Request) {
	h.renderer.Page(w, r, http.StatusOK, "home", nil)
}

func (h *urlHandler) shorten(w http.ResponseWriter, r *http.Request) {
	var req shortenRequest

	if err := render.DecodeJSON(r.Body, &req); err != nil {
		if errors.Is(err, io.EOF) {
			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, errorResponse("empty request body"))
			return
		}

		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, errorResponse("invalid request body"))
		return
	}

	if err := h.validate.Struct(req); err != nil {
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, validationErrorResponse("invalid values", fieldErrors(err)))
		return
	}

	owner := ownerFromContext(r.Context())

	rec, err := h.useCase.Shorten(r.Context(), owner, req.OriginalURL, req.ExpiryDate)
	if err != nil {
		switch {
		case errors.Is(err, entity.ErrInvalidURL):
			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, validationErrorResponse("invalid values", []fieldError{
				{Field: "original_url", Message: "field must be a valid url"},
			}))
		case errors.Is(err, entity.ErrInvalidExpiry):
			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, validationErrorResponse("invalid values", []fieldError{
				{Field: "expiry_date", Message: "field must be in the future"},
			}))
		case errors.Is(err, usecase.ErrMaxRetriesExceeded):
			render.Status(r, http.StatusServiceUnavailable)
			render.JSON(w, r, errorResponse("could not allocate a short code, try again"))
		default:
			httplog.LogEntrySetField(r.Context(), "err", slog.AnyValue(err))

			render.Status(r, http.StatusInternalServerError)
			render.JSON(w, r, errorResponse("server error"))
		}
		return
	}

	h.renderer.Page(w, r, http.StatusCreated, "success", toURLResponse(h.baseURL, rec))
}

func (h *urlHandler) redirect(w http.ResponseWriter, r *http.Request) {
	shortCode := chi.URLParam(r, "code")

	rec, err := h.useCase.Resolve(r.Context(), shortCode)
	if err != nil {
		switch {
		case errors.Is(err, entity.ErrURLNotFound):
			h.renderer.Page(w, r, http.StatusNotFound, "not_found", nil)
		case errors.Is(err, entity.ErrURLExpired):
			h.renderer.Page(w, r, http.StatusGone, "expired", nil)
		default:
			httplog.LogEntrySetField(r.Context(), "err", slog.AnyValue(err))

			render.Status(r, http.StatusInternalServerError)
			render.JSON(w, r, errorResponse("server error"))
		}
		return
	}

	http.Redirect(w, r, rec.OriginalURL, http.StatusFound)
}

func (h *urlHandler) list(w http.ResponseWriter, r *http.Request) {
	owner := ownerFromContext(r.Context())

	records, err := h.useCase.ListByOwner(r.Context(), owner)
	if err != nil {
		httplog.LogEntrySetField(r.Context(), "err", slog.AnyValue(err))

		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, errorResponse("server error"))
		return
	}

	h.renderer.Page(w, r, http.StatusOK, "list", toURLResponses(h.baseURL, records))
}

func (h *urlHandler) delete(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		h.renderer.Page(w, r, http.StatusNotFound, "not_found", nil)
		return
	}

	owner := ownerFromContext(r.Context())

	if err := h.useCase.Delete(r.Context(), id, owner); err != nil {
		switch {
		case errors.Is(err, entity.ErrURLNotFound):
			h.renderer.Page(w, r, http.StatusNotFound, "not_found", nil)
		case errors.Is(err, entity.ErrPermissionDenied):
			render.Status(r, http.StatusForbidden)
			render.JSON(w, r, errorResponse("you do not own this url"))
		default:
			httplog.LogEntrySetField(r.Context(), "err", slog.AnyValue(err))

			render.Status(r, http.StatusInternalServerError)
			render.JSON(w, r, errorResponse("server error"))
		}
		return
	}

	http.Redirect(w, r, "/list/", http.StatusSeeOther)
}
