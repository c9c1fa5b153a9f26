package http

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/httplog/v2"
	"github.com/go-chi/render"
	"github.com/shortlyhq/shortly/internal/entity"
)

type qrHandler struct {
	useCase  urlUseCase
	encoder  QREncoder
	renderer PageRenderer
	baseURL  string
}

func newQRHandler(useCase urlUseCase, encoder QREncoder, renderer PageRenderer, baseURL string) *qrHandler {
	return &qrHandler{
		useCase:  useCase,
		encoder:  encoder,
		renderer: renderer,
		baseURL:  baseURL,
	}
}

// encodeFor looks up a short code and QR-encodes its original URL. The QR code
// points at the original URL, not the short one, so it keeps working even if
// the record later expires.
func (h *qrHandler) encodeFor(w http.ResponseWriter, r *http.Request) ([]byte, string, bool) {
	shortCode := chi.URLParam(r, "code")

	rec, err := h.useCase.Lookup(r.Context(), shortCode)
	if err != nil {
		if errors.Is(err, entity.ErrURLNotFound) {
			h.renderer.Page(w, r, http.StatusNotFound, "not_found", nil)
			return nil, "", false
		}

		httplog.LogEntrySetField(r.Context(), "err", slog.AnyValue(err))

		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, errorResponse("server error"))
		return nil, "", false
	}

	png, err := h.encoder.Encode(rec.OriginalURL)
	if err != nil {
		httplog.LogEntrySetField(r.Context(), "err", slog.AnyValue(err))

		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, errorResponse("server error"))
		return nil, "", false
	}

	return png, shortCode, true
}

func (h *qrHandler) page(w http.ResponseWriter, r *http.Request) {
	shortCode := chi.URLParam(r, "code")

	rec, err := h.useCase.Lookup(r.Context(), shortCode)
	if err != nil {
		if errors.Is(err, entity.ErrURLNotFound) {
			h.renderer.Page(w, r, http.StatusNotFound, "not_found", nil)
			return
		}

		httplog.LogEntrySetField(r.Context(), "err", slog.AnyValue(err))

		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, errorResponse("server error"))
		return
	}

	owner := ownerFromContext(r.Context())
	ownerID, ok := owner.UserID()
	recOwnerID, recOK := rec.Owner.UserID()
	if !ok || !recOK || ownerID != recOwnerID {
		render.Status(r, http.StatusForbidden)
		render.JSON(w, r, errorResponse("you do not have permission to view this qr code"))
		return
	}

	h.renderer.Page(w, r, http.StatusOK, "qr_code", toURLResponse(h.baseURL, rec))
}

func (h *qrHandler) generate(w http.ResponseWriter, r *http.Request) {
	png, _, ok := h.encodeFor(w, r)
	if !ok {
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.WriteHeader(http.StatusOK)
	w.Write(png)
}

func (h *qrHandler) download(w http.ResponseWriter, r *http.Request) {
	png, shortCode, ok := h.encodeFor(w, r)
	if !ok {
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s_qr_code.png"`, shortCode))
	w.WriteHeader(http.StatusOK)
	w.Write(png)
}
