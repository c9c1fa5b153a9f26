package http

import (
	"context"
	"net/http"
	"strings"

	"github.com/go-chi/render"
	"github.com/shortlyhq/shortly/internal/entity"
)

// Identity is the external identity provider collaborator. It maps an incoming
// request to the owner it acts for; requests without a recognized identity are
// anonymous, not rejected.
type Identity interface {
	Identify(r *http.Request) entity.Owner
}

// TokenIdentity resolves bearer tokens against a static token → user id map.
// It stands in for a full identity provider; sessions and registration live
// outside this service.
type TokenIdentity struct {
	tokens map[string]int64
}

func NewTokenIdentity(tokens map[string]int64) *TokenIdentity {
	return &TokenIdentity{tokens: tokens}
}

func (ti *TokenIdentity) Identify(r *http.Request) entity.Owner {
	auth := r.Header.Get("Authorization")

	token, ok := strings.CutPrefix(auth, "Bearer ")
	if !ok {
		return entity.Anonymous()
	}

	userID, ok := ti.tokens[token]
	if !ok {
		return entity.Anonymous()
	}

	return entity.OwnedBy(userID)
}

type ctxKey int

const ownerKey ctxKey = iota

func ownerFromContext(ctx context.Context) entity.Owner {
	owner, ok := ctx.Value(ownerKey).(entity.Owner)
	if !ok {
		return entity.Anonymous()
	}
	return owner
}

// identify resolves the request's owner once and stores it in the context for
// every handler downstream. A nil provider leaves all requests anonymous.
func identify(ident Identity) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			owner := entity.Anonymous()
			if ident != nil {
				owner = ident.Identify(r)
			}

			next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), ownerKey, owner)))
		})
	}
}

// requireAuth refuses anonymous requests on owner-scoped routes.
func requireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if ownerFromContext(r.Context()).IsAnonymous() {
			render.Status(r, http.StatusUnauthorized)
			render.JSON(w, r, errorResponse("authentication required"))
			return
		}

		next.ServeHTTP(w, r)
	})
}
