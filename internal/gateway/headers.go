// Package gateway calls the REST backend on behalf of the portal. It attaches
// the stored bearer token and normalizes response shapes.
//
// Two 401 policies live here and must not be mixed:
//   - HandleResponse soft-fails 401/403 into an empty result so list and
//     profile screens degrade to empty. It never touches the store.
//   - Client.DoAuthenticated is the hard-logout path. It checks expiry before
//     sending and clears the store on expiry or on a 401.
//     Writes (status, role, profile, password, chat) use it, and any other
//     non-2xx answer, 403 included, is an *Error.
package gateway

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/spec-kit/chat-portal/internal/credentials"
)

const (
	headerAuthorization = "Authorization"
	headerContentType   = "Content-Type"
	headerAccept        = "Accept"
	mimeJSON            = "application/json"
)

// AuthHeader builds the headers of an authenticated JSON call. Without a
// stored token the Authorization entry is omitted so unauthenticated calls
// still go through the same helpers.
func AuthHeader(store credentials.Store, logger *zap.Logger) http.Header {
	h := http.Header{}
	h.Set(headerContentType, mimeJSON)
	h.Set(headerAccept, mimeJSON)

	var token string
	if store != nil {
		token, _ = store.Get()
	}
	token = credentials.Normalize(token)
	if token == "" {
		if logger != nil {
			logger.Warn("no authentication token found")
		}
		return h
	}
	h.Set(headerAuthorization, token)
	return h
}
