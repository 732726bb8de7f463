package testutil

import (
	"net/http"

	id "matchday/pkg/domain"
	"matchday/pkg/requestcontext"
)

// WithUserID puts the user on the request context the way the auth middleware
// does. Strings that are not UUIDs leave the request anonymous.
func WithUserID(req *http.Request, userID string) *http.Request {
	parsed, err := id.ParseUserID(userID)
	if err != nil {
		return req
	}
	return req.WithContext(requestcontext.WithUserID(req.Context(), parsed))
}
