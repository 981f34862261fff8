// Package api is the HTTP client for the SimpleMDM REST API.
//
// Requests authenticate with HTTP basic auth, using the API key as the user
// name and an empty password. List endpoints are paged with limit and
// starting_after; the client follows has_more until the listing ends or a
// caller-supplied cap is reached.
//
// All calls accept a context for cancellation and deadlines. Non-2xx
// responses come back as *Error with the method, path and status;
// 401 responses also match ErrUnauthorized.
package api
