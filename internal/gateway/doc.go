// Package gateway is the single HTTP client every pitchclerk service call goes
// through.
//
// A Client is configured with the API base URL and static API key, and holds a
// reference to the caller's session. It stamps x-api-key, Authorization (when
// the session has a token), and X-Request-ID on each request, applies the
// configured per-request timeout, and turns every non-2xx outcome into a
// services.APIError: 401 and "Invalid Token" responses become ErrAuth and clear
// the session, other 4xx responses with a message become ErrValidation, and
// network failures become ErrTransport or ErrTimeout.
package gateway
