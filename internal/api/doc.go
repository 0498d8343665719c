// Package api provides the HTTP implementation of domain.BackendClient.
//
// The backend owns every substantive computation: community scores, loan
// underwriting, interest curves and pool accounting. This package only shapes
// the calls:
//   - user profile, score, social account linking and stats
//   - loan listing, lookup, request, repayment and interest preview
//   - pool listing, lookup, provide and withdraw
//
// All requests are JSON over HTTP and accept a context for cancellation and
// deadlines. Each request carries an X-Request-ID. Non-2xx statuses are
// returned as *StatusError with the method, path, status and the backend's
// "detail" message when it sends one.
package api
