// Package api is the data-access facade for the webhook action protocol:
// one POST endpoint, an {action, payload, auth} envelope, and a normalized
// {ok, data, error, meta} response. Every failure a call site sees is an
// *Error with a code from the taxonomy in errors.go.
package api
