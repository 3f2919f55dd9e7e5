// Package authapi wires passage's HTTP auth surface: register, login,
// refresh, and the bearer-token gate protecting /me.
//
// The handlers own the error-uniformity contract: login failures collapse
// to one invalid_credentials body and every rotation failure collapses to
// one invalid_refresh_token body, regardless of which internal check
// rejected the request.
package authapi
