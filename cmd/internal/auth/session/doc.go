// Package session implements passage's refresh-token lifecycle.
//
// A refresh token is a signed JWT handed to the client exactly once; the
// server keeps only a one-way digest of it, with an expiry. Rotation is
// consume-on-use: presenting a token atomically deletes its backing record
// and mints a successor pair, so any token can produce at most one child.
// The atomic conditional delete (DELETE ... RETURNING) is what closes the
// concurrent-reuse race: two racers presenting the same token cannot both
// observe the record.
package session
