// Package password implements Argon2id password hashing for passage.
//
// Hashes use the PHC string format
// ($argon2id$v=19$m=...,t=...,p=...$salt$hash) so parameters travel with
// the hash and can be tightened over time without re-hashing everything
// at once. Verification is constant-time and bounds-checked so that an
// attacker-controlled hash string cannot demand pathological resources.
package password
