// Package auth implements the credential and session authority for the
// dracker API: argon2id password hashing, Ed25519 signed identity and
// password reset claims, and the revocable session registry every
// authenticated request is checked against.
package auth
