// Package domain defines the core domain models for the relay.
//
// Files:
//   - owner.go: Owner identity, argon2id secret hashing
//   - enrollment.go: single-use, time-limited enrollment tokens
//   - device.go: device credentials, rotation
//   - errors.go: DomainError and the error taxonomy
package domain
