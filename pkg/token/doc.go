// Package token provides credential generation and hashing utilities
// shared by the owner, enrollment, and device registries.
//
// Files:
//   - generator.go: CSPRNG-backed secret and token generation
//   - hash.go: SHA-256 hashing with constant-time verification
package token
