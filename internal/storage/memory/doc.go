// Package memory provides the in-memory stores backing the relay's
// registries.
//
// The relay is deliberately a single in-memory process: owners,
// enrollments, and devices live for the process lifetime and are never
// persisted. Each store is safe for concurrent use; the sharded map
// underneath keeps contention away from the hot WebSocket join path.
//
// Files:
//   - owners.go: owner registry storage
//   - enrollments.go: single-use enrollment token storage
//   - devices.go: device credential storage
package memory
