// Package service provides the relay's domain services: owner
// registration and authentication, enrollment token brokering, and
// device credential management.
//
// Services own the business rules; storage is reached through the
// repository interfaces declared alongside each service, implemented by
// internal/storage/memory.
package service
