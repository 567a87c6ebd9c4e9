// Package confloader loads relay configuration from YAML files and
// WSRELAY_-prefixed environment variables, and watches the config file
// for runtime changes.
//
// Environment keys nest with a double underscore, e.g.
// WSRELAY_SERVER__HTTP__ADDR sets server.http.addr and
// WSRELAY_RELAY__ENROLL_TTL sets relay.enroll_ttl.
package confloader
