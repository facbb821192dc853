// Package client talks to the assistant backend at the resolved base URL.
//
// The base URL is injected through New; callers normally pass
// environment.APIBaseURL(). Requests go through a circuit breaker so a dead
// backend fails fast instead of stalling every message.
package client
