// Package handler implements the HTTP surface of the assistant backend: the
// /chat and /health endpoints plus the CORS and request logging middleware
// that wrap them.
package handler
