// Package endpoint tracks the assistant backend a client talks to: its base
// URL, whether it currently answers health checks, and an exponentially
// weighted moving average of its response times.
package endpoint
