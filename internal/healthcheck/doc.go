// Package healthcheck probes the assistant backend's /health endpoint and
// keeps the client's view of it up to date.
package healthcheck
