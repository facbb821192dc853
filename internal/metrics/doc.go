// Package metrics provides real-time metrics collection for the assistant
// backend.
//
// It uses a channel-based event pipeline to asynchronously collect:
//   - Chat request counts
//   - Matched intent frequencies
//   - How often the AI fallback answered instead of the knowledge base
//   - Response times with percentile calculations (P50, P95, P99)
//   - HTTP status code distribution
package metrics
