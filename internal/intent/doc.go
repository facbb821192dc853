// Package intent maps free-text user messages to knowledge base intents.
//
// Matching runs in two passes. The first returns the first intent, in
// knowledge base order, with a keyword contained in the message. The second
// scores every keyword with a fuzzy weighted ratio (0-100) and accepts the
// best one at or above the threshold.
package intent
