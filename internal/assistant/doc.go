// Package assistant runs a first-aid conversation: it recognises what the
// user describes, walks them through the matching instructions one step at a
// time, asks yes/no follow-up questions that can redirect to another intent,
// and falls back to the AI assistant when the offline knowledge base has
// nothing to say.
package assistant
