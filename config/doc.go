// Package config handles loading and parsing of configuration from YAML files
// and environment variables. It covers the backend server, logging, the
// knowledge base, CORS, the AI and translation fallbacks, and the client's
// platform override and resilience settings.
package config
