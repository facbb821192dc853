// Package platform answers two questions about the host the process runs on:
// is it a packaged native-app runtime, and which platform is it. The
// environment package turns those answers into the backend base URL.
package platform
