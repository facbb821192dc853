// Package environment resolves the base URL of the assistant backend for the
// platform the process runs on.
//
// An Android emulator reaches the host machine's localhost through the bridge
// address 10.0.2.2; every other platform (iOS, browsers, desktops) uses the
// loopback address. The port is always 8000.
//
// Usage:
//
//	base := environment.APIBaseURL()
//	c := client.New(base)
//
// Components that need the address should receive it through their
// constructor rather than calling APIBaseURL themselves.
package environment
