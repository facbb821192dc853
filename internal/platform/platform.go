package platform

import (
	"log/slog"
	"runtime"
	"strings"
)

const (
	Android = "android"
	IOS     = "ios"
	Web     = "web"
)

// Detector is the capability the environment resolver consumes.
type Detector interface {
	IsNativePlatform() bool
	Platform() string
}

// FallibleDetector is a detector whose queries can fail, for example one that
// asks a host bridge over IPC.
type FallibleDetector interface {
	IsNativePlatform() (bool, error)
	Platform() (string, error)
}

type runtimeDetector struct {
	goos string
}

// Runtime returns a Detector derived from runtime.GOOS. Only android and ios
// builds count as native; js/wasm reports "web".
func Runtime() Detector {
	return runtimeDetector{goos: runtime.GOOS}
}

func (r runtimeDetector) IsNativePlatform() bool {
	return r.goos == Android || r.goos == IOS
}

func (r runtimeDetector) Platform() string {
	if r.goos == "js" || r.goos == "wasip1" {
		return Web
	}
	return r.goos
}

type staticDetector struct {
	native bool
	name   string
}

// Static returns a Detector with fixed answers.
func Static(native bool, name string) Detector {
	return staticDetector{native: native, name: name}
}

func (s staticDetector) IsNativePlatform() bool { return s.native }
func (s staticDetector) Platform() string       { return s.name }

// Parse maps a configured platform name to a Detector. The empty string means
// "ask the runtime"; android and ios simulate a native shell, anything else is
// treated as a browser.
func Parse(name string) Detector {
	switch n := strings.ToLower(strings.TrimSpace(name)); n {
	case "":
		return Runtime()
	case Android, IOS:
		return Static(true, n)
	default:
		return Static(false, n)
	}
}

type safeDetector struct {
	inner  FallibleDetector
	logger *slog.Logger
}

// Safe adapts a FallibleDetector. A failed query answers as a browser would
// (not native, "web"), so misdetection only ever picks the loopback address.
func Safe(fd FallibleDetector, logger *slog.Logger) Detector {
	if logger == nil {
		logger = slog.Default()
	}
	return safeDetector{inner: fd, logger: logger}
}

func (s safeDetector) IsNativePlatform() bool {
	native, err := s.inner.IsNativePlatform()
	if err != nil {
		s.logger.Warn("Platform detection failed, assuming browser",
			slog.String("query", "is_native_platform"),
			slog.Any("err", err))
		return false
	}
	return native
}

func (s safeDetector) Platform() string {
	name, err := s.inner.Platform()
	if err != nil {
		s.logger.Warn("Platform detection failed, assuming browser",
			slog.String("query", "platform"),
			slog.Any("err", err))
		return Web
	}
	return name
}
