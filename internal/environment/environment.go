package environment

import (
	"net"
	"net/url"
	"strconv"
	"sync"

	"github.com/angeloszaimis/health-assistant/internal/platform"
)

const BackendPort = 8000

const (
	AndroidEmulatorURL = "http://10.0.2.2:8000"
	LoopbackURL        = "http://127.0.0.1:8000"
)

// BaseURL is the root address of the backend API. The zero value is empty;
// values are only produced by Resolve and never change.
type BaseURL struct {
	raw string
}

func (b BaseURL) String() string {
	return b.raw
}

// Host returns the host part without the port.
func (b BaseURL) Host() string {
	u, err := url.Parse(b.raw)
	if err != nil {
		return ""
	}
	return u.Hostname()
}

// Port returns the numeric port, or 0 if the URL carries none.
func (b BaseURL) Port() int {
	u, err := url.Parse(b.raw)
	if err != nil {
		return 0
	}
	p, err := strconv.Atoi(u.Port())
	if err != nil {
		return 0
	}
	return p
}

// Addr returns host:port, suitable for net.Dial.
func (b BaseURL) Addr() string {
	return net.JoinHostPort(b.Host(), strconv.Itoa(b.Port()))
}

// JoinPath returns the URL of a backend resource, e.g. JoinPath("chat").
func (b BaseURL) JoinPath(elem ...string) string {
	joined, err := url.JoinPath(b.raw, elem...)
	if err != nil {
		return b.raw
	}
	return joined
}

// Resolve picks the base URL for the given platform. Native Android gets the
// emulator bridge; everything else, including platforms this package has
// never heard of, gets the loopback address.
func Resolve(d platform.Detector) BaseURL {
	if d.IsNativePlatform() && d.Platform() == platform.Android {
		return BaseURL{raw: AndroidEmulatorURL}
	}
	return BaseURL{raw: LoopbackURL}
}

// Resolver computes the base URL once, on first use, and hands out the same
// value afterwards.
type Resolver struct {
	detector platform.Detector
	once     sync.Once
	base     BaseURL
}

func NewResolver(d platform.Detector) *Resolver {
	return &Resolver{detector: d}
}

func (r *Resolver) BaseURL() BaseURL {
	r.once.Do(func() {
		r.base = Resolve(r.detector)
	})
	return r.base
}

var apiBaseURL = Resolve(platform.Runtime())

// APIBaseURL returns the process-wide base URL, resolved from the runtime
// platform when the package was initialized.
func APIBaseURL() BaseURL {
	return apiBaseURL
}
