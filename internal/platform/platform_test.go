package platform_test

import (
	"errors"
	"io"
	"log/slog"
	"runtime"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/angeloszaimis/health-assistant/internal/platform"
)

type brokenBridge struct {
	nativeErr   error
	platformErr error
}

func (b brokenBridge) IsNativePlatform() (bool, error) {
	if b.nativeErr != nil {
		return false, b.nativeErr
	}
	return true, nil
}

func (b brokenBridge) Platform() (string, error) {
	if b.platformErr != nil {
		return "", b.platformErr
	}
	return platform.Android, nil
}

var _ = Describe("Platform", func() {
	var log *slog.Logger

	BeforeEach(func() {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	})

	Describe("Runtime", func() {
		It("should report the build's GOOS", func() {
			d := platform.Runtime()
			if runtime.GOOS == "js" {
				Expect(d.Platform()).To(Equal(platform.Web))
			} else {
				Expect(d.Platform()).To(Equal(runtime.GOOS))
			}
		})

		It("should only be native on mobile builds", func() {
			d := platform.Runtime()
			mobile := runtime.GOOS == "android" || runtime.GOOS == "ios"
			Expect(d.IsNativePlatform()).To(Equal(mobile))
		})
	})

	Describe("Static", func() {
		It("should return the fixed answers", func() {
			d := platform.Static(true, "ios")
			Expect(d.IsNativePlatform()).To(BeTrue())
			Expect(d.Platform()).To(Equal("ios"))
		})
	})

	Describe("Parse", func() {
		It("should simulate an android shell", func() {
			d := platform.Parse("Android")
			Expect(d.IsNativePlatform()).To(BeTrue())
			Expect(d.Platform()).To(Equal(platform.Android))
		})

		It("should simulate an ios shell", func() {
			d := platform.Parse(" ios ")
			Expect(d.IsNativePlatform()).To(BeTrue())
			Expect(d.Platform()).To(Equal(platform.IOS))
		})

		It("should treat web as a browser", func() {
			d := platform.Parse("web")
			Expect(d.IsNativePlatform()).To(BeFalse())
			Expect(d.Platform()).To(Equal(platform.Web))
		})

		It("should treat unknown names as non-native", func() {
			d := platform.Parse("windows")
			Expect(d.IsNativePlatform()).To(BeFalse())
			Expect(d.Platform()).To(Equal("windows"))
		})

		It("should fall back to the runtime when empty", func() {
			Expect(platform.Parse("")).To(Equal(platform.Runtime()))
		})
	})

	Describe("Safe", func() {
		It("should pass through successful answers", func() {
			d := platform.Safe(brokenBridge{}, log)
			Expect(d.IsNativePlatform()).To(BeTrue())
			Expect(d.Platform()).To(Equal(platform.Android))
		})

		It("should answer not native when the native query fails", func() {
			d := platform.Safe(brokenBridge{nativeErr: errors.New("bridge gone")}, log)
			Expect(d.IsNativePlatform()).To(BeFalse())
		})

		It("should answer web when the platform query fails", func() {
			d := platform.Safe(brokenBridge{platformErr: errors.New("bridge gone")}, log)
			Expect(d.Platform()).To(Equal(platform.Web))
		})

		It("should accept a nil logger", func() {
			d := platform.Safe(brokenBridge{nativeErr: errors.New("x")}, nil)
			Expect(d.IsNativePlatform()).To(BeFalse())
		})
	})
})
