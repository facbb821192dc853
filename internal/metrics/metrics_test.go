package metrics_test

import (
	"fmt"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/angeloszaimis/health-assistant/internal/metrics"
)

var _ = Describe("Metrics", func() {
	var m *metrics.Metrics

	BeforeEach(func() {
		m = metrics.NewMetrics()
	})

	It("should start empty", func() {
		snap := m.Snapshot()
		Expect(snap.TotalRequests).To(BeZero())
		Expect(snap.Intents).To(BeEmpty())
		Expect(snap.AvgResponse).To(BeZero())
	})

	It("should count requests per language", func() {
		m.IncrementRequests("en")
		m.IncrementRequests("en")
		m.IncrementRequests("ti")
		m.IncrementRequests("")

		snap := m.Snapshot()
		Expect(snap.TotalRequests).To(Equal(int64(4)))
		Expect(snap.Languages).To(Equal(map[string]int64{"en": 2, "ti": 1}))
	})

	It("should fold languages past the limit into other", func() {
		m.IncrementRequests("en")
		for i := range 99 {
			m.IncrementRequests(fmt.Sprintf("lang-%d", i))
		}
		m.IncrementRequests("en")

		snap := m.Snapshot()
		Expect(snap.TotalRequests).To(Equal(int64(101)))
		Expect(snap.Languages).To(HaveLen(33))
		Expect(snap.Languages).To(HaveKeyWithValue("en", int64(2)))
		Expect(snap.Languages).To(HaveKeyWithValue(metrics.OtherLanguage, int64(68)))
	})

	It("should count intents and fallbacks", func() {
		m.RecordIntent("burn")
		m.RecordIntent("burn")
		m.RecordIntent("choking")
		m.RecordFallback()

		snap := m.Snapshot()
		Expect(snap.Intents["burn"]).To(Equal(int64(2)))
		Expect(snap.Intents["choking"]).To(Equal(int64(1)))
		Expect(snap.AIFallbacks).To(Equal(int64(1)))
	})

	It("should compute latency percentiles", func() {
		for i := 1; i <= 100; i++ {
			m.RecordResponse(time.Duration(i)*time.Millisecond, 200)
		}

		snap := m.Snapshot()
		Expect(snap.P50Response).To(Equal(51 * time.Millisecond))
		Expect(snap.P95Response).To(Equal(96 * time.Millisecond))
		Expect(snap.P99Response).To(Equal(100 * time.Millisecond))
		Expect(snap.AvgResponse).To(Equal(50500 * time.Microsecond))
		Expect(snap.StatusCodes[200]).To(Equal(int64(100)))
	})

	It("should keep a bounded sample window", func() {
		for i := 0; i < 1500; i++ {
			m.RecordResponse(time.Second, 200)
		}
		m.RecordResponse(time.Millisecond, 500)

		snap := m.Snapshot()
		Expect(snap.StatusCodes[200]).To(Equal(int64(1500)))
		Expect(snap.StatusCodes[500]).To(Equal(int64(1)))
		Expect(snap.P50Response).To(Equal(time.Second))
	})

	It("should return copies from Snapshot", func() {
		m.RecordIntent("burn")
		snap := m.Snapshot()
		snap.Intents["burn"] = 99
		Expect(m.Snapshot().Intents["burn"]).To(Equal(int64(1)))
	})
})
