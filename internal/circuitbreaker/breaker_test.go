package circuitbreaker_test

import (
	"errors"
	"sync"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/angeloszaimis/health-assistant/internal/circuitbreaker"
)

var errBackend = errors.New("backend down")

var _ = Describe("CircuitBreaker", func() {
	var cb *circuitbreaker.CircuitBreaker

	Describe("New", func() {
		It("should create a circuit breaker in closed state", func() {
			cb = circuitbreaker.New(5, 30*time.Second)
			Expect(cb).NotTo(BeNil())
			Expect(cb.State()).To(Equal(circuitbreaker.StateClosed))
		})

		It("should open on the first failure with a non-positive threshold", func() {
			cb = circuitbreaker.New(0, time.Second)
			cb.RecordFailure()
			Expect(cb.State()).To(Equal(circuitbreaker.StateOpen))
		})
	})

	Describe("State transitions", func() {
		BeforeEach(func() {
			cb = circuitbreaker.New(3, 100*time.Millisecond)
		})

		Context("when in CLOSED state", func() {
			It("should allow requests", func() {
				Expect(cb.Allow()).To(BeTrue())
			})

			It("should remain closed after failures below threshold", func() {
				cb.RecordFailure()
				cb.RecordFailure()
				Expect(cb.State()).To(Equal(circuitbreaker.StateClosed))
				Expect(cb.Allow()).To(BeTrue())
			})

			It("should transition to OPEN after reaching failure threshold", func() {
				cb.RecordFailure()
				cb.RecordFailure()
				cb.RecordFailure()
				Expect(cb.State()).To(Equal(circuitbreaker.StateOpen))
			})

			It("should reset the failure count on success", func() {
				cb.RecordFailure()
				cb.RecordFailure()
				cb.RecordSuccess()
				cb.RecordFailure()
				Expect(cb.State()).To(Equal(circuitbreaker.StateClosed))
			})
		})

		Context("when in OPEN state", func() {
			BeforeEach(func() {
				// Trip the circuit
				cb.RecordFailure()
				cb.RecordFailure()
				cb.RecordFailure()
			})

			It("should block requests", func() {
				Expect(cb.Allow()).To(BeFalse())
			})

			It("should transition to HALF-OPEN after reset timeout", func() {
				time.Sleep(150 * time.Millisecond)
				Expect(cb.Allow()).To(BeTrue())
				Expect(cb.State()).To(Equal(circuitbreaker.StateHalfOpen))
			})

			It("should remain OPEN before reset timeout expires", func() {
				time.Sleep(20 * time.Millisecond)
				Expect(cb.Allow()).To(BeFalse())
				Expect(cb.State()).To(Equal(circuitbreaker.StateOpen))
			})
		})

		Context("when in HALF-OPEN state", func() {
			BeforeEach(func() {
				cb.RecordFailure()
				cb.RecordFailure()
				cb.RecordFailure()
				time.Sleep(150 * time.Millisecond)
				Expect(cb.Allow()).To(BeTrue())
			})

			It("should close on success", func() {
				cb.RecordSuccess()
				Expect(cb.State()).To(Equal(circuitbreaker.StateClosed))
			})

			It("should reopen on failure", func() {
				cb.RecordFailure()
				Expect(cb.State()).To(Equal(circuitbreaker.StateOpen))
			})
		})
	})

	Describe("Do", func() {
		BeforeEach(func() {
			cb = circuitbreaker.New(2, time.Minute)
		})

		It("should pass through the function's error", func() {
			err := cb.Do(func() error { return errBackend })
			Expect(err).To(MatchError(errBackend))
		})

		It("should short-circuit once open", func() {
			calls := 0
			fail := func() error {
				calls++
				return errBackend
			}

			_ = cb.Do(fail)
			_ = cb.Do(fail)
			err := cb.Do(fail)

			Expect(err).To(MatchError(circuitbreaker.ErrOpen))
			Expect(calls).To(Equal(2))
		})

		It("should record successes", func() {
			_ = cb.Do(func() error { return errBackend })
			Expect(cb.Do(func() error { return nil })).To(Succeed())
			_ = cb.Do(func() error { return errBackend })
			Expect(cb.State()).To(Equal(circuitbreaker.StateClosed))
		})
	})

	Describe("OnStateChange", func() {
		It("should report each transition once", func() {
			var (
				mutex       sync.Mutex
				transitions []string
			)
			cb = circuitbreaker.New(1, 10*time.Millisecond)
			cb.OnStateChange(func(from, to circuitbreaker.State) {
				mutex.Lock()
				defer mutex.Unlock()
				transitions = append(transitions, from.String()+"->"+to.String())
			})

			cb.RecordFailure()
			cb.RecordFailure()
			time.Sleep(20 * time.Millisecond)
			cb.Allow()
			cb.RecordSuccess()

			mutex.Lock()
			defer mutex.Unlock()
			Expect(transitions).To(Equal([]string{"CLOSED->OPEN", "OPEN->HALF-OPEN", "HALF-OPEN->CLOSED"}))
		})
	})

	Describe("State", func() {
		It("should render state names", func() {
			Expect(circuitbreaker.StateClosed.String()).To(Equal("CLOSED"))
			Expect(circuitbreaker.StateOpen.String()).To(Equal("OPEN"))
			Expect(circuitbreaker.StateHalfOpen.String()).To(Equal("HALF-OPEN"))
			Expect(circuitbreaker.State(42).String()).To(Equal("UNKNOWN"))
		})
	})
})
