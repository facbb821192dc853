package intent_test

import (
	"strings"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/angeloszaimis/health-assistant/internal/intent"
	"github.com/angeloszaimis/health-assistant/internal/knowledgebase"
)

var _ = Describe("Matcher", func() {
	var (
		kb *knowledgebase.KnowledgeBase
		m  *intent.Matcher
	)

	BeforeEach(func() {
		var err error
		kb, err = knowledgebase.Parse(strings.NewReader(`{
			"nosebleed": {"keywords": ["nosebleed", "nose bleed"], "steps": ["lean forward"]},
			"bleeding": {"keywords": ["bleeding", "Blood"], "steps": ["press"]},
			"burn": {"steps": ["cool"]},
			"choking": {"keywords": ["choking"], "steps": ["back blows"]}
		}`))
		Expect(err).NotTo(HaveOccurred())
		m = intent.NewMatcher(intent.DefaultThreshold)
	})

	It("should match a contained keyword", func() {
		got, ok := m.Match("My arm is BLEEDING", kb)
		Expect(ok).To(BeTrue())
		Expect(got).To(Equal("bleeding"))
	})

	It("should prefer the first intent in file order", func() {
		got, ok := m.Match("nose bleeding", kb)
		Expect(ok).To(BeTrue())
		Expect(got).To(Equal("nosebleed"))
	})

	It("should compare keywords case-insensitively", func() {
		got, ok := m.Match("there is blood", kb)
		Expect(ok).To(BeTrue())
		Expect(got).To(Equal("bleeding"))
	})

	It("should use the intent name when keywords are missing", func() {
		got, ok := m.Match("a burn on my leg", kb)
		Expect(ok).To(BeTrue())
		Expect(got).To(Equal("burn"))
	})

	It("should fall back to fuzzy matching", func() {
		got, ok := m.Match("chokng", kb)
		Expect(ok).To(BeTrue())
		Expect(got).To(Equal("choking"))
	})

	It("should give up below the threshold", func() {
		_, ok := m.Match("what is the weather tomorrow", kb)
		Expect(ok).To(BeFalse())
	})

	It("should not match empty input", func() {
		_, ok := m.Match("", kb)
		Expect(ok).To(BeFalse())
	})

	It("should default a non-positive threshold", func() {
		got, ok := intent.NewMatcher(0).Match("chokng", kb)
		Expect(ok).To(BeTrue())
		Expect(got).To(Equal("choking"))
	})
})

var _ = Describe("Matcher with the built-in knowledge base", func() {
	var (
		kb *knowledgebase.KnowledgeBase
		m  *intent.Matcher
	)

	BeforeEach(func() {
		store, err := knowledgebase.NewStore("")
		Expect(err).NotTo(HaveOccurred())
		kb, err = store.Load("en")
		Expect(err).NotTo(HaveOccurred())
		m = intent.NewMatcher(intent.DefaultThreshold)
	})

	DescribeTable("typos",
		func(input, want string) {
			got, ok := m.Match(input, kb)
			Expect(ok).To(BeTrue())
			Expect(got).To(Equal(want))
		},
		Entry("transposed burn", "bunr", "burn"),
		Entry("transposed burn in a sentence", "i got a bunr on my hand", "burn"),
		Entry("misspelt burnt", "my hnad got brunt", "burn"),
		Entry("transposed cut", "ctu", "minor_cut"),
		Entry("dropped letter", "chokng", "choking"),
	)

	It("should not send a cut typo to fever", func() {
		got, _ := m.Match("ctu", kb)
		Expect(got).NotTo(Equal("fever"))
	})

	It("should leave unrelated questions to the fallback", func() {
		_, ok := m.Match("what is the capital of france", kb)
		Expect(ok).To(BeFalse())
	})
})
