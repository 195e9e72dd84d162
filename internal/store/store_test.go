package store_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/cardforge/cardforge/internal/store"
)

type navState struct {
	Name  string
	Count int
	Items []string
}

func defaults() navState {
	return navState{Name: "initial", Count: 1}
}

var _ = Describe("Store", func() {
	var s *store.Store[navState]

	BeforeEach(func() {
		s = store.New(defaults)
	})

	It("starts at its defaults", func() {
		Expect(s.Get()).To(Equal(navState{Name: "initial", Count: 1}))
	})

	It("applies partial updates without touching other fields", func() {
		s.Set(func(st *navState) {
			st.Count = 42
		})

		got := s.Get()
		Expect(got.Count).To(Equal(42))
		Expect(got.Name).To(Equal("initial"))
	})

	It("keeps state across repeated reads", func() {
		s.Set(func(st *navState) {
			st.Items = append(st.Items, "a", "b")
		})

		Expect(s.Get().Items).To(Equal([]string{"a", "b"}))
		Expect(s.Get().Items).To(Equal([]string{"a", "b"}))
	})

	It("restores defaults on reset", func() {
		s.Set(func(st *navState) {
			st.Name = "changed"
			st.Count = 9
			st.Items = []string{"x"}
		})

		s.Reset()

		Expect(s.Get()).To(Equal(navState{Name: "initial", Count: 1}))
	})

	It("does not share state between instances", func() {
		other := store.New(defaults)
		s.Set(func(st *navState) {
			st.Name = "mine"
		})

		Expect(other.Get().Name).To(Equal("initial"))
	})
})
