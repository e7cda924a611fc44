package sensing

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("ReadingSource", func() {
	It("should draw values from the configured range", func() {
		source := NewReadingSource(1, 6.0, 8.0)

		for i := 0; i < 1000; i++ {
			v := source.Next()
			Expect(v).To(BeNumerically(">=", 6.0))
			Expect(v).To(BeNumerically("<", 8.0))
		}
	})

	It("should produce the same sequence for the same seed", func() {
		source1 := NewReadingSource(42, 6.0, 8.0)
		source2 := NewReadingSource(42, 6.0, 8.0)

		for i := 0; i < 100; i++ {
			Expect(source1.Next()).To(Equal(source2.Next()))
		}
	})

	It("should produce different sequences for different seeds", func() {
		source1 := NewReadingSource(1, 6.0, 8.0)
		source2 := NewReadingSource(2, 6.0, 8.0)

		Expect(source1.Next()).NotTo(Equal(source2.Next()))
	})

	It("should panic on an inverted range", func() {
		Expect(func() { NewReadingSource(1, 8.0, 6.0) }).To(Panic())
	})
})

var _ = Describe("FormatReading", func() {
	It("should render five decimal places", func() {
		Expect(string(FormatReading(6.843119))).To(Equal("pH: 6.84312"))
		Expect(string(FormatReading(7.0))).To(Equal("pH: 7.00000"))
	})
})
