package pdfsource_test

import (
	"context"
	"strings"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/cardforge/cardforge/internal/pdfsource"
	"github.com/cardforge/cardforge/internal/pdftest"
)

var _ = Describe("Extractor", func() {
	var (
		extractor *pdfsource.Extractor
		ctx       context.Context
	)

	BeforeEach(func() {
		extractor = pdfsource.NewExtractor(20<<20, selectorTestLogger())
		ctx = context.Background()
	})

	Context("extracting a text PDF", func() {
		It("returns per-page text in page order", func() {
			doc := pdftest.Document([]string{"first page text", "second page text"})

			ex, err := extractor.ExtractBytes(ctx, doc, "notes.pdf")
			Expect(err).NotTo(HaveOccurred())

			Expect(ex.TotalPages).To(Equal(2))
			Expect(ex.Pages).To(HaveLen(2))
			Expect(ex.Pages[0]).To(ContainSubstring("first page text"))
			Expect(ex.Pages[1]).To(ContainSubstring("second page text"))
			Expect(ex.Filename).To(Equal("notes.pdf"))
		})

		It("suggests the first substantial page, skipping front matter", func() {
			long := strings.TrimSpace(strings.Repeat("lecture content ", 40))
			doc := pdftest.Document([]string{"Cover", long, "more"})

			ex, err := extractor.ExtractBytes(ctx, doc, "book.pdf")
			Expect(err).NotTo(HaveOccurred())
			Expect(ex.SuggestedStartPage).To(Equal(2))
		})

		It("falls back to page one when no page is substantial", func() {
			doc := pdftest.Document([]string{"a", "b", "c"})

			ex, err := extractor.ExtractBytes(ctx, doc, "thin.pdf")
			Expect(err).NotTo(HaveOccurred())
			Expect(ex.SuggestedStartPage).To(Equal(1))
		})

		It("flags mostly-empty documents as likely scanned without failing", func() {
			doc := pdftest.Document([]string{"only page with text", "", "", "", ""})

			ex, err := extractor.ExtractBytes(ctx, doc, "scan.pdf")
			Expect(err).NotTo(HaveOccurred())
			Expect(ex.EmptyPages).To(Equal(4))
			Expect(ex.LooksScanned()).To(BeTrue())
		})

		It("does not flag documents with few empty pages", func() {
			doc := pdftest.Document([]string{"one", "two", "three", "four", "five", ""})

			ex, err := extractor.ExtractBytes(ctx, doc, "ok.pdf")
			Expect(err).NotTo(HaveOccurred())
			Expect(ex.LooksScanned()).To(BeFalse())
		})
	})

	Context("rejecting bad input", func() {
		It("rejects non-PDF filenames", func() {
			_, err := extractor.ExtractBytes(ctx, []byte("hello"), "notes.txt")
			Expect(err).To(MatchError(pdfsource.ErrNotPDF))
		})

		It("rejects uploads above the size ceiling", func() {
			small := pdfsource.NewExtractor(10, selectorTestLogger())

			_, err := small.ExtractBytes(ctx, pdftest.Document([]string{"text"}), "big.pdf")
			Expect(err).To(MatchError(pdfsource.ErrFileTooLarge))
		})

		It("fails on corrupt data", func() {
			_, err := extractor.ExtractBytes(ctx, []byte("definitely not a pdf"), "broken.pdf")
			Expect(err).To(MatchError(pdfsource.ErrExtractionFailed))
		})

		It("fails when no page has extractable text", func() {
			doc := pdftest.Document([]string{"", "", ""})

			_, err := extractor.ExtractBytes(ctx, doc, "images.pdf")
			Expect(err).To(MatchError(pdfsource.ErrExtractionFailed))
		})
	})

	It("stops when the context is cancelled", func() {
		cancelled, cancel := context.WithCancel(ctx)
		cancel()

		_, err := extractor.ExtractBytes(cancelled, pdftest.Document([]string{"text"}), "notes.pdf")
		Expect(err).To(MatchError(context.Canceled))
	})
})
