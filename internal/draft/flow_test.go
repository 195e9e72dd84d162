package draft_test

import (
	"context"
	"strings"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/cardforge/cardforge/internal/api"
	"github.com/cardforge/cardforge/internal/config"
	"github.com/cardforge/cardforge/internal/deck"
	"github.com/cardforge/cardforge/internal/draft"
	"github.com/cardforge/cardforge/internal/generate"
	"github.com/cardforge/cardforge/internal/pdfsource"
	"github.com/cardforge/cardforge/internal/pdftest"
	"github.com/cardforge/cardforge/internal/store"
)

// Walks the whole PDF-to-deck pipeline in one sitting: upload, proposed
// window, narrowed range, assembly, generation, an edit and a delete, then
// the bulk commit and the session reset that follows it.
var _ = Describe("PDF generation flow", func() {
	It("carries a document from upload to committed cards", func() {
		fake := newFakeBackend()
		defer fake.server.Close()

		log := draftTestLogger()
		cfg := config.Default()
		ctx := context.Background()

		apiClient := api.NewClient(fake.server.URL, "", fake.server.Client(), log)
		session := draft.NewSession(
			generate.NewClient(apiClient),
			deck.NewClient(apiClient),
			cfg.Limits,
			log,
		)

		substantial := strings.TrimSpace(strings.Repeat("photosynthesis lecture notes ", 20))
		doc := pdftest.Document([]string{
			"Cover",
			substantial,
			"closing remarks on light reactions",
			"appendix",
		})

		extractor := pdfsource.NewExtractor(cfg.Limits.MaxPDFBytes, log)
		ex, err := extractor.ExtractBytes(ctx, doc, "lecture.pdf")
		Expect(err).NotTo(HaveOccurred())
		Expect(ex.SuggestedStartPage).To(Equal(2))

		selector := pdfsource.NewSelector(store.New(pdfsource.DefaultState), cfg.Limits, log)
		selector.Load(ex)
		start, end := selector.Range()
		Expect(start).To(Equal(2))
		Expect(end).To(Equal(4))

		selector.SetEnd(3)

		text, err := selector.AssembleRange()
		Expect(err).NotTo(HaveOccurred())
		Expect(text).To(ContainSubstring("photosynthesis lecture notes"))
		Expect(text).To(ContainSubstring("\n\n---\n\n"))
		Expect(text).NotTo(ContainSubstring("appendix"))

		session.SetTargetDeck("deck-1")
		Expect(session.SetSourceText(text)).To(Succeed())
		Expect(session.Generate(ctx)).To(Succeed())

		drafts := session.Drafts()
		Expect(drafts).To(HaveLen(2))

		Expect(session.EditDraft(drafts[0].ID, draft.FieldBack, "Light energy becomes chemical energy.")).To(Succeed())
		Expect(session.DeleteDraft(drafts[1].ID)).To(Succeed())

		created, err := session.Commit(ctx)
		Expect(err).NotTo(HaveOccurred())
		Expect(created).To(HaveLen(1))

		Expect(fake.lastBulkDeck).To(Equal("deck-1"))
		Expect(fake.lastBulkBody["flashcards"]).To(HaveLen(1))
		Expect(fake.lastBulkBody["flashcards"][0]).To(HaveKeyWithValue("back", "Light energy becomes chemical energy."))

		Expect(session.Drafts()).To(BeEmpty())
		Expect(session.SourceText()).To(BeEmpty())

		// The selected range stays put for a follow-up generation.
		Expect(selector.Loaded()).To(BeTrue())
		rangeStart, rangeEnd := selector.Range()
		Expect(rangeStart).To(Equal(2))
		Expect(rangeEnd).To(Equal(3))
	})
})
