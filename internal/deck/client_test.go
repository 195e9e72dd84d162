package deck_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/cardforge/cardforge/internal/api"
	"github.com/cardforge/cardforge/internal/deck"
	"github.com/cardforge/cardforge/pkg/logger"
	"github.com/cardforge/cardforge/pkg/models"
)

func clientTestLogger() *logger.Logger {
	log := logger.New(
		logger.WithOutput(GinkgoWriter),
		logger.WithPrefix("[deck-test] "),
		logger.WithFlags(0),
	)
	log.SetVerbose(true)
	return log
}

var _ = Describe("Client", func() {
	var (
		server *httptest.Server
		client *deck.Client
		ctx    context.Context
	)

	newClient := func(handler http.Handler) *deck.Client {
		server = httptest.NewServer(handler)
		apiClient := api.NewClient(server.URL, "test-token", server.Client(), clientTestLogger())
		return deck.NewClient(apiClient)
	}

	BeforeEach(func() {
		ctx = context.Background()
	})

	AfterEach(func() {
		server.Close()
	})

	It("lists decks", func() {
		client = newClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer GinkgoRecover()
			Expect(r.Method).To(Equal(http.MethodGet))
			Expect(r.URL.Path).To(Equal("/decks/"))
			Expect(r.Header.Get("Authorization")).To(Equal("Bearer test-token"))

			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(`[{"id": "d1", "title": "Biology"}, {"id": "d2", "title": "History"}]`))
		}))

		decks, err := client.List(ctx)
		Expect(err).NotTo(HaveOccurred())
		Expect(decks).To(HaveLen(2))
		Expect(decks[0].Title).To(Equal("Biology"))
	})

	It("creates a deck", func() {
		client = newClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer GinkgoRecover()
			Expect(r.Method).To(Equal(http.MethodPost))
			Expect(r.URL.Path).To(Equal("/decks/"))

			var req map[string]string
			Expect(json.NewDecoder(r.Body).Decode(&req)).To(Succeed())
			Expect(req).To(HaveKeyWithValue("title", "Chemistry"))

			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusCreated)
			w.Write([]byte(`{"id": "d3", "title": "Chemistry"}`))
		}))

		created, err := client.Create(ctx, "Chemistry", "")
		Expect(err).NotTo(HaveOccurred())
		Expect(created.ID).To(Equal("d3"))
	})

	It("bulk-creates flashcards under the deck", func() {
		var body map[string][]map[string]string
		client = newClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer GinkgoRecover()
			Expect(r.Method).To(Equal(http.MethodPost))
			Expect(r.URL.Path).To(Equal("/decks/d1/flashcards/bulk/"))
			Expect(json.NewDecoder(r.Body).Decode(&body)).To(Succeed())

			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusCreated)
			w.Write([]byte(`[{"id": "f1", "deck": "d1", "front": "Q1", "back": "A1"}]`))
		}))

		drafts := []models.FlashcardDraft{
			{ID: "local-id", Front: "Q1", Back: "A1"},
		}
		created, err := client.BulkCreate(ctx, "d1", drafts)
		Expect(err).NotTo(HaveOccurred())

		Expect(created).To(HaveLen(1))
		Expect(created[0].DeckID).To(Equal("d1"))

		// The local draft id never crosses the wire.
		Expect(body["flashcards"]).To(HaveLen(1))
		Expect(body["flashcards"][0]).To(Equal(map[string]string{"front": "Q1", "back": "A1"}))
	})

	It("surfaces the backend detail on bulk failure", func() {
		client = newClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadRequest)
			w.Write([]byte(`{"detail": "Front text must not be empty."}`))
		}))

		_, err := client.BulkCreate(ctx, "d1", []models.FlashcardDraft{{Front: "", Back: "A"}})
		Expect(err).To(HaveOccurred())
		Expect(err.Error()).To(ContainSubstring("Front text must not be empty."))
	})

	Context("deleting flashcards in bulk", func() {
		It("issues every delete and settles before returning", func() {
			var mu sync.Mutex
			seen := map[string]bool{}
			client = newClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				defer GinkgoRecover()
				Expect(r.Method).To(Equal(http.MethodDelete))
				mu.Lock()
				seen[r.URL.Path] = true
				mu.Unlock()
				w.WriteHeader(http.StatusNoContent)
			}))

			err := client.DeleteFlashcards(ctx, []string{"f1", "f2", "f3"})
			Expect(err).NotTo(HaveOccurred())
			Expect(seen).To(HaveLen(3))
			Expect(seen).To(HaveKey("/flashcards/f2/"))
		})

		It("reports every failure after all deletes settle", func() {
			client = newClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if r.URL.Path == "/flashcards/bad/" {
					w.WriteHeader(http.StatusNotFound)
					w.Write([]byte(`{"detail": "Flashcard not found."}`))
					return
				}
				w.WriteHeader(http.StatusNoContent)
			}))

			err := client.DeleteFlashcards(ctx, []string{"f1", "bad", "f3"})
			Expect(err).To(HaveOccurred())
			Expect(err.Error()).To(ContainSubstring("bad"))
			Expect(err.Error()).To(ContainSubstring("Flashcard not found."))
		})
	})
})
