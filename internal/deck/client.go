// Package deck is the client of the deck/flashcard persistence service. The
// generation pipeline consumes it as a collaborator: decks are targets for
// bulk commits, flashcards are the committed records.
package deck

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/cardforge/cardforge/internal/api"
	"github.com/cardforge/cardforge/pkg/models"
)

type Client struct {
	api *api.Client
}

func NewClient(apiClient *api.Client) *Client {
	return &Client{api: apiClient}
}

func (c *Client) List(ctx context.Context) ([]models.Deck, error) {
	var decks []models.Deck
	if err := c.api.GetJSON(ctx, "/decks/", &decks); err != nil {
		return nil, fmt.Errorf("failed to list decks: %w", err)
	}
	return decks, nil
}

func (c *Client) Get(ctx context.Context, id string) (*models.Deck, error) {
	var deck models.Deck
	if err := c.api.GetJSON(ctx, "/decks/"+id+"/", &deck); err != nil {
		return nil, fmt.Errorf("failed to get deck %s: %w", id, err)
	}
	return &deck, nil
}

func (c *Client) Create(ctx context.Context, title, description string) (*models.Deck, error) {
	req := struct {
		Title       string `json:"title"`
		Description string `json:"description"`
	}{Title: title, Description: description}

	var deck models.Deck
	if err := c.api.PostJSON(ctx, "/decks/", req, &deck); err != nil {
		return nil, fmt.Errorf("failed to create deck: %w", err)
	}
	return &deck, nil
}

func (c *Client) Delete(ctx context.Context, id string) error {
	if err := c.api.Delete(ctx, "/decks/"+id+"/"); err != nil {
		return fmt.Errorf("failed to delete deck %s: %w", id, err)
	}
	return nil
}

// BulkCreate persists all drafts to the deck in one operation. The service
// guarantees all-or-nothing semantics at the persistence boundary; the client
// does not attempt partial-success reconciliation.
func (c *Client) BulkCreate(ctx context.Context, deckID string, drafts []models.FlashcardDraft) ([]models.Flashcard, error) {
	req := struct {
		Flashcards []models.FlashcardDraft `json:"flashcards"`
	}{Flashcards: drafts}

	var created []models.Flashcard
	if err := c.api.PostJSON(ctx, "/decks/"+deckID+"/flashcards/bulk/", req, &created); err != nil {
		return nil, fmt.Errorf("bulk create failed: %w", err)
	}
	return created, nil
}

func (c *Client) DeleteFlashcard(ctx context.Context, id string) error {
	if err := c.api.Delete(ctx, "/flashcards/"+id+"/"); err != nil {
		return fmt.Errorf("failed to delete flashcard %s: %w", id, err)
	}
	return nil
}

// DeleteFlashcards issues one delete per id concurrently and waits for all of
// them to settle before reporting. Partial failures are not reconciled
// per-item; the joined error carries every failure.
func (c *Client) DeleteFlashcards(ctx context.Context, ids []string) error {
	var wg sync.WaitGroup
	errs := make([]error, len(ids))

	for i, id := range ids {
		wg.Add(1)
		go func(i int, id string) {
			defer wg.Done()
			errs[i] = c.DeleteFlashcard(ctx, id)
		}(i, id)
	}
	wg.Wait()

	return errors.Join(errs...)
}
