// Package generate is the client of the draft-generation service: it turns a
// bounded source text into an ordered list of flashcard drafts. The service
// is stateless and knows nothing about decks.
package generate

import (
	"context"
	"fmt"

	"github.com/cardforge/cardforge/internal/api"
	"github.com/cardforge/cardforge/pkg/models"
)

type Client struct {
	api *api.Client
}

func NewClient(apiClient *api.Client) *Client {
	return &Client{api: apiClient}
}

// Generate returns drafts in the order the service produced them. Draft
// identity is assigned by the caller; the wire format is front/back only.
func (c *Client) Generate(ctx context.Context, text string) ([]models.FlashcardDraft, error) {
	req := struct {
		Text string `json:"text"`
	}{Text: text}

	var drafts []models.FlashcardDraft
	if err := c.api.PostJSON(ctx, "/generate/", req, &drafts); err != nil {
		return nil, fmt.Errorf("draft generation failed: %w", err)
	}
	return drafts, nil
}
