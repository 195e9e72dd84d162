// Package draft holds the generation session: the source text, the editable
// draft list, and the bulk commit against a target deck. Drafts live only in
// memory; they become real flashcards on commit and vanish on clear.
package draft

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/cardforge/cardforge/internal/config"
	"github.com/cardforge/cardforge/internal/deck"
	"github.com/cardforge/cardforge/internal/generate"
	"github.com/cardforge/cardforge/internal/youtube"
	"github.com/cardforge/cardforge/pkg/logger"
	"github.com/cardforge/cardforge/pkg/models"
)

var (
	ErrNoDeckSelected  = errors.New("no target deck selected")
	ErrNothingToCommit = errors.New("no drafts to commit")
	ErrTextTooShort    = errors.New("source text is below the minimum length")
	ErrTextTooLarge    = errors.New("source text exceeds the character limit")
	ErrDraftNotFound   = errors.New("draft not found")
)

// Field addresses one side of a draft in EditDraft.
type Field string

const (
	FieldFront Field = "front"
	FieldBack  Field = "back"
)

// Session is the aggregate for one generation workflow. Drafts are addressed
// by a locally assigned id rather than list position, so a delete can never
// silently redirect an in-flight edit to the wrong card.
type Session struct {
	generator *generate.Client
	decks     *deck.Client
	limits    config.Limits
	log       *logger.Logger

	sourceText   string
	drafts       []models.FlashcardDraft
	targetDeckID string
	isGenerating bool
	isSaving     bool
}

func NewSession(generator *generate.Client, decks *deck.Client, limits config.Limits, log *logger.Logger) *Session {
	return &Session{
		generator: generator,
		decks:     decks,
		limits:    limits,
		log:       log,
	}
}

func (s *Session) SetTargetDeck(id string) {
	s.targetDeckID = id
}

func (s *Session) TargetDeck() string {
	return s.targetDeckID
}

// SetSourceText installs pasted or assembled text, bounded by the paste/PDF
// ceiling.
func (s *Session) SetSourceText(text string) error {
	if len(text) > s.limits.MaxChars {
		return fmt.Errorf("%w: %d chars (limit %d)", ErrTextTooLarge, len(text), s.limits.MaxChars)
	}
	s.sourceText = text
	return nil
}

func (s *Session) SourceText() string {
	return s.sourceText
}

func (s *Session) Drafts() []models.FlashcardDraft {
	out := make([]models.FlashcardDraft, len(s.drafts))
	copy(out, s.drafts)
	return out
}

func (s *Session) IsGenerating() bool { return s.isGenerating }
func (s *Session) IsSaving() bool     { return s.isSaving }

// Generate produces drafts from the session's source text. The deck gate and
// the length checks run before any network call; on service failure the
// existing draft list is left untouched.
func (s *Session) Generate(ctx context.Context) error {
	if s.targetDeckID == "" {
		return ErrNoDeckSelected
	}
	if len(s.sourceText) < s.limits.MinChars {
		return ErrTextTooShort
	}
	if len(s.sourceText) > s.limits.MaxChars {
		return ErrTextTooLarge
	}
	return s.generateFrom(ctx, s.sourceText)
}

// GenerateFromYoutube runs phase 2 of the YouTube flow: deck gate first, then
// segment resolution (which may fetch), then generation. On success the
// YouTube session applies its one-shot/retained reset rule.
func (s *Session) GenerateFromYoutube(ctx context.Context, yt *youtube.Session) error {
	if s.targetDeckID == "" {
		return ErrNoDeckSelected
	}
	text, err := yt.ResolveText(ctx)
	if err != nil {
		return err
	}
	if err := s.generateFrom(ctx, text); err != nil {
		return err
	}
	yt.FinishGeneration()
	return nil
}

func (s *Session) generateFrom(ctx context.Context, text string) error {
	if s.targetDeckID == "" {
		return ErrNoDeckSelected
	}

	s.isGenerating = true
	defer func() { s.isGenerating = false }()

	drafts, err := s.generator.Generate(ctx, text)
	if err != nil {
		return err
	}

	for i := range drafts {
		drafts[i].ID = uuid.NewString()
	}

	// Wholesale replacement: a new generation never appends to the old list.
	s.drafts = drafts
	s.log.Info("Generated %d drafts", len(drafts))
	return nil
}

// EditDraft updates one field of the draft with the given id.
func (s *Session) EditDraft(id string, field Field, value string) error {
	for i := range s.drafts {
		if s.drafts[i].ID != id {
			continue
		}
		switch field {
		case FieldFront:
			s.drafts[i].Front = value
		case FieldBack:
			s.drafts[i].Back = value
		default:
			return fmt.Errorf("unknown field %q", field)
		}
		return nil
	}
	return fmt.Errorf("%w: %s", ErrDraftNotFound, id)
}

// DeleteDraft removes the draft with the given id. No undo.
func (s *Session) DeleteDraft(id string) error {
	for i := range s.drafts {
		if s.drafts[i].ID == id {
			s.drafts = append(s.drafts[:i], s.drafts[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("%w: %s", ErrDraftNotFound, id)
}

// Commit persists every surviving draft to the target deck in one atomic bulk
// operation. Preconditions fail locally without a network call. On success
// the whole session resets; on failure drafts stay intact for retry.
func (s *Session) Commit(ctx context.Context) ([]models.Flashcard, error) {
	if s.targetDeckID == "" {
		return nil, ErrNoDeckSelected
	}
	if len(s.drafts) == 0 {
		return nil, ErrNothingToCommit
	}

	s.isSaving = true
	defer func() { s.isSaving = false }()

	created, err := s.decks.BulkCreate(ctx, s.targetDeckID, s.drafts)
	if err != nil {
		return nil, err
	}

	s.log.Info("Committed %d cards to deck %s", len(created), s.targetDeckID)
	s.Clear()
	return created, nil
}

// Clear discards the source text and the draft list.
func (s *Session) Clear() {
	s.sourceText = ""
	s.drafts = nil
}
