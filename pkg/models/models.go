package models

import (
	"time"
)

// FlashcardDraft is an unpersisted card candidate returned by the generation
// service. ID is assigned locally when the draft enters an editing session and
// never leaves the process; the wire format carries only front/back.
type FlashcardDraft struct {
	ID    string `json:"-"`
	Front string `json:"front"`
	Back  string `json:"back"`
}

// Deck is a persisted deck record owned by the deck service.
type Deck struct {
	ID             string    `json:"id"`
	Title          string    `json:"title"`
	Description    string    `json:"description"`
	FlashcardCount int       `json:"flashcard_count"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// Flashcard is a persisted card as returned by the deck service after a
// bulk create.
type Flashcard struct {
	ID        string    `json:"id"`
	DeckID    string    `json:"deck"`
	Front     string    `json:"front"`
	Back      string    `json:"back"`
	Order     int       `json:"order"`
	CreatedAt time.Time `json:"created_at"`
}
