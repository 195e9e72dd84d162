package pdfsource

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/cardforge/cardforge/internal/config"
	"github.com/cardforge/cardforge/internal/store"
	"github.com/cardforge/cardforge/pkg/logger"
)

// pageSeparator is inserted between pages when a range is assembled into a
// single editor blob, so page boundaries stay visible to the user.
const pageSeparator = "\n\n---\n\n"

const previewChars = 600

var (
	ErrRangeTooLarge = errors.New("selected pages exceed the character limit")
	ErrNoDocument    = errors.New("no PDF loaded")
)

// RangeWarning grades a page selection. Warnings are advisory only.
type RangeWarning int

const (
	RangeOK        RangeWarning = iota
	RangeLarge                  // 11-15 pages
	RangeVeryLarge              // 16+ pages
)

// State is the cross-navigation PDF state: everything needed to re-mount the
// page-range step exactly where the user left it.
type State struct {
	Pages          []string
	TotalPages     int
	Filename       string
	SuggestedStart int
	PageStart      int
	PageEnd        int
}

func DefaultState() State {
	return State{
		SuggestedStart: 1,
		PageStart:      1,
		PageEnd:        1,
	}
}

// Selector owns the page-range selection step. All range mutations clamp so
// that 1 <= PageStart <= PageEnd <= TotalPages holds after any sequence of
// edits.
type Selector struct {
	store  *store.Store[State]
	limits config.Limits
	log    *logger.Logger
}

func NewSelector(st *store.Store[State], limits config.Limits, log *logger.Logger) *Selector {
	return &Selector{
		store:  st,
		limits: limits,
		log:    log,
	}
}

func (s *Selector) State() State {
	return s.store.Get()
}

// Loaded reports whether a document is currently held.
func (s *Selector) Loaded() bool {
	return len(s.store.Get().Pages) > 0
}

// Load installs a fresh extraction and proposes an initial ten-page window
// starting at the suggested page.
func (s *Selector) Load(ex *Extraction) {
	end := ex.SuggestedStartPage + proposedWindowPages - 1
	if end > ex.TotalPages {
		end = ex.TotalPages
	}
	s.store.Set(func(st *State) {
		st.Pages = ex.Pages
		st.TotalPages = ex.TotalPages
		st.Filename = ex.Filename
		st.SuggestedStart = ex.SuggestedStartPage
		st.PageStart = ex.SuggestedStartPage
		st.PageEnd = end
	})
	s.log.Info("Loaded %s: %d pages, proposed range %d-%d", ex.Filename, ex.TotalPages, ex.SuggestedStartPage, end)
}

func (s *Selector) Reset() {
	s.store.Reset()
}

// SetStart moves the range start, clamped to [1, PageEnd].
func (s *Selector) SetStart(v int) {
	s.store.Set(func(st *State) {
		if st.TotalPages == 0 {
			return
		}
		st.PageStart = clamp(v, 1, st.PageEnd)
	})
}

// SetEnd moves the range end, clamped to [PageStart, TotalPages].
func (s *Selector) SetEnd(v int) {
	s.store.Set(func(st *State) {
		if st.TotalPages == 0 {
			return
		}
		st.PageEnd = clamp(v, st.PageStart, st.TotalPages)
	})
}

// StepStart is the -/+ stepper for the start bound.
func (s *Selector) StepStart(delta int) {
	s.SetStart(s.store.Get().PageStart + delta)
}

// StepEnd is the -/+ stepper for the end bound.
func (s *Selector) StepEnd(delta int) {
	s.SetEnd(s.store.Get().PageEnd + delta)
}

func (s *Selector) Range() (start, end int) {
	st := s.store.Get()
	return st.PageStart, st.PageEnd
}

// PagePreview returns a snippet of the page's text for display next to the
// steppers. ok is false when the page has no detectable text.
func (s *Selector) PagePreview(page int) (snippet string, ok bool) {
	st := s.store.Get()
	if page < 1 || page > len(st.Pages) {
		return "", false
	}
	text := strings.TrimSpace(st.Pages[page-1])
	if text == "" {
		return "", false
	}
	if len(text) > previewChars {
		return text[:previewChars] + "…", true
	}
	return text, true
}

// EstimatedCards returns the advisory card-count range for the current
// selection. The backend is not bound by it.
func (s *Selector) EstimatedCards() (lo, hi int) {
	st := s.store.Get()
	if len(st.Pages) == 0 {
		return 5, 10
	}
	selected := strings.Join(st.Pages[st.PageStart-1:st.PageEnd], " ")
	words := len(strings.Fields(selected))
	raw := int(math.Round(float64(words)/80.0/5.0)) * 5
	if raw < 5 {
		raw = 5
	}
	return raw, raw + 5
}

// RangeWarning grades the size of the current selection.
func (s *Selector) RangeWarning() RangeWarning {
	start, end := s.Range()
	switch pages := end - start + 1; {
	case pages >= 16:
		return RangeVeryLarge
	case pages >= 11:
		return RangeLarge
	default:
		return RangeOK
	}
}

// AssembleRange joins the selected pages into a single editor blob: pages
// separated by pageSeparator, null and control bytes stripped, whitespace
// trimmed. Fails with ErrRangeTooLarge when the result exceeds the character
// ceiling. The PDF state is retained so the range can be adjusted afterwards.
func (s *Selector) AssembleRange() (string, error) {
	st := s.store.Get()
	if len(st.Pages) == 0 {
		return "", ErrNoDocument
	}
	joined := strings.Join(st.Pages[st.PageStart-1:st.PageEnd], pageSeparator)
	cleaned := strings.TrimSpace(stripControl(joined))
	if len(cleaned) > s.limits.MaxChars {
		return "", fmt.Errorf("%w: %d chars (limit %d), narrow the page range",
			ErrRangeTooLarge, len(cleaned), s.limits.MaxChars)
	}
	s.log.Info("Assembled pages %d-%d (%d chars)", st.PageStart, st.PageEnd, len(cleaned))
	return cleaned, nil
}

// stripControl removes null bytes and C0 control codes except tab, newline,
// form feed and carriage return, plus DEL.
func stripControl(text string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r == '\t', r == '\n', r == '\f', r == '\r':
			return r
		case r < 0x20, r == 0x7F:
			return -1
		default:
			return r
		}
	}, text)
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
