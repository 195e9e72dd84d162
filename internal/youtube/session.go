package youtube

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/cardforge/cardforge/internal/config"
	"github.com/cardforge/cardforge/internal/store"
	"github.com/cardforge/cardforge/pkg/logger"
)

// Rough transcript density used to project the character count of a selected
// span before it is fetched.
const estimatedCharsPerMinute = 800

const (
	longSegmentMinutes     = 61
	veryLongSegmentMinutes = 91
)

var (
	ErrNoURL        = errors.New("no YouTube URL provided")
	ErrNoVideo      = errors.New("no video loaded")
	ErrTextTooShort = errors.New("transcript is too short to generate flashcards")
	ErrTextTooLarge = errors.New("transcript exceeds the character limit")
)

// Phase is where the two-phase protocol currently stands.
type Phase int

const (
	PhaseNoVideo Phase = iota
	PhaseShortReady
	PhaseNeedsRange
)

// SegmentWarning is an advisory about the selected time range. Warnings never
// block generation.
type SegmentWarning int

const (
	WarnLongSegment SegmentWarning = iota + 1
	WarnVeryLongSegment
	WarnProjectedOverflow
)

// State is the cross-navigation YouTube state. Text is populated immediately
// for short transcripts; for segmented videos it is a cache of the last
// fetched segment, valid only while FetchedStart/FetchedEnd still match the
// selected range.
type State struct {
	VideoID              string
	URL                  string
	TotalDurationSeconds int
	NeedsSegmentation    bool
	Minutes              []MinutePreview
	Text                 string
	CharCount            int
	StartSeconds         int
	EndSeconds           int

	FetchedStart int
	FetchedEnd   int
}

func DefaultState() State {
	return State{}
}

// Session drives the two-phase transcript protocol against the collaborator
// service and owns the cross-navigation YouTube state.
type Session struct {
	store  *store.Store[State]
	client *Client
	limits config.Limits
	log    *logger.Logger
}

func NewSession(st *store.Store[State], client *Client, limits config.Limits, log *logger.Logger) *Session {
	return &Session{
		store:  st,
		client: client,
		limits: limits,
		log:    log,
	}
}

func (s *Session) State() State {
	return s.store.Get()
}

func (s *Session) Phase() Phase {
	st := s.store.Get()
	switch {
	case st.VideoID == "":
		return PhaseNoVideo
	case st.NeedsSegmentation:
		return PhaseNeedsRange
	default:
		return PhaseShortReady
	}
}

func (s *Session) Reset() {
	s.store.Reset()
}

// Extract is phase 1. On success the state holds either a complete short
// transcript (ShortReady) or segmentation metadata with an intentionally
// empty text (NeedsRange). On failure the URL is retained so the user can
// correct it without re-typing, and the phase stays NoVideo.
func (s *Session) Extract(ctx context.Context, url string) error {
	url = strings.TrimSpace(url)
	if url == "" {
		return ErrNoURL
	}

	s.store.Set(func(st *State) {
		st.URL = url
	})

	resp, err := s.client.Extract(ctx, url)
	if err != nil {
		return fmt.Errorf("transcript extraction failed: %w", err)
	}

	s.store.Set(func(st *State) {
		st.VideoID = resp.VideoID
		st.TotalDurationSeconds = resp.TotalDurationSeconds
		st.NeedsSegmentation = resp.NeedsSegmentation
		st.Minutes = resp.Minutes
		st.StartSeconds = resp.StartSeconds
		if resp.NeedsSegmentation {
			// Default to the full duration: the user must actively narrow the
			// range instead of unknowingly generating from a truncated
			// transcript.
			st.EndSeconds = resp.TotalDurationSeconds
			st.Text = ""
			st.CharCount = 0
		} else {
			st.EndSeconds = resp.EndSeconds
			st.Text = resp.Text
			st.CharCount = resp.CharCount
		}
		st.FetchedStart = 0
		st.FetchedEnd = 0
	})

	if resp.NeedsSegmentation {
		s.log.Info("Video %s is %ds — transcript requires a time range", resp.VideoID, resp.TotalDurationSeconds)
	} else {
		s.log.Info("Transcript loaded for %s (%d chars)", resp.VideoID, resp.CharCount)
	}
	return nil
}

// SetRange moves the segment bounds, clamped to [0, TotalDurationSeconds]
// with the minimum gap kept between them, and invalidates any cached segment
// text so the next generate re-fetches.
func (s *Session) SetRange(start, end int) (int, int) {
	gap := s.limits.MinRangeGapSeconds
	var outStart, outEnd int
	s.store.Set(func(st *State) {
		total := st.TotalDurationSeconds
		if start < 0 {
			start = 0
		}
		if end > total {
			end = total
		}
		if end-start < gap {
			end = start + gap
			if end > total {
				end = total
				start = end - gap
				if start < 0 {
					start = 0
				}
			}
		}
		st.StartSeconds = start
		st.EndSeconds = end
		st.Text = ""
		st.CharCount = 0
		outStart, outEnd = start, end
	})
	return outStart, outEnd
}

// PreviewAt resolves the transcript snippet for the minute bucket containing
// the timestamp. ok is false when there is no transcript at that timestamp.
func (s *Session) PreviewAt(seconds int) (preview string, ok bool) {
	minute := seconds / 60
	for _, m := range s.store.Get().Minutes {
		if m.Minute == minute {
			if m.Preview == "" {
				return "", false
			}
			return m.Preview, true
		}
	}
	return "", false
}

// SegmentWarnings grades the selected span. Only meaningful in NeedsRange.
func (s *Session) SegmentWarnings() []SegmentWarning {
	st := s.store.Get()
	selectedMinutes := int(math.Round(float64(st.EndSeconds-st.StartSeconds) / 60))

	var warnings []SegmentWarning
	switch {
	case selectedMinutes >= veryLongSegmentMinutes:
		warnings = append(warnings, WarnVeryLongSegment)
	case selectedMinutes >= longSegmentMinutes:
		warnings = append(warnings, WarnLongSegment)
	}
	if selectedMinutes*estimatedCharsPerMinute > s.limits.YoutubeMaxChars {
		warnings = append(warnings, WarnProjectedOverflow)
	}
	return warnings
}

// ResolveText returns the transcript text to generate from, fetching the
// selected segment first when the video is segmented and no valid cached text
// exists. A failed segment fetch leaves the selected range untouched so the
// user can retry. The returned text is validated against the minimum and the
// YouTube ceiling before any generation call.
func (s *Session) ResolveText(ctx context.Context) (string, error) {
	st := s.store.Get()
	if st.VideoID == "" {
		return "", ErrNoVideo
	}

	if st.NeedsSegmentation && !s.cacheValid(st) {
		resp, err := s.client.ExtractSegment(ctx, st.URL, st.StartSeconds, st.EndSeconds)
		if err != nil {
			return "", fmt.Errorf("segment extraction failed: %w", err)
		}
		s.store.Set(func(cur *State) {
			cur.Text = resp.Text
			cur.CharCount = resp.CharCount
			cur.FetchedStart = st.StartSeconds
			cur.FetchedEnd = st.EndSeconds
		})
		s.log.Info("Fetched segment %d-%ds (%d chars)", st.StartSeconds, st.EndSeconds, resp.CharCount)
		st = s.store.Get()
	}

	text := st.Text
	if len(text) < s.limits.MinChars {
		return "", ErrTextTooShort
	}
	if len(text) > s.limits.YoutubeMaxChars {
		return "", fmt.Errorf("%w: %d chars (limit %d)", ErrTextTooLarge, len(text), s.limits.YoutubeMaxChars)
	}
	return text, nil
}

// FinishGeneration applies the post-generation reset rule: a short video is a
// one-shot flow and resets to NoVideo, a segmented video keeps its state so
// the range can be adjusted and generation repeated.
func (s *Session) FinishGeneration() {
	if !s.store.Get().NeedsSegmentation {
		s.Reset()
	}
}

func (s *Session) cacheValid(st State) bool {
	return st.Text != "" && st.FetchedStart == st.StartSeconds && st.FetchedEnd == st.EndSeconds
}
