package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"strconv"
	"strings"

	"github.com/cardforge/cardforge/internal/api"
	"github.com/cardforge/cardforge/internal/config"
	"github.com/cardforge/cardforge/internal/deck"
	"github.com/cardforge/cardforge/internal/draft"
	"github.com/cardforge/cardforge/internal/generate"
	"github.com/cardforge/cardforge/internal/pdfsource"
	"github.com/cardforge/cardforge/internal/store"
	"github.com/cardforge/cardforge/internal/youtube"
	"github.com/cardforge/cardforge/pkg/logger"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to config file")
	deckID := flag.String("deck", "", "target deck id")
	deckTitle := flag.String("deck-title", "", "create a deck with this title and use it as the target")
	textFile := flag.String("text-file", "", "path to a plain-text source file")
	pdfPath := flag.String("pdf", "", "path to a PDF source file")
	pages := flag.String("pages", "", "PDF page range, e.g. 3-12 (defaults to the suggested window)")
	youtubeURL := flag.String("youtube", "", "YouTube video URL")
	timeRange := flag.String("range", "", "YouTube time range in seconds, e.g. 600-2400 (segmented videos)")
	dryRun := flag.Bool("dry-run", false, "generate and print drafts without committing")
	verbose := flag.Bool("verbose", false, "enable verbose logging")
	flag.Parse()

	log := logger.New(logger.WithPrefix("[cardforge] "))
	log.SetVerbose(*verbose)

	cfg, err := config.Load(*configPath)
	if err != nil {
		if !os.IsNotExist(err) {
			log.Fatal("Error loading config: %v", err)
		}
		cfg = config.Default()
	}

	ctx := context.Background()
	apiClient := api.NewClient(cfg.API.BaseURL, cfg.API.Token, &http.Client{Timeout: cfg.API.Timeout}, log)
	decks := deck.NewClient(apiClient)
	session := draft.NewSession(generate.NewClient(apiClient), decks, cfg.Limits, log)

	switch {
	case *deckID != "":
		session.SetTargetDeck(*deckID)
	case *deckTitle != "":
		created, err := decks.Create(ctx, *deckTitle, "")
		if err != nil {
			log.Fatal("Error creating deck: %v", err)
		}
		log.Info("Created deck %s (%s)", created.Title, created.ID)
		session.SetTargetDeck(created.ID)
	default:
		log.Fatal("A target deck is required: pass -deck or -deck-title")
	}

	switch {
	case *textFile != "":
		data, err := os.ReadFile(*textFile)
		if err != nil {
			log.Fatal("Error reading %s: %v", *textFile, err)
		}
		if err := session.SetSourceText(strings.TrimSpace(string(data))); err != nil {
			log.Fatal("Error: %v", err)
		}
		if err := session.Generate(ctx); err != nil {
			log.Fatal("Generation failed: %v", err)
		}

	case *pdfPath != "":
		runPDF(ctx, cfg, log, session, *pdfPath, *pages)

	case *youtubeURL != "":
		runYoutube(ctx, cfg, log, apiClient, session, *youtubeURL, *timeRange)

	default:
		log.Fatal("A source is required: pass -text-file, -pdf or -youtube")
	}

	drafts := session.Drafts()
	for i, d := range drafts {
		fmt.Printf("--- Card %d ---\nQ: %s\nA: %s\n\n", i+1, d.Front, d.Back)
	}

	if *dryRun {
		log.Info("Dry run: %d drafts not committed", len(drafts))
		return
	}

	created, err := session.Commit(ctx)
	if err != nil {
		log.Fatal("Commit failed: %v", err)
	}
	log.Info("Saved %d cards to deck %s", len(created), session.TargetDeck())
}

func runPDF(ctx context.Context, cfg *config.Config, log *logger.Logger, session *draft.Session, path, pages string) {
	extractor := pdfsource.NewExtractor(cfg.Limits.MaxPDFBytes, log)
	selector := pdfsource.NewSelector(store.New(pdfsource.DefaultState), cfg.Limits, log)

	ex, err := extractor.ExtractFile(ctx, path)
	if err != nil {
		log.Fatal("PDF extraction failed: %v", err)
	}
	selector.Load(ex)

	if pages != "" {
		start, end, err := parseRange(pages)
		if err != nil {
			log.Fatal("Invalid -pages: %v", err)
		}
		selector.SetEnd(end)
		selector.SetStart(start)
		selector.SetEnd(end)
	}

	start, end := selector.Range()
	lo, hi := selector.EstimatedCards()
	log.Info("Pages %d-%d selected, ~%d-%d cards estimated", start, end, lo, hi)

	switch selector.RangeWarning() {
	case pdfsource.RangeVeryLarge:
		log.Warn("%d pages is a lot to process at once, card quality may suffer", end-start+1)
	case pdfsource.RangeLarge:
		log.Warn("Large selection, consider narrowing the range")
	}

	text, err := selector.AssembleRange()
	if err != nil {
		log.Fatal("Error: %v", err)
	}
	if err := session.SetSourceText(text); err != nil {
		log.Fatal("Error: %v", err)
	}
	if err := session.Generate(ctx); err != nil {
		log.Fatal("Generation failed: %v", err)
	}
}

func runYoutube(ctx context.Context, cfg *config.Config, log *logger.Logger, apiClient *api.Client, session *draft.Session, url, timeRange string) {
	yt := youtube.NewSession(store.New(youtube.DefaultState), youtube.NewClient(apiClient), cfg.Limits, log)

	if err := yt.Extract(ctx, url); err != nil {
		log.Fatal("Error: %v", err)
	}

	if yt.Phase() == youtube.PhaseNeedsRange {
		if timeRange == "" {
			st := yt.State()
			log.Fatal("Transcript is too large to process at once (%d seconds of video). Pass -range start-end to select a segment.", st.TotalDurationSeconds)
		}
		start, end, err := parseRange(timeRange)
		if err != nil {
			log.Fatal("Invalid -range: %v", err)
		}
		start, end = yt.SetRange(start, end)
		log.Info("Selected segment %ds-%ds", start, end)
		if preview, ok := yt.PreviewAt(start); ok {
			log.Debug("At start: %s", preview)
		}
		for _, w := range yt.SegmentWarnings() {
			switch w {
			case youtube.WarnVeryLongSegment:
				log.Warn("Very long segment, work through the video in 60-minute sections for best results")
			case youtube.WarnLongSegment:
				log.Warn("Long segment, card quality may vary")
			case youtube.WarnProjectedOverflow:
				log.Warn("This segment may exceed the %d character limit", cfg.Limits.YoutubeMaxChars)
			}
		}
	}

	if err := session.GenerateFromYoutube(ctx, yt); err != nil {
		log.Fatal("Generation failed: %v", err)
	}
}

func parseRange(s string) (int, int, error) {
	parts := strings.SplitN(s, "-", 2)
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("expected start-end, got %q", s)
	}
	start, err := strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil {
		return 0, 0, fmt.Errorf("bad start %q", parts[0])
	}
	end, err := strconv.Atoi(strings.TrimSpace(parts[1]))
	if err != nil {
		return 0, 0, fmt.Errorf("bad end %q", parts[1])
	}
	if start > end {
		return 0, 0, fmt.Errorf("start %d is after end %d", start, end)
	}
	return start, end, nil
}
