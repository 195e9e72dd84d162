package youtube

import (
	"context"

	"github.com/cardforge/cardforge/internal/api"
)

// MinutePreview is the backend's per-minute transcript snippet, used for the
// range-selection previews.
type MinutePreview struct {
	Minute  int    `json:"minute"`
	Start   int    `json:"start"`
	Preview string `json:"preview"`
}

// ExtractResponse is the transcript service's answer for both phases of the
// protocol. Phase 1 (no range) fills every field for short transcripts and
// leaves Text empty when NeedsSegmentation is set; phase 2 (with a range)
// only Text and CharCount matter.
type ExtractResponse struct {
	VideoID              string          `json:"video_id"`
	TotalDurationSeconds int             `json:"total_duration_seconds"`
	NeedsSegmentation    bool            `json:"needs_segmentation"`
	Minutes              []MinutePreview `json:"minutes"`
	StartSeconds         int             `json:"start_seconds"`
	EndSeconds           int             `json:"end_seconds"`
	Text                 string          `json:"text"`
	CharCount            int             `json:"char_count"`
}

type Client struct {
	api *api.Client
}

func NewClient(apiClient *api.Client) *Client {
	return &Client{api: apiClient}
}

// Extract is phase 1: resolve a URL to full transcript metadata. The server
// decides segmentation by full-transcript character count, not duration.
func (c *Client) Extract(ctx context.Context, url string) (*ExtractResponse, error) {
	req := struct {
		URL string `json:"url"`
	}{URL: url}

	var resp ExtractResponse
	if err := c.api.PostJSON(ctx, "/extract/youtube/", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// ExtractSegment is phase 2: fetch the transcript text for a time range of a
// segmented video.
func (c *Client) ExtractSegment(ctx context.Context, url string, startSeconds, endSeconds int) (*ExtractResponse, error) {
	req := struct {
		URL          string `json:"url"`
		StartSeconds int    `json:"start_seconds"`
		EndSeconds   int    `json:"end_seconds"`
	}{URL: url, StartSeconds: startSeconds, EndSeconds: endSeconds}

	var resp ExtractResponse
	if err := c.api.PostJSON(ctx, "/extract/youtube/", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}
