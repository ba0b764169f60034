// Janitarr - Media Library Janitor
// Copyright 2026 M. Pellat
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/mpellat/janitarr

package analysis

import (
	"github.com/dustin/go-humanize"

	"github.com/mpellat/janitarr/internal/models"
)

// CategorySummary is one category's count and accumulated size.
type CategorySummary struct {
	Count          int    `json:"count"`
	TotalSizeBytes int64  `json:"total_size_bytes"`
	TotalSize      string `json:"total_size"`
}

// Summary covers all four categories for one user's cache snapshot.
// Requests have no size concept, so their total reads "0 B".
type Summary struct {
	OldContent          CategorySummary `json:"old_content"`
	LargeMovies         CategorySummary `json:"large_movies"`
	LanguageIssues      CategorySummary `json:"language_issues"`
	UnavailableRequests CategorySummary `json:"unavailable_requests"`
}

// Summarize computes per-category counts and total sizes.
func (e *Engine) Summarize(items []models.CachedMediaItem, requests []models.CachedRequest, t models.ThresholdSettings, wl Whitelists) Summary {
	return Summary{
		OldContent:          summarizeItems(e.OldContent(items, t, wl)),
		LargeMovies:         summarizeItems(e.LargeMovies(items, t)),
		LanguageIssues:      summarizeItems(e.LanguageIssues(items, wl)),
		UnavailableRequests: summarizeRequests(e.UnavailableRequests(requests, t)),
	}
}

func summarizeItems(items []models.CachedMediaItem) CategorySummary {
	var total int64
	for i := range items {
		total += items[i].SizeBytes
	}
	return CategorySummary{
		Count:          len(items),
		TotalSizeBytes: total,
		TotalSize:      humanize.Bytes(uint64(total)),
	}
}

func summarizeRequests(requests []models.CachedRequest) CategorySummary {
	return CategorySummary{
		Count:     len(requests),
		TotalSize: humanize.Bytes(0),
	}
}
