// Janitarr - Media Library Janitor
// Copyright 2026 M. Pellat
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/mpellat/janitarr

// Package models defines the data structures shared across Janitarr:
// cached upstream records, sync state, whitelist entries, and the
// API response envelope.
package models

import (
	"strings"
	"time"

	"github.com/goccy/go-json"
)

// Media types as reported by Jellyfin and normalized into the cache.
const (
	MediaTypeMovie  = "movie"
	MediaTypeSeries = "series"
)

// CachedMediaItem is one row of the per-user media cache. Rows are
// replaced wholesale on every successful sync and individually removed
// when the underlying item is deleted through the janitor.
//
// RawData retains the full upstream Jellyfin payload so fields that were
// not promoted to columns (provider ids, media streams) stay available.
// Access it only through the narrow accessor methods below; they apply
// the defaulting rules classification depends on.
type CachedMediaItem struct {
	UserID      string          `json:"user_id"`
	ExternalID  string          `json:"external_id"`
	Name        string          `json:"name"`
	MediaType   string          `json:"media_type"`
	Year        int             `json:"year,omitempty"`
	SizeBytes   int64           `json:"size_bytes"`
	DateCreated *time.Time      `json:"date_created,omitempty"`
	Path        string          `json:"path,omitempty"`
	Played      bool            `json:"played"`
	PlayCount   int             `json:"play_count"`
	LastPlayed  *time.Time      `json:"last_played,omitempty"`
	RawData     json.RawMessage `json:"raw_data,omitempty"`
}

// mediaRaw is the narrow view of the upstream payload the accessors need.
type mediaRaw struct {
	ProviderIds  map[string]string `json:"ProviderIds"`
	MediaSources []struct {
		MediaStreams []struct {
			Type     string `json:"Type"`
			Language string `json:"Language"`
		} `json:"MediaStreams"`
	} `json:"MediaSources"`
}

func (m *CachedMediaItem) raw() *mediaRaw {
	if len(m.RawData) == 0 {
		return nil
	}
	var r mediaRaw
	if err := json.Unmarshal(m.RawData, &r); err != nil {
		return nil
	}
	return &r
}

// ProviderID returns the external catalog id stored under the given
// provider key (e.g. "Tmdb", "Tvdb"), or "" when absent. Key matching is
// case-insensitive because Jellyfin is not consistent about casing.
func (m *CachedMediaItem) ProviderID(provider string) string {
	r := m.raw()
	if r == nil {
		return ""
	}
	for k, v := range r.ProviderIds {
		if strings.EqualFold(k, provider) {
			return v
		}
	}
	return ""
}

// TmdbID returns the TMDB catalog id embedded in the raw payload, or ""
// when the item carries none.
func (m *CachedMediaItem) TmdbID() string {
	return m.ProviderID("Tmdb")
}

// AudioLanguages returns the language codes of the audio streams of the
// first media source, lowercased. A nil result means the upstream payload
// carried no stream metadata; classification treats that as "unknown",
// not as "missing language".
func (m *CachedMediaItem) AudioLanguages() []string {
	return m.streamLanguages("Audio")
}

// SubtitleLanguages returns the language codes of the subtitle streams of
// the first media source, lowercased.
func (m *CachedMediaItem) SubtitleLanguages() []string {
	return m.streamLanguages("Subtitle")
}

func (m *CachedMediaItem) streamLanguages(streamType string) []string {
	r := m.raw()
	if r == nil || len(r.MediaSources) == 0 {
		return nil
	}
	var langs []string
	for _, s := range r.MediaSources[0].MediaStreams {
		if strings.EqualFold(s.Type, streamType) && s.Language != "" {
			langs = append(langs, strings.ToLower(s.Language))
		}
	}
	return langs
}
