// Janitarr - Media Library Janitor
// Copyright 2026 M. Pellat
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/mpellat/janitarr

package models

import "time"

// WhitelistFlavor distinguishes the whitelist variants. They share one
// schema and one repository; only their effect on classification differs.
type WhitelistFlavor string

const (
	// WhitelistContent excludes an item from the "old" category only.
	WhitelistContent WhitelistFlavor = "content"

	// WhitelistFrenchOnly relaxes the English audio requirement for an item.
	WhitelistFrenchOnly WhitelistFlavor = "french_only"

	// WhitelistLanguageExempt skips language checks for an item entirely.
	WhitelistLanguageExempt WhitelistFlavor = "language_exempt"
)

// KnownWhitelistFlavors lists every valid flavor, for request validation.
var KnownWhitelistFlavors = []WhitelistFlavor{
	WhitelistContent,
	WhitelistFrenchOnly,
	WhitelistLanguageExempt,
}

// WhitelistEntry exempts one external item id from classification for one
// user. An entry with a future ExpiresAt is active; a past ExpiresAt makes
// it inactive but it is not auto-deleted. Nil ExpiresAt never expires.
type WhitelistEntry struct {
	UserID     string          `json:"user_id"`
	Flavor     WhitelistFlavor `json:"flavor"`
	ExternalID string          `json:"external_id"`
	ExpiresAt  *time.Time      `json:"expires_at,omitempty"`
	CreatedAt  time.Time       `json:"created_at"`
}

// Active reports whether the entry should be honored at the given time.
func (e *WhitelistEntry) Active(now time.Time) bool {
	return e.ExpiresAt == nil || e.ExpiresAt.After(now)
}
