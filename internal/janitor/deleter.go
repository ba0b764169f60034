// Janitarr - Media Library Janitor
// Copyright 2026 M. Pellat
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/mpellat/janitarr

package janitor

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/mpellat/janitarr/internal/logging"
	"github.com/mpellat/janitarr/internal/models"
)

// tmdbProvider is the provider-id key Jellyfin uses in its ProviderIds
// map. Cached media items are matched for pruning through it because
// the catalog id lives there, not in the primary external id.
const tmdbProvider = "Tmdb"

// DeleteFlags control a deletion. The zero value is not useful; use
// DefaultDeleteFlags.
type DeleteFlags struct {
	// RemoveFromArr deletes from the acquisition manager (Radarr or
	// Sonarr).
	RemoveFromArr bool `json:"remove_from_arr"`
	// RemoveFromJellyseerr deletes the underlying Jellyseerr media
	// entry, freeing the title for re-requesting.
	RemoveFromJellyseerr bool `json:"remove_from_jellyseerr"`
	// DeleteFiles also removes the files on disk.
	DeleteFiles bool `json:"delete_files"`
}

// DefaultDeleteFlags enables everything.
func DefaultDeleteFlags() DeleteFlags {
	return DeleteFlags{RemoveFromArr: true, RemoveFromJellyseerr: true, DeleteFiles: true}
}

// Deleter drives deletions through the acquisition managers and the
// request manager, keeping the cache consistent with what actually
// happened downstream.
type Deleter struct {
	store   Store
	factory ClientFactory
}

// NewDeleter creates a deletion orchestrator.
func NewDeleter(store Store, factory ClientFactory) *Deleter {
	return &Deleter{store: store, factory: factory}
}

// DeleteMovie removes a movie by TMDB id.
func (d *Deleter) DeleteMovie(ctx context.Context, userID string, tmdbID int64, flags DeleteFlags) models.DeleteResult {
	return d.delete(ctx, userID, tmdbID, flags, models.ServiceRadarr, "movie")
}

// DeleteSeries removes a series by TMDB id.
func (d *Deleter) DeleteSeries(ctx context.Context, userID string, tmdbID int64, flags DeleteFlags) models.DeleteResult {
	return d.delete(ctx, userID, tmdbID, flags, models.ServiceSonarr, "tv")
}

// DeleteRequest resolves a cached request to its TMDB id and runs the
// matching deletion path.
func (d *Deleter) DeleteRequest(ctx context.Context, userID string, requestID int64, flags DeleteFlags) models.DeleteResult {
	req, err := d.store.GetRequestByID(ctx, userID, requestID)
	if err != nil {
		return models.DeleteResult{Message: fmt.Sprintf("failed to load request %d: %v", requestID, err)}
	}
	if req == nil {
		return models.DeleteResult{Message: fmt.Sprintf("request %d not found", requestID)}
	}
	if req.MediaType == "movie" {
		return d.DeleteMovie(ctx, userID, req.TmdbID, flags)
	}
	return d.DeleteSeries(ctx, userID, req.TmdbID, flags)
}

// delete is the shared deletion flow. requestMediaType is the media
// type string as the request manager reports it ("movie" or "tv"),
// used for cached-request matching.
func (d *Deleter) delete(ctx context.Context, userID string, tmdbID int64, flags DeleteFlags, arrService, requestMediaType string) models.DeleteResult {
	arrSettings, err := d.store.GetIntegrationSettings(ctx, userID, arrService)
	if err != nil {
		return models.DeleteResult{Message: fmt.Sprintf("failed to load %s settings: %v", arrService, err)}
	}
	if arrSettings == nil {
		return models.DeleteResult{Message: fmt.Sprintf("%s integration not configured", arrService)}
	}

	var messages []string
	result := models.DeleteResult{}

	if flags.RemoveFromArr {
		manager := d.arrManager(arrSettings, arrService)
		ok, msg := manager.DeleteByTmdbID(ctx, tmdbID, flags.DeleteFiles)
		result.ArrDeleted = ok
		messages = append(messages, msg)
	}

	jellyseerrHandled := true
	if flags.RemoveFromJellyseerr {
		deleted, handled, msg := d.deleteFromJellyseerr(ctx, userID, tmdbID, requestMediaType)
		result.JellyseerrDeleted = deleted
		jellyseerrHandled = handled
		if msg != "" {
			messages = append(messages, msg)
		}
	}

	// The cache mirrors external state: prune it only when the
	// acquisition manager actually deleted something.
	if flags.RemoveFromArr && result.ArrDeleted {
		d.pruneCache(ctx, userID, tmdbID, requestMediaType)
	}

	result.Success = (!flags.RemoveFromArr || result.ArrDeleted) &&
		(!flags.RemoveFromJellyseerr || jellyseerrHandled)
	result.Message = strings.Join(messages, "; ")
	return result
}

// deleteFromJellyseerr resolves the cached media id for the catalog id
// and deletes the media entry. handled is true when the step cannot
// count against the overall result: a clean delete, a missing cache
// mapping, or an unconfigured integration.
func (d *Deleter) deleteFromJellyseerr(ctx context.Context, userID string, tmdbID int64, requestMediaType string) (deleted, handled bool, msg string) {
	mediaID, found, err := d.store.FindMediaIDByTmdb(ctx, userID, tmdbID, requestMediaType)
	if err != nil {
		return false, false, fmt.Sprintf("failed to look up cached media id: %v", err)
	}
	if !found {
		return false, true, fmt.Sprintf("no media found in Jellyseerr cache for TMDB id %d", tmdbID)
	}

	settings, err := d.store.GetIntegrationSettings(ctx, userID, models.ServiceJellyseerr)
	if err != nil {
		return false, false, fmt.Sprintf("failed to load jellyseerr settings: %v", err)
	}
	if settings == nil {
		return false, true, "jellyseerr integration not configured, skipping"
	}

	ok, msg := d.factory.RequestManager(settings).DeleteMedia(ctx, mediaID)
	return ok, ok, msg
}

func (d *Deleter) arrManager(settings *models.IntegrationSettings, service string) AcquisitionManager {
	if service == models.ServiceRadarr {
		return d.factory.MovieManager(settings)
	}
	return d.factory.SeriesManager(settings)
}

func (d *Deleter) pruneCache(ctx context.Context, userID string, tmdbID int64, requestMediaType string) {
	catalogID := strconv.FormatInt(tmdbID, 10)
	if n, err := d.store.DeleteMediaItemsByProviderID(ctx, userID, tmdbProvider, catalogID); err != nil {
		logging.Warn().Err(err).Str("user_id", userID).Int64("tmdb_id", tmdbID).Msg("Failed to prune cached media items")
	} else if n > 0 {
		logging.Debug().Int("count", n).Int64("tmdb_id", tmdbID).Msg("Pruned cached media items")
	}
	if _, err := d.store.DeleteRequestsByTmdb(ctx, userID, tmdbID, requestMediaType); err != nil {
		logging.Warn().Err(err).Str("user_id", userID).Int64("tmdb_id", tmdbID).Msg("Failed to prune cached requests")
	}
}
