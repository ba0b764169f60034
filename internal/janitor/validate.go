// Janitarr - Media Library Janitor
// Copyright 2026 M. Pellat
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/mpellat/janitarr

package janitor

import (
	"context"

	"github.com/mpellat/janitarr/internal/clients"
	"github.com/mpellat/janitarr/internal/models"
)

// ValidateConnection checks that the service named in the settings is
// reachable with the stored credentials. Used by the settings API so a
// user can verify an integration before relying on it.
func (f *HTTPClientFactory) ValidateConnection(ctx context.Context, s *models.IntegrationSettings) bool {
	switch s.Service {
	case models.ServiceJellyfin:
		return clients.NewJellyfinClient(s.URL, s.APIKey, s.ExternalUserID, f.cfg.HTTPTimeout).ValidateConnection(ctx)
	case models.ServiceJellyseerr:
		return clients.NewJellyseerrClient(s.URL, s.APIKey, f.cfg.HTTPTimeout, f.cfg.PageSize, f.cfg.MaxPages).ValidateConnection(ctx)
	case models.ServiceRadarr:
		return clients.NewRadarrClient(s.URL, s.APIKey, f.cfg.HTTPTimeout).ValidateConnection(ctx)
	case models.ServiceSonarr:
		return clients.NewSonarrClient(s.URL, s.APIKey, f.cfg.HTTPTimeout).ValidateConnection(ctx)
	}
	return false
}
