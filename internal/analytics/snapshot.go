package analytics

import (
	"time"

	"github.com/google/uuid"
)

// WindowStats aggregates appointment count and revenue over a time window.
type WindowStats struct {
	Count        int64 `json:"count"`
	RevenueCents int64 `json:"revenue_cents"`
}

// RankedItem is one row of a top-N ranking.
type RankedItem struct {
	ID    uuid.UUID `json:"id"`
	Name  string    `json:"name"`
	Count int64     `json:"count"`
}

// HourBucket is one bar of the per-hour distribution of today's
// appointments. Hour is in the tenant's timezone.
type HourBucket struct {
	Hour  int   `json:"hour"`
	Count int64 `json:"count"`
}

// FeedItem is one entry of the recent-activity feed.
type FeedItem struct {
	ID               uuid.UUID `json:"id"`
	ClientName       string    `json:"client_name"`
	ProfessionalName string    `json:"professional_name"`
	ServiceNames     string    `json:"service_names"`
	Status           string    `json:"status"`
	StartsAt         time.Time `json:"starts_at"`
}

// Snapshot is the full dashboard payload for one tenant.
type Snapshot struct {
	TenantID         string       `json:"tenant_id"`
	Today            WindowStats  `json:"today"`
	Week             WindowStats  `json:"week"`
	Month            WindowStats  `json:"month"`
	TopProfessionals []RankedItem `json:"top_professionals"`
	TopServices      []RankedItem `json:"top_services"`
	Hourly           []HourBucket `json:"hourly"`
	Recent           []FeedItem   `json:"recent"`
	PendingCount     int64        `json:"pending_count"`
	ActiveClients    int64        `json:"active_clients"`
	GeneratedAt      time.Time    `json:"generated_at"`
}
