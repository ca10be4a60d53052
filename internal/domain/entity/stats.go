// Package entity contains the core business objects of the project.
package entity

// AccountStats aggregates account counts for the admin statistics endpoint.
type AccountStats struct {
	Total                int64          `json:"total"`
	Active               int64          `json:"active"`
	Inactive             int64          `json:"inactive"`
	ByRole               map[Role]int64 `json:"byRole"`
	RecentSignups        int64          `json:"recentSignups"` // Registrations in the trailing 30 days.
	VerifiedEmailPercent float64        `json:"verifiedEmailPercent"`
}
