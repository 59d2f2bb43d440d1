package models

// UserStats aggregates the admin dashboard user counters.
type UserStats struct {
	TotalUsers    int64 `json:"total_users" bson:"total_users"`
	Citizens      int64 `json:"citizens" bson:"citizens"`
	Police        int64 `json:"police" bson:"police"`
	Admins        int64 `json:"admins" bson:"admins"`
	VerifiedUsers int64 `json:"verified_users" bson:"verified_users"`
	ActiveUsers   int64 `json:"active_users" bson:"active_users"`
}

// ReportStats aggregates the report counters plus per-enum breakdowns.
type ReportStats struct {
	TotalReports       int64            `json:"total_reports" bson:"total_reports"`
	PendingReports     int64            `json:"pending_reports" bson:"pending_reports"`
	UnderInvestigation int64            `json:"under_investigation" bson:"under_investigation"`
	ResolvedReports    int64            `json:"resolved_reports" bson:"resolved_reports"`
	AnonymousReports   int64            `json:"anonymous_reports" bson:"anonymous_reports"`
	CategoryBreakdown  map[string]int64 `json:"category_breakdown" bson:"-"`
	SeverityBreakdown  map[string]int64 `json:"severity_breakdown" bson:"-"`
}

// HeatmapPoint is one weighted coordinate for map visualization.
type HeatmapPoint struct {
	Lat      float64        `json:"lat"`
	Lng      float64        `json:"lng"`
	Weight   int            `json:"weight"`
	Category ReportCategory `json:"category"`
}
