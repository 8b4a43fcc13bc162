package models

// Statistics holds the practitioner dashboard counters. PendingReviews counts
// check-ins submitted within the review window that the practitioner has not
// yet gone through.
type Statistics struct {
	TotalClients   int `json:"totalClients"`
	ActiveSessions int `json:"activeSessions"`
	PendingReviews int `json:"pendingReviews"`
}
