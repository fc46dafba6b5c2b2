package models

import "time"

// QuotaCounter tracks one user's render spend for the current civil day.
// DailyDateLabel is a YYYY-MM-DD label in the configured quota timezone;
// whenever it differs from today the count starts over at zero.
type QuotaCounter struct {
	UID               string    `json:"uid" bson:"_id"`
	DailyRequestCount int       `json:"daily_request_count" bson:"daily_request_count"`
	DailyDateLabel    string    `json:"daily_date_label" bson:"daily_date_label"`
	UpdatedAt         time.Time `json:"updated_at" bson:"updated_at"`
}
