package models

import "time"

// PublicListing exposes one published scene to unauthenticated viewers. It is
// written once at publish time and never mutated here; view counting lives
// with the gallery frontend service.
type PublicListing struct {
	PublicID   string    `json:"public_id" bson:"_id"`
	SceneID    string    `json:"scene_id" bson:"scene_id"`
	CoverURI   string    `json:"cover_uri" bson:"cover_uri"`
	DefaultEra Era       `json:"default_era" bson:"default_era"`
	ViewCount  int64     `json:"view_count" bson:"view_count"`
	CreatedAt  time.Time `json:"created_at" bson:"created_at"`
}
