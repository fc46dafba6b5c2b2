package models

import (
	"time"

	"chronolens/apperr"
)

type SceneStatus string

// Status only moves forward: draft -> ready -> publishing -> published.
const (
	StatusDraft      SceneStatus = "draft"
	StatusReady      SceneStatus = "ready"
	StatusPublishing SceneStatus = "publishing"
	StatusPublished  SceneStatus = "published"
)

// ImageRef points at one stored image object.
type ImageRef struct {
	URI         string `json:"uri" bson:"uri"`
	Width       int    `json:"width" bson:"width"`
	Height      int    `json:"height" bson:"height"`
	ContentHash string `json:"content_hash" bson:"content_hash"`
}

// RenderRecord describes one persisted output for an (era, variant) pair.
type RenderRecord struct {
	Variant     Variant `json:"variant" bson:"variant"`
	URI         string  `json:"uri" bson:"uri"`
	PreviewURI  string  `json:"preview_uri,omitempty" bson:"preview_uri,omitempty"`
	Width       int     `json:"width" bson:"width"`
	Height      int     `json:"height" bson:"height"`
	ContentHash string  `json:"content_hash" bson:"content_hash"`
}

// PublicInfo is attached once a scene has been published.
type PublicInfo struct {
	IsPublic  bool      `json:"is_public" bson:"is_public"`
	PublicID  string    `json:"public_id" bson:"public_id"`
	CreatedAt time.Time `json:"created_at" bson:"created_at"`
}

// Scene is one uploaded photo plus everything derived from it.
type Scene struct {
	ID       string      `json:"id" bson:"_id"`
	OwnerUID string      `json:"owner_uid" bson:"owner_uid"`
	Status   SceneStatus `json:"status" bson:"status"`
	Original *ImageRef   `json:"original,omitempty" bson:"original,omitempty"`
	// Eras restricts which eras this scene may render. Empty means the full
	// default set.
	Eras    []Era                  `json:"eras,omitempty" bson:"eras,omitempty"`
	Outputs map[Era][]RenderRecord `json:"outputs,omitempty" bson:"outputs,omitempty"`
	Public  *PublicInfo            `json:"public,omitempty" bson:"public,omitempty"`

	CreatedAt time.Time `json:"created_at" bson:"created_at"`
	UpdatedAt time.Time `json:"updated_at" bson:"updated_at"`
}

// EraOrder returns the scene's configured era list, or the default set when
// none was configured.
func (s *Scene) EraOrder() []Era {
	if len(s.Eras) > 0 {
		return s.Eras
	}
	return DefaultEras
}

// AllowsEra reports whether the scene may render the given era.
func (s *Scene) AllowsEra(e Era) bool {
	for _, allowed := range s.EraOrder() {
		if allowed == e {
			return true
		}
	}
	return false
}

// OutputFor returns the stored record for (era, variant), or nil.
func (s *Scene) OutputFor(era Era, variant Variant) *RenderRecord {
	for i := range s.Outputs[era] {
		if s.Outputs[era][i].Variant == variant {
			return &s.Outputs[era][i]
		}
	}
	return nil
}

// UpsertOutput inserts rec into the era's list, replacing any prior record
// for the same variant. An era holds at most one record per variant.
func (s *Scene) UpsertOutput(era Era, rec RenderRecord) {
	if s.Outputs == nil {
		s.Outputs = make(map[Era][]RenderRecord)
	}
	kept := s.Outputs[era][:0]
	for _, existing := range s.Outputs[era] {
		if existing.Variant != rec.Variant {
			kept = append(kept, existing)
		}
	}
	s.Outputs[era] = append(kept, rec)
}

// IsPublic reports whether the scene is visible to non-owners.
func (s *Scene) IsPublic() bool {
	return s.Public != nil && s.Public.IsPublic
}

// Clone returns a deep copy, so store implementations can hand documents out
// without sharing mutable state with their callers.
func (s *Scene) Clone() *Scene {
	out := *s
	if s.Original != nil {
		orig := *s.Original
		out.Original = &orig
	}
	if s.Public != nil {
		pub := *s.Public
		out.Public = &pub
	}
	if s.Eras != nil {
		out.Eras = append([]Era(nil), s.Eras...)
	}
	if s.Outputs != nil {
		out.Outputs = make(map[Era][]RenderRecord, len(s.Outputs))
		for era, records := range s.Outputs {
			out.Outputs[era] = append([]RenderRecord(nil), records...)
		}
	}
	return &out
}

// Validate checks a scene decoded from the document store. Documents written
// by older revisions with shapes we no longer understand are rejected here
// instead of flowing onward half-default.
func (s *Scene) Validate() error {
	if s.ID == "" {
		return apperr.New(apperr.Internal, "scene document missing id")
	}
	if s.OwnerUID == "" {
		return apperr.Newf(apperr.Internal, "scene %s missing owner", s.ID)
	}
	switch s.Status {
	case StatusDraft, StatusReady, StatusPublishing, StatusPublished:
	default:
		return apperr.Newf(apperr.Internal, "scene %s has unknown status %q", s.ID, s.Status)
	}
	for _, era := range s.Eras {
		if !ValidEra(era) {
			return apperr.Newf(apperr.Internal, "scene %s lists unknown era %q", s.ID, era)
		}
	}
	return nil
}
