// Package scenes implements the core operations on a scene: creating it,
// attaching the source photograph, rendering era reinterpretations and
// publishing to the gallery. Handlers stay thin; every rule lives here.
package scenes

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"chronolens/apperr"
	"chronolens/config"
	"chronolens/database"
	"chronolens/gemini"
	"chronolens/imaging"
	"chronolens/models"
	"chronolens/quota"
	"chronolens/storage"
)

type Service struct {
	cfg      *config.Config
	scenes   database.SceneStore
	listings database.ListingStore
	objects  storage.ObjectStore
	model    gemini.Generator
	tracker  *quota.Tracker
}

func NewService(cfg *config.Config, stores *database.Stores, objects storage.ObjectStore, model gemini.Generator, tracker *quota.Tracker) *Service {
	return &Service{
		cfg:      cfg,
		scenes:   stores.Scenes,
		listings: stores.Listings,
		objects:  objects,
		model:    model,
		tracker:  tracker,
	}
}

// CreateScene makes a new draft scene for the owner. An explicit era list
// restricts which eras the scene may render; empty means the full set.
func (s *Service) CreateScene(ctx context.Context, ownerUID string, eraLabels []string) (*models.Scene, error) {
	eras := make([]models.Era, 0, len(eraLabels))
	for _, label := range eraLabels {
		era, err := models.ParseEra(label)
		if err != nil {
			return nil, err
		}
		eras = append(eras, era)
	}

	now := time.Now()
	scene := &models.Scene{
		ID:        uuid.NewString(),
		OwnerUID:  ownerUID,
		Status:    models.StatusDraft,
		Eras:      eras,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.scenes.Create(ctx, scene); err != nil {
		return nil, err
	}
	return scene, nil
}

// AttachOriginal stores the uploaded photograph as the scene's source image.
// The original is set once; re-uploading is rejected rather than replacing
// outputs that were derived from the first image.
func (s *Service) AttachOriginal(ctx context.Context, sceneID, requesterUID string, photo []byte) (*models.Scene, error) {
	scene, err := s.scenes.Get(ctx, sceneID)
	if err != nil {
		return nil, err
	}
	if err := assertOwnership(scene, requesterUID); err != nil {
		return nil, err
	}
	if scene.Original != nil {
		return nil, apperr.New(apperr.FailedPrecondition, "scene already has an original image")
	}

	encoded, width, height, err := imaging.ReencodeJPEG(photo)
	if err != nil {
		return nil, apperr.Wrap(apperr.InvalidArgument, "uploaded file is not a readable image", err)
	}

	key := storage.OriginalKey(sceneID)
	if err := s.objects.Put(ctx, key, encoded, imaging.ContentTypeJPEG); err != nil {
		return nil, err
	}

	return s.scenes.Mutate(ctx, sceneID, func(sc *models.Scene) error {
		if sc.Original != nil {
			return apperr.New(apperr.FailedPrecondition, "scene already has an original image")
		}
		sc.Original = &models.ImageRef{
			URI:         key,
			Width:       width,
			Height:      height,
			ContentHash: imaging.ContentHash(encoded),
		}
		return nil
	})
}

// GetScene returns the scene when the requester may read it: owners always,
// everyone else only after publication.
func (s *Service) GetScene(ctx context.Context, sceneID, requesterUID string) (*models.Scene, error) {
	scene, err := s.scenes.Get(ctx, sceneID)
	if err != nil {
		return nil, err
	}
	if err := assertReadAccess(scene, requesterUID); err != nil {
		return nil, err
	}
	return scene, nil
}

// ListScenes returns every scene the caller owns.
func (s *Service) ListScenes(ctx context.Context, ownerUID string) ([]models.Scene, error) {
	return s.scenes.ListByOwner(ctx, ownerUID)
}

// ResolveOutput turns a (scene, era, variant) triple into a short-lived
// signed URL for the stored output, as an inline view or a named download.
// Read access applies: drafts stay owner-only, published scenes are open.
func (s *Service) ResolveOutput(ctx context.Context, sceneID, eraLabel, variantLabel, requesterUID string, download bool) (string, error) {
	era, err := models.ParseEra(eraLabel)
	if err != nil {
		return "", err
	}
	variant, err := models.ParseVariant(variantLabel)
	if err != nil {
		return "", err
	}

	scene, err := s.scenes.Get(ctx, sceneID)
	if err != nil {
		return "", err
	}
	if err := assertReadAccess(scene, requesterUID); err != nil {
		return "", err
	}

	rec := scene.OutputFor(era, variant)
	if rec == nil {
		return "", apperr.Newf(apperr.NotFound, "no %s/%s output for this scene", era, variant)
	}

	attachment := ""
	if download {
		attachment = fmt.Sprintf("chronolens_%s_%s.jpg", era, variant)
	}
	return s.objects.PresignGet(ctx, rec.URI, s.cfg.Server.SignedURLTTL, attachment)
}

func assertOwnership(scene *models.Scene, requesterUID string) error {
	if scene.OwnerUID != requesterUID {
		return apperr.New(apperr.PermissionDenied, "you do not own this scene")
	}
	return nil
}

func assertReadAccess(scene *models.Scene, requesterUID string) error {
	if scene.OwnerUID == requesterUID || scene.IsPublic() {
		return nil
	}
	return apperr.New(apperr.PermissionDenied, "scene is not public")
}
