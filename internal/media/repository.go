package media

import (
	"github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

func NewFolderRepository(db *bun.DB) repository.Repository[*Folder] {
	return repository.MustNewRepository(db, repository.ModelHandlers[*Folder]{
		NewRecord: func() *Folder { return &Folder{} },
		GetID: func(f *Folder) uuid.UUID {
			return f.ID
		},
		SetID: func(f *Folder, id uuid.UUID) {
			f.ID = id
		},
		GetIdentifier: func() string {
			return ""
		},
		GetIdentifierValue: func(*Folder) string {
			return ""
		},
	})
}

func NewTagRepository(db *bun.DB) repository.Repository[*MediaTag] {
	return repository.MustNewRepository(db, repository.ModelHandlers[*MediaTag]{
		NewRecord: func() *MediaTag { return &MediaTag{} },
		GetID: func(t *MediaTag) uuid.UUID {
			return t.ID
		},
		SetID: func(t *MediaTag, id uuid.UUID) {
			t.ID = id
		},
		GetIdentifier: func() string {
			return "slug"
		},
		GetIdentifierValue: func(t *MediaTag) string {
			return t.Slug
		},
	})
}

func NewProfileRepository(db *bun.DB) repository.Repository[*ImageOptimizationProfile] {
	return repository.MustNewRepository(db, repository.ModelHandlers[*ImageOptimizationProfile]{
		NewRecord: func() *ImageOptimizationProfile { return &ImageOptimizationProfile{} },
		GetID: func(p *ImageOptimizationProfile) uuid.UUID {
			return p.ID
		},
		SetID: func(p *ImageOptimizationProfile, id uuid.UUID) {
			p.ID = id
		},
		GetIdentifier: func() string {
			return "slug"
		},
		GetIdentifierValue: func(p *ImageOptimizationProfile) string {
			return p.Slug
		},
	})
}

func NewAssetRepository(db *bun.DB) repository.Repository[*MediaAsset] {
	return repository.MustNewRepository(db, repository.ModelHandlers[*MediaAsset]{
		NewRecord: func() *MediaAsset { return &MediaAsset{} },
		GetID: func(a *MediaAsset) uuid.UUID {
			return a.ID
		},
		SetID: func(a *MediaAsset, id uuid.UUID) {
			a.ID = id
		},
		GetIdentifier: func() string {
			return "file_key"
		},
		GetIdentifierValue: func(a *MediaAsset) string {
			return a.FileKey
		},
	})
}
