package storage

import "compra-agil-scraper/models"

// ArtifactStore persists listing sets as run artifacts and loads them back
// for offline re-filtering.
type ArtifactStore interface {
	Save(name string, listings []models.Listing) (string, error)
	Load(location string) ([]models.Listing, error)
}

// ResultSink receives the final classified listings of a run.
type ResultSink interface {
	SaveResults(listings []models.Listing) error
	Close() error
}
