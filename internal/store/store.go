// Package store provides data persistence interfaces and implementations.
package store

import (
	"context"

	"saham-workbench/internal/models"
)

// DataStore defines the interface for local persistence: the vault blob
// mirroring the case archive, and the transient form-draft blob.
type DataStore interface {
	// Vault
	SaveVault(ctx context.Context, entries []models.AnalysisResult) error
	LoadVault(ctx context.Context) ([]models.AnalysisResult, error)

	// Draft
	SaveDraft(ctx context.Context, draft *models.StockAnalysisInput) error
	LoadDraft(ctx context.Context) (*models.StockAnalysisInput, error)
	ClearDraft(ctx context.Context) error

	// Lifecycle
	Close() error
}
