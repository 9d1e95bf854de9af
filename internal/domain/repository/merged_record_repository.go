package repository

import (
	"context"

	"fuelops-service/internal/domain/entity"
)

// MergedRecordRepository defines the interface for merged flight record operations
type MergedRecordRepository interface {
	FindByFlightKey(ctx context.Context, flightKey string) (*entity.MergedRecord, error)
	Upsert(ctx context.Context, record *entity.MergedRecord) error
}
