package mongodb

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"

	"github.com/vinodmerwade/OrgCheck/internal/correlation/domain/model"
	"github.com/vinodmerwade/OrgCheck/internal/correlation/domain/repository"
	apperrors "github.com/vinodmerwade/OrgCheck/internal/shared/errors"
	"github.com/vinodmerwade/OrgCheck/internal/shared/logger"
)

// SnapshotsCollection is the collection holding archived runs.
const SnapshotsCollection = "snapshots"

// SnapshotRepository archives completed runs in MongoDB, one document per run.
type SnapshotRepository struct {
	collection *mongo.Collection
	logger     logger.Logger
}

var _ repository.SnapshotStore = (*SnapshotRepository)(nil)

// NewSnapshotRepository creates a snapshot store on db.
func NewSnapshotRepository(db *mongo.Database, log logger.Logger) *SnapshotRepository {
	return &SnapshotRepository{
		collection: db.Collection(SnapshotsCollection),
		logger:     log.WithComponent("snapshot_repository"),
	}
}

// SaveSnapshot upserts snapshot by run id.
func (r *SnapshotRepository) SaveSnapshot(ctx context.Context, snapshot *model.Snapshot) error {
	if snapshot == nil || snapshot.RunID == "" {
		return apperrors.NewValidationError("snapshot requires a run id").WithComponent("snapshot_repository")
	}
	_, err := r.collection.ReplaceOne(ctx,
		bson.M{"_id": snapshot.RunID},
		snapshot,
		options.Replace().SetUpsert(true),
	)
	if err != nil {
		r.logger.WithContext(ctx).Error("Failed to save snapshot",
			zap.String("run_id", snapshot.RunID), zap.String("dataset", snapshot.Dataset), zap.Error(err))
		return fmt.Errorf("failed to save snapshot: %w", err)
	}
	r.logger.WithContext(ctx).Debug("Snapshot saved",
		zap.String("run_id", snapshot.RunID), zap.Int("items", snapshot.ItemCount))
	return nil
}

// ListSnapshots returns the latest snapshots of dataset, newest first. An
// empty dataset lists every dataset.
func (r *SnapshotRepository) ListSnapshots(ctx context.Context, dataset string, limit int64) ([]*model.Snapshot, error) {
	filter := bson.M{}
	if dataset != "" {
		filter["dataset"] = dataset
	}
	opts := options.Find().SetSort(bson.D{{Key: "startedAt", Value: -1}})
	if limit > 0 {
		opts.SetLimit(limit)
	}

	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		r.logger.WithContext(ctx).Error("Failed to list snapshots", zap.String("dataset", dataset), zap.Error(err))
		return nil, fmt.Errorf("failed to list snapshots: %w", err)
	}
	defer cursor.Close(ctx)

	snapshots := make([]*model.Snapshot, 0)
	for cursor.Next(ctx) {
		var s model.Snapshot
		if err := cursor.Decode(&s); err != nil {
			return nil, fmt.Errorf("failed to decode snapshot: %w", err)
		}
		snapshots = append(snapshots, &s)
	}
	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("snapshot cursor error: %w", err)
	}
	return snapshots, nil
}
