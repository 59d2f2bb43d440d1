package interfaces

import (
	"context"

	"crimewatch/internal/models"
	"crimewatch/internal/utils"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type ReportRepository interface {
	// Basic CRUD operations. Reports are never hard-deleted.
	Create(ctx context.Context, report *models.Report) error
	GetByID(ctx context.Context, id primitive.ObjectID) (*models.Report, error)
	Save(ctx context.Context, report *models.Report) error

	// Listing
	List(ctx context.Context, filter bson.M, params *utils.PaginationParams) ([]*models.Report, int64, error)

	// Statistics
	Count(ctx context.Context, filter bson.M) (int64, error)
	CountByReporter(ctx context.Context, reporterID primitive.ObjectID) (int64, error)
	GetHeatmapData(ctx context.Context, filter bson.M) ([]*models.HeatmapPoint, error)
	GetReportStats(ctx context.Context, filter bson.M) (*models.ReportStats, error)
}
