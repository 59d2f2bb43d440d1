package mongodb

import (
	"context"
	"fmt"
	"time"

	"crimewatch/internal/models"
	"crimewatch/internal/repositories/interfaces"
	"crimewatch/internal/utils"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

type reportRepository struct {
	collection *mongo.Collection
}

func NewReportRepository(db *mongo.Database) interfaces.ReportRepository {
	return &reportRepository{
		collection: db.Collection("reports"),
	}
}

func (r *reportRepository) Create(ctx context.Context, report *models.Report) error {
	report.ID = primitive.NewObjectID()
	report.CreatedAt = time.Now()
	report.UpdatedAt = time.Now()

	_, err := r.collection.InsertOne(ctx, report)
	if err != nil {
		return fmt.Errorf("failed to create report: %w", err)
	}

	return nil
}

func (r *reportRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Report, error) {
	var report models.Report
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&report)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, utils.NewNotFoundError(utils.ErrReportNotFound)
		}
		return nil, fmt.Errorf("failed to get report: %w", err)
	}

	return &report, nil
}

// Save persists the full document. Report mutations go through the entity's
// state machine methods first, so a whole-document replace keeps the embedded
// notes/evidence/witness lists consistent with what the caller holds.
func (r *reportRepository) Save(ctx context.Context, report *models.Report) error {
	result, err := r.collection.ReplaceOne(ctx, bson.M{"_id": report.ID}, report)
	if err != nil {
		return fmt.Errorf("failed to save report: %w", err)
	}
	if result.MatchedCount == 0 {
		return utils.NewNotFoundError(utils.ErrReportNotFound)
	}

	return nil
}

func (r *reportRepository) List(ctx context.Context, filter bson.M, params *utils.PaginationParams) ([]*models.Report, int64, error) {
	if filter == nil {
		filter = bson.M{}
	}

	total, err := r.collection.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count reports: %w", err)
	}

	cursor, err := r.collection.Find(ctx, filter, params.GetFindOptions())
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list reports: %w", err)
	}
	defer cursor.Close(ctx)

	var reports []*models.Report
	if err := cursor.All(ctx, &reports); err != nil {
		return nil, 0, fmt.Errorf("failed to decode reports: %w", err)
	}

	return reports, total, nil
}

func (r *reportRepository) Count(ctx context.Context, filter bson.M) (int64, error) {
	if filter == nil {
		filter = bson.M{}
	}
	return r.collection.CountDocuments(ctx, filter)
}

func (r *reportRepository) CountByReporter(ctx context.Context, reporterID primitive.ObjectID) (int64, error) {
	return r.collection.CountDocuments(ctx, bson.M{"reporter": reporterID})
}

func (r *reportRepository) GetHeatmapData(ctx context.Context, filter bson.M) ([]*models.HeatmapPoint, error) {
	if filter == nil {
		filter = bson.M{}
	}

	cursor, err := r.collection.Find(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch heatmap data: %w", err)
	}
	defer cursor.Close(ctx)

	var reports []*models.Report
	if err := cursor.All(ctx, &reports); err != nil {
		return nil, fmt.Errorf("failed to decode heatmap reports: %w", err)
	}

	points := make([]*models.HeatmapPoint, 0, len(reports))
	for _, report := range reports {
		points = append(points, &models.HeatmapPoint{
			Lat:      report.Location.Coordinates.Lat,
			Lng:      report.Location.Coordinates.Lng,
			Weight:   severityWeight(report.Severity),
			Category: report.Category,
		})
	}

	return points, nil
}

func severityWeight(severity models.ReportSeverity) int {
	switch severity {
	case models.SeverityCritical:
		return 5
	case models.SeverityHigh:
		return 4
	case models.SeverityMedium:
		return 3
	default:
		return 1
	}
}

func (r *reportRepository) GetReportStats(ctx context.Context, filter bson.M) (*models.ReportStats, error) {
	if filter == nil {
		filter = bson.M{}
	}

	pipeline := mongo.Pipeline{
		bson.D{{Key: "$match", Value: filter}},
		bson.D{{Key: "$group", Value: bson.M{
			"_id":           nil,
			"total_reports": bson.M{"$sum": 1},
			"pending_reports": bson.M{"$sum": bson.M{
				"$cond": bson.A{bson.M{"$eq": bson.A{"$status", models.StatusPending}}, 1, 0},
			}},
			"under_investigation": bson.M{"$sum": bson.M{
				"$cond": bson.A{bson.M{"$eq": bson.A{"$status", models.StatusUnderInvestigation}}, 1, 0},
			}},
			"resolved_reports": bson.M{"$sum": bson.M{
				"$cond": bson.A{bson.M{"$eq": bson.A{"$status", models.StatusResolved}}, 1, 0},
			}},
			"anonymous_reports": bson.M{"$sum": bson.M{
				"$cond": bson.A{"$is_anonymous", 1, 0},
			}},
			"by_category": bson.M{"$push": "$category"},
			"by_severity": bson.M{"$push": "$severity"},
		}}},
	}

	cursor, err := r.collection.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate report stats: %w", err)
	}
	defer cursor.Close(ctx)

	var results []struct {
		models.ReportStats `bson:",inline"`
		ByCategory         []string `bson:"by_category"`
		BySeverity         []string `bson:"by_severity"`
	}
	if err := cursor.All(ctx, &results); err != nil {
		return nil, fmt.Errorf("failed to decode report stats: %w", err)
	}

	if len(results) == 0 {
		return &models.ReportStats{
			CategoryBreakdown: map[string]int64{},
			SeverityBreakdown: map[string]int64{},
		}, nil
	}

	stats := results[0].ReportStats
	stats.CategoryBreakdown = countValues(results[0].ByCategory)
	stats.SeverityBreakdown = countValues(results[0].BySeverity)

	return &stats, nil
}

func countValues(values []string) map[string]int64 {
	counts := make(map[string]int64, len(values))
	for _, v := range values {
		counts[v]++
	}
	return counts
}
