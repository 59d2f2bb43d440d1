package services

import (
	"crimewatch/internal/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Actor is the authenticated user performing an operation, as established by
// the auth middleware from token claims.
type Actor struct {
	ID   primitive.ObjectID
	Role models.UserRole
}

// VisibleReportsFilter returns the role-based mongo filter applied before
// any report listing.
//
// Citizens see their own reports plus public (non-anonymous, non-closed)
// ones. Police see everything; a jurisdiction filter is a reserved extension
// point here. Admins see everything.
func VisibleReportsFilter(actor Actor) bson.M {
	switch actor.Role {
	case models.RoleCitizen:
		return bson.M{"$or": []bson.M{
			{"reporter": actor.ID},
			{"is_anonymous": false, "status": bson.M{"$ne": models.StatusClosed}},
		}}
	default:
		return bson.M{}
	}
}

// CanViewReport gates the detail view: a citizen may not open a report that
// is both anonymous and not their own.
func CanViewReport(actor Actor, report *models.Report) bool {
	if actor.Role != models.RoleCitizen {
		return true
	}
	if report.Reporter == actor.ID {
		return true
	}
	return !report.IsAnonymous
}

// PublicHeatmapFilter narrows heatmap/statistics queries for citizens, who
// only see non-anonymous data points.
func PublicHeatmapFilter(actor Actor) bson.M {
	if actor.Role == models.RoleCitizen {
		return bson.M{"is_anonymous": false}
	}
	return bson.M{}
}
