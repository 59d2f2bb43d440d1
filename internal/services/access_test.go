package services

import (
	"testing"

	"crimewatch/internal/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestVisibleReportsFilter(t *testing.T) {
	citizenID := primitive.NewObjectID()

	t.Run("citizen", func(t *testing.T) {
		filter := VisibleReportsFilter(Actor{ID: citizenID, Role: models.RoleCitizen})

		branches, ok := filter["$or"].([]bson.M)
		if !ok || len(branches) != 2 {
			t.Fatalf("filter = %v, want $or with two branches", filter)
		}
		if branches[0]["reporter"] != citizenID {
			t.Errorf("own-reports branch = %v, want reporter match", branches[0])
		}
		if branches[1]["is_anonymous"] != false {
			t.Errorf("public branch = %v, want is_anonymous false", branches[1])
		}
		statusCond, ok := branches[1]["status"].(bson.M)
		if !ok || statusCond["$ne"] != models.StatusClosed {
			t.Errorf("public branch status = %v, want $ne closed", branches[1]["status"])
		}
	})

	t.Run("police and admin see everything", func(t *testing.T) {
		for _, role := range []models.UserRole{models.RolePolice, models.RoleAdmin} {
			filter := VisibleReportsFilter(Actor{ID: primitive.NewObjectID(), Role: role})
			if len(filter) != 0 {
				t.Errorf("filter for %s = %v, want empty", role, filter)
			}
		}
	})
}

func TestCanViewReport(t *testing.T) {
	owner := primitive.NewObjectID()
	stranger := primitive.NewObjectID()

	tests := []struct {
		name   string
		actor  Actor
		report *models.Report
		want   bool
	}{
		{
			name:   "citizen views own anonymous report",
			actor:  Actor{ID: owner, Role: models.RoleCitizen},
			report: &models.Report{Reporter: owner, IsAnonymous: true},
			want:   true,
		},
		{
			name:   "citizen blocked from foreign anonymous report",
			actor:  Actor{ID: stranger, Role: models.RoleCitizen},
			report: &models.Report{Reporter: owner, IsAnonymous: true},
			want:   false,
		},
		{
			name:   "citizen views foreign public report",
			actor:  Actor{ID: stranger, Role: models.RoleCitizen},
			report: &models.Report{Reporter: owner},
			want:   true,
		},
		{
			name:   "police views foreign anonymous report",
			actor:  Actor{ID: stranger, Role: models.RolePolice},
			report: &models.Report{Reporter: owner, IsAnonymous: true},
			want:   true,
		},
		{
			name:   "admin views foreign anonymous report",
			actor:  Actor{ID: stranger, Role: models.RoleAdmin},
			report: &models.Report{Reporter: owner, IsAnonymous: true},
			want:   true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CanViewReport(tt.actor, tt.report); got != tt.want {
				t.Errorf("CanViewReport() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestPublicHeatmapFilter(t *testing.T) {
	citizen := Actor{ID: primitive.NewObjectID(), Role: models.RoleCitizen}
	if filter := PublicHeatmapFilter(citizen); filter["is_anonymous"] != false {
		t.Errorf("citizen heatmap filter = %v, want is_anonymous false", filter)
	}

	police := Actor{ID: primitive.NewObjectID(), Role: models.RolePolice}
	if filter := PublicHeatmapFilter(police); len(filter) != 0 {
		t.Errorf("police heatmap filter = %v, want empty", filter)
	}
}
