package services

import (
	"context"
	"sync"
	"testing"
	"time"

	"crimewatch/internal/models"
	"crimewatch/internal/notifications"
	"crimewatch/internal/utils"
	"crimewatch/pkg/logger"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func newTestLogger(t *testing.T) *logger.Logger {
	t.Helper()
	log, err := logger.NewLogger(&logger.Config{Level: logger.ErrorLevel, Output: "stderr"})
	if err != nil {
		t.Fatalf("NewLogger() error = %v", err)
	}
	return log
}

// captureMailer records deliveries so tests can assert what the queue sent.
type captureMailer struct {
	mu   sync.Mutex
	sent []capturedMail
}

type capturedMail struct {
	To      string
	Subject string
}

func (m *captureMailer) Send(ctx context.Context, to, subject, htmlBody string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent = append(m.sent, capturedMail{To: to, Subject: subject})
	return nil
}

func (m *captureMailer) deliveries() []capturedMail {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]capturedMail(nil), m.sent...)
}

func newTestQueue(t *testing.T) (*notifications.Queue, *captureMailer) {
	t.Helper()
	mailer := &captureMailer{}
	queue := notifications.NewQueue(mailer, newTestLogger(t))
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		_ = queue.Shutdown(ctx)
	})
	return queue, mailer
}

func waitForDeliveries(mailer *captureMailer, n int, timeout time.Duration) bool {
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if len(mailer.deliveries()) >= n {
			return true
		}
		time.Sleep(5 * time.Millisecond)
	}
	return len(mailer.deliveries()) >= n
}

// fakeUserRepo is an in-memory UserRepository. Listing ignores mongo filter
// semantics; tests that care about filters assert on the filter itself.
type fakeUserRepo struct {
	mu    sync.Mutex
	users map[primitive.ObjectID]*models.User
}

func newFakeUserRepo(users ...*models.User) *fakeUserRepo {
	repo := &fakeUserRepo{users: make(map[primitive.ObjectID]*models.User)}
	for _, user := range users {
		if user.ID.IsZero() {
			user.ID = primitive.NewObjectID()
		}
		repo.users[user.ID] = user
	}
	return repo
}

func (f *fakeUserRepo) Create(ctx context.Context, user *models.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	user.ID = primitive.NewObjectID()
	user.CreatedAt = time.Now()
	f.users[user.ID] = user
	return nil
}

func (f *fakeUserRepo) GetByID(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if user, ok := f.users[id]; ok {
		return user, nil
	}
	return nil, utils.NewNotFoundError(utils.ErrUserNotFound)
}

func (f *fakeUserRepo) Update(ctx context.Context, id primitive.ObjectID, updates map[string]interface{}) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	user, ok := f.users[id]
	if !ok {
		return utils.NewNotFoundError(utils.ErrUserNotFound)
	}
	for key, value := range updates {
		switch key {
		case "is_verified":
			user.IsVerified = value.(bool)
		case "is_active":
			user.IsActive = value.(bool)
		case "role":
			user.Role = value.(models.UserRole)
		case "badge_number":
			user.BadgeNumber = value.(string)
		case "department":
			user.Department = value.(string)
		case "password":
			user.Password = value.(string)
		case "first_name":
			user.FirstName = value.(string)
		case "last_name":
			user.LastName = value.(string)
		case "phone":
			user.Phone = value.(string)
		case "fcm_token":
			user.FCMToken = value.(string)
		}
	}
	return nil
}

func (f *fakeUserRepo) Delete(ctx context.Context, id primitive.ObjectID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.users[id]; !ok {
		return utils.NewNotFoundError(utils.ErrUserNotFound)
	}
	delete(f.users, id)
	return nil
}

func (f *fakeUserRepo) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, user := range f.users {
		if user.Email == email {
			return user, nil
		}
	}
	return nil, utils.NewNotFoundError(utils.ErrUserNotFound)
}

func (f *fakeUserRepo) GetByResetToken(ctx context.Context, token string) (*models.User, error) {
	return nil, utils.NewValidationError(utils.ErrInvalidToken)
}

func (f *fakeUserRepo) List(ctx context.Context, filter bson.M, params *utils.PaginationParams) ([]*models.User, int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	users := make([]*models.User, 0, len(f.users))
	for _, user := range f.users {
		users = append(users, user)
	}
	return users, int64(len(users)), nil
}

func (f *fakeUserRepo) ListActiveOfficers(ctx context.Context) ([]*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var officers []*models.User
	for _, user := range f.users {
		if user.Role == models.RolePolice && user.IsActive && user.IsVerified {
			officers = append(officers, user)
		}
	}
	return officers, nil
}

func (f *fakeUserRepo) Count(ctx context.Context, filter bson.M) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return int64(len(f.users)), nil
}

func (f *fakeUserRepo) GetUserStats(ctx context.Context, filter bson.M) (*models.UserStats, error) {
	return &models.UserStats{}, nil
}

// fakeReportRepo stores reports in memory and records the last filter each
// query received, so tests can assert on the filters services build.
type fakeReportRepo struct {
	mu         sync.Mutex
	reports    map[primitive.ObjectID]*models.Report
	lastFilter bson.M
}

func newFakeReportRepo(reports ...*models.Report) *fakeReportRepo {
	repo := &fakeReportRepo{reports: make(map[primitive.ObjectID]*models.Report)}
	for _, report := range reports {
		if report.ID.IsZero() {
			report.ID = primitive.NewObjectID()
		}
		repo.reports[report.ID] = report
	}
	return repo
}

func (f *fakeReportRepo) Create(ctx context.Context, report *models.Report) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	report.ID = primitive.NewObjectID()
	report.CreatedAt = time.Now()
	report.UpdatedAt = report.CreatedAt
	f.reports[report.ID] = report
	return nil
}

func (f *fakeReportRepo) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Report, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if report, ok := f.reports[id]; ok {
		return report, nil
	}
	return nil, utils.NewNotFoundError(utils.ErrReportNotFound)
}

func (f *fakeReportRepo) Save(ctx context.Context, report *models.Report) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.reports[report.ID]; !ok {
		return utils.NewNotFoundError(utils.ErrReportNotFound)
	}
	f.reports[report.ID] = report
	return nil
}

func (f *fakeReportRepo) List(ctx context.Context, filter bson.M, params *utils.PaginationParams) ([]*models.Report, int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lastFilter = filter
	reports := make([]*models.Report, 0, len(f.reports))
	for _, report := range f.reports {
		reports = append(reports, report)
	}
	return reports, int64(len(reports)), nil
}

func (f *fakeReportRepo) Count(ctx context.Context, filter bson.M) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return int64(len(f.reports)), nil
}

func (f *fakeReportRepo) CountByReporter(ctx context.Context, reporterID primitive.ObjectID) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var count int64
	for _, report := range f.reports {
		if report.Reporter == reporterID {
			count++
		}
	}
	return count, nil
}

func (f *fakeReportRepo) GetHeatmapData(ctx context.Context, filter bson.M) ([]*models.HeatmapPoint, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lastFilter = filter
	return nil, nil
}

func (f *fakeReportRepo) GetReportStats(ctx context.Context, filter bson.M) (*models.ReportStats, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lastFilter = filter
	return &models.ReportStats{}, nil
}

func (f *fakeReportRepo) filterSeen() bson.M {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.lastFilter
}

func validLocation() models.Location {
	return models.Location{
		Address:     "14 Market Street",
		Coordinates: models.Coordinates{Lat: 18.52, Lng: 73.85},
		City:        "Pune",
	}
}
