package database

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

type MongoDB struct {
	Client   *mongo.Client
	Database *mongo.Database
	Config   *DatabaseConfig
}

type DatabaseConfig struct {
	URI            string
	Database       string
	MaxPoolSize    int
	MinPoolSize    int
	ConnectTimeout time.Duration
	SocketTimeout  time.Duration
}

func NewMongoDB(config *DatabaseConfig) (*MongoDB, error) {
	ctx, cancel := context.WithTimeout(context.Background(), config.ConnectTimeout)
	defer cancel()

	clientOptions := options.Client().
		ApplyURI(config.URI).
		SetMaxPoolSize(uint64(config.MaxPoolSize)).
		SetMinPoolSize(uint64(config.MinPoolSize)).
		SetSocketTimeout(config.SocketTimeout).
		SetConnectTimeout(config.ConnectTimeout)

	client, err := mongo.Connect(ctx, clientOptions)
	if err != nil {
		return nil, err
	}

	err = client.Ping(ctx, readpref.Primary())
	if err != nil {
		return nil, err
	}

	database := client.Database(config.Database)

	return &MongoDB{
		Client:   client,
		Database: database,
		Config:   config,
	}, nil
}

func (m *MongoDB) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return m.Client.Disconnect(ctx)
}

func (m *MongoDB) Collection(name string) *mongo.Collection {
	return m.Database.Collection(name)
}

func (m *MongoDB) Ping() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return m.Client.Ping(ctx, readpref.Primary())
}

// EnsureIndexes creates the indexes the report listing and FIR queries rely
// on. Safe to call on every startup.
func (m *MongoDB) EnsureIndexes(ctx context.Context) error {
	reports := m.Collection("reports")
	users := m.Collection("users")

	reportIndexes := []mongo.IndexModel{
		{Keys: map[string]interface{}{"category": 1, "status": 1}},
		{Keys: map[string]interface{}{"created_at": -1}},
		{Keys: map[string]interface{}{"reporter": 1}},
		{Keys: map[string]interface{}{"assigned_officer": 1}},
		{Keys: map[string]interface{}{"fir_status": 1}},
		{Keys: map[string]interface{}{"verification_status": 1}},
	}
	if _, err := reports.Indexes().CreateMany(ctx, reportIndexes); err != nil {
		return err
	}

	userIndexes := []mongo.IndexModel{
		{Keys: map[string]interface{}{"email": 1}, Options: options.Index().SetUnique(true)},
		{Keys: map[string]interface{}{"role": 1}},
	}
	if _, err := users.Indexes().CreateMany(ctx, userIndexes); err != nil {
		return err
	}

	return nil
}
