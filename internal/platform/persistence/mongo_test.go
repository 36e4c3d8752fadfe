package persistence

import (
	"context"
	"log/slog"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// mongo.Connect does not dial eagerly, so a client pointed at an unreachable
// URI still yields usable handles for accessor tests.
func TestMongoDB_Accessors(t *testing.T) {
	client, _ := mongo.Connect(context.TODO(), options.Client().ApplyURI("mongodb://localhost:27017"))
	database := client.Database("testdb")

	mdb := &MongoDB{
		logger:   slog.New(slog.NewJSONHandler(os.Stdout, nil)),
		client:   client,
		database: database,
	}

	assert.Equal(t, database, mdb.Database())
	assert.Equal(t, "enrollments", mdb.Collection("enrollments").Name())
}
