// internal/app/bootstrap/dbdeps.go
package bootstrap

import (
	"github.com/valkey-io/valkey-go"
	"go.mongodb.org/mongo-driver/mongo"
)

// DBDeps holds database/back-end dependencies for the app.
type DBDeps struct {
	MongoClient   *mongo.Client
	MongoDatabase *mongo.Database
	Valkey        valkey.Client
}
