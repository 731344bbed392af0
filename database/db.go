package database

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"agendamento/config"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// DB is the global SQLite handle when DB_DRIVER is "sqlite".
var DB *gorm.DB

// MongoClient is the global MongoDB client instance when DB_DRIVER is "mongo".
var MongoClient *mongo.Client

// OpenSQLite opens the single-file store. Writes are serialised through one
// connection, which also keeps ":memory:" databases alive across calls.
func OpenSQLite(path string) (*gorm.DB, error) {
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("create data dir: %w", err)
		}
	}

	gormCfg := &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Warn),
		NowFunc: func() time.Time {
			return time.Now().UTC()
		},
	}
	db, err := gorm.Open(sqlite.Open(path), gormCfg)
	if err != nil {
		return nil, fmt.Errorf("gorm open: %w", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("db.DB(): %w", err)
	}
	sqlDB.SetMaxOpenConns(1)
	return db, nil
}

// ConnectMongo connects and pings the configured MongoDB deployment.
func ConnectMongo(uri string) (*mongo.Client, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("connect to MongoDB: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		return nil, fmt.Errorf("ping MongoDB: %w", err)
	}
	return client, nil
}

// InitDB initializes the configured backend.
func InitDB() {
	switch config.AppConfig.DBDriver {
	case "mongo":
		client, err := ConnectMongo(config.AppConfig.DatabaseURL)
		if err != nil {
			log.Fatalf("failed to initialize MongoDB: %v", err)
		}
		MongoClient = client
		log.Println("Connected to MongoDB successfully!")
	default:
		db, err := OpenSQLite(config.AppConfig.DBPath)
		if err != nil {
			log.Fatalf("failed to open SQLite database %s: %v", config.AppConfig.DBPath, err)
		}
		DB = db
		log.Printf("Opened SQLite database at %s", config.AppConfig.DBPath)
	}
}
