package repository

import (
	"fmt"

	"agendamento/config"
	"agendamento/database"
	schedulerRepo "agendamento/database/repository/scheduler"
)

// NewFromConfig returns the repository for the backend opened by database.InitDB.
func NewFromConfig() (schedulerRepo.SchedulerRepository, error) {
	switch {
	case database.MongoClient != nil:
		return schedulerRepo.NewMongoSchedulerRepo(database.MongoClient.Database(config.AppConfig.MongoDatabase)), nil
	case database.DB != nil:
		return schedulerRepo.NewGormSchedulerRepo(database.DB), nil
	default:
		return nil, fmt.Errorf("no database initialised")
	}
}
