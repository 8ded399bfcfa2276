package postgres

import (
	"github.com/xin-yuwen/assignment-service/internal/models"
	"github.com/xin-yuwen/assignment-service/internal/repositories"
	"gorm.io/gorm"
)

type repository struct {
	assignment repositories.AssignmentRepository
	task       repositories.TaskRepository
	log        repositories.LogRepository
	admin      repositories.AdminRepository
}

// NewRepository builds the gorm-backed repository aggregate.
func NewRepository(db *gorm.DB) repositories.Repository {
	return &repository{
		assignment: NewAssignmentPostgreSQL(db),
		task:       NewTaskPostgreSQL(db),
		log:        NewLogPostgreSQL(db),
		admin:      NewAdminPostgreSQL(db),
	}
}

func (r *repository) Assignment() repositories.AssignmentRepository { return r.assignment }
func (r *repository) Task() repositories.TaskRepository             { return r.task }
func (r *repository) Log() repositories.LogRepository               { return r.log }
func (r *repository) Admin() repositories.AdminRepository           { return r.admin }

// Migrate creates or updates the schema for all models owned by this store.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.Assignment{},
		&models.Task{},
		&models.AnswerLog{},
		&models.Admin{},
	)
}
