package db

import (
	"log"
	"os"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/Mariotakouda/s-i-g-e-Api/internal/config"
	"github.com/Mariotakouda/s-i-g-e-Api/internal/models"
)

func Connect(cfg config.Config) (*gorm.DB, error) {
	gormLogger := logger.New(
		log.New(os.Stdout, "", log.LstdFlags),
		logger.Config{
			SlowThreshold:             time.Second,
			LogLevel:                  logger.Warn,
			IgnoreRecordNotFoundError: true,
			Colorful:                  false,
		},
	)

	return gorm.Open(postgres.Open(cfg.DatabaseURL), &gorm.Config{
		Logger: gormLogger,
	})
}

// Migrate creates the schema and the partial unique index guaranteeing at
// most one open check-in per employee per day. The index is what makes the
// check-in race safe: the transaction check catches the common case, the
// constraint decides the winner of a true race.
func Migrate(database *gorm.DB) error {
	err := database.AutoMigrate(
		&models.User{},
		&models.Department{},
		&models.Employee{},
		&models.Role{},
		&models.ManagerAssignment{},
		&models.Task{},
		&models.Presence{},
		&models.LeaveRequest{},
		&models.Announcement{},
	)
	if err != nil {
		return err
	}

	return database.Exec(
		`CREATE UNIQUE INDEX IF NOT EXISTS idx_presences_open_checkin
		 ON presences (employee_id, date) WHERE check_out IS NULL`,
	).Error
}
