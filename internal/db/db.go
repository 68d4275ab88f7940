package db

import (
	"fmt"
	"log"
	"os"
	"time"

	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/Windi-Fikriyansyah/joki_seeder/internal/errs"
	"github.com/Windi-Fikriyansyah/joki_seeder/internal/models"
)

const (
	connectAttempts = 10
	connectDelay    = 2 * time.Second
)

// Dialector picks the gorm driver for DB_DRIVER.
func Dialector(driver, dsn string) (gorm.Dialector, error) {
	switch driver {
	case "", "postgres":
		return postgres.Open(dsn), nil
	case "mysql":
		return mysql.Open(dsn), nil
	}
	return nil, errs.Newf(errs.Configuration, "db dialector", "unsupported DB_DRIVER %q", driver)
}

// Logger maps DB_LOG onto gorm's logger.
func Logger(level string) logger.Interface {
	l := logger.Warn
	switch level {
	case "silent":
		l = logger.Silent
	case "error":
		l = logger.Error
	case "info":
		l = logger.Info
	}
	return logger.New(log.New(os.Stdout, "\r\n", log.LstdFlags), logger.Config{
		SlowThreshold:             time.Second,
		LogLevel:                  l,
		IgnoreRecordNotFoundError: true,
	})
}

// Connect opens the database, retrying while it comes up.
func Connect(driver, dsn, logLevel string) (*gorm.DB, error) {
	dialector, err := Dialector(driver, dsn)
	if err != nil {
		return nil, err
	}
	var gdb *gorm.DB
	for i := 1; i <= connectAttempts; i++ {
		log.Printf("trying to connect to DB (attempt %d/%d)...", i, connectAttempts)
		gdb, err = gorm.Open(dialector, &gorm.Config{Logger: Logger(logLevel)})
		if err == nil {
			log.Println("connected to DB successfully")
			return gdb, nil
		}
		log.Printf("failed to connect to DB: %v", err)
		if i < connectAttempts {
			time.Sleep(connectDelay)
		}
	}
	return nil, errs.DatabaseError("connect", fmt.Errorf("after %d attempts: %w", connectAttempts, err))
}

// Tables lists every seeded model in dependency order.
func Tables() []any {
	return []any{
		&models.User{},
		&models.FreelancerProfile{},
		&models.Project{},
		&models.Proposal{},
		&models.Contract{},
		&models.Review{},
	}
}

func Migrate(gdb *gorm.DB) error {
	if err := gdb.AutoMigrate(Tables()...); err != nil {
		return errs.DatabaseError("migrate", err)
	}
	return nil
}
