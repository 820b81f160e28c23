package database

import (
	"log"
	"time"

	"github.com/ManuelReschke/YayaHook/internal/pkg/config"
	"github.com/ManuelReschke/YayaHook/internal/pkg/env"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const maxRetries = 5
const retryDelay = 5 * time.Second

// SetupDatabase opens the MySQL connection. The schema is owned by
// cmd/migrate; nothing is created here.
func SetupDatabase(cfg config.Database) *gorm.DB {
	var (
		db  *gorm.DB
		err error
	)

	logLevel := logger.Warn
	if env.IsDev() {
		logLevel = logger.Info
	}

	for i := 0; i < maxRetries; i++ {
		db, err = gorm.Open(mysql.New(mysql.Config{
			DSN:                       cfg.DSN(), // data source name
			DefaultStringSize:         256,       // default size for string fields
			SkipInitializeWithVersion: false,     // auto configure based on currently MySQL version
		}), &gorm.Config{
			// maps unique index violations to gorm.ErrDuplicatedKey
			TranslateError: true,
			Logger:         logger.Default.LogMode(logLevel),
			NowFunc: func() time.Time {
				return time.Now().UTC()
			},
		})
		if err == nil {
			return db
		}

		log.Printf("Failed to connect to database (try %d/%d): %v", i+1, maxRetries, err)
		if i < maxRetries-1 {
			log.Printf("Retry in %v...", retryDelay)
			time.Sleep(retryDelay)
		}
	}

	panic(err)
}
