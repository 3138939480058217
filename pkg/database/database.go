package database

import (
	"fmt"
	"log"

	"github.com/meytoof/MentorAI-sub000/internal/config"
	"github.com/meytoof/MentorAI-sub000/internal/model"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// InitDB opens the MySQL connection and, unless migrate is false, runs
// schema migration and seeds the default motivation phrases. Release
// deployments migrate explicitly via the -migrate flag.
func InitDB(cfg *config.DatabaseConfig, migrate bool) (*gorm.DB, error) {
	dsn := fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=%s&parseTime=%t&loc=Local",
		cfg.User,
		cfg.Password,
		cfg.Host,
		cfg.Port,
		cfg.DBName,
		cfg.Charset,
		cfg.ParseTime,
	)

	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Info),
	})

	if err != nil {
		return nil, err
	}

	log.Println("Database connection established")

	if !migrate {
		return db, nil
	}

	err = db.AutoMigrate(
		&model.User{},
		&model.Conversation{},
		&model.Checkin{},
		&model.Motivation{},
	)

	if err != nil {
		return nil, err
	}

	log.Println("Database migration completed")

	// Default encouragement phrases shown on the landing screen.
	var count int64
	db.Model(&model.Motivation{}).Count(&count)
	if count == 0 {
		defaultMotivations := []string{
			"Chaque question que tu poses te rend plus fort !",
			"Se tromper, c'est apprendre. Continue !",
			"Un exercice à la fois, tu vas y arriver.",
			"Les grands savants ont commencé par de petites questions.",
		}
		for i, content := range defaultMotivations {
			motivation := &model.Motivation{
				Content:         content,
				IsEnabled:       true,
				IsCurrentlyUsed: i == 0,
			}
			db.Create(motivation)
		}
	}

	return db, nil
}
