package database

import (
	"fmt"
	"log"

	"visaprep_backend/internal/config"
	"visaprep_backend/internal/model"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func InitDB(cfg *config.DatabaseConfig) (*gorm.DB, error) {
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
		Logger: logger.Default.LogMode(logger.Warn),
	})

	if err != nil {
		return nil, err
	}

	log.Println("Database connection established")

	err = db.AutoMigrate(
		&model.User{},
		&model.Chapter{},
		&model.Test{},
		&model.Question{},
		&model.Answer{},
		&model.TestAttempt{},
		&model.UserAnswer{},
	)

	if err != nil {
		return nil, err
	}

	log.Println("Database migration completed")

	seedChapters(db)

	return db, nil
}

// seedChapters fills an empty database with the study-guide chapter outline so
// a fresh install can group tests immediately. No-op once chapters exist.
func seedChapters(db *gorm.DB) {
	var count int64
	db.Model(&model.Chapter{}).Count(&count)
	if count > 0 {
		return
	}

	defaultChapters := []model.Chapter{
		{ChapterNumber: 1, Name: "The values and principles of the UK", Description: "Fundamental principles of British life"},
		{ChapterNumber: 2, Name: "What is the UK?", Description: "Countries of the UK and their identities"},
		{ChapterNumber: 3, Name: "A long and illustrious history", Description: "History from early Britain to the present"},
		{ChapterNumber: 4, Name: "A modern, thriving society", Description: "Population, religion, customs and traditions"},
		{ChapterNumber: 5, Name: "The UK government, the law and your role", Description: "Government, law and civic participation"},
	}
	for _, c := range defaultChapters {
		db.Create(&c)
	}
}
