package database

import (
	"fmt"

	"arena-api/config"
	"arena-api/models"

	log "github.com/sirupsen/logrus"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var DB *gorm.DB

var DefaultJudgeName = "judge"

// InitDB initializes the database connection, migrates the models and populates the database with default values if needed
func InitDB() {
    dsn := fmt.Sprintf("host=%s port=%s user=%s dbname=%s password=%s sslmode=disable TimeZone=UTC", config.PostgresHost, config.PostgresPort, config.PostgresUser, config.PostgresDB, config.PostgresPassword)

    var err error
    DB, err = Open(postgres.Open(dsn))
    if err != nil {
        log.Fatal("failed to connect database: ", err)
    }

    if err := Migrate(DB); err != nil {
        log.Fatal("failed to migrate database: ", err)
    }

    if err := Populate(DB); err != nil {
        log.Fatal("failed to populate database: ", err)
    }
}

// Open opens a gorm connection with driver errors translated to gorm errors,
// so that constraint violations can be told apart from other failures
func Open(dialector gorm.Dialector) (*gorm.DB, error) {
    return gorm.Open(dialector, &gorm.Config{TranslateError: true})
}

// Migrate creates or updates the tables. The order matters: referenced tables come first
func Migrate(db *gorm.DB) error {
    return db.AutoMigrate(
        &models.User{},
        &models.Competition{},
        &models.Submission{},
        &models.Rating{},
    )
}

// Populate creates a default judge when the users table is empty so that competitions can be opened
func Populate(db *gorm.DB) error {
    var countUser int64
    if err := db.Model(&models.User{}).Count(&countUser).Error; err != nil {
        return err
    }
    if countUser > 0 {
        return nil
    }

    judge := models.User{
        Username: DefaultJudgeName,
        Email:    config.DefaultJudgeEmail,
        Judge:    true,
    }
    if err := db.Create(&judge).Error; err != nil {
        return err
    }
    log.Println("Default judge created: ", judge.Email)
    return nil
}
