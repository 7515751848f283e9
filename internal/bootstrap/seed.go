package bootstrap

import (
	"log"

	"github.com/answerhub/community-api/internal/model"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&model.User{},
		&model.Category{},
		&model.Question{},
		&model.Comment{},
		&model.Vote{},
		&model.Follow{},
		&model.Notification{},
	)
}

// SeedCategories inserts the default categories when they are missing.
func SeedCategories(db *gorm.DB) error {
	defaults := []model.Category{
		{Name: "General", Description: "Anything that does not fit elsewhere", SortOrder: 0},
		{Name: "Programming", Description: "Code, tooling and debugging", SortOrder: 1},
		{Name: "Career", Description: "Jobs, interviews and growth", SortOrder: 2},
		{Name: "Academics", Description: "Coursework and study help", SortOrder: 3},
	}

	for _, category := range defaults {
		var count int64
		if err := db.Model(&model.Category{}).
			Where("name = ?", category.Name).
			Count(&count).Error; err != nil {
			return err
		}

		if count == 0 {
			if err := db.Create(&category).Error; err != nil {
				return err
			}
		}
	}

	return nil
}

// SeedModeratorUser creates a development moderator account once.
func SeedModeratorUser(db *gorm.DB) error {
	var count int64
	if err := db.Model(&model.User{}).
		Where("email = ?", "moderator@answerhub.local").
		Count(&count).Error; err != nil {
		return err
	}

	if count > 0 {
		log.Println("Moderator user already exists, skipping seed")
		return nil
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte("moderator123"), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	moderator := model.User{
		Username:     "moderator",
		Email:        "moderator@answerhub.local",
		PasswordHash: string(hashedPassword),
		FullName:     "Community Moderator",
		IsModerator:  true,
		IsVerified:   true,
		Level:        1,
	}

	if err := db.Create(&moderator).Error; err != nil {
		return err
	}

	log.Println("Moderator user seeded (moderator@answerhub.local / moderator123)")
	return nil
}
