package database

import (
	"errors"

	"github.com/blogify-dev/blogify-api/internal/model"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// DefaultSuperUser defines the bootstrap super user credentials
type DefaultSuperUser struct {
	Name     string
	Email    string
	Password string
}

// GetDefaultSuperUser returns the bootstrap super user
func GetDefaultSuperUser() DefaultSuperUser {
	return DefaultSuperUser{
		Name:     "Blogify Admin",
		Email:    "admin@blogify.local",
		Password: "Admin@123", // Change this in production!
	}
}

// Seed creates initial data for the database
func Seed(db *gorm.DB) error {
	return SeedUsers(db)
}

// SeedUsers creates the bootstrap super user if not exists
func SeedUsers(db *gorm.DB) error {
	super := GetDefaultSuperUser()

	var existingUser model.User
	result := db.Where("email = ?", super.Email).First(&existingUser)

	if result.Error == nil {
		return nil
	}

	if !errors.Is(result.Error, gorm.ErrRecordNotFound) {
		return result.Error
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(super.Password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	user := model.User{
		Name:     super.Name,
		Email:    super.Email,
		Password: string(hashedPassword),
		IsSuper:  true,
		Status:   model.StatusActive,
	}

	return db.Create(&user).Error
}
