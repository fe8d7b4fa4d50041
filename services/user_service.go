package services

import (
	"errors"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/userChris26/Macros-sub000/models"

	"gorm.io/gorm"
)

type UserService struct {
	db      *gorm.DB
	storage ObjectStorage
}

func NewUserService(db *gorm.DB, storage ObjectStorage) *UserService {
	return &UserService{db: db, storage: storage}
}

func (s *UserService) Get(userID uint) (*models.User, error) {
	var user models.User
	if err := s.db.First(&user, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: user %d", ErrNotFound, userID)
		}
		return nil, err
	}
	return &user, nil
}

// Update applies the profile fields; empty strings leave a field untouched,
// except bio which may be cleared explicitly.
func (s *UserService) Update(userID uint, firstName, lastName string, bio *string) (*models.User, error) {
	user, err := s.Get(userID)
	if err != nil {
		return nil, err
	}
	if firstName != "" {
		user.FirstName = firstName
	}
	if lastName != "" {
		user.LastName = lastName
	}
	if bio != nil {
		user.Bio = *bio
	}
	if err := s.db.Save(user).Error; err != nil {
		return nil, err
	}
	return user, nil
}

// Search matches name or email substrings, case-insensitively.
func (s *UserService) Search(query string) ([]ProfileSummary, error) {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return nil, fmt.Errorf("%w: search query is required", ErrValidation)
	}
	pattern := "%" + q + "%"

	var rows []ProfileSummary
	err := s.db.
		Model(&models.User{}).
		Select("id, first_name, last_name, email, bio, profile_pic").
		Where("LOWER(first_name) LIKE ? OR LOWER(last_name) LIKE ? OR LOWER(email) LIKE ?",
			pattern, pattern, pattern).
		Order("first_name ASC, last_name ASC").
		Limit(25).
		Scan(&rows).Error
	return rows, err
}

// UploadProfilePic replaces the user's photo. Same ordering rule as meal
// photos: the old object is removed only after the new one is live.
func (s *UserService) UploadProfilePic(userID uint, photoBase64 string) (*models.User, error) {
	if photoBase64 == "" {
		return nil, fmt.Errorf("%w: photo payload is required", ErrValidation)
	}
	user, err := s.Get(userID)
	if err != nil {
		return nil, err
	}
	oldKey := user.ProfilePicKey

	url, key, err := s.storage.UploadBase64(photoBase64, fmt.Sprintf("profile-pictures/%d", userID))
	if err != nil {
		return nil, fmt.Errorf("%w: photo upload failed: %v", ErrUpstream, err)
	}

	user.ProfilePic = url
	user.ProfilePicKey = key
	if err := s.db.Save(user).Error; err != nil {
		return nil, err
	}

	if oldKey != "" && oldKey != key {
		if err := s.storage.Delete(oldKey); err != nil {
			log.Printf("profile photo cleanup failed for %s: %v", oldKey, err)
		}
	}
	return user, nil
}

func (s *UserService) DeleteProfilePic(userID uint) (*models.User, error) {
	user, err := s.Get(userID)
	if err != nil {
		return nil, err
	}
	if user.ProfilePicKey != "" {
		if err := s.storage.Delete(user.ProfilePicKey); err != nil {
			log.Printf("profile photo delete failed for %s: %v", user.ProfilePicKey, err)
		}
	}
	user.ProfilePic = ""
	user.ProfilePicKey = ""
	if err := s.db.Save(user).Error; err != nil {
		return nil, err
	}
	return user, nil
}

type DashboardStats struct {
	TotalCalories float64 `json:"totalCalories"`
	TotalEntries  int64   `json:"totalEntries"`
	Following     int64   `json:"following"`
	Followers     int64   `json:"followers"`
}

func (s *UserService) DashboardStats(userID uint) (*DashboardStats, error) {
	if _, err := s.Get(userID); err != nil {
		return nil, err
	}

	var stats DashboardStats
	today := TruncateToDay(time.Now())

	var entries []models.FoodEntry
	if err := s.db.Where("user_id = ? AND date = ?", userID, today).Find(&entries).Error; err != nil {
		return nil, err
	}
	stats.TotalCalories = SumNutrients(entries).Calories

	if err := s.db.Model(&models.FoodEntry{}).Where("user_id = ?", userID).Count(&stats.TotalEntries).Error; err != nil {
		return nil, err
	}
	if err := s.db.Model(&models.Follow{}).Where("follower_id = ?", userID).Count(&stats.Following).Error; err != nil {
		return nil, err
	}
	if err := s.db.Model(&models.Follow{}).Where("following_id = ?", userID).Count(&stats.Followers).Error; err != nil {
		return nil, err
	}
	return &stats, nil
}

// Delete removes the account and everything it owns. The sub-deletions run
// concurrently and are best-effort: a failed branch is logged and the rest
// continue, then the user row itself goes away.
func (s *UserService) Delete(userID uint) error {
	user, err := s.Get(userID)
	if err != nil {
		return err
	}

	// collect meal photo keys before the meal rows disappear
	var photoKeys []string
	if err := s.db.Model(&models.Meal{}).
		Where("user_id = ? AND photo_key <> ''", userID).
		Pluck("photo_key", &photoKeys).Error; err != nil {
		log.Printf("account cascade: listing meal photos for user %d failed: %v", userID, err)
	}

	var wg sync.WaitGroup
	branch := func(name string, fn func() error) {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := fn(); err != nil {
				log.Printf("account cascade: %s failed for user %d: %v", name, userID, err)
			}
		}()
	}

	branch("food entries", func() error {
		return s.db.Unscoped().Where("user_id = ?", userID).Delete(&models.FoodEntry{}).Error
	})
	branch("meals", func() error {
		if err := s.db.Unscoped().
			Where("meal_id IN (?)", s.db.Model(&models.Meal{}).Select("id").Where("user_id = ?", userID)).
			Delete(&models.MealItem{}).Error; err != nil {
			return err
		}
		return s.db.Unscoped().Where("user_id = ?", userID).Delete(&models.Meal{}).Error
	})
	branch("follow edges", func() error {
		return s.db.Where("follower_id = ? OR following_id = ?", userID, userID).Delete(&models.Follow{}).Error
	})
	branch("photos", func() error {
		if user.ProfilePicKey != "" {
			photoKeys = append(photoKeys, user.ProfilePicKey)
		}
		for _, key := range photoKeys {
			if err := s.storage.Delete(key); err != nil {
				log.Printf("account cascade: photo delete failed for %s: %v", key, err)
			}
		}
		return nil
	})
	wg.Wait()

	return s.db.Unscoped().Delete(user).Error
}
