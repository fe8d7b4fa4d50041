package services

import (
	"fmt"
	"sort"
	"time"

	"github.com/userChris26/Macros-sub000/models"

	"gorm.io/gorm"
)

type SocialService struct {
	db *gorm.DB
}

func NewSocialService(db *gorm.DB) *SocialService {
	return &SocialService{db: db}
}

// ProfileSummary is the slice of a user shown to other users. The password
// hash never travels through this type.
type ProfileSummary struct {
	ID         uint   `json:"id"`
	FirstName  string `json:"firstName"`
	LastName   string `json:"lastName"`
	Email      string `json:"email"`
	Bio        string `json:"bio"`
	ProfilePic string `json:"profilePic"`
}

func (s *SocialService) Follow(followerID, followingID uint) error {
	if followerID == 0 || followingID == 0 {
		return fmt.Errorf("%w: followerId and followingId are required", ErrValidation)
	}
	if followerID == followingID {
		return ErrSelfFollow
	}

	var count int64
	if err := s.db.Model(&models.User{}).Where("id IN ?", []uint{followerID, followingID}).Count(&count).Error; err != nil {
		return err
	}
	if count != 2 {
		return fmt.Errorf("%w: user", ErrNotFound)
	}

	edge := models.Follow{FollowerID: followerID, FollowingID: followingID}
	if err := s.db.Create(&edge).Error; err != nil {
		if isUniqueViolation(err) {
			return ErrAlreadyFollowing
		}
		return err
	}
	return nil
}

func (s *SocialService) Unfollow(followerID, followingID uint) error {
	if followerID == 0 || followingID == 0 {
		return fmt.Errorf("%w: followerId and followingId are required", ErrValidation)
	}
	res := s.db.Where("follower_id = ? AND following_id = ?", followerID, followingID).Delete(&models.Follow{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFollowing
	}
	return nil
}

// Followers returns the users following userID, joined to their public fields.
func (s *SocialService) Followers(userID uint) ([]ProfileSummary, error) {
	var rows []ProfileSummary
	err := s.db.
		Table("follows").
		Select("users.id, users.first_name, users.last_name, users.email, users.bio, users.profile_pic").
		Joins("JOIN users ON users.id = follows.follower_id").
		Where("follows.following_id = ? AND users.deleted_at IS NULL", userID).
		Order("follows.created_at DESC").
		Scan(&rows).Error
	return rows, err
}

// Following returns the users that userID follows.
func (s *SocialService) Following(userID uint) ([]ProfileSummary, error) {
	var rows []ProfileSummary
	err := s.db.
		Table("follows").
		Select("users.id, users.first_name, users.last_name, users.email, users.bio, users.profile_pic").
		Joins("JOIN users ON users.id = follows.following_id").
		Where("follows.follower_id = ? AND users.deleted_at IS NULL", userID).
		Order("follows.created_at DESC").
		Scan(&rows).Error
	return rows, err
}

// FeedItem is one followed user's meal for today, foods resolved.
type FeedItem struct {
	User     ProfileSummary     `json:"user"`
	Date     time.Time          `json:"date"`
	MealType string             `json:"mealType"`
	PhotoURL string             `json:"photoUrl,omitempty"`
	Foods    []models.FoodEntry `json:"foods"`
	Totals   NutrientTotals     `json:"totals"`
}

// Feed collects today's meals of every followed user, newest first, slots
// ordered snack → dinner → lunch → breakfast within a day.
func (s *SocialService) Feed(userID uint) ([]FeedItem, error) {
	following, err := s.Following(userID)
	if err != nil {
		return nil, err
	}
	if len(following) == 0 {
		return []FeedItem{}, nil
	}

	byUser := make(map[uint]ProfileSummary, len(following))
	ids := make([]uint, 0, len(following))
	for _, p := range following {
		byUser[p.ID] = p
		ids = append(ids, p.ID)
	}

	today := TruncateToDay(time.Now())
	var meals []models.Meal
	err = s.db.
		Where("user_id IN ? AND date = ? AND is_template = ?", ids, today, false).
		Find(&meals).Error
	if err != nil {
		return nil, err
	}

	items := make([]FeedItem, 0, len(meals))
	for i := range meals {
		meal := &meals[i]
		foods, err := resolveFoodRefs(s.db, meal)
		if err != nil {
			return nil, err
		}
		items = append(items, FeedItem{
			User:     byUser[meal.UserID],
			Date:     meal.Date,
			MealType: meal.MealType,
			PhotoURL: meal.PhotoURL,
			Foods:    foods,
			Totals:   SumNutrients(foods),
		})
	}

	sort.SliceStable(items, func(i, j int) bool {
		if !items[i].Date.Equal(items[j].Date) {
			return items[i].Date.After(items[j].Date)
		}
		return slotRank(items[i].MealType) > slotRank(items[j].MealType)
	})
	return items, nil
}
