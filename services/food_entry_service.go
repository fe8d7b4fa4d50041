package services

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/userChris26/Macros-sub000/models"

	"gorm.io/gorm"
)

// Meal slots, in feed order.
var MealTypes = []string{"breakfast", "lunch", "dinner", "snack"}

func ValidMealType(t string) bool {
	for _, m := range MealTypes {
		if m == t {
			return true
		}
	}
	return false
}

func slotRank(mealType string) int {
	for i, m := range MealTypes {
		if m == mealType {
			return i
		}
	}
	return len(MealTypes)
}

// TruncateToDay drops the time-of-day part, keeping the location.
func TruncateToDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

type NutrientTotals struct {
	Calories float64 `json:"calories"`
	Protein  float64 `json:"protein"`
	Carbs    float64 `json:"carbs"`
	Fat      float64 `json:"fat"`
	Fiber    float64 `json:"fiber"`
	Sugar    float64 `json:"sugar"`
	Sodium   float64 `json:"sodium"`
}

// SumNutrients is the single summation used by every read path. Each field is
// summed independently; no rounding until presentation.
func SumNutrients(entries []models.FoodEntry) NutrientTotals {
	var t NutrientTotals
	for _, e := range entries {
		t.Calories += e.Calories
		t.Protein += e.Protein
		t.Carbs += e.Carbs
		t.Fat += e.Fat
		t.Fiber += e.Fiber
		t.Sugar += e.Sugar
		t.Sodium += e.Sodium
	}
	return t
}

type FoodEntryService struct {
	db  *gorm.DB
	fdc NutritionSource
}

func NewFoodEntryService(db *gorm.DB, fdc NutritionSource) *FoodEntryService {
	return &FoodEntryService{db: db, fdc: fdc}
}

const mealUpsertRetries = 3

// findOrCreateMeal resolves the (user, day, slot) aggregate, creating it when
// absent. The find-then-create sequence is not atomic: when two requests race
// on a new key, the unique index fails one create, and that loser re-reads the
// winner's row instead of erroring.
func findOrCreateMeal(db *gorm.DB, userID uint, day time.Time, mealType string) (*models.Meal, error) {
	for attempt := 0; attempt < mealUpsertRetries; attempt++ {
		var meal models.Meal
		err := db.Where("user_id = ? AND date = ? AND meal_type = ? AND is_template = ?",
			userID, day, mealType, false).First(&meal).Error
		if err == nil {
			return &meal, nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}

		meal = models.Meal{UserID: userID, Date: day, MealType: mealType}
		err = db.Create(&meal).Error
		if err == nil {
			return &meal, nil
		}
		if !isUniqueViolation(err) {
			return nil, err
		}
		// lost the create race; loop re-reads the winner
	}
	return nil, fmt.Errorf("%w: could not upsert meal for %s/%s", ErrConflict, day.Format("2006-01-02"), mealType)
}

func isUniqueViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "duplicate key") || strings.Contains(msg, "UNIQUE constraint")
}

// AddFood fetches the food's per-100g basis, scales it to the serving, stores
// the entry and attaches it to the owning meal. A zero date means "now".
func (s *FoodEntryService) AddFood(userID uint, fdcID int, servingAmount float64, mealType string, date time.Time) (*models.FoodEntry, *models.Meal, error) {
	if userID == 0 || fdcID <= 0 {
		return nil, nil, fmt.Errorf("%w: userId and fdcId are required", ErrValidation)
	}
	if servingAmount <= 0 {
		return nil, nil, fmt.Errorf("%w: serving amount must be positive", ErrValidation)
	}
	if !ValidMealType(mealType) {
		return nil, nil, fmt.Errorf("%w: meal type must be one of %s", ErrValidation, strings.Join(MealTypes, "|"))
	}

	if date.IsZero() {
		date = time.Now()
	}
	day := TruncateToDay(date)

	detail, err := s.fdc.GetFood(fdcID)
	if err != nil {
		return nil, nil, err
	}

	// grams consumed per 100g of basis
	factor := (detail.GramWeight / 100) * servingAmount

	entry := &models.FoodEntry{
		UserID:        userID,
		FdcID:         fdcID,
		Description:   detail.Description,
		BrandOwner:    detail.BrandOwner,
		BrandName:     detail.BrandName,
		ServingAmount: servingAmount,
		ServingUnit:   detail.ServingUnit,
		GramWeight:    detail.GramWeight,
		Calories:      detail.Nutrients[nutrientEnergy] * factor,
		Protein:       detail.Nutrients[nutrientProtein] * factor,
		Carbs:         detail.Nutrients[nutrientCarbs] * factor,
		Fat:           detail.Nutrients[nutrientFat] * factor,
		Fiber:         detail.Nutrients[nutrientFiber] * factor,
		Sugar:         detail.Nutrients[nutrientSugar] * factor,
		Sodium:        detail.Nutrients[nutrientSodium] * factor,
		MealType:      mealType,
		Date:          day,
		LoggedAt:      date,
	}
	if err := s.db.Create(entry).Error; err != nil {
		return nil, nil, err
	}

	meal, err := s.attachToMeal(userID, day, mealType, entry.ID)
	if err != nil {
		return nil, nil, err
	}
	return entry, meal, nil
}

func (s *FoodEntryService) attachToMeal(userID uint, day time.Time, mealType string, entryID uint) (*models.Meal, error) {
	meal, err := findOrCreateMeal(s.db, userID, day, mealType)
	if err != nil {
		return nil, err
	}
	if !containsID(meal.FoodIDs(), entryID) {
		meal.AppendFoodID(entryID)
		if err := s.db.Save(meal).Error; err != nil {
			return nil, err
		}
	}
	return meal, nil
}

func containsID(ids []uint, id uint) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}

// DeleteEntry removes an entry owned by the user and eagerly cleans the owning
// meal's reference list, dropping the meal row when nothing is left on it.
func (s *FoodEntryService) DeleteEntry(userID, entryID uint) error {
	var entry models.FoodEntry
	err := s.db.Where("id = ? AND user_id = ?", entryID, userID).First(&entry).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("%w: food entry %d", ErrNotFound, entryID)
		}
		return err
	}
	if err := s.db.Unscoped().Delete(&entry).Error; err != nil {
		return err
	}

	var meal models.Meal
	err = s.db.Where("user_id = ? AND date = ? AND meal_type = ? AND is_template = ?",
		userID, entry.Date, entry.MealType, false).First(&meal).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		return err
	}

	meal.RemoveFoodID(entryID)
	if len(meal.FoodIDs()) == 0 && meal.PhotoKey == "" && meal.PhotoURL == "" {
		return s.db.Unscoped().Delete(&meal).Error
	}
	return s.db.Save(&meal).Error
}

// ListByDate returns the day's entries in logging order, plus their totals.
func (s *FoodEntryService) ListByDate(userID uint, date time.Time) ([]models.FoodEntry, NutrientTotals, error) {
	if userID == 0 {
		return nil, NutrientTotals{}, fmt.Errorf("%w: userId is required", ErrValidation)
	}
	if date.IsZero() {
		date = time.Now()
	}
	day := TruncateToDay(date)

	var entries []models.FoodEntry
	err := s.db.
		Where("user_id = ? AND date = ?", userID, day).
		Order("logged_at ASC").
		Find(&entries).Error
	if err != nil {
		return nil, NutrientTotals{}, err
	}
	return entries, SumNutrients(entries), nil
}
