package services

import (
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/userChris26/Macros-sub000/models"

	"gorm.io/gorm"
)

type MealService struct {
	db      *gorm.DB
	fdc     NutritionSource
	storage ObjectStorage
}

func NewMealService(db *gorm.DB, fdc NutritionSource, storage ObjectStorage) *MealService {
	return &MealService{db: db, fdc: fdc, storage: storage}
}

// GetMeal returns the (user, day, slot) aggregate with its food references
// resolved to full entries. ErrNotFound is the normal "nothing logged yet"
// outcome, not a failure.
func (s *MealService) GetMeal(userID uint, date time.Time, mealType string) (*models.Meal, []models.FoodEntry, error) {
	if userID == 0 || !ValidMealType(mealType) {
		return nil, nil, fmt.Errorf("%w: userId and a valid meal type are required", ErrValidation)
	}
	day := TruncateToDay(date)

	var meal models.Meal
	err := s.db.Where("user_id = ? AND date = ? AND meal_type = ? AND is_template = ?",
		userID, day, mealType, false).First(&meal).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, fmt.Errorf("%w: no %s meal for %s", ErrNotFound, mealType, day.Format("2006-01-02"))
		}
		return nil, nil, err
	}

	foods, err := resolveFoodRefs(s.db, &meal)
	if err != nil {
		return nil, nil, err
	}
	return &meal, foods, nil
}

// resolveFoodRefs is the read-time join from a meal's reference list to entry
// bodies, preserving insertion order. Dangling ids (entry deleted after being
// referenced) are skipped, never an error.
func resolveFoodRefs(db *gorm.DB, meal *models.Meal) ([]models.FoodEntry, error) {
	ids := meal.FoodIDs()
	if len(ids) == 0 {
		return []models.FoodEntry{}, nil
	}

	var entries []models.FoodEntry
	if err := db.Where("id IN ?", ids).Find(&entries).Error; err != nil {
		return nil, err
	}
	byID := make(map[uint]models.FoodEntry, len(entries))
	for _, e := range entries {
		byID[e.ID] = e
	}

	out := make([]models.FoodEntry, 0, len(ids))
	for _, id := range ids {
		if e, ok := byID[id]; ok {
			out = append(out, e)
		}
	}
	return out, nil
}

// AttachPhoto uploads a new photo for the meal and persists its reference.
// The old object is deleted only after the new upload and save succeed, so a
// failed replacement never leaves the meal photo-less.
func (s *MealService) AttachPhoto(userID uint, date time.Time, mealType, photoBase64 string) (*models.Meal, error) {
	if userID == 0 || !ValidMealType(mealType) {
		return nil, fmt.Errorf("%w: userId and a valid meal type are required", ErrValidation)
	}
	if photoBase64 == "" {
		return nil, fmt.Errorf("%w: photo payload is required", ErrValidation)
	}
	if date.IsZero() {
		date = time.Now()
	}
	day := TruncateToDay(date)

	meal, err := findOrCreateMeal(s.db, userID, day, mealType)
	if err != nil {
		return nil, err
	}
	oldKey := meal.PhotoKey

	url, key, err := s.storage.UploadBase64(photoBase64, fmt.Sprintf("meal-photos/%d", userID))
	if err != nil {
		return nil, fmt.Errorf("%w: photo upload failed: %v", ErrUpstream, err)
	}

	meal.PhotoURL = url
	meal.PhotoKey = key
	if err := s.db.Save(meal).Error; err != nil {
		return nil, err
	}

	if oldKey != "" && oldKey != key {
		if err := s.storage.Delete(oldKey); err != nil {
			log.Printf("meal photo cleanup failed for %s: %v", oldKey, err)
		}
	}
	return meal, nil
}

// DetachPhoto deletes the remote object best-effort and clears the reference.
// A storage-side orphan beats a reference we can never clean up.
func (s *MealService) DetachPhoto(userID uint, date time.Time, mealType string) (*models.Meal, error) {
	if userID == 0 || !ValidMealType(mealType) {
		return nil, fmt.Errorf("%w: userId and a valid meal type are required", ErrValidation)
	}
	day := TruncateToDay(date)

	var meal models.Meal
	err := s.db.Where("user_id = ? AND date = ? AND meal_type = ? AND is_template = ?",
		userID, day, mealType, false).First(&meal).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: no %s meal for %s", ErrNotFound, mealType, day.Format("2006-01-02"))
		}
		return nil, err
	}

	if meal.PhotoKey != "" {
		if err := s.storage.Delete(meal.PhotoKey); err != nil {
			log.Printf("meal photo delete failed for %s: %v", meal.PhotoKey, err)
		}
	}
	meal.PhotoURL = ""
	meal.PhotoKey = ""

	if len(meal.FoodIDs()) == 0 {
		if err := s.db.Unscoped().Delete(&meal).Error; err != nil {
			return nil, err
		}
		return &meal, nil
	}
	if err := s.db.Save(&meal).Error; err != nil {
		return nil, err
	}
	return &meal, nil
}

// TemplateItemRequest is one food of a template being created or updated.
type TemplateItemRequest struct {
	FdcID         int     `json:"fdcId"`
	ServingAmount float64 `json:"servingAmount"`
}

func (s *MealService) buildItem(req TemplateItemRequest) (*models.MealItem, error) {
	if req.FdcID <= 0 || req.ServingAmount <= 0 {
		return nil, fmt.Errorf("%w: each item needs fdcId and a positive serving amount", ErrValidation)
	}
	detail, err := s.fdc.GetFood(req.FdcID)
	if err != nil {
		return nil, err
	}
	factor := (detail.GramWeight / 100) * req.ServingAmount
	return &models.MealItem{
		FdcID:         req.FdcID,
		Description:   detail.Description,
		ServingAmount: req.ServingAmount,
		ServingUnit:   detail.ServingUnit,
		GramWeight:    detail.GramWeight,
		Calories:      detail.Nutrients[nutrientEnergy] * factor,
		Protein:       detail.Nutrients[nutrientProtein] * factor,
		Carbs:         detail.Nutrients[nutrientCarbs] * factor,
		Fat:           detail.Nutrients[nutrientFat] * factor,
	}, nil
}

func templateTotals(items []models.MealItem) (cal, protein, carbs, fat float64) {
	for _, it := range items {
		cal += it.Calories
		protein += it.Protein
		carbs += it.Carbs
		fat += it.Fat
	}
	return
}

// AddTemplate creates a reusable named meal with embedded items and
// precomputed totals. Templates are not tied to a day; the full creation
// timestamp keeps them clear of the daily unique index.
func (s *MealService) AddTemplate(userID uint, name, mealType string, items []TemplateItemRequest) (*models.Meal, error) {
	if userID == 0 || name == "" {
		return nil, fmt.Errorf("%w: userId and name are required", ErrValidation)
	}
	if !ValidMealType(mealType) {
		return nil, fmt.Errorf("%w: meal type is required", ErrValidation)
	}

	built := make([]models.MealItem, 0, len(items))
	for _, req := range items {
		item, err := s.buildItem(req)
		if err != nil {
			return nil, err
		}
		built = append(built, *item)
	}

	meal := &models.Meal{
		UserID:     userID,
		Date:       time.Now(),
		MealType:   mealType,
		IsTemplate: true,
		Name:       name,
	}
	meal.TotalCalories, meal.TotalProtein, meal.TotalCarbs, meal.TotalFat = templateTotals(built)
	if err := s.db.Create(meal).Error; err != nil {
		return nil, err
	}

	for i := range built {
		built[i].MealID = meal.ID
		if err := s.db.Create(&built[i]).Error; err != nil {
			return nil, err
		}
	}

	var populated models.Meal
	if err := s.db.Preload("Items").First(&populated, meal.ID).Error; err != nil {
		return nil, err
	}
	return &populated, nil
}

func (s *MealService) ListTemplates(userID uint) ([]models.Meal, error) {
	var templates []models.Meal
	err := s.db.
		Preload("Items").
		Where("user_id = ? AND is_template = ?", userID, true).
		Order("created_at DESC").
		Find(&templates).Error
	return templates, err
}

func (s *MealService) GetTemplate(userID, templateID uint) (*models.Meal, error) {
	var meal models.Meal
	err := s.db.
		Preload("Items").
		Where("id = ? AND user_id = ? AND is_template = ?", templateID, userID, true).
		First(&meal).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: meal template %d", ErrNotFound, templateID)
		}
		return nil, err
	}
	return &meal, nil
}

// UpdateTemplate replaces the template's items and recomputes its totals.
func (s *MealService) UpdateTemplate(userID, templateID uint, name, mealType string, items []TemplateItemRequest) (*models.Meal, error) {
	meal, err := s.GetTemplate(userID, templateID)
	if err != nil {
		return nil, err
	}

	built := make([]models.MealItem, 0, len(items))
	for _, req := range items {
		item, err := s.buildItem(req)
		if err != nil {
			return nil, err
		}
		built = append(built, *item)
	}

	if name != "" {
		meal.Name = name
	}
	if mealType != "" {
		if !ValidMealType(mealType) {
			return nil, fmt.Errorf("%w: invalid meal type", ErrValidation)
		}
		meal.MealType = mealType
	}
	meal.TotalCalories, meal.TotalProtein, meal.TotalCarbs, meal.TotalFat = templateTotals(built)
	meal.Items = nil
	if err := s.db.Save(meal).Error; err != nil {
		return nil, err
	}

	if err := s.db.Unscoped().Where("meal_id = ?", meal.ID).Delete(&models.MealItem{}).Error; err != nil {
		return nil, err
	}
	for i := range built {
		built[i].MealID = meal.ID
		if err := s.db.Create(&built[i]).Error; err != nil {
			return nil, err
		}
	}

	var updated models.Meal
	if err := s.db.Preload("Items").First(&updated, meal.ID).Error; err != nil {
		return nil, err
	}
	return &updated, nil
}

func (s *MealService) DeleteTemplate(userID, templateID uint) error {
	meal, err := s.GetTemplate(userID, templateID)
	if err != nil {
		return err
	}
	if err := s.db.Unscoped().Where("meal_id = ?", meal.ID).Delete(&models.MealItem{}).Error; err != nil {
		return err
	}
	return s.db.Unscoped().Delete(meal).Error
}

// ApplyTemplate fans the template's items out as fresh food entries on the
// given day's slot. The new entries carry the item's stored snapshot; the
// template's own embedded items are untouched.
func (s *MealService) ApplyTemplate(userID, templateID uint, date time.Time) ([]models.FoodEntry, error) {
	template, err := s.GetTemplate(userID, templateID)
	if err != nil {
		return nil, err
	}
	if date.IsZero() {
		date = time.Now()
	}
	day := TruncateToDay(date)

	added := make([]models.FoodEntry, 0, len(template.Items))
	for _, item := range template.Items {
		entry := models.FoodEntry{
			UserID:        userID,
			FdcID:         item.FdcID,
			Description:   item.Description,
			ServingAmount: item.ServingAmount,
			ServingUnit:   item.ServingUnit,
			GramWeight:    item.GramWeight,
			Calories:      item.Calories,
			Protein:       item.Protein,
			Carbs:         item.Carbs,
			Fat:           item.Fat,
			MealType:      template.MealType,
			Date:          day,
			LoggedAt:      time.Now(),
		}
		if err := s.db.Create(&entry).Error; err != nil {
			return nil, err
		}

		meal, err := findOrCreateMeal(s.db, userID, day, template.MealType)
		if err != nil {
			return nil, err
		}
		meal.AppendFoodID(entry.ID)
		if err := s.db.Save(meal).Error; err != nil {
			return nil, err
		}
		added = append(added, entry)
	}
	return added, nil
}
