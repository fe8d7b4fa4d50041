package services

import (
	"testing"
	"time"

	"github.com/userChris26/Macros-sub000/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetMeal(t *testing.T) {
	t.Run("no meal logged is NotFound, not a failure", func(t *testing.T) {
		db := setupTestDB(t)
		user := createTestUser(t, db, "u1@example.com")
		svc := NewMealService(db, &fakeNutrition{}, &fakeStorage{})

		_, _, err := svc.GetMeal(user.ID, time.Now(), "breakfast")
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("resolves food references in insertion order", func(t *testing.T) {
		db := setupTestDB(t)
		user := createTestUser(t, db, "u1@example.com")
		fdc := &fakeNutrition{foods: map[int]*FoodDetail{1234: basisFood(1234)}}
		entries := NewFoodEntryService(db, fdc)
		svc := NewMealService(db, fdc, &fakeStorage{})

		day := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
		e1, _, err := entries.AddFood(user.ID, 1234, 150, "breakfast", day)
		require.NoError(t, err)
		e2, _, err := entries.AddFood(user.ID, 1234, 50, "breakfast", day)
		require.NoError(t, err)

		meal, foods, err := svc.GetMeal(user.ID, day, "breakfast")
		require.NoError(t, err)
		require.NotNil(t, meal)
		require.Len(t, foods, 2)
		assert.Equal(t, e1.ID, foods[0].ID)
		assert.Equal(t, e2.ID, foods[1].ID)
		assert.Equal(t, 300.0, foods[0].Calories)
	})

	t.Run("skips dangling references", func(t *testing.T) {
		db := setupTestDB(t)
		user := createTestUser(t, db, "u1@example.com")
		fdc := &fakeNutrition{foods: map[int]*FoodDetail{1234: basisFood(1234)}}
		entries := NewFoodEntryService(db, fdc)
		svc := NewMealService(db, fdc, &fakeStorage{})

		day := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
		e1, meal, err := entries.AddFood(user.ID, 1234, 100, "lunch", day)
		require.NoError(t, err)
		_, _, err = entries.AddFood(user.ID, 1234, 100, "lunch", day)
		require.NoError(t, err)

		// delete the entry out from under the meal without touching FoodRefs
		require.NoError(t, db.Unscoped().Delete(&models.FoodEntry{}, e1.ID).Error)

		var stale models.Meal
		require.NoError(t, db.First(&stale, meal.ID).Error)
		require.Len(t, stale.FoodIDs(), 2, "the dangling reference must still be present")

		_, foods, err := svc.GetMeal(user.ID, day, "lunch")
		require.NoError(t, err, "a dangling reference must be skipped, not surfaced")
		assert.Len(t, foods, 1)
	})
}

func TestAttachPhoto(t *testing.T) {
	t.Run("photo before any food creates the meal row", func(t *testing.T) {
		db := setupTestDB(t)
		user := createTestUser(t, db, "u1@example.com")
		storage := &fakeStorage{}
		svc := NewMealService(db, &fakeNutrition{}, storage)

		day := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
		meal, err := svc.AttachPhoto(user.ID, day, "dinner", "data:image/jpeg;base64,AAAA")
		require.NoError(t, err)

		assert.NotEmpty(t, meal.PhotoURL)
		assert.NotEmpty(t, meal.PhotoKey)
		assert.Empty(t, meal.FoodIDs())
	})

	t.Run("replacement deletes the old object only after the new upload", func(t *testing.T) {
		db := setupTestDB(t)
		user := createTestUser(t, db, "u1@example.com")
		storage := &fakeStorage{}
		svc := NewMealService(db, &fakeNutrition{}, storage)

		day := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
		first, err := svc.AttachPhoto(user.ID, day, "dinner", "data:image/jpeg;base64,AAAA")
		require.NoError(t, err)
		oldKey := first.PhotoKey

		second, err := svc.AttachPhoto(user.ID, day, "dinner", "data:image/jpeg;base64,BBBB")
		require.NoError(t, err)

		assert.NotEqual(t, oldKey, second.PhotoKey)
		assert.Equal(t, []string{oldKey}, storage.deleted)
	})

	t.Run("failed upload leaves the existing photo intact", func(t *testing.T) {
		db := setupTestDB(t)
		user := createTestUser(t, db, "u1@example.com")
		storage := &fakeStorage{}
		svc := NewMealService(db, &fakeNutrition{}, storage)

		day := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
		first, err := svc.AttachPhoto(user.ID, day, "dinner", "data:image/jpeg;base64,AAAA")
		require.NoError(t, err)

		storage.failUpload = true
		_, err = svc.AttachPhoto(user.ID, day, "dinner", "data:image/jpeg;base64,BBBB")
		assert.ErrorIs(t, err, ErrUpstream)

		var kept models.Meal
		require.NoError(t, db.First(&kept, first.ID).Error)
		assert.Equal(t, first.PhotoURL, kept.PhotoURL, "old photo reference must survive a failed replacement")
		assert.Empty(t, storage.deleted, "old object must not be deleted before a successful upload")
	})
}

func TestDetachPhoto(t *testing.T) {
	t.Run("storage failure does not lose the detach", func(t *testing.T) {
		db := setupTestDB(t)
		user := createTestUser(t, db, "u1@example.com")
		storage := &fakeStorage{}
		svc := NewMealService(db, &fakeNutrition{}, storage)

		day := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
		_, err := svc.AttachPhoto(user.ID, day, "snack", "data:image/jpeg;base64,AAAA")
		require.NoError(t, err)

		storage.failDelete = true
		_, err = svc.DetachPhoto(user.ID, day, "snack")
		require.NoError(t, err, "a storage-side orphan beats a stuck reference")
	})

	t.Run("meal without foods disappears with its photo", func(t *testing.T) {
		db := setupTestDB(t)
		user := createTestUser(t, db, "u1@example.com")
		svc := NewMealService(db, &fakeNutrition{}, &fakeStorage{})

		day := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
		_, err := svc.AttachPhoto(user.ID, day, "snack", "data:image/jpeg;base64,AAAA")
		require.NoError(t, err)
		_, err = svc.DetachPhoto(user.ID, day, "snack")
		require.NoError(t, err)

		var count int64
		require.NoError(t, db.Model(&models.Meal{}).Where("user_id = ?", user.ID).Count(&count).Error)
		assert.Zero(t, count)
	})
}

func TestTemplates(t *testing.T) {
	db := setupTestDB(t)
	user := createTestUser(t, db, "u1@example.com")
	fdc := &fakeNutrition{foods: map[int]*FoodDetail{1234: basisFood(1234), 5678: basisFood(5678)}}
	svc := NewMealService(db, fdc, &fakeStorage{})

	template, err := svc.AddTemplate(user.ID, "Protein Breakfast", "breakfast", []TemplateItemRequest{
		{FdcID: 1234, ServingAmount: 150},
		{FdcID: 5678, ServingAmount: 50},
	})
	require.NoError(t, err)
	require.Len(t, template.Items, 2)
	assert.True(t, template.IsTemplate)
	assert.Equal(t, 400.0, template.TotalCalories) // 300 + 100
	assert.Equal(t, 20.0, template.TotalProtein)

	t.Run("list and get", func(t *testing.T) {
		templates, err := svc.ListTemplates(user.ID)
		require.NoError(t, err)
		require.Len(t, templates, 1)

		got, err := svc.GetTemplate(user.ID, template.ID)
		require.NoError(t, err)
		assert.Equal(t, "Protein Breakfast", got.Name)

		other := createTestUser(t, db, "other@example.com")
		_, err = svc.GetTemplate(other.ID, template.ID)
		assert.ErrorIs(t, err, ErrNotFound, "templates are private to their owner")
	})

	t.Run("update replaces items and recomputes totals", func(t *testing.T) {
		updated, err := svc.UpdateTemplate(user.ID, template.ID, "Light Breakfast", "", []TemplateItemRequest{
			{FdcID: 1234, ServingAmount: 50},
		})
		require.NoError(t, err)
		require.Len(t, updated.Items, 1)
		assert.Equal(t, "Light Breakfast", updated.Name)
		assert.Equal(t, 100.0, updated.TotalCalories)

		var itemCount int64
		require.NoError(t, db.Model(&models.MealItem{}).Where("meal_id = ?", template.ID).Count(&itemCount).Error)
		assert.EqualValues(t, 1, itemCount, "old items must not linger")
	})

	t.Run("apply fans out fresh food entries", func(t *testing.T) {
		day := time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)
		added, err := svc.ApplyTemplate(user.ID, template.ID, day)
		require.NoError(t, err)
		require.Len(t, added, 1)
		assert.Equal(t, 100.0, added[0].Calories)
		assert.Equal(t, day, TruncateToDay(added[0].Date))

		var meal models.Meal
		require.NoError(t, db.Where("user_id = ? AND date = ? AND meal_type = ? AND is_template = ?",
			user.ID, day, "breakfast", false).First(&meal).Error)
		assert.Equal(t, []uint{added[0].ID}, meal.FoodIDs())

		// the template's own embedded items are untouched
		got, err := svc.GetTemplate(user.ID, template.ID)
		require.NoError(t, err)
		assert.Len(t, got.Items, 1)
	})

	t.Run("delete removes template and items", func(t *testing.T) {
		require.NoError(t, svc.DeleteTemplate(user.ID, template.ID))
		_, err := svc.GetTemplate(user.ID, template.ID)
		assert.ErrorIs(t, err, ErrNotFound)

		var itemCount int64
		require.NoError(t, db.Model(&models.MealItem{}).Where("meal_id = ?", template.ID).Count(&itemCount).Error)
		assert.Zero(t, itemCount)
	})

	t.Run("templates never collide with daily meals", func(t *testing.T) {
		_, err := svc.AddTemplate(user.ID, "Another", "breakfast", nil)
		require.NoError(t, err)
		_, err = svc.AddTemplate(user.ID, "And Another", "breakfast", nil)
		require.NoError(t, err, "two templates for the same slot must coexist")
	})
}
