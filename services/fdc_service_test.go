package services

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestFdc(handler http.Handler) (*FdcService, *httptest.Server) {
	srv := httptest.NewServer(handler)
	svc := NewFdcService("test-key")
	svc.baseURL = srv.URL
	return svc, srv
}

func TestFdcSearch(t *testing.T) {
	t.Run("parses results", func(t *testing.T) {
		svc, srv := newTestFdc(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/v1/foods/search", r.URL.Path)
			assert.Equal(t, "cheddar cheese", r.URL.Query().Get("query"))
			assert.Equal(t, "test-key", r.URL.Query().Get("api_key"))
			w.Write([]byte(`{"foods":[
				{"fdcId":173410,"description":"Cheese, cheddar","dataType":"SR Legacy"},
				{"fdcId":329370,"description":"CHEDDAR","brandOwner":"Tillamook","brandName":"Tillamook"}
			]}`))
		}))
		defer srv.Close()

		results, err := svc.Search("cheddar cheese")
		require.NoError(t, err)
		require.Len(t, results, 2)
		assert.Equal(t, 173410, results[0].FdcID)
		assert.Equal(t, "Tillamook", results[1].BrandOwner)
	})

	t.Run("non-200 is an upstream error", func(t *testing.T) {
		svc, srv := newTestFdc(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "rate limited", http.StatusTooManyRequests)
		}))
		defer srv.Close()

		_, err := svc.Search("cheddar")
		assert.ErrorIs(t, err, ErrUpstream)
	})

	t.Run("malformed JSON is an upstream error", func(t *testing.T) {
		svc, srv := newTestFdc(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"foods": [`))
		}))
		defer srv.Close()

		_, err := svc.Search("cheddar")
		assert.ErrorIs(t, err, ErrUpstream)
	})
}

func TestFdcGetFood(t *testing.T) {
	t.Run("parses nutrients and portion", func(t *testing.T) {
		svc, srv := newTestFdc(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/v1/food/173410", r.URL.Path)
			w.Write([]byte(`{
				"fdcId":173410,
				"description":"Cheese, cheddar",
				"servingSize":28.0,
				"servingSizeUnit":"g",
				"foodNutrients":[
					{"nutrient":{"id":1008},"amount":404},
					{"nutrient":{"id":1003},"amount":22.9},
					{"nutrient":{"id":1004},"amount":33.3}
				],
				"foodPortions":[{"gramWeight":132}]
			}`))
		}))
		defer srv.Close()

		detail, err := svc.GetFood(173410)
		require.NoError(t, err)
		assert.Equal(t, 173410, detail.FdcID)
		assert.Equal(t, 404.0, detail.Nutrients[nutrientEnergy])
		assert.Equal(t, 22.9, detail.Nutrients[nutrientProtein])
		assert.Equal(t, 132.0, detail.GramWeight, "labelled portion wins")
		_, ok := detail.Nutrients[nutrientFiber]
		assert.False(t, ok, "omitted nutrients stay absent rather than zero")
	})

	t.Run("falls back to gram serving size", func(t *testing.T) {
		svc, srv := newTestFdc(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"fdcId":1,"description":"x","servingSize":28.0,"servingSizeUnit":"G","foodNutrients":[]}`))
		}))
		defer srv.Close()

		detail, err := svc.GetFood(1)
		require.NoError(t, err)
		assert.Equal(t, 28.0, detail.GramWeight)
	})

	t.Run("falls back to 100g when no portion is usable", func(t *testing.T) {
		svc, srv := newTestFdc(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"fdcId":1,"description":"x","servingSize":1.0,"servingSizeUnit":"cup","foodNutrients":[]}`))
		}))
		defer srv.Close()

		detail, err := svc.GetFood(1)
		require.NoError(t, err)
		assert.Equal(t, 100.0, detail.GramWeight)
	})

	t.Run("404 maps to NotFound", func(t *testing.T) {
		svc, srv := newTestFdc(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.NotFound(w, r)
		}))
		defer srv.Close()

		_, err := svc.GetFood(999999)
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("server error is an upstream error", func(t *testing.T) {
		svc, srv := newTestFdc(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "boom", http.StatusInternalServerError)
		}))
		defer srv.Close()

		_, err := svc.GetFood(173410)
		assert.ErrorIs(t, err, ErrUpstream)
	})
}
