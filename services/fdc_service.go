package services

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const defaultFdcBaseURL = "https://api.nal.usda.gov/fdc"

// FoodData Central nutrient numbers for the fields we consume.
const (
	nutrientEnergy  = 1008
	nutrientProtein = 1003
	nutrientFat     = 1004
	nutrientCarbs   = 1005
	nutrientFiber   = 1079
	nutrientSugar   = 2000
	nutrientSodium  = 1093
)

// FdcService talks to the USDA FoodData Central API.
type FdcService struct {
	apiKey  string
	baseURL string
	client  *http.Client
}

func NewFdcService(apiKey string) *FdcService {
	return &FdcService{
		apiKey:  apiKey,
		baseURL: defaultFdcBaseURL,
		client:  &http.Client{Timeout: 10 * time.Second},
	}
}

type FoodSearchResult struct {
	FdcID       int    `json:"fdcId"`
	Description string `json:"description"`
	DataType    string `json:"dataType,omitempty"`
	BrandOwner  string `json:"brandOwner,omitempty"`
	BrandName   string `json:"brandName,omitempty"`
}

// FoodDetail is the per-100g nutrient basis plus the labelled portion.
// Nutrients is keyed by FDC nutrient number; a nutrient the upstream response
// omits is simply absent from the map.
type FoodDetail struct {
	FdcID       int     `json:"fdcId"`
	Description string  `json:"description"`
	BrandOwner  string  `json:"brandOwner,omitempty"`
	BrandName   string  `json:"brandName,omitempty"`
	ServingSize float64 `json:"servingSize,omitempty"`
	ServingUnit string  `json:"servingUnit,omitempty"`

	// Gram weight of the labelled portion; falls back to 100 when the
	// response carries no usable portion.
	GramWeight float64 `json:"gramWeight"`

	Nutrients map[int]float64 `json:"-"`
}

type fdcSearchResponse struct {
	Foods []struct {
		FdcID       int    `json:"fdcId"`
		Description string `json:"description"`
		DataType    string `json:"dataType"`
		BrandOwner  string `json:"brandOwner"`
		BrandName   string `json:"brandName"`
	} `json:"foods"`
}

type fdcFoodResponse struct {
	FdcID           int     `json:"fdcId"`
	Description     string  `json:"description"`
	BrandOwner      string  `json:"brandOwner"`
	BrandName       string  `json:"brandName"`
	ServingSize     float64 `json:"servingSize"`
	ServingSizeUnit string  `json:"servingSizeUnit"`
	FoodNutrients   []struct {
		Nutrient struct {
			ID int `json:"id"`
		} `json:"nutrient"`
		Amount float64 `json:"amount"`
	} `json:"foodNutrients"`
	FoodPortions []struct {
		GramWeight float64 `json:"gramWeight"`
	} `json:"foodPortions"`
}

// Search calls the FoodData Central search endpoint.
func (s *FdcService) Search(query string) ([]FoodSearchResult, error) {
	u := fmt.Sprintf("%s/v1/foods/search?query=%s&pageSize=25&api_key=%s",
		s.baseURL, url.QueryEscape(query), s.apiKey)

	resp, err := s.client.Get(u)
	if err != nil {
		return nil, fmt.Errorf("%w: fdc search call failed: %v", ErrUpstream, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read fdc search response: %v", ErrUpstream, err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: fdc search returned %d: %s", ErrUpstream, resp.StatusCode, truncateBody(body))
	}

	var sr fdcSearchResponse
	if err := json.Unmarshal(body, &sr); err != nil {
		return nil, fmt.Errorf("%w: failed to parse fdc search JSON: %v", ErrUpstream, err)
	}

	results := make([]FoodSearchResult, 0, len(sr.Foods))
	for _, f := range sr.Foods {
		results = append(results, FoodSearchResult{
			FdcID:       f.FdcID,
			Description: f.Description,
			DataType:    f.DataType,
			BrandOwner:  f.BrandOwner,
			BrandName:   f.BrandName,
		})
	}
	return results, nil
}

// GetFood fetches one food's nutrient basis and portion metadata.
func (s *FdcService) GetFood(fdcID int) (*FoodDetail, error) {
	u := fmt.Sprintf("%s/v1/food/%d?api_key=%s", s.baseURL, fdcID, s.apiKey)

	resp, err := s.client.Get(u)
	if err != nil {
		return nil, fmt.Errorf("%w: fdc food call failed: %v", ErrUpstream, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read fdc food response: %v", ErrUpstream, err)
	}
	if resp.StatusCode == http.StatusNotFound {
		return nil, fmt.Errorf("%w: food %d", ErrNotFound, fdcID)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: fdc food returned %d: %s", ErrUpstream, resp.StatusCode, truncateBody(body))
	}

	var fr fdcFoodResponse
	if err := json.Unmarshal(body, &fr); err != nil {
		return nil, fmt.Errorf("%w: failed to parse fdc food JSON: %v", ErrUpstream, err)
	}

	detail := &FoodDetail{
		FdcID:       fr.FdcID,
		Description: fr.Description,
		BrandOwner:  fr.BrandOwner,
		BrandName:   fr.BrandName,
		ServingSize: fr.ServingSize,
		ServingUnit: fr.ServingSizeUnit,
		Nutrients:   make(map[int]float64, len(fr.FoodNutrients)),
	}
	for _, n := range fr.FoodNutrients {
		if n.Nutrient.ID != 0 {
			detail.Nutrients[n.Nutrient.ID] = n.Amount
		}
	}

	switch {
	case len(fr.FoodPortions) > 0 && fr.FoodPortions[0].GramWeight > 0:
		detail.GramWeight = fr.FoodPortions[0].GramWeight
	case fr.ServingSize > 0 && strings.EqualFold(fr.ServingSizeUnit, "g"):
		detail.GramWeight = fr.ServingSize
	default:
		detail.GramWeight = 100
	}

	return detail, nil
}

func truncateBody(body []byte) string {
	const max = 256
	if len(body) > max {
		return string(body[:max]) + "…"
	}
	return string(body)
}
