package services

import (
	"context"
	"encoding/base64"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/rekognition"
	"github.com/aws/aws-sdk-go-v2/service/rekognition/types"
)

// RecognitionService turns a meal photo into food-database suggestions:
// Rekognition labels the image, the top label drives a nutrition search.
type RecognitionService struct {
	client *rekognition.Client
	fdc    NutritionSource
}

func NewRecognitionService(region string, fdc NutritionSource) (*RecognitionService, error) {
	cfg, err := awsconfig.LoadDefaultConfig(context.TODO(), awsconfig.WithRegion(region))
	if err != nil {
		return nil, err
	}
	return &RecognitionService{client: rekognition.NewFromConfig(cfg), fdc: fdc}, nil
}

// SuggestFoods accepts a data-URI or bare base64 image.
func (s *RecognitionService) SuggestFoods(base64Img string) ([]FoodSearchResult, error) {
	payload := base64Img
	if strings.HasPrefix(payload, "data:") {
		idx := strings.Index(payload, ",")
		if idx < 0 {
			return nil, fmt.Errorf("%w: invalid data URI", ErrValidation)
		}
		payload = payload[idx+1:]
	}
	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid base64 image", ErrValidation)
	}

	out, err := s.client.DetectLabels(context.TODO(), &rekognition.DetectLabelsInput{
		Image:         &types.Image{Bytes: data},
		MaxLabels:     aws.Int32(5),
		MinConfidence: aws.Float32(75),
	})
	if err != nil {
		return nil, fmt.Errorf("%w: label detection failed: %v", ErrUpstream, err)
	}
	if len(out.Labels) == 0 {
		return nil, fmt.Errorf("%w: no labels detected", ErrNotFound)
	}

	return s.fdc.Search(*out.Labels[0].Name)
}
