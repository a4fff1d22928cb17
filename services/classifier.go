package services

import (
	"bytes"
	"context"
	"encoding/json"
	"log"
	"net/http"
	"time"

	"github.com/civic-sense/civicsense-be/models"
)

// Classification is the enriched category/priority assigned to a
// submission. Confidence is nil when the classifier did not answer.
type Classification struct {
	Category   string
	Confidence *float64
	Priority   models.IssuePriority
}

// Classifier calls the external AI service with a bounded timeout. A
// degraded classifier can only ever cost the caller the timeout, never
// the request: every failure path collapses into the fallback.
type Classifier struct {
	BaseURL string
	Client  *http.Client
}

const classifierTimeout = 3 * time.Second

func NewClassifier(baseURL string) *Classifier {
	return &Classifier{
		BaseURL: baseURL,
		Client:  &http.Client{Timeout: classifierTimeout},
	}
}

// Classify asks the AI service for a category, confidence and priority
// for the given description and image payload. fallbackCategory is the
// caller-supplied category floor; when empty, "unclassified" is used.
func (cl *Classifier) Classify(ctx context.Context, description, imageData, fallbackCategory string) Classification {
	result := Classification{
		Category: fallbackCategory,
		Priority: models.PriorityMedium,
	}
	if result.Category == "" {
		result.Category = "unclassified"
	}

	if imageData == "" {
		imageData = "mock_image_data"
	}
	body, err := json.Marshal(map[string]string{
		"description": description,
		"image":       imageData,
	})
	if err != nil {
		return result
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, cl.BaseURL+"/predict", bytes.NewReader(body))
	if err != nil {
		return result
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := cl.Client.Do(req)
	if err != nil {
		log.Printf("AI service unreachable, falling back to defaults: %v", err)
		return result
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		log.Printf("AI service returned status %d, falling back to defaults", resp.StatusCode)
		return result
	}

	var prediction struct {
		Category   string   `json:"category"`
		Confidence *float64 `json:"confidence"`
		Priority   string   `json:"priority"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&prediction); err != nil {
		log.Printf("AI service response malformed, falling back to defaults: %v", err)
		return result
	}

	if prediction.Category != "" {
		result.Category = prediction.Category
	}
	result.Confidence = prediction.Confidence
	if priority, ok := models.NormalizePriority(prediction.Priority); ok {
		result.Priority = priority
	}
	return result
}
