package service

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"net/http"
	"net/url"
	"time"

	"github.com/aisyah-bit/studyally-backend/internal/models"
)

// RecommenderInterface is the contract with the external compatibility
// scorer. Results are advisory ranking only and may be stale relative to live
// membership; nothing here is authoritative for capacity.
type RecommenderInterface interface {
	Recommendations(ctx context.Context, uid string, groupType models.GroupType) ([]ScoredGroup, error)
}

// ScoredGroup carries the scorer's group reference plus whichever score field
// the service returned.
type ScoredGroup struct {
	GroupID uint `json:"id"`
	// CompatibilityScore is 0-100 when present.
	CompatibilityScore *float64 `json:"compatibilityScore"`
	// HybridScore is 0.0-1.0 when present.
	HybridScore *float64 `json:"hybrid_score"`
}

// Percent normalizes either score representation to a 0-100 integer.
func (g ScoredGroup) Percent() int {
	switch {
	case g.CompatibilityScore != nil:
		return clampPercent(*g.CompatibilityScore)
	case g.HybridScore != nil:
		return clampPercent(*g.HybridScore * 100)
	}
	return 0
}

func clampPercent(v float64) int {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return int(math.Round(v))
}

type RecommenderClient struct {
	baseURL string
	client  *http.Client
}

func NewRecommenderClient(baseURL string) *RecommenderClient {
	return &RecommenderClient{
		baseURL: baseURL,
		client:  &http.Client{Timeout: 10 * time.Second},
	}
}

func (c *RecommenderClient) Recommendations(ctx context.Context, uid string, groupType models.GroupType) ([]ScoredGroup, error) {
	endpoint := fmt.Sprintf("%s/recommendations?uid=%s&type=%s",
		c.baseURL, url.QueryEscape(uid), url.QueryEscape(string(groupType)))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("recommender returned status %d", resp.StatusCode)
	}

	var scored []ScoredGroup
	if err := json.NewDecoder(resp.Body).Decode(&scored); err != nil {
		return nil, err
	}
	return scored, nil
}
