// Package match finds items sharing an image fingerprint.
package match

import "github.com/erazemk/najdeno/internal/model"

// Candidate is one potential duplicate of an item.
type Candidate struct {
	ID         string `json:"id"`
	Title      string `json:"title"`
	Image      string `json:"image"`
	Status     string `json:"status"`
	Type       string `json:"type"`
	Similarity int    `json:"similarity"`
}

// ExactSimilarity is the score assigned to fingerprint matches. Only exact
// matching exists; there is no partial-similarity scoring.
const ExactSimilarity = 100

// FindSimilar collects every item whose stored fingerprint equals the query
// fingerprint, skipping the item with excludeID. An empty fingerprint returns
// nil without scanning.
func FindSimilar(fingerprint string, items []model.Item, excludeID string) []Candidate {
	if fingerprint == "" {
		return nil
	}

	var candidates []Candidate
	for _, item := range items {
		if item.ID == excludeID {
			continue
		}
		if item.ImageFingerprint != fingerprint {
			continue
		}
		candidates = append(candidates, Candidate{
			ID:         item.ID,
			Title:      item.Title,
			Image:      item.Image,
			Status:     item.Status,
			Type:       item.Type,
			Similarity: ExactSimilarity,
		})
	}
	return candidates
}
