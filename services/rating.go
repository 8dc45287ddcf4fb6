package services

import "justeat/models"

const (
	minRating = 1
	maxRating = 5
)

// ApplyRating folds one more rating into a running mean without reading the
// rating history.
func ApplyRating(stats *models.RatingStats, rating int) {
	r := float64(rating)
	if stats.RatingCount == 0 {
		stats.AvgRating = r
		stats.RatingCount = 1
		return
	}
	stats.AvgRating = (stats.AvgRating*float64(stats.RatingCount) + r) / float64(stats.RatingCount+1)
	stats.RatingCount++
}

func validRating(rating int) bool {
	return rating >= minRating && rating <= maxRating
}
