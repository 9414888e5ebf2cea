package entity

const (
	MinRating = 1
	MaxRating = 5
)

func ValidRating(rating int) bool {
	return rating >= MinRating && rating <= MaxRating
}

// AggregateRating folds one submitted rating into a running mean.
func AggregateRating(oldRating float64, oldCount int, submitted int) (float64, int) {
	if oldCount < 0 {
		oldCount = 0
	}
	newCount := oldCount + 1
	newRating := (oldRating*float64(oldCount) + float64(submitted)) / float64(newCount)
	return newRating, newCount
}
