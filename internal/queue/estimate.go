package queue

// Estimate returns the predicted wait in minutes for a patient entering
// a queue at the given 1-based position. The first in line waits zero
// minutes; everyone behind waits one full average service time per
// patient ahead of them.
func Estimate(position, averageServiceMinutes int) int {
	if position < 1 {
		return 0
	}
	return (position - 1) * averageServiceMinutes
}
