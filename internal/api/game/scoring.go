package game

import (
	"cmp"
	"slices"
	"strings"

	"github.com/samber/lo"
)

// pointsTable follows the Mario Kart 8 driver points, one entry per place.
var pointsTable = []int{15, 12, 10, 9, 8, 7, 6, 5, 4, 3, 2, 1}

// QuizResult is one participant's final live score.
type QuizResult struct {
	Username string
	Score    int
	QuizTime float64
}

// RankResults orders results best first: higher score wins, then the
// shorter quiz time, then the username so the order is fully determined by
// the input set.
func RankResults(results []QuizResult) []string {
	sorted := slices.Clone(results)
	slices.SortFunc(sorted, func(a, b QuizResult) int {
		if c := cmp.Compare(b.Score, a.Score); c != 0 {
			return c
		}
		if c := cmp.Compare(a.QuizTime, b.QuizTime); c != 0 {
			return c
		}
		return strings.Compare(a.Username, b.Username)
	})
	return lo.Map(sorted, func(r QuizResult, _ int) string { return r.Username })
}

// PointsFor returns the points awarded to each place for n participants.
// Up to twelve players share the tail of the table so last place always
// scores 1; beyond twelve the extra places score 0.
func PointsFor(n int) []int {
	if n <= 0 {
		return nil
	}
	if n > len(pointsTable) {
		return append(slices.Clone(pointsTable), make([]int, n-len(pointsTable))...)
	}
	return slices.Clone(pointsTable[len(pointsTable)-n:])
}

// AllocatePoints maps every ranked username to its points.
func AllocatePoints(ranking []string) map[string]int {
	points := PointsFor(len(ranking))
	allocation := make(map[string]int, len(ranking))
	for i, username := range ranking {
		allocation[username] = points[i]
	}
	return allocation
}
