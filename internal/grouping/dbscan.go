package grouping

import "github.com/josephgoksu/tasksage/internal/similarity"

// Noise is the label DBSCAN assigns to points that belong to no cluster.
const Noise = -1

// DBSCAN clusters vectors by density. A point is a core point when at least
// minSamples points (itself included) lie within eps of it. Clusters grow from
// core points visited in index order; border points join the first cluster
// that reaches them. The result has one label per vector, Noise for outliers.
//
// The neighbourhood query is a brute-force O(n²) scan over the full batch.
func DBSCAN(vectors [][]float64, eps float64, minSamples int) []int {
	n := len(vectors)
	labels := make([]int, n)
	for i := range labels {
		labels[i] = Noise
	}
	if n == 0 {
		return labels
	}

	neighbours := make([][]int, n)
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			if i == j || similarity.EuclideanDistance(vectors[i], vectors[j]) <= eps {
				neighbours[i] = append(neighbours[i], j)
			}
		}
	}

	isCore := func(i int) bool { return len(neighbours[i]) >= minSamples }

	visited := make([]bool, n)
	cluster := 0
	for i := 0; i < n; i++ {
		if labels[i] != Noise || !isCore(i) {
			continue
		}

		labels[i] = cluster
		visited[i] = true
		queue := append([]int(nil), neighbours[i]...)
		for len(queue) > 0 {
			p := queue[0]
			queue = queue[1:]
			if labels[p] == Noise {
				labels[p] = cluster
			}
			if visited[p] {
				continue
			}
			visited[p] = true
			if isCore(p) {
				queue = append(queue, neighbours[p]...)
			}
		}
		cluster++
	}
	return labels
}

// MinSamples is the density threshold for a batch of n tasks: max(2, n/10).
func MinSamples(n int) int {
	if m := n / 10; m > 2 {
		return m
	}
	return 2
}
