package action

import "github.com/stigoleg/keepawayk/internal/input"

// Trajectory returns steps+1 evenly spaced points from from to to, both
// included. The last point equals to exactly.
func Trajectory(from, to input.Point, steps int) []input.Point {
	if steps < 1 {
		return []input.Point{to}
	}
	dx := (to.X - from.X) / float64(steps)
	dy := (to.Y - from.Y) / float64(steps)
	pts := make([]input.Point, steps+1)
	for i := 0; i < steps; i++ {
		pts[i] = input.Point{X: from.X + dx*float64(i), Y: from.Y + dy*float64(i)}
	}
	pts[steps] = to
	return pts
}
