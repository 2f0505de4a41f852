// Package geometry provides the float-plane math shared by the layout
// engine and the connection resolver.
package geometry

import "math"

// Point represents a 2D coordinate in diagram space.
type Point struct {
	X, Y float64
}

// Distance returns the Euclidean distance between two points.
func Distance(a, b Point) float64 {
	return math.Hypot(b.X-a.X, b.Y-a.Y)
}

// Midpoint returns the point halfway between a and b.
func Midpoint(a, b Point) Point {
	return Point{X: (a.X + b.X) / 2, Y: (a.Y + b.Y) / 2}
}

// Segment is a straight line between two points.
type Segment struct {
	A, B Point
}

// Length returns the length of the segment.
func (s Segment) Length() float64 {
	return Distance(s.A, s.B)
}

// Project returns the parameter t in [0,1] of the closest point to p on the
// segment, where 0 is A and 1 is B. A degenerate segment projects to 0.
func (s Segment) Project(p Point) float64 {
	dx := s.B.X - s.A.X
	dy := s.B.Y - s.A.Y
	lenSq := dx*dx + dy*dy
	if lenSq == 0 {
		return 0
	}
	t := ((p.X-s.A.X)*dx + (p.Y-s.A.Y)*dy) / lenSq
	if t < 0 {
		return 0
	}
	if t > 1 {
		return 1
	}
	return t
}

// At returns the point at parameter t along the segment.
func (s Segment) At(t float64) Point {
	return Point{
		X: s.A.X + (s.B.X-s.A.X)*t,
		Y: s.A.Y + (s.B.Y-s.A.Y)*t,
	}
}

// DistanceTo returns the perpendicular distance from p to the segment,
// clamped to the nearer endpoint when the projection falls outside it.
func (s Segment) DistanceTo(p Point) float64 {
	return Distance(p, s.At(s.Project(p)))
}

// Abs returns the absolute value of a float64.
func Abs(x float64) float64 {
	if x < 0 {
		return -x
	}
	return x
}

// EaseOutCubic maps linear progress in [0,1] onto a decelerating curve.
func EaseOutCubic(progress float64) float64 {
	if progress <= 0 {
		return 0
	}
	if progress >= 1 {
		return 1
	}
	inv := 1 - progress
	return 1 - inv*inv*inv
}
