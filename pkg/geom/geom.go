// Package geom provides the planar primitives used by the leyline layout.
//
// Coordinates follow the SVG convention: x grows to the right and y grows
// downward. Angles are measured in radians from the positive x axis and
// increase clockwise on screen, which matches how a point travels along an
// SVG circle as its path length grows.
package geom

import "math"

// Point is a 2D coordinate.
type Point struct {
	X, Y float64
}

// Pt is shorthand for Point{X: x, Y: y}.
func Pt(x, y float64) Point { return Point{X: x, Y: y} }

// Add returns p+q.
func (p Point) Add(q Point) Point { return Point{p.X + q.X, p.Y + q.Y} }

// Sub returns p-q.
func (p Point) Sub(q Point) Point { return Point{p.X - q.X, p.Y - q.Y} }

// Scale returns p scaled by k.
func (p Point) Scale(k float64) Point { return Point{p.X * k, p.Y * k} }

// Len returns the Euclidean length of p treated as a vector.
func (p Point) Len() float64 { return math.Hypot(p.X, p.Y) }

// Dist returns the Euclidean distance between p and q.
func (p Point) Dist(q Point) float64 { return p.Sub(q).Len() }

// Unit returns p normalized to length 1. The second result is false when p
// is the zero vector and no direction exists.
func (p Point) Unit() (Point, bool) {
	l := p.Len()
	if l == 0 || math.IsNaN(l) {
		return Point{}, false
	}
	return Point{p.X / l, p.Y / l}, true
}

// Mirror reflects p through origin.
func (p Point) Mirror(origin Point) Point {
	return Point{2*origin.X - p.X, 2*origin.Y - p.Y}
}

// Centroid returns the average of pts. The second result is false when pts
// is empty.
func Centroid(pts []Point) (Point, bool) {
	if len(pts) == 0 {
		return Point{}, false
	}
	var sx, sy float64
	for _, p := range pts {
		sx += p.X
		sy += p.Y
	}
	n := float64(len(pts))
	return Point{sx / n, sy / n}, true
}

// NormalizeAngle maps a to the half-open interval [0, 2π).
func NormalizeAngle(a float64) float64 {
	a = math.Mod(a, 2*math.Pi)
	if a < 0 {
		a += 2 * math.Pi
	}
	return a
}

// NormalizeFraction maps f to the half-open interval [0, 1).
func NormalizeFraction(f float64) float64 {
	f = math.Mod(f, 1)
	if f < 0 {
		f++
	}
	return f
}

// Circle is a circle given by center and radius.
type Circle struct {
	Center Point
	R      float64
}

// Circumference returns 2πr.
func (c Circle) Circumference() float64 { return 2 * math.Pi * c.R }

// PointAtLength returns the point reached after travelling l units along the
// circumference, starting at the 3 o'clock position and moving clockwise on
// screen. Lengths outside [0, circumference) wrap.
func (c Circle) PointAtLength(l float64) Point {
	if c.R == 0 {
		return c.Center
	}
	theta := l / c.R
	return Point{c.Center.X + c.R*math.Cos(theta), c.Center.Y + c.R*math.Sin(theta)}
}

// PointAtFraction returns PointAtLength(f * circumference).
func (c Circle) PointAtFraction(f float64) Point {
	return c.PointAtLength(f * c.Circumference())
}

// AngleOf returns the angle of p around the circle's center in [0, 2π),
// using the same orientation as PointAtLength.
func (c Circle) AngleOf(p Point) float64 {
	return NormalizeAngle(math.Atan2(p.Y-c.Center.Y, p.X-c.Center.X))
}

// LengthOf returns the arc length at which PointAtLength reaches the
// projection of p onto the circle.
func (c Circle) LengthOf(p Point) float64 {
	return c.AngleOf(p) * c.R
}

// Clearance reports center distance minus both radii and padding. A
// positive value means the circles are separated by more than padding.
func (c Circle) Clearance(o Circle, padding float64) float64 {
	return c.Center.Dist(o.Center) - (c.R + o.R + padding)
}

// Crowds reports whether o lies within padding of c, i.e. whether the
// center distance is at most the sum of both radii plus padding.
func (c Circle) Crowds(o Circle, padding float64) bool {
	return c.Clearance(o, padding) <= 0
}

// CompassDegrees converts an angle from AngleOf into compass degrees,
// measured clockwise in [0, 360).
func CompassDegrees(a float64) float64 {
	return NormalizeAngle(a) * 180 / math.Pi
}
