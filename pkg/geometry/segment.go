package geometry

// SegmentDistance returns the shortest distance from p to the line segment
// between a and b. The projection parameter is clamped to [0,1] so points
// beyond either endpoint measure against that endpoint.
func SegmentDistance(p, a, b Point2D) float64 {
	return p.Distance(ClosestPointOnSegment(p, a, b))
}

// ClosestPointOnSegment returns the point on segment a-b nearest to p.
func ClosestPointOnSegment(p, a, b Point2D) Point2D {
	ab := b.Sub(a)
	lenSq := ab.X*ab.X + ab.Y*ab.Y
	if lenSq == 0 {
		// Degenerate segment: both endpoints coincide.
		return a
	}
	ap := p.Sub(a)
	t := (ap.X*ab.X + ap.Y*ab.Y) / lenSq
	if t < 0 {
		t = 0
	} else if t > 1 {
		t = 1
	}
	return a.Add(ab.Scale(t))
}
