// Package calibration converts a user-drawn reference segment of known
// real-world length into a pixels-per-inch scale factor, and formats
// lengths in the feet-inches-fraction notation used on architectural
// drawings.
package calibration

import (
	"errors"

	"github.com/danielcuellar117/cgs-glassbid-mvp-sub000/pkg/geometry"
)

var (
	// ErrInvalidLength is returned when the entered real-world length is
	// not a positive number.
	ErrInvalidLength = errors.New("calibration length must be greater than zero")

	// ErrDegenerate is returned when the two reference points coincide,
	// which would make the scale factor a division by zero.
	ErrDegenerate = errors.New("calibration points must not coincide")
)

// Data is the active calibration for one page: the two reference points
// in image space, the operator-entered real length in inches, and the
// derived scale factor. Invariant: PixelsPerInch = distance(P1,P2)/RealInches.
type Data struct {
	P1            geometry.Point2D `json:"p1"`
	P2            geometry.Point2D `json:"p2"`
	RealInches    float64          `json:"realValue"`
	PixelsPerInch float64          `json:"pixelsPerUnit"`
}

// New validates the inputs and computes the scale factor.
func New(p1, p2 geometry.Point2D, realInches float64) (Data, error) {
	if realInches <= 0 {
		return Data{}, ErrInvalidLength
	}
	pixels := p1.Distance(p2)
	if pixels == 0 {
		return Data{}, ErrDegenerate
	}
	return Data{
		P1:            p1,
		P2:            p2,
		RealInches:    realInches,
		PixelsPerInch: pixels / realInches,
	}, nil
}

// Rescale recomputes the scale factor after a reference endpoint moved.
// The real-world length stays fixed; only the pixel distance changes.
func (d Data) Rescale(p1, p2 geometry.Point2D) (Data, error) {
	return New(p1, p2, d.RealInches)
}

// MeasureInches converts the pixel distance between two image-space
// points into inches using the active scale factor.
func (d Data) MeasureInches(a, b geometry.Point2D) float64 {
	return a.Distance(b) / d.PixelsPerInch
}
