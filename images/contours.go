package images

import (
	"image"

	"github.com/nvr-ai/go-contourfill/frame"
	"github.com/pkg/errors"
	"gocv.io/x/gocv"
)

// CannyAperture is the only Sobel aperture the edge operator supports.
const CannyAperture = 3

// EdgeMap is a binary single-channel image produced by DetectEdges. It has
// the same lifetime as the IntensityImage it was derived from.
type EdgeMap struct {
	mat gocv.Mat
}

// Width returns the map width in pixels.
func (e *EdgeMap) Width() int { return e.mat.Cols() }

// Height returns the map height in pixels.
func (e *EdgeMap) Height() int { return e.mat.Rows() }

// Empty reports whether the map covers no pixels.
func (e *EdgeMap) Empty() bool { return e == nil || e.mat.Empty() }

// Checksum returns a deterministic digest of the edge pixels.
func (e *EdgeMap) Checksum() string { return ComputeMatChecksum(e.mat) }

// Close releases the native image memory.
func (e *EdgeMap) Close() error {
	if e == nil {
		return nil
	}
	return e.mat.Close()
}

// Contour is an ordered boundary, either the dense output of FindContours
// or its polygonal approximation.
type Contour []image.Point

// Degenerate reports whether the contour has too few points to enclose an
// area.
func (c Contour) Degenerate() bool { return len(c) < 3 }

// Bounds returns the smallest rectangle containing every point. The maximum
// corner is exclusive, like image.Rectangle.
func (c Contour) Bounds() image.Rectangle {
	if len(c) == 0 {
		return image.Rectangle{}
	}
	r := image.Rectangle{Min: c[0], Max: c[0].Add(image.Pt(1, 1))}
	for _, p := range c[1:] {
		r = r.Union(image.Rectangle{Min: p, Max: p.Add(image.Pt(1, 1))})
	}
	return r
}

// ContourParams holds the constants of the contour extraction stage.
type ContourParams struct {
	// LowThreshold is the hysteresis threshold below which gradients are
	// never edges.
	LowThreshold float32
	// HighThreshold is the threshold above which gradients are always edges.
	HighThreshold float32
	// Aperture is the Sobel aperture size. Must be CannyAperture.
	Aperture int
	// Epsilon is the maximum distance between a contour and its polygon.
	Epsilon float64
	// Closed treats every contour as a closed curve when approximating.
	Closed bool
}

// DefaultContourParams returns the fixed extraction constants.
func DefaultContourParams() ContourParams {
	return ContourParams{
		LowThreshold:  50,
		HighThreshold: 200,
		Aperture:      CannyAperture,
		Epsilon:       3,
		Closed:        true,
	}
}

// DetectEdges runs the two-threshold hysteresis edge operator over img.
// The result depends on nothing but the input pixels.
//
// Arguments:
//   - img: The smoothed intensity image.
//   - low, high: Hysteresis thresholds. Weak edges between them survive only
//     when connected to a strong edge above high.
//   - aperture: Sobel aperture, must be CannyAperture.
//
// Returns:
//   - *EdgeMap: A new map the caller must Close. A zero-area input yields a
//     zero-area map, not an error.
//   - error: When the operator cannot run.
func DetectEdges(img *IntensityImage, low, high float32, aperture int) (*EdgeMap, error) {
	if aperture != CannyAperture {
		return nil, errors.Errorf("detect edges: aperture %d not supported", aperture)
	}
	if img.Empty() {
		return &EdgeMap{mat: gocv.NewMat()}, nil
	}

	edges := gocv.NewMat()
	if err := gocv.Canny(img.mat, &edges, low, high); err != nil {
		edges.Close()
		return nil, errors.Wrap(err, "detect edges")
	}
	if edges.Empty() {
		edges.Close()
		return nil, errors.Wrap(frame.ErrAllocationFailure, "detect edges")
	}
	return &EdgeMap{mat: edges}, nil
}

// FindContours retrieves every boundary in the edge map as one flat list,
// outer and inner boundaries alike, keeping only the turning points of each
// boundary. The order of the list is the discovery order and is stable for
// identical input.
func FindContours(edges *EdgeMap) []Contour {
	if edges.Empty() {
		return nil
	}

	found := gocv.FindContours(edges.mat, gocv.RetrievalList, gocv.ChainApproxSimple)
	defer found.Close()

	points := found.ToPoints()
	contours := make([]Contour, 0, len(points))
	for _, pts := range points {
		contours = append(contours, Contour(pts))
	}
	return contours
}

// Approximate reduces c to a polygon whose distance from every point of c is
// at most epsilon, splitting recursively at the farthest point
// (Douglas-Peucker).
func Approximate(c Contour, epsilon float64, closed bool) Contour {
	if len(c) == 0 {
		return nil
	}

	curve := gocv.NewPointVectorFromPoints(c)
	defer curve.Close()

	approx := gocv.ApproxPolyDP(curve, epsilon, closed)
	defer approx.Close()

	return Contour(approx.ToPoints())
}

// ExtractContours runs edge detection, contour discovery and polygon
// approximation over img. The edge map is released before returning.
func ExtractContours(img *IntensityImage, params ContourParams) ([]Contour, error) {
	edges, err := DetectEdges(img, params.LowThreshold, params.HighThreshold, params.Aperture)
	if err != nil {
		return nil, err
	}
	defer edges.Close()

	found := FindContours(edges)
	for i, c := range found {
		found[i] = Approximate(c, params.Epsilon, params.Closed)
	}
	return found, nil
}
