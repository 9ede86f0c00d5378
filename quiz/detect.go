package quiz

import "context"

// Detection is the outcome of an image-labeling call. Label may be empty
// when the collaborator recognized nothing; Raw carries the unparsed
// provider response for diagnostics.
type Detection struct {
	Label string
	Raw   map[string]interface{}
}

// Detector labels an image for questions that ship without a ground-truth
// label. Implementations wrap an external vision service; a nil result
// with a nil error means "no label detected".
type Detector interface {
	Detect(ctx context.Context, image string) (*Detection, error)
}

// DetectorFunc adapts a plain function to the Detector interface.
type DetectorFunc func(ctx context.Context, image string) (*Detection, error)

func (f DetectorFunc) Detect(ctx context.Context, image string) (*Detection, error) {
	return f(ctx, image)
}

// placeholderLabels is the fallback pool used when a question has no
// label and detection yields nothing.
var placeholderLabels = []string{
	"object", "animal", "plant", "vehicle", "building", "tool",
}
