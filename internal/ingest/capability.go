package ingest

import (
	"context"
	"fmt"

	"rapihcli/pkg/contracts/domain"
)

// Capability is an optional input front-end that may or may not be usable at
// runtime. Extraction paths that need external tooling are modeled this way
// so the pipeline itself never links against them; callers probe IsAvailable
// before offering the feature.
type Capability interface {
	Name() string
	IsAvailable() bool
	Extract(ctx context.Context, data []byte) (*domain.Table, error)
}

// OCRCapability is the scanned-document extraction slot. No OCR engine ships
// with this build, so the probe is always false and Extract always fails.
type OCRCapability struct{}

func (OCRCapability) Name() string { return "ocr" }

func (OCRCapability) IsAvailable() bool { return false }

func (OCRCapability) Extract(ctx context.Context, data []byte) (*domain.Table, error) {
	return nil, fmt.Errorf("ocr extraction is not available in this build")
}

// Capabilities lists the optional front-ends and their availability, for the
// health endpoint.
func Capabilities() map[string]bool {
	caps := []Capability{OCRCapability{}}
	out := make(map[string]bool, len(caps))
	for _, c := range caps {
		out[c.Name()] = c.IsAvailable()
	}
	return out
}
