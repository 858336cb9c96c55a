package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/eak1mov/go-libktx/ktx"
)

var errInvalidPattern = errors.New("invalid file pattern")

// validatePattern requires a placeholder for every axis the bundle actually has,
// so that distinct blobs never map to the same path.
func validatePattern(pattern string, bundle *ktx.Bundle) error {
	required := []string{"{mip}"}
	if bundle.ArrayLength() > 1 {
		required = append(required, "{layer}")
	}
	if bundle.IsCubemap() {
		required = append(required, "{face}")
	}
	for _, p := range required {
		if !strings.Contains(pattern, p) {
			return fmt.Errorf("%w: placeholder %v not found", errInvalidPattern, p)
		}
	}
	return nil
}

func formatPattern(pattern string, index ktx.BlobIndex) string {
	result := pattern
	result = strings.ReplaceAll(result, "{mip}", fmt.Sprintf("%d", index.MipLevel))
	result = strings.ReplaceAll(result, "{layer}", fmt.Sprintf("%d", index.ArrayIndex))
	result = strings.ReplaceAll(result, "{face}", fmt.Sprintf("%d", index.CubeFace))
	return result
}
