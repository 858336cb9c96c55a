package main

import (
	"fmt"
	"strings"

	"github.com/eak1mov/go-libktx/ktx"
)

// metadataFlag collects repeated -meta key=value flags.
type metadataFlag []string

func (m *metadataFlag) String() string { return strings.Join(*m, ",") }

func (m *metadataFlag) Set(value string) error {
	if !strings.Contains(value, "=") {
		return fmt.Errorf("expected key=value, got %q", value)
	}
	*m = append(*m, value)
	return nil
}

// apply stores every pair as a NUL-terminated string value.
func (m metadataFlag) apply(bundle *ktx.Bundle) error {
	for _, pair := range m {
		key, value, _ := strings.Cut(pair, "=")
		if err := bundle.SetMetadataString(key, value); err != nil {
			return err
		}
	}
	return nil
}
