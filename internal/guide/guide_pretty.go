//go:build debug

package guide

import (
	"encoding/json"

	"github.com/codasai/codasai/internal/codasaierr"
)

// Serialise encodes g to its JSON wire form. Debug builds (-tags debug)
// pretty-print for readable artifacts during development.
func Serialise(g *Guide) ([]byte, error) {
	data, err := json.MarshalIndent(toWire(g), "", "  ")
	if err != nil {
		return nil, codasaierr.Wrap(codasaierr.EncodingError, "encode guide", err)
	}
	return data, nil
}
