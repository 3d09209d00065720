//go:build !debug

package guide

import (
	"encoding/json"

	"github.com/codasai/codasai/internal/codasaierr"
)

// Serialise encodes g to its JSON wire form. Release builds (the
// default) emit compact JSON to keep the shipped artifact small.
func Serialise(g *Guide) ([]byte, error) {
	data, err := json.Marshal(toWire(g))
	if err != nil {
		return nil, codasaierr.Wrap(codasaierr.EncodingError, "encode guide", err)
	}
	return data, nil
}
