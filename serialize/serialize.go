// Package serialize reads and writes built dictionaries as lz4-compressed
// JSON documents with three top-level fields: "regular", "ontology_rollup"
// and "age_stats".
package serialize

import (
	"encoding/json"
	"io"

	"github.com/pierrec/lz4"

	"github.com/go-ehr/vocab/dictionary"
)

// Write serializes a Dictionary to the given stream
func Write(w io.Writer, dict *dictionary.Dictionary) error {
	compressor := lz4.NewWriter(w)
	if err := json.NewEncoder(compressor).Encode(dict); err != nil {
		return err
	}
	return compressor.Close()
}

// Read deserializes a Dictionary from the given stream
func Read(r io.Reader) (*dictionary.Dictionary, error) {
	decompressor := lz4.NewReader(r)
	dict := new(dictionary.Dictionary)
	if err := json.NewDecoder(decompressor).Decode(dict); err != nil {
		return nil, err
	}
	return dict, nil
}
