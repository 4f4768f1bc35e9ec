package store

import (
	"encoding/json"

	"github.com/totrackit/totrackit/internal/process"
)

// Tags and context are persisted as opaque JSON blobs and inflated back to
// structured form at the boundary. Empty collections round-trip to "".

func EncodeTags(tags []process.Tag) (string, error) {
	if len(tags) == 0 {
		return "", nil
	}
	b, err := json.Marshal(tags)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func DecodeTags(blob string) ([]process.Tag, error) {
	if blob == "" {
		return nil, nil
	}
	var tags []process.Tag
	if err := json.Unmarshal([]byte(blob), &tags); err != nil {
		return nil, err
	}
	return tags, nil
}

func EncodeContext(m map[string]any) (string, error) {
	if len(m) == 0 {
		return "", nil
	}
	b, err := json.Marshal(m)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func DecodeContext(blob string) (map[string]any, error) {
	if blob == "" {
		return nil, nil
	}
	var m map[string]any
	if err := json.Unmarshal([]byte(blob), &m); err != nil {
		return nil, err
	}
	return m, nil
}
