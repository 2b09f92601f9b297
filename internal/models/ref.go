package models

import (
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
)

// Ref is a relation value that clients may send either as a bare id
// string or as an expanded object carrying an "id" field. It is
// normalized to an id here, at the boundary, so service code only ever
// compares uuid.UUIDs.
type Ref struct {
	ID uuid.UUID
}

func (r *Ref) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err == nil {
		id, err := uuid.Parse(raw)
		if err != nil {
			return fmt.Errorf("invalid reference id %q: %w", raw, err)
		}
		r.ID = id
		return nil
	}

	var expanded struct {
		ID string `json:"id"`
	}
	if err := json.Unmarshal(data, &expanded); err != nil {
		return fmt.Errorf("reference must be an id string or an expanded object: %w", err)
	}
	id, err := uuid.Parse(expanded.ID)
	if err != nil {
		return fmt.Errorf("invalid reference id %q: %w", expanded.ID, err)
	}
	r.ID = id
	return nil
}

func (r Ref) MarshalJSON() ([]byte, error) {
	return json.Marshal(r.ID.String())
}
