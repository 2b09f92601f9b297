package models

import (
	"encoding/json"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRefAcceptsBareID(t *testing.T) {
	id := uuid.New()

	var ref Ref
	require.NoError(t, json.Unmarshal([]byte(`"`+id.String()+`"`), &ref))
	assert.Equal(t, id, ref.ID)
}

func TestRefAcceptsExpandedObject(t *testing.T) {
	id := uuid.New()
	payload := `{"id": "` + id.String() + `", "username": "alice", "bio": "ignored"}`

	var ref Ref
	require.NoError(t, json.Unmarshal([]byte(payload), &ref))
	assert.Equal(t, id, ref.ID)
}

func TestRefRejectsMalformed(t *testing.T) {
	for _, payload := range []string{
		`"not-a-uuid"`,
		`{"id": "nope"}`,
		`{"name": "missing id"}`,
		`42`,
	} {
		var ref Ref
		assert.Error(t, json.Unmarshal([]byte(payload), &ref), "payload %s", payload)
	}
}

func TestRefMarshalsAsBareID(t *testing.T) {
	id := uuid.New()
	out, err := json.Marshal(Ref{ID: id})
	require.NoError(t, err)
	assert.Equal(t, `"`+id.String()+`"`, string(out))
}
