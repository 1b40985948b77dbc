package controllers

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStringField(t *testing.T) {
	payload := map[string]interface{}{
		"title":  "Riverside Lofts",
		"number": 42,
	}

	assert.Equal(t, "Riverside Lofts", stringField(payload, "title"))
	assert.Equal(t, "", stringField(payload, "number"))
	assert.Equal(t, "", stringField(payload, "missing"))
}

func TestEncodeJSONField(t *testing.T) {
	assert.Nil(t, encodeJSONField(nil))

	encoded := encodeJSONField([]string{"rooftop terrace", "river view"})
	require.NotNil(t, encoded)

	var decoded []string
	require.NoError(t, json.Unmarshal([]byte(*encoded), &decoded))
	assert.Equal(t, []string{"rooftop terrace", "river view"}, decoded)
}
