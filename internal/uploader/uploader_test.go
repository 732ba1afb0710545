package uploader

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/pulsekeeper/internal/cryptox"
	"github.com/dmitrijs2005/pulsekeeper/internal/models"
)

func sampleReading() models.Reading {
	return models.Reading{
		Id:        "r-1",
		OwnerId:   "o-1",
		Value:     72,
		CreatedAt: time.UnixMilli(1700000000000),
		AIText:    "steady",
	}
}

func TestEncodeBody_Plain(t *testing.T) {
	body, err := encodeBody(sampleReading(), nil)
	require.NoError(t, err)

	var doc readingDoc
	require.NoError(t, json.Unmarshal(body, &doc))

	assert.Equal(t, "r-1", doc.Id)
	assert.Equal(t, "o-1", doc.OwnerId)
	assert.Equal(t, int64(72), doc.Value)
	assert.Equal(t, int64(1700000000000), doc.CreatedAt)
	assert.Equal(t, "steady", doc.AIText)
}

func TestEncodeBody_Sealed(t *testing.T) {
	key := cryptox.DeriveKey([]byte("passphrase"), []byte("salt"))

	body, err := encodeBody(sampleReading(), key)
	require.NoError(t, err)

	var env sealedEnvelope
	require.NoError(t, json.Unmarshal(body, &env))
	require.NotEmpty(t, env.Nonce)
	require.NotEmpty(t, env.Ciphertext)

	// запечатанный конверт разворачивается тем же ключом
	var doc readingDoc
	require.NoError(t, cryptox.Open(env.Ciphertext, env.Nonce, key, &doc))
	assert.Equal(t, "r-1", doc.Id)
	assert.Equal(t, int64(72), doc.Value)
}

func TestEncodeBody_OmitsEmptyAnnotation(t *testing.T) {
	r := sampleReading()
	r.AIText = ""

	body, err := encodeBody(r, nil)
	require.NoError(t, err)
	assert.NotContains(t, string(body), "ai_text")
}

func TestNoop_AcceptsEverything(t *testing.T) {
	u := NewNoop()
	require.NoError(t, u.Upload(context.Background(), sampleReading()))
	require.NoError(t, u.Upload(context.Background(), models.Reading{}))
}
