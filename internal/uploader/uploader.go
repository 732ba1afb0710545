// Package uploader ships readings to a remote target.
//
// The sync loop hands it one reading at a time; the wire shape is a small
// JSON document, optionally sealed with AES-GCM when a sealing key is
// configured. Shipped implementations: Noop (drop, default), HTTP (JSON
// POST), S3 (PutObject).
package uploader

import (
	"context"
	"encoding/json"

	"github.com/dmitrijs2005/pulsekeeper/internal/cryptox"
	"github.com/dmitrijs2005/pulsekeeper/internal/models"
)

// Uploader delivers one reading to the remote target. An error means the
// reading stays unsynced; the sync loop owns the retry schedule.
type Uploader interface {
	Upload(ctx context.Context, r models.Reading) error
}

// readingDoc is the wire form of a reading. CreatedAt travels as Unix
// milliseconds, same as the local store.
type readingDoc struct {
	Id        string `json:"id"`
	OwnerId   string `json:"owner_id"`
	Value     int64  `json:"value"`
	CreatedAt int64  `json:"created_at"`
	AIText    string `json:"ai_text,omitempty"`
}

// sealedEnvelope carries an AES-GCM sealed readingDoc. Both fields are
// base64 in JSON.
type sealedEnvelope struct {
	Nonce      []byte `json:"nonce"`
	Ciphertext []byte `json:"ciphertext"`
}

func newReadingDoc(r models.Reading) readingDoc {
	return readingDoc{
		Id:        r.Id,
		OwnerId:   r.OwnerId,
		Value:     r.Value,
		CreatedAt: r.CreatedAt.UnixMilli(),
		AIText:    r.AIText,
	}
}

// encodeBody renders the upload payload: the plain JSON document, or a
// sealed envelope when sealKey is non-nil.
func encodeBody(r models.Reading, sealKey []byte) ([]byte, error) {
	doc := newReadingDoc(r)

	if sealKey == nil {
		return json.Marshal(doc)
	}

	ciphertext, nonce, err := cryptox.Seal(doc, sealKey)
	if err != nil {
		return nil, err
	}
	return json.Marshal(sealedEnvelope{Nonce: nonce, Ciphertext: ciphertext})
}
