package cryptox

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/json"

	"golang.org/x/crypto/argon2"
)

func DeriveKey(passphrase []byte, salt []byte) []byte {
	x := argon2.IDKey(passphrase, salt, 1, 64*1024, 4, 32)
	return x
}

// Seal serializes the given payload to JSON and encrypts it using AES-GCM.
//
// The key must be a valid AES key length (16, 24, or 32 bytes for AES-128,
// AES-192, or AES-256 respectively). A new random 12-byte nonce is generated
// for each call. The ciphertext and nonce are returned separately.
//
// Parameters:
//   - payload: any Go value that can be marshaled to JSON.
//   - key: the AES encryption key.
//
// Returns:
//   - ciphertext: the encrypted JSON data.
//   - nonce: the randomly generated 12-byte nonce.
//   - err: non-nil if serialization or encryption fails.
//
// Example:
//
//	key := cryptox.DeriveKey([]byte("passphrase"), []byte("salt"))
//
//	payload := map[string]any{"value": 72}
//
//	ciphertext, nonce, err := cryptox.Seal(payload, key)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	fmt.Printf("Sealed data: %x\n", ciphertext)
//	fmt.Printf("Nonce: %x\n", nonce)
func Seal(payload any, key []byte) (ciphertext, nonce []byte, err error) {

	// serializing JSON
	plaintext, err := json.Marshal(payload)
	if err != nil {
		return nil, nil, err
	}

	// nonce
	nonce = make([]byte, 12)
	if _, err := rand.Read(nonce); err != nil {
		return nil, nil, err
	}

	// new cypher
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, nil, err
	}

	aesgcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, nil, err
	}

	// encrypting
	ciphertext = aesgcm.Seal(nil, nonce, plaintext, nil)

	return ciphertext, nonce, nil
}

// Open decrypts the given ciphertext using AES-GCM and unmarshals
// the resulting JSON into the provided value v.
//
// The key must be the same AES key that was used to seal the data,
// and the nonce must be the same 12-byte nonce generated during sealing.
//
// Parameters:
//   - ciphertext: the encrypted data produced by Seal.
//   - nonce: the 12-byte nonce generated during sealing.
//   - key: the AES encryption key (must be 16, 24, or 32 bytes).
//   - v: a pointer to the Go value into which the decrypted JSON will be unmarshaled.
//
// Returns:
//   - error: non-nil if decryption or JSON unmarshaling fails.
func Open(ciphertext, nonce, key []byte, v any) error {
	block, err := aes.NewCipher(key)
	if err != nil {
		return err
	}
	aesgcm, err := cipher.NewGCM(block)
	if err != nil {
		return err
	}

	plaintext, err := aesgcm.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return err
	}

	return json.Unmarshal(plaintext, v)
}
