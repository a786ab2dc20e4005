// Package wallet loads the signing keypair from a solana-keygen style file.
package wallet

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/gagliardetto/solana-go"
)

// KeypairLen is the byte length of an ed25519 secret+public keypair.
const KeypairLen = 64

// Load reads a keypair file containing a JSON array of bytes and returns the
// private key. The file must hold exactly KeypairLen values in 0..255.
func Load(path string) (solana.PrivateKey, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read keypair file %s: %w", path, err)
	}

	var values []int
	if err := json.Unmarshal(data, &values); err != nil {
		return nil, fmt.Errorf("failed to parse keypair file as a JSON byte array: %w", err)
	}
	if len(values) != KeypairLen {
		return nil, fmt.Errorf("keypair must be %d bytes, got %d", KeypairLen, len(values))
	}

	key := make(solana.PrivateKey, KeypairLen)
	for i, v := range values {
		if v < 0 || v > 255 {
			return nil, fmt.Errorf("keypair byte %d out of range: %d", i, v)
		}
		key[i] = byte(v)
	}
	return key, nil
}
