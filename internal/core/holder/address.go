package holder

import (
	"fmt"

	"github.com/mr-tron/base58"
)

const publicKeyLength = 32

// ValidateAddress checks that s is a base58 encoded 32-byte public key.
func ValidateAddress(s string) error {
	if s == "" {
		return fmt.Errorf("empty address")
	}
	decoded, err := base58.Decode(s)
	if err != nil {
		return fmt.Errorf("decode base58: %w", err)
	}
	if len(decoded) != publicKeyLength {
		return fmt.Errorf("expected %d bytes, got %d", publicKeyLength, len(decoded))
	}
	return nil
}
