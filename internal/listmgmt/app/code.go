package app

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"

	"github.com/aelexs/listshare-platform/internal/domain"
)

var codeAlphabetLen = big.NewInt(int64(len(domain.ShareCodeAlphabet)))

// uniqueShareCode samples candidate codes until one has no existing list
// aggregate. The loop blocks the caller and has no retry cap: the
// candidate space dwarfs any plausible list count, so collisions stay
// rare. Cancellation is checked between store lookups.
func (s *Service) uniqueShareCode(ctx context.Context) (string, error) {
	for {
		code, err := generateShareCode()
		if err != nil {
			return "", err
		}

		_, err = s.lists.FindByCode(ctx, code)
		if errors.Is(err, domain.ErrNotFound) {
			return code, nil
		}
		if err != nil {
			return "", fmt.Errorf("share code lookup: %w", err)
		}

		codeCollisionsTotal.Add(ctx, 1)
		if err := ctx.Err(); err != nil {
			return "", fmt.Errorf("share code generation: %w", err)
		}
	}
}

// generateShareCode produces one human-shareable candidate drawn uniformly
// from A-Z0-9. Uses crypto/rand with big.Int sampling to avoid modulo bias.
func generateShareCode() (string, error) {
	buf := make([]byte, domain.ShareCodeLength)
	for i := range buf {
		n, err := rand.Int(rand.Reader, codeAlphabetLen)
		if err != nil {
			return "", fmt.Errorf("generate share code: %w", err)
		}
		buf[i] = domain.ShareCodeAlphabet[n.Int64()]
	}
	return string(buf), nil
}
