package issue_offer

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"

	"github.com/m04kA/SMC-WaitlistService/internal/domain"
)

// newOfferToken генерирует непредсказуемый токен оффера.
// Токен - единственный credential для погашения (capability-based),
// поэтому используется криптографический генератор, а не uuid.
func newOfferToken() (string, error) {
	buf := make([]byte, domain.OfferTokenBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("%w: failed to generate offer token: %v", ErrInternal, err)
	}
	return hex.EncodeToString(buf), nil
}
