package booking

import (
    "crypto/rand"
    "fmt"
)

// referenceAlphabet omits 0/O/1/I/L so references survive being read over
// the phone.
const referenceAlphabet = "ABCDEFGHJKMNPQRSTUVWXYZ23456789"

// referencePrefix marks Nile-line bookings.
const referencePrefix = "NL-"

// maxReferenceAttempts bounds how often the orchestrator regenerates a
// reference after a uniqueness collision before giving up.
const maxReferenceAttempts = 5

// newReference returns a short human-readable booking reference such as
// NL-7KQ2MX9A.  Uniqueness is enforced by the ledger's unique column; the
// caller retries on collision.
func newReference() (string, error) {
    buf := make([]byte, 8)
    if _, err := rand.Read(buf); err != nil {
        return "", fmt.Errorf("generate reference: %w", err)
    }
    for i, b := range buf {
        buf[i] = referenceAlphabet[int(b)%len(referenceAlphabet)]
    }
    return referencePrefix + string(buf), nil
}
