package draw

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
)

var ErrNoNumbers = errors.New("total numbers must be positive")

// seedHexDigits is how much of the SHA-256 digest feeds the winner selection.
// 15 hex digits are 60 bits, which still fit a signed 64-bit integer.
const seedHexDigits = 15

// Seed builds the deterministic draw seed from values that are persisted
// verbatim in the draw record: raffle id, draw deadline and the highest
// ticket number sold. Anyone can recompute the winner from the published
// record; no wall-clock value at draw time is folded in.
func Seed(raffleID uuid.UUID, drawDeadline time.Time, totalNumbers int) string {
	return fmt.Sprintf("%s-%s-%d", raffleID, drawDeadline.UTC().Format(time.RFC3339), totalNumbers)
}

// Pick selects the winning ticket number in [1, totalNumbers]. Identical
// inputs always produce identical output: SHA-256 of the seed, first 15 hex
// digits parsed base 16, modulo the total, plus one.
func Pick(seed string, totalNumbers int) (int, error) {
	if totalNumbers <= 0 {
		return 0, ErrNoNumbers
	}

	sum := sha256.Sum256([]byte(seed))
	digest := hex.EncodeToString(sum[:])

	n, err := strconv.ParseInt(digest[:seedHexDigits], 16, 64)
	if err != nil {
		return 0, fmt.Errorf("parse digest slice: %w", err)
	}

	return int(n%int64(totalNumbers)) + 1, nil
}
