package checkout

import (
	"crypto/rand"
	"fmt"
	"time"
)

const referenceAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// NewReference mints a booking confirmation reference in the form
// BK-<unix millis>-<9 character suffix>.
func NewReference() string {
	return fmt.Sprintf("BK-%d-%s", time.Now().UnixMilli(), randomSuffix(9))
}

func randomSuffix(length int) string {
	buf := make([]byte, length)
	if _, err := rand.Read(buf); err != nil {
		now := time.Now().UnixNano()
		for i := range buf {
			buf[i] = referenceAlphabet[int(now>>uint(i*4))%len(referenceAlphabet)]
		}
		return string(buf)
	}
	for i := range buf {
		buf[i] = referenceAlphabet[int(buf[i])%len(referenceAlphabet)]
	}
	return string(buf)
}
