package webhook

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
)

type Signature struct {
	Value     string
	Timestamp int64
	ID        string
}

func (s Signature) Headers() map[string]string {
	return map[string]string{
		"X-Webhook-Signature": s.Value,
		"X-Webhook-Timestamp": strconv.FormatInt(s.Timestamp, 10),
		"X-Webhook-ID":        s.ID,
	}
}

// Sign computes hex(HMAC-SHA256(secret, "<unix timestamp>.<payload>")).
func Sign(secret string, payload []byte, at time.Time) Signature {
	timestamp := at.Unix()
	return Signature{
		Value:     computeSignature(secret, timestamp, payload),
		Timestamp: timestamp,
		ID:        uuid.New().String(),
	}
}

func computeSignature(secret string, timestamp int64, payload []byte) string {
	h := hmac.New(sha256.New, []byte(secret))
	h.Write([]byte(fmt.Sprintf("%d.%s", timestamp, payload)))
	return hex.EncodeToString(h.Sum(nil))
}
