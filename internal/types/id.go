package types

import (
	"strings"

	"github.com/google/uuid"
)

var tradeNamespace = uuid.MustParse("5b0e8f5c-3d1a-4c57-9a3e-2f6d8c0b7e41")

// NewTradeID derives a stable id from the given parts, so rebuilding the same
// trades from the same fills yields the same ids.
func NewTradeID(parts ...string) string {
	return uuid.NewSHA1(tradeNamespace, []byte(strings.Join(parts, "|"))).String()
}
