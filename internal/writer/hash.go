package writer

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"

	"github.com/ServerWatch/conn-monitor/internal/domain"
)

// connectionHash computes the SHA256 content hash of a connection event.
// The ID and observation time are excluded: two observations of the same
// session on the same server are the same connection.
func connectionHash(event *domain.ConnectionEvent) string {
	h := sha256.New()

	fmt.Fprintf(h, "%s|", event.Region)
	fmt.Fprintf(h, "%s|", event.ServerID)
	fmt.Fprintf(h, "%s|", event.SessionID)
	fmt.Fprintf(h, "%s|", event.Address)

	return hex.EncodeToString(h.Sum(nil))
}
