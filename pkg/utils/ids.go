package utils

import (
	"crypto/rand"
	"regexp"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/oklog/ulid/v2"
)

var (
	nonSlugChars = regexp.MustCompile("[^a-z0-9-]")
	dashRuns     = regexp.MustCompile("-+")

	entropyMu sync.Mutex
	entropy   = ulid.Monotonic(rand.Reader, 0)
)

// Slugify converts a string to a URL-friendly slug
func Slugify(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	s = strings.ReplaceAll(s, " ", "-")
	s = nonSlugChars.ReplaceAllString(s, "")
	s = dashRuns.ReplaceAllString(s, "-")
	return strings.Trim(s, "-")
}

// GenerateOrderNo returns a sortable order number such as ORD-01J9Z3K8Q4....
// Order numbers sort by creation time, which keeps the ledger in till order.
func GenerateOrderNo(at time.Time) string {
	entropyMu.Lock()
	id := ulid.MustNew(ulid.Timestamp(at), entropy)
	entropyMu.Unlock()
	return "ORD-" + id.String()
}

// GenerateRequestID returns a new request identifier
func GenerateRequestID() string {
	return uuid.New().String()
}
