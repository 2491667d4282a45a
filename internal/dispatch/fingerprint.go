package dispatch

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"
)

// fingerprintBucket quantizes event timestamps so rapid re-submissions of the
// same transition land on the same fingerprint.
const fingerprintBucket = 10 * time.Second

// Fingerprint returns the deterministic identifier for one notification
// event: project, new status, and the timestamp bucket the event fell into.
func Fingerprint(projectID int64, newStatus int, ts time.Time) string {
	bucket := ts.Unix() / int64(fingerprintBucket.Seconds())
	sum := sha256.Sum256([]byte(fmt.Sprintf("%d:%d:%d", projectID, newStatus, bucket)))
	return hex.EncodeToString(sum[:16])
}
