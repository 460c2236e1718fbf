package ports

import "time"

// Clock supplies the current time. License expiry checks and retention
// cutoffs read it so tests can pin "now".
type Clock interface {
	Now() time.Time
}
