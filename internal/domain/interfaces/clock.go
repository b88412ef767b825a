package interfaces

import "time"

// Clock abstracts time for the request signer and health reporting.
type Clock interface {
	Now() time.Time
}
