package retry

import (
	"context"
	"errors"
	"net"
	"strings"
)

var networkMarkers = []string{"network", "timeout", "connection", "unreachable"}

// IsNetworkError reports whether err looks transient: a net.Error timeout, an
// expired deadline, or a message mentioning the network.
func IsNetworkError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var ne net.Error
	if errors.As(err, &ne) && ne.Timeout() {
		return true
	}
	msg := strings.ToLower(err.Error())
	for _, m := range networkMarkers {
		if strings.Contains(msg, m) {
			return true
		}
	}
	return false
}
