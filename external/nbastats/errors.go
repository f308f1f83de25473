package nbastats

import (
	"net"
	"regexp"
	"strconv"
	"strings"

	stderrors "errors"

	crerr "github.com/cockroachdb/errors"

	"github.com/hoopsync/nba-data-sync/internal/platform/resilience"
)

// ErrEmptyBody is the provider quirk where a 2xx response carries no usable
// payload. Retried like a timeout rather than aborting the budget.
var ErrEmptyBody = crerr.New("provider returned empty body")

// StatusError is a non-2xx provider response.
type StatusError struct {
	Code int
	Body string
}

func (e *StatusError) Error() string {
	return "provider status=" + strconv.Itoa(e.Code) + " body=" + e.Body
}

// connectionMarkers are the substrings the provider's flaky proxy path is
// known to produce. Matched case-insensitively against the transport error.
var connectionMarkers = []string{
	"proxy error",
	"proxyconnect",
	"tunnel connection failed",
	"connection reset",
	"remote end closed",
	"unexpected eof",
	"ssl",
	"tls handshake",
}

// classify buckets a request error for the retry policy. Anything it does
// not recognize is fatal; logic errors must not burn the attempt budget.
func classify(err error) resilience.ErrorClass {
	if err == nil {
		return resilience.ClassFatal
	}

	if stderrors.Is(err, ErrEmptyBody) {
		return resilience.ClassEmptyResponse
	}

	var statusErr *StatusError
	if stderrors.As(err, &statusErr) {
		switch {
		case statusErr.Code == 429:
			return resilience.ClassRateLimited
		case statusErr.Code >= 500:
			return resilience.ClassConnection
		default:
			return resilience.ClassFatal
		}
	}

	var netErr net.Error
	if stderrors.As(err, &netErr) && netErr.Timeout() {
		return resilience.ClassTimeout
	}

	msg := strings.ToLower(err.Error())
	if strings.Contains(msg, "timeout") || strings.Contains(msg, "deadline exceeded") {
		return resilience.ClassTimeout
	}
	for _, marker := range connectionMarkers {
		if strings.Contains(msg, marker) {
			return resilience.ClassConnection
		}
	}

	return resilience.ClassFatal
}

var proxyCredentialsRegex = regexp.MustCompile(`://[^/@\s]+@`)

// sanitizeProxyText strips embedded proxy credentials before an error or
// URL reaches the logs.
func sanitizeProxyText(value string) string {
	return proxyCredentialsRegex.ReplaceAllString(value, "://***@")
}
