package impresso

import (
	"fmt"
	"net/http"

	"github.com/go-resty/resty/v2"
)

// A query failure that might not recur: network errors, 5xx responses,
// rate limiting and auth rejections (a later session refresh may cure
// those).
type TransientQueryError struct {
	Op     string
	Status int
	Err    error
}

func (e *TransientQueryError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("%s: transient failure (status %d)", e.Op, e.Status)
	}
	return fmt.Sprintf("%s: transient failure: %v", e.Op, e.Err)
}

func (e *TransientQueryError) Unwrap() error { return e.Err }

// A query the server rejected as malformed. Retrying the identical
// request will not help.
type PermanentQueryError struct {
	Op     string
	Status int
	Body   string
}

func (e *PermanentQueryError) Error() string {
	return fmt.Sprintf("%s: rejected by server (status %d): %s", e.Op, e.Status, e.Body)
}

func classifyResponse(op string, res *resty.Response) error {
	status := res.StatusCode()
	switch {
	case status < 400:
		return nil
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		return &TransientQueryError{Op: op, Status: status}
	case status == http.StatusTooManyRequests || status >= 500:
		return &TransientQueryError{Op: op, Status: status}
	default:
		return &PermanentQueryError{Op: op, Status: status, Body: res.String()}
	}
}
