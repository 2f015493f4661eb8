package identity

import (
	"fmt"
	"net/http"
)

// ProxyMisconfiguredMessage is the response body when the TLS-terminating
// proxy does not forward the client certificate headers.
const ProxyMisconfiguredMessage = `TLS-terminating reverse proxy is misconfigured: required headers not found.

Hint: if you use nginx, use:
    proxy_set_header X-SSL-Verify $ssl_client_verify;
    proxy_set_header X-SSL-Client-Dn $ssl_client_s_dn;
to provide the necessary headers.
`

type Kind int

const (
	NoCertificate Kind = iota
	CertificateRejected
	ProxyMisconfigured
	NoUIDField
	UnknownUser
	StorageFailure
	NotAdmin
	AdminWithoutUID
)

var kindStatus = map[Kind]int{
	NoCertificate:       http.StatusUnauthorized,
	CertificateRejected: http.StatusForbidden,
	ProxyMisconfigured:  http.StatusInternalServerError,
	NoUIDField:          http.StatusBadRequest,
	UnknownUser:         http.StatusUnauthorized,
	StorageFailure:      http.StatusInternalServerError,
	NotAdmin:            http.StatusForbidden,
	AdminWithoutUID:     http.StatusUnauthorized,
}

// Rejection is returned by the extractors when a request carries no usable
// identity.
type Rejection struct {
	Kind Kind
	// Reason is the validator's verdict for CertificateRejected.
	Reason string
	Err    error
}

func (r *Rejection) Error() string {
	switch r.Kind {
	case NoCertificate:
		return "No TLS client certificate was provided"
	case CertificateRejected:
		return "Certificate validation " + r.Reason
	case ProxyMisconfigured:
		return "Required headers `X-SSL-Verify` and/or `X-SSL-Client-Dn` not found"
	case NoUIDField:
		return "No UID field in TLS client certificate's Subject DN"
	case UnknownUser:
		return "User not found in database"
	case StorageFailure:
		return fmt.Sprintf("storage error: %v", r.Err)
	case NotAdmin:
		return "Not an administrator"
	case AdminWithoutUID:
		return "No UID in certificate"
	default:
		return "identity rejected"
	}
}

func (r *Rejection) Unwrap() error { return r.Err }

// Status is the HTTP status the rejection maps to.
func (r *Rejection) Status() int {
	if s, ok := kindStatus[r.Kind]; ok {
		return s
	}
	return http.StatusInternalServerError
}

// Body is the text/plain response body. Storage failures do not leak their
// cause to the client.
func (r *Rejection) Body() string {
	switch r.Kind {
	case ProxyMisconfigured:
		return ProxyMisconfiguredMessage
	case StorageFailure:
		return "Internal server error"
	default:
		return r.Error()
	}
}
