package common

// Header names injected by the TLS-terminating reverse proxy in front of the
// HTTP endpoint. See identity.ProxyMisconfiguredMessage for the nginx
// directives that produce them.
const (
	VerifyHeaderName   = "X-SSL-Verify"
	ClientDNHeaderName = "X-SSL-Client-Dn"
)

// Values of the X-SSL-Verify header that carry meaning of their own. Any
// other value is the validator's failure reason.
const (
	VerifySuccess = "SUCCESS"
	VerifyNone    = "NONE"
)
