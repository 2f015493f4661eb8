// Package identity derives the caller's identity from the headers a
// TLS-terminating reverse proxy adds after validating a client certificate.
package identity

import (
	"context"
	"net/http"
	"strings"

	"github.com/dmitrijs2005/mailpasswd/internal/common"
	"github.com/dmitrijs2005/mailpasswd/internal/server/models"
)

// ExtractDN checks the proxy verification verdict and returns the parsed
// Subject DN. A DN that does not parse yields a CertDN without a UID.
func ExtractDN(h http.Header) (*CertDN, error) {
	verify, ok := headerValue(h, common.VerifyHeaderName)
	if !ok {
		if dn, ok := bypassDN(); ok {
			return dn, nil
		}
		return nil, &Rejection{Kind: ProxyMisconfigured}
	}

	switch verify {
	case common.VerifySuccess:
	case common.VerifyNone:
		return nil, &Rejection{Kind: NoCertificate}
	default:
		return nil, &Rejection{Kind: CertificateRejected, Reason: verify}
	}

	raw, ok := headerValue(h, common.ClientDNHeaderName)
	if !ok {
		if dn, ok := bypassDN(); ok {
			return dn, nil
		}
		return nil, &Rejection{Kind: ProxyMisconfigured}
	}

	dn, err := ParseDN(raw)
	if err != nil {
		return &CertDN{}, nil
	}
	return dn, nil
}

// UserFinder resolves usernames. A nil user with a nil error means the user
// does not exist.
type UserFinder interface {
	FindUserByName(ctx context.Context, username string) (*models.User, error)
}

// ExtractUser resolves the certificate UID to a stored user. A UID with '@'
// never names a user and is rejected without a lookup.
func ExtractUser(ctx context.Context, h http.Header, users UserFinder) (*models.User, error) {
	dn, err := ExtractDN(h)
	if err != nil {
		return nil, err
	}
	uid, ok := dn.UID()
	if !ok {
		return nil, &Rejection{Kind: NoUIDField}
	}
	// no stored username contains '@'
	if strings.Contains(uid, "@") {
		return nil, &Rejection{Kind: UnknownUser}
	}

	u, err := users.FindUserByName(ctx, uid)
	if err != nil {
		return nil, &Rejection{Kind: StorageFailure, Err: err}
	}
	if u == nil {
		return nil, &Rejection{Kind: UnknownUser}
	}
	return u, nil
}

// AdminList is the static set of UIDs granted administrative access.
type AdminList struct {
	uids map[string]struct{}
}

func NewAdminList(uids []string) *AdminList {
	l := &AdminList{uids: make(map[string]struct{}, len(uids))}
	for _, u := range uids {
		if u = strings.TrimSpace(u); u != "" {
			l.uids[u] = struct{}{}
		}
	}
	return l
}

func (l *AdminList) Contains(uid string) bool {
	_, ok := l.uids[uid]
	return ok
}

// ExtractAdmin returns the UID of an administrator. It does not consult the
// store.
func (l *AdminList) ExtractAdmin(h http.Header) (string, error) {
	dn, err := ExtractDN(h)
	if err != nil {
		return "", err
	}
	uid, ok := dn.UID()
	if !ok {
		return "", &Rejection{Kind: AdminWithoutUID}
	}
	if !l.Contains(uid) {
		return "", &Rejection{Kind: NotAdmin}
	}
	return uid, nil
}

func headerValue(h http.Header, name string) (string, bool) {
	v, ok := h[http.CanonicalHeaderKey(name)]
	if !ok || len(v) == 0 {
		return "", false
	}
	return v[0], true
}
