// Package client talks to the credential store's service-to-service API
// (/api/authenticate and /api/user_lookup) over HTTP.
//
// It is the same contract the mail and CalDAV plugins rely on: the
// authentication outcome travels as a bare status code and is mapped back to
// models.AuthenticationResult here.
//
// Logins are reduced to their local part (LoginName) before they are sent.
//
// Transport failures are reported as ErrUnavailable; an unknown user on
// lookup is ErrNotFound. Both are matched with errors.Is.
package client
