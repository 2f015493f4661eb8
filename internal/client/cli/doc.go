// Package cli implements mailpasswdctl, a small operator tool for the
// credential store's service API.
//
// Usage:
//
//	mailpasswdctl [-s base-url] [-t seconds] [-c config.json] authenticate -u user
//	mailpasswdctl [-s base-url] lookup -u user
//
// authenticate prompts for the password without echo and prints the
// classified outcome. lookup prints the user record as JSON. The exit code
// is 0 on success, 1 on a negative answer and 2 on usage or transport errors.
package cli
