//go:build devauth

package identity

// DevBypass reports whether the development identity bypass is compiled in.
// Built with -tags devauth, requests that arrive without proxy headers are
// attributed to DevUID.
const DevBypass = true

const DevUID = "vsh"

func bypassDN() (*CertDN, bool) {
	return &CertDN{attrs: []attribute{{key: "UID", value: DevUID}}}, true
}
