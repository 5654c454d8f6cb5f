package signature

import (
	"crypto/hmac"
	"crypto/sha1"
	"encoding/hex"
	"fmt"
	"strings"
)

// Signer produces the per-request signatures the PTV timetable API requires.
// Every request path is signed together with the developer ID using
// HMAC-SHA1 over the API key, and the digest is sent as an uppercase hex
// query parameter alongside the devid.
type Signer struct {
	devID  string
	apiKey string
}

// NewSigner creates a signer for the given developer credentials.
func NewSigner(devID, apiKey string) *Signer {
	return &Signer{
		devID:  devID,
		apiKey: apiKey,
	}
}

// Sign returns the uppercase hex HMAC-SHA1 digest for a request path. The
// path may already carry query parameters; the devid is appended with the
// separator the final URL will use.
func (s *Signer) Sign(requestPath string) string {
	raw := requestPath + separator(requestPath) + "devid=" + s.devID

	mac := hmac.New(sha1.New, []byte(s.apiKey))
	mac.Write([]byte(raw))

	return strings.ToUpper(hex.EncodeToString(mac.Sum(nil)))
}

// SignedURL builds the full request URL with devid and signature parameters
// appended.
func (s *Signer) SignedURL(baseURL, requestPath string) string {
	return fmt.Sprintf("%s%s%sdevid=%s&signature=%s",
		baseURL, requestPath, separator(requestPath), s.devID, s.Sign(requestPath))
}

func separator(requestPath string) string {
	if strings.Contains(requestPath, "?") {
		return "&"
	}
	return "?"
}
