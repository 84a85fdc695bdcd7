package opclient

import (
	"crypto/ed25519"
	"crypto/sha512"
	"encoding/base64"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"
)

// Signer signs outbound requests with HTTP Message Signatures (RFC 9421)
// using an ed25519 key. Open Payments servers verify the signature against
// the JWKS published at the client's wallet address.
type Signer struct {
	keyID string
	key   ed25519.PrivateKey

	// now is swappable in tests to pin the created parameter.
	now func() time.Time
}

// NewSigner creates a Signer for the given key id and private key.
func NewSigner(keyID string, key ed25519.PrivateKey) *Signer {
	return &Signer{keyID: keyID, key: key, now: time.Now}
}

// Sign adds Content-Digest (when the request has a body), Signature-Input and
// Signature headers to req. The body must already be set with ContentLength
// and Content-Type populated; body is the raw payload used for the digest.
func (s *Signer) Sign(req *http.Request, body []byte) error {
	components := []string{"@method", "@target-uri"}

	if req.Header.Get("Authorization") != "" {
		components = append(components, "authorization")
	}

	if len(body) > 0 {
		digest := sha512.Sum512(body)
		req.Header.Set("Content-Digest",
			fmt.Sprintf("sha-512=:%s:", base64.StdEncoding.EncodeToString(digest[:])))
		components = append(components, "content-digest", "content-length", "content-type")
	}

	created := s.now().Unix()
	params := signatureParams(components, created, s.keyID)

	base, err := signatureBase(req, components, params)
	if err != nil {
		return fmt.Errorf("building signature base: %w", err)
	}

	sig := ed25519.Sign(s.key, []byte(base))
	req.Header.Set("Signature-Input", "sig1="+params)
	req.Header.Set("Signature", fmt.Sprintf("sig1=:%s:", base64.StdEncoding.EncodeToString(sig)))
	return nil
}

// signatureParams renders the inner-list parameters shared by Signature-Input
// and the @signature-params line of the signature base.
func signatureParams(components []string, created int64, keyID string) string {
	quoted := make([]string, len(components))
	for i, c := range components {
		quoted[i] = strconv.Quote(c)
	}
	return fmt.Sprintf("(%s);created=%d;keyid=%q;alg=\"ed25519\"",
		strings.Join(quoted, " "), created, keyID)
}

// signatureBase renders the canonical string that gets signed: one line per
// covered component, then the @signature-params line.
func signatureBase(req *http.Request, components []string, params string) (string, error) {
	var b strings.Builder
	for _, c := range components {
		v, err := componentValue(req, c)
		if err != nil {
			return "", err
		}
		fmt.Fprintf(&b, "%q: %s\n", c, v)
	}
	fmt.Fprintf(&b, "%q: %s", "@signature-params", params)
	return b.String(), nil
}

func componentValue(req *http.Request, component string) (string, error) {
	switch component {
	case "@method":
		return req.Method, nil
	case "@target-uri":
		return req.URL.String(), nil
	default:
		if strings.HasPrefix(component, "@") {
			return "", fmt.Errorf("unsupported derived component %q", component)
		}
		v := req.Header.Get(http.CanonicalHeaderKey(component))
		if v == "" && component == "content-length" {
			v = strconv.FormatInt(req.ContentLength, 10)
		}
		if v == "" {
			return "", fmt.Errorf("covered header %q is empty", component)
		}
		return strings.TrimSpace(v), nil
	}
}
