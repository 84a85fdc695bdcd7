package opclient

import (
	"bytes"
	"crypto/ed25519"
	"crypto/rand"
	"crypto/sha512"
	"encoding/base64"
	"fmt"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testKey(t *testing.T) (ed25519.PublicKey, ed25519.PrivateKey) {
	t.Helper()
	pub, priv, err := ed25519.GenerateKey(rand.Reader)
	require.NoError(t, err)
	return pub, priv
}

func pinnedSigner(t *testing.T, priv ed25519.PrivateKey) *Signer {
	t.Helper()
	s := NewSigner("test-key-1", priv)
	s.now = func() time.Time { return time.Unix(1700000000, 0) }
	return s
}

func TestSigner_GetRequest_CoversMethodAndTargetURI(t *testing.T) {
	pub, priv := testKey(t)
	s := pinnedSigner(t, priv)

	req, err := http.NewRequest(http.MethodGet, "https://wallet.example/alice", nil)
	require.NoError(t, err)
	require.NoError(t, s.Sign(req, nil))

	input := req.Header.Get("Signature-Input")
	assert.Equal(t,
		`sig1=("@method" "@target-uri");created=1700000000;keyid="test-key-1";alg="ed25519"`,
		input)
	assert.Empty(t, req.Header.Get("Content-Digest"), "no body, no digest")

	base := `"@method": GET` + "\n" +
		`"@target-uri": https://wallet.example/alice` + "\n" +
		`"@signature-params": ` + strings.TrimPrefix(input, "sig1=")
	assert.True(t, ed25519.Verify(pub, []byte(base), extractSignature(t, req)))
}

func TestSigner_PostWithBody_CoversContentComponents(t *testing.T) {
	pub, priv := testKey(t)
	s := pinnedSigner(t, priv)

	body := []byte(`{"access_token":{"access":[]}}`)
	req, err := http.NewRequest(http.MethodPost, "https://auth.example/", bytes.NewReader(body))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "GNAP token-1")
	req.ContentLength = int64(len(body))

	require.NoError(t, s.Sign(req, body))

	digest := sha512.Sum512(body)
	assert.Equal(t,
		fmt.Sprintf("sha-512=:%s:", base64.StdEncoding.EncodeToString(digest[:])),
		req.Header.Get("Content-Digest"))

	input := req.Header.Get("Signature-Input")
	assert.Equal(t,
		`sig1=("@method" "@target-uri" "authorization" "content-digest" "content-length" "content-type");created=1700000000;keyid="test-key-1";alg="ed25519"`,
		input)

	base := `"@method": POST` + "\n" +
		`"@target-uri": https://auth.example/` + "\n" +
		`"authorization": GNAP token-1` + "\n" +
		`"content-digest": ` + req.Header.Get("Content-Digest") + "\n" +
		fmt.Sprintf(`"content-length": %d`, len(body)) + "\n" +
		`"content-type": application/json` + "\n" +
		`"@signature-params": ` + strings.TrimPrefix(input, "sig1=")
	assert.True(t, ed25519.Verify(pub, []byte(base), extractSignature(t, req)),
		"signature must verify against the reconstructed base")
}

func extractSignature(t *testing.T, req *http.Request) []byte {
	t.Helper()
	h := req.Header.Get("Signature")
	require.True(t, strings.HasPrefix(h, "sig1=:") && strings.HasSuffix(h, ":"), "unexpected Signature header %q", h)
	sig, err := base64.StdEncoding.DecodeString(strings.TrimSuffix(strings.TrimPrefix(h, "sig1=:"), ":"))
	require.NoError(t, err)
	return sig
}
