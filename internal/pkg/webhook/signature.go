package webhook

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
)

// SignatureHeader carries the hex HMAC-SHA256 of the canonical payload.
const SignatureHeader = "YAYA-SIGNATURE"

// Verifier checks provider signatures. The secret is fixed at construction.
type Verifier struct {
	secret []byte
}

func NewVerifier(secret string) *Verifier {
	return &Verifier{secret: []byte(secret)}
}

// Canonicalize concatenates the string form of every value, ordered by key.
// Numbers are emitted exactly as they appeared in the JSON text, booleans as
// True or False to match the provider's signer.
func Canonicalize(fields Fields) string {
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	for _, k := range keys {
		b.WriteString(canonicalValue(fields[k]))
	}
	return b.String()
}

func canonicalValue(v any) string {
	switch val := v.(type) {
	case string:
		return val
	case json.Number:
		return val.String()
	case bool:
		if val {
			return "True"
		}
		return "False"
	case nil:
		return "null"
	default:
		return fmt.Sprint(val)
	}
}

// Sign returns the lowercase hex signature the provider is expected to send.
func (v *Verifier) Sign(fields Fields) string {
	return hex.EncodeToString(v.mac(Canonicalize(fields)))
}

// Verify reports whether signatureHeader matches the payload. The comparison
// runs in constant time.
func (v *Verifier) Verify(fields Fields, signatureHeader string) bool {
	sig := strings.ToLower(strings.TrimSpace(signatureHeader))
	if sig == "" || len(v.secret) == 0 {
		return false
	}

	decodedSig, err := hex.DecodeString(sig)
	if err != nil {
		return false
	}
	return hmac.Equal(v.mac(Canonicalize(fields)), decodedSig)
}

func (v *Verifier) mac(payload string) []byte {
	mac := hmac.New(sha256.New, v.secret)
	mac.Write([]byte(payload))
	return mac.Sum(nil)
}
