// Package handler provides HTTP handlers for the ReviewLoop service.
package handler

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"strings"
)

// signaturePrefix is the algorithm prefix GitHub puts in front of the hex
// digest in the X-Hub-Signature-256 header.
const signaturePrefix = "sha256="

// VerifySignature validates the authenticity of a raw webhook payload
// against the shared secret. It fails closed on a missing or malformed
// algorithm prefix and compares digests in constant time.
func VerifySignature(payload []byte, signatureHeader, secret string) bool {
	if !strings.HasPrefix(signatureHeader, signaturePrefix) {
		return false
	}
	signature := strings.TrimPrefix(signatureHeader, signaturePrefix)

	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(payload)
	expected := hex.EncodeToString(mac.Sum(nil))

	return hmac.Equal([]byte(signature), []byte(expected))
}
