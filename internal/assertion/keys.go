package assertion

import (
	"crypto/rsa"
	"crypto/x509"
	"encoding/base64"
	"strings"

	"github.com/golang-jwt/jwt/v5"

	dErrors "consentgate/pkg/domainerrors"
)

// ParsePublicKey accepts either a PEM-encoded public key or a bare
// base64-encoded PKIX (X.509 SubjectPublicKeyInfo) blob, which is how
// registry deployments tend to hand the key around.
func ParsePublicKey(material string) (*rsa.PublicKey, error) {
	material = strings.TrimSpace(material)
	if material == "" {
		return nil, dErrors.New(dErrors.CodeInternal, "assertion public key is empty")
	}

	if strings.Contains(material, "-----BEGIN") {
		key, err := jwt.ParseRSAPublicKeyFromPEM([]byte(material))
		if err != nil {
			return nil, dErrors.Wrap(dErrors.CodeInternal, "parse PEM public key", err)
		}
		return key, nil
	}

	der, err := base64.StdEncoding.DecodeString(material)
	if err != nil {
		return nil, dErrors.Wrap(dErrors.CodeInternal, "public key is neither PEM nor base64 DER", err)
	}
	parsed, err := x509.ParsePKIXPublicKey(der)
	if err != nil {
		return nil, dErrors.Wrap(dErrors.CodeInternal, "parse DER public key", err)
	}
	rsaKey, ok := parsed.(*rsa.PublicKey)
	if !ok {
		return nil, dErrors.New(dErrors.CodeInternal, "public key is not RSA")
	}
	return rsaKey, nil
}
