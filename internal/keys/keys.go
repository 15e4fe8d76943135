// Package keys inspects authorized_keys-format public keys.
package keys

import (
	"crypto/ecdsa"
	"crypto/rsa"
	"fmt"
	"strings"

	"github.com/oxcsml/zizkeys/internal/errors"
	"golang.org/x/crypto/ssh"
)

// Info describes a parsed public key.
type Info struct {
	// Type is the wire-format key type, e.g. "ssh-rsa" or "ssh-ed25519".
	Type string

	// Bits is the key length where it is meaningful (RSA modulus size,
	// ECDSA curve size); zero otherwise.
	Bits int

	// Fingerprint is the SHA256 fingerprint, as ssh-keygen -lf prints it.
	Fingerprint string

	// Comment is the trailing comment field, usually user@host.
	Comment string
}

// Parse reads a single authorized_keys-format line.
func Parse(line []byte) (*Info, error) {
	pub, comment, _, _, err := ssh.ParseAuthorizedKey(line)
	if err != nil {
		return nil, errors.WrapWithCode(err, errors.ErrKeygen,
			"Couldn't parse public key",
			"Expected a single authorized_keys-format line")
	}

	return &Info{
		Type:        pub.Type(),
		Bits:        bitLen(pub),
		Fingerprint: ssh.FingerprintSHA256(pub),
		Comment:     comment,
	}, nil
}

// String renders the key info on one line, e.g.
// "ssh-rsa 2048 SHA256:... user@ziz-gpu01".
func (i *Info) String() string {
	var b strings.Builder
	b.WriteString(i.Type)
	if i.Bits > 0 {
		fmt.Fprintf(&b, " %d", i.Bits)
	}
	b.WriteString(" " + i.Fingerprint)
	if i.Comment != "" {
		b.WriteString(" " + i.Comment)
	}
	return b.String()
}

// bitLen extracts the key length from the underlying crypto key.
func bitLen(pub ssh.PublicKey) int {
	cryptoPub, ok := pub.(ssh.CryptoPublicKey)
	if !ok {
		return 0
	}
	switch k := cryptoPub.CryptoPublicKey().(type) {
	case *rsa.PublicKey:
		return k.N.BitLen()
	case *ecdsa.PublicKey:
		return k.Curve.Params().BitSize
	default:
		return 0
	}
}
