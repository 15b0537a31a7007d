package store

import (
	"crypto"
	"crypto/ecdsa"
	"crypto/rand"

	dtcbor "github.com/datatrails/go-datatrails-common/cbor"
	dtcose "github.com/datatrails/go-datatrails-common/cose"
	"github.com/veraison/go-cose"
)

// DocumentSealer produces a COSE Sign1 seal over a document's metadata. The
// seal binds the identifier-to-address lookup, the order table and the
// symbol table to a key holder; a consumer that verifies the seal can trust
// the navigation structure without re-reading every record.
type DocumentSealer struct {
	issuer    string
	cborCodec dtcbor.CBORCodec
}

func NewDocumentSealer(issuer string, cborCodec dtcbor.CBORCodec) DocumentSealer {
	ds := DocumentSealer{
		issuer:    issuer,
		cborCodec: cborCodec,
	}
	return ds
}

// Sign1 seals the metadata. The CWT claims in the protected header carry the
// issuer, the subject and the confirmation key so a verifier can match the
// seal to the expected signer.
func (ds DocumentSealer) Sign1(coseSigner cose.Signer, keyIdentifier string, publicKey *ecdsa.PublicKey, subject string, md DocumentMetadata, external []byte) ([]byte, error) {
	payload, err := ds.cborCodec.MarshalCBOR(md)
	if err != nil {
		return nil, err
	}

	coseHeaders := cose.Headers{
		Protected: cose.ProtectedHeader{
			dtcose.HeaderLabelCWTClaims: dtcose.NewCNFClaim(
				ds.issuer, subject, keyIdentifier, coseSigner.Algorithm(), *publicKey),
		},
	}

	msg := cose.Sign1Message{
		Headers: coseHeaders,
		Payload: payload,
	}
	err = msg.Sign(rand.Reader, external, coseSigner)
	if err != nil {
		return nil, err
	}

	return msg.MarshalCBOR()
}

type publicKeyProvider interface {
	PublicKey() (crypto.PublicKey, cose.Algorithm, error)
}

// DecodeSealedMetadata decodes the metadata payload from a seal without
// verifying the signature. Use VerifySealedMetadata before trusting the
// returned values.
func DecodeSealedMetadata(codec dtcbor.CBORCodec, msg []byte) (*dtcose.CoseSign1Message, DocumentMetadata, error) {
	signed, err := dtcose.NewCoseSign1MessageFromCBOR(msg, newSealDecOptions()...)
	if err != nil {
		return nil, DocumentMetadata{}, err
	}

	var unverified DocumentMetadata
	err = codec.UnmarshalInto(signed.Payload, &unverified)
	if err != nil {
		return nil, DocumentMetadata{}, err
	}
	return signed, unverified, nil
}

// VerifySealedMetadata re-encodes the metadata as the seal payload and
// verifies the signature with the provided key.
func VerifySealedMetadata(codec dtcbor.CBORCodec, keyProvider publicKeyProvider, signed *dtcose.CoseSign1Message, md DocumentMetadata, external []byte) error {
	var err error
	signed.Payload, err = codec.MarshalCBOR(md)
	if err != nil {
		return err
	}
	return signed.VerifyWithProvider(keyProvider, external)
}

func newSealDecOptions() []dtcose.SignOption {
	return []dtcose.SignOption{dtcose.WithDecOptions(dtcbor.NewDeterministicDecOpts())}
}
