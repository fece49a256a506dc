// Package signer wraps the Ed25519 signature primitive behind the
// abstract sign/verify/derive-identity capability spec.md §6 requires of
// "any EdDSA-like scheme": gen/sign/verify over byte strings, a 32-byte
// public key, a fixed-size signature, and an identity of H(public_key)
// using SHA-256.
//
// crypto/ed25519 is used directly rather than a third-party EdDSA
// package: no library in the reference corpus supersedes the standard
// library's constant-time, side-channel-reviewed implementation for this
// primitive (see DESIGN.md).
package signer

import (
	"crypto/ed25519"
	"crypto/sha256"
	cryptorand "crypto/rand"
	"errors"
)

// ErrInvalidSignature is returned by Verify when the signature does not
// match the message under the given public key.
var ErrInvalidSignature = errors.New("signer: invalid signature")

// PublicKey is a 32-byte Ed25519 public key.
type PublicKey [ed25519.PublicKeySize]byte

// AccountID is H(PublicKey), the account identity per spec.md §3.
type AccountID [sha256.Size]byte

// Identity derives the account identity of a public key.
func (pk PublicKey) Identity() AccountID {
	return sha256.Sum256(pk[:])
}

// Signature is a fixed-size Ed25519 signature.
type Signature [ed25519.SignatureSize]byte

// KeyPair is a signing identity: a private key and its corresponding
// public key.
type KeyPair struct {
	Public  PublicKey
	private ed25519.PrivateKey
}

// Generate creates a fresh random keypair.
func Generate() (KeyPair, error) {
	pub, priv, err := ed25519.GenerateKey(cryptorand.Reader)
	if err != nil {
		return KeyPair{}, err
	}
	var kp KeyPair
	copy(kp.Public[:], pub)
	kp.private = priv
	return kp, nil
}

// FromSeed deterministically derives a keypair from a 32-byte seed. Used
// for the fixed "Jenny" bootstrap keypair (spec.md §6) and in tests.
func FromSeed(seed [ed25519.SeedSize]byte) KeyPair {
	priv := ed25519.NewKeyFromSeed(seed[:])
	var kp KeyPair
	copy(kp.Public[:], priv.Public().(ed25519.PublicKey))
	kp.private = priv
	return kp
}

// Sign signs msg with the keypair's private key.
func (kp KeyPair) Sign(msg []byte) Signature {
	var sig Signature
	copy(sig[:], ed25519.Sign(kp.private, msg))
	return sig
}

// Verify checks sig over msg under pk.
func Verify(pk PublicKey, msg []byte, sig Signature) error {
	if !ed25519.Verify(ed25519.PublicKey(pk[:]), msg, sig[:]) {
		return ErrInvalidSignature
	}
	return nil
}
