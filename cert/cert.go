// Copyright 2015 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

// Package cert provisions the self-signed TLS server certificate used
// to bootstrap the Kubernetes API endpoint. The pair is generated once;
// rotation is the operator's job (delete server.crt and re-run).
package cert

import (
	"crypto"
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"crypto/x509/pkix"
	"encoding/pem"
	"math/big"
	"net"
	"os"
	"path/filepath"
	"time"

	"github.com/juju/errors"
	"github.com/juju/loggo"
)

var logger = loggo.GetLogger("kubernetes.cert")

// KeyProfile is a convenient way of getting a crypto private key with a
// default set of attributes.
type KeyProfile func() (crypto.Signer, error)

// RSA2048 returns a RSA 2048 private key.
func RSA2048() (crypto.Signer, error) {
	return rsa.GenerateKey(rand.Reader, 2048)
}

// DefaultKeyProfile is the profile used for generated server keys.
var DefaultKeyProfile KeyProfile = RSA2048

const validFor = 10 * 365 * 24 * time.Hour

// EnsureServerCert makes sure a key/certificate pair exists at the
// given paths, generating a self-signed pair with the given common name
// only when the certificate file is absent. An existing certificate is
// kept as-is: the key file is not independently checked and the common
// name is not re-validated against the current address.
func EnsureServerCert(keyPath, certPath, commonName string) error {
	if _, err := os.Stat(certPath); err == nil {
		logger.Warningf("keeping the existing certificate at %s", certPath)
		return nil
	} else if !os.IsNotExist(err) {
		return errors.Trace(err)
	}
	if err := os.MkdirAll(filepath.Dir(certPath), 0755); err != nil {
		return errors.Trace(err)
	}
	logger.Infof("generating self signed certificate for %q", commonName)
	certPEM, keyPEM, err := NewSelfSigned(commonName)
	if err != nil {
		return errors.Annotate(err, "cannot generate certificate")
	}
	if err := os.WriteFile(keyPath, keyPEM, 0600); err != nil {
		return errors.Trace(err)
	}
	if err := os.WriteFile(certPath, certPEM, 0644); err != nil {
		return errors.Trace(err)
	}
	return nil
}

// NewSelfSigned returns PEM-encoded certificate and key for a
// self-signed server certificate with the given common name. If the
// common name parses as an IP address it is also set as a SAN, else as
// a DNS name.
func NewSelfSigned(commonName string) (certPEM, keyPEM []byte, err error) {
	signer, err := DefaultKeyProfile()
	if err != nil {
		return nil, nil, errors.Trace(err)
	}
	serial, err := rand.Int(rand.Reader, new(big.Int).Lsh(big.NewInt(1), 128))
	if err != nil {
		return nil, nil, errors.Trace(err)
	}
	now := time.Now()
	template := x509.Certificate{
		SerialNumber:          serial,
		Subject:               pkix.Name{CommonName: commonName},
		NotBefore:             now.Add(-5 * time.Minute),
		NotAfter:              now.Add(validFor),
		KeyUsage:              x509.KeyUsageDigitalSignature | x509.KeyUsageKeyEncipherment,
		ExtKeyUsage:           []x509.ExtKeyUsage{x509.ExtKeyUsageServerAuth},
		BasicConstraintsValid: true,
	}
	if ip := net.ParseIP(commonName); ip != nil {
		template.IPAddresses = []net.IP{ip}
	} else {
		template.DNSNames = []string{commonName}
	}
	der, err := x509.CreateCertificate(rand.Reader, &template, &template, signer.Public(), signer)
	if err != nil {
		return nil, nil, errors.Trace(err)
	}
	keyDER, err := x509.MarshalPKCS8PrivateKey(signer)
	if err != nil {
		return nil, nil, errors.Trace(err)
	}
	certPEM = pem.EncodeToMemory(&pem.Block{Type: "CERTIFICATE", Bytes: der})
	keyPEM = pem.EncodeToMemory(&pem.Block{Type: "PRIVATE KEY", Bytes: keyDER})
	return certPEM, keyPEM, nil
}
