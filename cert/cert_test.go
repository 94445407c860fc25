// Copyright 2015 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

package cert_test

import (
	"crypto/rsa"
	"crypto/x509"
	"encoding/pem"
	"net"
	"os"
	"path/filepath"

	"github.com/juju/testing"
	jc "github.com/juju/testing/checkers"
	gc "gopkg.in/check.v1"

	"github.com/whitmo/kubernetes/cert"
)

type certSuite struct {
	testing.IsolationSuite
}

var _ = gc.Suite(&certSuite{})

func parseCert(c *gc.C, certPEM []byte) *x509.Certificate {
	block, _ := pem.Decode(certPEM)
	c.Assert(block, gc.NotNil)
	c.Assert(block.Type, gc.Equals, "CERTIFICATE")
	parsed, err := x509.ParseCertificate(block.Bytes)
	c.Assert(err, jc.ErrorIsNil)
	return parsed
}

func (s *certSuite) TestNewSelfSigned(c *gc.C) {
	certPEM, keyPEM, err := cert.NewSelfSigned("10.0.3.1")
	c.Assert(err, jc.ErrorIsNil)

	parsed := parseCert(c, certPEM)
	c.Assert(parsed.Subject.CommonName, gc.Equals, "10.0.3.1")
	c.Assert(parsed.IPAddresses, gc.HasLen, 1)
	c.Assert(parsed.IPAddresses[0].Equal(net.ParseIP("10.0.3.1")), jc.IsTrue)
	c.Assert(parsed.ExtKeyUsage, gc.DeepEquals, []x509.ExtKeyUsage{x509.ExtKeyUsageServerAuth})

	block, _ := pem.Decode(keyPEM)
	c.Assert(block, gc.NotNil)
	c.Assert(block.Type, gc.Equals, "PRIVATE KEY")
	key, err := x509.ParsePKCS8PrivateKey(block.Bytes)
	c.Assert(err, jc.ErrorIsNil)
	rsaKey, ok := key.(*rsa.PrivateKey)
	c.Assert(ok, jc.IsTrue)
	c.Assert(parsed.CheckSignatureFrom(parsed), jc.ErrorIsNil)
	c.Assert(rsaKey.PublicKey.Equal(parsed.PublicKey), jc.IsTrue)
}

func (s *certSuite) TestNewSelfSignedHostname(c *gc.C) {
	certPEM, _, err := cert.NewSelfSigned("master.example.com")
	c.Assert(err, jc.ErrorIsNil)
	parsed := parseCert(c, certPEM)
	c.Assert(parsed.Subject.CommonName, gc.Equals, "master.example.com")
	c.Assert(parsed.DNSNames, gc.DeepEquals, []string{"master.example.com"})
}

func (s *certSuite) TestEnsureServerCertGenerates(c *gc.C) {
	dir := filepath.Join(c.MkDir(), "srv", "kubernetes")
	keyPath := filepath.Join(dir, "server.key")
	certPath := filepath.Join(dir, "server.crt")

	err := cert.EnsureServerCert(keyPath, certPath, "10.0.3.1")
	c.Assert(err, jc.ErrorIsNil)

	data, err := os.ReadFile(certPath)
	c.Assert(err, jc.ErrorIsNil)
	parsed := parseCert(c, data)
	c.Assert(parsed.Subject.CommonName, gc.Equals, "10.0.3.1")

	info, err := os.Stat(keyPath)
	c.Assert(err, jc.ErrorIsNil)
	c.Assert(info.Mode().Perm(), gc.Equals, os.FileMode(0600))
}

func (s *certSuite) TestEnsureServerCertKeepsExisting(c *gc.C) {
	dir := c.MkDir()
	keyPath := filepath.Join(dir, "server.key")
	certPath := filepath.Join(dir, "server.crt")
	err := os.WriteFile(keyPath, []byte("old key"), 0600)
	c.Assert(err, jc.ErrorIsNil)
	err = os.WriteFile(certPath, []byte("old cert"), 0644)
	c.Assert(err, jc.ErrorIsNil)

	err = cert.EnsureServerCert(keyPath, certPath, "10.9.9.9")
	c.Assert(err, jc.ErrorIsNil)

	keyData, err := os.ReadFile(keyPath)
	c.Assert(err, jc.ErrorIsNil)
	c.Assert(string(keyData), gc.Equals, "old key")
	certData, err := os.ReadFile(certPath)
	c.Assert(err, jc.ErrorIsNil)
	c.Assert(string(certData), gc.Equals, "old cert")
}

func (s *certSuite) TestEnsureServerCertUnwritableDir(c *gc.C) {
	if os.Getuid() == 0 {
		c.Skip("permissions are ignored when running as root")
	}
	dir := c.MkDir()
	err := os.Chmod(dir, 0500)
	c.Assert(err, jc.ErrorIsNil)
	defer os.Chmod(dir, 0755)

	sub := filepath.Join(dir, "kubernetes")
	err = cert.EnsureServerCert(
		filepath.Join(sub, "server.key"),
		filepath.Join(sub, "server.crt"),
		"10.0.3.1",
	)
	c.Assert(err, gc.NotNil)
}
