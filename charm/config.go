// Copyright 2015 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

package charm

import (
	"github.com/juju/errors"
)

// Config enumerates every fixed path, URL and digest the install hook
// touches. There is no other configuration surface; the hook takes no
// arguments.
type Config struct {
	// Packages are the Debian packages required to build the source
	// and syndicate between minion nodes.
	Packages []string

	// ToolchainURL is the Go toolchain archive to install, with its
	// expected digest under ChecksumAlgorithm, unpacked into
	// ToolchainDest.
	ToolchainURL      string
	Checksum          string
	ChecksumAlgorithm string
	ToolchainDest     string

	// RepoURL is cloned afresh into RepoDest on every run.
	RepoURL  string
	RepoDest string

	// KeyPath and CertPath locate the TLS server pair. The cert and
	// key live where the nginx template expects to resolve them.
	KeyPath  string
	CertPath string

	// ProfileFiles are seeded with ProfileLines, in order, without
	// duplication.
	ProfileFiles []string
	ProfileLines []string

	// OpenPorts are declared open for the unit once provisioning
	// succeeds.
	OpenPorts []int
}

// DefaultConfig returns the production configuration of the
// kubernetes-master charm.
func DefaultConfig() Config {
	return Config{
		Packages: []string{
			"build-essential",
			"git",
			"make",
			"nginx",
			"python-pip",
		},
		ToolchainURL:      "https://storage.googleapis.com/golang/go1.4.2.linux-amd64.tar.gz",
		Checksum:          "5020af94b52b65cc9b6f11d50a67e4bae07b0aff",
		ChecksumAlgorithm: "sha1",
		ToolchainDest:     "/usr/local",
		RepoURL:           "https://github.com/GoogleCloudPlatform/kubernetes.git",
		RepoDest:          "/opt/kubernetes",
		KeyPath:           "/srv/kubernetes/server.key",
		CertPath:          "/srv/kubernetes/server.crt",
		ProfileFiles: []string{
			"/home/ubuntu/.bashrc",
			"/root/.bashrc",
		},
		ProfileLines: []string{
			"export GOROOT=/usr/local/go",
			"export PATH=$PATH:$GOROOT/bin",
			"export KUBE_MASTER_IP=0.0.0.0",
			"export KUBERNETES_MASTER=http://$KUBE_MASTER_IP",
		},
		OpenPorts: []int{8080, 443},
	}
}

// Validate returns an error if the configuration is incomplete.
func (c Config) Validate() error {
	if c.ToolchainURL == "" {
		return errors.NotValidf("empty ToolchainURL")
	}
	if c.Checksum == "" {
		return errors.NotValidf("empty Checksum")
	}
	if c.ChecksumAlgorithm == "" {
		return errors.NotValidf("empty ChecksumAlgorithm")
	}
	if c.ToolchainDest == "" {
		return errors.NotValidf("empty ToolchainDest")
	}
	if c.RepoURL == "" {
		return errors.NotValidf("empty RepoURL")
	}
	if c.RepoDest == "" {
		return errors.NotValidf("empty RepoDest")
	}
	if c.KeyPath == "" || c.CertPath == "" {
		return errors.NotValidf("empty certificate paths")
	}
	if len(c.ProfileFiles) == 0 {
		return errors.NotValidf("no profile files")
	}
	return nil
}
