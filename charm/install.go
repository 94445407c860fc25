// Copyright 2015 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

// Package charm implements the kubernetes-master install hook: the
// ordered, idempotent sequence that takes a bare host to the point
// where the Kubernetes control plane can be built and run. Every step
// is safe to re-run; failure at any step aborts the rest of the
// sequence and leaves completed steps in place for the next attempt.
package charm

import (
	"github.com/juju/errors"
	"github.com/juju/loggo"

	"github.com/whitmo/kubernetes/cert"
	"github.com/whitmo/kubernetes/fetch"
	"github.com/whitmo/kubernetes/hookenv"
	"github.com/whitmo/kubernetes/packaging"
	"github.com/whitmo/kubernetes/profile"
	"github.com/whitmo/kubernetes/scm"
)

var logger = loggo.GetLogger("kubernetes.charm")

// ArchiveInstaller downloads, digest-verifies and unpacks an archive.
type ArchiveInstaller interface {
	Install(url, dest, checksum, algorithm string) error
}

// Deps are the external collaborators of the install sequence. They
// are injected so the sequence can be exercised without a live host.
type Deps struct {
	Packages      packaging.PackageManager
	Archive       ArchiveInstaller
	Runner        scm.CommandRunner
	PublicAddress func() (string, error)
	OpenPort      func(port int) error
	Log           func(level loggo.Level, format string, args ...interface{}) error
}

// DefaultDeps returns the production collaborators.
func DefaultDeps() Deps {
	return Deps{
		Packages:      packaging.NewAptManager(),
		Archive:       fetch.NewArchiveURLHandler(),
		Runner:        scm.NewRunner(),
		PublicAddress: hookenv.PublicAddress,
		OpenPort:      hookenv.OpenPort,
		Log:           hookenv.Logf,
	}
}

// Install runs the provisioning sequence: packages, certificate,
// toolchain, profile seeding, source checkout, port declarations.
// There are no retries and no rollback; re-running the hook is the
// retry strategy.
func Install(cfg Config, deps Deps) error {
	if err := cfg.Validate(); err != nil {
		return errors.Trace(err)
	}

	// A lost juju-log line must not abort provisioning, so log
	// failures are ignored throughout.
	_ = deps.Log(loggo.INFO, "Installing Debian packages")
	if err := packaging.InstallMissing(deps.Packages, cfg.Packages); err != nil {
		return errors.Trace(err)
	}

	addr, err := deps.PublicAddress()
	if err != nil {
		return errors.Trace(err)
	}
	if err := cert.EnsureServerCert(cfg.KeyPath, cfg.CertPath, addr); err != nil {
		return errors.Trace(err)
	}

	_ = deps.Log(loggo.INFO, "Installing go")
	err = deps.Archive.Install(cfg.ToolchainURL, cfg.ToolchainDest, cfg.Checksum, cfg.ChecksumAlgorithm)
	if err != nil {
		return errors.Trace(err)
	}

	_ = deps.Log(loggo.INFO, "Adding kubernetes and go to the path")
	if err := profile.EnsureLinesInAll(cfg.ProfileFiles, cfg.ProfileLines); err != nil {
		return errors.Trace(err)
	}

	_ = deps.Log(loggo.INFO, "Downloading kubernetes code")
	if err := scm.Clone(deps.Runner, cfg.RepoURL, cfg.RepoDest); err != nil {
		return errors.Trace(err)
	}

	for _, port := range cfg.OpenPorts {
		if err := deps.OpenPort(port); err != nil {
			return errors.Trace(err)
		}
	}

	_ = deps.Log(loggo.INFO, "Install complete")
	logger.Infof("install complete")
	return nil
}
