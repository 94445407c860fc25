// Copyright 2015 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

// Package packaging ensures the Debian packages needed to build and
// serve Kubernetes are present on the host.
package packaging

import (
	"github.com/juju/errors"
	"github.com/juju/loggo"
	"github.com/juju/packaging/v2/manager"
)

var logger = loggo.GetLogger("kubernetes.packaging")

// PackageManager is the slice of the package manager this charm uses.
// Installed status comes from the dpkg database, never from probing
// the filesystem.
type PackageManager interface {
	// IsInstalled reports whether the named package is installed.
	IsInstalled(pack string) bool

	// Install installs the given packages.
	Install(packs ...string) error
}

// NewAptManager returns the production apt-backed package manager.
func NewAptManager() PackageManager {
	return manager.NewAptPackageManager()
}

// FilterInstalled returns the subset of names not yet installed,
// preserving order.
func FilterInstalled(pm PackageManager, names []string) []string {
	var missing []string
	for _, name := range names {
		if !pm.IsInstalled(name) {
			missing = append(missing, name)
		}
	}
	return missing
}

// InstallMissing installs whichever of the given packages are not
// already present. Re-running once everything is installed issues no
// further install calls.
func InstallMissing(pm PackageManager, names []string) error {
	missing := FilterInstalled(pm, names)
	if len(missing) == 0 {
		logger.Infof("all packages already installed")
		return nil
	}
	logger.Infof("installing packages: %v", missing)
	if err := pm.Install(missing...); err != nil {
		return errors.Annotatef(err, "cannot install packages %v", missing)
	}
	return nil
}
