// Copyright 2015 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

// installhook is the kubernetes-master charm hook binary. It is
// symlinked into the charm's hooks directory under the hook names it
// serves; the uniter invokes it with no arguments and the process exit
// status reports success or failure. Every hook runs the same
// idempotent provisioning sequence, which is what makes re-triggering
// and charm upgrades safe.
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/juju/loggo"

	"github.com/whitmo/kubernetes/charm"
)

var logger = loggo.GetLogger("kubernetes.cmd.installhook")

const (
	// exitErr is returned when the hook fails; the uniter surfaces it
	// to the operator and applies its own retry policy.
	exitErr = 1
	// exitUsage is returned when invoked under an unknown hook name.
	exitUsage = 2
)

var hooks = map[string]func(charm.Config, charm.Deps) error{
	"install":       charm.Install,
	"upgrade-charm": charm.Install,
	"installhook":   charm.Install,
}

func main() {
	hookName := filepath.Base(os.Args[0])
	run, ok := hooks[hookName]
	if !ok {
		fmt.Fprintf(os.Stderr, "unknown hook name %q\n", hookName)
		os.Exit(exitUsage)
	}
	logger.Infof("running hook %s", hookName)
	if err := run(charm.DefaultConfig(), charm.DefaultDeps()); err != nil {
		fmt.Fprintf(os.Stderr, "%s hook failed: %v\n", hookName, err)
		os.Exit(exitErr)
	}
}
