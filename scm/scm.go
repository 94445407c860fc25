// Copyright 2015 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

// Package scm obtains a fresh checkout of the Kubernetes source tree.
// The checkout is never updated in place: an existing destination is
// removed outright and the repository cloned again, trading a full
// re-download for freedom from merge and divergence failure modes.
package scm

import (
	"os"

	"github.com/juju/errors"
	"github.com/juju/loggo"
	"github.com/juju/utils/v4"
	"github.com/juju/utils/v4/exec"
)

var logger = loggo.GetLogger("kubernetes.scm")

// CommandRunner runs a shell command and returns its exec response.
type CommandRunner interface {
	RunCommands(run exec.RunParams) (*exec.ExecResponse, error)
}

type defaultRunner struct{}

func (*defaultRunner) RunCommands(run exec.RunParams) (*exec.ExecResponse, error) {
	return exec.RunCommands(run)
}

// NewRunner returns the production command runner.
func NewRunner() CommandRunner {
	return &defaultRunner{}
}

// Clone clones remote into dest. If dest already exists, whatever it
// contains is removed before the clone starts, so a failed clone leaves
// the destination absent rather than half-populated.
func Clone(runner CommandRunner, remote, dest string) error {
	if _, err := os.Stat(dest); err == nil {
		logger.Infof("removing stale checkout at %s", dest)
		if err := os.RemoveAll(dest); err != nil {
			return errors.Annotatef(err, "cannot remove %s", dest)
		}
	} else if !os.IsNotExist(err) {
		return errors.Trace(err)
	}
	logger.Infof("cloning %s into %s", remote, dest)
	command := utils.CommandString("git", "clone", remote, dest)
	resp, err := runner.RunCommands(exec.RunParams{Commands: command})
	if err != nil {
		return errors.Annotate(err, "cannot run git clone")
	}
	if resp.Code != 0 {
		return errors.Errorf(
			"git clone failed (exit %d): %s%s",
			resp.Code, resp.Stdout, resp.Stderr,
		)
	}
	return nil
}
