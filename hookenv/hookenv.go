// Copyright 2015 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

// Package hookenv is a client for the hook tools that the uniter places
// on the PATH of every hook execution: juju-log, unit-get and open-port.
// Each call shells out to the tool and reports its result; outside a hook
// context the tools are absent and every call fails.
package hookenv

import (
	"fmt"
	"os/exec"
	"strconv"
	"strings"

	"github.com/juju/errors"
	"github.com/juju/loggo"
)

var logger = loggo.GetLogger("kubernetes.hookenv")

// commandOutput calls cmd.Output, this is used as an overloading point
// so tests can record what *would* be run without executing anything.
var commandOutput = func(cmd *exec.Cmd) ([]byte, error) {
	return cmd.Output()
}

// runCommand calls cmd.Run, overloadable for the same reason.
var runCommand = func(cmd *exec.Cmd) error {
	return cmd.Run()
}

// Logf sends a message to the controller log via juju-log, mirroring it
// to the local log. A juju-log failure is returned but callers are
// expected to ignore it; losing a log line must not abort provisioning.
func Logf(level loggo.Level, format string, args ...interface{}) error {
	message := fmt.Sprintf(format, args...)
	logger.Logf(level, "%s", message)
	cmd := exec.Command("juju-log", "-l", level.String(), message)
	if err := runCommand(cmd); err != nil {
		return errors.Annotate(err, "juju-log failed")
	}
	return nil
}

// PublicAddress returns the unit's public address as reported by
// unit-get.
func PublicAddress() (string, error) {
	cmd := exec.Command("unit-get", "public-address")
	out, err := commandOutput(cmd)
	if err != nil {
		return "", errors.Annotate(err, "cannot determine public address")
	}
	return strings.TrimSpace(string(out)), nil
}

// OpenPort registers a TCP port as open for the unit.
func OpenPort(port int) error {
	cmd := exec.Command("open-port", strconv.Itoa(port)+"/tcp")
	if err := runCommand(cmd); err != nil {
		return errors.Annotatef(err, "cannot open port %d", port)
	}
	return nil
}
