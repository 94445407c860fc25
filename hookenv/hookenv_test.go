// Copyright 2015 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

package hookenv_test

import (
	"os/exec"

	"github.com/juju/loggo"
	"github.com/juju/testing"
	jc "github.com/juju/testing/checkers"
	gc "gopkg.in/check.v1"

	"github.com/whitmo/kubernetes/hookenv"
)

type hookenvSuite struct {
	testing.IsolationSuite

	commands [][]string
}

var _ = gc.Suite(&hookenvSuite{})

func (s *hookenvSuite) SetUpTest(c *gc.C) {
	s.IsolationSuite.SetUpTest(c)
	s.commands = nil
	s.PatchValue(hookenv.RunCommand, func(cmd *exec.Cmd) error {
		s.commands = append(s.commands, cmd.Args)
		return nil
	})
	s.PatchValue(hookenv.CommandOutput, func(cmd *exec.Cmd) ([]byte, error) {
		s.commands = append(s.commands, cmd.Args)
		return []byte("10.0.3.1\n"), nil
	})
}

func (s *hookenvSuite) TestLogf(c *gc.C) {
	err := hookenv.Logf(loggo.INFO, "installing %s", "go")
	c.Assert(err, jc.ErrorIsNil)
	c.Assert(s.commands, gc.DeepEquals, [][]string{
		{"juju-log", "-l", "INFO", "installing go"},
	})
}

func (s *hookenvSuite) TestLogfFailureReturnsError(c *gc.C) {
	s.PatchValue(hookenv.RunCommand, func(cmd *exec.Cmd) error {
		return exec.ErrNotFound
	})
	err := hookenv.Logf(loggo.WARNING, "no tools here")
	c.Assert(err, gc.ErrorMatches, "juju-log failed: .*")
}

func (s *hookenvSuite) TestPublicAddress(c *gc.C) {
	addr, err := hookenv.PublicAddress()
	c.Assert(err, jc.ErrorIsNil)
	c.Assert(addr, gc.Equals, "10.0.3.1")
	c.Assert(s.commands, gc.DeepEquals, [][]string{
		{"unit-get", "public-address"},
	})
}

func (s *hookenvSuite) TestOpenPort(c *gc.C) {
	err := hookenv.OpenPort(8080)
	c.Assert(err, jc.ErrorIsNil)
	err = hookenv.OpenPort(443)
	c.Assert(err, jc.ErrorIsNil)
	c.Assert(s.commands, gc.DeepEquals, [][]string{
		{"open-port", "8080/tcp"},
		{"open-port", "443/tcp"},
	})
}
