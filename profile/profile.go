// Copyright 2015 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

// Package profile seeds shell profile files with environment variable
// exports so that interacting with the Kubernetes API from a login
// shell works out of the box.
package profile

import (
	"os"
	"strings"

	"github.com/juju/collections/set"
	"github.com/juju/errors"
	"github.com/juju/loggo"
	"github.com/juju/utils/v4"
)

var logger = loggo.GetLogger("kubernetes.profile")

// EnsureLines appends each of the given lines to the file at path
// unless an identical line is already present. Existing content and
// order are preserved; new lines go at the end, in the order given. A
// missing file is treated as empty and created on write. Running twice
// leaves the file byte-identical to running once.
func EnsureLines(path string, lines []string) error {
	existing, err := readLines(path)
	if err != nil {
		return errors.Trace(err)
	}
	present := set.NewStrings(existing...)
	updated := existing
	for _, line := range lines {
		if present.Contains(line) {
			continue
		}
		updated = append(updated, line)
		present.Add(line)
	}
	if len(updated) == len(existing) {
		logger.Debugf("%s already seeded", path)
		return nil
	}
	content := strings.Join(updated, "\n") + "\n"
	if err := utils.AtomicWriteFile(path, []byte(content), 0644); err != nil {
		return errors.Annotatef(err, "cannot write %s", path)
	}
	return nil
}

// EnsureLinesInAll seeds every file in paths with the same lines.
func EnsureLinesInAll(paths []string, lines []string) error {
	for _, path := range paths {
		if err := EnsureLines(path, lines); err != nil {
			return errors.Trace(err)
		}
	}
	return nil
}

func readLines(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, nil
	} else if err != nil {
		return nil, errors.Annotatef(err, "cannot read %s", path)
	}
	content := strings.TrimSuffix(string(data), "\n")
	if content == "" {
		return nil, nil
	}
	return strings.Split(content, "\n"), nil
}
