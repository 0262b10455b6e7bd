package main

import (
	"os"
	"os/exec"

	"github.com/google/shlex"
	"github.com/pkg/errors"
)

// splitCmd splits a command line the same way a shell would, falling
// back to defaultCmd when s is empty.
func splitCmd(s, defaultCmd string) ([]string, error) {
	if s == "" {
		s = defaultCmd
	}
	parts, err := shlex.Split(s)
	if err != nil {
		return nil, errors.Wrapf(err, "shlex.Split %q", s)
	}
	return parts, nil
}

// runCmd runs parts[0] with parts[1:] as arguments, extended with
// extraArgs, inheriting the current process's stdout/stderr.
func runCmd(parts []string, extraArgs ...string) error {
	if len(parts) == 0 {
		return errors.New("cmd/automatalab: empty command line")
	}
	args := append(append([]string(nil), parts[1:]...), extraArgs...)
	c := exec.Command(parts[0], args...)
	c.Env = os.Environ()
	c.Stdout = os.Stdout
	c.Stderr = os.Stderr
	return errors.Wrapf(c.Run(), "running %v", parts[0])
}
