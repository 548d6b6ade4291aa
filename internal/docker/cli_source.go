package docker

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os/exec"

	"github.com/sirupsen/logrus"
)

// DefaultStatsArgs makes `docker stats` print one JSON object per line
var DefaultStatsArgs = []string{"stats", "--format", "{{json .}}"}

// CLISource spawns `docker stats` and reads its standard output
type CLISource struct {
	Bin  string
	Args []string
	log  logrus.FieldLogger
}

// NewCLISource runs bin with the default stats arguments
func NewCLISource(bin string, log logrus.FieldLogger) *CLISource {
	return &CLISource{
		Bin:  bin,
		Args: DefaultStatsArgs,
		log:  log,
	}
}

// Open starts the child process. It is killed when ctx ends or the
// reader is closed.
func (s *CLISource) Open(ctx context.Context) (io.ReadCloser, error) {
	ctx, cancel := context.WithCancel(ctx)

	cmd := exec.CommandContext(ctx, s.Bin, s.Args...)
	stderr := s.log.WithField("bin", s.Bin).WriterLevel(logrus.WarnLevel)
	cmd.Stderr = stderr

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		cancel()
		stderr.Close()
		return nil, fmt.Errorf("stdout pipe: %w", err)
	}

	if err := cmd.Start(); err != nil {
		cancel()
		stderr.Close()
		return nil, fmt.Errorf("failed to spawn %s: %w", s.Bin, err)
	}

	return &processReader{
		ReadCloser: stdout,
		cmd:        cmd,
		cancel:     cancel,
		stderr:     stderr,
	}, nil
}

type processReader struct {
	io.ReadCloser
	cmd    *exec.Cmd
	cancel context.CancelFunc
	stderr io.Closer
}

// Close kills the child if still running and reaps it
func (p *processReader) Close() error {
	p.cancel()
	err := p.cmd.Wait()
	p.stderr.Close()
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return nil
		}
		return err
	}
	return nil
}
