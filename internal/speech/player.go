package speech

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
)

// FilePlayer writes audio to Path and, when Command is set, plays it by running
// the command with Path appended, e.g. ["mpg123", "-q"]. Cancelling ctx kills
// the command.
type FilePlayer struct {
	Path    string
	Command []string
}

// Play implements Player.
func (p FilePlayer) Play(ctx context.Context, audio []byte) error {
	if p.Path == "" {
		return ErrUnavailable
	}
	if err := os.WriteFile(p.Path, audio, 0o600); err != nil {
		return fmt.Errorf("write audio: %w", err)
	}
	if len(p.Command) == 0 {
		return nil
	}

	args := append(append([]string{}, p.Command[1:]...), p.Path)
	cmd := exec.CommandContext(ctx, p.Command[0], args...)
	if err := cmd.Run(); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return fmt.Errorf("play audio: exit %d", exitErr.ExitCode())
		}
		return fmt.Errorf("play audio: %w", err)
	}
	return nil
}
