package port

import "context"

// Command describes one media transcoder invocation. Args exclude the binary
// name; Dir, when set, is the working directory for the process.
type Command struct {
	Args []string
	Dir  string
}

type CommandResult struct {
	ExitCode int
	Stderr   string
}

// Transcoder is the opaque codec/filter runtime (ffmpeg in production).
type Transcoder interface {
	// Available reports whether the transcoder binary was reachable at startup.
	Available() bool
	// Run executes a command description, honoring ctx cancellation/timeout.
	Run(ctx context.Context, cmd Command) (CommandResult, error)
	// ExtractAudio pulls a mono 16 kHz WAV track out of the source media,
	// cascading through extraction methods until one succeeds.
	ExtractAudio(ctx context.Context, inputPath, audioPath string) error
}
