package mem

import (
	"context"
	"sync"

	"bsid.es/despertador"
)

// CommandRecorder keeps every emitted command in memory.
type CommandRecorder struct {
	mu   sync.Mutex
	cmds []despertador.Command
}

var _ despertador.CommandSink = (*CommandRecorder)(nil)

func (r *CommandRecorder) Emit(ctx context.Context, cmds ...despertador.Command) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.cmds = append(r.cmds, cmds...)
}

// Commands returns the commands recorded so far.
func (r *CommandRecorder) Commands() []despertador.Command {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]despertador.Command(nil), r.cmds...)
}

// Reset forgets the recorded commands.
func (r *CommandRecorder) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.cmds = nil
}
