package core

import "sync"

// TaskKind names the current phase of an install pipeline step.
type TaskKind string

const (
	TaskDownloading TaskKind = "downloading"
	TaskExtracting  TaskKind = "extracting"
	TaskInstalling  TaskKind = "installing"
	TaskDone        TaskKind = "done"
	TaskError       TaskKind = "error"
)

// InstallProgress is one progress event emitted while a plan executes.
type InstallProgress struct {
	Task          TaskKind
	CurrentName   string  // full name of the mod being processed
	TotalProgress float64 // completed bytes fraction across the plan, 0..1
	InstalledMods int
	TotalMods     int
	TotalBytes    int64 // current download size, 0 outside downloads
	Downloaded    int64
}

// ProgressBroadcaster fans install progress out to an optional listener.
// Publishing never blocks the install pipeline: events are dropped when
// no listener is attached or the listener falls behind.
type ProgressBroadcaster struct {
	mu sync.Mutex
	ch chan InstallProgress
}

// NewProgressBroadcaster creates an idle broadcaster with no listener.
func NewProgressBroadcaster() *ProgressBroadcaster {
	return &ProgressBroadcaster{}
}

// Subscribe attaches a listener and returns its event channel, replacing
// any previous listener.
func (b *ProgressBroadcaster) Subscribe() <-chan InstallProgress {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.ch = make(chan InstallProgress, 64)
	return b.ch
}

// Unsubscribe detaches the current listener and closes its channel.
func (b *ProgressBroadcaster) Unsubscribe() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.ch != nil {
		close(b.ch)
		b.ch = nil
	}
}

// Publish sends an event to the listener, dropping it when the channel is
// full or absent.
func (b *ProgressBroadcaster) Publish(p InstallProgress) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.ch == nil {
		return
	}
	select {
	case b.ch <- p:
	default:
	}
}
