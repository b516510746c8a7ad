package supervisor

import "sync"

// MaxLogLines is the scrollback capacity of a process's log buffer.
// Appending past capacity evicts the single oldest line.
const MaxLogLines = 1000

// LogBuffer is a thread-safe bounded FIFO of timestamped log lines.
//
// It is a ring over a fixed-size slice so that eviction of the oldest line
// is O(1) rather than a remove-at-front on a growing slice. The buffer has
// its own lock: stream pumps append under it without serializing unrelated
// projects' log writes behind the registry lock.
type LogBuffer struct {
	mu    sync.Mutex
	lines []string
	head  int // index of the oldest line
	count int
}

// NewLogBuffer creates a log buffer with the default MaxLogLines capacity.
func NewLogBuffer() *LogBuffer {
	return NewLogBufferSize(MaxLogLines)
}

// NewLogBufferSize creates a log buffer holding at most capacity lines.
// A capacity below 1 is treated as 1.
func NewLogBufferSize(capacity int) *LogBuffer {
	if capacity < 1 {
		capacity = 1
	}
	return &LogBuffer{
		lines: make([]string, capacity),
	}
}

// Append adds a line, evicting the oldest line if the buffer is full.
func (b *LogBuffer) Append(line string) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.count == len(b.lines) {
		b.lines[b.head] = line
		b.head = (b.head + 1) % len(b.lines)
		return
	}

	b.lines[(b.head+b.count)%len(b.lines)] = line
	b.count++
}

// Snapshot returns a copy of the buffered lines in insertion order, oldest
// first. The copy is never the live backing store, so callers cannot
// observe a torn write.
func (b *LogBuffer) Snapshot() []string {
	b.mu.Lock()
	defer b.mu.Unlock()

	out := make([]string, b.count)
	for i := 0; i < b.count; i++ {
		out[i] = b.lines[(b.head+i)%len(b.lines)]
	}
	return out
}

// Len returns the number of lines currently stored.
func (b *LogBuffer) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.count
}

// Clear discards all stored lines. The backing memory is retained.
func (b *LogBuffer) Clear() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.head = 0
	b.count = 0
}
