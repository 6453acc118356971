package listener

import "time"

// retainedFrame is one frame paired with its arrival time.
type retainedFrame struct {
	at      time.Time
	samples []int16
}

// RetentionBuffer keeps the most recent audio inside a fixed time window so
// the moments before a wake word survive into the rendered clip. Frames
// older than the window are evicted from the front on every insert.
//
// Not safe for concurrent use; the listener owns it exclusively.
type RetentionBuffer struct {
	window time.Duration
	frames []retainedFrame
}

// NewRetentionBuffer creates a buffer covering the given window.
func NewRetentionBuffer(window time.Duration) *RetentionBuffer {
	return &RetentionBuffer{window: window}
}

// Insert appends a frame stamped with now and evicts expired frames.
// The frame is copied; the caller keeps ownership of its slice.
func (b *RetentionBuffer) Insert(now time.Time, frame []int16) {
	kept := make([]int16, len(frame))
	copy(kept, frame)
	b.frames = append(b.frames, retainedFrame{at: now, samples: kept})

	evict := 0
	for evict < len(b.frames) && now.Sub(b.frames[evict].at) > b.window {
		evict++
	}
	if evict > 0 {
		n := copy(b.frames, b.frames[evict:])
		for i := n; i < len(b.frames); i++ {
			b.frames[i] = retainedFrame{}
		}
		b.frames = b.frames[:n]
	}
}

// Render concatenates the retained audio oldest-first into a WAV file.
// Rendering does not consume the buffer.
func (b *RetentionBuffer) Render(sampleRate int) []byte {
	var total int
	for _, f := range b.frames {
		total += len(f.samples)
	}
	samples := make([]int16, 0, total)
	for _, f := range b.frames {
		samples = append(samples, f.samples...)
	}
	return EncodeWAV(samples, sampleRate)
}

// Len returns the number of retained frames.
func (b *RetentionBuffer) Len() int {
	return len(b.frames)
}

// Window returns the retention window.
func (b *RetentionBuffer) Window() time.Duration {
	return b.window
}
