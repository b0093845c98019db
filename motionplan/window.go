package motionplan

// ResultWindow keeps the most recent step results up to a fixed capacity, oldest first.
type ResultWindow struct {
	buf   []StepResult
	start int
	total int
}

// NewResultWindow returns a window holding at most capacity results. A capacity below 1 is
// treated as 1.
func NewResultWindow(capacity int) *ResultWindow {
	if capacity < 1 {
		capacity = 1
	}
	return &ResultWindow{buf: make([]StepResult, 0, capacity)}
}

// Add records a result, dropping the oldest one when the window is full.
func (w *ResultWindow) Add(res StepResult) {
	w.total++
	if len(w.buf) < cap(w.buf) {
		w.buf = append(w.buf, res)
		return
	}
	w.buf[w.start] = res
	w.start = (w.start + 1) % len(w.buf)
}

// Results returns a copy of the retained results, oldest first.
func (w *ResultWindow) Results() []StepResult {
	out := make([]StepResult, 0, len(w.buf))
	out = append(out, w.buf[w.start:]...)
	return append(out, w.buf[:w.start]...)
}

// Len is the number of retained results.
func (w *ResultWindow) Len() int {
	return len(w.buf)
}

// Total is the number of results ever added.
func (w *ResultWindow) Total() int {
	return w.total
}
