package motion

// ring is a fixed-size sample history. Old samples fall off the back;
// nothing here allocates after construction.
type ring struct {
	buf  []Sample
	head int
	n    int
}

func newRing(size int) *ring {
	if size < 2 {
		size = 2
	}
	return &ring{buf: make([]Sample, size)}
}

func (r *ring) push(s Sample) {
	r.buf[r.head] = s
	r.head = (r.head + 1) % len(r.buf)
	if r.n < len(r.buf) {
		r.n++
	}
}

// newest returns the most recently pushed sample.
func (r *ring) newest() (Sample, bool) {
	if r.n == 0 {
		return Sample{}, false
	}
	return r.buf[(r.head+len(r.buf)-1)%len(r.buf)], true
}

// at returns the i-th stored sample, oldest first. i must be below
// len.
func (r *ring) at(i int) Sample {
	return r.buf[(r.head+len(r.buf)-r.n+i)%len(r.buf)]
}

func (r *ring) len() int {
	return r.n
}
