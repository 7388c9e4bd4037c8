package eventloop

import (
	"container/heap"
	"sync"
	"time"
)

const idlePollTimeout = time.Second

type fdKind struct {
	fd   int
	kind ioKind
}

type ioReg struct {
	id        CallbackID
	cb        func()
	cancelled bool
}

type deferred struct {
	id        CallbackID
	cb        func()
	cancelled bool
}

// pollBackend is the shared engine behind both Backend implementations:
// a timer heap, a FIFO defer queue, and fd readiness via an ioPoller.
// The primary and accelerated backends differ only in which ioPoller
// they plug in and what Name reports.
type pollBackend struct {
	name   string
	poller ioPoller

	mu         sync.Mutex
	seq        uint64
	timers     timerHeap
	timerByID  map[CallbackID]*timer
	deferQueue []*deferred
	deferByID  map[CallbackID]*deferred
	ioRegs     map[fdKind]*ioReg
	idToFdKind map[CallbackID]fdKind
	stopped    bool
	stopCh     chan struct{}
}

func newPollBackend(name string, poller ioPoller) *pollBackend {
	return &pollBackend{
		name:       name,
		poller:     poller,
		timerByID:  make(map[CallbackID]*timer),
		deferByID:  make(map[CallbackID]*deferred),
		ioRegs:     make(map[fdKind]*ioReg),
		idToFdKind: make(map[CallbackID]fdKind),
		stopCh:     make(chan struct{}),
	}
}

// NewPrimaryBackend returns the portable, dependency-free Backend
// implementation: a timer heap, a FIFO defer queue, and select(2)-based
// fd readiness on Linux (timers and defers only on other platforms).
func NewPrimaryBackend() Backend {
	return newPollBackend("primary", newIOPoller())
}

func (b *pollBackend) Name() string { return b.name }

func (b *pollBackend) Delay(d time.Duration, cb func()) CallbackID {
	return b.schedule(d, 0, cb)
}

func (b *pollBackend) Repeat(d time.Duration, cb func()) CallbackID {
	return b.schedule(d, d, cb)
}

func (b *pollBackend) schedule(delay, interval time.Duration, cb func()) CallbackID {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.seq++
	t := &timer{
		id:       nextID(),
		deadline: time.Now().Add(delay),
		interval: interval,
		cb:       cb,
		seq:      b.seq,
	}
	heap.Push(&b.timers, t)
	b.timerByID[t.id] = t
	b.poller.wake()
	return t.id
}

func (b *pollBackend) Defer(cb func()) CallbackID {
	b.mu.Lock()
	defer b.mu.Unlock()

	d := &deferred{id: nextID(), cb: cb}
	b.deferQueue = append(b.deferQueue, d)
	b.deferByID[d.id] = d
	b.poller.wake()
	return d.id
}

func (b *pollBackend) Cancel(id CallbackID) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if key, ok := b.idToFdKind[id]; ok {
		if reg, ok := b.ioRegs[key]; ok {
			reg.cancelled = true
			delete(b.ioRegs, key)
		}
		delete(b.idToFdKind, id)
		b.poller.remove(key.fd, key.kind)
		return
	}

	if t, ok := b.timerByID[id]; ok {
		if t.index >= 0 {
			heap.Remove(&b.timers, t.index)
		}
		delete(b.timerByID, id)
		return
	}

	if d, ok := b.deferByID[id]; ok {
		d.cancelled = true
		delete(b.deferByID, id)
	}
}

func (b *pollBackend) OnReadable(fd int, cb func()) (CallbackID, error) {
	return b.registerIO(fd, ioReadable, cb)
}

func (b *pollBackend) OnWritable(fd int, cb func()) (CallbackID, error) {
	return b.registerIO(fd, ioWritable, cb)
}

func (b *pollBackend) registerIO(fd int, kind ioKind, cb func()) (CallbackID, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if err := b.poller.add(fd, kind); err != nil {
		return 0, err
	}

	id := nextID()
	key := fdKind{fd: fd, kind: kind}
	b.ioRegs[key] = &ioReg{id: id, cb: cb}
	b.idToFdKind[id] = key
	b.poller.wake()
	return id, nil
}

// Run dispatches deferred callbacks, then due timers, then polls IO
// readiness, repeating until Stop is called.
func (b *pollBackend) Run() {
	for {
		select {
		case <-b.stopCh:
			return
		default:
		}

		b.runDeferred()
		b.runDueTimers()

		timeout := b.nextTimeout()
		events, err := b.poller.poll(timeout)
		if err != nil {
			continue
		}

		b.mu.Lock()
		var ready []*ioReg
		for _, ev := range events {
			if reg, ok := b.ioRegs[fdKind{fd: ev.fd, kind: ev.kind}]; ok && !reg.cancelled {
				ready = append(ready, reg)
			}
		}
		b.mu.Unlock()

		for _, reg := range ready {
			reg.cb()
		}
	}
}

func (b *pollBackend) runDeferred() {
	b.mu.Lock()
	pending := b.deferQueue
	b.deferQueue = nil
	b.mu.Unlock()

	for _, d := range pending {
		b.mu.Lock()
		cancelled := d.cancelled
		delete(b.deferByID, d.id)
		b.mu.Unlock()
		if !cancelled {
			d.cb()
		}
	}
}

func (b *pollBackend) runDueTimers() {
	now := time.Now()
	for {
		b.mu.Lock()
		if len(b.timers) == 0 || b.timers[0].deadline.After(now) {
			b.mu.Unlock()
			return
		}
		t := heap.Pop(&b.timers).(*timer)
		delete(b.timerByID, t.id)
		b.mu.Unlock()

		t.cb()

		if t.interval > 0 {
			b.mu.Lock()
			t.deadline = time.Now().Add(t.interval)
			heap.Push(&b.timers, t)
			b.timerByID[t.id] = t
			b.mu.Unlock()
		}
	}
}

func (b *pollBackend) nextTimeout() time.Duration {
	b.mu.Lock()
	defer b.mu.Unlock()

	if len(b.timers) == 0 {
		return idlePollTimeout
	}
	d := time.Until(b.timers[0].deadline)
	if d < 0 {
		return 0
	}
	if d > idlePollTimeout {
		return idlePollTimeout
	}
	return d
}

func (b *pollBackend) Stop() {
	b.mu.Lock()
	if b.stopped {
		b.mu.Unlock()
		return
	}
	b.stopped = true
	close(b.stopCh)
	b.mu.Unlock()
	b.poller.wake()
	b.poller.close()
}
