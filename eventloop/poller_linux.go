//go:build linux

package eventloop

import (
	"os"
	"sync"
	"syscall"
	"time"
)

// selectPoller implements ioPoller on top of POSIX select(2). It is the
// readiness primitive for the primary backend: portable, dependency-free,
// but limited to FD_SETSIZE (1024) descriptors, which is exactly the
// connection-count threshold the Hybrid loop defaults to before
// switching to the epoll-backed accelerated backend.
type selectPoller struct {
	mu    sync.Mutex
	read  map[int]struct{}
	write map[int]struct{}

	wakeR *os.File
	wakeW *os.File
}

func newIOPoller() ioPoller {
	r, w, err := os.Pipe()
	if err != nil {
		// A self-pipe failure here means the process is almost out of
		// file descriptors; fall back to a poller with no wake support
		// rather than failing backend construction outright.
		return &selectPoller{read: map[int]struct{}{}, write: map[int]struct{}{}}
	}
	return &selectPoller{
		read:  map[int]struct{}{},
		write: map[int]struct{}{},
		wakeR: r,
		wakeW: w,
	}
}

func (p *selectPoller) add(fd int, kind ioKind) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	switch kind {
	case ioReadable:
		p.read[fd] = struct{}{}
	case ioWritable:
		p.write[fd] = struct{}{}
	}
	return nil
}

func (p *selectPoller) remove(fd int, kind ioKind) {
	p.mu.Lock()
	defer p.mu.Unlock()
	switch kind {
	case ioReadable:
		delete(p.read, fd)
	case ioWritable:
		delete(p.write, fd)
	}
}

func (p *selectPoller) poll(timeout time.Duration) ([]readyEvent, error) {
	p.mu.Lock()
	var rset, wset syscall.FdSet
	maxFd := 0

	wakeFd := -1
	if p.wakeR != nil {
		wakeFd = int(p.wakeR.Fd())
		fdSet(&rset, wakeFd)
		maxFd = wakeFd
	}
	for fd := range p.read {
		fdSet(&rset, fd)
		if fd > maxFd {
			maxFd = fd
		}
	}
	for fd := range p.write {
		fdSet(&wset, fd)
		if fd > maxFd {
			maxFd = fd
		}
	}
	p.mu.Unlock()

	var tv *syscall.Timeval
	if timeout >= 0 {
		t := syscall.NsecToTimeval(timeout.Nanoseconds())
		tv = &t
	}

	_, err := syscall.Select(maxFd+1, &rset, &wset, nil, tv)
	if err != nil {
		if err == syscall.EINTR {
			return nil, nil
		}
		return nil, err
	}

	var events []readyEvent
	p.mu.Lock()
	for fd := range p.read {
		if fdIsSet(&rset, fd) {
			events = append(events, readyEvent{fd: fd, kind: ioReadable})
		}
	}
	for fd := range p.write {
		if fdIsSet(&wset, fd) {
			events = append(events, readyEvent{fd: fd, kind: ioWritable})
		}
	}
	p.mu.Unlock()

	if wakeFd >= 0 && fdIsSet(&rset, wakeFd) {
		var buf [64]byte
		_, _ = p.wakeR.Read(buf[:])
	}

	return events, nil
}

func (p *selectPoller) wake() {
	if p.wakeW == nil {
		return
	}
	_, _ = p.wakeW.Write([]byte{0})
}

func (p *selectPoller) close() {
	if p.wakeR != nil {
		_ = p.wakeR.Close()
	}
	if p.wakeW != nil {
		_ = p.wakeW.Close()
	}
}

func fdSet(set *syscall.FdSet, fd int) {
	set.Bits[fd/64] |= 1 << (uint(fd) % 64)
}

func fdIsSet(set *syscall.FdSet, fd int) bool {
	return set.Bits[fd/64]&(1<<(uint(fd)%64)) != 0
}
