//go:build linux

package eventloop

import (
	"sync"
	"time"

	"golang.org/x/sys/unix"
)

// NewAcceleratedBackend returns the epoll-backed Backend implementation.
// It scales to far more descriptors than the primary backend's select(2)
// poller, at the cost of being Linux-only.
func NewAcceleratedBackend() (Backend, error) {
	p, err := newEpollPoller()
	if err != nil {
		return nil, err
	}
	return newPollBackend("accelerated", p), nil
}

// epollPoller implements ioPoller on top of Linux epoll.
type epollPoller struct {
	epfd int

	mu      sync.Mutex
	regs    map[int]uint32 // fd -> current epoll event mask
	wakeR   int
	wakeW   int
}

func newEpollPoller() (*epollPoller, error) {
	epfd, err := unix.EpollCreate1(unix.EPOLL_CLOEXEC)
	if err != nil {
		return nil, ErrBackendUnavailable
	}

	fds := make([]int, 2)
	if err := unix.Pipe2(fds, unix.O_CLOEXEC|unix.O_NONBLOCK); err != nil {
		_ = unix.Close(epfd)
		return nil, ErrBackendUnavailable
	}

	p := &epollPoller{
		epfd:  epfd,
		regs:  make(map[int]uint32),
		wakeR: fds[0],
		wakeW: fds[1],
	}

	if err := unix.EpollCtl(epfd, unix.EPOLL_CTL_ADD, p.wakeR, &unix.EpollEvent{
		Events: unix.EPOLLIN,
		Fd:     int32(p.wakeR),
	}); err != nil {
		p.close()
		return nil, ErrBackendUnavailable
	}

	return p, nil
}

func epollMask(kind ioKind) uint32 {
	if kind == ioWritable {
		return unix.EPOLLOUT
	}
	return unix.EPOLLIN
}

func (p *epollPoller) add(fd int, kind ioKind) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	existing, had := p.regs[fd]
	mask := existing | epollMask(kind)

	op := unix.EPOLL_CTL_MOD
	if !had {
		op = unix.EPOLL_CTL_ADD
	}

	err := unix.EpollCtl(p.epfd, op, fd, &unix.EpollEvent{Events: mask, Fd: int32(fd)})
	if err != nil {
		return err
	}
	p.regs[fd] = mask
	return nil
}

func (p *epollPoller) remove(fd int, kind ioKind) {
	p.mu.Lock()
	defer p.mu.Unlock()

	mask, ok := p.regs[fd]
	if !ok {
		return
	}
	mask &^= epollMask(kind)

	if mask == 0 {
		_ = unix.EpollCtl(p.epfd, unix.EPOLL_CTL_DEL, fd, nil)
		delete(p.regs, fd)
		return
	}
	_ = unix.EpollCtl(p.epfd, unix.EPOLL_CTL_MOD, fd, &unix.EpollEvent{Events: mask, Fd: int32(fd)})
	p.regs[fd] = mask
}

func (p *epollPoller) poll(timeout time.Duration) ([]readyEvent, error) {
	ms := -1
	if timeout >= 0 {
		ms = int(timeout.Milliseconds())
	}

	events := make([]unix.EpollEvent, 64)
	n, err := unix.EpollWait(p.epfd, events, ms)
	if err != nil {
		if err == unix.EINTR {
			return nil, nil
		}
		return nil, err
	}

	var ready []readyEvent
	for i := 0; i < n; i++ {
		ev := events[i]
		fd := int(ev.Fd)
		if fd == p.wakeR {
			var buf [64]byte
			for {
				if _, err := unix.Read(p.wakeR, buf[:]); err != nil {
					break
				}
			}
			continue
		}
		if ev.Events&unix.EPOLLIN != 0 {
			ready = append(ready, readyEvent{fd: fd, kind: ioReadable})
		}
		if ev.Events&unix.EPOLLOUT != 0 {
			ready = append(ready, readyEvent{fd: fd, kind: ioWritable})
		}
	}
	return ready, nil
}

func (p *epollPoller) wake() {
	_, _ = unix.Write(p.wakeW, []byte{0})
}

func (p *epollPoller) close() {
	_ = unix.Close(p.wakeR)
	_ = unix.Close(p.wakeW)
	_ = unix.Close(p.epfd)
}
