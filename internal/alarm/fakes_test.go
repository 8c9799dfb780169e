package alarm

import (
	"context"
	"sync"

	"alarmdemo/internal/notify"
)

// memFacility keeps requests in memory and fires them on demand.
type memFacility struct {
	mu       sync.Mutex
	pending  map[ID]Request
	receiver Receiver
	regErr   error
}

func newMemFacility(r Receiver) *memFacility {
	return &memFacility{pending: map[ID]Request{}, receiver: r}
}

func (m *memFacility) Register(_ context.Context, req Request) error {
	if m.regErr != nil {
		return m.regErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.pending[req.ID] = req
	return nil
}

func (m *memFacility) Withdraw(id ID) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.pending[id]
	delete(m.pending, id)
	return ok
}

func (m *memFacility) Pending(id ID) (Request, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	req, ok := m.pending[id]
	return req, ok
}

func (m *memFacility) Close() context.Context { return context.Background() }

// fire delivers the pending request with id, as the real facility would.
func (m *memFacility) fire(id ID) bool {
	m.mu.Lock()
	req, ok := m.pending[id]
	delete(m.pending, id)
	m.mu.Unlock()
	if ok && m.receiver != nil {
		m.receiver.Receive(context.Background(), req.Payload)
	}
	return ok
}

// memPresenter records visible notifications by id.
type memPresenter struct {
	mu       sync.Mutex
	visible  map[int]notify.Notification
	presents int
	err      error
}

func newMemPresenter() *memPresenter {
	return &memPresenter{visible: map[int]notify.Notification{}}
}

func (p *memPresenter) Present(id int, n notify.Notification) error {
	if p.err != nil {
		return p.err
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.visible[id] = n
	p.presents++
	return nil
}

func (p *memPresenter) ClearAll() error {
	if p.err != nil {
		return p.err
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.visible = map[int]notify.Notification{}
	return nil
}

func (p *memPresenter) IsSupported() bool { return true }

func (p *memPresenter) count() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.visible)
}

func (p *memPresenter) get(id int) (notify.Notification, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	n, ok := p.visible[id]
	return n, ok
}
