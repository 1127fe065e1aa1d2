package types

import (
	"sync"

	"github.com/netrixframework/qengine/log"
)

// Service is a component that runs in the background until stopped
type Service interface {
	Name() string
	Start() error
	Running() bool
	Stop() error
	// QuitCh is closed once the service stops
	QuitCh() <-chan struct{}
}

// BaseService keeps the running state of a Service. Embed it and call
// StartRunning and StopRunning from Start and Stop.
type BaseService struct {
	name    string
	running bool
	lock    *sync.Mutex
	once    *sync.Once
	quit    chan struct{}
	Logger  *log.Logger
}

// NewBaseService creates the state of the service name. Its logger carries
// the service name.
func NewBaseService(name string, parentLogger *log.Logger) *BaseService {
	return &BaseService{
		name:   name,
		lock:   new(sync.Mutex),
		once:   new(sync.Once),
		quit:   make(chan struct{}),
		Logger: parentLogger.With(log.LogParams{"service": name}),
	}
}

// StartRunning marks the service as running
func (b *BaseService) StartRunning() {
	b.lock.Lock()
	defer b.lock.Unlock()
	b.running = true
	b.Logger.Debug("Service running")
}

// StopRunning marks the service as stopped and closes the quit channel the
// first time it is called
func (b *BaseService) StopRunning() {
	b.lock.Lock()
	defer b.lock.Unlock()
	b.running = false
	b.once.Do(func() {
		close(b.quit)
	})
	b.Logger.Debug("Service stopped")
}

func (b *BaseService) Name() string {
	return b.name
}

func (b *BaseService) Running() bool {
	b.lock.Lock()
	defer b.lock.Unlock()
	return b.running
}

func (b *BaseService) QuitCh() <-chan struct{} {
	return b.quit
}
