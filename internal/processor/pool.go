package processor

import (
	"log/slog"
	"sync"

	"github.com/Borislavv/go-ash-cachespec/config"
	"github.com/Borislavv/go-ash-cachespec/model"
)

// Pool recycles processors. Every Get returns a processor already Reset for the caller.
type Pool struct {
	pool sync.Pool
}

func NewPool(cfg *config.Engine, gens Generators, logger *slog.Logger) *Pool {
	return &Pool{pool: sync.Pool{New: func() any { return New(cfg, gens, logger) }}}
}

func (p *Pool) Get(entry *model.ConfigEntry, src ValueSource) *Processor {
	proc := p.pool.Get().(*Processor)
	proc.Reset(entry, src)
	return proc
}

func (p *Pool) Put(proc *Processor) {
	proc.entry = nil
	proc.src = nil
	proc.metaData = nil
	p.pool.Put(proc)
}
