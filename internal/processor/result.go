package processor

import (
	"github.com/Borislavv/go-ash-cachespec/model"
)

// Result is the output record of one evaluation.
type Result struct {
	ID             string              `yaml:"id,omitempty"`
	Template       string              `yaml:"template"`
	Cacheable      bool                `yaml:"cacheable"`
	SharingPolicy  model.SharingPolicy `yaml:"sharing_policy"`
	PersistToDisk  bool                `yaml:"persist_to_disk"`
	PrimaryStorage string              `yaml:"primary_storage,omitempty"`
	DoNotCache     bool                `yaml:"do_not_cache"`
	Timeout        int                 `yaml:"timeout"`
	Inactivity     int                 `yaml:"inactivity"`
	Priority       int                 `yaml:"priority,omitempty"`
	// DependencyIDs are reported only for cacheable results: they group cached variants.
	// InvalidationIDs are reported regardless, an uncacheable request may still invalidate.
	DependencyIDs      []string `yaml:"dependency_ids,omitempty"`
	InvalidationIDs    []string `yaml:"invalidation_ids,omitempty"`
	DelayInvalidations bool     `yaml:"delay_invalidations,omitempty"`

	// Key is the hashed form of ID, nil when the entry is not cacheable.
	Key *model.Key `yaml:"-"`
}

func (r *Result) SetID(id string) {
	r.ID = id
	r.Key = model.NewKey(id)
}

func (r *Result) SetTemplate(template string)                 { r.Template = template }
func (r *Result) SetSharingPolicy(policy model.SharingPolicy) { r.SharingPolicy = policy }
func (r *Result) SetPersistToDisk(persist bool)               { r.PersistToDisk = persist }
func (r *Result) SetPrimaryStorage(storage string)            { r.PrimaryStorage = storage }
func (r *Result) SetDoNotCache(doNotCache bool)               { r.DoNotCache = doNotCache }
func (r *Result) SetTimeout(seconds int)                      { r.Timeout = seconds }
func (r *Result) SetInactivity(seconds int)                   { r.Inactivity = seconds }
func (r *Result) SetPriority(priority int)                    { r.Priority = priority }
func (r *Result) AddDependencyID(id string)                   { r.DependencyIDs = append(r.DependencyIDs, id) }

// Result snapshots the state left by Execute. The returned record does not share
// memory with the processor and stays valid after the next Reset.
func (p *Processor) Result() (*Result, error) {
	r := &Result{
		Template:           p.entry.Name,
		Cacheable:          p.cacheable,
		SharingPolicy:      p.sharing,
		DelayInvalidations: p.delayInvalidations,
		Timeout:            unset,
		Inactivity:         unset,
	}
	if len(p.invalidationIDs) > 0 {
		r.InvalidationIDs = append([]string(nil), p.invalidationIDs...)
	}
	if err := p.SetEntryInfo(r); err != nil {
		return nil, err
	}
	return r, nil
}
