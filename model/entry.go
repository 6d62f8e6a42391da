package model

import (
	"slices"
	"strings"
)

// Cacheable object classes.
const (
	ClassServlet    = "servlet"
	ClassCommand    = "command"
	ClassWebService = "webservice"
	ClassStatic     = "static"
	ClassPortlet    = "portlet"
)

// ConfigEntry is the per-cacheable-object configuration record.
type ConfigEntry struct {
	ClassName          string
	Name               string
	AllNames           []string
	InstanceName       string
	SkipCacheAttribute string
	SharingPolicy      SharingPolicy
	AppName            string
	Properties         map[string]*Property
	CacheIDs           []*CacheID
	DependencyIDs      []*DependencyID
	Invalidations      []*Invalidation

	// Resolved is filled once at load time, see processor.PreProcess.
	Resolved *EntryPolicy
}

func NewConfigEntry() *ConfigEntry {
	return &ConfigEntry{
		SharingPolicy: NotShared,
		Properties:    make(map[string]*Property),
	}
}

// IsCommand reports whether the entry caches command objects.
func (e *ConfigEntry) IsCommand() bool {
	return strings.EqualFold(e.ClassName, ClassCommand)
}

func (e *ConfigEntry) Clone() *ConfigEntry {
	if e == nil {
		return nil
	}
	out := *e
	out.AllNames = slices.Clone(e.AllNames)
	out.Properties = cloneProperties(e.Properties)
	if e.CacheIDs != nil {
		out.CacheIDs = make([]*CacheID, len(e.CacheIDs))
		for i, c := range e.CacheIDs {
			out.CacheIDs[i] = c.Clone()
		}
	}
	if e.DependencyIDs != nil {
		out.DependencyIDs = make([]*DependencyID, len(e.DependencyIDs))
		for i, d := range e.DependencyIDs {
			out.DependencyIDs[i] = d.Clone()
		}
	}
	if e.Invalidations != nil {
		out.Invalidations = make([]*Invalidation, len(e.Invalidations))
		for i, inv := range e.Invalidations {
			out.Invalidations[i] = inv.Clone()
		}
	}
	out.Resolved = e.Resolved.Clone()
	return &out
}
