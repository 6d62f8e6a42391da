package model

import (
	"slices"
	"strings"
)

// Well-known property names.
const (
	PropertyPersistToDisk       = "persist-to-disk"
	PropertyDoNotCache          = "do-not-cache"
	PropertyDelayInvalidations  = "delay-invalidations"
	PropertyPrimaryStorage      = "primary-storage"
	PropertyEdgeable            = "edgeable"
	PropertyConsumeSubfragments = "consume-subfragments"
	PropertyDoNotConsume        = "do-not-consume"
	PropertyIgnoreGetPost       = "ignore-get-post"
	PropertyStoreCookies        = "store-cookies"
	PropertySaveAttributes      = "save-attributes"
	PropertyAlternateURL        = "alternate_url"
	PropertyExternalCache       = "externalcache"

	propertyEdgeCacheable = "edgecacheable"
)

// Values accepted by the primary-storage property.
const (
	PrimaryStorageMemory = "memory"
	PrimaryStorageDisk   = "disk"
)

type Property struct {
	Name        string
	Value       string
	ExcludeList []string
}

// NormalizePropertyName lower-cases name and folds known aliases.
func NormalizePropertyName(name string) string {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == propertyEdgeCacheable {
		return PropertyEdgeable
	}
	return name
}

// IsValidPrimaryStorage reports whether v is an accepted primary-storage value.
func IsValidPrimaryStorage(v string) bool {
	return v == PrimaryStorageMemory || v == PrimaryStorageDisk
}

func (p *Property) Clone() *Property {
	if p == nil {
		return nil
	}
	return &Property{
		Name:        p.Name,
		Value:       p.Value,
		ExcludeList: slices.Clone(p.ExcludeList),
	}
}

func cloneProperties(in map[string]*Property) map[string]*Property {
	if in == nil {
		return nil
	}
	out := make(map[string]*Property, len(in))
	for k, v := range in {
		out[k] = v.Clone()
	}
	return out
}
