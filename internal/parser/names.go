package parser

import (
	"strings"

	"github.com/Borislavv/go-ash-cachespec/model"
)

const classSuffix = ".class"

// TemplateName qualifies a raw <name> of an entry of the given class.
// Names already ending in a class file reference and names of non-command entries get the
// app prefix; command names get the class suffix and no prefix.
func TemplateName(raw, className, prefix string, hasPrefix bool) string {
	switch {
	case strings.Contains(raw, classSuffix):
	case strings.EqualFold(className, model.ClassCommand):
		return raw + classSuffix
	}
	if !hasPrefix {
		return raw
	}
	return withPrefix(prefix, raw)
}

func withPrefix(prefix, name string) string {
	prefix = strings.TrimLeft(prefix, "/")
	name = strings.TrimLeft(name, "/")
	if prefix == "" {
		return name
	}
	if !strings.HasSuffix(prefix, "/") {
		prefix += "/"
	}
	return prefix + name
}
