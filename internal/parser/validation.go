package parser

import (
	"slices"

	"github.com/Borislavv/go-ash-cachespec/model"
)

var (
	soapTypes = []model.ComponentType{
		model.TypeSOAPAction,
		model.TypeServiceOperation,
		model.TypeServiceOperationParameter,
		model.TypeSOAPEnvelope,
		model.TypeOperation,
		model.TypePart,
		model.TypeWSDLServiceName,
		model.TypeWSDLPortName,
		model.TypeSOAPHeaderEntry,
	}
	portletTypes = []model.ComponentType{
		model.TypePortletSession,
		model.TypePortletWindowID,
		model.TypePortletMode,
		model.TypePortletWindowState,
	}
	requestTypes = []model.ComponentType{
		model.TypeSession,
		model.TypeParameter,
		model.TypeCookie,
		model.TypeHeader,
		model.TypeLocale,
		model.TypeAttribute,
		model.TypePathInfo,
		model.TypeServletPath,
		model.TypeParameterList,
		model.TypeRequestType,
		model.TypeTilesAttribute,
		model.TypeSessionID,
	}
	webOnlyProperties = []string{
		model.PropertyConsumeSubfragments,
		model.PropertyDoNotConsume,
		model.PropertyIgnoreGetPost,
		model.PropertyStoreCookies,
		model.PropertySaveAttributes,
		model.PropertyEdgeable,
		model.PropertyAlternateURL,
		model.PropertyExternalCache,
	}
)

// DisallowedComponentTypes lists, per entry class, the component types that make no sense
// for that class. A match is reported as a warning; the entry is still loaded.
var DisallowedComponentTypes = map[string][]model.ComponentType{
	model.ClassCommand:    slices.Concat(requestTypes, soapTypes, portletTypes),
	model.ClassServlet:    slices.Concat(soapTypes, portletTypes),
	model.ClassStatic:     slices.Concat([]model.ComponentType{model.TypeMethod, model.TypeField}, soapTypes, portletTypes),
	model.ClassWebService: portletTypes,
	model.ClassPortlet:    soapTypes,
}

// DisallowedProperties lists, per entry class, the properties that have no effect for it.
var DisallowedProperties = map[string][]string{
	model.ClassCommand:    webOnlyProperties,
	model.ClassServlet:    {model.PropertyDelayInvalidations},
	model.ClassStatic:     {model.PropertyDelayInvalidations, model.PropertyConsumeSubfragments, model.PropertyDoNotConsume},
	model.ClassWebService: {model.PropertyDelayInvalidations},
	model.ClassPortlet:    {model.PropertyDelayInvalidations, model.PropertyEdgeable, model.PropertyExternalCache},
}

// validateEntry reports advisory class/type and class/property misuse.
func (p *parser) validateEntry(entry *model.ConfigEntry) {
	types := DisallowedComponentTypes[entry.ClassName]
	props := DisallowedProperties[entry.ClassName]

	checkComponents := func(where string, comps []*model.Component) {
		for _, c := range comps {
			if slices.Contains(types, c.IType) {
				p.warnf("component type is not valid for entry class", "entry", entry.Name, "class", entry.ClassName, "type", c.Type, "in", where)
			}
		}
	}
	checkProperties := func(where string, properties map[string]*model.Property) {
		for name := range properties {
			if slices.Contains(props, name) {
				p.warnf("property is not valid for entry class", "entry", entry.Name, "class", entry.ClassName, "property", name, "in", where)
			}
		}
	}

	checkProperties("cache-entry", entry.Properties)
	for _, cid := range entry.CacheIDs {
		checkComponents("cache-id", cid.Components)
		checkProperties("cache-id", cid.Properties)
	}
	for _, dep := range entry.DependencyIDs {
		checkComponents("dependency-id", dep.Components)
	}
	for _, inv := range entry.Invalidations {
		checkComponents("invalidation", inv.Components)
	}
}
