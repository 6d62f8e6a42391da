package model

import "strings"

// ComponentType is the closed set of component kinds a cachespec document may declare.
type ComponentType int

const (
	TypeUnknown ComponentType = iota
	TypeMethod
	TypeField
	TypeSession
	TypeParameter
	TypeCookie
	TypeHeader
	TypeLocale
	TypeSOAPAction
	TypeServiceOperation
	TypeServiceOperationParameter
	TypeSOAPEnvelope
	TypeAttribute
	TypePathInfo
	TypeServletPath
	TypeParameterList
	TypeOperation
	TypePart
	TypeWSDLServiceName
	TypeWSDLPortName
	TypeSOAPHeaderEntry
	TypeRequestType
	TypeTilesAttribute
	TypePortletSession
	TypePortletWindowID
	TypePortletMode
	TypePortletWindowState
	TypeSessionID
)

// componentTypeNames holds the spelling used in documents, indexed by ComponentType.
var componentTypeNames = [...]string{
	TypeUnknown:                   "",
	TypeMethod:                    "method",
	TypeField:                     "field",
	TypeSession:                   "session",
	TypeParameter:                 "parameter",
	TypeCookie:                    "cookie",
	TypeHeader:                    "header",
	TypeLocale:                    "locale",
	TypeSOAPAction:                "SOAPAction",
	TypeServiceOperation:          "serviceOperation",
	TypeServiceOperationParameter: "serviceOperationParameter",
	TypeSOAPEnvelope:              "SOAPEnvelope",
	TypeAttribute:                 "attribute",
	TypePathInfo:                  "pathInfo",
	TypeServletPath:               "servletpath",
	TypeParameterList:             "parameter-list",
	TypeOperation:                 "operation",
	TypePart:                      "part",
	TypeWSDLServiceName:           "WSDLServiceName",
	TypeWSDLPortName:              "WSDLPortName",
	TypeSOAPHeaderEntry:           "SOAPHeaderEntry",
	TypeRequestType:               "requestType",
	TypeTilesAttribute:            "tiles_attribute",
	TypePortletSession:            "portletSession",
	TypePortletWindowID:           "portletWindowId",
	TypePortletMode:               "portletMode",
	TypePortletWindowState:        "portletWindowState",
	TypeSessionID:                 "sessionId",
}

var componentTypes = func() map[string]ComponentType {
	m := make(map[string]ComponentType, len(componentTypeNames))
	for t, name := range componentTypeNames {
		if name != "" {
			m[strings.ToLower(name)] = ComponentType(t)
		}
	}
	return m
}()

// ParseComponentType resolves a document spelling (case-insensitive) to its ComponentType.
func ParseComponentType(s string) (ComponentType, bool) {
	t, ok := componentTypes[strings.ToLower(strings.TrimSpace(s))]
	return t, ok
}

// ComponentTypes returns every known type in declaration order.
func ComponentTypes() []ComponentType {
	out := make([]ComponentType, 0, len(componentTypeNames)-1)
	for t := TypeMethod; t <= TypeSessionID; t++ {
		out = append(out, t)
	}
	return out
}

func (t ComponentType) String() string {
	if t <= TypeUnknown || int(t) >= len(componentTypeNames) {
		return "unknown"
	}
	return componentTypeNames[t]
}

// IsMultiValued reports whether values of this type may be arrays that are joined
// (or fanned out with multipleIDs) during evaluation.
func (t ComponentType) IsMultiValued() bool {
	return t == TypeMethod || t == TypeField || t == TypeAttribute
}
