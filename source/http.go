package source

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/Borislavv/go-ash-cachespec/model"
)

// Session is the server side session visible to session and sessionId components.
type Session interface {
	ID() string
	Get(name string) (any, bool)
}

// MapSession is a Session over a plain map.
type MapSession struct {
	SessionID string
	Values    map[string]any
}

func (s *MapSession) ID() string { return s.SessionID }

func (s *MapSession) Get(name string) (any, bool) {
	v, ok := s.Values[name]
	return v, ok
}

type sessionKey struct{}
type attributesKey struct{}

// WithSession attaches s to ctx for NewHTTP.
func WithSession(ctx context.Context, s Session) context.Context {
	return context.WithValue(ctx, sessionKey{}, s)
}

// WithAttributes attaches request attributes to ctx for NewHTTP.
func WithAttributes(ctx context.Context, attrs map[string]any) context.Context {
	return context.WithValue(ctx, attributesKey{}, attrs)
}

// HTTP serves servlet components from an incoming request.
type HTTP struct {
	req        *http.Request
	session    Session
	attributes map[string]any
	// servletPath is the part of the URL path that selected the handler; the rest is path info.
	servletPath string
}

// NewHTTP parses the request form and picks up the session and attributes carried by its context.
func NewHTTP(r *http.Request, servletPath string) (*HTTP, error) {
	if err := r.ParseForm(); err != nil {
		return nil, fmt.Errorf("parse request form: %w", err)
	}
	h := &HTTP{req: r, servletPath: servletPath}
	h.session, _ = r.Context().Value(sessionKey{}).(Session)
	h.attributes, _ = r.Context().Value(attributesKey{}).(map[string]any)
	return h, nil
}

func (h *HTTP) ComponentValue(c *model.Component) (any, error) {
	switch c.IType {
	case model.TypeParameter:
		if v := h.req.Form[c.ID]; len(v) > 0 {
			return v[0], nil
		}
	case model.TypeParameterList:
		if v := h.req.Form[c.ID]; len(v) > 0 {
			return v, nil
		}
	case model.TypeHeader:
		return nonEmpty(h.req.Header.Get(c.ID)), nil
	case model.TypeSOAPAction:
		return nonEmpty(strings.Trim(h.req.Header.Get("SOAPAction"), `"`)), nil
	case model.TypeCookie:
		if ck, err := h.req.Cookie(c.ID); err == nil {
			return ck.Value, nil
		}
	case model.TypeLocale:
		return nonEmpty(primaryLocale(h.req.Header.Get("Accept-Language"))), nil
	case model.TypeRequestType:
		return h.req.Method, nil
	case model.TypeServletPath:
		if h.servletPath != "" {
			return h.servletPath, nil
		}
		return nonEmpty(h.req.URL.Path), nil
	case model.TypePathInfo:
		if h.servletPath == "" {
			return nil, nil
		}
		return nonEmpty(strings.TrimPrefix(h.req.URL.Path, h.servletPath)), nil
	case model.TypeAttribute:
		if v, ok := h.attributes[c.ID]; ok {
			return v, nil
		}
	case model.TypeSession:
		if h.session != nil {
			if v, ok := h.session.Get(c.ID); ok {
				return v, nil
			}
		}
	case model.TypeSessionID:
		if h.session != nil {
			return nonEmpty(h.session.ID()), nil
		}
	}
	return nil, nil
}

// nonEmpty maps "" to an absent value.
func nonEmpty(s string) any {
	if s == "" {
		return nil
	}
	return s
}

// primaryLocale returns the first language tag of an Accept-Language header, e.g. "en-US" as "en_US".
func primaryLocale(header string) string {
	tag, _, _ := strings.Cut(header, ",")
	tag, _, _ = strings.Cut(tag, ";")
	return strings.ReplaceAll(strings.TrimSpace(tag), "-", "_")
}
