package parser

import (
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/Borislavv/go-ash-cachespec/model"
)

var (
	// ErrUnknownElement is returned for a child tag the enclosing element does not allow.
	ErrUnknownElement = errors.New("cachespec: unknown element")
	// ErrMalformed is returned when the document is not well-formed markup.
	ErrMalformed = errors.New("cachespec: malformed document")
	// ErrNoRoot is returned when the document has no <cache> root element.
	ErrNoRoot = errors.New("cachespec: missing <cache> root element")
)

const rootElement = "cache"

// Options carries the application context a document is loaded for.
type Options struct {
	// AppName is copied into every entry.
	AppName string
	// Prefix returns the URI prefix qualifying the names of an entry class, see config.Engine.Prefix.
	// A nil Prefix leaves names unqualified.
	Prefix func(className string) (string, bool)
	Logger *slog.Logger
}

// Document is the result of parsing one cachespec document.
type Document struct {
	DisplayName        string
	Description        string
	SkipCacheAttribute string
	Groups             []string
	// Entries lists every entry, global and instance-scoped, in document order.
	Entries   []*model.ConfigEntry
	Instances []*model.CacheInstance
}

// rule handles one child element; the enclosing production supplies the closure
// so that the set of legal children is local to it.
type rule func(start xml.StartElement) error

type ruleSet map[string]rule

type parser struct {
	dec    *xml.Decoder
	opts   Options
	logger *slog.Logger
}

// Parse reads a cachespec document. Structural problems (malformed markup, unknown
// elements) abort the load; bad values are logged and defaulted.
func Parse(r io.Reader, opts Options) (*Document, error) {
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	p := &parser{dec: xml.NewDecoder(r), opts: opts, logger: logger}

	for {
		tok, err := p.dec.Token()
		if errors.Is(err, io.EOF) {
			return nil, ErrNoRoot
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrMalformed, err)
		}
		start, ok := tok.(xml.StartElement)
		if !ok {
			continue
		}
		if start.Name.Local != rootElement {
			return nil, fmt.Errorf("%w: <%s> at document root", ErrUnknownElement, start.Name.Local)
		}
		doc, err := p.cache(start)
		if err != nil {
			return nil, err
		}
		p.finished(doc)
		return doc, nil
	}
}

// element consumes everything up to the end of start, dispatching child elements
// through rules, and returns the accumulated character data.
func (p *parser) element(start xml.StartElement, rules ruleSet) (string, error) {
	var text strings.Builder
	for {
		tok, err := p.dec.Token()
		if err != nil {
			if errors.Is(err, io.EOF) {
				err = io.ErrUnexpectedEOF
			}
			return "", fmt.Errorf("%w: %w", ErrMalformed, err)
		}
		switch t := tok.(type) {
		case xml.StartElement:
			handle, ok := rules[t.Name.Local]
			if !ok {
				line, _ := p.dec.InputPos()
				return "", fmt.Errorf("%w: <%s> inside <%s> at line %d", ErrUnknownElement, t.Name.Local, start.Name.Local, line)
			}
			if err = handle(t); err != nil {
				return "", err
			}
		case xml.CharData:
			text.Write(t)
		case xml.EndElement:
			return strings.TrimSpace(text.String()), nil
		}
	}
}

// text reads a leaf element.
func (p *parser) text(start xml.StartElement) (string, error) {
	return p.element(start, nil)
}

func (p *parser) errorf(msg string, args ...any) {
	line, _ := p.dec.InputPos()
	p.logger.Error(msg, append(args, "line", line)...)
}

func (p *parser) warnf(msg string, args ...any) {
	line, _ := p.dec.InputPos()
	p.logger.Warn(msg, append(args, "line", line)...)
}

func attr(start xml.StartElement, name string) (string, bool) {
	for _, a := range start.Attr {
		if a.Name.Local == name {
			return strings.TrimSpace(a.Value), true
		}
	}
	return "", false
}

// finished applies document-level defaults once every entry has been read.
func (p *parser) finished(doc *Document) {
	for _, entry := range doc.Entries {
		entry.AppName = p.opts.AppName
		if doc.SkipCacheAttribute != "" && entry.InstanceName == "" && entry.SkipCacheAttribute == "" {
			entry.SkipCacheAttribute = doc.SkipCacheAttribute
		}
	}
}
