package parser

import (
	"encoding/xml"
	"strconv"
	"strings"

	"github.com/Borislavv/go-ash-cachespec/model"
)

func (p *parser) cache(start xml.StartElement) (*Document, error) {
	doc := &Document{}
	_, err := p.element(start, ruleSet{
		"display-name": func(t xml.StartElement) (err error) {
			doc.DisplayName, err = p.text(t)
			return err
		},
		"description": func(t xml.StartElement) (err error) {
			doc.Description, err = p.text(t)
			return err
		},
		"skip-cache-attribute": func(t xml.StartElement) (err error) {
			doc.SkipCacheAttribute, err = p.text(t)
			return err
		},
		"group": func(t xml.StartElement) error {
			name, _ := attr(t, "name")
			text, err := p.text(t)
			if err != nil {
				return err
			}
			if name == "" {
				name = text
			}
			if name == "" {
				p.errorf("group is missing its name")
				return nil
			}
			doc.Groups = append(doc.Groups, name)
			return nil
		},
		"cache-entry": func(t xml.StartElement) error {
			entry, err := p.cacheEntry(t)
			if err != nil {
				return err
			}
			if entry != nil {
				doc.Entries = append(doc.Entries, entry)
			}
			return nil
		},
		"cache-instance": func(t xml.StartElement) error {
			inst, entries, err := p.cacheInstance(t)
			if err != nil {
				return err
			}
			if inst != nil {
				doc.Instances = append(doc.Instances, inst)
			}
			doc.Entries = append(doc.Entries, entries...)
			return nil
		},
	})
	if err != nil {
		return nil, err
	}
	return doc, nil
}

// cacheInstance returns the instance (nil when unnamed) and every entry declared in it.
func (p *parser) cacheInstance(start xml.StartElement) (*model.CacheInstance, []*model.ConfigEntry, error) {
	name, _ := attr(start, "name")
	inst := &model.CacheInstance{Name: name}
	_, err := p.element(start, ruleSet{
		"skip-cache-attribute": func(t xml.StartElement) (err error) {
			inst.SkipCacheAttribute, err = p.text(t)
			return err
		},
		"cache-entry": func(t xml.StartElement) error {
			entry, err := p.cacheEntry(t)
			if err != nil {
				return err
			}
			if entry != nil {
				inst.Entries = append(inst.Entries, entry)
			}
			return nil
		},
	})
	if err != nil {
		return nil, nil, err
	}

	for _, entry := range inst.Entries {
		entry.InstanceName = name
		if entry.SkipCacheAttribute == "" {
			entry.SkipCacheAttribute = inst.SkipCacheAttribute
		}
	}
	if name == "" {
		p.errorf("cache-instance is missing required attribute", "attribute", "name")
		return nil, inst.Entries, nil
	}
	return inst, inst.Entries, nil
}

func (p *parser) cacheEntry(start xml.StartElement) (*model.ConfigEntry, error) {
	entry := model.NewConfigEntry()
	var rawNames []string
	_, err := p.element(start, ruleSet{
		"class": func(t xml.StartElement) error {
			class, err := p.text(t)
			entry.ClassName = strings.ToLower(class)
			return err
		},
		"name": func(t xml.StartElement) error {
			name, err := p.text(t)
			if err != nil {
				return err
			}
			if name == "" {
				p.errorf("cache-entry has an empty name")
				return nil
			}
			rawNames = append(rawNames, name)
			return nil
		},
		"sharing-policy": func(t xml.StartElement) error {
			raw, err := p.text(t)
			if err != nil {
				return err
			}
			policy, ok := model.ParseSharingPolicy(raw)
			if !ok {
				p.errorf("invalid sharing-policy, using not-shared", "value", raw)
			}
			entry.SharingPolicy = policy
			return nil
		},
		"skip-cache-attribute": func(t xml.StartElement) (err error) {
			entry.SkipCacheAttribute, err = p.text(t)
			return err
		},
		"property": func(t xml.StartElement) error {
			prop, err := p.property(t)
			if err != nil {
				return err
			}
			if prop != nil {
				entry.Properties[prop.Name] = prop
			}
			return nil
		},
		"cache-id": func(t xml.StartElement) error {
			cid, err := p.cacheID(t)
			if err != nil {
				return err
			}
			entry.CacheIDs = append(entry.CacheIDs, cid)
			return nil
		},
		"dependency-id": func(t xml.StartElement) error {
			dep, err := p.dependencyID(t)
			if err != nil {
				return err
			}
			entry.DependencyIDs = append(entry.DependencyIDs, dep)
			return nil
		},
		"invalidation": func(t xml.StartElement) error {
			inv, err := p.invalidation(t)
			if err != nil {
				return err
			}
			entry.Invalidations = append(entry.Invalidations, inv)
			return nil
		},
	})
	if err != nil {
		return nil, err
	}

	if entry.ClassName == "" {
		p.errorf("cache-entry is missing required element", "element", "class")
	}
	if len(rawNames) == 0 {
		p.errorf("cache-entry is missing required element, entry skipped", "element", "name", "class", entry.ClassName)
		return nil, nil
	}

	var (
		prefix    string
		hasPrefix bool
	)
	if p.opts.Prefix != nil {
		prefix, hasPrefix = p.opts.Prefix(entry.ClassName)
	}
	for _, raw := range rawNames {
		entry.AllNames = append(entry.AllNames, TemplateName(raw, entry.ClassName, prefix, hasPrefix))
	}
	entry.Name = entry.AllNames[0]

	p.validateEntry(entry)
	return entry, nil
}

func (p *parser) property(start xml.StartElement) (*model.Property, error) {
	name, _ := attr(start, "name")
	prop := &model.Property{Name: model.NormalizePropertyName(name)}
	value, err := p.element(start, ruleSet{
		"exclude": func(t xml.StartElement) error {
			ex, err := p.text(t)
			if err != nil {
				return err
			}
			if ex != "" {
				prop.ExcludeList = append(prop.ExcludeList, ex)
			}
			return nil
		},
	})
	if err != nil {
		return nil, err
	}
	if prop.Name == "" {
		p.errorf("property is missing required attribute, property skipped", "attribute", "name")
		return nil, nil
	}

	prop.Value = value
	if prop.Name == model.PropertyPrimaryStorage {
		v := strings.ToLower(value)
		if !model.IsValidPrimaryStorage(v) {
			p.errorf("invalid primary-storage, using memory", "value", value)
			v = model.PrimaryStorageMemory
		}
		prop.Value = v
	}
	return prop, nil
}

func (p *parser) cacheID(start xml.StartElement) (*model.CacheID, error) {
	cid := model.NewCacheID()
	_, err := p.element(start, ruleSet{
		"display-name": func(t xml.StartElement) (err error) {
			cid.DisplayName, err = p.text(t)
			return err
		},
		"component": func(t xml.StartElement) error {
			comp, err := p.component(t)
			if err != nil || comp == nil {
				return err
			}
			if err = cid.AddComponent(comp); err != nil {
				p.errorf("component rejected, cache-id already has an idgenerator", "component", comp.Name(), "idgenerator", cid.IDGenerator)
			}
			return nil
		},
		"idgenerator": func(t xml.StartElement) error {
			name, err := p.text(t)
			if err != nil {
				return err
			}
			if err = cid.SetIDGenerator(name); err != nil {
				p.errorf("idgenerator rejected, cache-id already has components", "idgenerator", name)
			}
			return nil
		},
		"metadatagenerator": func(t xml.StartElement) (err error) {
			cid.MetaDataGenerator, err = p.text(t)
			return err
		},
		"timeout": func(t xml.StartElement) error {
			return p.intElement(t, &cid.Timeout, cid.Timeout)
		},
		"priority": func(t xml.StartElement) error {
			return p.intElement(t, &cid.Priority, cid.Priority)
		},
		"inactivity": func(t xml.StartElement) error {
			return p.intElement(t, &cid.Inactivity, model.Unset)
		},
		"property": func(t xml.StartElement) error {
			prop, err := p.property(t)
			if err != nil {
				return err
			}
			if prop != nil {
				cid.Properties[prop.Name] = prop
			}
			return nil
		},
	})
	if err != nil {
		return nil, err
	}
	return cid, nil
}

func (p *parser) dependencyID(start xml.StartElement) (*model.DependencyID, error) {
	dep := &model.DependencyID{}
	base, err := p.element(start, ruleSet{
		"component": func(t xml.StartElement) error {
			comp, err := p.component(t)
			if err != nil || comp == nil {
				return err
			}
			return dep.AddComponent(comp)
		},
	})
	if err != nil {
		return nil, err
	}
	dep.BaseName = base
	return dep, nil
}

func (p *parser) invalidation(start xml.StartElement) (*model.Invalidation, error) {
	inv := &model.Invalidation{}
	base, err := p.element(start, ruleSet{
		"component": func(t xml.StartElement) error {
			comp, err := p.component(t)
			if err != nil || comp == nil {
				return err
			}
			if err = inv.AddComponent(comp); err != nil {
				p.errorf("component rejected, invalidation already has an invalidationgenerator", "component", comp.Name(), "invalidationgenerator", inv.InvalidationGenerator)
			}
			return nil
		},
		"invalidationgenerator": func(t xml.StartElement) error {
			name, err := p.text(t)
			if err != nil {
				return err
			}
			if err = inv.SetInvalidationGenerator(name); err != nil {
				p.errorf("invalidationgenerator rejected, invalidation already has components", "invalidationgenerator", name)
			}
			return nil
		},
	})
	if err != nil {
		return nil, err
	}
	inv.BaseName = base
	return inv, nil
}

// component returns nil (after consuming the element) when the component is unusable:
// an unknown type or an invalid range drops the whole component.
func (p *parser) component(start xml.StartElement) (*model.Component, error) {
	rawType, _ := attr(start, "type")
	ctype, known := model.ParseComponentType(rawType)

	comp := model.NewComponent(ctype)
	comp.ID, _ = attr(start, "id")
	if v, ok := attr(start, "ignore-value"); ok {
		comp.IgnoreValue = strings.EqualFold(v, "true")
	}
	if v, ok := attr(start, "multipleIDs"); ok {
		comp.MultipleIDs = strings.EqualFold(v, "true")
	}

	valid := true
	_, err := p.element(start, ruleSet{
		"method": func(t xml.StartElement) error {
			m, err := p.method(t)
			if err != nil || m == nil {
				return err
			}
			if err = comp.SetMethod(m); err != nil {
				p.errorf("method rejected, component already has a method or field", "component", comp.Name(), "method", m.Name)
			}
			return nil
		},
		"field": func(t xml.StartElement) error {
			f, err := p.field(t)
			if err != nil || f == nil {
				return err
			}
			if err = comp.SetField(f); err != nil {
				p.errorf("field rejected, component already has a method or field", "component", comp.Name(), "field", f.Name)
			}
			return nil
		},
		"index": func(t xml.StartElement) error {
			return p.intElement(t, &comp.Index, comp.Index)
		},
		"required": func(t xml.StartElement) error {
			raw, err := p.text(t)
			if err != nil {
				return err
			}
			switch {
			case strings.EqualFold(raw, "true"):
				comp.Required = true
			case strings.EqualFold(raw, "false"):
				comp.Required = false
			default:
				p.errorf("invalid boolean for required, keeping previous value", "value", raw, "required", comp.Required)
			}
			return nil
		},
		"value": func(t xml.StartElement) error {
			literal, ranges, ok, err := p.value(t)
			if err != nil {
				return err
			}
			if !ok {
				valid = false
				return nil
			}
			if literal != "" {
				comp.AddValue(literal)
			}
			comp.ValueRanges = append(comp.ValueRanges, ranges...)
			return nil
		},
		"not-value": func(t xml.StartElement) error {
			literal, ranges, ok, err := p.value(t)
			if err != nil {
				return err
			}
			if !ok {
				valid = false
				return nil
			}
			if literal != "" {
				comp.AddNotValue(literal)
			}
			comp.NotValueRanges = append(comp.NotValueRanges, ranges...)
			return nil
		},
	})
	if err != nil {
		return nil, err
	}

	if !known {
		p.errorf("component has an unknown or missing type, component skipped", "type", rawType, "id", comp.ID)
		return nil, nil
	}
	if !valid {
		p.errorf("component has an invalid range, component skipped", "component", comp.Name())
		return nil, nil
	}
	return comp, nil
}

// value reads a <value> or <not-value>; ok is false when any range is invalid.
func (p *parser) value(start xml.StartElement) (literal string, ranges []model.Range, ok bool, err error) {
	ok = true
	literal, err = p.element(start, ruleSet{
		"range": func(t xml.StartElement) error {
			low, hasLow := attr(t, "low")
			high, hasHigh := attr(t, "high")
			if _, err := p.text(t); err != nil {
				return err
			}
			if !hasLow || !hasHigh {
				p.errorf("range is missing required attribute", "low", low, "high", high)
				ok = false
				return nil
			}
			lo, errLo := strconv.Atoi(low)
			hi, errHi := strconv.Atoi(high)
			if errLo != nil || errHi != nil || lo > hi {
				p.errorf("invalid range", "low", low, "high", high)
				ok = false
				return nil
			}
			ranges = append(ranges, model.Range{Low: lo, High: hi})
			return nil
		},
	})
	return literal, ranges, ok, err
}

func (p *parser) method(start xml.StartElement) (*model.Method, error) {
	m := model.NewMethod("")
	name, err := p.element(start, p.accessorRules(&m.Index, m.SetNext))
	if err != nil {
		return nil, err
	}
	if name == "" {
		p.errorf("method is missing its name, method skipped")
		return nil, nil
	}
	m.Name = name
	return m, nil
}

func (p *parser) field(start xml.StartElement) (*model.Field, error) {
	f := model.NewField("")
	name, err := p.element(start, p.accessorRules(&f.Index, f.SetNext))
	if err != nil {
		return nil, err
	}
	if name == "" {
		p.errorf("field is missing its name, field skipped")
		return nil, nil
	}
	f.Name = name
	return f, nil
}

// accessorRules is shared by <method> and <field>: a nested method or field continues the chain.
func (p *parser) accessorRules(index *int, setNext func(*model.Method, *model.Field) error) ruleSet {
	return ruleSet{
		"method": func(t xml.StartElement) error {
			next, err := p.method(t)
			if err != nil || next == nil {
				return err
			}
			if err = setNext(next, nil); err != nil {
				p.errorf("nested method rejected, accessor already continues", "method", next.Name)
			}
			return nil
		},
		"field": func(t xml.StartElement) error {
			next, err := p.field(t)
			if err != nil || next == nil {
				return err
			}
			if err = setNext(nil, next); err != nil {
				p.errorf("nested field rejected, accessor already continues", "field", next.Name)
			}
			return nil
		},
		"index": func(t xml.StartElement) error {
			return p.intElement(t, index, *index)
		},
	}
}

// intElement parses a leaf integer into dst; on failure dst becomes onError.
func (p *parser) intElement(start xml.StartElement, dst *int, onError int) error {
	raw, err := p.text(start)
	if err != nil {
		return err
	}
	n, convErr := strconv.Atoi(raw)
	if convErr != nil {
		p.errorf("invalid integer", "element", start.Name.Local, "value", raw, "using", onError)
		*dst = onError
		return nil
	}
	*dst = n
	return nil
}
