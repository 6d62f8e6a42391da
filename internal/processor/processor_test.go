package processor

import (
	"errors"
	"testing"

	"github.com/Borislavv/go-ash-cachespec/config"
	"github.com/Borislavv/go-ash-cachespec/internal/testhelp"
	"github.com/Borislavv/go-ash-cachespec/model"
	"github.com/stretchr/testify/require"
)

// values is a ValueSource keyed by "type/id".
type values map[string]any

func (v values) ComponentValue(c *model.Component) (any, error) {
	return v[c.Type+"/"+c.ID], nil
}

type failingSource struct{ err error }

func (s failingSource) ComponentValue(*model.Component) (any, error) { return nil, s.err }

func component(t model.ComponentType, id string, required bool) *model.Component {
	c := model.NewComponent(t)
	c.ID = id
	c.Required = required
	return c
}

func cacheID(comps ...*model.Component) *model.CacheID {
	cid := model.NewCacheID()
	for _, c := range comps {
		if err := cid.AddComponent(c); err != nil {
			panic(err)
		}
	}
	return cid
}

func servletEntry(cids ...*model.CacheID) *model.ConfigEntry {
	e := model.NewConfigEntry()
	e.ClassName = model.ClassServlet
	e.Name = "myapp/page.jsp"
	e.AllNames = []string{e.Name}
	e.CacheIDs = cids
	PreProcess(e)
	return e
}

func run(t *testing.T, entry *model.ConfigEntry, src ValueSource) *Processor {
	t.Helper()
	p := New(testhelp.Cfg(), nil, nil)
	p.Reset(entry, src)
	_, err := p.Execute()
	require.NoError(t, err)
	return p
}

// TestPreProcess_Idempotent checks that resolving twice yields the same records.
func TestPreProcess_Idempotent(t *testing.T) {
	e := servletEntry(cacheID())
	e.ClassName = model.ClassCommand
	e.Properties[model.PropertyDelayInvalidations] = &model.Property{Name: model.PropertyDelayInvalidations, Value: "TRUE"}
	e.Properties[model.PropertyPersistToDisk] = &model.Property{Name: model.PropertyPersistToDisk, Value: "false"}
	e.Properties[model.PropertyPrimaryStorage] = &model.Property{Name: model.PropertyPrimaryStorage, Value: model.PrimaryStorageDisk}
	e.CacheIDs[0].Properties[model.PropertyDoNotCache] = &model.Property{Name: model.PropertyDoNotCache, Value: "true"}

	PreProcess(e)
	first := e.Clone()
	PreProcess(e)

	require.Equal(t, first.Resolved, e.Resolved)
	require.Equal(t, first.CacheIDs[0].Resolved, e.CacheIDs[0].Resolved)
	require.True(t, e.Resolved.DelayInvalidations)
	require.Equal(t, model.PrimaryStorageDisk, e.Resolved.PrimaryStorage)
	require.False(t, *e.Resolved.PersistToDisk)
	require.Nil(t, e.Resolved.DoNotCache)
	require.True(t, *e.CacheIDs[0].Resolved.DoNotCache)
}

// TestExecute_CacheIDFallback checks OR semantics across cache ids and that a failed attempt leaves no trace.
func TestExecute_CacheIDFallback(t *testing.T) {
	e := servletEntry(
		cacheID(component(model.TypeParameter, "present", true), component(model.TypeParameter, "missing", true)),
		cacheID(component(model.TypeParameter, "present", true)),
	)

	p := run(t, e, values{"parameter/present": "1"})
	require.True(t, p.Cacheable())
	require.Equal(t, "myapp/page.jsp:present=1", p.ID())
}

// TestExecute_UnsetTimeouts checks that a matching cache-id without timeout or inactivity reports -1.
func TestExecute_UnsetTimeouts(t *testing.T) {
	e := servletEntry(cacheID(component(model.TypeParameter, "uid", true)))

	res, err := run(t, e, values{"parameter/uid": "1"}).Result()
	require.NoError(t, err)
	require.True(t, res.Cacheable)
	require.Equal(t, -1, res.Timeout)
	require.Equal(t, -1, res.Inactivity)
	require.Equal(t, model.PrimaryStorageMemory, res.PrimaryStorage)
}

// TestExecute_NotCacheable checks that no matching cache id yields an empty id and no entry info.
func TestExecute_NotCacheable(t *testing.T) {
	e := servletEntry(cacheID(component(model.TypeParameter, "uid", true)))

	p := run(t, e, values{})
	require.False(t, p.Cacheable())
	require.Empty(t, p.ID())

	res, err := p.Result()
	require.NoError(t, err)
	require.False(t, res.Cacheable)
	require.Empty(t, res.ID)
	require.Nil(t, res.Key)
}

// TestExecute_NoCacheIDs checks that an entry without cache ids is never cacheable.
func TestExecute_NoCacheIDs(t *testing.T) {
	p := run(t, servletEntry(), values{})
	require.False(t, p.Cacheable())
}

// TestComponent_NotValueVetoes checks that a negative constraint overrides a positive match.
func TestComponent_NotValueVetoes(t *testing.T) {
	c := component(model.TypeParameter, "n", true)
	c.AddValue("5")
	c.AddNotValue("5")

	p := run(t, servletEntry(cacheID(c)), values{"parameter/n": "5"})
	require.False(t, p.Cacheable())
}

// TestComponent_Range checks inclusive bounds and non-integer values.
func TestComponent_Range(t *testing.T) {
	c := component(model.TypeParameter, "n", true)
	c.ValueRanges = []model.Range{{Low: 1, High: 10}}
	e := servletEntry(cacheID(c))

	for value, want := range map[string]bool{"1": true, "10": true, "11": false, "0": false, "abc": false} {
		p := run(t, e, values{"parameter/n": value})
		require.Equal(t, want, p.Cacheable(), value)
	}
}

// TestComponent_NotValueRange checks exclusion by range.
func TestComponent_NotValueRange(t *testing.T) {
	c := component(model.TypeParameter, "n", true)
	c.NotValueRanges = []model.Range{{Low: 100, High: 199}}
	e := servletEntry(cacheID(c))

	require.True(t, run(t, e, values{"parameter/n": "99"}).Cacheable())
	require.False(t, run(t, e, values{"parameter/n": "150"}).Cacheable())
	require.True(t, run(t, e, values{"parameter/n": "x"}).Cacheable())
}

// TestComponent_OptionalMissing checks that an absent optional value passes without contributing.
func TestComponent_OptionalMissing(t *testing.T) {
	e := servletEntry(cacheID(component(model.TypeParameter, "a", false), component(model.TypeHeader, "b", true)))

	p := run(t, e, values{"header/b": "x"})
	require.Equal(t, "myapp/page.jsp:b=x", p.ID())
}

// TestComponent_Compat602 checks the leniency switch for optional components with rejected values.
func TestComponent_Compat602(t *testing.T) {
	c := component(model.TypeParameter, "lang", false)
	c.AddValue("en")
	e := servletEntry(cacheID(c))
	src := values{"parameter/lang": "fr"}

	strict := run(t, e, src)
	require.False(t, strict.Cacheable())

	lenient := New(testhelp.Compat602Cfg(), nil, nil)
	lenient.Reset(e, src)
	ok, err := lenient.Execute()
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "myapp/page.jsp:lang=fr", lenient.ID())

	// a required component is never relaxed
	c.Required = true
	lenient.Reset(e, src)
	ok, err = lenient.Execute()
	require.NoError(t, err)
	require.False(t, ok)
}

// TestComponent_Compat602PerInstance checks that an instance override beats the engine default.
func TestComponent_Compat602PerInstance(t *testing.T) {
	c := component(model.TypeParameter, "lang", false)
	c.AddValue("en")
	e := servletEntry(cacheID(c))
	e.InstanceName = "legacy"

	cfg := testhelp.Cfg()
	on := true
	cfg.Instances = map[string]*config.InstanceCfg{"legacy": {Compat602: &on}}

	p := New(cfg, nil, nil)
	p.Reset(e, values{"parameter/lang": "fr"})
	ok, err := p.Execute()
	require.NoError(t, err)
	require.True(t, ok)
}

// TestComponent_IgnoreValue checks that only the component name is written.
func TestComponent_IgnoreValue(t *testing.T) {
	c := component(model.TypeCookie, "JSESSIONID", true)
	c.IgnoreValue = true

	p := run(t, servletEntry(cacheID(c)), values{"cookie/JSESSIONID": "abc"})
	require.Equal(t, "myapp/page.jsp:JSESSIONID", p.ID())
}

// TestComponent_NameDefaultsToType checks the label of a component without id.
func TestComponent_NameDefaultsToType(t *testing.T) {
	c := component(model.TypeLocale, "", true)

	p := run(t, servletEntry(cacheID(c)), values{"locale/": "en_US"})
	require.Equal(t, "myapp/page.jsp:locale=en_US", p.ID())
}

// TestComponent_MultiValuedJoin checks that list results are joined skipping nils.
func TestComponent_MultiValuedJoin(t *testing.T) {
	c := component(model.TypeAttribute, "roles", true)
	e := servletEntry(cacheID(c))

	p := run(t, e, values{"attribute/roles": []any{"admin", nil, "editor"}})
	require.Equal(t, "myapp/page.jsp:roles=admin,editor", p.ID())

	p = run(t, e, values{"attribute/roles": []int{1, 2}})
	require.Equal(t, "myapp/page.jsp:roles=1,2", p.ID())

	p = run(t, e, values{"attribute/roles": []string{}})
	require.False(t, p.Cacheable())
}

// TestDependencyID_MultipleIDs checks that one component fans out into one id per element.
func TestDependencyID_MultipleIDs(t *testing.T) {
	c := component(model.TypeAttribute, "roles", true)
	c.MultipleIDs = true
	e := servletEntry(cacheID())
	e.DependencyIDs = []*model.DependencyID{{BaseName: "grp", Components: []*model.Component{c}}}

	p := run(t, e, values{"attribute/roles": []string{"a", "b", "c"}})
	require.Equal(t, []string{"grp:a", "grp:b", "grp:c"}, p.DependencyIDs())
}

// TestDependencyID_MultipleIDsCompound checks that later components extend every fanned out id.
func TestDependencyID_MultipleIDsCompound(t *testing.T) {
	roles := component(model.TypeAttribute, "roles", true)
	roles.MultipleIDs = true
	roles.AddNotValue("guest")
	e := servletEntry(cacheID())
	e.DependencyIDs = []*model.DependencyID{{
		BaseName:   "grp",
		Components: []*model.Component{component(model.TypeParameter, "region", true), roles, component(model.TypeParameter, "page", true)},
	}}

	p := run(t, e, values{
		"parameter/region": "eu",
		"attribute/roles":  []string{"a", "guest", "b"},
		"parameter/page":   "7",
	})
	require.Equal(t, []string{"grp:eu:a:7", "grp:eu:b:7"}, p.DependencyIDs())
}

// TestDependencyID_MultipleIDsOrder checks that a rejected leading element does not decide the match.
func TestDependencyID_MultipleIDsOrder(t *testing.T) {
	roles := component(model.TypeAttribute, "roles", true)
	roles.MultipleIDs = true
	roles.AddNotValue("guest")
	e := servletEntry(cacheID())
	e.DependencyIDs = []*model.DependencyID{{BaseName: "grp", Components: []*model.Component{roles}}}

	for _, list := range [][]string{
		{"guest", "a", "b"},
		{"a", "guest", "b"},
		{"a", "b", "guest"},
	} {
		p := run(t, e, values{"attribute/roles": list})
		require.Equal(t, []string{"grp:a", "grp:b"}, p.DependencyIDs(), "%v", list)
	}

	p := run(t, e, values{"attribute/roles": []string{"guest", "guest"}})
	require.Empty(t, p.DependencyIDs())
}

// TestDependencyID_FailureDropsID checks AND semantics of dependency ids.
func TestDependencyID_FailureDropsID(t *testing.T) {
	e := servletEntry(cacheID())
	e.DependencyIDs = []*model.DependencyID{
		{BaseName: "a", Components: []*model.Component{component(model.TypeParameter, "missing", true)}},
		{BaseName: "b", Components: []*model.Component{component(model.TypeParameter, "x", true)}},
		{BaseName: "c"},
	}

	p := run(t, e, values{"parameter/x": "1"})
	require.Equal(t, []string{"b:1", "c"}, p.DependencyIDs())
}

// TestInvalidation_ComputedWhenNotCacheable checks that invalidations do not depend on cacheability.
func TestInvalidation_ComputedWhenNotCacheable(t *testing.T) {
	e := servletEntry(cacheID(component(model.TypeParameter, "missing", true)))
	e.Invalidations = []*model.Invalidation{{BaseName: "product", Components: []*model.Component{component(model.TypeParameter, "sku", true)}}}

	p := run(t, e, values{"parameter/sku": "42"})
	require.False(t, p.Cacheable())
	require.Equal(t, []string{"product:42"}, p.InvalidationIDs())

	res, err := p.Result()
	require.NoError(t, err)
	require.Equal(t, []string{"product:42"}, res.InvalidationIDs)
}

// TestInvalidation_Delayed checks command entries with delay-invalidations.
func TestInvalidation_Delayed(t *testing.T) {
	sku := component(model.TypeMethod, "getSku", true)
	sku.Method = model.NewMethod("getSku")
	e := servletEntry(cacheID())
	e.ClassName = model.ClassCommand
	e.Properties[model.PropertyDelayInvalidations] = &model.Property{Name: model.PropertyDelayInvalidations, Value: "true"}
	e.Invalidations = []*model.Invalidation{{BaseName: "product", Components: []*model.Component{sku}}}
	PreProcess(e)

	p := run(t, e, values{"method/getSku": "1"})
	require.True(t, p.DelayInvalidations())
	require.Empty(t, p.InvalidationIDs())

	ids, err := p.ProcessDelayedInvalidations(values{"method/getSku": "2"})
	require.NoError(t, err)
	require.Equal(t, []string{"product:2"}, ids)
	require.False(t, p.DelayInvalidations())

	// servlets ignore delay-invalidations
	e.ClassName = model.ClassServlet
	p = run(t, e, values{"method/getSku": "1"})
	require.False(t, p.DelayInvalidations())
	require.Equal(t, []string{"product:1"}, p.InvalidationIDs())
}

// TestSetEntryInfo checks policy propagation and property override order.
func TestSetEntryInfo(t *testing.T) {
	cid := cacheID(component(model.TypeParameter, "uid", true))
	cid.Timeout, cid.Inactivity, cid.Priority = 60, 30, 0
	cid.Properties[model.PropertyPersistToDisk] = &model.Property{Name: model.PropertyPersistToDisk, Value: "false"}
	e := servletEntry(cid)
	e.SharingPolicy = model.SharedPull
	e.Properties[model.PropertyPersistToDisk] = &model.Property{Name: model.PropertyPersistToDisk, Value: "true"}
	e.Properties[model.PropertyDoNotCache] = &model.Property{Name: model.PropertyDoNotCache, Value: "true"}
	e.Properties[model.PropertyPrimaryStorage] = &model.Property{Name: model.PropertyPrimaryStorage, Value: model.PrimaryStorageDisk}
	e.DependencyIDs = []*model.DependencyID{{BaseName: "user", Components: []*model.Component{component(model.TypeParameter, "uid", true)}}}
	PreProcess(e)

	p := run(t, e, values{"parameter/uid": "7"})
	res, err := p.Result()
	require.NoError(t, err)

	require.True(t, res.Cacheable)
	require.Equal(t, "myapp/page.jsp:uid=7", res.ID)
	require.Equal(t, "myapp/page.jsp", res.Template)
	require.Equal(t, model.SharedPull, res.SharingPolicy)
	require.Equal(t, model.PrimaryStorageDisk, res.PrimaryStorage)
	require.False(t, res.PersistToDisk)
	require.True(t, res.DoNotCache)
	require.Equal(t, 60, res.Timeout)
	require.Equal(t, 30, res.Inactivity)
	require.Zero(t, res.Priority)
	require.Equal(t, []string{"user:7"}, res.DependencyIDs)
	require.True(t, res.Key.IsTheSame(model.NewKey("myapp/page.jsp:uid=7")))

	cid.Priority = 4
	p = run(t, e, values{"parameter/uid": "7"})
	res, err = p.Result()
	require.NoError(t, err)
	require.Equal(t, 4, res.Priority)
}

// TestExecute_SourceErrorPropagates checks that value source errors reach the caller.
func TestExecute_SourceErrorPropagates(t *testing.T) {
	boom := errors.New("boom")
	p := New(testhelp.Cfg(), nil, nil)
	p.Reset(servletEntry(cacheID(component(model.TypeParameter, "uid", true))), failingSource{err: boom})

	_, err := p.Execute()
	require.ErrorIs(t, err, boom)
}

// TestExecute_NotReset checks the call protocol guard.
func TestExecute_NotReset(t *testing.T) {
	_, err := New(nil, nil, nil).Execute()
	require.ErrorIs(t, err, ErrNotReset)
}

// TestPool_ResetsOnCheckout checks that a recycled processor carries no state over.
func TestPool_ResetsOnCheckout(t *testing.T) {
	pool := NewPool(testhelp.Cfg(), nil, nil)
	e := servletEntry(cacheID(component(model.TypeParameter, "uid", true)))
	e.DependencyIDs = []*model.DependencyID{{BaseName: "d"}}

	p := pool.Get(e, values{"parameter/uid": "1"})
	ok, err := p.Execute()
	require.NoError(t, err)
	require.True(t, ok)
	pool.Put(p)

	p = pool.Get(e, values{})
	require.False(t, p.Cacheable())
	require.Empty(t, p.ID())
	require.Empty(t, p.DependencyIDs())
	ok, err = p.Execute()
	require.NoError(t, err)
	require.False(t, ok)
	require.Equal(t, []string{"d"}, p.DependencyIDs())
	pool.Put(p)
}
