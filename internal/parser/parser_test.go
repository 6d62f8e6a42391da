package parser

import (
	"strings"
	"testing"

	"github.com/Borislavv/go-ash-cachespec/internal/testhelp"
	"github.com/Borislavv/go-ash-cachespec/model"
	"github.com/stretchr/testify/require"
)

func parse(t *testing.T, doc string) (*Document, *testhelp.Buffer) {
	t.Helper()
	logger, logs := testhelp.CaptureLogger()
	cfg := testhelp.Cfg()
	out, err := Parse(strings.NewReader(doc), Options{AppName: cfg.AppName, Prefix: cfg.Prefix, Logger: logger})
	require.NoError(t, err)
	return out, logs
}

func wrapEntry(body string) string {
	return `<cache><cache-entry><class>servlet</class><name>/e</name>` + body + `</cache-entry></cache>`
}

// TestParse_ShopDoc checks the full tree built from a representative document.
func TestParse_ShopDoc(t *testing.T) {
	doc, _ := parse(t, testhelp.ShopDoc)

	require.Equal(t, "shop", doc.DisplayName)
	require.Equal(t, []string{"catalog"}, doc.Groups)
	require.Len(t, doc.Entries, 3)
	require.Len(t, doc.Instances, 1)

	product := doc.Entries[0]
	require.Equal(t, "myapp/product.jsp", product.Name)
	require.Equal(t, []string{"myapp/product.jsp", "myapp/item.jsp"}, product.AllNames)
	require.Equal(t, "products", product.InstanceName)
	require.Equal(t, "testApp", product.AppName)
	require.Equal(t, model.SharedPush, product.SharingPolicy)
	require.Equal(t, "true", product.Properties[model.PropertyPersistToDisk].Value)
	require.Len(t, product.CacheIDs, 2)
	require.Equal(t, 3, product.CacheIDs[0].Priority)
	require.Equal(t, model.Unset, product.CacheIDs[0].Timeout)
	require.Equal(t, model.Unset, product.CacheIDs[0].Inactivity)
	require.Equal(t, 120, product.CacheIDs[1].Timeout)
	require.Len(t, product.CacheIDs[1].Components[0].Values, 2)
	require.Len(t, product.DependencyIDs, 1)
	require.Equal(t, "product", product.DependencyIDs[0].BaseName)
	require.Same(t, product, doc.Instances[0].Entries[0])

	command := doc.Entries[1]
	require.Equal(t, "com.example.UpdateProduct.class", command.Name)
	require.True(t, command.IsCommand())
	require.Equal(t, "getSku", command.CacheIDs[0].Components[0].ID)
	require.Nil(t, command.CacheIDs[0].Components[0].Method)
	require.Equal(t, model.TypeMethod, command.Invalidations[0].Components[0].IType)
}

// TestParse_SkipCacheAttributePrecedence checks entry > instance > document precedence.
func TestParse_SkipCacheAttributePrecedence(t *testing.T) {
	doc, _ := parse(t, testhelp.ShopDoc)

	require.Equal(t, "instSkip", doc.Entries[0].SkipCacheAttribute)
	require.Equal(t, "docSkip", doc.Entries[1].SkipCacheAttribute)
	require.Equal(t, "entrySkip", doc.Entries[2].SkipCacheAttribute)
}

// TestParse_UnknownElementIsFatal checks that a tag outside the current rule set aborts the load.
func TestParse_UnknownElementIsFatal(t *testing.T) {
	_, err := Parse(strings.NewReader(wrapEntry(`<cache-id><bogus/></cache-id>`)), Options{})
	require.ErrorIs(t, err, ErrUnknownElement)

	// timeout is legal in cache-id but not in cache-entry.
	_, err = Parse(strings.NewReader(wrapEntry(`<timeout>5</timeout>`)), Options{})
	require.ErrorIs(t, err, ErrUnknownElement)

	_, err = Parse(strings.NewReader(`<caches/>`), Options{})
	require.ErrorIs(t, err, ErrUnknownElement)
}

// TestParse_Malformed checks the document-level errors.
func TestParse_Malformed(t *testing.T) {
	_, err := Parse(strings.NewReader(`<cache><cache-entry>`), Options{})
	require.ErrorIs(t, err, ErrMalformed)

	_, err = Parse(strings.NewReader(``), Options{})
	require.ErrorIs(t, err, ErrNoRoot)
}

// TestParse_NumericFallbacks checks that timeout/priority keep their value and inactivity becomes -1.
func TestParse_NumericFallbacks(t *testing.T) {
	doc, logs := parse(t, wrapEntry(`<cache-id>
		<timeout>10</timeout><timeout>ten</timeout>
		<priority>x</priority>
		<inactivity>5</inactivity><inactivity>soon</inactivity>
	</cache-id>`))

	cid := doc.Entries[0].CacheIDs[0]
	require.Equal(t, 10, cid.Timeout)
	require.Equal(t, 0, cid.Priority)
	require.Equal(t, -1, cid.Inactivity)
	require.Contains(t, logs.String(), "invalid integer")
}

// TestParse_InvalidRangeDropsComponent checks that one bad range removes the whole component.
func TestParse_InvalidRangeDropsComponent(t *testing.T) {
	doc, logs := parse(t, wrapEntry(`<cache-id>
		<component type="parameter" id="a"><value><range low="10" high="1"/></value></component>
		<component type="parameter" id="b"><not-value><range low="x" high="1"/></not-value></component>
		<component type="parameter" id="c"><value><range low="1" high="10"/></value></component>
	</cache-id>`))

	comps := doc.Entries[0].CacheIDs[0].Components
	require.Len(t, comps, 1)
	require.Equal(t, "c", comps[0].ID)
	require.Equal(t, []model.Range{{Low: 1, High: 10}}, comps[0].ValueRanges)
	require.Contains(t, logs.String(), "invalid range")
}

// TestParse_UnknownComponentTypeRejected checks that a component with an unknown type never reaches the tree.
func TestParse_UnknownComponentTypeRejected(t *testing.T) {
	doc, logs := parse(t, wrapEntry(`<cache-id>
		<component type="telepathy" id="x"/>
		<component type="HEADER" id="accept"/>
	</cache-id>`))

	comps := doc.Entries[0].CacheIDs[0].Components
	require.Len(t, comps, 1)
	require.Equal(t, model.TypeHeader, comps[0].IType)
	require.Contains(t, logs.String(), "unknown or missing type")
}

// TestParse_MethodFieldFirstWins checks accessor exclusivity and nested chains.
func TestParse_MethodFieldFirstWins(t *testing.T) {
	doc, logs := parse(t, `<cache><cache-entry><class>command</class><name>Cmd</name><cache-id>
		<component type="method" id="user">
			<method>getUser<field>id</field><index>2</index></method>
			<field>user</field>
		</component>
	</cache-id></cache-entry></cache>`)

	comp := doc.Entries[0].CacheIDs[0].Components[0]
	require.NotNil(t, comp.Method)
	require.Nil(t, comp.Field)
	require.Equal(t, "getUser", comp.Method.Name)
	require.Equal(t, 2, comp.Method.Index)
	require.Equal(t, "id", comp.Method.Field.Name)
	require.Equal(t, -1, comp.Method.Field.Index)
	require.Contains(t, logs.String(), "field rejected")
}

// TestParse_GeneratorExclusion checks that whichever of generator/components comes first wins.
func TestParse_GeneratorExclusion(t *testing.T) {
	doc, _ := parse(t, wrapEntry(`
		<cache-id><idgenerator>gen</idgenerator><component type="parameter" id="a"/></cache-id>
		<cache-id><component type="parameter" id="a"/><idgenerator>gen</idgenerator></cache-id>
		<invalidation>inv<invalidationgenerator>ig</invalidationgenerator><component type="parameter" id="a"/></invalidation>`))

	entry := doc.Entries[0]
	require.Equal(t, "gen", entry.CacheIDs[0].IDGenerator)
	require.Empty(t, entry.CacheIDs[0].Components)
	require.Empty(t, entry.CacheIDs[1].IDGenerator)
	require.Len(t, entry.CacheIDs[1].Components, 1)
	require.Equal(t, "ig", entry.Invalidations[0].InvalidationGenerator)
	require.Empty(t, entry.Invalidations[0].Components)
}

// TestParse_ComponentAttributes checks attribute parsing and the required default.
func TestParse_ComponentAttributes(t *testing.T) {
	doc, _ := parse(t, wrapEntry(`<cache-id>
		<component type="cookie" id="sid" ignore-value="true"><required>maybe</required></component>
		<component type="attribute" id="roles" multipleIDs="true"><required>false</required><not-value>guest</not-value></component>
	</cache-id>`))

	comps := doc.Entries[0].CacheIDs[0].Components
	require.True(t, comps[0].IgnoreValue)
	require.True(t, comps[0].Required)
	require.True(t, comps[1].MultipleIDs)
	require.False(t, comps[1].Required)
	require.Contains(t, comps[1].NotValues, "guest")
}

// TestParse_Properties checks name normalization, excludes and primary-storage fallback.
func TestParse_Properties(t *testing.T) {
	doc, logs := parse(t, wrapEntry(`
		<property name="EdgeCacheable">true</property>
		<property name="primary-storage">tape</property>
		<property name="consume-subfragments">true<exclude>/a.jsp</exclude><exclude>/b.jsp</exclude></property>
		<property>orphan</property>`))

	props := doc.Entries[0].Properties
	require.Len(t, props, 3)
	require.Equal(t, "true", props[model.PropertyEdgeable].Value)
	require.Equal(t, model.PrimaryStorageMemory, props[model.PropertyPrimaryStorage].Value)
	require.Equal(t, "true", props[model.PropertyConsumeSubfragments].Value)
	require.Equal(t, []string{"/a.jsp", "/b.jsp"}, props[model.PropertyConsumeSubfragments].ExcludeList)
	require.Contains(t, logs.String(), "invalid primary-storage")
}

// TestParse_EntryWithoutNameSkipped checks that an unnamed entry is logged and dropped.
func TestParse_EntryWithoutNameSkipped(t *testing.T) {
	doc, logs := parse(t, `<cache><cache-entry><class>servlet</class></cache-entry></cache>`)
	require.Empty(t, doc.Entries)
	require.Contains(t, logs.String(), "entry skipped")
}

// TestParse_InvalidSharingPolicy checks the not-shared fallback.
func TestParse_InvalidSharingPolicy(t *testing.T) {
	doc, logs := parse(t, wrapEntry(`<sharing-policy>everywhere</sharing-policy>`))
	require.Equal(t, model.NotShared, doc.Entries[0].SharingPolicy)
	require.Contains(t, logs.String(), "invalid sharing-policy")
}

// TestParse_AdvisoryValidation checks that class misuse warns but keeps the entry.
func TestParse_AdvisoryValidation(t *testing.T) {
	doc, logs := parse(t, `<cache><cache-entry><class>command</class><name>Cmd</name>
		<property name="store-cookies">true</property>
		<cache-id><component type="cookie" id="c"/></cache-id>
	</cache-entry></cache>`)

	require.Len(t, doc.Entries, 1)
	require.Len(t, doc.Entries[0].CacheIDs[0].Components, 1)
	out := logs.String()
	require.Contains(t, out, "component type is not valid for entry class")
	require.Contains(t, out, "property is not valid for entry class")
	require.Contains(t, out, "level=WARN")
}

// TestParse_UnnamedInstance checks that entries of an unnamed instance stay global.
func TestParse_UnnamedInstance(t *testing.T) {
	doc, logs := parse(t, `<cache><skip-cache-attribute>d</skip-cache-attribute><cache-instance>
		<cache-entry><class>servlet</class><name>/a</name></cache-entry>
	</cache-instance></cache>`)

	require.Empty(t, doc.Instances)
	require.Len(t, doc.Entries, 1)
	require.Empty(t, doc.Entries[0].InstanceName)
	require.Equal(t, "d", doc.Entries[0].SkipCacheAttribute)
	require.Contains(t, logs.String(), "cache-instance is missing required attribute")
}

// TestTemplateName checks name qualification rules per class.
func TestTemplateName(t *testing.T) {
	tests := []struct {
		raw, class, prefix string
		hasPrefix          bool
		want               string
	}{
		{"foo", model.ClassCommand, "", false, "foo.class"},
		{"foo", model.ClassCommand, "/myapp", true, "foo.class"},
		{"/bar", model.ClassServlet, "/myapp", true, "myapp/bar"},
		{"bar", model.ClassServlet, "myapp/", true, "myapp/bar"},
		{"/bar", model.ClassServlet, "", false, "/bar"},
		{"/bar", model.ClassServlet, "/", true, "bar"},
		{"com.Foo.class", model.ClassServlet, "/myapp", true, "myapp/com.Foo.class"},
		{"com.Foo.class", model.ClassCommand, "", false, "com.Foo.class"},
	}
	for _, tt := range tests {
		require.Equal(t, tt.want, TemplateName(tt.raw, tt.class, tt.prefix, tt.hasPrefix), "%+v", tt)
	}
}
