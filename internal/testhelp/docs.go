package testhelp

// ServletDoc declares one servlet entry keyed by the uid parameter.
const ServletDoc = `<?xml version="1.0"?>
<cache>
  <cache-entry>
    <class>servlet</class>
    <name>/profile.jsp</name>
    <cache-id>
      <component type="parameter" id="uid">
        <required>true</required>
      </component>
      <timeout>60</timeout>
    </cache-id>
  </cache-entry>
</cache>`

// ShopDoc exercises instances, fallback cache-ids, dependency ids, invalidations and commands.
const ShopDoc = `<?xml version="1.0"?>
<cache>
  <display-name>shop</display-name>
  <skip-cache-attribute>docSkip</skip-cache-attribute>
  <group name="catalog"/>
  <cache-instance name="products">
    <skip-cache-attribute>instSkip</skip-cache-attribute>
    <cache-entry>
      <class>servlet</class>
      <name>/product.jsp</name>
      <name>/item.jsp</name>
      <sharing-policy>shared-push</sharing-policy>
      <property name="persist-to-disk">true</property>
      <cache-id>
        <component type="parameter" id="sku">
          <required>true</required>
        </component>
        <priority>3</priority>
      </cache-id>
      <cache-id>
        <component type="parameter" id="category">
          <value>books</value>
          <value>music</value>
        </component>
        <timeout>120</timeout>
        <property name="persist-to-disk">false</property>
      </cache-id>
      <dependency-id>product
        <component type="parameter" id="sku"/>
      </dependency-id>
    </cache-entry>
  </cache-instance>
  <cache-entry>
    <class>command</class>
    <name>com.example.UpdateProduct</name>
    <property name="delay-invalidations">true</property>
    <cache-id>
      <component type="method" id="getSku"/>
    </cache-id>
    <invalidation>product
      <component type="method" id="getSku"/>
    </invalidation>
  </cache-entry>
  <cache-entry>
    <class>static</class>
    <name>/logo.png</name>
    <skip-cache-attribute>entrySkip</skip-cache-attribute>
    <cache-id>
      <timeout>3600</timeout>
    </cache-id>
  </cache-entry>
</cache>`
