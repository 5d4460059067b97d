package sbexml_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Polqt/sbeschema/internal/sbe/sbexml"
)

const sampleSchema = `<?xml version="1.0" encoding="UTF-8"?>
<messageSchema package="example" id="1" version="2" semanticVersion="5.2.0" byteOrder="littleEndian">
  <types>
    <type name="Price32" primitiveType="int32" presence="optional" nullValue="2147483647"/>
    <composite name="messageHeader">
      <type name="blockLength" primitiveType="uint16"/>
      <type name="templateId" primitiveType="uint16"/>
      <type name="schemaId" primitiveType="uint16"/>
      <type name="version" primitiveType="uint16"/>
    </composite>
    <enum name="Side" encodingType="char">
      <validValue name="Buy">B</validValue>
      <validValue name="Sell">S</validValue>
    </enum>
    <set name="OrderFlags" encodingType="uint8">
      <choice name="IOC">0</choice>
    </set>
  </types>
  <message name="Order" id="1">
    <field name="price" id="7" type="Price32" sinceVersion="1"/>
    <group name="Entries" id="2">
      <field name="qty" id="3" type="uint32"/>
    </group>
    <data name="trailer" id="4" type="varStringEncoding"/>
  </message>
</messageSchema>
`

func TestParse_DecodesSchemaShape(t *testing.T) {
	schema, err := sbexml.Parse([]byte(sampleSchema))
	require.NoError(t, err)

	assert.Equal(t, "example", schema.Package)
	require.NotNil(t, schema.Version)
	assert.Equal(t, 2, *schema.Version)

	header, ok := schema.MessageHeader()
	require.True(t, ok)
	assert.Len(t, header.Types, 4)

	types := schema.FlattenedTypes()
	require.Len(t, types, 1)
	assert.Equal(t, "Price32", types[0].Name)
	assert.True(t, types[0].IsOptional())

	require.Len(t, schema.Messages, 1)
	msg := schema.Messages[0]
	assert.Equal(t, 1, msg.ID)
	require.Len(t, msg.Fields, 1)
	assert.Equal(t, "Price32", msg.Fields[0].Type)
	require.Len(t, msg.Groups, 1)
	assert.Len(t, msg.Groups[0].Fields, 1)
	require.Len(t, msg.Data, 1)
}

func TestParse_RejectsUnknownPrimitiveType(t *testing.T) {
	bad := `<messageSchema package="x" version="1">
  <types><type name="Bad" primitiveType="uint128"/></types>
  <message name="M" id="1"/>
</messageSchema>`
	_, err := sbexml.Parse([]byte(bad))
	require.Error(t, err)
}

func TestParse_RejectsMissingRoot(t *testing.T) {
	_, err := sbexml.Parse([]byte(`<notASchema/>`))
	require.Error(t, err)
}

func TestWriteThenParse_RoundTripsUnderStructuralEquality(t *testing.T) {
	original, err := sbexml.Parse([]byte(sampleSchema))
	require.NoError(t, err)

	out, err := sbexml.Write(original)
	require.NoError(t, err)

	reparsed, err := sbexml.Parse(out)
	require.NoError(t, err)

	assert.True(t, original.Equal(reparsed))
	assert.Equal(t, original.Signature(), reparsed.Signature())
}
