package store_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Polqt/sbeschema/internal/registry/store"
	"github.com/Polqt/sbeschema/internal/sbe/strategy"
)

const schemaV1 = `<?xml version="1.0" encoding="UTF-8"?>
<messageSchema package="example" id="1" version="1" semanticVersion="1.0.0" byteOrder="littleEndian">
  <types>
    <composite name="messageHeader">
      <type name="blockLength" primitiveType="uint16"/>
      <type name="templateId" primitiveType="uint16"/>
      <type name="schemaId" primitiveType="uint16"/>
      <type name="version" primitiveType="uint16"/>
    </composite>
  </types>
  <message name="Order" id="1">
    <field name="qty" id="1" type="uint32"/>
  </message>
</messageSchema>
`

const schemaV2OptionalFieldAdded = `<?xml version="1.0" encoding="UTF-8"?>
<messageSchema package="example" id="1" version="2" semanticVersion="1.1.0" byteOrder="littleEndian">
  <types>
    <type name="Price32" primitiveType="int32" presence="optional" nullValue="2147483647"/>
    <composite name="messageHeader">
      <type name="blockLength" primitiveType="uint16"/>
      <type name="templateId" primitiveType="uint16"/>
      <type name="schemaId" primitiveType="uint16"/>
      <type name="version" primitiveType="uint16"/>
    </composite>
  </types>
  <message name="Order" id="1">
    <field name="qty" id="1" type="uint32"/>
    <field name="price" id="2" type="Price32" sinceVersion="2"/>
  </message>
</messageSchema>
`

const schemaV2RequiredFieldAdded = `<?xml version="1.0" encoding="UTF-8"?>
<messageSchema package="example" id="1" version="2" semanticVersion="2.0.0" byteOrder="littleEndian">
  <types>
    <composite name="messageHeader">
      <type name="blockLength" primitiveType="uint16"/>
      <type name="templateId" primitiveType="uint16"/>
      <type name="schemaId" primitiveType="uint16"/>
      <type name="version" primitiveType="uint16"/>
    </composite>
  </types>
  <message name="Order" id="1">
    <field name="qty" id="1" type="uint32"/>
    <field name="side" id="2" type="char"/>
  </message>
</messageSchema>
`

const malformedSchema = `<messageSchema package="example"><types></messageSchema>`

func TestStore_Register_FirstVersionAlwaysAccepted(t *testing.T) {
	s, err := store.New(16, strategy.Full)
	require.NoError(t, err)

	v, err := s.Register("orders", []byte(schemaV1))
	require.NoError(t, err)
	assert.Equal(t, 1, v.Number)
	assert.Equal(t, "orders", v.Subject)
	assert.NotEmpty(t, v.Signature)
}

func TestStore_Register_ResubmittingIdenticalContentIsNoOp(t *testing.T) {
	s, err := store.New(16, strategy.Full)
	require.NoError(t, err)

	first, err := s.Register("orders", []byte(schemaV1))
	require.NoError(t, err)

	second, err := s.Register("orders", []byte(schemaV1))
	require.NoError(t, err)
	assert.Equal(t, first.Number, second.Number)

	versions, err := s.Versions("orders")
	require.NoError(t, err)
	assert.Len(t, versions, 1)
}

func TestStore_Register_OptionalFieldAddedAcceptedUnderFull(t *testing.T) {
	s, err := store.New(16, strategy.Full)
	require.NoError(t, err)

	_, err = s.Register("orders", []byte(schemaV1))
	require.NoError(t, err)

	v, err := s.Register("orders", []byte(schemaV2OptionalFieldAdded))
	require.NoError(t, err)
	assert.Equal(t, 2, v.Number)
}

func TestStore_Register_RequiredFieldAddedRejectedUnderFull(t *testing.T) {
	s, err := store.New(16, strategy.Full)
	require.NoError(t, err)

	_, err = s.Register("orders", []byte(schemaV1))
	require.NoError(t, err)

	_, err = s.Register("orders", []byte(schemaV2RequiredFieldAdded))
	assert.Error(t, err)

	versions, err := s.Versions("orders")
	require.NoError(t, err)
	assert.Len(t, versions, 1)
}

func TestStore_Register_RequiredFieldAddedAcceptedUnderForward(t *testing.T) {
	s, err := store.New(16, strategy.Forward)
	require.NoError(t, err)

	_, err = s.Register("orders", []byte(schemaV1))
	require.NoError(t, err)

	v, err := s.Register("orders", []byte(schemaV2RequiredFieldAdded))
	require.NoError(t, err)
	assert.Equal(t, 2, v.Number)
}

func TestStore_Register_MalformedXMLReturnsParseError(t *testing.T) {
	s, err := store.New(16, strategy.Full)
	require.NoError(t, err)

	_, err = s.Register("orders", []byte(malformedSchema))
	assert.Error(t, err)
}

func TestStore_GetLatest_UnknownSubjectReturnsErrSubjectNotFound(t *testing.T) {
	s, err := store.New(16, strategy.Full)
	require.NoError(t, err)

	_, err = s.GetLatest("unknown")
	assert.ErrorIs(t, err, store.ErrSubjectNotFound)
}

func TestStore_GetVersion_OutOfRangeReturnsErrVersionNotFound(t *testing.T) {
	s, err := store.New(16, strategy.Full)
	require.NoError(t, err)
	_, err = s.Register("orders", []byte(schemaV1))
	require.NoError(t, err)

	_, err = s.GetVersion("orders", 99)
	assert.ErrorIs(t, err, store.ErrVersionNotFound)
}

func TestStore_CheckCompatibility_DoesNotMutateHistory(t *testing.T) {
	s, err := store.New(16, strategy.Full)
	require.NoError(t, err)
	_, err = s.Register("orders", []byte(schemaV1))
	require.NoError(t, err)

	level, err := s.CheckCompatibility("orders", []byte(schemaV2OptionalFieldAdded))
	require.NoError(t, err)
	assert.Equal(t, "Full", level)

	versions, err := s.Versions("orders")
	require.NoError(t, err)
	assert.Len(t, versions, 1)
}

func TestStore_Delete_RemovesSubject(t *testing.T) {
	s, err := store.New(16, strategy.Full)
	require.NoError(t, err)
	_, err = s.Register("orders", []byte(schemaV1))
	require.NoError(t, err)

	require.NoError(t, s.Delete("orders"))
	_, err = s.GetLatest("orders")
	assert.ErrorIs(t, err, store.ErrSubjectNotFound)
}

func TestStore_SetStrategy_AffectsSubsequentRegistrations(t *testing.T) {
	s, err := store.New(16, strategy.Full)
	require.NoError(t, err)
	_, err = s.Register("orders", []byte(schemaV1))
	require.NoError(t, err)

	require.NoError(t, s.SetStrategy("orders", strategy.Forward))

	v, err := s.Register("orders", []byte(schemaV2RequiredFieldAdded))
	require.NoError(t, err)
	assert.Equal(t, 2, v.Number)
}
