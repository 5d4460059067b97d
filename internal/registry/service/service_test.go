package service_test

import (
	"context"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Polqt/sbeschema/internal/registry/metrics"
	"github.com/Polqt/sbeschema/internal/registry/service"
	"github.com/Polqt/sbeschema/internal/registry/store"
	"github.com/Polqt/sbeschema/internal/sbe/strategy"
)

const baseSchema = `<?xml version="1.0" encoding="UTF-8"?>
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

const nextVersionSchema = `<?xml version="1.0" encoding="UTF-8"?>
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

func newTestService(t *testing.T) *service.Service {
	t.Helper()
	st, err := store.New(16, strategy.Full)
	require.NoError(t, err)
	return service.New(st, metrics.NoOpManager(), logrus.StandardLogger())
}

func TestService_Register_AcceptsCompatibleSchema(t *testing.T) {
	svc := newTestService(t)

	_, err := svc.Register("orders", []byte(baseSchema))
	require.NoError(t, err)

	v, err := svc.Register("orders", []byte(nextVersionSchema))
	require.NoError(t, err)
	assert.Equal(t, 2, v.Number)
}

func TestService_CheckBatch_RunsEveryItemIndependently(t *testing.T) {
	svc := newTestService(t)
	_, err := svc.Register("orders", []byte(baseSchema))
	require.NoError(t, err)
	_, err = svc.Register("trades", []byte(baseSchema))
	require.NoError(t, err)

	items := []service.BatchItem{
		{Subject: "orders", Raw: []byte(nextVersionSchema)},
		{Subject: "trades", Raw: []byte(nextVersionSchema)},
		{Subject: "unknown", Raw: []byte(nextVersionSchema)},
	}

	results, err := svc.CheckBatch(context.Background(), items)
	require.NoError(t, err)
	require.Len(t, results, 3)
	assert.Equal(t, "orders", results[0].Subject)
	assert.NoError(t, results[0].Err)
	assert.Equal(t, "Full", results[0].Level)
	assert.Equal(t, "trades", results[1].Subject)
	assert.NoError(t, results[1].Err)
	assert.Equal(t, "unknown", results[2].Subject)
	assert.Equal(t, "NoChange", results[2].Level)
}

func TestService_GetVersion_ReflectsRegisteredHistory(t *testing.T) {
	svc := newTestService(t)
	_, err := svc.Register("orders", []byte(baseSchema))
	require.NoError(t, err)
	_, err = svc.Register("orders", []byte(nextVersionSchema))
	require.NoError(t, err)

	v, err := svc.GetVersion("orders", 1)
	require.NoError(t, err)
	assert.Equal(t, 1, v.Number)

	latest, err := svc.GetLatest("orders")
	require.NoError(t, err)
	assert.Equal(t, 2, latest.Number)
}
