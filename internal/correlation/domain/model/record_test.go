package model

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecord_Accessors(t *testing.T) {
	var r Record
	require.NoError(t, json.Unmarshal([]byte(`{
		"Id": "300000000000001AAA",
		"IsActive": true,
		"ApiVersion": 58.0,
		"Max": 100,
		"CreatedDate": "2024-03-01T10:20:30.000+0000",
		"Nullable": null,
		"Fields": {"totalSize": 2, "records": [{"DurableId": "Account.Name"}, {"DurableId": "Account.00N000000000001"}]}
	}`), &r))

	assert.Equal(t, "300000000000001AAA", r.String("Id"))
	assert.True(t, r.Bool("IsActive"))
	assert.Equal(t, 58.0, r.Float("ApiVersion"))
	assert.Equal(t, int64(100), r.Int("Max"))
	assert.Equal(t, time.Date(2024, 3, 1, 10, 20, 30, 0, time.UTC), r.Time("CreatedDate").UTC())
	assert.False(t, r.Has("Nullable"))
	assert.False(t, r.Has("Missing"))

	fields := r.SubRecords("Fields")
	require.Len(t, fields, 2)
	assert.Equal(t, "Account.Name", fields[0].String("DurableId"))
}

func TestRecord_MissingValuesDefault(t *testing.T) {
	r := Record{"Name": 12}

	assert.Empty(t, r.String("Name"))
	assert.False(t, r.Bool("Name"))
	assert.Zero(t, r.Float("Other"))
	assert.True(t, r.Time("Other").IsZero())
	assert.Nil(t, r.Map("Other"))

	subs := r.SubRecords("ValidationRules")
	assert.NotNil(t, subs)
	assert.Empty(t, subs)
}

func TestRowSet_First(t *testing.T) {
	var empty RowSet
	_, ok := empty.First()
	assert.False(t, ok)

	rs := RowSet{Records: []Record{{"Id": "a"}, {"Id": "b"}}}
	first, ok := rs.First()
	require.True(t, ok)
	assert.Equal(t, "a", first.String("Id"))
}

func TestMetadataDocument_LookupOrDefault(t *testing.T) {
	doc := NewMetadataDocument(map[string]interface{}{
		"recordCreates": []interface{}{map[string]interface{}{}, map[string]interface{}{}},
		"screens":       []interface{}{map[string]interface{}{}},
		"decisions":     "not-a-list",
		"processMetadataValues": []interface{}{
			map[string]interface{}{"name": "ObjectType", "value": map[string]interface{}{"stringValue": "Account"}},
			map[string]interface{}{"name": "TriggerType", "value": map[string]interface{}{"stringValue": "onAllChanges"}},
			map[string]interface{}{"value": map[string]interface{}{"stringValue": "ignored"}},
		},
	})

	assert.Equal(t, 2, doc.CollectionLen("recordCreates"))
	assert.Equal(t, 1, doc.CollectionLen("screens"))
	assert.Equal(t, 0, doc.CollectionLen("decisions"))
	assert.Equal(t, 0, doc.CollectionLen("loops"))

	values := doc.NameValues("processMetadataValues")
	assert.Equal(t, []NameValue{{Name: "ObjectType", Value: "Account"}, {Name: "TriggerType", Value: "onAllChanges"}}, values)

	assert.Nil(t, NewMetadataDocument(nil).NameValues("processMetadataValues"))
	assert.Equal(t, 0, MetadataDocumentOf(Record{}).CollectionLen("screens"))
}
