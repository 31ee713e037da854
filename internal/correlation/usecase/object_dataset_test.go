package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/vinodmerwade/OrgCheck/internal/correlation/domain/model"
	apperrors "github.com/vinodmerwade/OrgCheck/internal/shared/errors"
	"github.com/vinodmerwade/OrgCheck/internal/shared/logger"
)

func subquery(rows ...map[string]interface{}) map[string]interface{} {
	records := make([]interface{}, len(rows))
	for i, r := range rows {
		records[i] = r
	}
	return map[string]interface{}{"totalSize": float64(len(rows)), "done": true, "records": records}
}

type objectFixture struct {
	queries   *mockQueryRunner
	describer *mockDescriber
	counter   *mockCounter
	dataset   *ObjectDataset
}

func newObjectFixture() *objectFixture {
	f := &objectFixture{
		queries:   &mockQueryRunner{},
		describer: &mockDescriber{},
		counter:   &mockCounter{},
	}
	f.dataset = NewObjectDataset(ObjectDatasetDeps{
		Queries:   f.queries,
		Describer: f.describer,
		Counter:   f.counter,
		URLs:      pathURLs{},
		Scorer:    fixedScorer{value: 2},
	}, logger.NewNopLogger())
	return f
}

func accountDescribe() *model.SObjectDescribe {
	return &model.SObjectDescribe{
		Name:        "Account",
		Label:       "Account",
		LabelPlural: "Accounts",
		Searchable:  true,
		KeyPrefix:   "001",
		Fields: []model.DescribeField{
			{Name: "Name", Label: "Account Name", Type: "string", Length: 255},
			{Name: "Industry", Label: "Industry", Type: "picklist"},
			{Name: "Rating__c", Label: "Rating", Type: "double"},
		},
		RecordTypeInfos: []model.RecordTypeInfo{
			{RecordTypeID: "012000000000000AAA", Name: "Master", DeveloperName: "Master", Master: true, Available: true},
		},
		ChildRelationships: []model.ChildRelationship{
			{RelationshipName: "Contacts", ChildSObject: "Contact", Field: "AccountId", CascadeDelete: true},
			{RelationshipName: "", ChildSObject: "AccountHistory", Field: "AccountId"},
		},
	}
}

func TestObjectDataset_Run(t *testing.T) {
	f := newObjectFixture()
	f.describer.On("Describe", mock.Anything, "Account").Return(accountDescribe(), nil)
	f.counter.On("RecordCount", mock.Anything, "Account").Return(int64(42), nil)
	f.queries.On("RunQueries", mock.Anything, mock.MatchedBy(func(q []model.Query) bool {
		return len(q) == 1 && q[0].Tooling && !q[0].QueryMore
	})).Return([]model.RowSet{{Records: []model.Record{{
		"Id":                   "000000000000000AAA",
		"DurableId":            "Account",
		"DeveloperName":        "Account",
		"NamespacePrefix":      nil,
		"InternalSharingModel": "ReadWrite",
		"Fields": subquery(
			map[string]interface{}{"DurableId": "Account.Name", "QualifiedApiName": "Name", "Description": "The name", "IsIndexed": true},
			map[string]interface{}{"DurableId": "Account.Industry", "QualifiedApiName": "Industry"},
			map[string]interface{}{"DurableId": "Account.00N000000000001AAA", "QualifiedApiName": "Rating__c"},
			map[string]interface{}{"DurableId": "Account.Hidden", "QualifiedApiName": "Hidden"},
		),
		"ApexTriggers": subquery(map[string]interface{}{"Id": "01q000000000001AAA"}),
		"Layouts":      subquery(map[string]interface{}{"Id": "00h000000000001", "Name": "Account Layout", "LayoutType": "Standard"}),
		"Limits":       subquery(map[string]interface{}{"DurableId": "Account.CustomFields", "Label": "Custom Fields", "Max": 500.0, "Remaining": 450.0, "Type": "CustomFields"}),
		"FieldSets":    nil,
	}}}}, nil)

	obj, err := f.dataset.Run(context.Background(), "Account")
	require.NoError(t, err)
	require.NotNil(t, obj)

	assert.Equal(t, "Account", obj.ID)
	assert.Equal(t, "Accounts", obj.LabelPlural)
	assert.Equal(t, model.ObjectTypeStandard, obj.TypeID)
	assert.Empty(t, obj.Package)
	assert.Equal(t, int64(42), obj.RecordCount)
	assert.Equal(t, 2, obj.Score.Value)
	assert.Equal(t, "/object//000000000000000AAA/StandardObject", obj.URL)

	require.Len(t, obj.StandardFields, 2)
	assert.Equal(t, "Name", obj.StandardFields[0].ID)
	assert.Equal(t, "Account Name", obj.StandardFields[0].Label)
	assert.Equal(t, "The name", obj.StandardFields[0].Description)
	assert.True(t, obj.StandardFields[0].IsIndexed)
	assert.Equal(t, 255, obj.StandardFields[0].Length)
	assert.Equal(t, "Industry", obj.StandardFields[1].ID)
	assert.Equal(t, []string{"00N000000000001"}, obj.CustomFieldIDs)

	assert.Equal(t, []string{"01q000000000001"}, obj.ApexTriggerIDs)
	require.Len(t, obj.Layouts, 1)
	assert.Equal(t, "Standard", obj.Layouts[0].Type)
	require.Len(t, obj.Limits, 1)
	assert.Equal(t, 50, obj.Limits[0].Used)
	assert.InDelta(t, 0.1, obj.Limits[0].UsedPercentage, 1e-9)

	assert.NotNil(t, obj.FieldSets)
	assert.Empty(t, obj.FieldSets)
	assert.NotNil(t, obj.ValidationRules)
	assert.Empty(t, obj.ValidationRules)
	assert.NotNil(t, obj.WebLinks)
	assert.Empty(t, obj.WebLinks)

	require.Len(t, obj.RecordTypes, 1)
	assert.Equal(t, "012000000000000", obj.RecordTypes[0].ID)
	require.Len(t, obj.Relationships, 1)
	assert.Equal(t, "Contacts", obj.Relationships[0].Name)
	assert.True(t, obj.Relationships[0].IsCascadeDelete)
}

func TestObjectDataset_NotFound(t *testing.T) {
	f := newObjectFixture()
	f.describer.On("Describe", mock.Anything, "Ghost__c").Return(&model.SObjectDescribe{Name: "Ghost__c"}, nil)
	f.counter.On("RecordCount", mock.Anything, "Ghost__c").Return(int64(0), nil)
	f.queries.On("RunQueries", mock.Anything, mock.Anything).Return([]model.RowSet{{Records: []model.Record{}}}, nil)

	obj, err := f.dataset.Run(context.Background(), "Ghost__c")
	require.Error(t, err)
	assert.Nil(t, obj)
	assert.True(t, apperrors.IsNotFound(err))
	assert.Equal(t, 404, apperrors.HTTPStatus(err))
}

func TestObjectDataset_UpstreamFailure(t *testing.T) {
	f := newObjectFixture()
	upstream := errors.New("describe failed")
	f.describer.On("Describe", mock.Anything, "Account").Return(nil, upstream)
	f.counter.On("RecordCount", mock.Anything, "Account").Return(int64(0), nil).Maybe()
	f.queries.On("RunQueries", mock.Anything, mock.Anything).Return([]model.RowSet{{}}, nil).Maybe()

	_, err := f.dataset.Run(context.Background(), "Account")
	assert.ErrorIs(t, err, upstream)
}

func TestObjectDataset_RequiresName(t *testing.T) {
	f := newObjectFixture()
	_, err := f.dataset.Run(context.Background(), " ")
	assert.True(t, apperrors.IsValidation(err))
	f.describer.AssertNotCalled(t, "Describe", mock.Anything, mock.Anything)
}

func TestParseObjectName(t *testing.T) {
	assert.Equal(t, ObjectName{APIName: "Account"}, ParseObjectName("Account"))
	assert.Equal(t, ObjectName{APIName: "Invoice__c"}, ParseObjectName("Invoice__c"))
	assert.Equal(t, ObjectName{APIName: "acme__Invoice__c", Package: "acme"}, ParseObjectName("acme__Invoice__c"))
}

func TestEntityDefinitionQuery_NamespaceFilter(t *testing.T) {
	local := EntityDefinitionQuery(ParseObjectName("Invoice__c"))
	assert.True(t, local.Tooling)
	assert.Contains(t, local.SOQL, "WHERE QualifiedApiName = 'Invoice__c' AND PublisherId IN ('System', '<local>')")
	assert.Contains(t, local.SOQL, "(SELECT Id, Active, Description, ErrorDisplayField, ErrorMessage, ValidationName FROM ValidationRules)")

	packaged := EntityDefinitionQuery(ParseObjectName("acme__Invoice__c"))
	assert.Contains(t, packaged.SOQL, "WHERE QualifiedApiName = 'acme__Invoice__c' AND NamespacePrefix = 'acme'")
	assert.NotContains(t, packaged.SOQL, "PublisherId")

	quoted := EntityDefinitionQuery(ParseObjectName("Bad'Name"))
	assert.Contains(t, quoted.SOQL, `QualifiedApiName = 'Bad\'Name'`)
}
