package salesforce

import (
	"net/url"
	"strings"

	"github.com/vinodmerwade/OrgCheck/internal/correlation/domain/model"
	"github.com/vinodmerwade/OrgCheck/internal/correlation/domain/repository"
)

const objectManager = "/lightning/setup/ObjectManager/"

// SetupURLBuilder builds links to the setup pages of an org.
type SetupURLBuilder struct {
	base string
}

var _ repository.URLBuilder = SetupURLBuilder{}

// NewSetupURLBuilder prefixes every link with instanceURL. An empty
// instanceURL yields relative links.
func NewSetupURLBuilder(instanceURL string) SetupURLBuilder {
	return SetupURLBuilder{base: strings.TrimRight(instanceURL, "/")}
}

func classicAddress(page, id string) string {
	return "/lightning/setup/" + page + "/page?address=" + url.QueryEscape("/"+id)
}

// SetupURL returns the setup link of an entity. Object scoped kinds take the
// object durable id as first context value; objects take the definition id
// and the object type.
func (b SetupURLBuilder) SetupURL(kind model.EntityKind, id string, context ...string) string {
	at := func(i int) string {
		if i < len(context) {
			return context[i]
		}
		return ""
	}
	var path string
	switch kind {
	case model.KindFlowDefinition:
		path = classicAddress("Flows", id)
	case model.KindFlowVersion:
		path = "/builder_platform_interaction/flowBuilder.app?flowId=" + url.QueryEscape(id)
	case model.KindObject:
		switch at(1) {
		case model.ObjectTypeCustomSetting:
			path = classicAddress("CustomSettings", at(0))
		case model.ObjectTypeCustomMetadata:
			path = classicAddress("CustomMetadata", at(0))
		case model.ObjectTypePlatformEvent:
			path = classicAddress("EventObjects", at(0))
		default:
			path = objectManager + at(0) + "/Details/view"
		}
	case model.KindField:
		path = objectManager + at(0) + "/FieldsAndRelationships/" + id + "/view"
	case model.KindFieldSet:
		path = objectManager + at(0) + "/FieldSets/" + id + "/view"
	case model.KindLayout:
		path = objectManager + at(0) + "/PageLayouts/" + id + "/view"
	case model.KindWebLink:
		path = objectManager + at(0) + "/ButtonsLinksActions/" + id + "/view"
	case model.KindRecordType:
		path = objectManager + at(0) + "/RecordTypes/" + id + "/view"
	case model.KindValidationRule:
		path = classicAddress("ObjectManager", id)
	default:
		if id == "" {
			return ""
		}
		path = "/" + id
	}
	return b.base + path
}
