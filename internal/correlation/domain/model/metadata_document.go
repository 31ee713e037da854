package model

// MetadataDocument is the semi-structured "Metadata" payload attached to a
// record read through the metadata surface.
type MetadataDocument struct {
	doc Record
}

// NewMetadataDocument wraps a raw metadata payload. A nil payload is valid
// and behaves as an empty document.
func NewMetadataDocument(raw map[string]interface{}) MetadataDocument {
	return MetadataDocument{doc: Record(raw)}
}

// MetadataDocumentOf extracts the "Metadata" member of a record.
func MetadataDocumentOf(r Record) MetadataDocument {
	return MetadataDocument{doc: r.Map("Metadata")}
}

// CollectionLen returns the length of the named list, or 0 when the member is
// absent, null or not a list.
func (d MetadataDocument) CollectionLen(name string) int {
	return len(d.doc.List(name))
}

// NameValue is one entry of a name/value list such as processMetadataValues.
type NameValue struct {
	Name  string
	Value string
}

// NameValues reads a list of {name, value: {stringValue}} entries. Entries
// without a name are skipped; an absent list yields nil.
func (d MetadataDocument) NameValues(list string) []NameValue {
	items := d.doc.List(list)
	if len(items) == 0 {
		return nil
	}
	out := make([]NameValue, 0, len(items))
	for _, item := range toRecords(items) {
		name := item.String("name")
		if name == "" {
			continue
		}
		out = append(out, NameValue{Name: name, Value: item.Map("value").String("stringValue")})
	}
	return out
}
