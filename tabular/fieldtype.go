package tabular

import (
	"strings"

	"github.com/italia/vocabtools/datapackage"
	"github.com/italia/vocabtools/types"
)

// xsdFieldTypes maps the local names of XSD datatypes to table schema
// field types. Datatypes not listed are strings.
var xsdFieldTypes = map[string]string{
	"integer":            datapackage.TypeInteger,
	"int":                datapackage.TypeInteger,
	"long":               datapackage.TypeInteger,
	"short":              datapackage.TypeInteger,
	"byte":               datapackage.TypeInteger,
	"nonNegativeInteger": datapackage.TypeInteger,
	"nonPositiveInteger": datapackage.TypeInteger,
	"positiveInteger":    datapackage.TypeInteger,
	"negativeInteger":    datapackage.TypeInteger,
	"unsignedLong":       datapackage.TypeInteger,
	"unsignedInt":        datapackage.TypeInteger,
	"unsignedShort":      datapackage.TypeInteger,
	"unsignedByte":       datapackage.TypeInteger,
	"decimal":            datapackage.TypeNumber,
	"double":             datapackage.TypeNumber,
	"float":              datapackage.TypeNumber,
	"boolean":            datapackage.TypeBoolean,
	"date":               datapackage.TypeDate,
	"dateTime":           datapackage.TypeDateTime,
	"dateTimeStamp":      datapackage.TypeDateTime,
	"time":               datapackage.TypeTime,
	"gYear":              datapackage.TypeYear,
	"gYearMonth":         datapackage.TypeYearMonth,
	"duration":           datapackage.TypeDuration,
}

// fieldNameTypes fixes the type of well-known columns whatever their
// context entry says.
var fieldNameTypes = map[string]string{
	"id":    datapackage.TypeString,
	"url":   datapackage.TypeString,
	"level": datapackage.TypeInteger,
}

// InferFieldType returns the table schema type of a column from its name
// and its context entry.
func InferFieldType(name string, entry interface{}) string {
	if fieldType, has := fieldNameTypes[name]; has {
		return fieldType
	}
	definition, is := entry.(map[string]interface{})
	if !is {
		return datapackage.TypeString
	}
	datatype, _ := definition["@type"].(string)
	if fieldType, has := xsdFieldTypes[xsdLocalName(datatype)]; has {
		return fieldType
	}
	return datapackage.TypeString
}

func xsdLocalName(datatype string) string {
	switch {
	case strings.HasPrefix(datatype, types.XSD):
		return strings.TrimPrefix(datatype, types.XSD)
	case strings.HasPrefix(datatype, "xsd:"):
		return strings.TrimPrefix(datatype, "xsd:")
	}
	return ""
}
