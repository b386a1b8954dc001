package typedjson

import (
	"github.com/viant/tagly/format/text"
	"github.com/viant/typedjson/internal/lru"
)

type caseKey struct {
	caseFormat text.CaseFormat
	name       string
}

// formattedNames caches transformed member names across builds.
var formattedNames = lru.New[caseKey, string](2048)

type caseFormatTransformer struct {
	caseFormat text.CaseFormat
}

func newCaseFormatTransformer(caseFormat text.CaseFormat) caseFormatTransformer {
	return caseFormatTransformer{caseFormat: caseFormat}
}

func (c caseFormatTransformer) Transform(fieldName string) string {
	if c.caseFormat == "" {
		return fieldName
	}
	return formattedNames.GetOrCompute(caseKey{caseFormat: c.caseFormat, name: fieldName}, c.format)
}

func (c caseFormatTransformer) format(key caseKey) string {
	if key.name == "ID" {
		switch c.caseFormat {
		case text.CaseFormatLower, text.CaseFormatLowerCamel, text.CaseFormatLowerUnderscore:
			return "id"
		}
	}
	src := text.DetectCaseFormat(key.name)
	if !src.IsDefined() {
		src = text.CaseFormatUpperCamel
	}
	return src.Format(key.name, c.caseFormat)
}
