package tagutil

import (
	"reflect"
	"sync"

	"github.com/viant/tagly/format"
	ftime "github.com/viant/tagly/format/time"
	"github.com/viant/typedjson/internal/directive"
)

// FormatFieldTag captures the `format` tag attributes used by the decoder.
type FormatFieldTag struct {
	Name          string
	HasNameOrCase bool
	Ignore        bool
	Inline        bool
	TimeLayout    string
}

// ResolvedFieldTag is the effective decoding metadata of a struct field.
type ResolvedFieldTag struct {
	Name       string
	Explicit   bool
	Ignore     bool
	Inline     bool
	TimeLayout string
	Directive  *directive.Directive
}

type cachedFormatTag struct {
	name       string
	caseFormat string
	hasName    bool
	ignore     bool
	inline     bool
	timeLayout string
	dateFormat string
}

var formatTagCache sync.Map // map[string]cachedFormatTag

// ParseFormatFieldTag parses the `format` tag of sf.
func ParseFormatFieldTag(sf reflect.StructField, baseName string) FormatFieldTag {
	ret := FormatFieldTag{}
	cached, ok := loadCachedFormatTag(string(sf.Tag))
	if !ok {
		return ret
	}
	ret.Ignore = cached.ignore
	ret.Inline = cached.inline
	if cached.timeLayout != "" {
		ret.TimeLayout = cached.timeLayout
	} else if cached.dateFormat != "" {
		ret.TimeLayout = ftime.DateFormatToTimeLayout(cached.dateFormat)
	}
	if cached.hasName || cached.caseFormat != "" {
		tag := &format.Tag{Name: cached.name, CaseFormat: cached.caseFormat}
		if tag.Name == "" {
			tag.Name = baseName
		}
		ret.Name = tag.CaseFormatName("")
		ret.HasNameOrCase = ret.Name != ""
	}
	return ret
}

// ResolveFieldTag resolves precedence among jsonc, json and format tags:
// a jsonc name wins over an explicit json name, which wins over a format
// name or case; json:"-" or format ignore excludes the field; anonymous
// fields or format inline flatten it.
func ResolveFieldTag(sf reflect.StructField) (ResolvedFieldTag, error) {
	jTag := ParseJSONTag(sf.Name, sf.Tag.Get("json"))
	fTag := ParseFormatFieldTag(sf, jTag.Name)
	dTag, err := directive.ParseTag(sf.Tag)
	if err != nil {
		return ResolvedFieldTag{}, err
	}
	name := jTag.Name
	explicit := jTag.Explicit
	if !jTag.Explicit && fTag.HasNameOrCase {
		name = fTag.Name
		explicit = true
	}
	if dTag.Name != "" {
		name = dTag.Name
		explicit = true
	}
	layout := fTag.TimeLayout
	if dTag.TimeLayout != "" {
		layout = dTag.TimeLayout
	}
	return ResolvedFieldTag{
		Name:       name,
		Explicit:   explicit,
		Ignore:     jTag.Transient || fTag.Ignore,
		Inline:     (sf.Anonymous && !jTag.Explicit) || fTag.Inline,
		TimeLayout: layout,
		Directive:  dTag,
	}, nil
}

func loadCachedFormatTag(rawTag string) (cachedFormatTag, bool) {
	if v, ok := formatTagCache.Load(rawTag); ok {
		cached := v.(cachedFormatTag)
		return cached, cached != cachedFormatTag{}
	}
	tag, err := format.Parse(reflect.StructTag(rawTag))
	if err != nil || tag == nil {
		formatTagCache.Store(rawTag, cachedFormatTag{})
		return cachedFormatTag{}, false
	}
	cached := cachedFormatTag{
		name:       tag.Name,
		caseFormat: tag.CaseFormat,
		hasName:    tag.Name != "",
		ignore:     tag.Ignore,
		inline:     tag.Inline,
		timeLayout: tag.TimeLayout,
		dateFormat: tag.DateFormat,
	}
	formatTagCache.Store(rawTag, cached)
	return cached, true
}
