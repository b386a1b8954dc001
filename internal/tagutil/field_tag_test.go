package tagutil

import (
	"reflect"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveFieldTag(t *testing.T) {
	type meta struct {
		TraceID string
	}
	type payload struct {
		meta
		UserName  string    `format:"caseFormat=lowerUnderscore"`
		CreatedAt time.Time `format:"timeLayout=2006-01-02,name=created_at"`
		Secret    string    `format:"ignore=true"`
		Skipped   string    `json:"-"`
		Renamed   string    `json:"renamed" format:"name=other"`
		Level     int       `json:"level" jsonc:"name=lvl,enumAs=int16"`
		Plain     string
		Embedded  meta `json:"embedded"`
	}
	rType := reflect.TypeOf(payload{})
	var testCases = []struct {
		field          string
		expectName     string
		expectExplicit bool
		expectIgnore   bool
		expectInline   bool
		expectLayout   string
	}{
		{field: "meta", expectName: "meta", expectInline: true},
		{field: "UserName", expectName: "user_name", expectExplicit: true},
		{field: "CreatedAt", expectName: "created_at", expectExplicit: true, expectLayout: "2006-01-02"},
		{field: "Secret", expectName: "Secret", expectIgnore: true},
		{field: "Skipped", expectName: "Skipped", expectIgnore: true},
		{field: "Renamed", expectName: "renamed", expectExplicit: true},
		{field: "Level", expectName: "lvl", expectExplicit: true},
		{field: "Plain", expectName: "Plain"},
		{field: "Embedded", expectName: "embedded", expectExplicit: true},
	}
	for _, testCase := range testCases {
		sf, ok := rType.FieldByName(testCase.field)
		require.True(t, ok, testCase.field)
		actual, err := ResolveFieldTag(sf)
		require.NoError(t, err, testCase.field)
		assert.Equal(t, testCase.expectName, actual.Name, testCase.field)
		assert.Equal(t, testCase.expectExplicit, actual.Explicit, testCase.field)
		assert.Equal(t, testCase.expectIgnore, actual.Ignore, testCase.field)
		assert.Equal(t, testCase.expectInline, actual.Inline, testCase.field)
		assert.Equal(t, testCase.expectLayout, actual.TimeLayout, testCase.field)
	}
	sf, _ := rType.FieldByName("Level")
	actual, err := ResolveFieldTag(sf)
	require.NoError(t, err)
	assert.Equal(t, reflect.Int16, actual.Directive.EnumAs)
}

func TestResolveFieldTag_InvalidDirective(t *testing.T) {
	type payload struct {
		Level int `jsonc:"enumAs=complex"`
	}
	sf := reflect.TypeOf(payload{}).Field(0)
	_, err := ResolveFieldTag(sf)
	assert.Error(t, err)
}
