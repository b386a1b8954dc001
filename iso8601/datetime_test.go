package iso8601

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/viant/typedjson/jsonerr"
)

func TestParseDateTime(t *testing.T) {
	var testCases = []struct {
		description string
		input       string
		expect      time.Time
		expectKind  jsonerr.Kind
	}{
		{description: "leap day", input: "2024-02-29", expect: time.Date(2024, 2, 29, 0, 0, 0, 0, Unspecified)},
		{description: "non leap day", input: "2023-02-29", expectKind: jsonerr.InvalidCalendarValue},
		{description: "month 13", input: "2024-13-01", expectKind: jsonerr.InvalidCalendarValue},
		{description: "day zero", input: "2024-01-00", expectKind: jsonerr.InvalidCalendarValue},
		{description: "year month", input: "2024-05", expect: time.Date(2024, 5, 1, 0, 0, 0, 0, Unspecified)},
		{description: "basic date", input: "20240517", expect: time.Date(2024, 5, 17, 0, 0, 0, 0, Unspecified)},
		{description: "ordinal", input: "2024-060", expect: time.Date(2024, 2, 29, 0, 0, 0, 0, Unspecified)},
		{description: "basic ordinal", input: "2023365", expect: time.Date(2023, 12, 31, 0, 0, 0, 0, Unspecified)},
		{description: "ordinal out of range", input: "2023-366", expectKind: jsonerr.InvalidCalendarValue},
		{description: "week date", input: "2009-W01-1", expect: time.Date(2008, 12, 29, 0, 0, 0, 0, Unspecified)},
		{description: "basic week date", input: "2009W537", expect: time.Date(2010, 1, 3, 0, 0, 0, 0, Unspecified)},
		{description: "week without day", input: "2024-W10", expect: time.Date(2024, 3, 4, 0, 0, 0, 0, Unspecified)},
		{description: "week 53 in 52 week year", input: "2023-W53", expectKind: jsonerr.InvalidCalendarValue},
		{description: "utc", input: "2024-05-17T10:20:30Z", expect: time.Date(2024, 5, 17, 10, 20, 30, 0, time.UTC)},
		{description: "fraction", input: "2024-05-17T10:20:30.1234567Z", expect: time.Date(2024, 5, 17, 10, 20, 30, 123456700, time.UTC)},
		{description: "comma fraction", input: "2024-05-17T10:20:30,5Z", expect: time.Date(2024, 5, 17, 10, 20, 30, 500000000, time.UTC)},
		{description: "long fraction rounds", input: "2024-05-17T10:20:30.1234567895Z", expect: time.Date(2024, 5, 17, 10, 20, 30, 123456790, time.UTC)},
		{description: "minute fraction", input: "2024-05-17T10:20.5Z", expect: time.Date(2024, 5, 17, 10, 20, 30, 0, time.UTC)},
		{description: "hour only", input: "2024-05-17T10", expect: time.Date(2024, 5, 17, 10, 0, 0, 0, Unspecified)},
		{description: "basic time", input: "20240517T102030Z", expect: time.Date(2024, 5, 17, 10, 20, 30, 0, time.UTC)},
		{description: "offset", input: "2024-05-17T10:20:30+02:00", expect: time.Date(2024, 5, 17, 10, 20, 30, 0, time.FixedZone("", 7200))},
		{description: "basic offset", input: "2024-05-17T10:20:30-0530", expect: time.Date(2024, 5, 17, 10, 20, 30, 0, time.FixedZone("", -19800))},
		{description: "hour offset", input: "2024-05-17T10:20:30+01", expect: time.Date(2024, 5, 17, 10, 20, 30, 0, time.FixedZone("", 3600))},
		{description: "midnight end of day", input: "2024-12-31T24:00:00Z", expect: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)},
		{description: "hour 24 with minutes", input: "2024-12-31T24:01:00Z", expectKind: jsonerr.InvalidCalendarValue},
		{description: "hour 25", input: "2024-12-31T25:00:00Z", expectKind: jsonerr.InvalidCalendarValue},
		{description: "second 60", input: "2024-12-31T23:59:60Z", expectKind: jsonerr.InvalidCalendarValue},
		{description: "offset out of range", input: "2024-12-31T10:00:00+24:00", expectKind: jsonerr.InvalidCalendarValue},
		{description: "trailing", input: "2024-12-31x", expectKind: jsonerr.ExpectedCharacter},
		{description: "short year", input: "202", expectKind: jsonerr.ExpectedCharacter},
		{description: "truncated", input: "2024-12-", expectKind: jsonerr.UnexpectedEndOfInput},
	}
	for _, testCase := range testCases {
		actual, err := ParseDateTime([]byte(testCase.input))
		if testCase.expectKind != 0 {
			require.Error(t, err, testCase.description)
			assert.Equal(t, testCase.expectKind, jsonerr.KindOf(err), testCase.description)
			continue
		}
		require.NoError(t, err, testCase.description)
		assert.True(t, testCase.expect.Equal(actual), "%v: %v != %v", testCase.description, testCase.expect, actual)
		_, expectOffset := testCase.expect.Zone()
		_, actualOffset := actual.Zone()
		assert.Equal(t, expectOffset, actualOffset, testCase.description)
	}
}

func TestParseDateTime_Offsets(t *testing.T) {
	unknown, err := ParseDateTime([]byte("2024-05-17T10:00:00-00:00"))
	require.NoError(t, err)
	assert.Same(t, Unspecified, unknown.Location())

	zulu, err := ParseDateTime([]byte("2024-05-17T10:00:00Z"))
	require.NoError(t, err)
	assert.Same(t, time.UTC, zulu.Location())

	zero, err := ParseDateTime([]byte("2024-05-17T10:00:00+00:00"))
	require.NoError(t, err)
	assert.Same(t, time.UTC, zero.Location())

	local, err := ParseDateTime([]byte("2024-05-17T10:00:00"))
	require.NoError(t, err)
	assert.Same(t, Unspecified, local.Location())
	assert.NotSame(t, zulu.Location(), unknown.Location())
}

func TestWeeksIn(t *testing.T) {
	assert.Equal(t, 53, WeeksIn(2020))
	assert.Equal(t, 52, WeeksIn(2023))
	assert.Equal(t, 53, WeeksIn(2026))
	assert.Equal(t, 29, DaysIn(2000, 2))
	assert.Equal(t, 28, DaysIn(1900, 2))
}
