package unmarshal

import (
	"errors"
	"reflect"
	"strings"
	"sync"
	"testing"
	"time"
	"unsafe"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/viant/typedjson/automaton"
	"github.com/viant/typedjson/introspect"
	"github.com/viant/typedjson/iso8601"
	"github.com/viant/typedjson/jsonerr"
	"github.com/viant/typedjson/reader"
	"github.com/viant/typedjson/value"
)

type record struct {
	ID   int      `json:"id"`
	Name string   `json:"name"`
	Tags []string `json:"tags"`
}

type node struct {
	Value int   `json:"value"`
	Next  *node `json:"next"`
}

type level int

const (
	low level = iota
	mid
	high
)

type permission uint8

type task struct {
	Level    level            `json:"level"`
	Wide     level            `json:"wide" jsonc:"enumAs=int16"`
	Fallback level            `json:"fallback" jsonc:"default=Mid"`
	Perms    permission       `json:"perms"`
	Tiny     permission       `json:"tiny" jsonc:"enumAs=int16"`
	Huge     level            `json:"huge" jsonc:"enumAs=uint64"`
	History  []level          `json:"history"`
	Optional *level           `json:"optional"`
	Lookup   map[string]level `json:"lookup"`
}

type address struct {
	City string `json:"city"`
}

type person struct {
	Home address  `json:"home"`
	Work *address `json:"work"`
}

type scalars struct {
	B   bool          `json:"b"`
	I8  int8          `json:"i8"`
	U8  uint8         `json:"u8"`
	I16 int16         `json:"i16"`
	U16 uint16        `json:"u16"`
	I32 int32         `json:"i32"`
	U32 uint32        `json:"u32"`
	I64 int64         `json:"i64"`
	U64 uint64        `json:"u64"`
	U   uint          `json:"u"`
	F32 float32       `json:"f32"`
	F64 float64       `json:"f64"`
	C   value.Char    `json:"c"`
	G   value.GUID    `json:"g"`
	D   value.Decimal `json:"d"`
	Any interface{}   `json:"any"`
	Arr [2]int        `json:"arr"`
}

type stamped struct {
	At     time.Time     `json:"at"`
	For    time.Duration `json:"for"`
	Custom time.Time     `json:"custom" jsonc:"timeLayout=2006/01/02"`
}

type money struct {
	amount   value.Decimal
	currency string
}

func newMoney(amount value.Decimal, currency string) (money, error) {
	if currency == "" {
		return money{}, errors.New("currency is required")
	}
	return money{amount: amount, currency: currency}, nil
}

type wallet struct {
	Balance money  `json:"balance"`
	Owner   string `json:"owner"`
}

type shape interface{ Area() float64 }

type square struct {
	Side float64 `json:"side"`
}

func (s *square) Area() float64 { return s.Side * s.Side }

type drawing struct {
	Shape shape `json:"shape"`
}

type tracked struct {
	ID   int         `json:"id"`
	Name string      `json:"name"`
	Has  *trackedHas `setMarker:"true" json:"-"`
}

type trackedHas struct {
	ID   bool
	Name bool
}

type Audit struct {
	CreatedBy string `json:"createdBy"`
}

type document struct {
	*Audit
	Title string `json:"title"`
}

func enumRegistry(t *testing.T) *introspect.Registry {
	registry := introspect.NewRegistry()
	levels, err := introspect.NewEnumSpec(reflect.TypeOf(level(0)), map[string]uint64{"Low": 0, "Mid": 1, "High": 2})
	require.NoError(t, err)
	registry.RegisterEnum(levels)
	perms, err := introspect.NewEnumSpec(reflect.TypeOf(permission(0)), map[string]uint64{"Read": 1, "Write": 2, "Exec": 4})
	require.NoError(t, err)
	perms.Flags = true
	registry.RegisterEnum(perms)
	return registry
}

func decodeWith[T any](cache *Cache, data string, cfg Config) (T, error) {
	var ret T
	fn, err := cache.Get(reflect.TypeOf(ret), cfg)
	if err != nil {
		return ret, err
	}
	cur := reader.New([]byte(data))
	if err = fn(cur, unsafe.Pointer(&ret), 0); err != nil {
		return ret, err
	}
	cur.SkipWS()
	if !cur.EOF() {
		return ret, jsonerr.New(jsonerr.TrailingData, cur.Pos, "trailing data")
	}
	return ret, nil
}

func decode[T any](data string, cfg Config) (T, error) {
	return decodeWith[T](NewCache(nil), data, cfg)
}

func TestRecord(t *testing.T) {
	canonical := record{ID: 7, Name: "abc", Tags: []string{"x", "y"}}
	var testCases = []struct {
		description string
		input       string
		expect      record
		expectErr   jsonerr.Kind
	}{
		{description: "escaped name", input: `{"id":7,"name":"a\u0062c","tags":["x","y"]}`, expect: canonical},
		{description: "reordered", input: `{"tags":["x","y"],"name":"abc","id":7}`, expect: canonical},
		{description: "subset", input: `{"name":"abc"}`, expect: record{Name: "abc"}},
		{description: "unknown skipped", input: `{"bogus": [1,2,{"x":3}], "id":7,"name":"abc","tags":["x","y"]}`, expect: canonical},
		{description: "unknown last", input: ` { "id" : 7 , "name" : "abc" , "tags" : [ "x" , "y" ] , "bogus" : {"a":[true,null]} } `, expect: canonical},
		{description: "empty", input: `{}`, expect: record{}},
		{description: "empty list", input: `{"tags":[]}`, expect: record{Tags: []string{}}},
		{description: "null list", input: `{"tags":null}`, expect: record{}},
		{description: "null object", input: `null`, expect: record{}},
		{description: "malformed skipped value", input: `{"bogus":[1,}],"id":7}`, expectErr: jsonerr.MalformedNumber},
		{description: "missing colon", input: `{"id" 7}`, expectErr: jsonerr.ExpectedCharacter},
		{description: "trailing comma", input: `{"id":7,}`, expectErr: jsonerr.ExpectedCharacter},
		{description: "truncated", input: `{"id":7`, expectErr: jsonerr.UnexpectedEndOfInput},
		{description: "overflow", input: `{"id":99999999999999999999}`, expectErr: jsonerr.NumberOverflow},
		{description: "trailing", input: `{"id":7} x`, expectErr: jsonerr.TrailingData},
	}

	for _, strategy := range []automaton.Strategy{automaton.Auto, automaton.TrieOnly, automaton.HashOnly} {
		for _, testCase := range testCases {
			description := testCase.description + " " + strategy.String()
			actual, err := decode[record](testCase.input, Config{Matching: strategy})
			if testCase.expectErr != 0 {
				require.Error(t, err, description)
				assert.Equal(t, testCase.expectErr, jsonerr.KindOf(err), description)
				continue
			}
			require.NoError(t, err, description)
			assert.Equal(t, testCase.expect, actual, description)
		}
	}
}

func TestScalars(t *testing.T) {
	input := `{"b":true,"i8":-128,"u8":255,"i16":-32768,"u16":65535,"i32":-2147483648,"u32":4294967295,
		"i64":-9223372036854775808,"u64":18446744073709551615,"u":1,"f32":1.5,"f64":-2.5e-3,"c":"z",
		"g":"00112233-4455-6677-8899-aabbccddeeff","d":12.50,"any":{"k":[1,"v",false,null]},"arr":[3]}`
	actual, err := decode[scalars](input, Config{})
	require.NoError(t, err)
	assert.True(t, actual.B)
	assert.EqualValues(t, -128, actual.I8)
	assert.EqualValues(t, 255, actual.U8)
	assert.EqualValues(t, -32768, actual.I16)
	assert.EqualValues(t, 65535, actual.U16)
	assert.EqualValues(t, -2147483648, actual.I32)
	assert.EqualValues(t, uint32(4294967295), actual.U32)
	assert.EqualValues(t, int64(-9223372036854775808), actual.I64)
	assert.EqualValues(t, uint64(18446744073709551615), actual.U64)
	assert.EqualValues(t, 1, actual.U)
	assert.EqualValues(t, float32(1.5), actual.F32)
	assert.InDelta(t, -0.0025, actual.F64, 1e-12)
	assert.Equal(t, value.Char('z'), actual.C)
	assert.Equal(t, value.MustParseGUID("00112233-4455-6677-8899-aabbccddeeff"), actual.G)
	assert.Equal(t, "12.50", actual.D.String())
	assert.Equal(t, map[string]interface{}{"k": []interface{}{1.0, "v", false, nil}}, actual.Any)
	assert.Equal(t, [2]int{3, 0}, actual.Arr)
}

func TestArrayOverflow(t *testing.T) {
	_, err := decode[[2]int](`[1,2,3]`, Config{})
	assert.Equal(t, jsonerr.ExpectedCharacter, jsonerr.KindOf(err))
}

func TestNumberBoundaries(t *testing.T) {
	var testCases = []struct {
		description string
		input       string
		expect      uint8
		expectErr   jsonerr.Kind
	}{
		{description: "max", input: `255`, expect: 255},
		{description: "overflow", input: `256`, expectErr: jsonerr.NumberOverflow},
		{description: "leading zero", input: `00`, expectErr: jsonerr.MalformedNumber},
		{description: "leading zero digit", input: `01`, expectErr: jsonerr.MalformedNumber},
	}
	for _, testCase := range testCases {
		actual, err := decode[uint8](testCase.input, Config{})
		if testCase.expectErr != 0 {
			assert.Equal(t, testCase.expectErr, jsonerr.KindOf(err), testCase.description)
			continue
		}
		require.NoError(t, err, testCase.description)
		assert.Equal(t, testCase.expect, actual, testCase.description)
	}
	_, err := decode[int8](`-129`, Config{})
	assert.Equal(t, jsonerr.NumberOverflow, jsonerr.KindOf(err))
}

func chain(depth int) string {
	builder := strings.Builder{}
	for i := 0; i < depth; i++ {
		builder.WriteString(`{"value":1,"next":`)
	}
	builder.WriteString("null")
	builder.WriteString(strings.Repeat("}", depth))
	return builder.String()
}

func TestRecursion(t *testing.T) {
	actual, err := decode[node](chain(50), Config{})
	require.NoError(t, err)
	count := 0
	for n := &actual; n != nil; n = n.Next {
		count++
	}
	assert.Equal(t, 50, count)

	_, err = decode[node](chain(50), Config{MaxDepth: 10})
	assert.Equal(t, jsonerr.RecursionLimitExceeded, jsonerr.KindOf(err))

	_, err = decode[node](chain(DefaultMaxDepth+1), Config{})
	assert.Equal(t, jsonerr.RecursionLimitExceeded, jsonerr.KindOf(err))

	_, err = decode[node](`{"value":1,"bogus":`+strings.Repeat("[", 20)+strings.Repeat("]", 20)+`}`, Config{MaxDepth: 10})
	assert.Equal(t, jsonerr.RecursionLimitExceeded, jsonerr.KindOf(err), "skipped values count toward depth")
}

func TestCache_BuildsOnce(t *testing.T) {
	var testCases = []struct {
		description string
		rType       reflect.Type
		expectErr   bool
	}{
		{description: "success", rType: reflect.TypeOf(node{})},
		{description: "failure", rType: reflect.TypeOf(map[int]string{}), expectErr: true},
	}
	for _, testCase := range testCases {
		cache := NewCache(nil)
		const callers = 32
		fns := make([]Func, callers)
		errs := make([]error, callers)
		start := make(chan struct{})
		wg := sync.WaitGroup{}
		for i := 0; i < callers; i++ {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				<-start
				fns[i], errs[i] = cache.Get(testCase.rType, Config{})
			}(i)
		}
		close(start)
		wg.Wait()
		assert.EqualValues(t, 1, cache.Stats().Builds, testCase.description)
		for i := 1; i < callers; i++ {
			assert.True(t, errs[i] == errs[0], testCase.description)
			assert.Equal(t, reflect.ValueOf(fns[0]).Pointer(), reflect.ValueOf(fns[i]).Pointer(), testCase.description)
		}
		if testCase.expectErr {
			assert.Equal(t, jsonerr.UnsupportedKeyType, jsonerr.KindOf(errs[0]), testCase.description)
			assert.EqualValues(t, 1, cache.Stats().Failures, testCase.description)
		} else {
			assert.NoError(t, errs[0], testCase.description)
		}
	}
}

func TestCache_PublishesReusedTypes(t *testing.T) {
	cache := NewCache(nil)
	actual, err := decodeWith[person](cache, `{"home":{"city":"a"},"work":{"city":"b"}}`, Config{})
	require.NoError(t, err)
	assert.Equal(t, "a", actual.Home.City)
	assert.Equal(t, "b", actual.Work.City)
	assert.EqualValues(t, 1, cache.Stats().Builds)
	assert.EqualValues(t, 2, cache.Stats().Entries)

	_, err = decodeWith[address](cache, `{"city":"c"}`, Config{})
	require.NoError(t, err)
	assert.EqualValues(t, 1, cache.Stats().Builds, "address routine comes from the person build")

	_, err = decodeWith[address](cache, `{"city":"c"}`, Config{MaxDepth: 5})
	require.NoError(t, err)
	assert.EqualValues(t, 2, cache.Stats().Builds, "options are part of the key")
}

func TestEnums(t *testing.T) {
	registry := enumRegistry(t)
	var testCases = []struct {
		description string
		input       string
		policy      EnumPolicy
		expect      task
		expectErr   jsonerr.Kind
	}{
		{description: "names", input: `{"level":"High","perms":"Read"}`, expect: task{Level: high, Perms: 1}},
		{description: "case insensitive", input: `{"level":"mID"}`, expect: task{Level: mid}},
		{description: "flags", input: `{"perms":"Read, Exec"}`, expect: task{Perms: 5}},
		{description: "empty flags", input: `{"perms":""}`, expect: task{}},
		{description: "integer directive", input: `{"wide":2}`, expect: task{Wide: high}},
		{description: "integer directive overflow", input: `{"wide":40000}`, expectErr: jsonerr.NumberOverflow},
		{description: "wider directive in range", input: `{"tiny":255}`, expect: task{Tiny: 255}},
		{description: "wider directive above range", input: `{"tiny":300}`, expectErr: jsonerr.NumberOverflow},
		{description: "signed directive below unsigned range", input: `{"tiny":-1}`, expectErr: jsonerr.NumberOverflow},
		{description: "unsigned directive in range", input: `{"huge":9223372036854775807}`, expect: task{Huge: 9223372036854775807}},
		{description: "unsigned directive above signed range", input: `{"huge":9223372036854775808}`, expectErr: jsonerr.NumberOverflow},
		{description: "default", input: `{"fallback":"Unknown"}`, expect: task{Fallback: mid}},
		{description: "default disabled", input: `{"fallback":"Unknown"}`, policy: FailOnUnknownEnum, expectErr: jsonerr.UnrecognizedEnumValue},
		{description: "unknown", input: `{"level":"Extreme"}`, expectErr: jsonerr.UnrecognizedEnumValue},
		{description: "unknown flag", input: `{"perms":"Read,Fly"}`, expectErr: jsonerr.UnrecognizedEnumValue},
		{description: "list", input: `{"history":["Low","High"]}`, expect: task{History: []level{low, high}}},
		{description: "map", input: `{"lookup":{"a":"Mid"}}`, expect: task{Lookup: map[string]level{"a": mid}}},
		{description: "number for name", input: `{"level":1}`, expectErr: jsonerr.ExpectedCharacter},
	}
	for _, testCase := range testCases {
		actual, err := decode[task](testCase.input, Config{Registry: registry, Enums: testCase.policy})
		if testCase.expectErr != 0 {
			assert.Equal(t, testCase.expectErr, jsonerr.KindOf(err), testCase.description)
			continue
		}
		require.NoError(t, err, testCase.description)
		assert.Equal(t, testCase.expect, actual, testCase.description)
	}

	actual, err := decode[task](`{"optional":"Mid"}`, Config{Registry: registry})
	require.NoError(t, err)
	require.NotNil(t, actual.Optional)
	assert.Equal(t, mid, *actual.Optional)
}

func TestTimeFormats(t *testing.T) {
	var testCases = []struct {
		description string
		format      DateFormat
		input       string
		expectAt    time.Time
		expectFor   time.Duration
		expectErr   jsonerr.Kind
	}{
		{description: "iso", input: `{"at":"2024-02-29T10:20:30Z","for":"PT1H30M"}`, expectAt: time.Date(2024, 2, 29, 10, 20, 30, 0, time.UTC), expectFor: 90 * time.Minute},
		{description: "iso invalid day", input: `{"at":"2023-02-29"}`, expectErr: jsonerr.InvalidCalendarValue},
		{description: "iso month 13", input: `{"at":"2024-13-01"}`, expectErr: jsonerr.InvalidCalendarValue},
		{description: "rfc1123", format: RFC1123, input: `{"at":"Thu, 29 Feb 2024 10:20:30 UTC","for":"1.02:03:04.5"}`, expectAt: time.Date(2024, 2, 29, 10, 20, 30, 0, time.UTC), expectFor: 26*time.Hour + 3*time.Minute + 4*time.Second + 500*time.Millisecond},
		{description: "milliseconds", format: MillisecondsSinceUnixEpoch, input: `{"at":1709202030000,"for":1500}`, expectAt: time.Date(2024, 2, 29, 10, 20, 30, 0, time.UTC), expectFor: 1500 * time.Millisecond},
		{description: "seconds", format: SecondsSinceUnixEpoch, input: `{"at":1709202030,"for":90}`, expectAt: time.Date(2024, 2, 29, 10, 20, 30, 0, time.UTC), expectFor: 90 * time.Second},
		{description: "microsoft", format: MicrosoftMilliseconds, input: `{"at":"\/Date(1709202030000)\/","for":"-00:00:01"}`, expectAt: time.Date(2024, 2, 29, 10, 20, 30, 0, time.UTC), expectFor: -time.Second},
		{description: "seconds not string", format: SecondsSinceUnixEpoch, input: `{"at":"1709202030"}`, expectErr: jsonerr.MalformedNumber},
	}
	for _, testCase := range testCases {
		actual, err := decode[stamped](testCase.input, Config{DateFormat: testCase.format})
		if testCase.expectErr != 0 {
			assert.Equal(t, testCase.expectErr, jsonerr.KindOf(err), testCase.description)
			continue
		}
		require.NoError(t, err, testCase.description)
		assert.True(t, testCase.expectAt.Equal(actual.At), testCase.description+" "+actual.At.String())
		assert.Equal(t, testCase.expectFor, actual.For, testCase.description)
	}

	actual, err := decode[stamped](`{"at":"2024-02-29T10:20:30-00:00","custom":"2024/03/01"}`, Config{})
	require.NoError(t, err)
	assert.Same(t, iso8601.Unspecified, actual.At.Location())
	assert.Equal(t, time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), actual.Custom)
}

func TestParseMicrosoftDate(t *testing.T) {
	var testCases = []struct {
		description  string
		input        string
		expect       time.Time
		expectOffset int
		expectErr    jsonerr.Kind
	}{
		{description: "utc", input: "/Date(0)/", expect: time.Unix(0, 0)},
		{description: "negative", input: "/Date(-1000)/", expect: time.Unix(-1, 0)},
		{description: "offset", input: "/Date(0+0130)/", expect: time.Unix(0, 0), expectOffset: 5400},
		{description: "negative offset", input: "/Date(0-0100)/", expect: time.Unix(0, 0), expectOffset: -3600},
		{description: "bad offset", input: "/Date(0+2500)/", expectErr: jsonerr.InvalidCalendarValue},
		{description: "short offset", input: "/Date(0+01)/", expectErr: jsonerr.ExpectedCharacter},
		{description: "no digits", input: "/Date()/", expectErr: jsonerr.ExpectedCharacter},
		{description: "wrapper", input: "Date(0)", expectErr: jsonerr.ExpectedCharacter},
	}
	for _, testCase := range testCases {
		actual, err := ParseMicrosoftDate([]byte(testCase.input))
		if testCase.expectErr != 0 {
			assert.Equal(t, testCase.expectErr, jsonerr.KindOf(err), testCase.description)
			continue
		}
		require.NoError(t, err, testCase.description)
		assert.True(t, testCase.expect.Equal(actual), testCase.description)
		_, offset := actual.Zone()
		assert.Equal(t, testCase.expectOffset, offset, testCase.description)
	}
}

func TestParseTimeSpan(t *testing.T) {
	var testCases = []struct {
		description string
		input       string
		expect      time.Duration
		expectErr   jsonerr.Kind
	}{
		{description: "clock", input: "01:02:03", expect: time.Hour + 2*time.Minute + 3*time.Second},
		{description: "days", input: "2.00:00:00", expect: 48 * time.Hour},
		{description: "fraction", input: "00:00:00.0000001", expect: 100 * time.Nanosecond},
		{description: "negative", input: "-00:01:00", expect: -time.Minute},
		{description: "hour range", input: "24:00:00", expectErr: jsonerr.InvalidCalendarValue},
		{description: "minute range", input: "00:60:00", expectErr: jsonerr.InvalidCalendarValue},
		{description: "one digit minutes", input: "00:1:00", expectErr: jsonerr.ExpectedCharacter},
		{description: "long fraction", input: "00:00:00.12345678", expectErr: jsonerr.ExpectedCharacter},
		{description: "truncated", input: "00:00", expectErr: jsonerr.UnexpectedEndOfInput},
		{description: "suffix", input: "00:00:00Z", expectErr: jsonerr.ExpectedCharacter},
	}
	for _, testCase := range testCases {
		actual, err := ParseTimeSpan([]byte(testCase.input))
		if testCase.expectErr != 0 {
			assert.Equal(t, testCase.expectErr, jsonerr.KindOf(err), testCase.description)
			continue
		}
		require.NoError(t, err, testCase.description)
		assert.Equal(t, testCase.expect, actual, testCase.description)
	}
}

func TestPolicies(t *testing.T) {
	var testCases = []struct {
		description string
		input       string
		cfg         Config
		expect      record
		expectErr   jsonerr.Kind
	}{
		{description: "unknown ignored", input: `{"extra":1,"id":1}`, expect: record{ID: 1}},
		{description: "unknown rejected", input: `{"extra":1,"id":1}`, cfg: Config{Unknown: ErrorOnUnknown}, expectErr: jsonerr.UnknownMember},
		{description: "duplicate last wins", input: `{"id":1,"id":2}`, expect: record{ID: 2}},
		{description: "duplicate rejected", input: `{"id":1,"id":2}`, cfg: Config{Duplicates: ErrorOnDuplicate}, expectErr: jsonerr.DuplicateMember},
		{description: "compat null", input: `{"id":null,"name":null}`, expect: record{}},
		{description: "strict null", input: `{"id":null}`, cfg: Config{Nulls: StrictNulls}, expectErr: jsonerr.ExpectedToken},
		{description: "strict null list allowed", input: `{"tags":null}`, cfg: Config{Nulls: StrictNulls}, expect: record{}},
		{description: "case sensitive", input: `{"ID":1}`, expect: record{}},
		{description: "ignore case", input: `{"ID":1,"NAME":"n"}`, cfg: Config{IgnoreCase: true}, expect: record{ID: 1, Name: "n"}},
		{description: "name format", input: `{"ID":1}`, cfg: Config{CaseKey: "upper", NameFormat: strings.ToUpper}, expect: record{}},
	}
	for _, testCase := range testCases {
		actual, err := decode[record](testCase.input, testCase.cfg)
		if testCase.expectErr != 0 {
			assert.Equal(t, testCase.expectErr, jsonerr.KindOf(err), testCase.description)
			continue
		}
		require.NoError(t, err, testCase.description)
		assert.Equal(t, testCase.expect, actual, testCase.description)
	}
}

func TestNameFormat(t *testing.T) {
	type plain struct {
		UserName string
		Explicit string `json:"explicit"`
	}
	actual, err := decode[plain](`{"USERNAME":"u","explicit":"e"}`, Config{CaseKey: "upper", NameFormat: strings.ToUpper})
	require.NoError(t, err)
	assert.Equal(t, plain{UserName: "u", Explicit: "e"}, actual)
}

func TestConstructor(t *testing.T) {
	registry := introspect.NewRegistry()
	spec, err := introspect.NewConstructorSpec(newMoney, "amount", "currency")
	require.NoError(t, err)
	registry.RegisterConstructor(spec)

	actual, err := decode[wallet](`{"owner":"o","balance":{"currency":"EUR","amount":10.5,"extra":true}}`, Config{Registry: registry})
	require.NoError(t, err)
	assert.Equal(t, "o", actual.Owner)
	assert.Equal(t, "EUR", actual.Balance.currency)
	assert.Equal(t, "10.5", actual.Balance.amount.String())

	_, err = decode[wallet](`{"balance":{"amount":1}}`, Config{Registry: registry})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "currency is required")
}

func TestInterfaceImplementation(t *testing.T) {
	registry := introspect.NewRegistry()
	require.NoError(t, registry.RegisterImplementation(reflect.TypeOf((*shape)(nil)).Elem(), reflect.TypeOf(&square{})))
	actual, err := decode[drawing](`{"shape":{"side":3}}`, Config{Registry: registry})
	require.NoError(t, err)
	require.NotNil(t, actual.Shape)
	assert.Equal(t, 9.0, actual.Shape.Area())

	actual, err = decode[drawing](`{"shape":null}`, Config{Registry: registry})
	require.NoError(t, err)
	assert.Nil(t, actual.Shape)

	_, err = decode[drawing](`{"shape":{}}`, Config{Registry: introspect.NewRegistry()})
	assert.Equal(t, jsonerr.UnsupportedShape, jsonerr.KindOf(err))
}

func TestPresenceAndEmbedding(t *testing.T) {
	actual, err := decode[tracked](`{"name":"n"}`, Config{})
	require.NoError(t, err)
	require.NotNil(t, actual.Has)
	assert.True(t, actual.Has.Name)
	assert.False(t, actual.Has.ID)

	untouched, err := decode[tracked](`{}`, Config{})
	require.NoError(t, err)
	assert.Nil(t, untouched.Has)

	doc, err := decode[document](`{"title":"t","createdBy":"me"}`, Config{})
	require.NoError(t, err)
	require.NotNil(t, doc.Audit)
	assert.Equal(t, "me", doc.CreatedBy)
	assert.Equal(t, "t", doc.Title)
}

func TestSliceReuse(t *testing.T) {
	fn, err := NewCache(nil).Get(reflect.TypeOf([]*address{}), Config{})
	require.NoError(t, err)
	items := make([]*address, 3, 8)
	items[0] = &address{City: "stale"}
	cur := reader.New([]byte(`[{"city":"a"},null]`))
	require.NoError(t, fn(cur, unsafe.Pointer(&items), 0))
	require.Len(t, items, 2)
	assert.Equal(t, "a", items[0].City)
	assert.Nil(t, items[1])

	grown := []int{}
	intFn, err := NewCache(nil).Get(reflect.TypeOf(grown), Config{})
	require.NoError(t, err)
	cur = reader.New([]byte(`[1,2,3,4,5,6,7,8,9,10]`))
	require.NoError(t, intFn(cur, unsafe.Pointer(&grown), 0))
	assert.Equal(t, []int{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}, grown)
}
