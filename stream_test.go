package typedjson

import (
	"bytes"
	"io"
	"strings"
	"testing"
	"testing/iotest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/viant/typedjson/jsonerr"
)

func TestDecoder(t *testing.T) {
	var testCases = []struct {
		description string
		input       string
		oneByte     bool
		expect      []item
	}{
		{
			description: "values separated by whitespace",
			input:       "{\"id\":1,\"name\":\"a\"}\n{\"id\":2,\"tags\":[\"x\"]}  {\"id\":3}\n",
			expect:      []item{{ID: 1, Name: "a"}, {ID: 2, Tags: []string{"x"}}, {ID: 3}},
		},
		{
			description: "one byte reads",
			input:       `{"id":10,"name":"split"} {"id":11}`,
			oneByte:     true,
			expect:      []item{{ID: 10, Name: "split"}, {ID: 11}},
		},
		{
			description: "value larger than buffer",
			input:       `{"id":1,"name":"` + strings.Repeat("n", 3*streamBufferSize) + `"}`,
			expect:      []item{{ID: 1, Name: strings.Repeat("n", 3*streamBufferSize)}},
		},
		{
			description: "empty stream",
			input:       " \n ",
		},
	}
	for _, testCase := range testCases {
		var r io.Reader = strings.NewReader(testCase.input)
		if testCase.oneByte {
			r = iotest.OneByteReader(r)
		}
		decoder := NewDecoder(r)
		var actual []item
		for {
			var value item
			err := decoder.Decode(&value)
			if err == io.EOF {
				break
			}
			if !assert.NoError(t, err, testCase.description) {
				break
			}
			actual = append(actual, value)
		}
		assert.Equal(t, testCase.expect, actual, testCase.description)
	}
}

func TestDecoder_Numbers(t *testing.T) {
	decoder := NewDecoder(iotest.OneByteReader(bytes.NewReader([]byte("12 345 6789"))))
	var actual []int
	for {
		var value int
		err := decoder.Decode(&value)
		if err == io.EOF {
			break
		}
		require.NoError(t, err)
		actual = append(actual, value)
	}
	assert.Equal(t, []int{12, 345, 6789}, actual)
}

func TestDecoder_Errors(t *testing.T) {
	decoder := NewDecoder(strings.NewReader(`{"id":1`))
	var value item
	err := decoder.Decode(&value)
	assert.True(t, jsonerr.Is(err, jsonerr.UnexpectedEndOfInput))

	decoder = NewDecoder(strings.NewReader(`{"id":01}`))
	err = decoder.Decode(&value)
	assert.True(t, jsonerr.Is(err, jsonerr.MalformedNumber))

	decoder = NewDecoder(strings.NewReader(`{}`))
	assert.True(t, jsonerr.Is(decoder.Decode(nil), jsonerr.NilDestination))

	decoder = NewDecoder(strings.NewReader(`{"value":1,"other":2}`), WithMode(ModeStrict))
	var strict holder
	assert.True(t, jsonerr.Is(decoder.Decode(&strict), jsonerr.UnknownMember))
}
