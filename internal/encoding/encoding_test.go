package encoding

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/gubarz/pitanja/internal/parser"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleFile = `@PITANJA_FILE sample
@PITANJE zaokruzi
??? Which are <prime> numbers?
@+ 2
@- 4
@+ 7
---===---
@PITANJE da-ne
??? Is the sky blue?
@DA
---===---
@PITANJE dopuni
??? ___ is the capital of ___
@2 France
@1 Paris
@1 paris
@true yes
---===---
@PITANJE zaokruzi
??? Pick   none
@- only wrong
---===---
`

func sampleDocument(t *testing.T) *parser.Document {
	t.Helper()
	doc, err := parser.ParseReader(strings.NewReader(sampleFile))
	require.NoError(t, err)
	return doc
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		name     string
		expected Format
		wantErr  bool
	}{
		{"", FormatJSON, false},
		{"JSON", FormatJSON, false},
		{"yml", FormatYAML, false},
		{"yaml", FormatYAML, false},
		{"toml", FormatTOML, false},
		{"xml", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f, err := ParseFormat(tt.name)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, f)
		})
	}
}

func TestEncodeJSONCompact(t *testing.T) {
	doc, err := parser.Parse([]string{
		"@PITANJA_FILE sample",
		"@PITANJE da-ne",
		"??? Is the sky blue?",
		"@DA",
		"---===---",
	})
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, Encode(&buf, doc, FormatJSON, Options{}))
	assert.Equal(t,
		`{"filename":"sample","questions":[{"type":"da-ne","question":"Is the sky blue?","rightAnswer":true}]}`+"\n",
		buf.String())
}

func TestEncodeJSONVariants(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Encode(&buf, sampleDocument(t), FormatJSON, Options{}))
	out := buf.String()

	assert.Contains(t, out, `"rightAnswers":["2","7"],"wrongAnswers":["4"]`)
	assert.Contains(t, out, `"rightAnswers":{"2":["France"],"1":["Paris","paris"],"true":["yes"]}`)
	assert.Contains(t, out, `"question":"Which are <prime> numbers?"`)
	assert.Contains(t, out, `"rightAnswers":[],"wrongAnswers":["only wrong"]`)
}

func TestRoundTrip(t *testing.T) {
	for _, f := range []Format{FormatJSON, FormatYAML} {
		for _, pretty := range []bool{false, true} {
			name := string(f)
			if pretty {
				name += " pretty"
			}
			t.Run(name, func(t *testing.T) {
				doc := sampleDocument(t)

				var buf bytes.Buffer
				require.NoError(t, Encode(&buf, doc, f, Options{Pretty: pretty}))

				decoded, err := Decode(&buf, f)
				require.NoError(t, err)
				assert.Equal(t, doc, decoded)
			})
		}
	}
}

func TestRoundTripEmptyDocument(t *testing.T) {
	doc, err := parser.Parse([]string{"@PITANJA_FILE empty"})
	require.NoError(t, err)

	for _, f := range []Format{FormatJSON, FormatYAML} {
		var buf bytes.Buffer
		require.NoError(t, Encode(&buf, doc, f, Options{}))
		decoded, err := Decode(&buf, f)
		require.NoError(t, err)
		assert.Equal(t, doc, decoded)
	}
}

func TestEncodeYAMLKeepsKeyOrder(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Encode(&buf, sampleDocument(t), FormatYAML, Options{}))
	out := buf.String()

	assert.Contains(t, out, "filename: sample")
	first := strings.Index(out, `"2":`)
	second := strings.Index(out, `"1":`)
	require.NotEqual(t, -1, first)
	require.NotEqual(t, -1, second)
	assert.Less(t, first, second)
	assert.Contains(t, out, `"true":`)
}

func TestEncodeTOML(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Encode(&buf, sampleDocument(t), FormatTOML, Options{Pretty: true}))
	out := buf.String()

	assert.Contains(t, out, `filename = "sample"`)
	assert.Equal(t, 4, strings.Count(out, "[[questions]]"))
	assert.Contains(t, out, `type = "dopuni"`)
	assert.Contains(t, out, "rightAnswer = true")

	_, err := Decode(&buf, FormatTOML)
	assert.True(t, errors.Is(err, ErrDecodeUnsupported))
}

func TestDecodeJSONRejectsUnknownType(t *testing.T) {
	_, err := Decode(strings.NewReader(`{"filename":"x","questions":[{"type":"esej","question":"q"}]}`), FormatJSON)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "esej")
}
