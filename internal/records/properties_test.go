package records

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

const greeterBlock = `TRANSFORMER_NAME: example.my-package.MyGreeter
VERSION: 1
CATEGORY: Integrations,Web
ALIASES: Greeter  Hello
VISIBLE: yes
PYTHON_COMPATIBILITY: 36
# a comment line
PARAMETER_NAME: FIRST_NAME
PARAMETER_TYPE: TEXT
CHANGE_LOG_START
  1. Initial release
CHANGE_LOG_END
REPLACED_BY:
TEMPLATE_START
VERSION: 99
`

func TestDecodeProperties(t *testing.T) {
	props := DecodeProperties(strings.Split(greeterBlock, "\n"))

	name, ok := props.Get("TRANSFORMER_NAME")
	assert.True(t, ok)
	assert.Equal(t, "example.my-package.MyGreeter", name)

	version, _ := props.Get("VERSION")
	assert.Equal(t, "1", version, "content after TEMPLATE_START is ignored")

	py, _ := props.Get("PYTHON_COMPATIBILITY")
	assert.Equal(t, "36", py)

	_, ok = props.Get("PARAMETER_NAME")
	assert.False(t, ok)
	_, ok = props.Values["PARAMETER_TYPE"]
	assert.False(t, ok)

	_, ok = props.Get("REPLACED_BY")
	assert.False(t, ok, "empty values count as absent")
	_, present := props.Values["REPLACED_BY"]
	assert.True(t, present)

	assert.Equal(t, "  1. Initial release\n", props.Changes)
}

func TestDecodePropertiesEdgeCases(t *testing.T) {
	tests := []struct {
		name    string
		lines   []string
		key     string
		value   string
		present bool
		changes string
	}{
		{
			name:    "last value wins",
			lines:   []string{"VERSION: 1", "VERSION: 2"},
			key:     "VERSION",
			value:   "2",
			present: true,
		},
		{
			name:  "key with spaces is not a property",
			lines: []string{"NOT A KEY: value"},
			key:   "NOT A KEY",
		},
		{
			name:    "crlf values are trimmed",
			lines:   []string{"VERSION: 3\r"},
			key:     "VERSION",
			value:   "3",
			present: true,
		},
		{
			name:    "empty change log",
			lines:   []string{"CHANGE_LOG_START", "CHANGE_LOG_END", "VERSION: 1"},
			key:     "VERSION",
			value:   "1",
			present: true,
			changes: "",
		},
		{
			name:    "change log lines are not properties",
			lines:   []string{"CHANGE_LOG_START", "VERSION: 7", "CHANGE_LOG_END"},
			key:     "VERSION",
			changes: "VERSION: 7\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			props := DecodeProperties(tt.lines)
			v, ok := props.Get(tt.key)
			assert.Equal(t, tt.present, ok)
			assert.Equal(t, tt.value, v)
			assert.Equal(t, tt.changes, props.Changes)
		})
	}
}

func TestSplitList(t *testing.T) {
	assert.Equal(t, []string{"Integrations", "Web"}, SplitList("Integrations, Web,", ","))
	assert.Equal(t, []string{"Greeter", "Hello"}, SplitList(" Greeter  Hello ", " "))
	assert.Equal(t, []string{}, SplitList("", ","))
}
