package console

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

type stringerField struct{ s string }

func (f stringerField) String() string { return f.s }

// errorAndStringer implements both error and fmt.Stringer.
type errorAndStringer struct{}

func (errorAndStringer) Error() string  { return "from Error" }
func (errorAndStringer) String() string { return "from String" }

func TestRenderField(t *testing.T) {
	testCases := []struct {
		name   string
		field  any
		expect string
	}{
		{"nil", nil, ""},
		{"string", "plain", "plain"},
		{"error", errors.New("context canceled"), "context canceled"},
		{"stringer", stringerField{"77%"}, "77%"},
		{"error wins over stringer", errorAndStringer{}, "from Error"},
		{"int", 42, "42"},
		{"float", 0.25, "0.25"},
		{"bool", true, "true"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expect, renderField(tc.field))
		})
	}
}

func TestRenderContentJoinsFields(t *testing.T) {
	lines := renderContent([]any{"epoch", 3, "of", 10}, " ", false, false)

	assert.Equal(t, []Line{{Text: "epoch 3 of 10"}}, lines)
}

func TestRenderContentDropsEmptyFields(t *testing.T) {
	lines := renderContent([]any{"a", nil, "", "c"}, "-", false, false)

	// Absent fields produce no separator either.
	assert.Equal(t, []Line{{Text: "a-c"}}, lines)
}

func TestRenderContentSplitsOnNewlines(t *testing.T) {
	lines := renderContent([]any{"one\ntwo", "three"}, " ", true, false)

	assert.Equal(t, []Line{
		{Text: "one", Closed: true},
		{Text: "two three", Closed: true},
	}, lines)
}

func TestRenderContentEmptyIsOneBlankLine(t *testing.T) {
	assert.Equal(t,
		[]Line{{Text: ""}},
		renderContent(nil, " ", false, false))

	assert.Equal(t,
		[]Line{{Text: ""}},
		renderContent([]any{nil, ""}, " ", false, false))
}

func TestRenderContentDeletedHasNoLines(t *testing.T) {
	assert.Empty(t, renderContent([]any{"gone"}, " ", true, true))
}
