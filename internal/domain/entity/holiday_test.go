package entity

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseHolidayRule(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    HolidayRule
		wantErr bool
	}{
		{name: "Should parse a fixed date", input: "12/25", want: HolidayRule{Kind: HolidayFixed, Month: time.December, Day: 25}},
		{name: "Should parse an nth weekday", input: "11/4/Thursday", want: HolidayRule{Kind: HolidayFromStart, Month: time.November, Nth: 4, Weekday: time.Thursday}},
		{name: "Should parse a weekday counted from the end", input: " 5/-1/mon ", want: HolidayRule{Kind: HolidayFromEnd, Month: time.May, Nth: 1, Weekday: time.Monday}},
		{name: "Should reject month 13", input: "13/1", wantErr: true},
		{name: "Should reject day 32", input: "1/32", wantErr: true},
		{name: "Should reject a sixth occurrence", input: "1/6/Monday", wantErr: true},
		{name: "Should reject occurrence zero", input: "1/0/Monday", wantErr: true},
		{name: "Should reject an unknown weekday", input: "1/1/Caturday", wantErr: true},
		{name: "Should reject a bare number", input: "25", wantErr: true},
		{name: "Should reject words", input: "dec/25", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseHolidayRule(tt.input)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidHolidayRule)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestHolidayRule_StringParsesBack(t *testing.T) {
	for _, input := range []string{"1/1", "11/4/Thursday", "5/-1/Monday", "2/-5/Friday"} {
		rule, err := ParseHolidayRule(input)
		require.NoError(t, err)
		assert.Equal(t, input, rule.String())
	}
}

func TestHolidayRule_Validate(t *testing.T) {
	assert.NoError(t, HolidayRule{Kind: HolidayFixed, Month: time.February, Day: 29}.Validate())
	assert.ErrorIs(t, HolidayRule{Kind: "easter", Month: time.April}.Validate(), ErrInvalidHolidayRule)
	assert.ErrorIs(t, HolidayRule{Kind: HolidayFromStart, Month: time.April, Nth: 1, Weekday: 7}.Validate(), ErrInvalidHolidayRule)
	assert.ErrorIs(t, HolidayRule{Kind: HolidayFixed, Month: 0, Day: 1}.Validate(), ErrInvalidHolidayRule)
}
