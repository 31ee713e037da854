package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCaseSafeID(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "18 char id is truncated", in: "3011x000000AbCdEAA", want: "3011x000000AbCd"},
		{name: "15 char id unchanged", in: "3011x000000AbCd", want: "3011x000000AbCd"},
		{name: "absent stays absent", in: "", want: ""},
		{name: "other lengths unchanged", in: "Account", want: "Account"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CaseSafeID(tt.in)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, got, CaseSafeID(got), "normalization must be idempotent")
		})
	}
}

func TestCaseInsensitiveID_RoundTrip(t *testing.T) {
	short := "001A0000006Vm9r"
	long := CaseInsensitiveID(short)

	assert.Len(t, long, 18)
	assert.Equal(t, "001A0000006Vm9rIAC", long)
	assert.Equal(t, short, CaseSafeID(long))
	assert.Equal(t, long, CaseInsensitiveID(long))
	assert.True(t, SameID(short, long))
}

func TestCaseInsensitiveID_ChecksumDistinguishesCase(t *testing.T) {
	upper := CaseInsensitiveID("300AAAAAAAAAAAA")
	lower := CaseInsensitiveID("300aaaaaaaaaaaa")
	assert.NotEqual(t, upper[15:], lower[15:])
	assert.False(t, SameID(upper, lower))
}

func TestCaseInsensitiveID_IgnoresOtherLengths(t *testing.T) {
	assert.Equal(t, "", CaseInsensitiveID(""))
	assert.Equal(t, "abc", CaseInsensitiveID("abc"))
}
