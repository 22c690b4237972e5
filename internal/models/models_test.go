package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFilterMode(t *testing.T) {
	tests := []struct {
		in      string
		want    FilterMode
		wantErr bool
	}{
		{in: "", want: FilterNone},
		{in: "none", want: FilterNone},
		{in: "final", want: FilterFinal},
		{in: "final_or_approved", want: FilterFinalOrApproved},
		{in: "FINAL", wantErr: true},
		{in: "approved", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseFilterMode(tt.in)
			if tt.wantErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), "Must be 'none', 'final', or 'final_or_approved'")
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSessionValid(t *testing.T) {
	assert.True(t, Session{Token: "t", Username: "alice"}.Valid())
	assert.False(t, Session{Token: "t"}.Valid())
	assert.False(t, Session{Username: "alice"}.Valid())
}

func TestPreviewRequirementCount(t *testing.T) {
	p := &Preview{Groups: []RequirementGroup{
		{Form: "Login", Requirements: []Requirement{{ReqID: "R-1"}, {ReqID: "R-2"}}},
		{Form: "Reports"},
		{Form: "Export", Requirements: []Requirement{{ReqID: "R-3"}}},
	}}
	assert.Equal(t, 3, p.RequirementCount())
}
