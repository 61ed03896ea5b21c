package contract

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type sampleCandidate struct{}

func TestNewSubject_ExplicitLabel(t *testing.T) {
	s := NewSubject("payment-gateway", sampleCandidate{}, "Movable")

	assert.Equal(t, "payment-gateway", s.Label)
	assert.Equal(t, []Name{"Movable"}, s.Claims)
	assert.Equal(t, "payment-gateway", s.DisplayLabel())
}

func TestNewSubject_DerivedLabel(t *testing.T) {
	s := NewSubject("", &sampleCandidate{})
	assert.Equal(t, "*contract.sampleCandidate", s.Label)
}

func TestDeriveLabel(t *testing.T) {
	tests := []struct {
		name      string
		candidate any
		expected  string
	}{
		{"nil", nil, "<nil>"},
		{"struct", sampleCandidate{}, "contract.sampleCandidate"},
		{"pointer", &sampleCandidate{}, "*contract.sampleCandidate"},
		{"map", map[string]any{}, "map[string]interface {}"},
		{"int", 42, "int"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, DeriveLabel(tt.candidate))
		})
	}
}

func TestSubject_DisplayLabel_FallsBack(t *testing.T) {
	s := Subject{Candidate: 7}
	assert.Equal(t, "int", s.DisplayLabel())
}

func TestSubject_NoClaims(t *testing.T) {
	s := NewSubject("bare", sampleCandidate{})
	assert.Empty(t, s.Claims)
}
