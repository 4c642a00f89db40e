package audit

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSchema_RootFields(t *testing.T) {
	s := Schema(VariantPoC)

	assert.Equal(t, "object", s.Type)
	assert.Equal(t, []string{"techStack", "threatModel", "reconPlan", "vulnerabilityLogic", "bugBountyReports", "summary"}, s.Required)
	for _, name := range s.Required {
		assert.Contains(t, s.Properties, name)
	}
	assert.Equal(t, "array", s.Properties["threatModel"].Type)
}

func TestSchema_SeverityEnum(t *testing.T) {
	threat := Schema(VariantPoC).Properties["threatModel"].Items
	require.NotNil(t, threat)

	assert.Equal(t, []any{"Critical", "High", "Medium", "Low"}, threat.Properties["severity"].Enum)
	assert.Equal(t, []string{"vector", "severity", "description"}, threat.Required)
}

func TestSchema_VariantRequiredReportFields(t *testing.T) {
	base := []string{"title", "vulnerabilityType", "impact", "stepsToReproduce", "validationPayload"}

	tests := []struct {
		variant Variant
		want    []string
	}{
		{VariantPoC, append(append([]string{}, base...), "pocExplainer", "expectedOutcome")},
		{VariantStandard, base},
	}

	for _, tt := range tests {
		t.Run(tt.variant.String(), func(t *testing.T) {
			report := Schema(tt.variant).Properties["bugBountyReports"].Items
			require.NotNil(t, report)
			assert.Equal(t, tt.want, report.Required)
			assert.Contains(t, report.Properties, "pocExplainer")
			assert.Contains(t, report.Properties, "expectedOutcome")
		})
	}
}

func TestSchema_IsPure(t *testing.T) {
	assert.Equal(t, Schema(VariantPoC), Schema(VariantPoC))
	assert.Equal(t, Schema(VariantStandard), Schema(VariantStandard))
}

func TestVariant_InstructionMatchesSchema(t *testing.T) {
	poc := VariantPoC.SystemInstruction()
	assert.Contains(t, poc, "pocExplainer")
	assert.Contains(t, poc, "expectedOutcome")
	assert.Contains(t, poc, "1. Tone: Clinical")
	assert.Contains(t, poc, "5. Validation Payload:")
	assert.Contains(t, poc, "DISCLAIMER:")

	standard := VariantStandard.SystemInstruction()
	assert.NotContains(t, standard, "pocExplainer")
	assert.NotContains(t, standard, "expectedOutcome")
	assert.Contains(t, standard, "4. Validation Payload:")
	assert.Contains(t, standard, "DISCLAIMER:")
}

func TestVariant_Prompt(t *testing.T) {
	assert.Equal(t,
		`Conduct a full security audit, including "Proof of Concept" (PoC) validation details for: `+ecommerceDescription,
		VariantPoC.Prompt(ecommerceDescription))
	assert.Equal(t, "Conduct a full security audit for: x", VariantStandard.Prompt("x"))
}

func TestParseVariant(t *testing.T) {
	tests := []struct {
		in      string
		want    Variant
		wantErr bool
	}{
		{"", VariantPoC, false},
		{"poc", VariantPoC, false},
		{"PoC", VariantPoC, false},
		{" standard ", VariantStandard, false},
		{"full", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseVariant(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
