package intro

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGenerateInquiry(t *testing.T) {
	tests := []struct {
		name string
		in   Input
		want string
	}{
		{
			name: "explicit care type wins over overlap",
			in: Input{
				SeekerName:        "Maria",
				SeekerCareTypes:   []string{"Companion"},
				ProviderCareTypes: []string{"Companion", "Memory"},
				CareType:          "Memory",
				CareRecipient:     "Mother",
				Urgency:           "Within a week",
			},
			want: "Maria is looking for memory care for their mother. Timeline: within a week.",
		},
		{
			name: "care type inferred from intersection",
			in: Input{
				SeekerName:        "Maria",
				SeekerCareTypes:   []string{"Respite", "companion"},
				ProviderCareTypes: []string{"Companion"},
			},
			want: "Maria is looking for companion care.",
		},
		{
			name: "falls back to seeker's first declared type",
			in: Input{
				SeekerName:        "Maria",
				SeekerCareTypes:   []string{"Respite"},
				ProviderCareTypes: []string{"Memory"},
			},
			want: "Maria is looking for respite care.",
		},
		{
			name: "generic fallback with no care types",
			in: Input{
				SeekerName: "Maria",
			},
			want: "Maria is looking for senior care.",
		},
		{
			name: "anonymous seeker",
			in: Input{
				CareType:      "companion",
				CareRecipient: "Father",
			},
			want: "A care seeker is looking for companion care for their father.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Generate(tt.in))
		})
	}
}

func TestGenerateOutreach(t *testing.T) {
	in := Input{
		SeekerName:        "Maria",
		ProviderName:      "Sunrise Home Care",
		SeekerCareTypes:   []string{"Memory"},
		ProviderCareTypes: []string{"memory", "companion"},
		ProviderOutreach:  true,
	}
	assert.Equal(t,
		"Sunrise Home Care is interested in connecting about your memory care needs.",
		Generate(in))

	in.ProviderName = ""
	in.SeekerCareTypes = nil
	assert.Equal(t,
		"A care provider is interested in connecting about your care needs.",
		Generate(in))
}

func TestGenerateIsDeterministic(t *testing.T) {
	in := Input{
		SeekerName:      "Maria",
		SeekerCareTypes: []string{"Companion"},
		CareRecipient:   "Mother",
		Urgency:         "ASAP",
	}
	first := Generate(in)
	for i := 0; i < 5; i++ {
		assert.Equal(t, first, Generate(in))
	}
}
