// Package intro derives the human-readable summary sentence shown at the top
// of an accepted connection. Generation is pure and deterministic: the same
// input always yields the same string, because it is re-run on every intake
// edit.
package intro

import "strings"

// Input carries the structured fields the generator draws from. Explicit
// intake fields win over anything inferred from care-type sets.
type Input struct {
	SeekerName        string
	ProviderName      string
	SeekerCareTypes   []string
	ProviderCareTypes []string
	CareType          string
	CareRecipient     string
	Urgency           string
	ProviderOutreach  bool
}

// Generate produces the intro sentence.
//
// Care type priority: explicit intake override, then the first
// case-insensitive intersection of the seeker's and provider's care types,
// then the seeker's first declared type, then a generic fallback.
func Generate(in Input) string {
	careType := resolveCareType(in)

	if in.ProviderOutreach {
		return outreachSentence(in, careType)
	}
	return inquirySentence(in, careType)
}

func resolveCareType(in Input) string {
	if in.CareType != "" {
		return strings.ToLower(strings.TrimSpace(in.CareType))
	}
	for _, st := range in.SeekerCareTypes {
		for _, pt := range in.ProviderCareTypes {
			if strings.EqualFold(strings.TrimSpace(st), strings.TrimSpace(pt)) {
				return strings.ToLower(strings.TrimSpace(st))
			}
		}
	}
	if len(in.SeekerCareTypes) > 0 {
		return strings.ToLower(strings.TrimSpace(in.SeekerCareTypes[0]))
	}
	return ""
}

func inquirySentence(in Input, careType string) string {
	name := in.SeekerName
	if name == "" {
		name = "A care seeker"
	}

	var b strings.Builder
	b.WriteString(name)
	if careType != "" {
		b.WriteString(" is looking for ")
		b.WriteString(careType)
		b.WriteString(" care")
	} else {
		b.WriteString(" is looking for senior care")
	}
	if in.CareRecipient != "" {
		b.WriteString(" for their ")
		b.WriteString(strings.ToLower(strings.TrimSpace(in.CareRecipient)))
	}
	b.WriteString(".")
	if in.Urgency != "" {
		b.WriteString(" Timeline: ")
		b.WriteString(strings.ToLower(strings.TrimSpace(in.Urgency)))
		b.WriteString(".")
	}
	return b.String()
}

func outreachSentence(in Input, careType string) string {
	name := in.ProviderName
	if name == "" {
		name = "A care provider"
	}

	var b strings.Builder
	b.WriteString(name)
	if careType != "" {
		b.WriteString(" is interested in connecting about your ")
		b.WriteString(careType)
		b.WriteString(" care needs.")
	} else {
		b.WriteString(" is interested in connecting about your care needs.")
	}
	return b.String()
}
