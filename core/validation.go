// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package core

import "strings"

// DefaultMinTextLength is the default minimum effective text length.
// Observed deployments vary between 3 and 10 characters; 10 is the default
// and the value is configurable per installation.
const DefaultMinTextLength = 10

// TextPolicy controls how ticket text is assembled and validated before
// embedding.
type TextPolicy struct {
	// MinLength is the minimum length of the trimmed effective text.
	MinLength int

	// IncludeNotes appends notes to the summary when building the text that
	// is validated and embedded. When false only the summary is used; notes
	// are stored either way.
	IncludeNotes bool
}

// DefaultTextPolicy returns the policy used when none is configured.
func DefaultTextPolicy() TextPolicy {
	return TextPolicy{MinLength: DefaultMinTextLength}
}

// EffectiveText assembles the text to embed for a ticket under the policy.
// The result is whitespace-trimmed.
func (p TextPolicy) EffectiveText(summary, notes string) string {
	text := strings.TrimSpace(summary)
	if p.IncludeNotes {
		if n := strings.TrimSpace(notes); n != "" {
			if text != "" {
				text += "\n" + n
			} else {
				text = n
			}
		}
	}
	return text
}

// Validate checks the trimmed effective text against the minimum length.
// Returns a *TextLengthError carrying the provided length on failure.
func (p TextPolicy) Validate(text string) error {
	min := p.MinLength
	if min <= 0 {
		min = DefaultMinTextLength
	}
	trimmed := strings.TrimSpace(text)
	if len(trimmed) < min {
		return &TextLengthError{MinLength: min, ProvidedLength: len(trimmed)}
	}
	return nil
}
