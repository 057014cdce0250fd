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

import (
	"errors"
	"fmt"
)

// Domain validation errors
var (
	// ErrMissingTicketNumber indicates a ticket without a stable identifier.
	ErrMissingTicketNumber = errors.New("ticket number is required")

	// ErrTextTooShort indicates the effective text is below the minimum length.
	ErrTextTooShort = errors.New("text below minimum length")
)

// TextLengthError reports a validation failure with the trimmed length that
// was provided, so callers can surface it to the requester.
type TextLengthError struct {
	MinLength      int
	ProvidedLength int
}

func (e *TextLengthError) Error() string {
	return fmt.Sprintf("summary must be at least %d characters, got %d", e.MinLength, e.ProvidedLength)
}

// Unwrap lets errors.Is match against ErrTextTooShort.
func (e *TextLengthError) Unwrap() error {
	return ErrTextTooShort
}
