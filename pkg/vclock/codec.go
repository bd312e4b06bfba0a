// codec.go converts clocks to and from their canonical textual form:
//
//	{"<replica-id>":<non-negative-integer>, ...}
//
// The grammar is a strict subset of a JSON object (string keys, unsigned
// integer values, no nesting), so parsing rides on encoding/json's token
// stream rather than a hand-written lexer. The token walk is what lets us
// reject things json.Unmarshal would silently accept: duplicate replica
// IDs, non-integer counters, and negative values.
//
// String produces the canonical encoding: entries sorted by replica ID,
// no whitespace. Parse accepts any ordering and whitespace; round-tripping
// through Parse and String always yields an Equal clock.
package vclock

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// Parse decodes the canonical textual form into a clock. "{}" decodes to
// the empty clock. Fails with ErrParse on malformed brace/quote structure,
// non-integer or negative counters, duplicate or empty replica IDs, and
// leading or trailing garbage; a counter literal too large for uint64
// fails with ErrOverflow.
func Parse(text string) (VectorClock, error) {
	dec := json.NewDecoder(strings.NewReader(text))
	dec.UseNumber()

	tok, err := dec.Token()
	if err != nil {
		return VectorClock{}, fmt.Errorf("%w: %v", ErrParse, err)
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return VectorClock{}, fmt.Errorf("%w: expected '{', got %v", ErrParse, tok)
	}

	entries := make(map[string]uint64)
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return VectorClock{}, fmt.Errorf("%w: %v", ErrParse, err)
		}
		replica, ok := keyTok.(string)
		if !ok {
			return VectorClock{}, fmt.Errorf("%w: replica id must be a quoted string", ErrParse)
		}
		if replica == "" {
			return VectorClock{}, fmt.Errorf("%w: empty replica id", ErrParse)
		}
		if _, dup := entries[replica]; dup {
			return VectorClock{}, fmt.Errorf("%w: duplicate replica id %q", ErrParse, replica)
		}

		valTok, err := dec.Token()
		if err != nil {
			return VectorClock{}, fmt.Errorf("%w: %v", ErrParse, err)
		}
		num, ok := valTok.(json.Number)
		if !ok {
			return VectorClock{}, fmt.Errorf("%w: counter for %q must be an integer", ErrParse, replica)
		}
		count, err := strconv.ParseUint(num.String(), 10, 64)
		if err != nil {
			var numErr *strconv.NumError
			if errors.As(err, &numErr) && errors.Is(numErr.Err, strconv.ErrRange) {
				return VectorClock{}, fmt.Errorf("%w: counter %s for %q exceeds uint64", ErrOverflow, num, replica)
			}
			return VectorClock{}, fmt.Errorf("%w: counter %s for %q is not a non-negative integer", ErrParse, num, replica)
		}
		entries[replica] = count
	}

	// Consume the closing brace, then require EOF: trailing garbage after
	// the object is a malformed clock, not extra input to ignore.
	if _, err := dec.Token(); err != nil {
		return VectorClock{}, fmt.Errorf("%w: %v", ErrParse, err)
	}
	if _, err := dec.Token(); err != io.EOF {
		return VectorClock{}, fmt.Errorf("%w: trailing garbage after clock", ErrParse)
	}

	return VectorClock{entries: entries}, nil
}

// String encodes the clock in canonical form: present entries only
// (explicit zeros included), sorted by replica ID, no whitespace. The
// empty clock encodes as "{}".
func (c VectorClock) String() string {
	if len(c.entries) == 0 {
		return "{}"
	}
	// json.Marshal sorts map keys, which is exactly the canonical order,
	// and handles replica-id escaping.
	encoded, err := json.Marshal(c.entries)
	if err != nil {
		// A map[string]uint64 cannot fail to marshal.
		panic(fmt.Sprintf("vclock: encode: %v", err))
	}
	return string(encoded)
}
