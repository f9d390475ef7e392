// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package manifest

import (
	"time"
)

// TimestampLayout is the ISO-8601 UTC layout used for every manifest timestamp
const TimestampLayout = "2006-01-02T15:04:05Z"

// Timestamp is an ISO-8601 UTC string with second precision
type Timestamp string

// Clock returns the current time. Tests replace it to control timestamps.
var Clock = func() time.Time {
	return time.Now().UTC()
}

// Now returns the current time as a Timestamp
func Now() Timestamp {
	return FromTime(Clock())
}

// FromTime formats t as a Timestamp
func FromTime(t time.Time) Timestamp {
	return Timestamp(t.UTC().Format(TimestampLayout))
}

// Time parses the timestamp. RFC 3339 values with offsets or fractions are accepted.
func (ts Timestamp) Time() (time.Time, error) {
	t, err := time.Parse(TimestampLayout, string(ts))
	if err == nil {
		return t, nil
	}
	return time.Parse(time.RFC3339Nano, string(ts))
}

// IsValid reports whether the timestamp parses
func (ts Timestamp) IsValid() bool {
	_, err := ts.Time()
	return err == nil
}

// Before reports whether ts is strictly earlier than other.
// Unparseable values never compare as before.
func (ts Timestamp) Before(other Timestamp) bool {
	a, err := ts.Time()
	if err != nil {
		return false
	}
	b, err := other.Time()
	if err != nil {
		return false
	}
	return a.Before(b)
}
