// Package tick quantizes wall-clock time into integer ticks and renders them
// as the fixed-width timestamp section of a WID.
//
// A tick is either whole seconds or milliseconds since the Unix epoch. The
// textual form is always UTC and always zero-padded:
//
//	sec: YYYYMMDDTHHMMSS
//	ms:  YYYYMMDDTHHMMSSmmm
//
// ParseCalendar is the inverse of Format. It is total over malformed input:
// bad digits or impossible calendar values yield ErrInvalidTimestamp rather
// than a panic.
package tick
