// Package timezone keeps every timestamp the API stamps or compares in the hall's configured
// zone (APP_TIMEZONE, an IANA name such as "Asia/Jakarta"). Due dates, overdue cutoffs and
// monthly report buckets are all computed from timezone.Now, so a wrong zone shifts the day
// an invoice turns overdue.
package timezone
