package logutil

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/cespare/xxhash/v2"
)

type (
	// Redactor masks the values of sensitive fields in key=value encoded
	// text (form bodies, query strings) before the text reaches a log
	// line. It is a stateless transform, safe for concurrent use.
	Redactor struct {
		re        *regexp.Regexp
		redaction string
	}
)

// NewRedactor builds a Redactor for the given field names, replacing
// each matched value with redaction. separator is the character between
// key=value pairs (usually "&" or ";").
func NewRedactor(fields []string, redaction, separator string) *Redactor {
	quoted := make([]string, len(fields))
	for i, f := range fields {
		quoted[i] = regexp.QuoteMeta(f)
	}
	re := regexp.MustCompile(fmt.Sprintf(`(%v)=([^%v]*)`,
		strings.Join(quoted, "|"), regexp.QuoteMeta(separator)))
	return &Redactor{re: re, redaction: redaction}
}

func (r *Redactor) Redact(message string) string {
	return r.re.ReplaceAllString(message, "${1}="+r.redaction)
}

// TokenDigest returns a short stable digest of a session or reset
// token so log lines can correlate activity without leaking the token
// itself.
func TokenDigest(token string) string {
	return strconv.FormatUint(xxhash.Sum64String(token), 16)
}
