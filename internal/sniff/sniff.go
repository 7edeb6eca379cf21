// Package sniff infers the character encoding and field delimiter of raw
// tabular input. Both detections are best-effort heuristics: when the signal
// is weak they fall back to UTF-8 and comma instead of failing.
package sniff

import (
	"strings"

	"github.com/saintfish/chardet"
	"golang.org/x/text/encoding/ianaindex"
)

// separatorCandidates in priority order; ties go to the earlier candidate.
var separatorCandidates = []rune{',', ';', '\t', '|'}

// sniffLines is how many leading lines DetectSeparator inspects.
const sniffLines = 5

// minConfidence is the charset-detector confidence (0-100) required to
// accept its suggestion over the UTF-8 default.
const minConfidence = 70

// DetectSeparator guesses the field delimiter of sample by counting candidate
// occurrences per non-blank line over the first few lines. A candidate
// qualifies when its per-line counts are near-uniform (at most two distinct
// values) and non-zero; the qualifying candidate with the highest count wins.
// Defaults to ',' when nothing qualifies.
func DetectSeparator(sample string) rune {
	lines := strings.Split(sample, "\n")
	if len(lines) > sniffLines {
		lines = lines[:sniffLines]
	}

	best := rune(0)
	bestCount := 0
	for _, sep := range separatorCandidates {
		distinct := make(map[int]struct{})
		maxCount := 0
		any := false
		for _, line := range lines {
			if strings.TrimSpace(line) == "" {
				continue
			}
			any = true
			n := strings.Count(line, string(sep))
			distinct[n] = struct{}{}
			if n > maxCount {
				maxCount = n
			}
		}
		if !any || len(distinct) > 2 || maxCount == 0 {
			continue
		}
		if maxCount > bestCount {
			best = sep
			bestCount = maxCount
		}
	}
	if best == 0 {
		return ','
	}
	return best
}

// DetectEncoding runs a statistical byte-distribution detector over raw and
// returns the suggested charset name when its confidence clears the
// threshold. Fails closed: any error or weak signal yields "UTF-8".
func DetectEncoding(raw []byte) string {
	res, err := chardet.NewTextDetector().DetectBest(raw)
	if err != nil || res == nil || res.Confidence <= minConfidence || res.Charset == "" {
		return "UTF-8"
	}
	return res.Charset
}

// Decode converts raw bytes in the named charset to a UTF-8 string. Unknown
// or UTF-8 charsets pass the bytes through unchanged.
func Decode(raw []byte, charset string) (string, error) {
	switch strings.ToUpper(charset) {
	case "", "UTF-8", "US-ASCII":
		return string(raw), nil
	}
	enc, err := ianaindex.IANA.Encoding(charset)
	if err != nil || enc == nil {
		return string(raw), nil
	}
	decoded, err := enc.NewDecoder().Bytes(raw)
	if err != nil {
		return "", err
	}
	return string(decoded), nil
}
