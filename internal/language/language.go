// Package language normalizes ISO 639 language codes found in media
// stream metadata.
package language

import "strings"

type entry struct {
	code2   string // ISO 639-1
	code3   string // ISO 639-2 primary
	alt3    string // ISO 639-2 alternate (e.g. "fre" vs "fra")
	display string
	word    string // full word form, lowercased
}

var languages = []entry{
	{"en", "eng", "", "English", "english"},
	{"es", "spa", "", "Spanish", "spanish"},
	{"fr", "fra", "fre", "French", "french"},
	{"de", "deu", "ger", "German", "german"},
	{"it", "ita", "", "Italian", "italian"},
	{"pt", "por", "", "Portuguese", "portuguese"},
	{"ja", "jpn", "", "Japanese", "japanese"},
	{"ko", "kor", "", "Korean", "korean"},
	{"zh", "zho", "chi", "Chinese", "chinese"},
	{"ru", "rus", "", "Russian", "russian"},
	{"nl", "nld", "dut", "Dutch", "dutch"},
	{"pl", "pol", "", "Polish", "polish"},
	{"sv", "swe", "", "Swedish", "swedish"},
	{"da", "dan", "", "Danish", "danish"},
	{"no", "nor", "", "Norwegian", "norwegian"},
	{"fi", "fin", "", "Finnish", "finnish"},
}

var index map[string]*entry

func init() {
	index = make(map[string]*entry, len(languages)*4)
	for i := range languages {
		e := &languages[i]
		index[e.code2] = e
		index[e.code3] = e
		if e.alt3 != "" {
			index[e.alt3] = e
		}
		index[e.word] = e
	}
}

func lookup(code string) *entry {
	code = strings.ToLower(strings.TrimSpace(code))
	if code == "" {
		return nil
	}
	return index[code]
}

// ToISO3 converts any recognized language code or word to ISO 639-2.
// Unrecognized 3-letter codes pass through; everything else maps to "und".
func ToISO3(code string) string {
	code = strings.ToLower(strings.TrimSpace(code))
	if code == "" {
		return "und"
	}
	if e := lookup(code); e != nil {
		return e.code3
	}
	if len(code) == 3 {
		return code
	}
	return "und"
}

// DisplayName returns a human-readable language name for any recognized
// code, or the uppercased code for unrecognized input.
func DisplayName(code string) string {
	if strings.TrimSpace(code) == "" {
		return "Unknown"
	}
	if e := lookup(code); e != nil {
		return e.display
	}
	return strings.ToUpper(strings.TrimSpace(code))
}

// Matches reports whether two language identifiers refer to the same
// language after normalization. Unknown codes match only exactly.
func Matches(a, b string) bool {
	na, nb := ToISO3(a), ToISO3(b)
	if na == "und" || nb == "und" {
		return strings.EqualFold(strings.TrimSpace(a), strings.TrimSpace(b))
	}
	return na == nb
}

// ExtractFromTags extracts the language from stream metadata tags,
// checking the tag keys ffprobe commonly emits.
func ExtractFromTags(tags map[string]string) string {
	if len(tags) == 0 {
		return ""
	}
	for _, key := range []string{"language", "LANGUAGE", "Language", "language_ietf", "lang", "LANG"} {
		if value, ok := tags[key]; ok {
			value = strings.TrimSpace(strings.ReplaceAll(value, "\x00", ""))
			if value != "" {
				return strings.ToLower(value)
			}
		}
	}
	return ""
}
