// Package lawyerparse turns the text layer of the Supreme Court advocates
// roster into lawyer records.
//
// The roster has no stable layout: one advocate per paragraph, fields on
// separate lines, no fixed columns. Extraction is therefore a best-effort
// linear scan. Entries without a leading serial number are dropped, fields
// that do not match fall back to fixed defaults, and nothing here returns an
// error.
package lawyerparse

import (
	"fmt"
	"hash/fnv"
	"regexp"
	"strconv"
	"strings"
)

// DefaultCity is used when no known city appears in an address. It is also
// the address of an entry whose address could not be recovered.
const DefaultCity = "New Delhi"

// Record is one advocate as recovered from the roster text.
type Record struct {
	ID               string  `json:"id"`
	Serial           int     `json:"serial"`
	Honorific        string  `json:"honorific,omitempty"`
	Name             string  `json:"name"`
	Address          string  `json:"address"`
	City             string  `json:"city"`
	State            string  `json:"state"`
	Phone            string  `json:"phone"`
	Email            string  `json:"email"`
	RegistrationDate *string `json:"registration_date"`
	FileNumber       *string `json:"file_number"`
	IsSeniorAdvocate bool    `json:"is_senior_advocate"`
	IsVerified       bool    `json:"is_verified"`

	// Set when the value is a placeholder rather than text from the roster.
	PhoneSynthetic   bool `json:"phone_synthetic"`
	EmailSynthetic   bool `json:"email_synthetic"`
	AddressDefaulted bool `json:"address_defaulted"`
}

const honorifics = `Shri|Sh|Smt|Ms|Miss|Mrs|Mr|Dr|Km`

var (
	boundaryRe = regexp.MustCompile(`^\s*\d+\s+(?:` + honorifics + `)\.?\s`)
	serialRe   = regexp.MustCompile(`^\s*(\d+)\s+(.*)$`)
	nameRe     = regexp.MustCompile(`^((?:` + honorifics + `)\.?)\s+(.*)$`)
	stopRe     = regexp.MustCompile(`\(|(?i:address|office|chamber|residence):`)
	labelRe    = regexp.MustCompile(`(?i)\b(?:address|office|chamber|residence):\s*`)
	parenRe    = regexp.MustCompile(`\([^)]*\)`)
	dateRe     = regexp.MustCompile(`\b\d{1,2}/\d{1,2}/\d{4}\b`)
	fileAfter  = regexp.MustCompile(`^\s+(\d{1,5})\b`)
	fileBefore = regexp.MustCompile(`\b(\d{1,5})\s+$`)
	phoneRe    = regexp.MustCompile(`\+?91[-\s]?\d{10}\b|\b\d{10}\b`)
	emailRe    = regexp.MustCompile(`[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}`)
	seniorRe   = regexp.MustCompile(`(?i)senior advocate|sr\.\s*advocate`)
	inactiveRe = regexp.MustCompile(`(?i)expired|removed|suspended`)
	spaceRe    = regexp.MustCompile(`\s+`)
	commaRe    = regexp.MustCompile(`\s*,(?:\s*,)*\s*`)
	nonWordRe  = regexp.MustCompile(`[^a-z0-9]+`)
)

// Extract splits raw roster text into entries and parses each one.
func Extract(rawText string) []Record {
	var out []Record
	for _, entry := range splitEntries(rawText) {
		if rec, ok := parseEntry(entry); ok {
			out = append(out, rec)
		}
	}
	return out
}

// splitEntries breaks text at blank lines and at serial+honorific lines.
func splitEntries(text string) [][]string {
	text = strings.ReplaceAll(text, "\r\n", "\n")

	var entries [][]string
	var cur []string
	flush := func() {
		if len(cur) > 0 {
			entries = append(entries, cur)
			cur = nil
		}
	}
	for _, line := range strings.Split(text, "\n") {
		if strings.TrimSpace(line) == "" {
			flush()
			continue
		}
		if boundaryRe.MatchString(line) {
			flush()
		}
		cur = append(cur, line)
	}
	flush()
	return entries
}

func parseEntry(lines []string) (Record, bool) {
	m := serialRe.FindStringSubmatch(lines[0])
	if m == nil {
		return Record{}, false
	}
	serial, err := strconv.Atoi(m[1])
	if err != nil {
		return Record{}, false
	}

	honorific, name, rest := splitName(m[2])
	if name == "" {
		return Record{}, false
	}
	full := name
	if honorific != "" {
		full = honorific + " " + name
	}

	body := strings.Join(lines, "\n")
	rec := Record{
		ID:               m[1],
		Serial:           serial,
		Honorific:        honorific,
		Name:             full,
		IsSeniorAdvocate: seniorRe.MatchString(body),
		IsVerified:       !inactiveRe.MatchString(body),
	}

	// Everything after the name on the first line plus the remaining lines
	// is searched for tokens; what is left over becomes the address.
	remaining := append([]string{rest}, lines[1:]...)

	if date, file, ok := findDate(remaining); ok {
		rec.RegistrationDate = &date
		if file != "" {
			rec.FileNumber = &file
		}
	}

	if p := firstMatch(phoneRe, remaining); p != "" {
		rec.Phone = p
	} else {
		rec.Phone = placeholderPhone(rec.ID, full)
		rec.PhoneSynthetic = true
	}
	if e := firstMatch(emailRe, remaining); e != "" {
		rec.Email = e
	} else {
		rec.Email = placeholderEmail(name)
		rec.EmailSynthetic = true
	}

	rec.Address = buildAddress(remaining, rec)
	if rec.Address == "" {
		rec.Address = DefaultCity
		rec.AddressDefaulted = true
	}
	rec.City = CityFromAddress(rec.Address)
	rec.State = StateForCity(rec.City)

	return rec, true
}

// splitName separates the honorific and name from the rest of the first line.
// A line without an honorific still yields a name up to the first stop token.
func splitName(s string) (honorific, name, rest string) {
	if m := nameRe.FindStringSubmatch(s); m != nil {
		honorific = m[1]
		s = m[2]
	}
	cut := len(s)
	if loc := stopRe.FindStringIndex(s); loc != nil {
		cut = loc[0]
	}
	name = strings.TrimSpace(spaceRe.ReplaceAllString(s[:cut], " "))
	return honorific, name, s[cut:]
}

// findDate returns the first date token and the number next to it on the same
// line, preferring the one that follows the date.
func findDate(lines []string) (date, file string, ok bool) {
	for _, line := range lines {
		loc := dateRe.FindStringIndex(line)
		if loc == nil {
			continue
		}
		date = line[loc[0]:loc[1]]
		if m := fileAfter.FindStringSubmatch(line[loc[1]:]); m != nil {
			file = m[1]
		} else if m := fileBefore.FindStringSubmatch(line[:loc[0]]); m != nil {
			file = m[1]
		}
		return date, file, true
	}
	return "", "", false
}

func firstMatch(re *regexp.Regexp, lines []string) string {
	for _, line := range lines {
		if s := re.FindString(line); s != "" {
			return s
		}
	}
	return ""
}

func buildAddress(lines []string, rec Record) string {
	var parts []string
	for _, line := range lines {
		line = parenRe.ReplaceAllString(line, " ")
		line = labelRe.ReplaceAllString(line, " ")
		if loc := dateRe.FindStringIndex(line); loc != nil && rec.RegistrationDate != nil && line[loc[0]:loc[1]] == *rec.RegistrationDate {
			before, after := line[:loc[0]], line[loc[1]:]
			if rec.FileNumber != nil {
				if m := fileAfter.FindStringSubmatch(after); m != nil && m[1] == *rec.FileNumber {
					after = after[len(m[0]):]
				} else {
					before = fileBefore.ReplaceAllString(before, " ")
				}
			}
			line = before + " " + after
		}
		if !rec.PhoneSynthetic {
			line = strings.Replace(line, rec.Phone, " ", 1)
		}
		if !rec.EmailSynthetic {
			line = strings.Replace(line, rec.Email, " ", 1)
		}
		line = seniorRe.ReplaceAllString(line, " ")
		line = inactiveRe.ReplaceAllString(line, " ")
		line = strings.Trim(spaceRe.ReplaceAllString(line, " "), " ,;-")
		if line != "" {
			parts = append(parts, line)
		}
	}
	addr := commaRe.ReplaceAllString(strings.Join(parts, ", "), ", ")
	return strings.Trim(addr, " ,")
}

func placeholderEmail(name string) string {
	local := strings.Trim(nonWordRe.ReplaceAllString(strings.ToLower(name), "."), ".")
	if local == "" {
		local = "advocate"
	}
	return local + "@example.com"
}

// placeholderPhone derives a stable +91 mobile number from the entry identity.
func placeholderPhone(id, name string) string {
	h := fnv.New64a()
	h.Write([]byte(id + "|" + name))
	n := 7000000000 + h.Sum64()%3000000000
	return fmt.Sprintf("+91-%d", n)
}
