// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package infer

import (
	"strconv"
	"strings"

	"github.com/pdiddy/schema-engine/pkg/types"
)

// Analyze extracts requirement fields from a block of text. Fields that do
// not appear are left empty.
func Analyze(text string) types.Requirements {
	return types.Requirements{
		Format:     Formats(text),
		SizeKB:     SizeKB(text),
		Dimensions: Dimensions(text),
		Color:      Color(text),
		Background: Background(text),
		Notes:      Notes(text),
	}
}

// Formats returns the file extensions mentioned in text, upper-cased and
// deduplicated in order of appearance.
func Formats(text string) []string {
	var out []string
	seen := map[string]bool{}
	for _, m := range formatRE.FindAllString(text, -1) {
		f := strings.ToUpper(m)
		if !seen[f] {
			seen[f] = true
			out = append(out, f)
		}
	}
	return out
}

// SizeKB returns the file size bound in text, converted to kilobytes. A
// range ("20 to 50 KB", "between 20 KB and 50 KB") wins over explicit
// minimum and maximum phrases, which win over a single value (read as a
// maximum). Bounds are reported as written, so a reversed range stays
// reversed.
func SizeKB(text string) *types.SizeRange {
	m := sizeBetweenRE.FindStringSubmatch(text)
	if m == nil {
		m = sizeRangeRE.FindStringSubmatch(text)
	}
	if m != nil {
		unitMin, unitMax := m[2], m[4]
		if unitMin == "" {
			unitMin = unitMax
		}
		return types.Range(toKB(m[1], unitMin), toKB(m[3], unitMax))
	}

	var r types.SizeRange
	if m := sizeMinRE.FindStringSubmatch(text); m != nil {
		v := toKB(m[1], m[2])
		r.Min = &v
	}
	for _, m := range sizeMaxRE.FindAllStringSubmatch(text, -1) {
		// "not less than" is a lower bound.
		if m[1] != "" {
			continue
		}
		v := toKB(m[2], m[3])
		r.Max = &v
		break
	}
	if !r.IsEmpty() {
		return &r
	}

	if m := sizeOneRE.FindStringSubmatch(text); m != nil {
		return types.UpTo(toKB(m[1], m[2]))
	}
	return nil
}

func toKB(num, unit string) float64 {
	v, err := strconv.ParseFloat(num, 64)
	if err != nil {
		return 0
	}
	if strings.HasPrefix(strings.ToLower(unit), "m") {
		v *= 1024
	}
	return v
}

// Dimensions returns the first width×height pair in text as "WxH unit".
// A pair without a unit is returned bare; "Passport size" is used when no
// pair appears but the phrase does.
func Dimensions(text string) string {
	best := -1
	var out string
	for _, d := range dimensionREs {
		loc := d.re.FindStringSubmatchIndex(text)
		if loc == nil || (best >= 0 && loc[0] >= best) {
			continue
		}
		best = loc[0]
		out = text[loc[2]:loc[3]] + "x" + text[loc[4]:loc[5]] + " " + d.unit
	}
	if out != "" {
		return out
	}
	if m := bareDimensionRE.FindStringSubmatch(text); m != nil {
		return m[1] + "x" + m[2]
	}
	if passportSizeRE.MatchString(text) {
		return "Passport size"
	}
	return ""
}

// Color returns black-white or color when text states either.
func Color(text string) types.ColorRequirement {
	switch {
	case blackWhiteRE.MatchString(text):
		return types.ColorBlackWhite
	case colorRE.MatchString(text):
		return types.ColorColor
	}
	return ""
}

// Background returns white, plain, or light. A phrase naming the background
// wins over a bare keyword; "black and white" never counts as white.
func Background(text string) string {
	if m := backgroundPhraseRE.FindStringSubmatch(text); m != nil {
		if m[1] != "" {
			return strings.ToLower(m[1])
		}
		return strings.ToLower(m[2])
	}
	stripped := blackWhiteRE.ReplaceAllString(text, " ")
	if m := backgroundWordRE.FindStringSubmatch(stripped); m != nil {
		return strings.ToLower(m[1])
	}
	return ""
}

// Notes returns the recognised instructional phrases in text.
func Notes(text string) []string {
	var out []string
	for _, p := range notePhrases {
		if !p.re.MatchString(text) {
			continue
		}
		if p.note == "Black ink" && len(out) > 0 && out[len(out)-1] == "Blue or black ink" {
			continue
		}
		out = append(out, p.note)
	}
	return out
}
