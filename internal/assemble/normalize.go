// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package assemble

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/pdiddy/schema-engine/pkg/types"
)

// Size limits applied to every bound, in kilobytes.
const (
	MinSizeKB = 1
	MaxSizeKB = 10240
)

var canonicalFormats = map[string]string{
	"jpg":  "JPG",
	"jpeg": "JPEG",
	"png":  "PNG",
	"pdf":  "PDF",
	"gif":  "GIF",
	"bmp":  "BMP",
	"tif":  "TIF",
	"tiff": "TIFF",
	"doc":  "DOC",
	"docx": "DOCX",
}

// NormalizeFormats upper-cases format tokens, strips leading dots, and
// removes duplicates keeping first occurrence. It is idempotent.
func NormalizeFormats(formats []string) []string {
	var out []string
	seen := map[string]bool{}
	for _, f := range formats {
		f = strings.TrimPrefix(strings.TrimSpace(f), ".")
		if f == "" {
			continue
		}
		c, ok := canonicalFormats[strings.ToLower(f)]
		if !ok {
			c = strings.ToUpper(f)
		}
		if !seen[c] {
			seen[c] = true
			out = append(out, c)
		}
	}
	return out
}

// ConvertSizeUnits moves a megabyte range into SizeKB when SizeKB is
// absent. SizeMB is always cleared, so a second call is a no-op.
func ConvertSizeUnits(r types.Requirements) types.Requirements {
	if r.SizeKB.IsEmpty() && !r.SizeMB.IsEmpty() {
		kb := &types.SizeRange{}
		if r.SizeMB.Min != nil {
			v := *r.SizeMB.Min * 1024
			kb.Min = &v
		}
		if r.SizeMB.Max != nil {
			v := *r.SizeMB.Max * 1024
			kb.Max = &v
		}
		r.SizeKB = kb
	}
	r.SizeMB = nil
	return r
}

// ClampSize limits each bound to [MinSizeKB, MaxSizeKB]. Bounds are never
// reordered.
func ClampSize(r *types.SizeRange) *types.SizeRange {
	if r.IsEmpty() {
		return nil
	}
	out := r.Clone()
	for _, b := range []*float64{out.Min, out.Max} {
		if b == nil {
			continue
		}
		if *b < MinSizeKB {
			*b = MinSizeKB
		}
		if *b > MaxSizeKB {
			*b = MaxSizeKB
		}
	}
	return out
}

var (
	unitDimensionRE = regexp.MustCompile(`(?i)^\s*(\d+(?:\.\d+)?)\s*[x×*]\s*(\d+(?:\.\d+)?)\s*(px|pixels?|mm|cm|inch(?:es)?|in)\s*$`)
	bareDimensionRE = regexp.MustCompile(`^\s*(\d+(?:\.\d+)?)\s*[x×*]\s*(\d+(?:\.\d+)?)\s*$`)
)

// pixelThreshold separates pixel from millimetre readings of a bare pair.
const pixelThreshold = 50

// NormalizeDimensions rewrites a numeric pair as "WxH unit". A pair without
// a unit is read as pixels when both sides exceed 50 and as millimetres
// otherwise. Other text is returned trimmed.
func NormalizeDimensions(d string) string {
	if m := unitDimensionRE.FindStringSubmatch(d); m != nil {
		return m[1] + "x" + m[2] + " " + canonicalUnit(m[3])
	}
	if m := bareDimensionRE.FindStringSubmatch(d); m != nil {
		w, _ := strconv.ParseFloat(m[1], 64)
		h, _ := strconv.ParseFloat(m[2], 64)
		unit := "mm"
		if w > pixelThreshold && h > pixelThreshold {
			unit = "pixels"
		}
		return m[1] + "x" + m[2] + " " + unit
	}
	return strings.TrimSpace(d)
}

func canonicalUnit(u string) string {
	switch strings.ToLower(u) {
	case "px", "pixel", "pixels":
		return "pixels"
	case "in", "inch", "inches":
		return "inches"
	}
	return strings.ToLower(u)
}

// NormalizeType lower-cases a document type and joins words with
// underscores.
func NormalizeType(t string) string {
	return strings.Join(strings.FieldsFunc(strings.ToLower(t), func(r rune) bool {
		return r == ' ' || r == '-' || r == '_'
	}), "_")
}
