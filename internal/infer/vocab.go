// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package infer

import (
	"regexp"

	"github.com/pdiddy/schema-engine/pkg/types"
)

// docVocabulary maps each document type to the closed set of phrases that
// identify it in a line.
type docVocabulary struct {
	docType string
	re      *regexp.Regexp
}

// documentTypes is ordered; a line mentioning several types yields one
// pattern per type in this order.
var documentTypes = []docVocabulary{
	{types.DocPhotograph, regexp.MustCompile(`(?i)\b(photo|photos|photograph|photographs|picture)\b`)},
	{types.DocSignature, regexp.MustCompile(`(?i)\b(signature|signatures|sign)\b`)},
	{types.DocThumbImpression, regexp.MustCompile(`(?i)\b(thumb|thumb\s*impression|thumbprint)\b`)},
	{types.DocIDProof, regexp.MustCompile(`(?i)\b(id\s*proof|identity\s*proof|photo\s*id|aadhaa?r|pan\s*card|voter\s*id|passport\s*(copy|number))\b`)},
	{types.DocCertificate, regexp.MustCompile(`(?i)\b(certificate|certificates|diploma|degree\s*certificate)\b`)},
	{types.DocMarksheet, regexp.MustCompile(`(?i)\b(mark\s*sheets?|marksheets?|marks?\s*cards?|memorandum\s*of\s*marks)\b`)},
}

var (
	requirementVocab = regexp.MustCompile(`(?i)\b(requirements?|specifications?|required|mandatory|guidelines?|instructions?)\b`)
	measureVocab     = regexp.MustCompile(`(?i)(\bformat\b|\bsize\b|\bdimensions?\b|\d\s*(kb|mb)\b|\bkb\b|\bmb\b|\bpixels?\b|\bresolution\b|\b(jpe?g|png|pdf)\b)`)
	uploadVocab      = regexp.MustCompile(`(?i)\b(upload|uploaded|uploading|attach|attached|attachment|scan|scanned)\b`)
)

const (
	number = `(\d+(?:\.\d+)?)`
	unitKB = `(kb|kilobytes?|mb|megabytes?)`
)

var (
	formatRE = regexp.MustCompile(`(?i)\b(jpe?g|png|pdf|gif|bmp|tiff?|docx?)\b`)

	sizeRangeRE   = regexp.MustCompile(`(?i)` + number + `\s*` + unitKB + `?\s*(?:-|–|to)\s*` + number + `\s*` + unitKB + `\b`)
	sizeBetweenRE = regexp.MustCompile(`(?i)\bbetween\s+` + number + `\s*` + unitKB + `?\s*(?:and|&|-|–|to)\s*` + number + `\s*` + unitKB + `\b`)

	// Up to two words may sit between the bound and the value, as in
	// "maximum file size: 50 KB".
	sizeMinRE = regexp.MustCompile(`(?i)\b(?:min(?:imum)?|at\s+least|not\s+less\s+than)(?:\s+[a-z]+){0,2}\s*:?\s*` + number + `\s*` + unitKB + `\b`)
	sizeMaxRE = regexp.MustCompile(`(?i)\b(not\s+)?(?:max(?:imum)?|up\s*to|not\s+more\s+than|less\s+than|not\s+exceed(?:ing)?|should\s+not\s+exceed|within)(?:\s+[a-z]+){0,2}\s*:?\s*` + number + `\s*` + unitKB + `\b`)
	sizeOneRE = regexp.MustCompile(`(?i)` + number + `\s*` + unitKB + `\b`)

	dimensionREs = []struct {
		re   *regexp.Regexp
		unit string
	}{
		{regexp.MustCompile(`(?i)` + number + `\s*(?:px|pixels?)?\s*[x×*]\s*` + number + `\s*(?:px|pixels?)\b`), "pixels"},
		{regexp.MustCompile(`(?i)` + number + `\s*(?:mm)?\s*[x×*]\s*` + number + `\s*mm\b`), "mm"},
		{regexp.MustCompile(`(?i)` + number + `\s*(?:cm)?\s*[x×*]\s*` + number + `\s*cm\b`), "cm"},
		{regexp.MustCompile(`(?i)` + number + `\s*(?:in|inch(?:es)?|")?\s*[x×*]\s*` + number + `\s*(?:inch(?:es)?\b|in\b|")`), "inches"},
	}
	bareDimensionRE = regexp.MustCompile(`(?i)\b` + number + `\s*[x×]\s*` + number + `\b`)
	passportSizeRE  = regexp.MustCompile(`(?i)\bpassport[\s-]*size\b`)

	blackWhiteRE = regexp.MustCompile(`(?i)\b(black\s*(?:and|&|-|/)\s*white|b\s*/\s*w|gr[ae]yscale|monochrome)\b`)
	colorRE      = regexp.MustCompile(`(?i)\b(colou?r|colou?red|colou?rful)\b`)

	backgroundPhraseRE = regexp.MustCompile(`(?i)\b(white|plain|light)\b[\w\s-]{0,20}\bbackground\b|\bbackground\b[^.\n]{0,25}?\b(white|plain|light)\b`)
	backgroundWordRE   = regexp.MustCompile(`(?i)\b(white|plain|light)\b`)
)

// notePhrases are the instructional phrases recognised as notes, in output
// order.
var notePhrases = []struct {
	re   *regexp.Regexp
	note string
}{
	{regexp.MustCompile(`(?i)\brecent\b[\w\s]{0,20}\bphoto`), "Recent photograph"},
	{regexp.MustCompile(`(?i)\bpassport[\s-]*size\b`), "Passport size"},
	{regexp.MustCompile(`(?i)\bface\b[^.\n]{0,30}\b(clear|clearly|visible)\b|\bclear\b[^.\n]{0,15}\bface\b`), "Clear face visibility"},
	{regexp.MustCompile(`(?i)\b(no|without)\s+(caps?|hats?|sunglasses|goggles|dark\s+glasses)\b`), "No cap, hat or sunglasses"},
	{regexp.MustCompile(`(?i)\bblue\s*(?:or|/)\s*black\s+ink\b`), "Blue or black ink"},
	{regexp.MustCompile(`(?i)\bblack\s+ink\b`), "Black ink"},
	{regexp.MustCompile(`(?i)\bcapital\s+letters\b`), "Signature must not be in capital letters"},
	{regexp.MustCompile(`(?i)\bleft\s+thumb\b`), "Left thumb impression"},
	{regexp.MustCompile(`(?i)\bwhite\s+paper\b`), "On white paper"},
	{regexp.MustCompile(`(?i)\bself[\s-]*attested\b`), "Self-attested copy"},
	{regexp.MustCompile(`(?i)\b(mandatory|compulsory)\b`), "Mandatory"},
}
