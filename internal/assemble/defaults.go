// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package assemble

import "github.com/pdiddy/schema-engine/pkg/types"

// StandardRequirement returns the built-in requirement for docType, used
// when a schema lacks a photograph or signature. Unknown types get only
// default formats.
func StandardRequirement(docType string) types.Requirements {
	switch docType {
	case types.DocPhotograph:
		return types.Requirements{
			Format:     []string{"JPG", "JPEG", "PNG"},
			SizeKB:     types.Range(10, 100),
			Dimensions: "Passport size",
			Color:      types.ColorColor,
			Notes:      []string{"Recent photograph", "Clear face visibility"},
		}
	case types.DocSignature:
		return types.Requirements{
			Format:     []string{"JPG", "JPEG", "PNG"},
			SizeKB:     types.Range(5, 50),
			Background: "white",
			Notes:      []string{"Clear signature"},
		}
	}
	return types.Requirements{Format: defaultFormats(docType)}
}

// defaultFormats are filled in when a requirement names no format.
func defaultFormats(docType string) []string {
	switch docType {
	case types.DocPhotograph, types.DocSignature, types.DocThumbImpression:
		return []string{"JPG", "JPEG"}
	case types.DocIDProof:
		return []string{"PDF", "JPG", "JPEG"}
	case types.DocCertificate, types.DocMarksheet:
		return []string{"PDF"}
	}
	return []string{"PDF", "JPG", "JPEG"}
}

// defaultNotes are filled in when a requirement carries no notes.
func defaultNotes(docType string) []string {
	switch docType {
	case types.DocPhotograph:
		return []string{"Recent photograph", "Clear face visibility"}
	case types.DocSignature:
		return []string{"Clear signature"}
	case types.DocThumbImpression:
		return []string{"Left thumb impression"}
	case types.DocIDProof:
		return []string{"Valid government-issued ID"}
	case types.DocCertificate, types.DocMarksheet:
		return []string{"Self-attested copy"}
	}
	return nil
}

// typeOrder fixes the position of known types; unknown types follow in
// insertion order.
var typeOrder = map[string]int{
	types.DocPhotograph:      0,
	types.DocSignature:       1,
	types.DocThumbImpression: 2,
	types.DocIDProof:         3,
	types.DocCertificate:     4,
	types.DocMarksheet:       5,
}
