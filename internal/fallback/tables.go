// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package fallback

import (
	"github.com/pdiddy/schema-engine/internal/assemble"
	"github.com/pdiddy/schema-engine/pkg/types"
)

func doc(docType string, r types.Requirements) types.DocumentRequirement {
	return types.DocumentRequirement{Type: docType, Requirements: r}
}

var tables = map[Category][]types.DocumentRequirement{
	Banking: {
		doc(types.DocPhotograph, types.Requirements{
			Format:     []string{"JPG", "JPEG"},
			SizeKB:     types.Range(20, 50),
			Dimensions: "200x230 pixels",
			Color:      types.ColorColor,
			Background: "light",
			Notes:      []string{"Recent colored photograph", "Passport size", "Clear face visibility"},
		}),
		doc(types.DocSignature, types.Requirements{
			Format:     []string{"JPG", "JPEG"},
			SizeKB:     types.Range(10, 20),
			Dimensions: "140x60 pixels",
			Background: "white",
			Notes:      []string{"Clear signature in black ink", "Sign on white paper"},
		}),
		doc(types.DocThumbImpression, types.Requirements{
			Format:     []string{"JPG", "JPEG"},
			SizeKB:     types.Range(10, 20),
			Dimensions: "240x240 pixels",
			Background: "white",
			Notes:      []string{"Left thumb impression", "Clear impression on white paper"},
		}),
	},
	SSC: {
		doc(types.DocPhotograph, types.Requirements{
			Format:     []string{"JPEG"},
			SizeKB:     types.Range(4, 40),
			Dimensions: "3.5x4.5 cm",
			Color:      types.ColorColor,
			Background: "light",
			Notes:      []string{"Recent colored photograph", "Passport size"},
		}),
		doc(types.DocSignature, types.Requirements{
			Format:     []string{"JPEG"},
			SizeKB:     types.Range(1, 12),
			Dimensions: "4x2 cm",
			Background: "white",
			Notes:      []string{"Clear signature in black ink"},
		}),
	},
	Railway: {
		doc(types.DocPhotograph, types.Requirements{
			Format:     []string{"JPG", "JPEG"},
			SizeKB:     types.Range(20, 50),
			Dimensions: "35x45 mm",
			Color:      types.ColorColor,
			Background: "white",
			Notes:      []string{"Recent colored photograph", "Clear face visibility"},
		}),
		doc(types.DocSignature, types.Requirements{
			Format:     []string{"JPG", "JPEG"},
			SizeKB:     types.Range(10, 40),
			Dimensions: "140x60 pixels",
			Background: "white",
			Notes:      []string{"Signature in black ink"},
		}),
	},
	MedicalEngineering: {
		doc(types.DocPhotograph, types.Requirements{
			Format:     []string{"JPG", "JPEG"},
			SizeKB:     types.Range(10, 200),
			Dimensions: "Passport size",
			Color:      types.ColorColor,
			Background: "white",
			Notes:      []string{"Recent photograph", "Face should be clearly visible", "No sunglasses or hat"},
		}),
		doc(types.DocSignature, types.Requirements{
			Format:     []string{"JPG", "JPEG"},
			SizeKB:     types.Range(4, 30),
			Background: "white",
			Notes:      []string{"Clear signature in blue or black ink"},
		}),
	},
	UPSC: {
		doc(types.DocPhotograph, types.Requirements{
			Format:     []string{"JPG", "JPEG"},
			SizeKB:     types.Range(3, 50),
			Dimensions: "5x7 cm",
			Color:      types.ColorColor,
			Background: "white",
			Notes:      []string{"Recent photograph", "Professional attire preferred", "Clear face visibility"},
		}),
		doc(types.DocSignature, types.Requirements{
			Format:     []string{"JPG", "JPEG"},
			SizeKB:     types.Range(1, 10),
			Dimensions: "4x2 cm",
			Background: "white",
			Notes:      []string{"Signature in black ink", "Sign on white paper"},
		}),
	},
	General: {
		doc(types.DocPhotograph, assemble.StandardRequirement(types.DocPhotograph)),
		doc(types.DocSignature, assemble.StandardRequirement(types.DocSignature)),
	},
}
