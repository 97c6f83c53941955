package normalize

import "regexp"

// Rule maps one partner spelling to the catalog's canonical token.
// Patterns are case-insensitive whole-word matches. Rules within a table
// are applied in order.
type Rule struct {
	Pattern   *regexp.Regexp
	Canonical string
}

func rule(pattern, canonical string) Rule {
	return Rule{
		Pattern:   regexp.MustCompile(`(?i)` + pattern),
		Canonical: canonical,
	}
}

// TransmissionRules folds transmission vocabulary to STD/AUT.
var TransmissionRules = []Rule{
	rule(`\bMT\b`, "STD"),
	rule(`\bM/T\b`, "STD"),
	rule(`\bMANUAL\b`, "STD"),
	rule(`\bESTANDAR\b`, "STD"),
	rule(`\bESTÁNDAR\b`, "STD"),
	rule(`\bAT\b`, "AUT"),
	rule(`\bA/T\b`, "AUT"),
	rule(`\bAUTO\b`, "AUT"),
	rule(`\bAUTOMATICO\b`, "AUT"),
	rule(`\bAUTOMÁTICO\b`, "AUT"),
	rule(`\bAUTOMATICA\b`, "AUT"),
	rule(`\bAUTOMÁTICA\b`, "AUT"),
}

// PowerRules folds power-unit vocabulary to CP.
var PowerRules = []Rule{
	rule(`\bCV\b`, "CP"),
	rule(`\bHP\b`, "CP"),
	rule(`\bBHP\b`, "CP"),
	rule(`\bCABALLOS\b`, "CP"),
}

// BodyRules folds body-style vocabulary.
var BodyRules = []Rule{
	rule(`\bSEDAN\b`, "SEDAN"),
	rule(`\bSEDÁN\b`, "SEDAN"),
	rule(`\b4\s*PUERTAS\b`, "4 PUERTAS"),
	rule(`\b4P\b`, "4 PUERTAS"),
	rule(`\b4DR\b`, "4 PUERTAS"),
	rule(`\b5\s*PUERTAS\b`, "5 PUERTAS"),
	rule(`\b5P\b`, "5 PUERTAS"),
	rule(`\b5DR\b`, "5 PUERTAS"),
	rule(`\b2\s*PUERTAS\b`, "2 PUERTAS"),
	rule(`\b2P\b`, "2 PUERTAS"),
	rule(`\b2DR\b`, "2 PUERTAS"),
	rule(`\b3\s*PUERTAS\b`, "3 PUERTAS"),
	rule(`\b3P\b`, "3 PUERTAS"),
	rule(`\b3DR\b`, "3 PUERTAS"),
	rule(`\bHATCHBACK\b`, "HB"),
	rule(`\bHATCH\b`, "HB"),
	rule(`\bPICKUP\b`, "PICKUP"),
	rule(`\bPICK-UP\b`, "PICKUP"),
	rule(`\bDOBLE\s*CABINA\b`, "DOBLE CABINA"),
	rule(`\bD/C\b`, "DOBLE CABINA"),
}

// FuelRules folds fuel-type vocabulary.
var FuelRules = []Rule{
	rule(`\bCOMBUSTION\b`, "GASOLINA"),
	rule(`\bGASOLINA\b`, "GASOLINA"),
	rule(`\bNAFTA\b`, "GASOLINA"),
	rule(`\bBENCINA\b`, "GASOLINA"),
	rule(`\bDIESEL\b`, "DIESEL"),
	rule(`\bDIÉSEL\b`, "DIESEL"),
	rule(`\bTDI\b`, "DIESEL"),
	rule(`\bHDI\b`, "DIESEL"),
	rule(`\bCDTI\b`, "DIESEL"),
	rule(`\bDCI\b`, "DIESEL"),
	rule(`\bHIBRIDO\b`, "HEV"),
	rule(`\bHÍBRIDO\b`, "HEV"),
	rule(`\bHYBRID\b`, "HEV"),
	rule(`\bELECTRICO\b`, "EV"),
	rule(`\bELÉCTRICO\b`, "EV"),
	rule(`\bBEV\b`, "EV"),
	rule(`\b100%\s*ELECTRICO\b`, "EV"),
	rule(`\b100%\s*ELÉCTRICO\b`, "EV"),
}

// DriveRules folds drive-type vocabulary.
var DriveRules = []Rule{
	rule(`\b4WD\b`, "4X4"),
	rule(`\bAWD\b`, "4X4"),
	rule(`\b4X4\b`, "4X4"),
}

// ruleTables lists the terminology tables in application order.
var ruleTables = [][]Rule{
	TransmissionRules,
	PowerRules,
	BodyRules,
	FuelRules,
	DriveRules,
}
