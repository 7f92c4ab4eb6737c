package embedded

import (
	_ "embed"
)

// SheetGrammar is the Lark grammar of the multi-pattern sheet DSL
//
//go:embed data/sheet.lark
var SheetGrammar string
