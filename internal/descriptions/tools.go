package descriptions

import "sort"

// Tool names exposed by the server
const (
	ToolParseFile      = "liquidacion_parse_file"
	ToolParseDirectory = "liquidacion_parse_directory"
	ToolExport         = "liquidacion_export"
	ToolValidateFile   = "liquidacion_validate_file"
	ToolServerInfo     = "liquidacion_server_info"
)

// Tool descriptions with practical examples and use cases

const (
	ParseFileDescription = `Extract one grain settlement (liquidación primaria/secundaria de granos) from a PDF into a structured record.

**When to use:** You need the parties, operation line, deductions, withholdings and delivered goods of a single settlement.

**Why it's useful:** Handles Argentine number formats, swapped buyer/seller columns and the unified-adjustment (credit note) variant, whose amounts come back negated.

**Examples:**
• "Parse 3303-12345678.pdf and tell me the net amount and VAT"
• "Which buyer issued liquidacion-noviembre.pdf?"

**Best practices:** Missing fields come back as empty strings or 0; only unreadable documents fail.`

	ParseDirectoryDescription = `Extract every settlement PDF in a directory in one batch.

**When to use:** Reconciling a month of settlements, or checking totals across many documents.

**Why it's useful:** Files are processed in parallel and reported in name order; a broken file is listed with its error while the rest still parse.

**Examples:**
• "Parse all settlements in the default directory and sum the totals"
• "List the COE codes of every settlement in 2025-11/"

**Best practices:** Subdirectories are not scanned. Use liquidacion_export to turn the batch into spreadsheets.`

	ExportDescription = `Export the settlements of a directory as accounting spreadsheets (Ventas, Gastos, CPNs).

**When to use:** Loading settlements into the accounting system.

**Why it's useful:** Ventas carries one sale line per settlement plus withholding lines (RA07/RA05); Gastos groups deductions by VAT rate with exempt concepts and IVA perception (P007); CPNs lists grain, campaign, kilos and delivered goods.

**Examples:**
• "Export the November settlements to spreadsheets"

**Best practices:** Workbooks are written to the configured output directory; failed documents are listed and left out of the totals.`

	ValidateFileDescription = `Verify that a PDF is readable before extracting it.

**When to use:** Checking uploads or diagnosing a settlement that failed to parse.

**Why it's useful:** Reports missing files, wrong extensions, oversized files and structurally broken PDFs with a typed error kind.

**Examples:**
• "Is liq-3303.pdf a valid PDF?"`

	ServerInfoDescription = `Get server configuration, available tools and the settlement PDFs in the default directory.

**When to use:** At the start of a session, to discover which settlements are available.

**Examples:**
• "Which settlements can you read?"`
)

// ToolDescriptions maps tool names to their descriptions
var ToolDescriptions = map[string]string{
	ToolParseFile:      ParseFileDescription,
	ToolParseDirectory: ParseDirectoryDescription,
	ToolExport:         ExportDescription,
	ToolValidateFile:   ValidateFileDescription,
	ToolServerInfo:     ServerInfoDescription,
}

// GetToolDescription returns the description for a specific tool
func GetToolDescription(toolName string) string {
	if desc, exists := ToolDescriptions[toolName]; exists {
		return desc
	}
	return "Tool description not available"
}

// GetAllToolNames returns the names of all tools, sorted
func GetAllToolNames() []string {
	names := make([]string, 0, len(ToolDescriptions))
	for name := range ToolDescriptions {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
