package descriptions

import "sort"

// Tool descriptions with practical examples and use cases

const (
	// Extraction tools
	ParseFileDescription = `Extract invoice records or packing list items from one trade document.

**When to use:** Need the structured content of a commercial invoice or a packing list: header references, line items, quantities and prices.

**Why it's useful:** Classifies the document (or takes the type you pin), walks every page, and returns complete records. Fields that are not on a page are reported as null, never guessed.

**Examples:**
• Read one invoice: "Parse CI_2024_0815.pdf and list the invoice numbers it contains"
• Pin the family: "Parse shipment-12.pdf as packing_list and sum quantities per EAN"
• Merge duplicates: "Parse invoice.pdf with duplicates=sum to add repeated EAN lines"

**Common workflows:**
1. Reconciliation: Parse invoice → Parse packing list → Compare quantities per EAN
2. Data entry: Parse file → Review records → Export workbook

**Best practices:** Leave document_type as auto unless the file name and first page are ambiguous. A file holding several invoices yields one record per invoice.`

	ParseBatchDescription = `Parse several trade documents in one call and collect the results in request order.

**When to use:** A shipment comes with several invoices and packing lists, or a whole directory needs processing.

**Why it's useful:** A file that cannot be read becomes an error entry; the other files are still parsed.

**Examples:**
• Shipment folder: "Parse every file in shipments/2024-11/"
• Mixed list: "Parse a.pdf, b.pdf, c.json and tell me which failed"

**Common workflows:**
1. Search directory → Parse batch → Export workbook
2. Parse batch → Inspect error entries → Fix or re-extract failed files

**Best practices:** Pass one document type for all files or one per file. Leave paths empty with a directory to parse everything found there.`

	ClassifyDescription = `Decide whether a document is a commercial invoice or a packing list.

**When to use:** Before parsing, when you want to know how a file will be treated, or to route files.

**Why it's useful:** Uses the file name first and the first page text second, and reports which keywords decided.

**Examples:**
• "Is scan_0042.pdf an invoice or a packing list?"
• "Classify every file in inbox/ before parsing"

**Best practices:** A file name containing invoice or packing keywords wins over content. Files with no evidence fall back to invoice.`

	ValidateFileDescription = `Verify that a PDF or page dump is readable before parsing it.

**When to use:** Before parsing files of unknown origin, especially in batch runs.

**Why it's useful:** Checks size limits and the document structure and reports the page count, without extracting any data.

**Examples:**
• "Validate uploads/invoice.pdf before parsing"
• "Check that export.json is a valid page dump"

**Best practices:** Validation failures are reported in the result, not as tool errors.`

	SearchDirectoryDescription = `Find PDF files and JSON page dumps in a directory.

**When to use:** Discover which trade documents are available before parsing.

**Why it's useful:** Walks the directory tree, skips unreadable or oversized files, and supports substring and word matching on file names.

**Examples:**
• "List all documents in the default directory"
• "Find files matching 'packing 778'"

**Best practices:** Leave directory empty to search the configured directory.`

	StatsDirectoryDescription = `Summarize the trade documents available in a directory.

**When to use:** Get an overview of how many sources exist, their formats and their sizes.

**Examples:**
• "How many PDFs and page dumps are in shipments/?"

**Best practices:** Use search_directory for the file list itself.`

	ExportXLSXDescription = `Parse documents and write the results to an Excel workbook.

**When to use:** The extracted records must be handed to people or systems that work with spreadsheets.

**Why it's useful:** Writes an Invoice sheet and a Packing_List sheet with typed numeric columns and per-shipment summaries.

**Examples:**
• "Export all invoices and packing lists in shipments/2024-11/ to report.xlsx"

**Best practices:** The output path must lie inside the configured directory. At least one record must be found.`

	ServerInfoDescription = `Get server capabilities, limits, and the documents found in the default directory.

**When to use:** At the start of a session to learn what the server can do and which files are available.

**Best practices:** Directory contents are cached for a few minutes; use search_directory for a fresh listing.`
)

// ToolDescriptions maps tool names to their comprehensive descriptions
var ToolDescriptions = map[string]string{
	"tradedoc_parse_file":       ParseFileDescription,
	"tradedoc_parse_batch":      ParseBatchDescription,
	"tradedoc_classify":         ClassifyDescription,
	"tradedoc_validate_file":    ValidateFileDescription,
	"tradedoc_search_directory": SearchDirectoryDescription,
	"tradedoc_stats_directory":  StatsDirectoryDescription,
	"tradedoc_export_xlsx":      ExportXLSXDescription,
	"tradedoc_server_info":      ServerInfoDescription,
}

// GetToolDescription returns the comprehensive description for a tool
func GetToolDescription(toolName string) string {
	if desc, exists := ToolDescriptions[toolName]; exists {
		return desc
	}
	return "Tool description not available"
}

// GetAllToolNames returns the tool names in sorted order
func GetAllToolNames() []string {
	names := make([]string, 0, len(ToolDescriptions))
	for name := range ToolDescriptions {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
