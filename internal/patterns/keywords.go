package patterns

// Keywords is the keyword set used to classify a document family
type Keywords struct {
	// Filename holds lower-case substrings matched against the file name.
	Filename []string

	// Content holds upper-case phrases counted in the first page text.
	Content []string
}

// InvoiceKeywords returns the invoice classification keywords.
func InvoiceKeywords() Keywords {
	return Keywords{
		Filename: []string{"invoice", "ci", "commercial"},
		Content: []string{
			"COMMERCIAL INVOICE", "INVOICE", "BILL TO", "SHIP TO",
			"INVOICE NUMBER", "INVOICE DATE", "EAN", "UNIT PRICE",
		},
	}
}

// PackingListKeywords returns the packing list classification keywords.
func PackingListKeywords() Keywords {
	return Keywords{
		Filename: []string{"packing", "pl", "pack"},
		Content: []string{
			"PACKING LIST", "PACKING", "SHIPPER", "CONSIGNEE",
			"VESSEL", "VOYAGE", "PORT OF LOADING", "GROSS WEIGHT",
		},
	}
}
