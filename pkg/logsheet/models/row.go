package models

// Row is one data line's whitespace-tokenized fields, in column order.
// A valid row has exactly as many tokens as its document's Schema has
// columns.
type Row []string
