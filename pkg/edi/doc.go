// Package edi defines the in-memory model for ANSI X12-style EDI documents.
//
// A Document is an ordered list of Segments. Each Segment carries an
// identifier (such as "ISA" or "ST") and a positional list of Elements;
// Elements hold Repetitions, and Repetitions hold either a scalar value or a
// positional list of Components. At every positional level an absent slot
// (nil) is distinct from a present-but-empty value, and addressing an index
// past the end grows the list with absent slots. This mirrors how delimited
// EDI text encodes missing fields: consecutive separators.
//
// Documents are produced by parsing delimited text (pkg/parser), by mapping
// an XML tree (pkg/edixml), or built up programmatically starting from
// NewDocument. Serialization back to delimited text lives in pkg/format.
//
// # Basic Usage
//
//	doc, err := parser.Parse(raw, edi.Options{})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	for _, ts := range doc.TransactionSets() {
//	    fmt.Println(ts.ID(), len(ts.Segments))
//	}
package edi
