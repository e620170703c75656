// Package exporter writes summary tables into XLSX workbooks and reads them
// back.
//
// Package lays out every sheet the same way: column names across row 1,
// category labels down column A, statistics in the body. Unpack reverses
// that layout and is used by the inspect command and the tests.
//
//	data, err := exporter.Package([]exporter.Sheet{
//	    {Name: "freercl", Table: free},
//	    {Name: "cuedrcl", Table: cued},
//	    {Name: "recognt", Table: recog},
//	})
package exporter
