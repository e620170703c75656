// Package dataprocessing reads raw OLTT task exports into trial tables.
//
// A task export is a CSV file with a few metadata lines above the header.
// Header names and text values keep the space the exporter writes after
// each comma, so " object" and " dustpan" are matched verbatim.
//
// # Usage
//
//	parser := dataprocessing.NewParser(4, logger)
//	trials, stats, err := parser.Parse(r, summary.RecallLayout)
//	if err != nil {
//	    return err
//	}
//	logger.Info("parsed", "kept", stats.Kept, "dropped", stats.Dropped)
package dataprocessing
