// Package dataprocessing holds the table transforms behind every covercli
// operation. Tables are gota DataFrames loaded whole from a spreadsheet or
// CSV file, transformed by a pure function and handed to the exporter.
//
// # Components
//
//  1. LoadTable: reads .xlsx and .csv files into a DataFrame
//  2. IntervalAggregator: groups rows by a key and sums yearly columns into intervals
//  3. Merger: joins two tables on a key column and reports unmatched keys
//  4. CumulativeSplitter: turns "from year X to endpoint" columns into disjoint intervals
//
// # Usage
//
//	df, err := dataprocessing.LoadTable("data/data.xlsx")
//	if err != nil {
//	    return err
//	}
//
//	agg := dataprocessing.NewLossAggregator()
//	byCountry, err := agg.Aggregate(df)
//
// # Missing values
//
// Empty cells and the usual spellings of NaN/null load as missing. The
// literal NA is kept as a string, since it is Namibia's ISO code. Sums skip
// missing values, subtraction propagates them, and joins never match them.
//
// # Error Handling
//
// Referencing a column that does not exist fails with ErrColumnNotFound.
// Join keys that find no partner are not an error; MergeResult reports how
// many there were.
package dataprocessing
