// Package dataset holds loaded tables: Records keyed by column name and
// Datasets that pair an ordered record sequence with the Schema every record
// conforms to.
//
// Datasets are values. Concat and Derive always build new Datasets and never
// touch their inputs.
//
//	all, err := dataset.Concat(jan, feb, mar)
//	enriched, err := dataset.Derive(all,
//	    dataset.ClaimLifetime("claim_lifetime", "incident_date", "transaction_date"),
//	    dataset.YearMonth("year_month", "incident_date"),
//	)
package dataset
