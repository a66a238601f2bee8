package domain

import (
	"time"

	"github.com/agrippa-data/course-r-actuaries/internal/dataset"
	"github.com/agrippa-data/course-r-actuaries/internal/schema"
)

// Column names of the claim transaction tables
const (
	ColumnCountryCode     = "country_code"
	ColumnYear            = "year"
	ColumnClaimID         = "claim_id"
	ColumnIncidentDate    = "incident_date"
	ColumnReportDate      = "report_date"
	ColumnTransactionDate = "transaction_date"
	ColumnClaimType       = "claim_type"
	ColumnAmount          = "amount"

	ColumnClaimLifetime = "claim_lifetime"
	ColumnYearMonth     = "year_month"
)

// ClaimTransactionSchema returns the schema of the claim transaction files.
// claim_id is an identifier and is declared as a string.
func ClaimTransactionSchema() *schema.Schema {
	return schema.MustNew(
		schema.Column{Name: ColumnCountryCode, Type: schema.TypeString},
		schema.Column{Name: ColumnYear, Type: schema.TypeInteger},
		schema.Column{Name: ColumnClaimID, Type: schema.TypeString},
		schema.Column{Name: ColumnIncidentDate, Type: schema.TypeDate},
		schema.Column{Name: ColumnReportDate, Type: schema.TypeDate},
		schema.Column{Name: ColumnTransactionDate, Type: schema.TypeDate},
		schema.Column{Name: ColumnClaimType, Type: schema.TypeString},
		schema.Column{Name: ColumnAmount, Type: schema.TypeFloat},
	)
}

// ClaimDerivations returns the derived fields added after loading claim
// transactions: claim_lifetime and year_month.
func ClaimDerivations() []dataset.Derivation {
	return []dataset.Derivation{
		dataset.ClaimLifetime(ColumnClaimLifetime, ColumnIncidentDate, ColumnTransactionDate),
		dataset.YearMonth(ColumnYearMonth, ColumnIncidentDate),
	}
}

// ClaimTransaction is a typed view of one claim transaction record.
// Pointer fields are nil when the source cell was null.
type ClaimTransaction struct {
	CountryCode     string     `json:"country_code"`
	Year            *int64     `json:"year,omitempty"`
	ClaimID         string     `json:"claim_id"`
	IncidentDate    *time.Time `json:"incident_date,omitempty"`
	ReportDate      *time.Time `json:"report_date,omitempty"`
	TransactionDate *time.Time `json:"transaction_date,omitempty"`
	ClaimType       string     `json:"claim_type"`
	Amount          *float64   `json:"amount,omitempty"`
	ClaimLifetime   *int64     `json:"claim_lifetime,omitempty"`
	YearMonth       string     `json:"year_month,omitempty"`
}

// ClaimTransactionFromRecord converts a loaded record into a typed view.
// Derived columns are filled when present.
func ClaimTransactionFromRecord(r dataset.Record) ClaimTransaction {
	tx := ClaimTransaction{
		CountryCode:     text(r, ColumnCountryCode),
		Year:            integer(r, ColumnYear),
		ClaimID:         text(r, ColumnClaimID),
		IncidentDate:    date(r, ColumnIncidentDate),
		ReportDate:      date(r, ColumnReportDate),
		TransactionDate: date(r, ColumnTransactionDate),
		ClaimType:       text(r, ColumnClaimType),
		ClaimLifetime:   integer(r, ColumnClaimLifetime),
		YearMonth:       text(r, ColumnYearMonth),
	}
	if f, ok := r.Get(ColumnAmount).Float(); ok {
		tx.Amount = &f
	}
	return tx
}

// ClaimTransactions converts every record of a dataset
func ClaimTransactions(ds *dataset.Dataset) []ClaimTransaction {
	out := make([]ClaimTransaction, ds.Len())
	for i := range out {
		out[i] = ClaimTransactionFromRecord(ds.At(i))
	}
	return out
}

func text(r dataset.Record, name string) string {
	s, _ := r.Get(name).Text()
	return s
}

func integer(r dataset.Record, name string) *int64 {
	if i, ok := r.Get(name).Int(); ok {
		return &i
	}
	return nil
}

func date(r dataset.Record, name string) *time.Time {
	if d, ok := r.Get(name).Date(); ok {
		return &d
	}
	return nil
}
