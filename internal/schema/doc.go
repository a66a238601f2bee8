// Package schema declares the shape of tabular input: an ordered list of
// named, typed columns, the typed cell values that conform to it, and the
// strict text codec between the two.
//
// Four type tags exist: string, integer, float and date. Parsing is driven
// entirely by the declared tag. In particular a string column is never
// inspected for numbers, so identifiers such as "007" survive untouched.
//
// Inference is available for building a schema iteratively, but it only
// reports a candidate Schema; nothing in the loader applies it implicitly.
//
//	s, err := schema.New(
//	    schema.Column{Name: "claim_id", Type: schema.TypeString},
//	    schema.Column{Name: "amount", Type: schema.TypeFloat},
//	    schema.Column{Name: "incident_date", Type: schema.TypeDate},
//	)
//
// Schemas can also be described declaratively in YAML:
//
//	columns:
//	  - name: claim_id
//	    type: string
//	  - name: incident_date
//	    type: date
//	    format: "2006-01-02"
package schema
