package dataprocessing

import (
	"context"
	"log/slog"

	"github.com/agrippa-data/course-r-actuaries/internal/schema"
)

// InferFile drafts a schema from the header and cell texts of one file.
// The result is meant to be reviewed and saved as a schema description;
// it is never applied to a load.
func (p *Parser) InferFile(ctx context.Context, path string) (*schema.Schema, error) {
	table, err := p.readTable(ctx, path)
	if err != nil {
		return nil, err
	}

	rows := make([][]string, len(table.rows))
	for i, row := range table.rows {
		texts := make([]string, len(table.header))
		for j := range texts {
			if j < len(row.cells) {
				texts[j] = row.cells[j].text
			}
		}
		rows[i] = texts
	}

	inferred, err := schema.Infer(table.header, rows, p.opts.NullTokens...)
	if err != nil {
		return nil, err
	}

	p.logger.InfoContext(ctx, "Inferred schema",
		slog.String("file", path),
		slog.Int("rows_sampled", len(rows)),
		slog.String("schema", inferred.String()))

	return inferred, nil
}
