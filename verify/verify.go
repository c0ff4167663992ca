// Package verify cross-checks the gold artifact against the silver partitions it was built from.
// The expected counts are computed independently by DuckDB reading the partition files directly.
package verify

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"sort"
	"strings"

	"github.com/duckdb/duckdb-go/v2"
	"github.com/turbot/brewery-pipeline/artifact"
	"github.com/turbot/brewery-pipeline/config"
	"github.com/turbot/brewery-pipeline/constants"
	"github.com/turbot/brewery-pipeline/error_helpers"
	"github.com/turbot/brewery-pipeline/filepaths"
	"github.com/turbot/brewery-pipeline/schema"
	"github.com/turbot/brewery-pipeline/types"
)

const stageName = "verify"

// Mismatch is a group whose gold count differs from the count derived from the partitions.
// A zero count means the group is missing on that side.
type Mismatch struct {
	Key      types.AggregateKey
	Expected int64
	Actual   int64
}

func (m Mismatch) String() string {
	return fmt.Sprintf("%s/%s/%s: expected %d, got %d", m.Key.Country, m.Key.State, m.Key.BreweryType, m.Expected, m.Actual)
}

type Report struct {
	Files int
	// Groups is the number of rows in the gold artifact
	Groups     int
	Sorted     bool
	Mismatches []Mismatch
}

// OK returns whether the gold artifact exactly matches the partitions
func (r *Report) OK() bool {
	return r.Sorted && len(r.Mismatches) == 0
}

type Verifier struct {
	db *sql.DB
}

// NewVerifier opens an in-memory DuckDB database
func NewVerifier() (*Verifier, error) {
	connector, err := duckdb.NewConnector("", nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create duckdb connector: %w", err)
	}
	return &Verifier{db: sql.OpenDB(connector)}, nil
}

func (v *Verifier) Close() error {
	return v.db.Close()
}

// Verify recomputes the aggregate from every partition file under the silver root and compares it,
// group by group, with the gold artifact. The column layout of both is checked against the artifact schemas.
func (v *Verifier) Verify(ctx context.Context, c *config.PipelineConfig) (*Report, error) {
	files, err := artifact.DiscoverFiles(c.SilverRoot, types.NewSuffixFilter(constants.ParquetExtension))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, error_helpers.NewArtifactMissingError(stageName, c.SilverRoot, err)
		}
		return nil, err
	}
	if len(files) == 0 {
		return nil, error_helpers.NewEmptyInputError(stageName, c.SilverRoot)
	}

	goldPath := filepaths.AggregatePath(c.GoldRoot)
	if _, err := os.Stat(goldPath); err != nil {
		return nil, error_helpers.NewArtifactMissingError(stageName, goldPath, err)
	}

	silver := parquetSource(files...)
	gold := parquetSource(goldPath)

	if err := v.validateColumns(ctx, silver, schema.PartitionSchema()); err != nil {
		return nil, error_helpers.NewMalformedInputError(stageName, c.SilverRoot, err)
	}
	if err := v.validateColumns(ctx, gold, schema.AggregateSchema()); err != nil {
		return nil, error_helpers.NewMalformedInputError(stageName, goldPath, err)
	}

	expected, err := v.queryAggregates(ctx, fmt.Sprintf(
		`SELECT country, state, brewery_type, count(id) AS brewery_count FROM %s
WHERE brewery_type IS NOT NULL AND id IS NOT NULL
GROUP BY country, state, brewery_type`, silver))
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate partitions: %w", err)
	}
	// file order is preserved so the row order of the gold artifact can be checked
	actual, err := v.queryAggregates(ctx, fmt.Sprintf(`SELECT %s FROM %s`, schema.AggregateSchema().SelectList(), gold))
	if err != nil {
		return nil, fmt.Errorf("failed to read aggregate: %w", err)
	}

	res := &Report{
		Files:      len(files),
		Groups:     len(actual),
		Sorted:     sort.SliceIsSorted(actual, func(i, j int) bool { return key(actual[i]).Less(key(actual[j])) }),
		Mismatches: compare(expected, actual),
	}
	slog.Info("Verified aggregate", "files", res.Files, "groups", res.Groups, "sorted", res.Sorted, "mismatches", len(res.Mismatches))
	return res, nil
}

func (v *Verifier) validateColumns(ctx context.Context, source string, s *schema.RowSchema) error {
	rows, err := v.db.QueryContext(ctx, fmt.Sprintf("SELECT * FROM %s LIMIT 0", source))
	if err != nil {
		return err
	}
	defer rows.Close()
	columns, err := rows.Columns()
	if err != nil {
		return err
	}
	return s.Validate(columns)
}

func (v *Verifier) queryAggregates(ctx context.Context, query string) ([]types.BreweryAggregate, error) {
	rows, err := v.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var res []types.BreweryAggregate
	for rows.Next() {
		var a types.BreweryAggregate
		if err := rows.Scan(&a.Country, &a.State, &a.BreweryType, &a.BreweryCount); err != nil {
			return nil, err
		}
		res = append(res, a)
	}
	return res, rows.Err()
}

func key(a types.BreweryAggregate) types.AggregateKey {
	return types.AggregateKey{Country: a.Country, State: a.State, BreweryType: a.BreweryType}
}

// compare returns the mismatched groups, sorted by key. Duplicate gold rows for a key are summed.
func compare(expected, actual []types.BreweryAggregate) []Mismatch {
	counts := make(map[types.AggregateKey]*Mismatch)
	get := func(k types.AggregateKey) *Mismatch {
		m, ok := counts[k]
		if !ok {
			m = &Mismatch{Key: k}
			counts[k] = m
		}
		return m
	}
	for _, a := range expected {
		get(key(a)).Expected += a.BreweryCount
	}
	for _, a := range actual {
		get(key(a)).Actual += a.BreweryCount
	}

	var res []Mismatch
	for _, m := range counts {
		if m.Expected != m.Actual {
			res = append(res, *m)
		}
	}
	sort.Slice(res, func(i, j int) bool { return res[i].Key.Less(res[j].Key) })
	return res
}

// parquetSource returns a read_parquet table function over the given files
func parquetSource(paths ...string) string {
	quoted := make([]string, len(paths))
	for i, p := range paths {
		quoted[i] = "'" + strings.ReplaceAll(p, "'", "''") + "'"
	}
	return fmt.Sprintf("read_parquet([%s])", strings.Join(quoted, ", "))
}

// Verify runs a single verification with a new in-memory database
func Verify(ctx context.Context, c *config.PipelineConfig) (*Report, error) {
	v, err := NewVerifier()
	if err != nil {
		return nil, err
	}
	defer v.Close()
	return v.Verify(ctx, c)
}
