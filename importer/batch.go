package importer

import (
	"github.com/mattn/go-sqlite3"
	"github.com/pkg/errors"

	"github.com/moviepick/go_movie_recommender/database"
)

type ImportStats struct {
	Read            int
	Added           int
	Duplicates      int
	NoYear          int
	TagNamesCreated int
	UsersCreated    int
}

type stagedRow struct {
	table      string
	columns    []string
	values     []interface{}
	dependents []stagedRow
}

//batchCommitter stages insert rows and commits them in one transaction once
//the limit is reached. A constraint error on the bulk commit rolls back the
//whole batch and replays it group by group, so one duplicate does not cost
//the rest of the batch. Rows staged as dependents of another row are dropped
//with it when the parent is rejected.
type batchCommitter struct {
	limit  int
	size   int
	staged []stagedRow
	stats  *ImportStats
}

func newBatchCommitter(limit int, stats *ImportStats) *batchCommitter {
	if limit < 1 {
		limit = 1
	}
	return &batchCommitter{
		limit:  limit,
		staged: make([]stagedRow, 0, limit),
		stats:  stats,
	}
}

func (b *batchCommitter) Stage(table string, columns []string, values []interface{}) error {
	return b.StageGroup(stagedRow{table: table, columns: columns, values: values})
}

func (b *batchCommitter) StageGroup(row stagedRow) error {
	b.staged = append(b.staged, row)
	b.size += 1 + len(row.dependents)
	if b.size >= b.limit {
		return b.Flush()
	}
	return nil
}

func (b *batchCommitter) Flush() error {
	if len(b.staged) == 0 {
		return nil
	}
	database.ReadWriteMu.Lock()
	tx, err := database.DB.Begin()
	if err != nil {
		database.ReadWriteMu.Unlock()
		return errors.Wrap(err, "begin batch")
	}
	var exerr error
	for idx := range b.staged {
		_, exerr = database.InsertArrayTx(tx, b.staged[idx].table, b.staged[idx].columns, b.staged[idx].values)
		if exerr != nil {
			break
		}
		for _, dep := range b.staged[idx].dependents {
			_, exerr = database.InsertArrayTx(tx, dep.table, dep.columns, dep.values)
			if exerr != nil {
				break
			}
		}
		if exerr != nil {
			break
		}
	}
	if exerr == nil {
		exerr = tx.Commit()
		if exerr == nil {
			database.ReadWriteMu.Unlock()
			b.stats.Added += b.size
			b.staged = b.staged[:0]
			b.size = 0
			return nil
		}
	}
	tx.Rollback()
	database.ReadWriteMu.Unlock()
	if !isConstraintErr(exerr) {
		return errors.Wrap(exerr, "commit batch")
	}
	return b.replay()
}

//replay commits the staged groups one at a time after a failed bulk commit.
//A group whose lead row hits a constraint is counted as a duplicate and
//skipped in full, its dependent rows included.
func (b *batchCommitter) replay() error {
	for idx := range b.staged {
		_, err := database.InsertArray(b.staged[idx].table, b.staged[idx].columns, b.staged[idx].values)
		if err != nil {
			if isConstraintErr(err) {
				b.stats.Duplicates++
				continue
			}
			return errors.Wrap(err, "replay batch row")
		}
		b.stats.Added++
		for _, dep := range b.staged[idx].dependents {
			_, err := database.InsertArray(dep.table, dep.columns, dep.values)
			if err != nil {
				if isConstraintErr(err) {
					b.stats.Duplicates++
					continue
				}
				return errors.Wrap(err, "replay batch row")
			}
			b.stats.Added++
		}
	}
	b.staged = b.staged[:0]
	b.size = 0
	return nil
}

func isConstraintErr(err error) bool {
	var serr sqlite3.Error
	if errors.As(err, &serr) {
		return serr.Code == sqlite3.ErrConstraint
	}
	return false
}
