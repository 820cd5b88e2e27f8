package importer

import (
	"testing"

	"github.com/moviepick/go_movie_recommender/database"
)

func stageTestMovie(t *testing.T, batch *batchCommitter, id int, title string) {
	t.Helper()
	err := batch.Stage("movies", movieColumns, []interface{}{id, title, title, title, 2000})
	if err != nil {
		t.Fatal(err)
	}
}

func TestBatchCommitter(t *testing.T) {
	t.Run("ReplayOnDuplicate", func(t *testing.T) {
		setupTestDb(t)
		var stats ImportStats
		batch := newBatchCommitter(5, &stats)
		stageTestMovie(t, batch, 1, "First")
		stageTestMovie(t, batch, 2, "Second")
		stageTestMovie(t, batch, 1, "First Again")
		stageTestMovie(t, batch, 4, "Fourth")
		stageTestMovie(t, batch, 5, "Fifth")

		if stats.Added != 4 {
			t.Error("wrong added count: ", stats.Added)
		}
		if stats.Duplicates != 1 {
			t.Error("wrong duplicate count: ", stats.Duplicates)
		}
		counter, _ := database.CountRows("movies", database.Query{})
		if counter != 4 {
			t.Error("wrong row count: ", counter)
		}
	})
	t.Run("ReplayDropsDependentsWithParent", func(t *testing.T) {
		setupTestDb(t)
		var stats ImportStats
		batch := newBatchCommitter(100, &stats)
		for i := 0; i < 2; i++ {
			err := batch.StageGroup(stagedRow{table: "movies", columns: movieColumns,
				values:     []interface{}{1, "First", "First", "first", 2000},
				dependents: []stagedRow{{table: "movie_genres", columns: genreColumns, values: []interface{}{1, "Adventure"}}},
			})
			if err != nil {
				t.Fatal(err)
			}
		}
		if err := batch.Flush(); err != nil {
			t.Fatal(err)
		}
		if stats.Added != 2 {
			t.Error("wrong added count: ", stats.Added)
		}
		if stats.Duplicates != 1 {
			t.Error("wrong duplicate count: ", stats.Duplicates)
		}
		counter, _ := database.CountRows("movie_genres", database.Query{Where: "movie_id = ? and genre = ?", WhereArgs: []interface{}{1, "Adventure"}})
		if counter != 1 {
			t.Error("rejected movie row should drop its genre rows: ", counter)
		}
	})
	t.Run("PartialFlush", func(t *testing.T) {
		setupTestDb(t)
		var stats ImportStats
		batch := newBatchCommitter(100, &stats)
		stageTestMovie(t, batch, 1, "First")
		stageTestMovie(t, batch, 2, "Second")
		if stats.Added != 0 {
			t.Error("rows should stay staged below the limit")
		}
		if err := batch.Flush(); err != nil {
			t.Fatal(err)
		}
		if stats.Added != 2 {
			t.Error("wrong added count: ", stats.Added)
		}
	})
	t.Run("FatalOnNonConstraintError", func(t *testing.T) {
		setupTestDb(t)
		var stats ImportStats
		batch := newBatchCommitter(100, &stats)
		if err := batch.Stage("no_such_table", []string{"id"}, []interface{}{1}); err != nil {
			t.Fatal(err)
		}
		if err := batch.Flush(); err == nil {
			t.Error("expected an error for a missing table")
		}
	})
	t.Run("EmptyFlush", func(t *testing.T) {
		setupTestDb(t)
		var stats ImportStats
		batch := newBatchCommitter(10, &stats)
		if err := batch.Flush(); err != nil {
			t.Fatal(err)
		}
	})
}
