package main

import (
	"path/filepath"
	"testing"

	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"
)

func setupMatrixDb(t *testing.T) *sqlx.DB {
	t.Helper()
	db, err := sqlx.Connect("sqlite3", "file:"+filepath.Join(t.TempDir(), "data.db"))
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { db.Close() })
	_, err = db.Exec(`CREATE TABLE "movie_ratings" (
		"id" integer primary key autoincrement,
		"movie_id" integer not null,
		"user_id" integer not null,
		"rating" real not null,
		"timestamp" datetime not null default CURRENT_TIMESTAMP
	);`)
	if err != nil {
		t.Fatal(err)
	}
	return db
}

func insertRating(t *testing.T, db *sqlx.DB, userid int, movieid int, rating float64) {
	t.Helper()
	_, err := db.Exec("insert into movie_ratings (movie_id, user_id, rating) values (?, ?, ?)", movieid, userid, rating)
	if err != nil {
		t.Fatal(err)
	}
}

func TestBuildMatrix(t *testing.T) {
	db := setupMatrixDb(t)
	insertRating(t, db, 1, 10, 4.0)
	insertRating(t, db, 2, 20, 3.5)
	insertRating(t, db, 2, 30, 5.0)

	matrix, userids, movieids, filled, err := buildMatrix(db)
	if err != nil {
		t.Fatal(err)
	}
	if len(userids) != 2 || len(movieids) != 3 {
		t.Fatal("wrong shape: ", len(userids), len(movieids))
	}
	if filled != 3 {
		t.Error("wrong fill count: ", filled)
	}
	if matrix[0][0] != 4.0 {
		t.Error("wrong cell for first user, first movie: ", matrix[0][0])
	}
	if matrix[1][2] != 5.0 {
		t.Error("wrong cell for second user, third movie: ", matrix[1][2])
	}
	if matrix[0][1] != 0 {
		t.Error("unrated cell should stay zero: ", matrix[0][1])
	}
}

func TestBuildMatrixEmpty(t *testing.T) {
	db := setupMatrixDb(t)
	matrix, userids, movieids, filled, err := buildMatrix(db)
	if err != nil {
		t.Fatal(err)
	}
	if len(matrix) != 0 || len(userids) != 0 || len(movieids) != 0 || filled != 0 {
		t.Error("expected empty result")
	}
}
