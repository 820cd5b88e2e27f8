package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"
)

var version string
var buildstamp string
var githash string

type ratingRow struct {
	UserID  int     `db:"user_id"`
	MovieID int     `db:"movie_id"`
	Rating  float64 `db:"rating"`
}

func queryIds(db *sqlx.DB, query string) ([]int, error) {
	ids := []int{}
	err := db.Select(&ids, query)
	return ids, err
}

// buildMatrix returns the dense user by movie matrix plus the ordered id
// lists its axes map to. Cells without a rating stay zero.
func buildMatrix(db *sqlx.DB) ([][]float64, []int, []int, int, error) {
	userids, err := queryIds(db, "select distinct user_id from movie_ratings order by user_id")
	if err != nil {
		return nil, nil, nil, 0, err
	}
	movieids, err := queryIds(db, "select distinct movie_id from movie_ratings order by movie_id")
	if err != nil {
		return nil, nil, nil, 0, err
	}
	userindex := make(map[int]int, len(userids))
	for i, id := range userids {
		userindex[id] = i
	}
	movieindex := make(map[int]int, len(movieids))
	for i, id := range movieids {
		movieindex[id] = i
	}

	matrix := make([][]float64, len(userids))
	for i := range matrix {
		matrix[i] = make([]float64, len(movieids))
	}

	rows, err := db.Queryx("select user_id, movie_id, rating from movie_ratings")
	if err != nil {
		return nil, nil, nil, 0, err
	}
	defer rows.Close()
	filled := 0
	for rows.Next() {
		var row ratingRow
		if err := rows.StructScan(&row); err != nil {
			return nil, nil, nil, 0, err
		}
		matrix[userindex[row.UserID]][movieindex[row.MovieID]] = row.Rating
		filled++
	}
	return matrix, userids, movieids, filled, rows.Err()
}

func printCorner(matrix [][]float64, size int) {
	rows := size
	if rows > len(matrix) {
		rows = len(matrix)
	}
	for i := 0; i < rows; i++ {
		cols := size
		if cols > len(matrix[i]) {
			cols = len(matrix[i])
		}
		for j := 0; j < cols; j++ {
			fmt.Printf("%5.1f ", matrix[i][j])
		}
		fmt.Println()
	}
}

func main() {
	dbfile := flag.String("db", "./databases/data.db", "path to the sqlite database")
	corner := flag.Int("corner", 5, "size of the printed corner sample")
	flag.Parse()

	if _, err := os.Stat(*dbfile); os.IsNotExist(err) {
		log.Fatalln("database not found: ", *dbfile)
	}
	db, err := sqlx.Connect("sqlite3", "file:"+*dbfile+"?_fk=1&mode=ro")
	if err != nil {
		log.Fatalln("open database: ", err)
	}
	defer db.Close()

	matrix, userids, movieids, filled, err := buildMatrix(db)
	if err != nil {
		log.Fatalln("build matrix: ", err)
	}

	fmt.Println("users: ", len(userids))
	fmt.Println("movies:", len(movieids))
	fmt.Println("ratings:", filled)
	fmt.Printf("shape:  %d x %d\n", len(userids), len(movieids))
	cells := len(userids) * len(movieids)
	if cells > 0 {
		fmt.Printf("filled: %.2f%%\n", float64(filled)/float64(cells)*100)
	}
	fmt.Println()
	printCorner(matrix, *corner)
}
