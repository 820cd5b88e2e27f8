package importer

import (
	"bufio"
	"encoding/csv"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/pkg/errors"

	"github.com/moviepick/go_movie_recommender/config"
	"github.com/moviepick/go_movie_recommender/database"
	"github.com/moviepick/go_movie_recommender/logger"
)

var movieColumns = []string{"id", "title", "title_normalized", "slug", "year"}
var genreColumns = []string{"movie_id", "genre"}
var ratingColumns = []string{"movie_id", "user_id", "rating", "timestamp"}
var tagColumns = []string{"tag_id", "movie_id", "user_id", "timestamp"}
var linkColumns = []string{"movie_id", "ml_link", "imdb_link", "tmdb_link"}

func countDataRows(path string) (int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, errors.Wrap(err, "count rows")
	}
	defer f.Close()
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 1024*1024), 1024*1024)
	counter := 0
	for scanner.Scan() {
		counter++
	}
	if err := scanner.Err(); err != nil {
		return 0, errors.Wrap(err, "count rows")
	}
	if counter > 0 {
		counter-- // header
	}
	return counter, nil
}

func openCsv(path string) (*os.File, *csv.Reader, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, errors.Wrap(err, "open csv")
	}
	parser := csv.NewReader(bufio.NewReader(f))
	parser.LazyQuotes = true
	parser.TrimLeadingSpace = true
	_, _ = parser.Read() //skip header
	return f, parser, nil
}

//LoadMovies reads the movies csv. One row yields one movie plus one genre row
//per pipe-delimited label.
func LoadMovies(path string, batchsize int) (ImportStats, error) {
	var stats ImportStats
	total, err := countDataRows(path)
	if err != nil {
		return stats, err
	}
	f, parser, err := openCsv(path)
	if err != nil {
		return stats, err
	}
	defer f.Close()

	batch := newBatchCommitter(batchsize, &stats)
	for {
		record, err := parser.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return stats, errors.Wrap(err, "parse movies csv")
		}
		stats.Read++
		id, err := strconv.Atoi(record[0])
		if err != nil {
			return stats, errors.Wrap(err, "parse movie id")
		}
		title, normalized, year := ParseTitle(record[1])
		if year == 0 {
			stats.NoYear++
		}
		row := stagedRow{table: "movies", columns: movieColumns,
			values: []interface{}{id, title, normalized, logger.StringToSlug(normalized), year}}
		for _, genre := range strings.Split(record[2], "|") {
			if genre == "" {
				continue
			}
			row.dependents = append(row.dependents, stagedRow{table: "movie_genres", columns: genreColumns, values: []interface{}{id, genre}})
		}
		if err := batch.StageGroup(row); err != nil {
			return stats, err
		}
		if stats.Read%10000 == 0 {
			logger.Log.Debug("movies: ", stats.Read, "/", total)
		}
	}
	if err := batch.Flush(); err != nil {
		return stats, err
	}
	return stats, nil
}

//LoadRatings reads the ratings csv. Users referenced for the first time are
//created through the resolver before their rating is staged.
func LoadRatings(path string, batchsize int, users *userResolver) (ImportStats, error) {
	var stats ImportStats
	total, err := countDataRows(path)
	if err != nil {
		return stats, err
	}
	f, parser, err := openCsv(path)
	if err != nil {
		return stats, err
	}
	defer f.Close()

	batch := newBatchCommitter(batchsize, &stats)
	for {
		record, err := parser.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return stats, errors.Wrap(err, "parse ratings csv")
		}
		stats.Read++
		userid, err := strconv.Atoi(record[0])
		if err != nil {
			return stats, errors.Wrap(err, "parse rating user id")
		}
		movieid, err := strconv.Atoi(record[1])
		if err != nil {
			return stats, errors.Wrap(err, "parse rating movie id")
		}
		rating, err := strconv.ParseFloat(record[2], 64)
		if err != nil {
			return stats, errors.Wrap(err, "parse rating value")
		}
		ts, err := strconv.ParseInt(record[3], 10, 64)
		if err != nil {
			return stats, errors.Wrap(err, "parse rating timestamp")
		}
		if err := users.Ensure(uint(userid), &stats); err != nil {
			return stats, err
		}
		err = batch.Stage("movie_ratings", ratingColumns, []interface{}{movieid, userid, rating, time.Unix(ts, 0)})
		if err != nil {
			return stats, err
		}
		if stats.Read%100000 == 0 {
			logger.Log.Debug("ratings: ", stats.Read, "/", total)
		}
	}
	if err := batch.Flush(); err != nil {
		return stats, err
	}
	return stats, nil
}

//LoadTags reads the tags csv. The tag name row is resolved or created first
//so its id is available for the tag row of the same iteration.
func LoadTags(path string, batchsize int, users *userResolver) (ImportStats, error) {
	var stats ImportStats
	total, err := countDataRows(path)
	if err != nil {
		return stats, err
	}
	f, parser, err := openCsv(path)
	if err != nil {
		return stats, err
	}
	defer f.Close()

	tagnames := make(map[string]uint, 500)
	batch := newBatchCommitter(batchsize, &stats)
	for {
		record, err := parser.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return stats, errors.Wrap(err, "parse tags csv")
		}
		stats.Read++
		userid, err := strconv.Atoi(record[0])
		if err != nil {
			return stats, errors.Wrap(err, "parse tag user id")
		}
		movieid, err := strconv.Atoi(record[1])
		if err != nil {
			return stats, errors.Wrap(err, "parse tag movie id")
		}
		ts, err := strconv.ParseInt(record[3], 10, 64)
		if err != nil {
			return stats, errors.Wrap(err, "parse tag timestamp")
		}
		tagid, err := resolveTagName(record[2], tagnames, &stats)
		if err != nil {
			return stats, err
		}
		if err := users.Ensure(uint(userid), &stats); err != nil {
			return stats, err
		}
		err = batch.Stage("movie_tags", tagColumns, []interface{}{tagid, movieid, userid, time.Unix(ts, 0)})
		if err != nil {
			return stats, err
		}
		if stats.Read%10000 == 0 {
			logger.Log.Debug("tags: ", stats.Read, "/", total)
		}
	}
	if err := batch.Flush(); err != nil {
		return stats, err
	}
	return stats, nil
}

//LoadLinks reads the links csv. The urls are built from the numeric ids, no
//lookups needed.
func LoadLinks(path string, batchsize int) (ImportStats, error) {
	var stats ImportStats
	total, err := countDataRows(path)
	if err != nil {
		return stats, err
	}
	f, parser, err := openCsv(path)
	if err != nil {
		return stats, err
	}
	defer f.Close()

	batch := newBatchCommitter(batchsize, &stats)
	for {
		record, err := parser.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return stats, errors.Wrap(err, "parse links csv")
		}
		stats.Read++
		movieid, err := strconv.Atoi(record[0])
		if err != nil {
			return stats, errors.Wrap(err, "parse link movie id")
		}
		err = batch.Stage("movie_links", linkColumns, []interface{}{
			movieid,
			"https://movielens.org/movies/" + record[0],
			"https://www.imdb.com/title/tt" + record[1] + "/",
			"https://www.themoviedb.org/movie/" + record[2],
		})
		if err != nil {
			return stats, err
		}
		if stats.Read%10000 == 0 {
			logger.Log.Debug("links: ", stats.Read, "/", total)
		}
	}
	if err := batch.Flush(); err != nil {
		return stats, err
	}
	return stats, nil
}

func jobStarted(group string) int64 {
	dbresult, err := database.InsertArray("job_histories", []string{"job_type", "job_group", "started"},
		[]interface{}{"import", group, time.Now()})
	if err != nil {
		return 0
	}
	dbid, _ := dbresult.LastInsertId()
	return dbid
}

func jobEnded(dbid int64) {
	if dbid == 0 {
		return
	}
	database.UpdateColumn("job_histories", "ended", time.Now(), database.Query{Where: "id=?", WhereArgs: []interface{}{dbid}})
}

//CheckAndReadData runs the ingestors in the fixed order movies, ratings,
//tags, links. A stage whose target table already has rows is skipped.
//Returns the total of users created from ratings and tags rows.
func CheckAndReadData() (int, error) {
	cfg_import := config.ConfigGet("import").Data.(config.ImportConfig)

	users := newUserResolver()
	userstotal := 0

	counter, _ := database.CountRows("movies", database.Query{})
	if counter == 0 {
		dbid := jobStarted("movies")
		stats, err := LoadMovies(filepath.Join(cfg_import.DataDir, "movies.csv"), cfg_import.MovieBatchSize)
		jobEnded(dbid)
		if err != nil {
			return userstotal, err
		}
		logger.Log.Infoln("Movies imported - read: ", stats.Read, " added: ", stats.Added, " duplicates: ", stats.Duplicates, " without year: ", stats.NoYear)
	} else {
		logger.Log.Infoln("Movies found - skipping import")
	}

	counter, _ = database.CountRows("movie_ratings", database.Query{})
	if counter == 0 {
		dbid := jobStarted("ratings")
		stats, err := LoadRatings(filepath.Join(cfg_import.DataDir, "ratings.csv"), cfg_import.RatingBatchSize, users)
		jobEnded(dbid)
		if err != nil {
			return userstotal, err
		}
		userstotal += stats.UsersCreated
		logger.Log.Infoln("Ratings imported - read: ", stats.Read, " added: ", stats.Added, " duplicates: ", stats.Duplicates)
	} else {
		logger.Log.Infoln("Ratings found - skipping import")
	}

	counter, _ = database.CountRows("movie_tags", database.Query{})
	if counter == 0 {
		dbid := jobStarted("tags")
		stats, err := LoadTags(filepath.Join(cfg_import.DataDir, "tags.csv"), cfg_import.TagBatchSize, users)
		jobEnded(dbid)
		if err != nil {
			return userstotal, err
		}
		userstotal += stats.UsersCreated
		logger.Log.Infoln("Tags imported - read: ", stats.Read, " added: ", stats.Added, " duplicates: ", stats.Duplicates, " tag names created: ", stats.TagNamesCreated)
	} else {
		logger.Log.Infoln("Tags found - skipping import")
	}

	counter, _ = database.CountRows("movie_links", database.Query{})
	if counter == 0 {
		dbid := jobStarted("links")
		stats, err := LoadLinks(filepath.Join(cfg_import.DataDir, "links.csv"), cfg_import.LinkBatchSize)
		jobEnded(dbid)
		if err != nil {
			return userstotal, err
		}
		logger.Log.Infoln("Links imported - read: ", stats.Read, " added: ", stats.Added, " duplicates: ", stats.Duplicates)
	} else {
		logger.Log.Infoln("Links found - skipping import")
	}

	logger.Log.Infoln("Users created from ratings and tags: ", userstotal)
	return userstotal, nil
}
