package database

import (
	"database/sql"
	"strconv"
	"strings"

	"github.com/moviepick/go_movie_recommender/config"
	"github.com/moviepick/go_movie_recommender/logger"
)

type Query struct {
	Select    string
	Where     string
	WhereArgs []interface{}
	OrderBy   string
	Limit     uint64
	Offset    uint64
	InnerJoin string
}

func logSQLDebug() bool {
	conf := config.ConfigGet("general")
	if conf == nil || conf.Data == nil {
		return false
	}
	cfg_general, ok := conf.Data.(config.GeneralConfig)
	return ok && strings.EqualFold(cfg_general.DBLogLevel, "debug")
}

func buildquery(columns string, table string, qu Query, count bool) string {
	var query strings.Builder
	query.WriteString("select ")

	if qu.InnerJoin != "" {
		if strings.Contains(columns, table+".") {
			query.WriteString(columns + " from " + table)
		} else {
			if count {
				query.WriteString("count(*) from " + table)
			} else {
				query.WriteString(table + ".* from " + table)
			}
		}
		query.WriteString(" inner join " + qu.InnerJoin)
	} else {
		query.WriteString(columns + " from " + table)
	}
	if qu.Where != "" {
		query.WriteString(" where " + qu.Where)
	}
	if qu.OrderBy != "" {
		query.WriteString(" order by " + qu.OrderBy)
	}
	if qu.Limit != 0 {
		if qu.Offset != 0 {
			query.WriteString(" limit " + strconv.Itoa(int(qu.Offset)) + ", " + strconv.Itoa(int(qu.Limit)))
		} else {
			query.WriteString(" limit " + strconv.Itoa(int(qu.Limit)))
		}
	}
	return query.String()
}

//Uses column id
func CountRows(table string, qu Query) (int, error) {
	qu.Offset = 0
	qu.Limit = 0
	if logSQLDebug() {
		logger.Log.Debug("query count: ", buildquery("count(*)", table, qu, true), " -args: ", qu.WhereArgs)
	}
	var counter int
	rows, err := DB.Query(buildquery("count(*)", table, qu, true), qu.WhereArgs...)
	if err != nil {
		logger.Log.Error("Query: ", buildquery("count(*)", table, qu, true), " error: ", err)
		return 0, err
	}
	defer rows.Close()
	rows.Next()
	rows.Scan(&counter)
	return counter, nil
}

func insertmapprepare(table string, insert map[string]interface{}) (string, []interface{}) {
	query := "INSERT INTO " + table + " ("
	i := 0
	columns := ""
	values := ""
	args := make([]interface{}, 0, len(insert))
	for idx, val := range insert {
		if i != 0 {
			columns += ","
			values += ","
		}
		i += 1
		columns += idx
		values += "?"
		args = append(args, val)
	}
	query += columns + ") VALUES (" + values + ")"
	return query, args
}

func InsertRowMap(table string, insert map[string]interface{}) (sql.Result, error) {
	query, args := insertmapprepare(table, insert)
	result, err := dbexec(query, args)
	if err != nil {
		logger.Log.Error("Insert: ", table, " values: ", insert, " error: ", err)
	}
	return result, err
}

func insertarrayprepare(table string, columns []string) string {
	query := "INSERT INTO " + table + " ("
	cols := ""
	vals := ""
	for idx := range columns {
		if idx != 0 {
			cols += ","
			vals += ","
		}
		cols += columns[idx]
		vals += "?"
	}
	query += cols + ") VALUES (" + vals + ")"
	return query
}

func InsertArray(table string, columns []string, values []interface{}) (sql.Result, error) {
	query := insertarrayprepare(table, columns)
	result, err := dbexec(query, values)
	if err != nil {
		logger.Log.Debug("Insert: ", table, " values: ", columns, values, " error: ", err)
	}
	return result, err
}

//InsertArrayTx runs the same insert as InsertArray inside the given
//transaction. The caller holds the write lock for the whole transaction.
func InsertArrayTx(tx *sql.Tx, table string, columns []string, values []interface{}) (sql.Result, error) {
	query := insertarrayprepare(table, columns)
	return tx.Exec(query, values...)
}

func dbexec(query string, args []interface{}) (sql.Result, error) {
	if logSQLDebug() {
		logger.Log.Debug("query exec: ", query, " -args: ", args)
	}
	ReadWriteMu.Lock()
	result, err := DB.Exec(query, args...)
	ReadWriteMu.Unlock()
	return result, err
}

func updatemapprepare(table string, update map[string]interface{}, qu Query) (string, []interface{}) {
	query := "UPDATE " + table + " SET "
	i := 0
	args := make([]interface{}, 0, len(update))
	for idx, val := range update {
		if i != 0 {
			query += ","
		}
		i += 1
		query += idx + " = ?"
		args = append(args, val)
	}
	if qu.Where != "" {
		query += " where " + qu.Where
	}
	if len(qu.WhereArgs) >= 1 {
		args = append(args, qu.WhereArgs...)
	}
	return query, args
}

func UpdateRowMap(table string, update map[string]interface{}, qu Query) (sql.Result, error) {
	query, args := updatemapprepare(table, update, qu)
	result, err := dbexec(query, args)
	if err != nil {
		logger.Log.Error("Update: ", table, " values: ", update, " where: ", qu.Where, " whereargs: ", qu.WhereArgs, " error: ", err)
	}
	return result, err
}

func updatecolprepare(table string, column string, value interface{}, qu Query) (string, []interface{}) {
	query := "UPDATE " + table + " SET " + column + " = ?"
	if qu.Where != "" {
		query += " where " + qu.Where
	}
	args := make([]interface{}, 0, len(qu.WhereArgs)+1)
	args = append(args, value)
	if len(qu.WhereArgs) >= 1 {
		args = append(args, qu.WhereArgs...)
	}
	return query, args
}

func UpdateColumn(table string, column string, value interface{}, qu Query) (sql.Result, error) {
	query, args := updatecolprepare(table, column, value, qu)
	result, err := dbexec(query, args)
	if err != nil {
		logger.Log.Error("Update: ", table, " values: ", column, value, " where: ", qu.Where, " whereargs: ", qu.WhereArgs, " error: ", err)
	}
	return result, err
}

func DeleteRow(table string, qu Query) (sql.Result, error) {
	query := "DELETE FROM " + table
	if qu.Where != "" {
		query += " where " + qu.Where
	}
	if logSQLDebug() {
		logger.Log.Debug("query delete: ", query, " -args: ", qu.WhereArgs)
	}
	ReadWriteMu.Lock()
	result, err := DB.Exec(query, qu.WhereArgs...)
	if err != nil {
		logger.Log.Error("Delete: ", table, " where: ", qu.Where, " whereargs: ", qu.WhereArgs, " error: ", err)
	}
	ReadWriteMu.Unlock()
	return result, err
}

//Upsert checks the row count for the given filter and inserts or updates.
//Atomicity is left to the sqlite transaction layer; concurrent writers for the
//same filter can still race (accepted gap).
func Upsert(table string, update map[string]interface{}, qu Query) (sql.Result, error) {
	var counter int
	counter, _ = CountRows(table, qu)
	if counter == 0 {
		result, err := InsertRowMap(table, update)
		if err != nil {
			logger.Log.Error("Upsert-insert: ", table, " values: ", update, " where: ", qu.Where, " whereargs: ", qu.WhereArgs, " error: ", err)
		}
		return result, err
	}
	result, err := UpdateRowMap(table, update, qu)
	if err != nil {
		logger.Log.Error("Upsert-update: ", table, " values: ", update, " where: ", qu.Where, " whereargs: ", qu.WhereArgs, " error: ", err)
	}
	return result, err
}
