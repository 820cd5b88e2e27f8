package importer

import (
	"strconv"

	"github.com/moviepick/go_movie_recommender/database"
)

//Imported accounts cannot log in - the column is not null but the value never
//matches a bcrypt digest.
const importedUserPassword = "*imported*"

const testUserName = "testuser"
const testUserPassword = "$2b$12$2PbFYnIt5NSfYIaVxSrxmOiDGbpvgc.RBNHhEs5QPCRYzn/bHTrfe"

type userResolver struct {
	seen map[uint]struct{}
}

func newUserResolver() *userResolver {
	return &userResolver{seen: make(map[uint]struct{}, 1000)}
}

//Ensure creates the user row for an id seen in a ratings or tags file. The
//table is checked on first sight so a rerun over a partly filled database
//does not trip the uniqueness constraint.
func (u *userResolver) Ensure(id uint, stats *ImportStats) error {
	if _, ok := u.seen[id]; ok {
		return nil
	}
	counter, err := database.CountRows("users", database.Query{Where: "id = ?", WhereArgs: []interface{}{id}})
	if err != nil {
		return err
	}
	if counter == 0 {
		_, err = database.InsertArray("users", []string{"id", "username", "password", "is_active"},
			[]interface{}{id, "user_" + strconv.FormatUint(uint64(id), 10), importedUserPassword, true})
		if err != nil {
			return err
		}
		stats.UsersCreated++
	}
	u.seen[id] = struct{}{}
	return nil
}

func resolveTagName(name string, cache map[string]uint, stats *ImportStats) (uint, error) {
	if id, ok := cache[name]; ok {
		return id, nil
	}
	rows, err := database.QueryTagName(database.Query{Select: "id, name", Where: "name = ?", WhereArgs: []interface{}{name}, Limit: 1})
	if err != nil {
		return 0, err
	}
	if len(rows) >= 1 {
		cache[name] = rows[0].ID
		return rows[0].ID, nil
	}
	dbresult, err := database.InsertArray("movie_tagnames", []string{"name"}, []interface{}{name})
	if err != nil {
		return 0, err
	}
	dbid, err := dbresult.LastInsertId()
	if err != nil {
		return 0, err
	}
	stats.TagNamesCreated++
	cache[name] = uint(dbid)
	return uint(dbid), nil
}

//EnsureTestUser seeds the fixture account used for trying out the api. The
//hash is bcrypt of Test123.
func EnsureTestUser() error {
	counter, err := database.CountRows("users", database.Query{Where: "username = ?", WhereArgs: []interface{}{testUserName}})
	if err != nil {
		return err
	}
	if counter >= 1 {
		return nil
	}
	_, err = database.InsertRowMap("users", map[string]interface{}{
		"username":  testUserName,
		"password":  testUserPassword,
		"is_active": true,
	})
	return err
}
