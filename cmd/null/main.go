// Command null shows NULL handling against an encrypted SQLite database:
// NULL columns come back as nil entries in the materialized rows.
package main

import (
	"context"
	"database/sql"
	"fmt"
	"os"

	"github.com/jonbodner/sqlport"
	"github.com/jonbodner/sqlport/adapter"
	_ "github.com/mutecomm/go-sqlcipher"
	log "github.com/sirupsen/logrus"
)

const dbFile = "./sqlport_null.db"

func main() {
	log.SetLevel(log.DebugLevel)

	ctx := context.Background()
	db := setupDbSqlcipher()
	defer db.Close()
	defer os.Remove(dbFile)

	e := sqlport.NewExecutor(adapter.Sqlite)
	p := adapter.Sql(db)

	res, err := e.Query(ctx, p, "select id, name, cost from product where id = :id", sqlport.Params{"id": 1})
	if err != nil {
		log.Fatal(err)
	}
	for _, row := range res.Rows {
		for i, col := range res.Columns {
			if row[i] == nil {
				log.Infoln(col, "is NULL")
			} else {
				log.Infoln(col, "=", row[i])
			}
		}
	}

	// binding nil writes NULL back
	count, err := e.Exec(ctx, p, "update product set cost = :cost where id = :id",
		sqlport.Params{"id": 2, "cost": nil})
	if err != nil {
		log.Fatal(err)
	}
	log.Infoln("nulled cost on", count, "rows")

	res, err = e.Query(ctx, p, "select id, cost from product order by id")
	if err != nil {
		log.Fatal(err)
	}
	for _, row := range res.Rows {
		log.Infoln(row)
	}
}

func setupDbSqlcipher() *sql.DB {
	os.Remove(dbFile)

	db, err := sql.Open("sqlite3", dbFile+"?_pragma_key=sqlport&_pragma_cipher_page_size=4096")
	if err != nil {
		log.Fatal(err)
	}
	sqlStmt := `
	create table product (id integer not null primary key, name text, cost real);
	`
	if _, err = db.Exec(sqlStmt); err != nil {
		log.Fatalf("%q: %s", err, sqlStmt)
	}

	e := sqlport.NewExecutor(adapter.Sqlite)
	for i := 1; i <= 10; i++ {
		record := sqlport.Params{"id": i, "name": fmt.Sprintf("person%d", i), "cost": nil}
		if i%2 == 0 {
			record["cost"] = 1.1 * float64(i)
		}
		_, err := e.Exec(context.Background(), adapter.Sql(db),
			"insert into product(id, name, cost) values(:id, :name, :cost)", record)
		if err != nil {
			log.Fatal(err)
		}
	}
	return db
}
