// tablepeek prints the first rows of a database table.
package main

import (
	"context"
	"log"
	"os"
	"strings"

	"github.com/likearthian/tablestore"
	"github.com/spf13/pflag"
)

var command struct {
	config  tablestore.Config
	table   string
	columns []string
	limit   int
	verbose bool
}

func main() {
	log.SetFlags(0)
	command.config.Password = os.Getenv("TABLEPEEK_PASSWORD")
	pflag.StringVarP(&command.config.Driver, "driver", "d", tablestore.DefaultDriver, "database driver (mysql, pgx, postgres)")
	pflag.StringVarP(&command.config.Host, "host", "H", "localhost", "database host")
	pflag.StringVarP(&command.config.Port, "port", "P", "", "database port")
	pflag.StringVarP(&command.config.User, "user", "u", "", "database user")
	pflag.StringVarP(&command.config.Database, "database", "D", "", "database name")
	pflag.StringVarP(&command.table, "table", "t", "", "table to preview")
	pflag.StringSliceVarP(&command.columns, "columns", "c", nil, "columns to print (default all)")
	pflag.IntVarP(&command.limit, "limit", "n", 100, "maximum rows to print")
	pflag.BoolVarP(&command.verbose, "verbose", "v", false, "log SQL statements")
	pflag.Parse()
	if len(pflag.Args()) > 0 {
		log.Fatalln("unrecognized args:", strings.Join(pflag.Args(), " "))
	}
	if command.table == "" {
		log.Fatal("no table specified (-t)")
	}

	options := []tablestore.Option{tablestore.WithLogger(log.Default())}
	if command.verbose {
		options = append(options, tablestore.WithSQLLogging())
	}

	table, err := tablestore.New(command.table, command.config, options...)
	if err != nil {
		log.Fatalln(err)
	}
	defer table.Close()

	ctx := context.Background()
	if err := table.Connect(ctx); err != nil {
		log.Fatalln("cannot connect:", err)
	}

	err = table.Preview(ctx, tablestore.WithColumns(command.columns...), tablestore.WithLimit(command.limit))
	if err != nil {
		table.Close()
		log.Fatalln(err)
	}
}
