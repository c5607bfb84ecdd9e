package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/spf13/viper"

	"github.com/spacebrain/backend/internal/database"
	"github.com/spacebrain/backend/internal/importer"
	"github.com/spacebrain/backend/internal/store"
)

const version = "1.0.0"

func main() {
	migrateFlag := flag.Bool("migrate", false, "Apply schema migrations before importing")
	versionFlag := flag.Bool("version", false, "Print version and exit")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, `Bank statement importer

Reads semicolon-delimited bank statement exports and stores one
transaction row per well-formed line. Rows with fewer than nine fields
are skipped.

Usage:
  bankimport [flags] <statement.csv> [statement2.csv ...]

Flags:
`)
		flag.PrintDefaults()
	}

	flag.Parse()

	if *versionFlag {
		fmt.Printf("bankimport v%s\n", version)
		os.Exit(0)
	}

	if flag.NArg() == 0 {
		flag.Usage()
		os.Exit(0)
	}

	viper.SetConfigFile(".env")
	viper.AutomaticEnv()
	viper.BindEnv("database.host", "DATABASE_HOST")
	viper.BindEnv("database.port", "DATABASE_PORT")
	viper.BindEnv("database.user", "DATABASE_USER")
	viper.BindEnv("database.password", "DATABASE_PASSWORD")
	viper.BindEnv("database.name", "DATABASE_NAME")
	viper.BindEnv("database.ssl_mode", "DATABASE_SSL_MODE")
	if err := viper.ReadInConfig(); err != nil {
		log.Printf("Config file not found, using defaults: %v", err)
	}

	db := database.InitDatabase()
	defer db.Close()

	st := store.New(db)
	if *migrateFlag {
		if err := st.Migrate(); err != nil {
			log.Fatalf("Failed to migrate schema: %v", err)
		}
	}

	im := importer.New(st)
	for _, path := range flag.Args() {
		count, err := im.ImportFile(path)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error importing %s: %v\n", path, err)
			os.Exit(1)
		}
		fmt.Printf("%s: imported %d transaction(s)\n", path, count)
	}
}
