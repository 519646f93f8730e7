package main

import (
	"fmt"

	"github.com/unidigital/academia/storage/database"
)

func (cli *commandLine) migrate(direction string) error {
	switch direction {
	case "up":
		if err := database.Migrate(cli.db); err != nil {
			return err
		}
		logger.Println("migrations applied")
	case "down":
		if err := database.Rollback(cli.db); err != nil {
			return err
		}
		logger.Println("last migration rolled back")
	case "version":
		version, dirty, err := database.Version(cli.db)
		if err != nil {
			return err
		}
		logger.Printf("version: %d (dirty: %v)\n", version, dirty)
	default:
		return fmt.Errorf("unknown migrate direction %q", direction)
	}
	return nil
}
