package main

import (
	"os"

	"github.com/google/uuid"
	"github.com/gutenshelf/gutenshelf/pkg/books"
	"github.com/gutenshelf/gutenshelf/pkg/config"
	"github.com/gutenshelf/gutenshelf/pkg/database"
	"github.com/gutenshelf/gutenshelf/pkg/gutenberg"
	"github.com/gutenshelf/gutenshelf/pkg/migrations"
	"github.com/pkg/errors"
	"github.com/robinjoseph08/golib/logger"
	"github.com/urfave/cli/v2"
)

const logBatchSize = 500

func main() {
	log := logger.New()

	app := &cli.App{
		Name:  "seed",
		Usage: "load a Gutenberg catalog dump into the database",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "file",
				Usage:    "path to the catalog dump (JSON array of book records)",
				Required: true,
			},
		},
		Action: func(c *cli.Context) error {
			log := log.ID(uuid.New().String())

			cfg, err := config.New()
			if err != nil {
				return err
			}

			db, err := database.New(cfg)
			if err != nil {
				return err
			}
			defer db.Close()

			if _, err := migrations.BringUpToDate(c.Context, db); err != nil {
				return err
			}

			path := c.String("file")
			f, err := os.Open(path)
			if err != nil {
				return errors.WithStack(err)
			}
			defer f.Close()

			records, err := gutenberg.Parse(f)
			if err != nil {
				return err
			}
			log.Info("parsed catalog dump", logger.Data{"path": path, "records": len(records)})

			svc := books.NewService(db)
			for i, record := range records {
				if err := svc.CreateBook(c.Context, record.ToModel()); err != nil {
					return errors.Wrapf(err, "seeding book %d", record.ID)
				}
				if (i+1)%logBatchSize == 0 {
					log.Info("seed progress", logger.Data{"loaded": i + 1, "total": len(records)})
				}
			}

			log.Info("seed complete", logger.Data{"loaded": len(records)})
			return nil
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Err(err).Fatal("app run error")
	}
}
