package main

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"github.com/urfave/cli/v3"

	"github.com/bibbank/credit-risk/internal/application/usecase"
	"github.com/bibbank/credit-risk/internal/domain/model"
	"github.com/bibbank/credit-risk/internal/domain/service"
)

func nowUTC() time.Time { return time.Now().UTC() }

func (a *app) npaCmd() *cli.Command {
	return &cli.Command{
		Name:  "npa",
		Usage: "Non-performing asset operations",
		Commands: []*cli.Command{
			{
				Name:  "classify",
				Usage: "Classify a loan by days overdue and compute its provision",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "loan", Usage: "Loan identifier", Value: "CLI"},
					&cli.IntFlag{Name: "overdue-days", Usage: "Days past due", Required: true},
					&cli.StringFlag{Name: "outstanding", Usage: "Outstanding principal", Required: true},
				},
				Action: func(_ context.Context, cmd *cli.Command) error {
					outstanding, err := decimal.NewFromString(cmd.String("outstanding"))
					if err != nil {
						return err
					}
					days := int(cmd.Int("overdue-days"))

					rec, err := model.NewNPARecord(offlineTenant, cmd.String("loan"), days, outstanding,
						service.ClassifyLoan(days, outstanding), nowUTC())
					if err != nil {
						return err
					}
					resp := usecase.ToNPARecordResponse(rec)
					resp.ID = ""
					resp.Version = 0
					return a.encode(resp)
				},
			},
		},
	}
}
