package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/iniakponode/data-sorter-app/internal/engine"
	"github.com/iniakponode/data-sorter-app/internal/export"
)

// demoRoster mimics a typical pasted roster: chat noise, mixed label
// spellings, glued digits, and values separated from their labels.
const demoRoster = `[12/05, 9:14 am] Admin: Good morning all, send your details
NAME: Nsikak Udo
CO-OP NAME: Akwa Savers Multipurpose Co-op
PHONE NO: 08031234567
BANK NAME: First Bank
ACCT NO: 3021456789
SEX: MALE

CEO NAME: Grace Okon
COOPERATIVE: Akwa Savers Multipurpose Co-op
GENDER: FEMALE
ZENITH BANK
2084567123
08152349876

This message was deleted
NAME - Emmanuel Bassey
ORG NAME; Ibom Traders Union
PHONE NUMBER: 07061239845
ACCT.NO.0123456789
UBA
SEX: MALE
`

func runDemo(args []string) error {
	fs := flag.NewFlagSet("demo", flag.ContinueOnError)
	if err := fs.Parse(args); err != nil {
		return err
	}
	if len(fs.Args()) > 0 {
		return fmt.Errorf("usage: datasorter demo")
	}

	pipeline, err := engine.NewPipeline(engine.DefaultConfig())
	if err != nil {
		return err
	}

	fmt.Println("Demo: extracting records from a built-in sample roster")
	fmt.Println()

	res := pipeline.Process(demoRoster)
	if len(res.Rows) == 0 {
		fmt.Println("No records found.")
		return nil
	}

	groups := engine.GroupRows(res.Rows, pipeline.GroupColumnIndex())
	return export.WriteSummary(os.Stdout, res.Headers, groups)
}
