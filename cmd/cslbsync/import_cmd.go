package main

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/norcalcba/cslbsync/modules/cslb/infrastructure/persistence"
	"github.com/norcalcba/cslbsync/modules/cslb/services"
	"github.com/norcalcba/cslbsync/modules/cslb/transform"
	"github.com/norcalcba/cslbsync/pkg/composables"
	"github.com/norcalcba/cslbsync/pkg/configuration"
)

type importOptions struct {
	batchType             string
	resyncClassifications bool
	dryRun                bool
}

func newImportCmd() *cobra.Command {
	var opts importOptions

	cmd := &cobra.Command{
		Use:   "import <master.csv> [personnel.csv] [workers_comp.csv]",
		Short: "Import a CSLB extract into the member database",
		Args:  cobra.RangeArgs(1, 3),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runImport(cmd.Context(), args, opts)
		},
	}

	cmd.Flags().StringVar(&opts.batchType, "batch-type", "", "Ledger import-type tag (default from IMPORT_BATCH_TYPE)")
	cmd.Flags().BoolVar(&opts.resyncClassifications, "resync-classifications", false,
		"Diff-and-resync classification lists on update instead of insert-only expansion")
	cmd.Flags().BoolVar(&opts.dryRun, "dry-run", false, "Parse and report without writing to the database")
	return cmd
}

func runImport(ctx context.Context, args []string, opts importOptions) error {
	conf := configuration.Use()
	logger := conf.Logger()

	master, err := openCSVSource(args[0], []string{transform.ColLicenseNumber})
	if err != nil {
		return withCode(exitUsage, err)
	}
	defer func() { _ = master.Close() }()

	var personnel, workersComp *csvSource
	if len(args) > 1 && args[1] != "" {
		if personnel, err = openCSVSource(args[1], []string{transform.ColLicenseNumber}); err != nil {
			return withCode(exitUsage, err)
		}
		defer func() { _ = personnel.Close() }()
	}
	if len(args) > 2 && args[2] != "" {
		if workersComp, err = openCSVSource(args[2], []string{transform.ColLicenseNumber}); err != nil {
			return withCode(exitUsage, err)
		}
		defer func() { _ = workersComp.Close() }()
	}

	if opts.dryRun {
		return runDryRun(master, personnel, workersComp)
	}

	batchType := opts.batchType
	if batchType == "" {
		batchType = conf.Import.BatchType
	}

	pool, err := connectDB(ctx, conf)
	if err != nil {
		return withCode(exitDB, err)
	}
	defer pool.Close()
	ctx = composables.WithPool(ctx, pool)

	svc := services.NewImportService(
		persistence.NewContractorRepository(),
		persistence.NewImportBatchRepository(),
		logger,
	)
	if conf.Geocoder.Enabled {
		logger.Warn("GEOCODER_ENABLED is set but no geocoding provider is built in; importing without coordinates")
	}

	mode := services.ClassificationInsertOnly
	if opts.resyncClassifications {
		mode = services.ClassificationResync
	}

	res, err := svc.Import(ctx, master, asRowSource(personnel), asRowSource(workersComp), services.ImportOptions{
		ImportType:      batchType,
		Classifications: mode,
	})
	if res != nil {
		status := "completed"
		if err != nil {
			status = "failed"
		}
		if perr := printImportSummary(res, status); perr != nil {
			return perr
		}
	}
	if err != nil {
		return withCode(exitDB, err)
	}
	return nil
}

func runDryRun(master, personnel, workersComp *csvSource) error {
	s := importSummary{Status: "dry_run"}

	for {
		row, _, err := master.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return withCode(exitValidation, fmt.Errorf("%s: %w", master.Name(), err))
		}
		s.TotalRecords++
		if _, terr := transform.ContractorRecord(row, "dry-run"); terr != nil {
			s.ErrorRecords++
		}
	}
	if personnel != nil {
		n, err := countRows(personnel)
		if err != nil {
			return withCode(exitValidation, err)
		}
		s.PersonnelRows = n
	}
	if workersComp != nil {
		n, err := countRows(workersComp)
		if err != nil {
			return withCode(exitValidation, err)
		}
		s.WorkersCompRows = n
	}

	fmt.Printf("dry run: %d master row(s), %d would fail transform\n", s.TotalRecords, s.ErrorRecords)
	return writeJSONLine(s)
}

func countRows(src *csvSource) (int, error) {
	n := 0
	for {
		_, _, err := src.Next()
		if err == io.EOF {
			return n, nil
		}
		if err != nil {
			return n, fmt.Errorf("%s: %w", src.Name(), err)
		}
		n++
	}
}

type importSummary struct {
	Status          string `json:"status"`
	BatchID         string `json:"batch_id,omitempty"`
	RunID           string `json:"run_id,omitempty"`
	TotalRecords    int    `json:"total_records"`
	NewRecords      int    `json:"new_records"`
	UpdatedRecords  int    `json:"updated_records"`
	ErrorRecords    int    `json:"error_records"`
	PersonnelRows   int    `json:"personnel_rows,omitempty"`
	WorkersCompRows int    `json:"workers_comp_rows,omitempty"`
}

func printImportSummary(res *services.Result, status string) error {
	b := res.Batch
	fmt.Printf("batch %s %s: total=%d new=%d updated=%d errors=%d\n",
		b.BatchID, status, b.TotalRecords, b.NewRecords, b.UpdatedRecords, b.ErrorRecords)
	for _, re := range res.RowErrors {
		fmt.Printf("  row error: %s\n", re.Error())
	}
	return writeJSONLine(importSummary{
		Status:          status,
		BatchID:         b.BatchID,
		RunID:           b.RunID.String(),
		TotalRecords:    b.TotalRecords,
		NewRecords:      b.NewRecords,
		UpdatedRecords:  b.UpdatedRecords,
		ErrorRecords:    b.ErrorRecords,
		PersonnelRows:   res.PersonnelRows,
		WorkersCompRows: res.WorkersCompRows,
	})
}

// asRowSource avoids handing the service a non-nil interface wrapping a nil
// *csvSource.
func asRowSource(s *csvSource) services.RowSource {
	if s == nil {
		return nil
	}
	return s
}
