package usecase

import (
	"context"
	"errors"
	"fmt"
	"slices"

	"github.com/pterm/pterm"

	"github.com/diillson/sales-dashboard-go/internal/domain/entity"
	"github.com/diillson/sales-dashboard-go/internal/domain/service"
	"github.com/diillson/sales-dashboard-go/internal/shared/types"
)

const (
	DefaultSeedDays      = 90
	DefaultSeedBatchSize = 100
)

// ErrVerificationFailed is returned by RunVerify when any check fails.
var ErrVerificationFailed = errors.New("setup verification failed")

// RunSeed fills a writable backend with generated sales data.
func (uc *DashboardUseCase) RunSeed(ctx context.Context, args *types.CLIArgs, seed types.SeedArgs) error {
	resolved, env, err := uc.ResolveArgs(args)
	if err != nil {
		return err
	}
	if seed.Days <= 0 {
		seed.Days = DefaultSeedDays
	}
	if seed.BatchSize <= 0 {
		seed.BatchSize = DefaultSeedBatchSize
	}

	opts := uc.sourceOptions(resolved, env)
	store, err := uc.sources.OpenStore(ctx, opts)
	if err != nil {
		return fmt.Errorf("error opening %s store: %w", uc.sources.ResolveKind(opts), err)
	}
	if closer, ok := store.(interface{ Close() error }); ok {
		defer closer.Close()
	}

	table := resolved.Table
	if seed.Clear {
		uc.console.LogInfo("Clearing existing data from %s...", table)
		if err := store.ClearRecords(ctx, table); err != nil {
			return fmt.Errorf("error clearing %s: %w", table, err)
		}
	}

	records := service.GenerateSample(service.TrailingSampleOptions(seed.Days, uc.now(), uint64(seed.Seed)))
	uc.console.LogInfo("Generated %d records for the last %d days", len(records), seed.Days)

	// Insere em lotes para acompanhar o progresso
	batches := (len(records) + seed.BatchSize - 1) / seed.BatchSize
	progress := uc.console.ProgressWithTotal(batches)
	inserted := 0
	for start := 0; start < len(records); start += seed.BatchSize {
		end := min(start+seed.BatchSize, len(records))
		n, err := store.InsertRecords(ctx, table, records[start:end], seed.BatchSize)
		if err != nil {
			progress.Stop()
			return fmt.Errorf("error inserting batch starting at record %d: %w", start, err)
		}
		inserted += n
		progress.Increment()
	}
	progress.Stop()

	count, err := store.CountRecords(ctx, table)
	if err != nil {
		return fmt.Errorf("error counting records in %s: %w", table, err)
	}

	uc.console.LogSuccess("Inserted %d records into %s (%s), table now holds %d records", inserted, table, store.Name(), count)

	// Descarta leituras em cache anteriores ao seed
	if cached, ok := uc.source.(interface{ Invalidate() }); ok {
		cached.Invalidate()
	}
	return nil
}

type checkResult struct {
	name   string
	ok     bool
	detail string
}

// RunVerify checks the environment, source connectivity, sample generation
// and, when a bucket is configured, S3 access.
func (uc *DashboardUseCase) RunVerify(ctx context.Context, args *types.CLIArgs) error {
	resolved, env, err := uc.ResolveArgs(args)
	if err != nil {
		return err
	}
	opts := uc.sourceOptions(resolved, env)
	opts.Warn = nil

	var results []checkResult

	// Ambiente
	kind := uc.sources.ResolveKind(opts)
	switch {
	case env.HasSupabase():
		results = append(results, checkResult{"Environment", true, "SUPABASE_URL and SUPABASE_KEY are set"})
	case env.SupabaseURL != "" || env.SupabaseKey != "":
		results = append(results, checkResult{"Environment", false, "only one of SUPABASE_URL and SUPABASE_KEY is set"})
	default:
		results = append(results, checkResult{"Environment", true, fmt.Sprintf("no hosted credentials, using %s source", kind)})
	}

	// Conectividade com a fonte
	results = append(results, uc.checkSource(ctx, opts, resolved.Table, kind))

	// Geração de dados de exemplo
	sampleOpts := opts
	sampleOpts.Kind = "sample"
	if src, err := uc.sources.OpenSource(ctx, sampleOpts); err != nil {
		results = append(results, checkResult{"Sample data", false, err.Error()})
	} else if recs, err := src.FetchRecords(ctx, entity.Query{Table: resolved.Table, Limit: 5}); err != nil || len(recs) == 0 {
		results = append(results, checkResult{"Sample data", false, fmt.Sprintf("no records generated: %v", err)})
	} else {
		results = append(results, checkResult{"Sample data", true, fmt.Sprintf("generated %d records", len(recs))})
	}

	// Credenciais S3
	if resolved.S3Bucket != "" {
		results = append(results, uc.checkS3(ctx, resolved.AWSProfile, resolved.S3Bucket))
	}

	return uc.reportChecks(results)
}

// checkS3 valida o perfil, resolve a conta via STS e confirma o bucket.
func (uc *DashboardUseCase) checkS3(ctx context.Context, profile, bucket string) checkResult {
	if profile != "" && !slices.Contains(uc.awsRepo.GetAWSProfiles(), profile) {
		return checkResult{"S3 bucket", false, fmt.Sprintf("AWS profile %s not found in shared config", profile)}
	}

	account, err := uc.awsRepo.GetAccountID(ctx, profile)
	if err != nil {
		return checkResult{"S3 bucket", false, err.Error()}
	}

	exists, err := uc.awsRepo.BucketExists(ctx, profile, bucket)
	switch {
	case err != nil:
		return checkResult{"S3 bucket", false, err.Error()}
	case !exists:
		return checkResult{"S3 bucket", false, fmt.Sprintf("bucket %s not found from account %s", bucket, account)}
	default:
		return checkResult{"S3 bucket", true, fmt.Sprintf("bucket %s is reachable from account %s", bucket, account)}
	}
}

func (uc *DashboardUseCase) checkSource(ctx context.Context, opts types.SourceOptions, table, kind string) checkResult {
	src, err := uc.sources.OpenPrimary(ctx, opts)
	if err != nil {
		return checkResult{"Source connection", false, err.Error()}
	}
	if src == nil {
		return checkResult{"Source connection", true, "sample data needs no connection"}
	}
	if closer, ok := src.(interface{ Close() error }); ok {
		defer closer.Close()
	}

	recs, err := src.FetchRecords(ctx, entity.Query{Table: table, OrderBy: DefaultOrderBy, Descending: true, Limit: 1})
	if err != nil {
		return checkResult{"Source connection", false, err.Error()}
	}
	if len(recs) == 0 {
		return checkResult{"Source connection", true, fmt.Sprintf("connected to %s, table %s is empty", kind, table)}
	}
	return checkResult{"Source connection", true, fmt.Sprintf("connected to %s, latest record from %s", kind, recs[0].Date.Format(entity.DateLayout))}
}

func (uc *DashboardUseCase) reportChecks(results []checkResult) error {
	table := uc.console.CreateTable()
	table.AddColumn("Check")
	table.AddColumn("Status")
	table.AddColumn("Details")

	failed := 0
	for _, r := range results {
		status := pterm.FgGreen.Sprint("OK")
		if !r.ok {
			status = pterm.FgRed.Sprint("FAILED")
			failed++
		}
		table.AddRow(r.name, status, r.detail)
	}
	uc.console.Println(table.Render())

	if failed > 0 {
		uc.console.LogError("%d of %d checks failed", failed, len(results))
		return fmt.Errorf("%w: %d of %d checks", ErrVerificationFailed, failed, len(results))
	}
	uc.console.LogSuccess("All %d checks passed", len(results))
	return nil
}
