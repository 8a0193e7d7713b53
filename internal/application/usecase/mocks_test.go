package usecase

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/stretchr/testify/mock"

	"github.com/diillson/sales-dashboard-go/internal/domain/entity"
	"github.com/diillson/sales-dashboard-go/internal/domain/repository"
	"github.com/diillson/sales-dashboard-go/internal/shared/types"
)

type mockSourceFactory struct {
	mock.Mock
}

func (m *mockSourceFactory) OpenSource(ctx context.Context, opts types.SourceOptions) (repository.RecordSource, error) {
	args := m.Called(ctx, opts)
	src, _ := args.Get(0).(repository.RecordSource)
	return src, args.Error(1)
}

func (m *mockSourceFactory) OpenPrimary(ctx context.Context, opts types.SourceOptions) (repository.RecordSource, error) {
	args := m.Called(ctx, opts)
	src, _ := args.Get(0).(repository.RecordSource)
	return src, args.Error(1)
}

func (m *mockSourceFactory) OpenStore(ctx context.Context, opts types.SourceOptions) (repository.RecordStore, error) {
	args := m.Called(ctx, opts)
	store, _ := args.Get(0).(repository.RecordStore)
	return store, args.Error(1)
}

func (m *mockSourceFactory) ResolveKind(opts types.SourceOptions) string {
	return m.Called(opts).String(0)
}

type mockStore struct {
	mock.Mock
}

func (m *mockStore) Name() string { return "mock" }

func (m *mockStore) FetchRecords(ctx context.Context, q entity.Query) ([]entity.Record, error) {
	args := m.Called(ctx, q)
	recs, _ := args.Get(0).([]entity.Record)
	return recs, args.Error(1)
}

func (m *mockStore) InsertRecords(ctx context.Context, table string, records []entity.Record, batchSize int) (int, error) {
	args := m.Called(ctx, table, records, batchSize)
	if fn, ok := args.Get(0).(func(context.Context, string, []entity.Record, int) int); ok {
		return fn(ctx, table, records, batchSize), args.Error(1)
	}
	return args.Int(0), args.Error(1)
}

func (m *mockStore) ClearRecords(ctx context.Context, table string) error {
	return m.Called(ctx, table).Error(0)
}

func (m *mockStore) CountRecords(ctx context.Context, table string) (int, error) {
	args := m.Called(ctx, table)
	return args.Int(0), args.Error(1)
}

type mockExportRepository struct {
	mock.Mock
}

func (m *mockExportRepository) EncodeCSV(records []entity.Record) ([]byte, error) {
	args := m.Called(records)
	b, _ := args.Get(0).([]byte)
	return b, args.Error(1)
}

func (m *mockExportRepository) EncodeJSON(records []entity.Record, kpis entity.KPIs) ([]byte, error) {
	args := m.Called(records, kpis)
	b, _ := args.Get(0).([]byte)
	return b, args.Error(1)
}

func (m *mockExportRepository) EncodeWorkbook(records []entity.Record, kpis entity.KPIs) ([]byte, error) {
	args := m.Called(records, kpis)
	b, _ := args.Get(0).([]byte)
	return b, args.Error(1)
}

func (m *mockExportRepository) EncodePDF(doc entity.ReportDocument) ([]byte, error) {
	args := m.Called(doc)
	b, _ := args.Get(0).([]byte)
	return b, args.Error(1)
}

type mockChartRepository struct {
	mock.Mock
}

func (m *mockChartRepository) RenderPNG(spec entity.ChartSpec) ([]byte, error) {
	args := m.Called(spec)
	b, _ := args.Get(0).([]byte)
	return b, args.Error(1)
}

type mockConfigRepository struct {
	mock.Mock
}

func (m *mockConfigRepository) LoadConfigFile(filePath string) (*types.Config, error) {
	args := m.Called(filePath)
	cfg, _ := args.Get(0).(*types.Config)
	return cfg, args.Error(1)
}

func (m *mockConfigRepository) LoadEnvironment(envFile string) (types.Environment, error) {
	args := m.Called(envFile)
	return args.Get(0).(types.Environment), args.Error(1)
}

type mockAWSRepository struct {
	mock.Mock
}

func (m *mockAWSRepository) GetAWSProfiles() []string { return m.Called().Get(0).([]string) }

func (m *mockAWSRepository) GetAccountID(ctx context.Context, profile string) (string, error) {
	args := m.Called(ctx, profile)
	return args.String(0), args.Error(1)
}

func (m *mockAWSRepository) PutObject(ctx context.Context, profile, bucket, key, contentType string, body []byte) error {
	return m.Called(ctx, profile, bucket, key, contentType, body).Error(0)
}

func (m *mockAWSRepository) BucketExists(ctx context.Context, profile, bucket string) (bool, error) {
	args := m.Called(ctx, profile, bucket)
	return args.Bool(0), args.Error(1)
}

// memorySink keeps saved artifacts by filename.
type memorySink struct {
	mu     sync.Mutex
	target types.OutputTarget
	saved  map[string]entity.Artifact
	err    error
}

func (s *memorySink) NewSink(target types.OutputTarget) repository.ArtifactSink {
	s.target = target
	return s
}

func (s *memorySink) Save(_ context.Context, a entity.Artifact) (string, error) {
	if s.err != nil {
		return "", s.err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.saved == nil {
		s.saved = make(map[string]entity.Artifact)
	}
	s.saved[a.Filename] = a
	return "/reports/" + a.Filename, nil
}

// fakeConsole records log lines instead of printing them.
type fakeConsole struct {
	mu        sync.Mutex
	out       strings.Builder
	infos     []string
	warnings  []string
	errors    []string
	successes []string
	trends    int
}

func (c *fakeConsole) Print(a ...interface{}) { c.write(fmt.Sprint(a...)) }

func (c *fakeConsole) Printf(format string, a ...interface{}) { c.write(fmt.Sprintf(format, a...)) }

func (c *fakeConsole) Println(a ...interface{}) { c.write(fmt.Sprintln(a...)) }

func (c *fakeConsole) write(s string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.out.WriteString(s)
}

func (c *fakeConsole) LogInfo(format string, a ...interface{}) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.infos = append(c.infos, fmt.Sprintf(format, a...))
}

func (c *fakeConsole) LogWarning(format string, a ...interface{}) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.warnings = append(c.warnings, fmt.Sprintf(format, a...))
}

func (c *fakeConsole) LogError(format string, a ...interface{}) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.errors = append(c.errors, fmt.Sprintf(format, a...))
}

func (c *fakeConsole) LogSuccess(format string, a ...interface{}) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.successes = append(c.successes, fmt.Sprintf(format, a...))
}

func (c *fakeConsole) Status(string) types.StatusHandle { return noopHandle{} }

func (c *fakeConsole) ProgressWithTotal(int) types.ProgressHandle { return noopHandle{} }

func (c *fakeConsole) CreateTable() types.TableInterface { return &fakeTable{} }

func (c *fakeConsole) DisplayTrendBars(monthly []types.MonthlyRevenue) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.trends = len(monthly)
}

type noopHandle struct{}

func (noopHandle) Update(string) {}
func (noopHandle) Increment()    {}
func (noopHandle) Stop()         {}

type fakeTable struct {
	columns []string
	rows    [][]string
}

func (t *fakeTable) AddColumn(name string, _ ...interface{}) { t.columns = append(t.columns, name) }

func (t *fakeTable) AddRow(cells ...interface{}) {
	row := make([]string, len(cells))
	for i, c := range cells {
		row[i] = fmt.Sprint(c)
	}
	t.rows = append(t.rows, row)
}

func (t *fakeTable) Render() string {
	lines := []string{strings.Join(t.columns, " | ")}
	for _, r := range t.rows {
		lines = append(lines, strings.Join(r, " | "))
	}
	return strings.Join(lines, "\n")
}
