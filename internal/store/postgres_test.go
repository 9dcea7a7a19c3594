package store

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/JonMunkholm/thermodash/internal/aida"
)

type execCall struct {
	sql  string
	args []any
}

// fakeDB records Exec calls and answers QueryRow with a canned row.
type fakeDB struct {
	execs []execCall
	row   fakeRow
}

func (f *fakeDB) Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	f.execs = append(f.execs, execCall{sql: sql, args: args})
	return pgconn.NewCommandTag("OK"), nil
}

func (f *fakeDB) Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
	return nil, errors.New("not implemented")
}

func (f *fakeDB) QueryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	return f.row
}

type fakeRow struct {
	data []byte
	err  error
}

func (r fakeRow) Scan(dest ...any) error {
	if r.err != nil {
		return r.err
	}
	*(dest[0].(*[]byte)) = r.data
	return nil
}

func TestPostgres_LoadEmpty(t *testing.T) {
	p := newPostgres(&fakeDB{row: fakeRow{err: pgx.ErrNoRows}}, 10)

	if _, err := p.Load(context.Background()); !errors.Is(err, ErrEmpty) {
		t.Errorf("Load() error = %v, want ErrEmpty", err)
	}
}

func TestPostgres_LoadDecodes(t *testing.T) {
	data, _ := json.Marshal(Snapshot{
		CPUData:     []aida.SensorSummary{{ID: "cpu", Name: "CPU", Temperature: 53.7}},
		Metrics:     Metrics{TotalCPUs: 5, DataSource: SourceCSV},
		AutoRefresh: true,
	})
	p := newPostgres(&fakeDB{row: fakeRow{data: data}}, 10)

	got, err := p.Load(context.Background())
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if len(got.CPUData) != 1 || got.CPUData[0].Temperature != 53.7 {
		t.Errorf("CPUData = %+v", got.CPUData)
	}
	if !got.AutoRefresh || got.Metrics.DataSource != SourceCSV {
		t.Errorf("snapshot = %+v", got)
	}
}

func TestPostgres_LoadError(t *testing.T) {
	p := newPostgres(&fakeDB{row: fakeRow{err: errors.New("connection refused")}}, 10)

	_, err := p.Load(context.Background())
	if err == nil || errors.Is(err, ErrEmpty) {
		t.Fatalf("Load() error = %v, want wrapped driver error", err)
	}
	if !strings.Contains(err.Error(), "connection refused") {
		t.Errorf("error %q lost driver detail", err)
	}
}

func TestPostgres_SaveUpserts(t *testing.T) {
	db := &fakeDB{}
	p := newPostgres(db, 10)

	if err := p.Save(context.Background(), Snapshot{IsConnected: true}); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	if len(db.execs) != 1 {
		t.Fatalf("exec count = %d, want 1", len(db.execs))
	}
	if !strings.Contains(db.execs[0].sql, "ON CONFLICT") {
		t.Errorf("save is not an upsert: %s", db.execs[0].sql)
	}

	var snap Snapshot
	if err := json.Unmarshal(db.execs[0].args[0].([]byte), &snap); err != nil {
		t.Fatalf("payload is not JSON: %v", err)
	}
	if !snap.IsConnected {
		t.Errorf("payload lost IsConnected")
	}
}

func TestPostgres_AppendIngestTrims(t *testing.T) {
	db := &fakeDB{}
	p := newPostgres(db, 7)

	rec := IngestRecord{
		ID:        uuid.NewString(),
		FileName:  "log.csv",
		Source:    SourceCSV,
		ClientIP:  "203.0.113.7",
		UserAgent: "curl/8.5.0",
		CreatedAt: time.Now().UTC(),
	}
	if err := p.AppendIngest(context.Background(), rec); err != nil {
		t.Fatalf("AppendIngest() error = %v", err)
	}

	if len(db.execs) != 2 {
		t.Fatalf("exec count = %d, want 2", len(db.execs))
	}
	if !strings.Contains(db.execs[0].sql, "INSERT INTO ingest_history") {
		t.Errorf("first exec = %s", db.execs[0].sql)
	}
	if args := db.execs[0].args; len(args) != 10 || args[7] != "203.0.113.7" || args[8] != "curl/8.5.0" {
		t.Errorf("insert args = %v, want client ip and user agent at 7 and 8", args)
	}
	if got := db.execs[1].args[0]; got != 7 {
		t.Errorf("trim limit = %v, want 7", got)
	}
}

// TestPostgres_Integration runs against a real database when
// THERMODASH_TEST_DATABASE_URL is set.
func TestPostgres_Integration(t *testing.T) {
	url := os.Getenv("THERMODASH_TEST_DATABASE_URL")
	if url == "" {
		t.Skip("THERMODASH_TEST_DATABASE_URL not set")
	}

	ctx := context.Background()
	cfg, err := pgxpool.ParseConfig(url)
	if err != nil {
		t.Fatalf("ParseConfig() error = %v", err)
	}
	p, err := Open(ctx, cfg, 2)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	defer p.Close()

	want := Snapshot{CPUData: []aida.SensorSummary{{ID: "cpu", Name: "CPU", Temperature: 53.7}}}
	if err := p.Save(ctx, want); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	got, err := p.Load(ctx)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if len(got.CPUData) != 1 || got.CPUData[0].Name != "CPU" {
		t.Errorf("Load() = %+v", got)
	}

	base := time.Now().UTC()
	for i := range 3 {
		rec := IngestRecord{
			ID:        uuid.NewString(),
			FileName:  "log.csv",
			Source:    SourceCSV,
			CreatedAt: base.Add(time.Duration(i) * time.Second),
		}
		if err := p.AppendIngest(ctx, rec); err != nil {
			t.Fatalf("AppendIngest() error = %v", err)
		}
	}

	recent, err := p.RecentIngests(ctx, 10)
	if err != nil {
		t.Fatalf("RecentIngests() error = %v", err)
	}
	if len(recent) != 2 {
		t.Errorf("len(RecentIngests) = %d, want 2", len(recent))
	}
}
