package storage

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"

	"moneyflow/internal/core"
)

func sampleSnapshot() core.Snapshot {
	due := core.NewDate(2025, time.March, 1)
	return core.Snapshot{
		Wallets: []core.Wallet{
			{ID: "w1", Name: "Cash", Currency: core.LKR, Balance: decimal.RequireFromString("1300.50")},
			{ID: "w2", Name: "Binance", Currency: core.USDT, Balance: decimal.Zero},
		},
		Transactions: []core.Transaction{
			{ID: "t1", Type: core.Transfer, Amount: decimal.NewFromInt(300), WalletID: "w1", ToWalletID: "w2", Date: core.NewDate(2025, time.January, 15)},
		},
		Loans: []core.Loan{
			{ID: "l1", Type: core.Given, PersonName: "Nimal", Amount: decimal.NewFromInt(5000), Currency: core.LKR,
				Date: core.NewDate(2025, time.January, 2), DueDate: &due, Status: core.Pending,
				Payments: []core.Payment{{ID: "p1", Amount: decimal.NewFromInt(2000), Date: core.NewDate(2025, time.January, 20)}}},
		},
	}
}

func assertSnapshotEqual(t *testing.T, got, want core.Snapshot) {
	t.Helper()
	if len(got.Wallets) != len(want.Wallets) || len(got.Transactions) != len(want.Transactions) || len(got.Loans) != len(want.Loans) {
		t.Fatalf("collection sizes differ: got %d/%d/%d want %d/%d/%d",
			len(got.Wallets), len(got.Transactions), len(got.Loans),
			len(want.Wallets), len(want.Transactions), len(want.Loans))
	}
	for i, w := range want.Wallets {
		g := got.Wallets[i]
		if g.ID != w.ID || g.Name != w.Name || g.Currency != w.Currency || !g.Balance.Equal(w.Balance) {
			t.Errorf("wallet %d = %+v, want %+v", i, g, w)
		}
	}
	for i, tx := range want.Transactions {
		g := got.Transactions[i]
		if g.ID != tx.ID || g.Type != tx.Type || g.WalletID != tx.WalletID || g.ToWalletID != tx.ToWalletID ||
			!g.Amount.Equal(tx.Amount) || !g.Date.Equal(tx.Date.Time) {
			t.Errorf("transaction %d = %+v, want %+v", i, g, tx)
		}
	}
	for i, l := range want.Loans {
		g := got.Loans[i]
		if g.ID != l.ID || g.Status != l.Status || !g.Amount.Equal(l.Amount) || len(g.Payments) != len(l.Payments) {
			t.Errorf("loan %d = %+v, want %+v", i, g, l)
		}
		if (g.DueDate == nil) != (l.DueDate == nil) {
			t.Errorf("loan %d due date = %v, want %v", i, g.DueDate, l.DueDate)
		}
	}
}

func TestRepository_MissingKeysAreEmpty(t *testing.T) {
	repo := NewRepository(NewMemoryStore(), DefaultKeyPrefix)

	snap, version, err := repo.Load(context.Background())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(snap.Wallets) != 0 || len(snap.Transactions) != 0 || len(snap.Loans) != 0 {
		t.Errorf("expected empty snapshot, got %+v", snap)
	}
	if version != 0 {
		t.Errorf("version = %d, want 0", version)
	}
}

func TestRepository_RoundTrip(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	repo := NewRepository(store, DefaultKeyPrefix)

	want := sampleSnapshot()
	version, err := repo.Save(ctx, want, 0)
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	if version != 1 {
		t.Errorf("version = %d, want 1", version)
	}
	if store.Keys() != 4 {
		t.Errorf("expected 4 keys, got %d", store.Keys())
	}

	got, loaded, err := repo.Load(ctx)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if loaded != version {
		t.Errorf("loaded version = %d, want %d", loaded, version)
	}
	assertSnapshotEqual(t, got, want)
}

// assertSavesAreSerialized runs two repositories over one store and checks
// that a save based on an outdated version is refused.
func assertSavesAreSerialized(t *testing.T, store BlobStore) {
	t.Helper()
	ctx := context.Background()
	first := NewRepository(store, DefaultKeyPrefix)
	second := NewRepository(store, DefaultKeyPrefix)

	v1, err := first.Save(ctx, sampleSnapshot(), 0)
	if err != nil {
		t.Fatalf("first Save: %v", err)
	}
	if _, err := second.Save(ctx, core.Snapshot{}, 0); !errors.Is(err, ErrConflict) {
		t.Fatalf("stale create: err = %v, want ErrConflict", err)
	}

	snap, v, err := second.Load(ctx)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if v != v1 {
		t.Fatalf("loaded version = %d, want %d", v, v1)
	}
	snap.Wallets = append(snap.Wallets, core.Wallet{ID: "w3", Name: "Card", Currency: core.USD, Balance: decimal.Zero})
	v2, err := second.Save(ctx, snap, v)
	if err != nil {
		t.Fatalf("second Save: %v", err)
	}

	if _, err := first.Save(ctx, core.Snapshot{}, v1); !errors.Is(err, ErrConflict) {
		t.Fatalf("stale update: err = %v, want ErrConflict", err)
	}

	got, v, err := first.Load(ctx)
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if v != v2 {
		t.Errorf("version = %d, want %d", v, v2)
	}
	assertSnapshotEqual(t, got, snap)
}

func TestMemoryStore_SavesAreSerialized(t *testing.T) {
	assertSavesAreSerialized(t, NewMemoryStore())
}

func TestRepository_CorruptVersion(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	_ = store.PutAll(ctx, map[string][]byte{"moneyflow_version": []byte("seven")}, nil)

	if _, _, err := NewRepository(store, DefaultKeyPrefix).Load(ctx); err == nil {
		t.Fatal("expected decode error")
	}
}

func TestRepository_EmptyCollectionsEncodeAsArrays(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	repo := NewRepository(store, "test_")

	if _, err := repo.Save(ctx, core.Snapshot{}, 0); err != nil {
		t.Fatalf("Save: %v", err)
	}
	for _, key := range []string{"test_wallets", "test_transactions", "test_loans"} {
		v, ok, _ := store.Get(ctx, key)
		if !ok {
			t.Fatalf("key %s not written", key)
		}
		if string(v) != "[]" {
			t.Errorf("%s = %s, want []", key, v)
		}
	}
}

func TestRepository_CorruptBlob(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	_ = store.PutAll(ctx, map[string][]byte{"moneyflow_wallets": []byte("{not json")}, nil)

	_, _, err := NewRepository(store, DefaultKeyPrefix).Load(ctx)
	if err == nil {
		t.Fatal("expected decode error")
	}
}

func TestRepository_LoadsLegacyNumbers(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	_ = store.PutAll(ctx, map[string][]byte{
		"moneyflow_wallets": []byte(`[{"id":"1","name":"Cash","currency":"LKR","balance":1000.5}]`),
		"moneyflow_loans":   []byte(`[{"id":"2","type":"taken","personName":"Kamal","amount":100,"currency":"USD","date":"2025-02-01","dueDate":null,"note":"","status":"pending"}]`),
	}, nil)

	snap, _, err := NewRepository(store, DefaultKeyPrefix).Load(ctx)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !snap.Wallets[0].Balance.Equal(decimal.RequireFromString("1000.5")) {
		t.Errorf("balance = %s", snap.Wallets[0].Balance)
	}
	if snap.Loans[0].Payments == nil {
		t.Error("payments should default to an empty slice")
	}
}

func TestSQLStore_PutAllUpsertsInTransaction(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE kv_blobs SET value").
		WithArgs([]byte("4"), sqlmock.AnyArg(), "moneyflow_version", []byte("3")).
		WillReturnResult(sqlmock.NewResult(0, 1))
	for _, key := range []string{"moneyflow_loans", "moneyflow_transactions", "moneyflow_wallets"} {
		mock.ExpectExec("INSERT INTO kv_blobs").
			WithArgs(key, sqlmock.AnyArg(), sqlmock.AnyArg()).
			WillReturnResult(sqlmock.NewResult(1, 1))
	}
	mock.ExpectCommit()

	repo := NewRepository(NewSQLStore(db, Postgres), DefaultKeyPrefix)
	version, err := repo.Save(context.Background(), sampleSnapshot(), 3)
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	if version != 4 {
		t.Errorf("version = %d, want 4", version)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestSQLStore_StaleVersionRollsBack(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectExec("ON CONFLICT\\(name\\) DO NOTHING").
		WithArgs("moneyflow_version", []byte("1"), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	repo := NewRepository(NewSQLStore(db, SQLite), DefaultKeyPrefix)
	if _, err := repo.Save(context.Background(), sampleSnapshot(), 0); !errors.Is(err, ErrConflict) {
		t.Fatalf("err = %v, want ErrConflict", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestSQLStore_PutAllRollsBackOnError(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO kv_blobs").WillReturnError(errors.New("disk full"))
	mock.ExpectRollback()

	store := NewSQLStore(db, SQLite)
	err = store.PutAll(context.Background(), map[string][]byte{"a": []byte("[]")}, nil)
	if err == nil {
		t.Fatal("expected error")
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestSQLStore_GetMissingKey(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	mock.ExpectQuery("SELECT value FROM kv_blobs").
		WithArgs("moneyflow_wallets").
		WillReturnRows(sqlmock.NewRows([]string{"value"}))

	_, ok, err := NewSQLStore(db, SQLite).Get(context.Background(), "moneyflow_wallets")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if ok {
		t.Error("expected missing key")
	}
}

func TestSQLiteStore_RoundTrip(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "data", "moneyflow.db")

	store, err := NewSQLiteStore(path)
	if err != nil {
		t.Fatalf("NewSQLiteStore: %v", err)
	}
	repo := NewRepository(store, DefaultKeyPrefix)

	want := sampleSnapshot()
	version, err := repo.Save(ctx, want, 0)
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	// a second save exercises the upsert path
	want.Wallets[0].Balance = decimal.NewFromInt(42)
	if _, err := repo.Save(ctx, want, version); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if err := repo.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	reopened, err := NewSQLiteStore(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer reopened.Close()

	got, version, err := NewRepository(reopened, DefaultKeyPrefix).Load(ctx)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if version != 2 {
		t.Errorf("version = %d, want 2", version)
	}
	assertSnapshotEqual(t, got, want)
}

func TestSQLiteStore_SavesAreSerialized(t *testing.T) {
	store, err := NewSQLiteStore(filepath.Join(t.TempDir(), "moneyflow.db"))
	if err != nil {
		t.Fatalf("NewSQLiteStore: %v", err)
	}
	defer store.Close()
	assertSavesAreSerialized(t, store)
}

func TestRedisStore_RoundTrip(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("start miniredis: %v", err)
	}
	defer mr.Close()

	ctx := context.Background()
	store, err := NewRedisStore(ctx, "redis://"+mr.Addr())
	if err != nil {
		t.Fatalf("NewRedisStore: %v", err)
	}
	defer store.Close()

	repo := NewRepository(store, DefaultKeyPrefix)
	empty, version, err := repo.Load(ctx)
	if err != nil {
		t.Fatalf("Load empty: %v", err)
	}
	if len(empty.Wallets) != 0 {
		t.Errorf("expected no wallets, got %d", len(empty.Wallets))
	}

	want := sampleSnapshot()
	if _, err := repo.Save(ctx, want, version); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if !mr.Exists("moneyflow_transactions") {
		t.Error("transactions key missing in redis")
	}
	if v, _ := mr.Get("moneyflow_version"); v != "1" {
		t.Errorf("stored version = %q, want 1", v)
	}

	got, _, err := repo.Load(ctx)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	assertSnapshotEqual(t, got, want)
}

func TestRedisStore_SavesAreSerialized(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("start miniredis: %v", err)
	}
	defer mr.Close()

	store, err := NewRedisStore(context.Background(), "redis://"+mr.Addr())
	if err != nil {
		t.Fatalf("NewRedisStore: %v", err)
	}
	defer store.Close()
	assertSavesAreSerialized(t, store)
}

func TestRedisStore_GetError(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("start miniredis: %v", err)
	}
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer client.Close()
	mr.Close()

	_, _, err = NewRedisStoreFromClient(client).Get(context.Background(), "k")
	if err == nil {
		t.Fatal("expected error when redis is down")
	}
}

func TestNewRedisStore_RequiresURL(t *testing.T) {
	if _, err := NewRedisStore(context.Background(), ""); err == nil {
		t.Fatal("expected error for empty url")
	}
}
