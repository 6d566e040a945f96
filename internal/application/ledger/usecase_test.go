package ledger_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jportilla/tiendas-api/internal/application/ledger"
	"github.com/jportilla/tiendas-api/internal/domain"
	"github.com/jportilla/tiendas-api/internal/domain/entity"
	"github.com/jportilla/tiendas-api/internal/domain/repository"
)

// ──────────────────────────────────────────────────────────────────────────────
// Fakes en memoria
//
// fakeTxRunner simula la transacción: ejecuta fn sobre repos en memoria y, si
// fn devuelve error, restaura el estado previo (rollback). Así los tests de
// todo-o-nada verifican exactamente lo que garantiza la transacción real.
// ──────────────────────────────────────────────────────────────────────────────

type fakeStore struct {
	products map[string]*entity.Product
	entries  map[entity.LedgerKind]map[string]*entity.LedgerEntry
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		products: make(map[string]*entity.Product),
		entries: map[entity.LedgerKind]map[string]*entity.LedgerEntry{
			entity.KindPurchase: {},
			entity.KindSale:     {},
		},
	}
}

func (s *fakeStore) snapshot() *fakeStore {
	c := newFakeStore()
	for id, p := range s.products {
		cp := *p
		c.products[id] = &cp
	}
	for kind, m := range s.entries {
		for id, e := range m {
			ce := *e
			c.entries[kind][id] = &ce
		}
	}
	return c
}

func (s *fakeStore) restore(from *fakeStore) {
	s.products = from.products
	s.entries = from.entries
}

type fakeLedgerRepo struct {
	store *fakeStore
	// errOn permite forzar fallos a mitad de lote
	errOnCreate bool
	// lockLog registra el orden de los bloqueos de clave (producto|fecha)
	lockLog *[]string
}

func (r *fakeLedgerRepo) Create(kind entity.LedgerKind, e *entity.LedgerEntry) error {
	if r.errOnCreate {
		return fmt.Errorf("insertar fila: fallo simulado")
	}
	cp := *e
	r.store.entries[kind][e.ID] = &cp
	return nil
}

func (r *fakeLedgerRepo) GetByID(kind entity.LedgerKind, id string) (*entity.LedgerEntry, error) {
	e, ok := r.store.entries[kind][id]
	if !ok {
		return nil, nil
	}
	cp := *e
	return &cp, nil
}

func (r *fakeLedgerRepo) GetByProductAndDate(kind entity.LedgerKind, productID string, date time.Time) (*entity.LedgerEntry, error) {
	for _, e := range r.store.entries[kind] {
		if e.ProductID == productID && sameDay(e.EntryDate, date) {
			cp := *e
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *fakeLedgerRepo) GetByProductAndDateForUpdate(kind entity.LedgerKind, productID string, date time.Time) (*entity.LedgerEntry, error) {
	if r.lockLog != nil {
		*r.lockLog = append(*r.lockLog, productID+"|"+date.Format("2006-01-02"))
	}
	return r.GetByProductAndDate(kind, productID, date)
}

func (r *fakeLedgerRepo) AddToEntry(kind entity.LedgerKind, id string, quantity int64, amount decimal.Decimal) error {
	e, ok := r.store.entries[kind][id]
	if !ok {
		return fmt.Errorf("fila %s no existe", id)
	}
	e.Quantity += quantity
	e.TotalAmount = e.TotalAmount.Add(amount)
	return nil
}

func (r *fakeLedgerRepo) Update(kind entity.LedgerKind, e *entity.LedgerEntry) error {
	cp := *e
	r.store.entries[kind][e.ID] = &cp
	return nil
}

func (r *fakeLedgerRepo) ListByStore(kind entity.LedgerKind, storeID string, f repository.LedgerFilter, limit, offset int) ([]*entity.LedgerEntry, error) {
	return nil, nil
}

func (r *fakeLedgerRepo) ListByProduct(kind entity.LedgerKind, productID string, f repository.LedgerFilter, limit, offset int) ([]*entity.LedgerEntry, error) {
	var out []*entity.LedgerEntry
	for _, e := range r.store.entries[kind] {
		if e.ProductID == productID {
			cp := *e
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *fakeLedgerRepo) Delete(kind entity.LedgerKind, id string) error {
	delete(r.store.entries[kind], id)
	return nil
}

type fakeProductRepo struct {
	store *fakeStore
}

func (r *fakeProductRepo) Create(p *entity.Product) error {
	cp := *p
	r.store.products[p.ID] = &cp
	return nil
}

func (r *fakeProductRepo) GetByID(id string) (*entity.Product, error) {
	p, ok := r.store.products[id]
	if !ok {
		return nil, nil
	}
	cp := *p
	return &cp, nil
}

func (r *fakeProductRepo) Update(p *entity.Product) error {
	cp := *p
	r.store.products[p.ID] = &cp
	return nil
}

func (r *fakeProductRepo) ListByStore(storeID string, limit, offset int) ([]*entity.Product, error) {
	return nil, nil
}

func (r *fakeProductRepo) Delete(id string) error {
	delete(r.store.products, id)
	return nil
}

func (r *fakeProductRepo) AdjustStock(productID string, delta int64) error {
	p, ok := r.store.products[productID]
	if !ok {
		return fmt.Errorf("producto %s no existe", productID)
	}
	p.Stock += delta
	return nil
}

type fakeTxRunner struct {
	store       *fakeStore
	errOnCreate bool
	lockLog     []string
}

func (tr *fakeTxRunner) Run(ctx context.Context, fn func(repository.LedgerRepository, repository.ProductRepository) error) error {
	backup := tr.store.snapshot()
	err := fn(
		&fakeLedgerRepo{store: tr.store, errOnCreate: tr.errOnCreate, lockLog: &tr.lockLog},
		&fakeProductRepo{store: tr.store},
	)
	if err != nil {
		tr.store.restore(backup)
	}
	return err
}

func sameDay(a, b time.Time) bool {
	return a.Format("2006-01-02") == b.Format("2006-01-02")
}

// ──────────────────────────────────────────────────────────────────────────────
// Helpers
// ──────────────────────────────────────────────────────────────────────────────

const (
	productA = "00000000-0000-0000-0000-00000000000a"
	productB = "00000000-0000-0000-0000-00000000000b"
)

var testNow = time.Date(2025, 6, 15, 14, 30, 0, 0, time.UTC)

func buildUseCase(t *testing.T) (*ledger.RecordUseCase, *fakeStore) {
	t.Helper()
	store := newFakeStore()
	store.products[productA] = &entity.Product{ID: productA, Name: "Café", Stock: 10, Price: decimal.NewFromInt(5)}
	store.products[productB] = &entity.Product{ID: productB, Name: "Azúcar", Stock: 3, Price: decimal.NewFromInt(2)}
	uc := ledger.NewRecordUseCase(&fakeTxRunner{store: store}).
		WithClock(func() time.Time { return testNow })
	return uc, store
}

func entriesFor(store *fakeStore, kind entity.LedgerKind, productID string) []*entity.LedgerEntry {
	var out []*entity.LedgerEntry
	for _, e := range store.entries[kind] {
		if e.ProductID == productID {
			out = append(out, e)
		}
	}
	return out
}

// ──────────────────────────────────────────────────────────────────────────────
// Registro individual
// ──────────────────────────────────────────────────────────────────────────────

func TestRecordEntry_CompraAumentaStock(t *testing.T) {
	uc, store := buildUseCase(t)

	e, err := uc.RecordEntry(context.Background(), entity.KindPurchase, ledger.EntryInput{
		ProductID: productA, Quantity: 4, TotalAmount: "20.00",
	})
	require.NoError(t, err)
	require.NotNil(t, e)

	assert.Equal(t, int64(4), e.Quantity)
	assert.True(t, e.TotalAmount.Equal(decimal.RequireFromString("20.00")))
	assert.Equal(t, int64(14), store.products[productA].Stock, "compra: stock 10 + 4")
}

func TestRecordEntry_VentaDescuentaStock(t *testing.T) {
	uc, store := buildUseCase(t)

	_, err := uc.RecordEntry(context.Background(), entity.KindSale, ledger.EntryInput{
		ProductID: productA, Quantity: 3,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(7), store.products[productA].Stock, "venta: stock 10 - 3")
}

// El stock puede quedar negativo: el inventario registra la realidad, no la
// bloquea.
func TestRecordEntry_VentaPermiteStockNegativo(t *testing.T) {
	uc, store := buildUseCase(t)

	_, err := uc.RecordEntry(context.Background(), entity.KindSale, ledger.EntryInput{
		ProductID: productB, Quantity: 5,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(-2), store.products[productB].Stock)
}

func TestRecordEntry_MismoDiaFusionaSobreLaFila(t *testing.T) {
	uc, store := buildUseCase(t)
	ctx := context.Background()

	_, err := uc.RecordEntry(ctx, entity.KindSale, ledger.EntryInput{
		ProductID: productA, Quantity: 2, TotalAmount: "10.00", Date: "2025-06-15",
	})
	require.NoError(t, err)
	e2, err := uc.RecordEntry(ctx, entity.KindSale, ledger.EntryInput{
		ProductID: productA, Quantity: 3, TotalAmount: "15.50", Date: "2025-06-15",
	})
	require.NoError(t, err)

	rows := entriesFor(store, entity.KindSale, productA)
	require.Len(t, rows, 1, "mismo producto y día deben compartir una sola fila")
	assert.Equal(t, int64(5), e2.Quantity)
	assert.True(t, e2.TotalAmount.Equal(decimal.RequireFromString("25.50")))
	assert.Equal(t, int64(5), store.products[productA].Stock, "stock 10 - 2 - 3")
}

func TestRecordEntry_DiasDistintosCreanFilasDistintas(t *testing.T) {
	uc, store := buildUseCase(t)
	ctx := context.Background()

	_, err := uc.RecordEntry(ctx, entity.KindPurchase, ledger.EntryInput{
		ProductID: productA, Quantity: 1, Date: "2025-06-14",
	})
	require.NoError(t, err)
	_, err = uc.RecordEntry(ctx, entity.KindPurchase, ledger.EntryInput{
		ProductID: productA, Quantity: 1, Date: "2025-06-15",
	})
	require.NoError(t, err)

	assert.Len(t, entriesFor(store, entity.KindPurchase, productA), 2)
}

// Compras y ventas son libros independientes: la misma clave (producto, fecha)
// no se fusiona entre libros.
func TestRecordEntry_LibrosIndependientes(t *testing.T) {
	uc, store := buildUseCase(t)
	ctx := context.Background()

	_, err := uc.RecordEntry(ctx, entity.KindPurchase, ledger.EntryInput{
		ProductID: productA, Quantity: 2, Date: "2025-06-15",
	})
	require.NoError(t, err)
	_, err = uc.RecordEntry(ctx, entity.KindSale, ledger.EntryInput{
		ProductID: productA, Quantity: 2, Date: "2025-06-15",
	})
	require.NoError(t, err)

	assert.Len(t, entriesFor(store, entity.KindPurchase, productA), 1)
	assert.Len(t, entriesFor(store, entity.KindSale, productA), 1)
	assert.Equal(t, int64(10), store.products[productA].Stock, "compra +2 y venta -2 se netean")
}

func TestRecordEntry_FechaVaciaUsaHoy(t *testing.T) {
	uc, store := buildUseCase(t)

	e, err := uc.RecordEntry(context.Background(), entity.KindPurchase, ledger.EntryInput{
		ProductID: productA, Quantity: 1,
	})
	require.NoError(t, err)
	assert.Equal(t, "2025-06-15", e.EntryDate.Format("2006-01-02"))

	// Un segundo registro sin fecha cae sobre la misma fila de hoy.
	e2, err := uc.RecordEntry(context.Background(), entity.KindPurchase, ledger.EntryInput{
		ProductID: productA, Quantity: 2,
	})
	require.NoError(t, err)
	assert.Equal(t, e.ID, e2.ID)
	assert.Len(t, entriesFor(store, entity.KindPurchase, productA), 1)
}

func TestRecordEntry_FechaInvalidaRechazada(t *testing.T) {
	uc, _ := buildUseCase(t)

	_, err := uc.RecordEntry(context.Background(), entity.KindPurchase, ledger.EntryInput{
		ProductID: productA, Quantity: 1, Date: "15/06/2025",
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestRecordEntry_ProductoDesconocido(t *testing.T) {
	uc, _ := buildUseCase(t)

	_, err := uc.RecordEntry(context.Background(), entity.KindSale, ledger.EntryInput{
		ProductID: "no-existe", Quantity: 1,
	})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestRecordEntry_CantidadInvalida(t *testing.T) {
	uc, _ := buildUseCase(t)
	ctx := context.Background()

	_, err := uc.RecordEntry(ctx, entity.KindSale, ledger.EntryInput{ProductID: productA, Quantity: 0})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = uc.RecordEntry(ctx, entity.KindSale, ledger.EntryInput{ProductID: productA, Quantity: -3})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

// ──────────────────────────────────────────────────────────────────────────────
// Total explícito vs precio × cantidad
// ──────────────────────────────────────────────────────────────────────────────

func TestRecordEntry_TotalAusenteUsaPrecioPorCantidad(t *testing.T) {
	uc, _ := buildUseCase(t)

	e, err := uc.RecordEntry(context.Background(), entity.KindSale, ledger.EntryInput{
		ProductID: productA, Quantity: 4,
	})
	require.NoError(t, err)
	assert.True(t, e.TotalAmount.Equal(decimal.NewFromInt(20)), "precio 5 × cantidad 4")
}

func TestRecordEntry_TotalMalformadoUsaPrecioPorCantidad(t *testing.T) {
	uc, _ := buildUseCase(t)

	e, err := uc.RecordEntry(context.Background(), entity.KindSale, ledger.EntryInput{
		ProductID: productA, Quantity: 2, TotalAmount: "no-es-numero",
	})
	require.NoError(t, err)
	assert.True(t, e.TotalAmount.Equal(decimal.NewFromInt(10)))
}

func TestRecordEntry_TotalNegativoUsaPrecioPorCantidad(t *testing.T) {
	uc, _ := buildUseCase(t)

	e, err := uc.RecordEntry(context.Background(), entity.KindPurchase, ledger.EntryInput{
		ProductID: productA, Quantity: 2, TotalAmount: "-7.00",
	})
	require.NoError(t, err)
	assert.True(t, e.TotalAmount.Equal(decimal.NewFromInt(10)))
}

// Cero es un monto explícito válido: regalos y promociones existen.
func TestRecordEntry_TotalCeroSeRespeta(t *testing.T) {
	uc, _ := buildUseCase(t)

	e, err := uc.RecordEntry(context.Background(), entity.KindSale, ledger.EntryInput{
		ProductID: productA, Quantity: 2, TotalAmount: "0",
	})
	require.NoError(t, err)
	assert.True(t, e.TotalAmount.IsZero())
}

// ──────────────────────────────────────────────────────────────────────────────
// Lotes
// ──────────────────────────────────────────────────────────────────────────────

func TestRecordBatch_FusionaEnMemoriaPorProductoYFecha(t *testing.T) {
	uc, store := buildUseCase(t)

	entries, err := uc.RecordBatch(context.Background(), entity.KindSale, []ledger.EntryInput{
		{ProductID: productA, Quantity: 1, TotalAmount: "5.00", Date: "2025-06-15"},
		{ProductID: productA, Quantity: 2, TotalAmount: "10.00", Date: "2025-06-15"},
		{ProductID: productB, Quantity: 1, TotalAmount: "2.00", Date: "2025-06-15"},
		{ProductID: productA, Quantity: 1, TotalAmount: "5.00", Date: "2025-06-14"},
	})
	require.NoError(t, err)
	require.Len(t, entries, 3, "tres claves distintas (producto, fecha)")

	rowsA := entriesFor(store, entity.KindSale, productA)
	assert.Len(t, rowsA, 2)
	assert.Equal(t, int64(6), store.products[productA].Stock, "stock 10 - 4")
	assert.Equal(t, int64(2), store.products[productB].Stock, "stock 3 - 1")
}

func TestRecordBatch_AcumulaSobreFilaPreexistente(t *testing.T) {
	uc, store := buildUseCase(t)
	ctx := context.Background()

	_, err := uc.RecordEntry(ctx, entity.KindPurchase, ledger.EntryInput{
		ProductID: productA, Quantity: 2, TotalAmount: "10.00", Date: "2025-06-15",
	})
	require.NoError(t, err)

	entries, err := uc.RecordBatch(ctx, entity.KindPurchase, []ledger.EntryInput{
		{ProductID: productA, Quantity: 3, TotalAmount: "15.00", Date: "2025-06-15"},
	})
	require.NoError(t, err)
	require.Len(t, entries, 1)

	assert.Equal(t, int64(5), entries[0].Quantity)
	assert.True(t, entries[0].TotalAmount.Equal(decimal.NewFromInt(25)))
	assert.Len(t, entriesFor(store, entity.KindPurchase, productA), 1)
}

func TestRecordBatch_ProductoDesconocidoAbortaTodo(t *testing.T) {
	uc, store := buildUseCase(t)

	_, err := uc.RecordBatch(context.Background(), entity.KindSale, []ledger.EntryInput{
		{ProductID: productA, Quantity: 2},
		{ProductID: "fantasma", Quantity: 1},
	})
	require.ErrorIs(t, err, domain.ErrNotFound)

	assert.Empty(t, entriesFor(store, entity.KindSale, productA), "el lote no debe dejar filas")
	assert.Equal(t, int64(10), store.products[productA].Stock, "el stock no debe cambiar")
}

func TestRecordBatch_ErrorDeStorageRevierteTodo(t *testing.T) {
	store := newFakeStore()
	store.products[productA] = &entity.Product{ID: productA, Stock: 10, Price: decimal.NewFromInt(5)}
	uc := ledger.NewRecordUseCase(&fakeTxRunner{store: store, errOnCreate: true}).
		WithClock(func() time.Time { return testNow })

	_, err := uc.RecordBatch(context.Background(), entity.KindSale, []ledger.EntryInput{
		{ProductID: productA, Quantity: 2},
	})
	require.Error(t, err)
	assert.Equal(t, int64(10), store.products[productA].Stock)
	assert.Empty(t, entriesFor(store, entity.KindSale, productA))
}

func TestRecordBatch_LoteVacioRechazado(t *testing.T) {
	uc, _ := buildUseCase(t)

	_, err := uc.RecordBatch(context.Background(), entity.KindSale, nil)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestRecordBatch_ResultadoOrdenadoPorCreacionDescendente(t *testing.T) {
	uc, _ := buildUseCase(t)
	ctx := context.Background()

	// Fila previa con CreatedAt anterior al lote.
	earlier := testNow.Add(-time.Hour)
	ucEarlier := *uc
	ucEarlier.WithClock(func() time.Time { return earlier })
	_, err := ucEarlier.RecordEntry(ctx, entity.KindSale, ledger.EntryInput{
		ProductID: productA, Quantity: 1, Date: "2025-06-14",
	})
	require.NoError(t, err)

	uc.WithClock(func() time.Time { return testNow })
	entries, err := uc.RecordBatch(ctx, entity.KindSale, []ledger.EntryInput{
		{ProductID: productA, Quantity: 1, Date: "2025-06-14"}, // fusiona con la vieja
		{ProductID: productA, Quantity: 1, Date: "2025-06-15"}, // fila nueva
	})
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.False(t, entries[0].CreatedAt.Before(entries[1].CreatedAt),
		"la fila más reciente va primero")
}

// Dos lotes que comparten claves deben bloquearlas en el mismo orden,
// independientemente del orden de los ítems en el request; de lo contrario
// dos transacciones concurrentes pueden interbloquearse.
func TestRecordBatch_BloqueaClavesEnOrdenEstable(t *testing.T) {
	store := newFakeStore()
	store.products[productA] = &entity.Product{ID: productA, Stock: 10, Price: decimal.NewFromInt(5)}
	store.products[productB] = &entity.Product{ID: productB, Stock: 3, Price: decimal.NewFromInt(2)}
	runner := &fakeTxRunner{store: store}
	uc := ledger.NewRecordUseCase(runner).
		WithClock(func() time.Time { return testNow })

	// Ítems deliberadamente en orden inverso al de la clave (producto, fecha).
	_, err := uc.RecordBatch(context.Background(), entity.KindSale, []ledger.EntryInput{
		{ProductID: productB, Quantity: 1, Date: "2025-06-15"},
		{ProductID: productA, Quantity: 1, Date: "2025-06-15"},
		{ProductID: productA, Quantity: 1, Date: "2025-06-14"},
	})
	require.NoError(t, err)

	want := []string{
		productA + "|2025-06-14",
		productA + "|2025-06-15",
		productB + "|2025-06-15",
	}
	assert.Equal(t, want, runner.lockLog,
		"los bloqueos van en orden (producto, fecha), no en orden de entrada")
}
