package networth

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmynk/wealthwise/internal/authz"
	"github.com/mmynk/wealthwise/internal/models"
	"github.com/mmynk/wealthwise/internal/storage"
	"github.com/mmynk/wealthwise/internal/storage/sqlite"
	"github.com/mmynk/wealthwise/internal/tenant"
)

func newTestStore(t *testing.T) *sqlite.SQLiteStore {
	t.Helper()
	store, err := sqlite.New(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

// groupContext returns a context scoped to a new group with an admin member.
func groupContext(t *testing.T, store *sqlite.SQLiteStore, name string) (context.Context, *models.Group) {
	t.Helper()
	group := &models.Group{Name: name}
	require.NoError(t, store.CreateGroup(context.Background(), group))
	user := &models.User{ID: name + "-admin", Username: name + "-admin", GroupID: group.ID, Role: models.RoleAdmin}
	ctx, scope := tenant.Begin(context.Background(), user, group)
	t.Cleanup(scope.End)
	return ctx, group
}

func createAsset(t *testing.T, gate *Gate, ctx context.Context, name, value string) *models.NetWorthItem {
	t.Helper()
	body := fmt.Sprintf(`{"name": %q, "value": %q, "asset_category": "SAVINGS"}`, name, value)
	item, err := gate.Create(ctx, models.ItemTypeAsset, mustFields(t, body))
	require.NoError(t, err)
	return item
}

func TestGate_RequiresGroup(t *testing.T) {
	gate := NewGate(newTestStore(t))

	ctx, scope := tenant.Begin(context.Background(), &models.User{ID: "u", IsSystemAdmin: true}, nil)
	defer scope.End()

	_, err := gate.List(ctx, models.ItemTypeAsset, 1, 20)
	assert.ErrorIs(t, err, authz.ErrGroupRequired)
	_, err = gate.Get(ctx, models.ItemTypeAsset, 1)
	assert.ErrorIs(t, err, authz.ErrGroupRequired)
	_, err = gate.Create(ctx, models.ItemTypeAsset, Fields{})
	assert.ErrorIs(t, err, authz.ErrGroupRequired)
	_, err = gate.Update(ctx, models.ItemTypeAsset, 1, Fields{})
	assert.ErrorIs(t, err, authz.ErrGroupRequired)
	assert.ErrorIs(t, gate.Delete(ctx, models.ItemTypeAsset, 1), authz.ErrGroupRequired)
	_, err = gate.Summary(ctx)
	assert.ErrorIs(t, err, authz.ErrGroupRequired)
	_, err = gate.Ratios(context.Background())
	assert.ErrorIs(t, err, authz.ErrGroupRequired)
}

func TestGate_CreateAndGet(t *testing.T) {
	store := newTestStore(t)
	gate := NewGate(store)
	ctx, group := groupContext(t, store, "g1")

	created := createAsset(t, gate, ctx, "Cash", "1000.00")
	assert.Equal(t, group.ID, created.GroupID)

	got, err := gate.Get(ctx, models.ItemTypeAsset, created.ID)
	require.NoError(t, err)
	assert.Equal(t, models.CategorySavings, got.AssetCategory)
	assert.Equal(t, "1000.00", got.Value.StringFixed(2))

	// An asset is not reachable through the liability endpoints.
	_, err = gate.Get(ctx, models.ItemTypeLiability, created.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, gate.Delete(ctx, models.ItemTypeLiability, created.ID), ErrNotFound)

	_, err = gate.Create(ctx, models.ItemTypeLiability,
		mustFields(t, `{"name": "Card", "value": "10", "asset_category": "SAVINGS"}`))
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.True(t, verr.Has("asset_category", CodeCategoryNotAllowed))

	_, err = gate.Create(ctx, models.ItemTypeAsset, mustFields(t, `{"name": "House", "value": "10"}`))
	require.ErrorAs(t, err, &verr)
	assert.True(t, verr.Has("asset_category", CodeMissingCategory))
}

func TestGate_CreateIgnoresPayloadGroup(t *testing.T) {
	store := newTestStore(t)
	gate := NewGate(store)
	ctx1, g1 := groupContext(t, store, "g1")
	ctx2, g2 := groupContext(t, store, "g2")

	body := fmt.Sprintf(`{"name": "Cash", "value": "5", "asset_category": "SAVINGS", "group": %q, "group_id": %q}`, g2.ID, g2.ID)
	item, err := gate.Create(ctx1, models.ItemTypeAsset, mustFields(t, body))
	require.NoError(t, err)
	assert.Equal(t, g1.ID, item.GroupID)

	page, err := gate.List(ctx2, models.ItemTypeAsset, 1, 20)
	require.NoError(t, err)
	assert.Zero(t, page.Count)
}

func TestGate_TenantIsolation(t *testing.T) {
	store := newTestStore(t)
	gate := NewGate(store)
	ctx1, _ := groupContext(t, store, "g1")
	ctx2, _ := groupContext(t, store, "g2")

	createAsset(t, gate, ctx1, "Mine", "1.00")
	theirs := createAsset(t, gate, ctx2, "Theirs", "2.00")

	page, err := gate.List(ctx1, models.ItemTypeAsset, 1, 20)
	require.NoError(t, err)
	assert.Equal(t, 1, page.Count)
	require.Len(t, page.Items, 1)
	assert.Equal(t, "Mine", page.Items[0].Name)

	_, err = gate.Get(ctx1, models.ItemTypeAsset, theirs.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = gate.Update(ctx1, models.ItemTypeAsset, theirs.ID, mustFields(t, `{"value": "0"}`))
	assert.ErrorIs(t, err, ErrNotFound)

	assert.ErrorIs(t, gate.Delete(ctx1, models.ItemTypeAsset, theirs.ID), ErrNotFound)

	summary, err := gate.Summary(ctx1)
	require.NoError(t, err)
	assert.Equal(t, "1.00", summary.TotalAssets.StringFixed(2))

	// The other group's item is unchanged.
	got, err := gate.Get(ctx2, models.ItemTypeAsset, theirs.ID)
	require.NoError(t, err)
	assert.Equal(t, "2.00", got.Value.StringFixed(2))
}

func TestGate_UpdateAndDelete(t *testing.T) {
	store := newTestStore(t)
	gate := NewGate(store)
	ctx, _ := groupContext(t, store, "g1")

	item := createAsset(t, gate, ctx, "Cash", "500.00")

	updated, err := gate.Update(ctx, models.ItemTypeAsset, item.ID, mustFields(t, `{"value": "750.00"}`))
	require.NoError(t, err)
	assert.Equal(t, "750.00", updated.Value.StringFixed(2))
	assert.Equal(t, models.CategorySavings, updated.AssetCategory)

	_, err = gate.Update(ctx, models.ItemTypeAsset, item.ID, mustFields(t, `{"asset_category": "NOPE", "name": "Changed"}`))
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)

	got, err := gate.Get(ctx, models.ItemTypeAsset, item.ID)
	require.NoError(t, err)
	assert.Equal(t, "Cash", got.Name)
	assert.Equal(t, "750.00", got.Value.StringFixed(2))

	require.NoError(t, gate.Delete(ctx, models.ItemTypeAsset, item.ID))
	_, err = gate.Get(ctx, models.ItemTypeAsset, item.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, gate.Delete(ctx, models.ItemTypeAsset, item.ID), ErrNotFound)
}

func TestGate_ListPaging(t *testing.T) {
	store := newTestStore(t)
	gate := NewGate(store)
	ctx, _ := groupContext(t, store, "g1")

	for i := 0; i < 5; i++ {
		createAsset(t, gate, ctx, fmt.Sprintf("item-%d", i), "1")
	}

	tests := []struct {
		name         string
		page, size   int
		wantPage     int
		wantSize     int
		wantLen      int
		wantNext     int
		wantPrevious int
	}{
		{name: "first page", page: 1, size: 2, wantPage: 1, wantSize: 2, wantLen: 2, wantNext: 2},
		{name: "middle page", page: 2, size: 2, wantPage: 2, wantSize: 2, wantLen: 2, wantNext: 3, wantPrevious: 1},
		{name: "last page", page: 3, size: 2, wantPage: 3, wantSize: 2, wantLen: 1, wantPrevious: 2},
		{name: "past the end clamps to last", page: 9, size: 2, wantPage: 3, wantSize: 2, wantLen: 1, wantPrevious: 2},
		{name: "zero page clamps to first", page: 0, size: 2, wantPage: 1, wantSize: 2, wantLen: 2, wantNext: 2},
		{name: "default size", page: 1, size: 0, wantPage: 1, wantSize: DefaultPageSize, wantLen: 5},
		{name: "max size", page: 1, size: 1000, wantPage: 1, wantSize: MaxPageSize, wantLen: 5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := gate.List(ctx, models.ItemTypeAsset, tt.page, tt.size)
			require.NoError(t, err)
			assert.Equal(t, 5, p.Count)
			assert.Equal(t, tt.wantPage, p.Page)
			assert.Equal(t, tt.wantSize, p.PageSize)
			assert.Len(t, p.Items, tt.wantLen)
			assert.Equal(t, tt.wantNext, p.Next)
			assert.Equal(t, tt.wantPrevious, p.Previous)
		})
	}

	t.Run("empty list", func(t *testing.T) {
		p, err := gate.List(ctx, models.ItemTypeLiability, 3, 20)
		require.NoError(t, err)
		assert.Equal(t, 1, p.Page)
		assert.Zero(t, p.Count)
		assert.Empty(t, p.Items)
	})
}

func TestGate_SummaryAndRatios(t *testing.T) {
	store := newTestStore(t)
	gate := NewGate(store)
	ctx, _ := groupContext(t, store, "g1")

	createAsset(t, gate, ctx, "Cash", "1000.00")
	_, err := gate.Create(ctx, models.ItemTypeLiability, mustFields(t, `{"name": "Loan", "value": "400"}`))
	require.NoError(t, err)

	summary, err := gate.Summary(ctx)
	require.NoError(t, err)
	assert.Equal(t, "1000.00", summary.TotalAssets.StringFixed(2))
	assert.Equal(t, "400.00", summary.TotalLiabilities.StringFixed(2))
	assert.Equal(t, "600.00", summary.NetWorth.StringFixed(2))

	ratios, err := gate.Ratios(ctx)
	require.NoError(t, err)
	assert.Equal(t, "40.00", ratios.DebtToAssetRatio.StringFixed(2))
	assert.Equal(t, "Good", ratios.Status)
}

type failingItems struct {
	storage.ItemStore
	err error
}

func (f failingItems) ListAllItems(context.Context, string) ([]*models.NetWorthItem, error) {
	return nil, f.err
}

func (f failingItems) GetItem(context.Context, string, int64) (*models.NetWorthItem, error) {
	return nil, f.err
}

func TestGate_StorageFaultsAreNotNotFound(t *testing.T) {
	fault := errors.New("disk full")
	gate := NewGate(failingItems{err: fault})
	group := &models.Group{ID: "g1"}
	ctx, scope := tenant.Begin(context.Background(), &models.User{ID: "u", GroupID: "g1", Role: models.RoleAdmin}, group)
	defer scope.End()

	_, err := gate.Summary(ctx)
	assert.ErrorIs(t, err, fault)

	_, err = gate.Get(ctx, models.ItemTypeAsset, 1)
	assert.ErrorIs(t, err, fault)
	assert.NotErrorIs(t, err, ErrNotFound)
}
