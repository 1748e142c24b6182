package inventory

import (
	"context"
	"errors"
	"testing"

	"github.com/easm/dashboard/internal/domain/inventory"
	"github.com/easm/dashboard/internal/domain/inventory/inventorytest"
	"github.com/easm/dashboard/internal/domain/shared"
	"github.com/easm/dashboard/internal/infrastructure/apiclient"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func pageQuery(page int) any {
	return mock.MatchedBy(func(q inventory.AssetQuery) bool { return q.Page == page })
}

func statusQuery(status inventory.AssetStatus) any {
	return mock.MatchedBy(func(q inventory.AssetQuery) bool { return q.Status == status })
}

func TestAssetsController_InitialState(t *testing.T) {
	ctrl := NewAssetsController(new(MockClient))
	snap := ctrl.Snapshot()

	assert.True(t, snap.IsInitialLoading)
	assert.False(t, snap.IsPaginationLoading)
	assert.Equal(t, inventory.PaginationState{PageIndex: 0, PageSize: DefaultPageSize}, snap.Pagination)
	assert.Equal(t, inventory.StatusAll, snap.Filters.Status)
	assert.Empty(t, snap.Items)
}

func TestAssetsController_LoadFivePage(t *testing.T) {
	ctx := context.Background()
	client := new(MockClient)
	page := inventorytest.Page(5, 1, 10, 5)
	client.On("Assets", mock.Anything, inventory.AssetQuery{Status: inventory.StatusAll, Page: 1, Limit: 10}).Return(page, nil).Once()

	ctrl := NewAssetsController(client)
	require.NoError(t, ctrl.Load(ctx))

	snap := ctrl.Snapshot()
	assert.Len(t, snap.Items, 5)
	assert.Equal(t, 5, snap.TotalCount)
	assert.False(t, snap.IsInitialLoading)
	assert.False(t, snap.IsPaginationLoading)
	assert.Empty(t, snap.Error)
	client.AssertExpectations(t)
}

func TestAssetsController_BackendPageIsOneBased(t *testing.T) {
	ctx := context.Background()
	for _, pageIndex := range []int{0, 1, 4, 19} {
		client := new(MockClient)
		client.On("Assets", mock.Anything, pageQuery(pageIndex+1)).
			Return(inventorytest.Page(10, pageIndex+1, 10, 500), nil).Once()

		ctrl := NewAssetsController(client)
		err := ctrl.ChangePagination(ctx, inventory.PaginationState{PageIndex: pageIndex, PageSize: 10})
		require.NoError(t, err)
		client.AssertExpectations(t)
		assert.Equal(t, pageIndex, ctrl.Snapshot().Pagination.PageIndex)
	}
}

func TestAssetsController_ForwardsFilters(t *testing.T) {
	ctx := context.Background()
	client := new(MockClient)
	client.On("Assets", mock.Anything, inventory.AssetQuery{Status: inventory.StatusActive, Page: 1, Limit: 25}).
		Return(inventorytest.Page(0, 1, 25, 0), nil).Once()
	client.On("Assets", mock.Anything, inventory.AssetQuery{Type: inventory.AssetTypeIP, Status: inventory.StatusInactive, Page: 1, Limit: 25}).
		Return(inventorytest.Page(0, 1, 25, 0), nil).Once()

	ctrl := NewAssetsController(client, WithPageSize(25), WithInitialFilters(inventory.FiltersState{Status: inventory.StatusActive}))
	require.NoError(t, ctrl.Load(ctx))
	require.NoError(t, ctrl.ChangeFilters(ctx, inventory.FiltersState{Type: inventory.AssetTypeIP, Status: inventory.StatusInactive}))
	client.AssertExpectations(t)
}

func TestAssetsController_FilterChangeResetsPage(t *testing.T) {
	ctx := context.Background()
	client := new(MockClient)
	client.On("Assets", mock.Anything, pageQuery(4)).Return(inventorytest.Page(10, 4, 10, 100), nil).Once()
	client.On("Assets", mock.Anything, pageQuery(1)).Return(inventorytest.Page(10, 1, 10, 40), nil).Once()

	ctrl := NewAssetsController(client)
	require.NoError(t, ctrl.ChangePagination(ctx, inventory.PaginationState{PageIndex: 3, PageSize: 10}))
	require.NoError(t, ctrl.ChangeFilters(ctx, inventory.FiltersState{Status: inventory.StatusActive}))

	snap := ctrl.Snapshot()
	assert.Equal(t, 0, snap.Pagination.PageIndex)
	assert.Equal(t, 10, snap.Pagination.PageSize)
	assert.Equal(t, 40, snap.TotalCount)
	client.AssertExpectations(t)
}

func TestAssetsController_ReconcilesServerPage(t *testing.T) {
	ctx := context.Background()
	client := new(MockClient)
	client.On("Assets", mock.Anything, pageQuery(5)).Return(inventorytest.Page(3, 2, 10, 13), nil).Once()

	ctrl := NewAssetsController(client)
	require.NoError(t, ctrl.ChangePagination(ctx, inventory.PaginationState{PageIndex: 4, PageSize: 10}))

	snap := ctrl.Snapshot()
	assert.Equal(t, 1, snap.Pagination.PageIndex)
	assert.Equal(t, 13, snap.TotalCount)
}

func TestAssetsController_IgnoresZeroServerPage(t *testing.T) {
	ctx := context.Background()
	client := new(MockClient)
	client.On("Assets", mock.Anything, pageQuery(3)).Return(inventorytest.Page(0, 0, 10, 0), nil).Once()

	ctrl := NewAssetsController(client)
	require.NoError(t, ctrl.ChangePagination(ctx, inventory.PaginationState{PageIndex: 2, PageSize: 10}))
	assert.Equal(t, 2, ctrl.Snapshot().Pagination.PageIndex)
}

func TestAssetsController_FailedPaginationKeepsData(t *testing.T) {
	ctx := context.Background()
	client := new(MockClient)
	first := inventorytest.Page(10, 1, 10, 30)
	client.On("Assets", mock.Anything, pageQuery(1)).Return(first, nil).Once()
	client.On("Assets", mock.Anything, pageQuery(2)).Return(nil, apiclient.ErrServer).Once()

	ctrl := NewAssetsController(client)
	require.NoError(t, ctrl.Load(ctx))

	err := ctrl.ChangePagination(ctx, inventory.PaginationState{PageIndex: 1, PageSize: 10})
	assert.ErrorIs(t, err, apiclient.ErrServer)

	snap := ctrl.Snapshot()
	assert.Equal(t, first.Assets, snap.Items)
	assert.Equal(t, 30, snap.TotalCount)
	assert.Equal(t, apiclient.MsgServer, snap.Error)
	assert.False(t, snap.IsInitialLoading)
	assert.False(t, snap.IsPaginationLoading)
}

func TestAssetsController_FailedInitialClearsData(t *testing.T) {
	ctx := context.Background()
	client := new(MockClient)
	client.On("Assets", mock.Anything, mock.Anything).Return(inventorytest.Page(10, 1, 10, 30), nil).Once()
	client.On("Assets", mock.Anything, mock.Anything).Return(nil, apiclient.ErrNetwork).Once()

	ctrl := NewAssetsController(client)
	require.NoError(t, ctrl.Load(ctx))
	require.Len(t, ctrl.Snapshot().Items, 10)

	err := ctrl.Retry(ctx)
	assert.ErrorIs(t, err, apiclient.ErrNetwork)

	snap := ctrl.Snapshot()
	assert.Empty(t, snap.Items)
	assert.Zero(t, snap.TotalCount)
	assert.Equal(t, apiclient.MsgNetwork, snap.Error)
	assert.False(t, snap.IsInitialLoading)
}

func TestAssetsController_RetryIsInitial(t *testing.T) {
	ctx := context.Background()
	client := new(MockClient)
	ctrl := NewAssetsController(client)

	client.On("Assets", mock.Anything, mock.Anything).Return(nil, errors.New("boom")).Once()
	require.Error(t, ctrl.Load(ctx))

	var during AssetsSnapshot
	client.On("Assets", mock.Anything, pageQuery(1)).Run(func(mock.Arguments) {
		during = ctrl.Snapshot()
	}).Return(inventorytest.Page(2, 1, 10, 2), nil).Once()

	require.NoError(t, ctrl.Retry(ctx))
	assert.True(t, during.IsInitialLoading)
	assert.False(t, during.IsPaginationLoading)
	assert.Empty(t, during.Error)

	snap := ctrl.Snapshot()
	assert.Len(t, snap.Items, 2)
	assert.Empty(t, snap.Error)
}

func TestAssetsController_PaginationLoadingFlag(t *testing.T) {
	ctx := context.Background()
	client := new(MockClient)
	ctrl := NewAssetsController(client)

	var during AssetsSnapshot
	client.On("Assets", mock.Anything, mock.Anything).Run(func(mock.Arguments) {
		during = ctrl.Snapshot()
	}).Return(inventorytest.Page(10, 2, 10, 20), nil).Once()

	require.NoError(t, ctrl.ChangePagination(ctx, inventory.PaginationState{PageIndex: 1, PageSize: 10}))
	assert.True(t, during.IsPaginationLoading)
	assert.Equal(t, 1, during.Pagination.PageIndex)
	assert.False(t, ctrl.Snapshot().IsPaginationLoading)
}

func TestAssetsController_RejectsInvalidState(t *testing.T) {
	ctx := context.Background()
	client := new(MockClient)
	ctrl := NewAssetsController(client)

	err := ctrl.ChangePagination(ctx, inventory.PaginationState{PageIndex: -1, PageSize: 10})
	assert.ErrorIs(t, err, shared.ErrInvalidInput)
	err = ctrl.ChangePagination(ctx, inventory.PaginationState{PageIndex: 0, PageSize: 0})
	assert.ErrorIs(t, err, shared.ErrInvalidInput)
	err = ctrl.ChangeFilters(ctx, inventory.FiltersState{Type: "host", Status: inventory.StatusAll})
	assert.ErrorIs(t, err, shared.ErrInvalidInput)

	client.AssertNotCalled(t, "Assets", mock.Anything, mock.Anything)
}

// A slow response for an older filter must not overwrite the newer one.
func TestAssetsController_StaleResponseDiscarded(t *testing.T) {
	ctx := context.Background()
	client := new(MockClient)
	ctrl := NewAssetsController(client)

	activeStarted := make(chan struct{})
	releaseActive := make(chan struct{})
	activePage := inventorytest.Page(10, 1, 10, 100)
	inactivePage := inventorytest.Page(3, 1, 10, 3)

	client.On("Assets", mock.Anything, statusQuery(inventory.StatusActive)).Run(func(mock.Arguments) {
		close(activeStarted)
		<-releaseActive
	}).Return(activePage, nil).Once()
	client.On("Assets", mock.Anything, statusQuery(inventory.StatusInactive)).Return(inactivePage, nil).Once()

	done := make(chan error, 1)
	go func() {
		done <- ctrl.ChangeFilters(ctx, inventory.FiltersState{Status: inventory.StatusActive})
	}()
	<-activeStarted

	require.NoError(t, ctrl.ChangeFilters(ctx, inventory.FiltersState{Status: inventory.StatusInactive}))
	close(releaseActive)
	require.NoError(t, <-done)

	snap := ctrl.Snapshot()
	assert.Equal(t, inventory.StatusInactive, snap.Filters.Status)
	assert.Equal(t, inactivePage.Assets, snap.Items)
	assert.Equal(t, 3, snap.TotalCount)
	assert.False(t, snap.IsPaginationLoading)
	assert.False(t, snap.IsInitialLoading)
	client.AssertExpectations(t)
}

func TestAssetsController_StaleFailureDiscarded(t *testing.T) {
	ctx := context.Background()
	client := new(MockClient)
	ctrl := NewAssetsController(client)

	firstStarted := make(chan struct{})
	releaseFirst := make(chan struct{})
	client.On("Assets", mock.Anything, pageQuery(2)).Run(func(mock.Arguments) {
		close(firstStarted)
		<-releaseFirst
	}).Return(nil, apiclient.ErrServer).Once()
	client.On("Assets", mock.Anything, pageQuery(3)).Return(inventorytest.Page(10, 3, 10, 50), nil).Once()

	done := make(chan error, 1)
	go func() {
		done <- ctrl.ChangePagination(ctx, inventory.PaginationState{PageIndex: 1, PageSize: 10})
	}()
	<-firstStarted
	require.NoError(t, ctrl.ChangePagination(ctx, inventory.PaginationState{PageIndex: 2, PageSize: 10}))
	close(releaseFirst)
	assert.ErrorIs(t, <-done, apiclient.ErrServer)

	snap := ctrl.Snapshot()
	assert.Empty(t, snap.Error)
	assert.Equal(t, 2, snap.Pagination.PageIndex)
	assert.Len(t, snap.Items, 10)
}

func TestAssetsController_LocalSearchAndSort(t *testing.T) {
	ctx := context.Background()
	page := &inventory.AssetsPage{
		Assets: []inventory.Asset{
			{ID: "1", Type: inventory.AssetTypeDomain, Identifier: "mail.acme.io"},
			{ID: "2", Type: inventory.AssetTypeDomain, Identifier: "api.acme.io"},
			{ID: "3", Type: inventory.AssetTypeIP, Identifier: "10.0.0.1"},
		},
		Pagination: inventory.PageInfo{Page: 1, Limit: 10, Total: 3},
	}
	client := new(MockClient)
	client.On("Assets", mock.Anything, mock.MatchedBy(func(q inventory.AssetQuery) bool {
		return q.Sort == "" && q.Order == ""
	})).Return(page, nil)

	ctrl := NewAssetsController(client)
	require.NoError(t, ctrl.Load(ctx))
	require.NoError(t, ctrl.ChangeSorting(ctx, inventory.SortingState{{ColumnID: inventory.ColumnIdentifier}}))

	snap := ctrl.Snapshot()
	assert.Equal(t, []string{"1", "2", "3"}, assetIDs(snap.Items))
	assert.Equal(t, []string{"3", "2", "1"}, assetIDs(snap.Rows))

	require.NoError(t, ctrl.ChangeFilters(ctx, inventory.FiltersState{Status: inventory.StatusAll, Search: "ACME"}))
	snap = ctrl.Snapshot()
	assert.Equal(t, []string{"2", "1"}, assetIDs(snap.Rows))
	assert.Equal(t, 3, snap.TotalCount)
}

func TestAssetsController_ServerSideSort(t *testing.T) {
	ctx := context.Background()
	client := new(MockClient)
	client.On("Assets", mock.Anything, mock.MatchedBy(func(q inventory.AssetQuery) bool {
		return q.Sort == inventory.ColumnLastSeen && q.Order == "desc"
	})).Return(inventorytest.Page(4, 1, 10, 4), nil).Once()

	ctrl := NewAssetsController(client, WithServerSideSort(true))
	require.NoError(t, ctrl.ChangeSorting(ctx, inventory.SortingState{{ColumnID: inventory.ColumnLastSeen, Desc: true}}))

	snap := ctrl.Snapshot()
	assert.Equal(t, assetIDs(snap.Items), assetIDs(snap.Rows))
	client.AssertExpectations(t)
}

func assetIDs(assets []inventory.Asset) []string {
	out := make([]string, len(assets))
	for i, a := range assets {
		out[i] = a.ID
	}
	return out
}

func TestAssetsController_Reset(t *testing.T) {
	ctx := context.Background()
	client := new(MockClient)
	client.On("Assets", mock.Anything, mock.Anything).Return(inventorytest.Page(10, 3, 20, 100), nil).Once()

	ctrl := NewAssetsController(client, WithPageSize(20))
	assert.False(t, ctrl.Loaded())
	require.NoError(t, ctrl.ChangePagination(ctx, inventory.PaginationState{PageIndex: 2, PageSize: 20}))
	assert.True(t, ctrl.Loaded())

	ctrl.Reset()
	snap := ctrl.Snapshot()
	assert.False(t, ctrl.Loaded())
	assert.Empty(t, snap.Items)
	assert.Zero(t, snap.TotalCount)
	assert.True(t, snap.IsInitialLoading)
	assert.Equal(t, inventory.PaginationState{PageIndex: 0, PageSize: 20}, snap.Pagination)
}
