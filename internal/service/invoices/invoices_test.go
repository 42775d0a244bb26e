package invoices_test

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"

	"dispatcherhub/internal/apperr"
	"dispatcherhub/internal/domain"
	"dispatcherhub/internal/metrics"
	"dispatcherhub/internal/service/invoices"
	testlog "dispatcherhub/internal/testutil"
)

func newCtrl(t *testing.T) *gomock.Controller {
	t.Helper()
	ctrl := gomock.NewController(t)
	t.Cleanup(ctrl.Finish)
	return ctrl
}

func TestService_List(t *testing.T) {
	t.Parallel()

	repo := NewMockRepository(newCtrl(t))
	want := []domain.Invoice{{ID: 1, LoadID: 3, Amount: 10}}
	repo.EXPECT().List(gomock.Any()).Return(want, nil)

	got, err := invoices.NewService(repo, 0).List(context.Background())
	require.NoError(t, err)
	require.Equal(t, want, got)
}

func TestService_List_Error(t *testing.T) {
	t.Parallel()

	repo := NewMockRepository(newCtrl(t))
	repo.EXPECT().List(gomock.Any()).Return(nil, errors.New("boom"))

	_, err := invoices.NewService(repo, time.Second).List(context.Background())
	require.EqualError(t, err, "boom")
}

func TestInvoicer_Handle_Invoiced_CreatesInvoice(t *testing.T) {
	t.Parallel()

	repo := NewMockRepository(newCtrl(t))
	repo.EXPECT().CreateForLoad(gomock.Any(), int64(5), 2300.0, true).Return(nil)
	m := metrics.NewDomain(nil)

	inv := invoices.NewInvoicer(repo, true, m, nil, 0)
	err := inv.Handle(context.Background(), domain.LoadStatusChanged{LoadID: 5, To: domain.StatusInvoiced, Rate: 2300})

	require.NoError(t, err)
	require.Equal(t, 1.0, testutil.ToFloat64(m.InvoicesCreated))
}

func TestInvoicer_Handle_Invoiced_ConflictIsIgnored(t *testing.T) {
	t.Parallel()

	repo := NewMockRepository(newCtrl(t))
	repo.EXPECT().
		CreateForLoad(gomock.Any(), int64(5), 10.0, false).
		Return(fmt.Errorf("create invoice for load 5: %w", apperr.ErrConflict))
	m := metrics.NewDomain(nil)
	rec := testlog.New()

	inv := invoices.NewInvoicer(repo, false, m, rec.Logger(), 0)
	require.NoError(t, inv.Handle(context.Background(), domain.LoadStatusChanged{LoadID: 5, To: domain.StatusInvoiced, Rate: 10}))
	require.Zero(t, testutil.ToFloat64(m.InvoicesCreated))
	require.Equal(t, []string{"invoice already exists"}, rec.Messages("debug"))
}

func TestInvoicer_Handle_Invoiced_RepoError(t *testing.T) {
	t.Parallel()

	boom := errors.New("db down")
	repo := NewMockRepository(newCtrl(t))
	repo.EXPECT().CreateForLoad(gomock.Any(), int64(5), 10.0, false).Return(boom)

	inv := invoices.NewInvoicer(repo, false, nil, nil, 0)
	err := inv.Handle(context.Background(), domain.LoadStatusChanged{LoadID: 5, To: domain.StatusInvoiced, Rate: 10})
	require.ErrorIs(t, err, boom)
}

func TestInvoicer_Handle_Paid_MarksPaid(t *testing.T) {
	t.Parallel()

	at := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	repo := NewMockRepository(newCtrl(t))
	repo.EXPECT().MarkPaid(gomock.Any(), int64(8), at).Return(true, nil)

	inv := invoices.NewInvoicer(repo, false, nil, nil, 0)
	require.NoError(t, inv.Handle(context.Background(), domain.LoadStatusChanged{LoadID: 8, To: domain.StatusPaid, ChangedAt: at}))
}

func TestInvoicer_Handle_Paid_ZeroTimeUsesNow(t *testing.T) {
	t.Parallel()

	before := time.Now().UTC()
	repo := NewMockRepository(newCtrl(t))
	repo.EXPECT().
		MarkPaid(gomock.Any(), int64(8), gomock.Any()).
		DoAndReturn(func(_ context.Context, _ int64, at time.Time) (bool, error) {
			require.False(t, at.Before(before))
			return false, nil
		})

	inv := invoices.NewInvoicer(repo, false, nil, nil, 0)
	require.NoError(t, inv.Handle(context.Background(), domain.LoadStatusChanged{LoadID: 8, To: domain.StatusPaid}))
}

func TestInvoicer_Handle_OtherStatusesIgnored(t *testing.T) {
	t.Parallel()

	// No expectations: any repository call fails the test.
	repo := NewMockRepository(newCtrl(t))
	inv := invoices.NewInvoicer(repo, false, nil, nil, 0)

	for _, s := range []domain.LoadStatus{domain.StatusBooked, domain.StatusInTransit, domain.StatusDelivered} {
		require.NoError(t, inv.Handle(context.Background(), domain.LoadStatusChanged{LoadID: 1, To: s}))
	}
}
