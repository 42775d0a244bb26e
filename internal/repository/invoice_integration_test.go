//go:build integration

package repository_test

import (
	"context"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/suite"

	"dispatcherhub/internal/apperr"
	"dispatcherhub/internal/domain"
	"dispatcherhub/internal/repository"
)

type InvoiceRepositorySuite struct {
	suite.Suite
	pool  *pgxpool.Pool
	loads *repository.LoadRepo
	repo  *repository.InvoiceRepo
}

func (s *InvoiceRepositorySuite) SetupSuite() {
	s.Require().NotNil(tcPool, "tcPool must be initialized in TestMain")

	s.pool = tcPool
	s.loads = repository.NewLoadRepo(tcPool)
	s.repo = repository.NewInvoiceRepo(tcPool)
}

func (s *InvoiceRepositorySuite) SetupTest() {
	s.Require().NoError(truncateAll(context.Background(), s.pool))
}

func (s *InvoiceRepositorySuite) newLoad() int64 {
	id, err := s.loads.Create(context.Background(), domain.NewLoad{
		Origin: "Atlanta, GA", Destination: "Miami, FL", Rate: 1800, Status: domain.StatusInvoiced,
	})
	s.Require().NoError(err)
	return id
}

func (s *InvoiceRepositorySuite) TestCreateForLoad_OncePerLoad() {
	ctx := context.Background()
	loadID := s.newLoad()

	s.Require().NoError(s.repo.CreateForLoad(ctx, loadID, 1800, true))

	err := s.repo.CreateForLoad(ctx, loadID, 1800, true)
	s.Require().ErrorIs(err, apperr.ErrConflict)
	s.False(repository.IsForeignKey(err))

	got, err := s.repo.List(ctx)
	s.Require().NoError(err)
	s.Require().Len(got, 1)
	s.Equal(loadID, got[0].LoadID)
	s.InDelta(1800, got[0].Amount, 0)
	s.True(got[0].Factoring)
	s.Nil(got[0].PaidAt)
	s.False(got[0].CreatedAt.IsZero())
}

func (s *InvoiceRepositorySuite) TestCreateForLoad_MissingLoadIsForeignKey() {
	err := s.repo.CreateForLoad(context.Background(), 404, 10, false)
	s.Require().Error(err)
	s.True(repository.IsForeignKey(err))
}

func (s *InvoiceRepositorySuite) TestMarkPaid() {
	ctx := context.Background()
	loadID := s.newLoad()

	paid, err := s.repo.MarkPaid(ctx, loadID, time.Now())
	s.Require().NoError(err)
	s.False(paid, "no invoice yet")

	s.Require().NoError(s.repo.CreateForLoad(ctx, loadID, 1800, false))

	at := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	paid, err = s.repo.MarkPaid(ctx, loadID, at)
	s.Require().NoError(err)
	s.True(paid)

	paid, err = s.repo.MarkPaid(ctx, loadID, at.Add(time.Hour))
	s.Require().NoError(err)
	s.False(paid, "already paid")

	got, err := s.repo.List(ctx)
	s.Require().NoError(err)
	s.Require().NotNil(got[0].PaidAt)
	s.True(at.Equal(*got[0].PaidAt))
}

func TestInvoiceRepositorySuite(t *testing.T) {
	suite.Run(t, new(InvoiceRepositorySuite))
}
