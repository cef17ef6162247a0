package courierrepo_test

import (
	"context"
	"testing"

	"pharmacy/internal/adapters/out/postgres/courierrepo"
	"pharmacy/internal/core/domain/model/courier"
	"pharmacy/internal/core/domain/model/kernel"
	"pharmacy/internal/pkg/errs"

	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	gorm_postgres "gorm.io/driver/postgres"
	"gorm.io/gorm"
)

type CourierRepositoryIntegrationTestSuite struct {
	suite.Suite
	container *postgres.PostgresContainer
	db        *gorm.DB
	repo      *courierrepo.GormCourierRepository
}

func TestCourierRepositoryIntegrationTestSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("integration test needs docker")
	}
	suite.Run(t, new(CourierRepositoryIntegrationTestSuite))
}

func (s *CourierRepositoryIntegrationTestSuite) SetupSuite() {
	ctx := context.Background()

	container, err := postgres.Run(ctx,
		"postgres:15-alpine",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("testuser"),
		postgres.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(wait.ForLog("database system is ready to accept connections").
			WithOccurrence(2)),
	)
	s.Require().NoError(err)
	s.container = container

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	s.Require().NoError(err)

	db, err := gorm.Open(gorm_postgres.Open(dsn), &gorm.Config{})
	s.Require().NoError(err)
	s.db = db

	s.Require().NoError(db.AutoMigrate(&courierrepo.CourierDTO{}))
	s.repo = courierrepo.NewGormCourierRepository(db)
}

func (s *CourierRepositoryIntegrationTestSuite) SetupTest() {
	s.Require().NoError(s.db.Exec("TRUNCATE TABLE couriers").Error)
}

func (s *CourierRepositoryIntegrationTestSuite) TearDownSuite() {
	if s.container != nil {
		s.Require().NoError(s.container.Terminate(context.Background()))
	}
}

func (s *CourierRepositoryIntegrationTestSuite) newCourier(name string) *courier.Courier {
	c, err := courier.NewCourier(kernel.NewUUID(), name)
	s.Require().NoError(err)
	s.Require().NoError(s.repo.Add(context.Background(), c))
	return c
}

func (s *CourierRepositoryIntegrationTestSuite) TestAddAndGet() {
	c := s.newCourier("Karim")

	loaded, err := s.repo.Get(context.Background(), c.ID())

	s.Require().NoError(err)
	s.True(c.IsEqual(loaded))
	s.Equal("Karim", loaded.Name())
	s.True(loaded.IsAvailable())
	s.Equal(int64(0), loaded.Version())
}

func (s *CourierRepositoryIntegrationTestSuite) TestGetUnknownCourier() {
	_, err := s.repo.Get(context.Background(), kernel.NewUUID())

	s.Require().ErrorIs(err, errs.ErrObjectNotFound)
}

func (s *CourierRepositoryIntegrationTestSuite) TestReserveAndRelease() {
	ctx := context.Background()
	c := s.newCourier("Karim")
	orderID := kernel.NewUUID()

	loaded, err := s.repo.Get(ctx, c.ID())
	s.Require().NoError(err)
	s.Require().NoError(loaded.Reserve(orderID))
	s.Require().NoError(s.repo.Update(ctx, loaded))

	busy, err := s.repo.Get(ctx, c.ID())
	s.Require().NoError(err)
	s.False(busy.IsAvailable())
	s.Require().NotNil(busy.CurrentOrderID())
	s.Equal(orderID, *busy.CurrentOrderID())
	s.Equal(int64(1), busy.Version())

	s.Require().NoError(busy.Release(orderID))
	s.Require().NoError(s.repo.Update(ctx, busy))

	free, err := s.repo.Get(ctx, c.ID())
	s.Require().NoError(err)
	s.True(free.IsAvailable())
	s.Equal(int64(2), free.Version())
}

func (s *CourierRepositoryIntegrationTestSuite) TestConcurrentReservationConflicts() {
	ctx := context.Background()
	c := s.newCourier("Karim")

	first, err := s.repo.Get(ctx, c.ID())
	s.Require().NoError(err)
	second, err := s.repo.Get(ctx, c.ID())
	s.Require().NoError(err)
	s.Require().NoError(first.Reserve(kernel.NewUUID()))
	s.Require().NoError(second.Reserve(kernel.NewUUID()))

	s.Require().NoError(s.repo.Update(ctx, first))
	err = s.repo.Update(ctx, second)

	s.Require().ErrorIs(err, errs.ErrStaleState)
}

func (s *CourierRepositoryIntegrationTestSuite) TestListAvailable() {
	ctx := context.Background()
	yasmine := s.newCourier("Yasmine")
	busy := s.newCourier("Amine")
	karim := s.newCourier("Karim")

	loaded, err := s.repo.Get(ctx, busy.ID())
	s.Require().NoError(err)
	s.Require().NoError(loaded.Reserve(kernel.NewUUID()))
	s.Require().NoError(s.repo.Update(ctx, loaded))

	available, err := s.repo.ListAvailable(ctx)

	s.Require().NoError(err)
	s.Require().Len(available, 2)
	s.Equal(karim.ID(), available[0].ID())
	s.Equal(yasmine.ID(), available[1].ID())
}
