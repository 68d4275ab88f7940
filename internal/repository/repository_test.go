package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/Windi-Fikriyansyah/joki_seeder/internal/batch"
	"github.com/Windi-Fikriyansyah/joki_seeder/internal/db"
	"github.com/Windi-Fikriyansyah/joki_seeder/internal/errs"
	"github.com/Windi-Fikriyansyah/joki_seeder/internal/models"
)

type RepositoryTestSuite struct {
	suite.Suite
	db    *gorm.DB
	store *Store
}

func (s *RepositoryTestSuite) SetupTest() {
	gdb, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	s.Require().NoError(err)
	sqlDB, err := gdb.DB()
	s.Require().NoError(err)
	sqlDB.SetMaxOpenConns(1)

	s.Require().NoError(db.Migrate(gdb))
	s.db = gdb
	s.store = NewStore(gdb)
}

func (s *RepositoryTestSuite) TearDownTest() {
	sqlDB, _ := s.db.DB()
	sqlDB.Close()
}

func TestRepositoryTestSuite(t *testing.T) {
	suite.Run(t, new(RepositoryTestSuite))
}

func newUser(email, slug string, freelancer bool) *models.User {
	u := &models.User{
		Base:     models.Base{ID: uuid.New()},
		Name:     "Test User",
		Email:    email,
		Password: "hash",
		Role:     models.RoleClient,
		IsActive: true,
	}
	u.Profile.Slug = slug
	if freelancer {
		u.Role = models.RoleFreelancer
		u.FreelancerProfile = &models.FreelancerProfile{
			UserID:     u.ID,
			Title:      "Go Developer",
			HourlyRate: 50,
			Skills:     []string{"Go"},
		}
	}
	return u
}

func (s *RepositoryTestSuite) TestInsertManyStoresUsersWithProfiles() {
	ctx := context.Background()
	users := []*models.User{
		newUser("a@seed.test", "alice-a", true),
		newUser("b@seed.test", "bob-b", false),
	}

	out, err := s.store.Users.InsertMany(ctx, users)
	s.Require().NoError(err)
	s.Len(out, 2)

	n, err := s.store.Users.Count(ctx)
	s.Require().NoError(err)
	s.EqualValues(2, n)

	n, err = s.store.Profiles.Count(ctx)
	s.Require().NoError(err)
	s.EqualValues(1, n)

	slugs, err := s.store.Slugs(ctx)
	s.Require().NoError(err)
	s.ElementsMatch([]string{"alice-a", "bob-b"}, slugs)
}

func (s *RepositoryTestSuite) TestInsertManyIsAllOrNothing() {
	ctx := context.Background()
	_, err := s.store.Users.InsertMany(ctx, []*models.User{newUser("dup@seed.test", "first-one", false)})
	s.Require().NoError(err)

	_, err = s.store.Users.InsertMany(ctx, []*models.User{
		newUser("fresh@seed.test", "second-one", false),
		newUser("dup@seed.test", "third-one", false),
	})
	s.Require().Error(err)
	s.Equal(errs.Database, errs.CategoryOf(err))

	n, err := s.store.Users.Count(ctx)
	s.Require().NoError(err)
	s.EqualValues(1, n)
}

func (s *RepositoryTestSuite) TestInsertManyEmptyBatch() {
	out, err := s.store.Reviews.InsertMany(context.Background(), nil)
	s.NoError(err)
	s.Empty(out)
}

func (s *RepositoryTestSuite) TestClearAllAndCounts() {
	ctx := context.Background()
	client := newUser("c@seed.test", "client-c", false)
	_, err := s.store.Users.InsertMany(ctx, []*models.User{client, newUser("f@seed.test", "free-f", true)})
	s.Require().NoError(err)
	_, err = s.store.Projects.InsertMany(ctx, []*models.Project{{
		Base:     models.Base{ID: uuid.New()},
		ClientID: client.ID,
		Title:    "Landing page",
		Status:   models.ProjectOpen,
	}})
	s.Require().NoError(err)

	has, err := s.store.HasData(ctx)
	s.Require().NoError(err)
	s.True(has)

	counts, err := s.store.Counts(ctx)
	s.Require().NoError(err)
	s.EqualValues(2, counts[models.KindUser])
	s.EqualValues(1, counts[models.KindProject])
	s.EqualValues(0, counts[models.KindReview])
	s.NotContains(counts, models.Kind("freelancer_profile"))

	s.Require().NoError(s.store.ClearAll(ctx))
	counts, err = s.store.Counts(ctx)
	s.Require().NoError(err)
	for k, n := range counts {
		s.Zerof(n, "%s not cleared", k)
	}
	n, err := s.store.Profiles.Count(ctx)
	s.Require().NoError(err)
	s.Zero(n)

	has, err = s.store.HasData(ctx)
	s.Require().NoError(err)
	s.False(has)
}

func TestFailedInsertIsRetriedByBatchProcessor(t *testing.T) {
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer sqlDB.Close()

	gdb, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	mock.ExpectBegin()
	mock.ExpectExec(`INSERT INTO "reviews"`).WillReturnError(errors.New("connection reset by peer"))
	mock.ExpectRollback()
	mock.ExpectBegin()
	mock.ExpectExec(`INSERT INTO "reviews"`).WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectCommit()

	reviews := NewStore(gdb).Reviews
	items := []*models.Review{
		{Base: models.Base{ID: uuid.New()}, ContractID: uuid.New(), ReviewerID: uuid.New(), RevieweeID: uuid.New(), Rating: 5, Direction: models.ClientToFreelancer},
		{Base: models.Base{ID: uuid.New()}, ContractID: uuid.New(), ReviewerID: uuid.New(), RevieweeID: uuid.New(), Rating: 4, Direction: models.FreelancerToClient},
	}

	res := batch.ProcessBatch(context.Background(), items, reviews.InsertMany, batch.Options{
		BatchSize:     10,
		Concurrency:   1,
		RetryAttempts: 2,
		RetryDelay:    time.Millisecond,
	})

	assert.Empty(t, res.Errors)
	assert.Equal(t, 2, res.SuccessCount)
	assert.NoError(t, mock.ExpectationsWereMet())
}
