//go:build integration
// +build integration

package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"taskflow-backend/internal/database/models"
	apperrors "taskflow-backend/internal/errors"
	"taskflow-backend/internal/testutils"

	"github.com/stretchr/testify/suite"
)

// PostgresSignupTestSuite races invite redemption on a real Postgres, where
// transactions run concurrently instead of on a single connection
type PostgresSignupTestSuite struct {
	suite.Suite
	base *testutils.BaseTestSuite
	h    *harness
}

func (suite *PostgresSignupTestSuite) SetupSuite() {
	suite.base = testutils.SetupTestSuite(suite.T())
}

func (suite *PostgresSignupTestSuite) SetupTest() {
	suite.base.CleanTestDB()
	suite.h = newHarnessOn(suite.T(), suite.base.DB)
}

func (suite *PostgresSignupTestSuite) TearDownSuite() {
	suite.base.TeardownTestSuite()
}

func (suite *PostgresSignupTestSuite) redeemConcurrently(code string, emails []string) (success, used int, other []error) {
	var (
		wg sync.WaitGroup
		mu sync.Mutex
	)
	for _, email := range emails {
		wg.Add(1)
		go func(email string) {
			defer wg.Done()
			_, err := suite.h.signup.RedeemInvite(context.Background(), &InviteSignupRequest{
				Email:    email,
				Password: "password123",
				Code:     code,
			})
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				success++
			case errors.Is(err, apperrors.ErrInviteAlreadyUsed):
				used++
			default:
				other = append(other, err)
			}
		}(email)
	}
	wg.Wait()
	return success, used, other
}

func (suite *PostgresSignupTestSuite) TestSameEmailRace() {
	org := suite.h.fixture.Org("Acme")
	invite := suite.h.fixture.Invite(org.Manager, models.RoleEmployee, time.Hour)

	emails := make([]string, 8)
	for i := range emails {
		emails[i] = "newcomer@acme.test"
	}
	success, used, other := suite.redeemConcurrently(invite.Code, emails)

	suite.Empty(other)
	suite.Equal(1, success)
	suite.Equal(len(emails)-1, used)

	var joined models.User
	suite.Require().NoError(suite.base.DB.Where("email = ?", "newcomer@acme.test").First(&joined).Error)

	var stored models.Invite
	suite.Require().NoError(suite.base.DB.First(&stored, "id = ?", invite.ID).Error)
	suite.True(stored.IsUsed)
	suite.Require().NotNil(stored.UsedByID)
	suite.Equal(joined.ID, *stored.UsedByID)
}

func (suite *PostgresSignupTestSuite) TestDistinctEmailRace() {
	org := suite.h.fixture.Org("Acme")
	invite := suite.h.fixture.Invite(org.Manager, models.RoleEmployee, time.Hour)

	emails := []string{"a@acme.test", "b@acme.test", "c@acme.test", "d@acme.test", "e@acme.test"}
	success, used, other := suite.redeemConcurrently(invite.Code, emails)

	suite.Empty(other)
	suite.Equal(1, success)
	suite.Equal(len(emails)-1, used)

	var joined int64
	suite.Require().NoError(suite.base.DB.Model(&models.User{}).Where("email IN ?", emails).Count(&joined).Error)
	suite.Equal(int64(1), joined)
}

func TestPostgresSignupTestSuite(t *testing.T) {
	suite.Run(t, new(PostgresSignupTestSuite))
}
