package approvalexpiry

import (
	"context"
	goerrors "errors"
	"testing"
	"time"

	"approval-reminders/internal/common/database"
	"approval-reminders/internal/common/logger"
	"approval-reminders/internal/models"

	"github.com/go-redis/redismock/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestCachedResolver_WritesWithConfiguredTTL(t *testing.T) {
	redisClient, redisMock := redismock.NewClientMock()
	rc := &database.RedisClient{Client: redisClient}

	lookup := new(MockAccountLookup)
	lookup.On("QueryAccountByUID", mock.Anything, "u-7").
		Return(&models.AccountRecord{UID: "u-7", AccountName: "Teck Trail"}, nil).Once()

	redisMock.ExpectGet("reminders:account:u-7").RedisNil()
	redisMock.ExpectSet("reminders:account:u-7", "Teck Trail", 90*time.Minute).SetVal("OK")

	resolver := NewCachedResolver(lookup, rc, 90*time.Minute, "reminders", logger.NewTestLogger(t))
	name, err := resolver.ResolveAccountName(context.Background(), "u-7")

	require.NoError(t, err)
	assert.Equal(t, "Teck Trail", name)
	assert.NoError(t, redisMock.ExpectationsWereMet())
	lookup.AssertExpectations(t)
}

func TestCachedResolver_WriteFailureStillResolves(t *testing.T) {
	redisClient, redisMock := redismock.NewClientMock()
	rc := &database.RedisClient{Client: redisClient}

	lookup := new(MockAccountLookup)
	lookup.On("QueryAccountByUID", mock.Anything, "u-8").
		Return(&models.AccountRecord{UID: "u-8", AccountName: "Acme Smelting"}, nil).Once()

	redisMock.ExpectGet("reminders:account:u-8").SetErr(goerrors.New("READONLY replica"))
	redisMock.ExpectSet("reminders:account:u-8", "Acme Smelting", time.Hour).SetErr(goerrors.New("READONLY replica"))

	resolver := NewCachedResolver(lookup, rc, time.Hour, "reminders", logger.NewTestLogger(t))
	name, err := resolver.ResolveAccountName(context.Background(), "u-8")

	require.NoError(t, err)
	assert.Equal(t, "Acme Smelting", name)
	assert.NoError(t, redisMock.ExpectationsWereMet())
}
