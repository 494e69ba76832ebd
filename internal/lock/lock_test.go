/*
Copyright 2024 Lorrybook Authors.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package redlock

import (
	"context"
	"testing"
	"time"

	"github.com/go-redis/redismock/v9"
	"github.com/stretchr/testify/assert"
)

func TestLockerLockSuccess(t *testing.T) {
	db, mock := redismock.NewClientMock()
	locker := NewLocker(db, "settlement:stl_1", "holder-1")

	mock.ExpectSetNX("settlement:stl_1", "holder-1", 5*time.Second).SetVal(true)

	err := locker.Lock(context.Background(), 5*time.Second)
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLockerLockAlreadyHeld(t *testing.T) {
	db, mock := redismock.NewClientMock()
	locker := NewLocker(db, "settlement:stl_1", "holder-1")

	mock.ExpectSetNX("settlement:stl_1", "holder-1", 5*time.Second).SetVal(false)

	err := locker.Lock(context.Background(), 5*time.Second)
	assert.EqualError(t, err, "lock for key settlement:stl_1 is already held")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLockerUnlockSuccess(t *testing.T) {
	db, mock := redismock.NewClientMock()
	locker := NewLocker(db, "settlement:stl_1", "holder-1")

	script := "if redis.call('get', KEYS[1]) == ARGV[1] then return redis.call('del', KEYS[1]) else return 0 end"
	mock.ExpectEval(script, []string{"settlement:stl_1"}, "holder-1").SetVal(int64(1))

	err := locker.Unlock(context.Background())
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLockerUnlockNotHolder(t *testing.T) {
	db, mock := redismock.NewClientMock()
	locker := NewLocker(db, "settlement:stl_1", "holder-1")

	script := "if redis.call('get', KEYS[1]) == ARGV[1] then return redis.call('del', KEYS[1]) else return 0 end"
	mock.ExpectEval(script, []string{"settlement:stl_1"}, "holder-1").SetVal(int64(0))

	err := locker.Unlock(context.Background())
	assert.EqualError(t, err, "unlock failed, either lock expired or you're not the lock holder for key settlement:stl_1")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLockerWaitLockAcquiresAfterRelease(t *testing.T) {
	db, mock := redismock.NewClientMock()
	locker := NewLocker(db, "settlement:stl_1", "holder-1")

	mock.ExpectSetNX("settlement:stl_1", "holder-1", time.Second).SetVal(false)
	mock.ExpectSetNX("settlement:stl_1", "holder-1", time.Second).SetVal(true)

	err := locker.WaitLock(context.Background(), time.Second, 2*time.Second)
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
