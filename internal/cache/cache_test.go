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
package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
)

func newTestCache(t *testing.T) *RedisCache {
	mr := miniredis.RunT(t)
	c, err := newRedisCache([]string{mr.Addr()})
	assert.NoError(t, err)
	return c
}

func TestSetGet(t *testing.T) {
	c := newTestCache(t)
	ctx := context.Background()

	partners := []string{"own_1", "own_2"}
	err := c.Set(ctx, "partners:own_9", partners, time.Minute)
	assert.NoError(t, err)

	var got []string
	err = c.Get(ctx, "partners:own_9", &got)
	assert.NoError(t, err)
	assert.Equal(t, partners, got)
}

func TestGetMissIsNil(t *testing.T) {
	c := newTestCache(t)

	var got []string
	err := c.Get(context.Background(), "partners:missing", &got)
	assert.NoError(t, err)
	assert.Empty(t, got)
}

func TestDelete(t *testing.T) {
	c := newTestCache(t)
	ctx := context.Background()

	assert.NoError(t, c.Set(ctx, "stats:own_1:month", map[string]int{"completed": 3}, time.Minute))
	assert.NoError(t, c.Delete(ctx, "stats:own_1:month"))

	var got map[string]int
	assert.NoError(t, c.Get(ctx, "stats:own_1:month", &got))
	assert.Empty(t, got)
}
